package payment

import (
	"regexp"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	amount := decimal.RequireFromString("250.00")
	p := New("ORD-1", amount, "", StatusPending)

	require.Regexp(t, regexp.MustCompile(`^PMT-[0-9a-f]{8}$`), p.PaymentID)
	require.Equal(t, "ORD-1", p.OrderNumber)
	require.True(t, p.Amount.Equal(amount))
	require.Equal(t, StatusPending, p.Status)
	require.Equal(t, DefaultMethod, p.PaymentMethod, "支付方式缺省为 CARD")
	require.Equal(t, p.CreatedAt, p.UpdatedAt)
	require.Empty(t, p.GatewayResponse)
}

func TestNew_UniqueIDs(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		p := New("ORD-1", decimal.NewFromInt(1), "CARD", StatusProcessing)
		require.False(t, seen[p.PaymentID], "payment id %s duplicated", p.PaymentID)
		seen[p.PaymentID] = true
	}
}

func TestMarkProcessing(t *testing.T) {
	p := New("ORD-1", decimal.NewFromInt(100), "CARD", StatusPending)

	require.NoError(t, p.MarkProcessing())
	require.Equal(t, StatusProcessing, p.Status)
	require.False(t, p.UpdatedAt.Before(p.CreatedAt))

	// PROCESSING 不允许再次触发
	require.ErrorIs(t, p.MarkProcessing(), ErrInvalidTransition)
}

func TestMarkCompleted(t *testing.T) {
	p := New("ORD-1", decimal.NewFromInt(100), "CARD", StatusProcessing)

	require.NoError(t, p.MarkCompleted("ok"))
	require.Equal(t, StatusCompleted, p.Status)
	require.Equal(t, "ok", p.GatewayResponse)
	require.True(t, p.IsTerminal())
}

func TestMarkFailed(t *testing.T) {
	p := New("ORD-1", decimal.NewFromInt(100), "CARD", StatusProcessing)

	require.NoError(t, p.MarkFailed("declined"))
	require.Equal(t, StatusFailed, p.Status)
	require.Equal(t, "declined", p.GatewayResponse)
	require.True(t, p.IsTerminal())
}

func TestTransitions_ForwardOnly(t *testing.T) {
	tests := []struct {
		name string
		from Status
		move func(p *Payment) error
	}{
		{"PENDING 不能直接完成", StatusPending, func(p *Payment) error { return p.MarkCompleted("ok") }},
		{"PENDING 不能直接失败", StatusPending, func(p *Payment) error { return p.MarkFailed("no") }},
		{"COMPLETED 不能回到处理中", StatusCompleted, func(p *Payment) error { return p.MarkProcessing() }},
		{"COMPLETED 不能失败", StatusCompleted, func(p *Payment) error { return p.MarkFailed("no") }},
		{"FAILED 不能回到处理中", StatusFailed, func(p *Payment) error { return p.MarkProcessing() }},
		{"FAILED 不能完成", StatusFailed, func(p *Payment) error { return p.MarkCompleted("ok") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New("ORD-1", decimal.NewFromInt(100), "CARD", tt.from)
			require.ErrorIs(t, tt.move(p), ErrInvalidTransition)
			require.Equal(t, tt.from, p.Status, "状态不应变化")
		})
	}
}
