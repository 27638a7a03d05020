package gateway

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"payflow/app/models/payment"
)

// fixedRand 确定性随机源
type fixedRand struct {
	float float64
	intn  int
}

func (r fixedRand) Float64() float64 { return r.float }
func (r fixedRand) Intn(n int) int   { return r.intn }

func noSleep(ctx context.Context, d time.Duration) error { return nil }

func testPayment() *payment.Payment {
	return payment.New("ORD-1", decimal.NewFromInt(100), "CARD", payment.StatusProcessing)
}

func TestSandboxCharge_Approved(t *testing.T) {
	g := NewSandboxGateway(
		SandboxConfig{SuccessRate: 0.9, MaxDelay: time.Second},
		WithRandSource(fixedRand{float: 0.0}),
		WithSleepFunc(noSleep),
	)

	result, err := g.Charge(context.Background(), testPayment())

	require.NoError(t, err)
	require.True(t, result.Approved)
	require.Equal(t, SandboxApprovedMessage, result.Message)
}

func TestSandboxCharge_Declined(t *testing.T) {
	g := NewSandboxGateway(
		SandboxConfig{SuccessRate: 0.9, MaxDelay: time.Second},
		WithRandSource(fixedRand{float: 0.95}),
		WithSleepFunc(noSleep),
	)

	result, err := g.Charge(context.Background(), testPayment())

	require.NoError(t, err)
	require.False(t, result.Approved)
	require.Equal(t, SandboxDeclinedMessage, result.Message)
}

func TestSandboxCharge_SuccessRateBoundary(t *testing.T) {
	// Float64 恰好等于成功率时判定为拒绝
	g := NewSandboxGateway(
		SandboxConfig{SuccessRate: 0.9, MaxDelay: time.Second},
		WithRandSource(fixedRand{float: 0.9}),
		WithSleepFunc(noSleep),
	)

	result, err := g.Charge(context.Background(), testPayment())

	require.NoError(t, err)
	require.False(t, result.Approved)
}

func TestSandboxCharge_DelayBounded(t *testing.T) {
	var slept time.Duration
	g := NewSandboxGateway(
		SandboxConfig{SuccessRate: 1, MaxDelay: 500 * time.Millisecond},
		WithRandSource(fixedRand{float: 0.0, intn: 500}),
		WithSleepFunc(func(ctx context.Context, d time.Duration) error {
			slept = d
			return nil
		}),
	)

	_, err := g.Charge(context.Background(), testPayment())

	require.NoError(t, err)
	require.LessOrEqual(t, slept, 500*time.Millisecond)
}

func TestSandboxCharge_ContextCanceled(t *testing.T) {
	g := NewSandboxGateway(
		SandboxConfig{SuccessRate: 1, MaxDelay: time.Second},
		WithRandSource(fixedRand{float: 0.0, intn: 1000}),
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := g.Charge(ctx, testPayment())

	require.ErrorIs(t, err, context.Canceled)
	require.Nil(t, result)
}

func TestNewSandboxGateway_ConfigDefaults(t *testing.T) {
	g := NewSandboxGateway(SandboxConfig{SuccessRate: 1.5, MaxDelay: -1})

	require.Equal(t, 0.9, g.config.SuccessRate)
	require.Equal(t, time.Second, g.config.MaxDelay)
}
