package eventbus

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// 订单服务的事件载荷使用 camelCase 字段名，这里锁定线上格式
func TestOrderCreatedEvent_WireFormat(t *testing.T) {
	raw := `{
		"orderNumber": "ORD-20260828-001",
		"customerEmail": "buyer@example.com",
		"totalAmount": 199.99,
		"createdAt": "2026-08-28T10:00:00Z"
	}`

	var event OrderCreatedEvent
	require.NoError(t, json.Unmarshal([]byte(raw), &event))

	require.Equal(t, "ORD-20260828-001", event.OrderNumber)
	require.Equal(t, "buyer@example.com", event.CustomerEmail)
	require.Equal(t, "199.99", event.TotalAmount.String())
	require.Empty(t, event.PaymentMethod, "缺省支付方式由消费方补齐")
}

func TestPaymentCompletedEvent_WireFormat(t *testing.T) {
	completedAt := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	event := PaymentCompletedEvent{
		PaymentID:   "PMT-a1b2c3d4",
		OrderNumber: "ORD-1",
		Amount:      decimal.RequireFromString("42.50"),
		Status:      "COMPLETED",
		CompletedAt: completedAt,
	}

	data, err := json.Marshal(event)
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &fields))
	require.Equal(t, "PMT-a1b2c3d4", fields["paymentId"])
	require.Equal(t, "ORD-1", fields["orderNumber"])
	require.Equal(t, "COMPLETED", fields["status"])
	require.Contains(t, fields, "amount")
	require.Contains(t, fields, "completedAt")
}

func TestBusMetrics(t *testing.T) {
	m := NewBusMetrics()

	m.RecordSuccess(OpPublish)
	m.RecordSuccess(OpProcess)
	m.RecordError(OpProcess)
	m.RecordPublishLatency(10 * time.Millisecond)

	snapshot := m.Snapshot()
	require.Equal(t, int64(3), snapshot.Total)
	require.Equal(t, int64(2), snapshot.Successful)
	require.Equal(t, int64(1), snapshot.Failed)
}
