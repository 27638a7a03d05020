package eventbus

import (
	"time"

	"github.com/shopspring/decimal"
)

// 业务主题
const (
	// TopicOrderCreated 订单服务发布的订单创建通知
	TopicOrderCreated = "order-created"
	// TopicPaymentCompleted 支付成功后发布的完成通知
	TopicPaymentCompleted = "payment-completed"
)

// OrderCreatedEvent 订单创建事件载荷
// payment_method 允许缺省，由消费方补默认值
type OrderCreatedEvent struct {
	OrderNumber   string          `json:"orderNumber"`
	CustomerEmail string          `json:"customerEmail"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	CreatedAt     time.Time       `json:"createdAt"`
	PaymentMethod string          `json:"paymentMethod,omitempty"`
}

// PaymentCompletedEvent 支付完成事件载荷，仅在支付成功时发布
type PaymentCompletedEvent struct {
	PaymentID   string          `json:"paymentId"`
	OrderNumber string          `json:"orderNumber"`
	Amount      decimal.Decimal `json:"amount"`
	Status      string          `json:"status"`
	CompletedAt time.Time       `json:"completedAt"`
}
