package payment

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status 支付状态
type Status string

const (
	StatusPending    Status = "PENDING"    // 待处理（事件驱动创建的初始状态）
	StatusProcessing Status = "PROCESSING" // 处理中（直接请求创建的初始状态）
	StatusCompleted  Status = "COMPLETED"  // 已完成（终态）
	StatusFailed     Status = "FAILED"     // 已失败（终态）
)

// DefaultMethod 订单事件未携带支付方式时的默认值
const DefaultMethod = "CARD"

// IDPrefix 对外业务标识前缀
const IDPrefix = "PMT-"

// ErrInvalidTransition 非法的状态流转
var ErrInvalidTransition = fmt.Errorf("invalid payment status transition")

// New 创建支付记录，业务标识在此一次性生成，此后不可变更
func New(orderNumber string, amount decimal.Decimal, method string, status Status) *Payment {
	if method == "" {
		method = DefaultMethod
	}
	now := time.Now()
	return &Payment{
		PaymentID:     IDPrefix + uuid.New().String()[:8],
		OrderNumber:   orderNumber,
		Amount:        amount,
		Status:        status,
		PaymentMethod: method,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// MarkProcessing 进入处理中，仅允许从 PENDING 流转
func (p *Payment) MarkProcessing() error {
	if p.Status != StatusPending {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, p.Status, StatusProcessing)
	}
	p.Status = StatusProcessing
	p.UpdatedAt = time.Now()
	return nil
}

// MarkCompleted 支付成功，仅允许从 PROCESSING 流转
func (p *Payment) MarkCompleted(gatewayResponse string) error {
	if p.Status != StatusProcessing {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, p.Status, StatusCompleted)
	}
	p.Status = StatusCompleted
	p.GatewayResponse = gatewayResponse
	p.UpdatedAt = time.Now()
	return nil
}

// MarkFailed 支付失败，仅允许从 PROCESSING 流转，失败原因记录在 GatewayResponse
func (p *Payment) MarkFailed(reason string) error {
	if p.Status != StatusProcessing {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, p.Status, StatusFailed)
	}
	p.Status = StatusFailed
	p.GatewayResponse = reason
	p.UpdatedAt = time.Now()
	return nil
}

// IsTerminal 检查是否已进入终态
func (p *Payment) IsTerminal() bool {
	return p.Status == StatusCompleted || p.Status == StatusFailed
}

// IsProcessing 检查是否处理中
func (p *Payment) IsProcessing() bool {
	return p.Status == StatusProcessing
}
