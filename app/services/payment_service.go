// Package services 支付编排逻辑
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"payflow/app/models/payment"
	"payflow/pkg/eventbus"
	"payflow/pkg/gateway"
	"payflow/pkg/logger"
)

// ErrPaymentNotFound 查询未命中，唯一允许穿透到调用方的错误
var ErrPaymentNotFound = errors.New("payment not found")

// PaymentStore 支付记录的持久化接口
type PaymentStore interface {
	Create(ctx context.Context, p *payment.Payment) error
	Update(ctx context.Context, p *payment.Payment) error
	GetByPaymentID(ctx context.Context, paymentID string) (*payment.Payment, error)
	ListByOrderNumber(ctx context.Context, orderNumber string) ([]payment.Payment, error)
}

// EventPublisher 事件发布接口
type EventPublisher interface {
	Publish(ctx context.Context, topic string, payload interface{}) error
}

// OrderLocker 以订单号为粒度的互斥锁，用于串行化重复事件的建单
type OrderLocker interface {
	TryLock(ctx context.Context, orderNumber string) (bool, error)
	Unlock(ctx context.Context, orderNumber string)
}

// AutoProcessPolicy 判断订单事件建单后是否立即发起扣款
type AutoProcessPolicy func(event eventbus.OrderCreatedEvent) bool

// DeclineAutoProcess 默认策略：建单后等待用户显式发起支付
func DeclineAutoProcess(eventbus.OrderCreatedEvent) bool {
	return false
}

// PaymentService 支付编排服务
// 持有状态机、重复订单防护和网关路由
type PaymentService struct {
	store       PaymentStore
	bus         EventPublisher
	gateway     gateway.Gateway
	locks       OrderLocker // 可为 nil，此时退化为纯查重
	autoProcess AutoProcessPolicy
}

// NewPaymentService 创建支付编排服务
func NewPaymentService(store PaymentStore, bus EventPublisher, gw gateway.Gateway, locks OrderLocker, policy AutoProcessPolicy) *PaymentService {
	if policy == nil {
		policy = DeclineAutoProcess
	}
	return &PaymentService{
		store:       store,
		bus:         bus,
		gateway:     gw,
		locks:       locks,
		autoProcess: policy,
	}
}

// CreatePaymentInput 直接支付请求参数
type CreatePaymentInput struct {
	OrderNumber   string
	Amount        decimal.Decimal
	PaymentMethod string
}

// ProcessPayment 处理直接支付请求
// 新记录以 PROCESSING 入库后同步走网关，结果以数据形式返回，不抛错
func (s *PaymentService) ProcessPayment(ctx context.Context, input CreatePaymentInput) (*payment.Payment, error) {
	logger.InfoString("Payment", "Process", "processing payment for order: "+input.OrderNumber)

	p := payment.New(input.OrderNumber, input.Amount, input.PaymentMethod, payment.StatusProcessing)
	if err := s.store.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}

	s.processWithGateway(ctx, p)
	return p, nil
}

// HandleOrderCreated 处理订单创建事件
// 重复事件只记录日志后丢弃；返回的错误仅由消费方记录，事件一律视为已消费
func (s *PaymentService) HandleOrderCreated(ctx context.Context, event eventbus.OrderCreatedEvent) error {
	logger.InfoJSON("Payment", "OrderCreated", event)

	if s.locks != nil {
		acquired, err := s.locks.TryLock(ctx, event.OrderNumber)
		if err != nil {
			return fmt.Errorf("acquire order lock: %w", err)
		}
		if !acquired {
			// 同一订单的并发事件正在建单，按重复处理
			logger.WarnString("Payment", "OrderCreated", "order "+event.OrderNumber+" is being processed elsewhere, ignoring duplicate event")
			return nil
		}
		defer s.locks.Unlock(ctx, event.OrderNumber)
	}

	existing, err := s.store.ListByOrderNumber(ctx, event.OrderNumber)
	if err != nil {
		return fmt.Errorf("check existing payments: %w", err)
	}
	if len(existing) > 0 {
		logger.WarnString("Payment", "OrderCreated", "payment for order "+event.OrderNumber+" already exists, ignoring duplicate event")
		return nil
	}

	p := payment.New(event.OrderNumber, event.TotalAmount, event.PaymentMethod, payment.StatusPending)
	if err := s.store.Create(ctx, p); err != nil {
		return fmt.Errorf("create pending payment: %w", err)
	}
	logger.InfoString("Payment", "OrderCreated", "created new pending payment "+p.PaymentID+" for order "+event.OrderNumber)

	if s.autoProcess(event) {
		logger.InfoString("Payment", "OrderCreated", "auto-processing payment for order "+event.OrderNumber)

		if err := p.MarkProcessing(); err != nil {
			return err
		}
		if err := s.store.Update(ctx, p); err != nil {
			return fmt.Errorf("update payment: %w", err)
		}
		s.processWithGateway(ctx, p)
	}

	return nil
}

// processWithGateway 调用网关并落地结果
// 任何错误都被吸收为 FAILED 状态，保证支付不会滞留在 PROCESSING
func (s *PaymentService) processWithGateway(ctx context.Context, p *payment.Payment) {
	result, err := s.gateway.Charge(ctx, p)

	switch {
	case err != nil:
		s.fail(ctx, p, "Payment processing error: "+err.Error())

	case !result.Approved:
		logger.WarnString("Payment", "Gateway", "payment failed for order: "+p.OrderNumber)
		s.fail(ctx, p, result.Message)

	default:
		if err := p.MarkCompleted(result.Message); err != nil {
			logger.ErrorString("Payment", "Gateway", err.Error())
			return
		}
		if err := s.store.Update(ctx, p); err != nil {
			logger.ErrorString("Payment", "Gateway", "persist completed payment failed: "+err.Error())
			return
		}
		logger.InfoString("Payment", "Gateway", "payment completed for order: "+p.OrderNumber)

		// 仅在成功时发布完成事件，发布失败不影响支付结果
		completed := eventbus.PaymentCompletedEvent{
			PaymentID:   p.PaymentID,
			OrderNumber: p.OrderNumber,
			Amount:      p.Amount,
			Status:      string(payment.StatusCompleted),
			CompletedAt: p.UpdatedAt,
		}
		if err := s.bus.Publish(ctx, eventbus.TopicPaymentCompleted, completed); err != nil {
			logger.ErrorString("Payment", "Publish", err.Error())
		}
	}
}

// fail 将支付落入失败终态，失败本身不再向外传播
func (s *PaymentService) fail(ctx context.Context, p *payment.Payment, reason string) {
	if err := p.MarkFailed(reason); err != nil {
		logger.ErrorString("Payment", "Fail", err.Error())
		return
	}
	if err := s.store.Update(ctx, p); err != nil {
		logger.ErrorString("Payment", "Fail", "persist failed payment: "+err.Error())
	}
}

// GetPayment 根据业务标识查询支付记录
func (s *PaymentService) GetPayment(ctx context.Context, paymentID string) (*payment.Payment, error) {
	p, err := s.store.GetByPaymentID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrPaymentNotFound, paymentID)
		}
		return nil, err
	}
	return p, nil
}

// ListByOrderNumber 查询某订单的全部支付记录，按创建顺序返回
func (s *PaymentService) ListByOrderNumber(ctx context.Context, orderNumber string) ([]payment.Payment, error) {
	return s.store.ListByOrderNumber(ctx, orderNumber)
}
