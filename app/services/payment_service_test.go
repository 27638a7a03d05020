package services

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"payflow/app/models/payment"
	"payflow/pkg/eventbus"
	"payflow/pkg/gateway"
	"payflow/pkg/logger"
)

func TestMain(m *testing.M) {
	// 测试中不初始化完整日志系统
	logger.Logger = zap.NewNop()
	os.Exit(m.Run())
}

// memoryStore PaymentStore 的内存实现
type memoryStore struct {
	payments  []*payment.Payment
	createErr error
	listErr   error
}

func (s *memoryStore) Create(ctx context.Context, p *payment.Payment) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.payments = append(s.payments, p)
	return nil
}

func (s *memoryStore) Update(ctx context.Context, p *payment.Payment) error {
	return nil
}

func (s *memoryStore) GetByPaymentID(ctx context.Context, paymentID string) (*payment.Payment, error) {
	for _, p := range s.payments {
		if p.PaymentID == paymentID {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *memoryStore) ListByOrderNumber(ctx context.Context, orderNumber string) ([]payment.Payment, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var result []payment.Payment
	for _, p := range s.payments {
		if p.OrderNumber == orderNumber {
			result = append(result, *p)
		}
	}
	return result, nil
}

// recordingBus EventPublisher 的记录实现
type recordingBus struct {
	topics   []string
	payloads []interface{}
}

func (b *recordingBus) Publish(ctx context.Context, topic string, payload interface{}) error {
	b.topics = append(b.topics, topic)
	b.payloads = append(b.payloads, payload)
	return nil
}

// stubGateway Gateway 的固定结果实现
type stubGateway struct {
	result *gateway.Result
	err    error
	calls  int
}

func (g *stubGateway) Charge(ctx context.Context, p *payment.Payment) (*gateway.Result, error) {
	g.calls++
	return g.result, g.err
}

// stubLocker OrderLocker 的固定结果实现
type stubLocker struct {
	acquired bool
	unlocked int
}

func (l *stubLocker) TryLock(ctx context.Context, orderNumber string) (bool, error) {
	return l.acquired, nil
}

func (l *stubLocker) Unlock(ctx context.Context, orderNumber string) {
	l.unlocked++
}

func newTestService(store *memoryStore, bus *recordingBus, gw gateway.Gateway, locks OrderLocker, policy AutoProcessPolicy) *PaymentService {
	return NewPaymentService(store, bus, gw, locks, policy)
}

func orderEvent(orderNumber, method string, amount string) eventbus.OrderCreatedEvent {
	return eventbus.OrderCreatedEvent{
		OrderNumber:   orderNumber,
		CustomerEmail: "buyer@example.com",
		TotalAmount:   decimal.RequireFromString(amount),
		PaymentMethod: method,
	}
}

func TestProcessPayment_Success(t *testing.T) {
	ctx := context.Background()
	store := &memoryStore{}
	bus := &recordingBus{}
	gw := &stubGateway{result: &gateway.Result{Approved: true, Message: "SANDBOX: Payment processed successfully"}}
	svc := newTestService(store, bus, gw, nil, nil)

	p, err := svc.ProcessPayment(ctx, CreatePaymentInput{
		OrderNumber:   "ORD-1",
		Amount:        decimal.RequireFromString("100.00"),
		PaymentMethod: "CARD",
	})

	require.NoError(t, err)
	require.Equal(t, payment.StatusCompleted, p.Status)
	require.Equal(t, "SANDBOX: Payment processed successfully", p.GatewayResponse)
	require.Equal(t, 1, gw.calls)

	// 恰好发布一次完成事件，金额和订单号与支付记录一致
	require.Len(t, bus.topics, 1)
	require.Equal(t, eventbus.TopicPaymentCompleted, bus.topics[0])
	event, ok := bus.payloads[0].(eventbus.PaymentCompletedEvent)
	require.True(t, ok)
	require.Equal(t, p.PaymentID, event.PaymentID)
	require.Equal(t, "ORD-1", event.OrderNumber)
	require.True(t, event.Amount.Equal(p.Amount))
	require.Equal(t, "COMPLETED", event.Status)
	require.Equal(t, p.UpdatedAt, event.CompletedAt)
}

func TestProcessPayment_Declined(t *testing.T) {
	ctx := context.Background()
	store := &memoryStore{}
	bus := &recordingBus{}
	gw := &stubGateway{result: &gateway.Result{Approved: false, Message: "SANDBOX: Payment gateway declined the transaction"}}
	svc := newTestService(store, bus, gw, nil, nil)

	p, err := svc.ProcessPayment(ctx, CreatePaymentInput{
		OrderNumber:   "ORD-2",
		Amount:        decimal.RequireFromString("42.50"),
		PaymentMethod: "CARD",
	})

	// 失败是数据而不是错误
	require.NoError(t, err)
	require.Equal(t, payment.StatusFailed, p.Status)
	require.Equal(t, "SANDBOX: Payment gateway declined the transaction", p.GatewayResponse)
	require.Empty(t, bus.topics, "失败不发布事件")
}

func TestProcessPayment_GatewayError(t *testing.T) {
	ctx := context.Background()
	store := &memoryStore{}
	bus := &recordingBus{}
	gw := &stubGateway{err: errors.New("connection refused")}
	svc := newTestService(store, bus, gw, nil, nil)

	p, err := svc.ProcessPayment(ctx, CreatePaymentInput{
		OrderNumber:   "ORD-3",
		Amount:        decimal.NewFromInt(10),
		PaymentMethod: "CARD",
	})

	// 网关错误被吸收为 FAILED，不向外传播
	require.NoError(t, err)
	require.Equal(t, payment.StatusFailed, p.Status)
	require.Equal(t, "Payment processing error: connection refused", p.GatewayResponse)
	require.Empty(t, bus.topics)
}

func TestHandleOrderCreated_CreatesPending(t *testing.T) {
	ctx := context.Background()
	store := &memoryStore{}
	bus := &recordingBus{}
	gw := &stubGateway{result: &gateway.Result{Approved: true, Message: "ok"}}
	svc := newTestService(store, bus, gw, nil, nil)

	err := svc.HandleOrderCreated(ctx, orderEvent("ORD-1", "", "250.00"))

	require.NoError(t, err)
	require.Len(t, store.payments, 1)
	p := store.payments[0]
	require.Equal(t, payment.StatusPending, p.Status)
	require.Equal(t, payment.DefaultMethod, p.PaymentMethod)
	require.True(t, p.Amount.Equal(decimal.RequireFromString("250.00")))

	// 默认策略不自动扣款：不调网关、不发事件
	require.Equal(t, 0, gw.calls)
	require.Empty(t, bus.topics)
}

func TestHandleOrderCreated_DuplicateIgnored(t *testing.T) {
	ctx := context.Background()
	store := &memoryStore{}
	bus := &recordingBus{}
	svc := newTestService(store, bus, &stubGateway{}, nil, nil)

	require.NoError(t, svc.HandleOrderCreated(ctx, orderEvent("ORD-1", "CARD", "250.00")))
	require.NoError(t, svc.HandleOrderCreated(ctx, orderEvent("ORD-1", "CARD", "250.00")))

	// 重复事件只保留第一条支付记录
	require.Len(t, store.payments, 1)
}

func TestHandleOrderCreated_AutoProcess(t *testing.T) {
	ctx := context.Background()
	store := &memoryStore{}
	bus := &recordingBus{}
	gw := &stubGateway{result: &gateway.Result{Approved: true, Message: "ok"}}
	approveAll := func(eventbus.OrderCreatedEvent) bool { return true }
	svc := newTestService(store, bus, gw, nil, approveAll)

	err := svc.HandleOrderCreated(ctx, orderEvent("ORD-9", "CARD", "99.90"))

	require.NoError(t, err)
	require.Len(t, store.payments, 1)
	require.Equal(t, payment.StatusCompleted, store.payments[0].Status)
	require.Equal(t, 1, gw.calls)
	require.Len(t, bus.topics, 1)
}

func TestHandleOrderCreated_LockHeld(t *testing.T) {
	ctx := context.Background()
	store := &memoryStore{}
	bus := &recordingBus{}
	locks := &stubLocker{acquired: false}
	svc := newTestService(store, bus, &stubGateway{}, locks, nil)

	err := svc.HandleOrderCreated(ctx, orderEvent("ORD-1", "CARD", "10.00"))

	// 锁被占用视为并发重复，事件被丢弃且不报错
	require.NoError(t, err)
	require.Empty(t, store.payments)
}

func TestHandleOrderCreated_StoreError(t *testing.T) {
	ctx := context.Background()
	store := &memoryStore{listErr: errors.New("db down")}
	svc := newTestService(store, &recordingBus{}, &stubGateway{}, nil, nil)

	err := svc.HandleOrderCreated(ctx, orderEvent("ORD-1", "CARD", "10.00"))

	// 错误返回给消费方记录日志，事件仍视为已消费
	require.Error(t, err)
	require.Empty(t, store.payments)
}

func TestGetPayment(t *testing.T) {
	ctx := context.Background()
	store := &memoryStore{}
	svc := newTestService(store, &recordingBus{}, &stubGateway{}, nil, nil)

	p := payment.New("ORD-1", decimal.NewFromInt(100), "CARD", payment.StatusPending)
	require.NoError(t, store.Create(ctx, p))

	t.Run("命中", func(t *testing.T) {
		got, err := svc.GetPayment(ctx, p.PaymentID)
		require.NoError(t, err)
		require.Equal(t, p, got)
	})

	t.Run("未命中", func(t *testing.T) {
		_, err := svc.GetPayment(ctx, "PMT-deadbeef")
		require.ErrorIs(t, err, ErrPaymentNotFound)
	})
}

func TestListByOrderNumber(t *testing.T) {
	ctx := context.Background()
	store := &memoryStore{}
	svc := newTestService(store, &recordingBus{}, &stubGateway{}, nil, nil)

	first := payment.New("ORD-1", decimal.NewFromInt(1), "CARD", payment.StatusPending)
	second := payment.New("ORD-1", decimal.NewFromInt(2), "CARD", payment.StatusProcessing)
	require.NoError(t, store.Create(ctx, first))
	require.NoError(t, store.Create(ctx, second))

	t.Run("按创建顺序返回", func(t *testing.T) {
		got, err := svc.ListByOrderNumber(ctx, "ORD-1")
		require.NoError(t, err)
		require.Len(t, got, 2)
		require.Equal(t, first.PaymentID, got[0].PaymentID)
		require.Equal(t, second.PaymentID, got[1].PaymentID)
	})

	t.Run("未知订单返回空", func(t *testing.T) {
		got, err := svc.ListByOrderNumber(ctx, "ORD-404")
		require.NoError(t, err)
		require.Empty(t, got)
	})
}
