package repositories

import (
	"context"

	"gorm.io/gorm"

	"payflow/app/models/payment"
	"payflow/pkg/database"
)

// PaymentRepository 支付记录仓库
type PaymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository 创建仓库实例
func NewPaymentRepository() *PaymentRepository {
	return &PaymentRepository{
		db: database.DB,
	}
}

// Create 创建支付记录
func (r *PaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// Update 更新支付记录
func (r *PaymentRepository) Update(ctx context.Context, p *payment.Payment) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// GetByPaymentID 根据业务标识获取支付记录
func (r *PaymentRepository) GetByPaymentID(ctx context.Context, paymentID string) (*payment.Payment, error) {
	var p payment.Payment
	err := r.db.WithContext(ctx).Where("payment_id = ?", paymentID).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByOrderNumber 获取某订单的全部支付记录，按创建顺序返回
func (r *PaymentRepository) ListByOrderNumber(ctx context.Context, orderNumber string) ([]payment.Payment, error) {
	var payments []payment.Payment
	err := r.db.WithContext(ctx).
		Where("order_number = ?", orderNumber).
		Order("id ASC").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}
