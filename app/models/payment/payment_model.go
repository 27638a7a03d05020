package payment

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment 支付记录模型
type Payment struct {
	ID              uint64          `gorm:"primaryKey;autoIncrement" json:"-"`
	PaymentID       string          `gorm:"type:varchar(20);uniqueIndex" json:"payment_id"`
	OrderNumber     string          `gorm:"type:varchar(64);index" json:"order_number"`
	Amount          decimal.Decimal `gorm:"type:decimal(20,2)" json:"amount"`
	Status          Status          `gorm:"type:varchar(20);index" json:"status"`
	PaymentMethod   string          `gorm:"type:varchar(20)" json:"payment_method"`
	GatewayResponse string          `gorm:"type:varchar(255)" json:"gateway_response,omitempty"`
	CreatedAt       time.Time       `gorm:"" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"" json:"updated_at"`
}

// TableName 指定表名
func (Payment) TableName() string {
	return "payments"
}
