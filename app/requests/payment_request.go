package requests

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/thedevsaddam/govalidator"

	"payflow/app/models/payment"
)

// PaymentRequest 直接支付请求
type PaymentRequest struct {
	OrderNumber   string          `json:"order_number" valid:"order_number"`
	Amount        decimal.Decimal `json:"amount" valid:"amount"`
	PaymentMethod string          `json:"payment_method" valid:"payment_method"`
}

// ValidatePayment 验证直接支付请求
func ValidatePayment(c *gin.Context) (*PaymentRequest, error) {
	// 1. 验证规则
	rules := govalidator.MapData{
		"order_number": []string{"required", "max:64"},
	}

	// 2. 验证消息
	messages := govalidator.MapData{
		"order_number": []string{
			"required:订单号不能为空",
			"max:订单号长度不能超过 64 个字符",
		},
	}

	req, err := ValidateRequest[PaymentRequest](c, rules, messages)
	if err != nil {
		return nil, err
	}

	// 3. 金额必须为正的精确小数，不走 govalidator
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("金额必须大于 0")
	}

	// 4. 支付方式缺省为 CARD
	if req.PaymentMethod == "" {
		req.PaymentMethod = payment.DefaultMethod
	}

	return &req, nil
}
