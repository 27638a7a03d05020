package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"payflow/app/models/payment"
)

// HTTPConfig 真实网关配置
type HTTPConfig struct {
	BaseURL string
	APIKey  string // 网关颁发的凭证，原样透传
	Timeout time.Duration
}

// HTTPGateway 调用外部支付网关的实现
type HTTPGateway struct {
	client *resty.Client
}

// chargeRequest 网关扣款请求体
type chargeRequest struct {
	PaymentID     string          `json:"payment_id"`
	OrderNumber   string          `json:"order_number"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
}

// chargeResponse 网关扣款响应体
type chargeResponse struct {
	Approved bool   `json:"approved"`
	Message  string `json:"message"`
}

// NewHTTPGateway 创建真实网关客户端
func NewHTTPGateway(config HTTPConfig) (*HTTPGateway, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("gateway base url is required")
	}
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}

	client := resty.New().
		SetBaseURL(config.BaseURL).
		SetTimeout(config.Timeout).
		SetHeader("Authorization", "Bearer "+config.APIKey).
		SetHeader("Content-Type", "application/json").
		SetRetryCount(0) // 重试会造成重复扣款，由调用方决定失败语义

	return &HTTPGateway{client: client}, nil
}

// Charge 调用网关执行扣款
func (g *HTTPGateway) Charge(ctx context.Context, p *payment.Payment) (*Result, error) {
	var result chargeResponse

	resp, err := g.client.R().
		SetContext(ctx).
		SetBody(chargeRequest{
			PaymentID:     p.PaymentID,
			OrderNumber:   p.OrderNumber,
			Amount:        p.Amount,
			PaymentMethod: p.PaymentMethod,
		}).
		SetResult(&result).
		Post("/v1/charges")
	if err != nil {
		return nil, fmt.Errorf("gateway request failed: %w", err)
	}

	if resp.IsError() {
		return nil, fmt.Errorf("gateway returned status %d: %s", resp.StatusCode(), resp.String())
	}

	return &Result{Approved: result.Approved, Message: result.Message}, nil
}
