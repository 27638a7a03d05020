// Package gateway 支付网关抽象
// 非生产环境使用沙盒实现，生产环境调用真实网关
package gateway

import (
	"context"

	"payflow/app/models/payment"
)

// Result 网关处理结果
// Approved 为 false 时 Message 记录拒绝原因
type Result struct {
	Approved bool   `json:"approved"`
	Message  string `json:"message"`
}

// Gateway 支付网关接口
// 两种实现共享同一结果契约：成功、明确拒绝、或返回错误
type Gateway interface {
	Charge(ctx context.Context, p *payment.Payment) (*Result, error)
}
