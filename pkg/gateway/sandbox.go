package gateway

import (
	"context"
	"math/rand"
	"time"

	"payflow/app/models/payment"
)

// 沙盒网关的响应文案
const (
	SandboxApprovedMessage = "SANDBOX: Payment processed successfully"
	SandboxDeclinedMessage = "SANDBOX: Payment gateway declined the transaction"
)

// randSource 随机源接口，测试时注入确定性实现
type randSource interface {
	Float64() float64
	Intn(n int) int
}

// SandboxConfig 沙盒网关配置
type SandboxConfig struct {
	SuccessRate float64       // 成功概率，取值 [0, 1]
	MaxDelay    time.Duration // 模拟处理延迟的上限
}

// SandboxGateway 模拟网关
// 引入有界的人工延迟后按概率放行，延迟可被上下文取消
type SandboxGateway struct {
	config SandboxConfig
	rand   randSource
	sleep  func(ctx context.Context, d time.Duration) error
}

// SandboxOption 沙盒网关可选参数
type SandboxOption func(*SandboxGateway)

// WithRandSource 注入随机源
func WithRandSource(r randSource) SandboxOption {
	return func(g *SandboxGateway) {
		g.rand = r
	}
}

// WithSleepFunc 注入延迟实现
func WithSleepFunc(fn func(ctx context.Context, d time.Duration) error) SandboxOption {
	return func(g *SandboxGateway) {
		g.sleep = fn
	}
}

// NewSandboxGateway 创建沙盒网关
func NewSandboxGateway(config SandboxConfig, options ...SandboxOption) *SandboxGateway {
	if config.SuccessRate <= 0 || config.SuccessRate > 1 {
		config.SuccessRate = 0.9
	}
	if config.MaxDelay <= 0 {
		config.MaxDelay = time.Second
	}

	g := &SandboxGateway{
		config: config,
		rand:   rand.New(rand.NewSource(time.Now().UnixNano())),
		sleep:  sleepWithContext,
	}
	for _, option := range options {
		option(g)
	}
	return g
}

// Charge 模拟一次网关调用
func (g *SandboxGateway) Charge(ctx context.Context, p *payment.Payment) (*Result, error) {
	// 模拟处理耗时
	delay := time.Duration(g.rand.Intn(int(g.config.MaxDelay.Milliseconds()) + 1)) * time.Millisecond
	if err := g.sleep(ctx, delay); err != nil {
		return nil, err
	}

	if g.rand.Float64() < g.config.SuccessRate {
		return &Result{Approved: true, Message: SandboxApprovedMessage}, nil
	}
	return &Result{Approved: false, Message: SandboxDeclinedMessage}, nil
}

// sleepWithContext 可取消的有界等待
func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
