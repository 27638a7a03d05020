package gateway

import (
	"time"

	"payflow/pkg/app"
	"payflow/pkg/config"
	"payflow/pkg/logger"
)

// New 根据部署环境创建网关实现
// 非生产环境一律走沙盒，生产环境调用真实网关，选型在构造时一次性确定
func New() (Gateway, error) {
	if !app.IsProduction() {
		logger.InfoString("Gateway", "New", "using sandbox gateway")
		return NewSandboxGateway(SandboxConfig{
			SuccessRate: config.GetFloat64("gateway.sandbox.success_rate", 0.9),
			MaxDelay:    time.Duration(config.GetInt("gateway.sandbox.max_delay_ms", 1000)) * time.Millisecond,
		}), nil
	}

	logger.InfoString("Gateway", "New", "using http gateway")
	return NewHTTPGateway(HTTPConfig{
		BaseURL: config.GetString("gateway.base_url"),
		APIKey:  config.GetString("gateway.api_key"),
		Timeout: time.Duration(config.GetInt("gateway.timeout", 10)) * time.Second,
	})
}
