package config

import "payflow/pkg/config"

func init() {
	config.Add("gateway", func() map[string]interface{} {
		return map[string]interface{}{
			// 真实网关配置，凭证原样透传
			"base_url": config.Env("GATEWAY_BASE_URL", ""),
			"api_key":  config.Env("GATEWAY_API_KEY", ""),
			"timeout":  config.Env("GATEWAY_TIMEOUT", 10),

			// 沙盒网关配置
			"sandbox": map[string]interface{}{
				"success_rate": config.Env("GATEWAY_SANDBOX_SUCCESS_RATE", 0.9),
				"max_delay_ms": config.Env("GATEWAY_SANDBOX_MAX_DELAY_MS", 1000),
			},
		}
	})
}
