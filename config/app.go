// Package config 站点配置信息
package config

import "payflow/pkg/config"

func init() {
	config.Add("app", func() map[string]interface{} {
		return map[string]interface{}{

			// 应用名称
			"name": config.Env("APP_NAME", "Payflow"),

			// 当前环境，用以区分多环境，一般为 local, stage, production, testing
			"env": config.Env("APP_ENV", "production"),

			// 是否进入调试模式
			"debug": config.Env("APP_DEBUG", false),

			// 应用服务端口
			"port": config.Env("APP_PORT", "3000"),

			// 设置时区，日志记录里会使用到
			"timezone": config.Env("TIMEZONE", "UTC"),

			// 每小时每 IP 的请求数上限
			"api_rate_limit": config.Env("API_RATE_LIMIT", "10000"),
		}
	})
}
