package config

import (
	"payflow/pkg/config"
)

func init() {
	config.Add("redis", func() map[string]interface{} {
		return map[string]interface{}{
			"host":     config.Env("REDIS_HOST", "127.0.0.1"),
			"port":     config.Env("REDIS_PORT", "6379"),
			"username": config.Env("REDIS_USERNAME", ""),
			"password": config.Env("REDIS_PASSWORD", ""),

			// 业务类存储使用 1 号库（限流、订单锁）
			"database": config.Env("REDIS_MAIN_DB", 1),

			// 事件总线专用 2 号库
			"bus_database": config.Env("REDIS_BUS_DB", 2),
			"bus_prefix":   config.Env("REDIS_BUS_PREFIX", "payflow:events"),
		}
	})
}
