package bootstrap

import (
	"context"
	"encoding/json"
	"time"

	"payflow/app/services"
	"payflow/pkg/config"
	"payflow/pkg/eventbus"
	"payflow/pkg/logger"
	"payflow/pkg/redis"
)

// SetupConsumer 启动订单事件消费者
// 返回消费者实例供优雅关闭使用
func SetupConsumer(bus *eventbus.Bus, paymentService *services.PaymentService) *eventbus.Consumer {
	if redis.Manager == nil {
		logger.ErrorString("Queue", "Setup", "Redis manager not initialized")
		return nil
	}

	handler := func(ctx context.Context, message []byte) error {
		var event eventbus.OrderCreatedEvent
		if err := json.Unmarshal(message, &event); err != nil {
			// 无法解析的消息不可恢复，记录后丢弃
			logger.ErrorString("Queue", "Decode", err.Error())
			return nil
		}
		return paymentService.HandleOrderCreated(ctx, event)
	}

	consumer := eventbus.NewConsumer(bus, eventbus.TopicOrderCreated, handler, eventbus.ConsumerConfig{
		WorkerCount:     config.GetInt("queue.worker_count", 10),
		PopTimeout:      time.Duration(config.GetInt("queue.pop_timeout", 5)) * time.Second,
		ShutdownTimeout: 30 * time.Second,
	})

	consumer.Start()

	logger.InfoString("Queue", "Setup", "订单事件消费者启动成功")
	return consumer
}
