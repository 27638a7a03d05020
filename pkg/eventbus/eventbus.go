package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"payflow/pkg/config"
	"payflow/pkg/redis"
)

// Bus 基于 Redis List 的事件总线
// 发布方 LPUSH，消费方 BRPOP，支持限流和监控指标收集
type Bus struct {
	client      *redis.RedisClient
	prefix      string
	rateLimiter *rate.Limiter
	metrics     *BusMetrics
}

// NewBus 创建事件总线实例
func NewBus() *Bus {
	rateLimit := config.GetInt("queue.rate_limit", 1000)
	burst := config.GetInt("queue.rate_burst", rateLimit)

	return &Bus{
		client:      redis.GetRedis(redis.BusDB),
		prefix:      config.GetString("redis.bus_prefix", "payflow:events"),
		rateLimiter: rate.NewLimiter(rate.Limit(rateLimit), burst),
		metrics:     NewBusMetrics(),
	}
}

// topicKey 主题对应的 Redis 键
func (b *Bus) topicKey(topic string) string {
	return fmt.Sprintf("%s:%s", b.prefix, topic)
}

// Publish 将事件发布到指定主题
func (b *Bus) Publish(ctx context.Context, topic string, payload interface{}) error {
	// 应用限流
	if err := b.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit exceeded: %w", err)
	}

	start := time.Now()
	defer func() {
		b.metrics.RecordPublishLatency(time.Since(start))
	}()

	body, err := json.Marshal(payload)
	if err != nil {
		b.metrics.RecordError(OpPublish)
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.client.Client.LPush(ctx, b.topicKey(topic), body).Err(); err != nil {
		b.metrics.RecordError(OpPublish)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	b.metrics.RecordSuccess(OpPublish)
	return nil
}

// Pop 从主题中阻塞获取一条事件，超时或队列为空返回 nil
func (b *Bus) Pop(ctx context.Context, topic string, timeout time.Duration) ([]byte, error) {
	result, err := b.client.Client.BRPop(ctx, timeout, b.topicKey(topic)).Result()
	if err != nil {
		if err == goredis.Nil || err == context.DeadlineExceeded {
			return nil, nil
		}
		b.metrics.RecordError(OpPop)
		return nil, fmt.Errorf("failed to pop event: %w", err)
	}

	if len(result) != 2 {
		return nil, fmt.Errorf("invalid result from topic %s", topic)
	}

	b.metrics.RecordSuccess(OpPop)
	return []byte(result[1]), nil
}

// Metrics 返回总线指标收集器
func (b *Bus) Metrics() *BusMetrics {
	return b.metrics
}

// Ping 检查事件总线健康状态
func (b *Bus) Ping(ctx context.Context) error {
	return b.client.Ping()
}
