package services

import (
	"context"
	"time"

	"payflow/pkg/config"
	"payflow/pkg/logger"
	"payflow/pkg/redis"
)

// lockKeyPrefix 订单锁的键前缀
const lockKeyPrefix = "payflow:lock:order:"

// RedisOrderLock 基于 Redis SETNX 的订单锁
// 带 TTL，持有方异常退出后锁自动过期
type RedisOrderLock struct {
	client *redis.RedisClient
	ttl    time.Duration
}

// NewRedisOrderLock 创建订单锁
func NewRedisOrderLock() *RedisOrderLock {
	return &RedisOrderLock{
		client: redis.GetRedis(redis.MainDB),
		ttl:    time.Duration(config.GetInt("queue.order_lock_seconds", 30)) * time.Second,
	}
}

// TryLock 尝试获取订单锁，返回是否获取成功
func (l *RedisOrderLock) TryLock(ctx context.Context, orderNumber string) (bool, error) {
	return l.client.SetNX(ctx, lockKeyPrefix+orderNumber, 1, l.ttl)
}

// Unlock 释放订单锁
func (l *RedisOrderLock) Unlock(ctx context.Context, orderNumber string) {
	if err := l.client.Del(ctx, lockKeyPrefix+orderNumber); err != nil {
		logger.ErrorString("OrderLock", "Unlock", err.Error())
	}
}
