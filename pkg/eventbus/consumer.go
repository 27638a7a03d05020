package eventbus

import (
	"context"
	"fmt"
	"sync"
	"time"

	"payflow/pkg/logger"
)

// Handler 单条事件的处理函数
// 返回的错误只用于记录日志，事件一律视为已消费
type Handler func(ctx context.Context, message []byte) error

// ConsumerConfig 消费者配置
type ConsumerConfig struct {
	WorkerCount     int           // 并发工作器数量
	PopTimeout      time.Duration // 单次阻塞获取的超时时间
	ShutdownTimeout time.Duration // 关闭超时时间
}

// Consumer 订阅单个主题的消费者工作器组
type Consumer struct {
	bus      *Bus
	topic    string
	handler  Handler
	stopChan chan struct{}
	wg       sync.WaitGroup
	config   ConsumerConfig
}

// NewConsumer 创建消费者
func NewConsumer(bus *Bus, topic string, handler Handler, config ConsumerConfig) *Consumer {
	if config.WorkerCount <= 0 {
		config.WorkerCount = 10
	}
	if config.PopTimeout <= 0 {
		config.PopTimeout = 5 * time.Second
	}
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = 30 * time.Second
	}

	return &Consumer{
		bus:      bus,
		topic:    topic,
		handler:  handler,
		stopChan: make(chan struct{}),
		config:   config,
	}
}

// Start 启动工作器组
func (c *Consumer) Start() {
	for i := 0; i < c.config.WorkerCount; i++ {
		c.wg.Add(1)
		go c.startWorker(i)
	}
}

// startWorker 启动单个工作器
func (c *Consumer) startWorker(id int) {
	defer c.wg.Done()

	logger.InfoString("Consumer", "Start", fmt.Sprintf("worker %d started on topic %s", id, c.topic))

	for {
		select {
		case <-c.stopChan:
			logger.InfoString("Consumer", "Stop", fmt.Sprintf("worker %d stopping", id))
			return
		default:
			if err := c.processNext(); err != nil {
				logger.ErrorString("Consumer", "Error", fmt.Sprintf("worker %d: %v", id, err))
				time.Sleep(time.Second) // 错误恢复延迟
			}
		}
	}
}

// processNext 获取并处理下一条事件
func (c *Consumer) processNext() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	message, err := c.bus.Pop(ctx, c.topic, c.config.PopTimeout)
	if err != nil {
		return err
	}
	if message == nil {
		time.Sleep(100 * time.Millisecond) // 避免空队列时的忙等
		return nil
	}

	start := time.Now()
	defer func() {
		c.bus.metrics.RecordProcessLatency(time.Since(start))
	}()

	// 处理函数内部的失败自行记录日志，事件不重新入队
	if err := c.handler(ctx, message); err != nil {
		c.bus.metrics.RecordError(OpProcess)
		logger.ErrorString("Consumer", "Handle", fmt.Sprintf("topic %s: %v", c.topic, err))
		return nil
	}

	c.bus.metrics.RecordSuccess(OpProcess)
	return nil
}

// Stop 优雅关闭工作器组
func (c *Consumer) Stop() {
	close(c.stopChan)

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.InfoString("Consumer", "Stop", "all workers stopped gracefully")
	case <-time.After(c.config.ShutdownTimeout):
		logger.WarnString("Consumer", "Stop", "consumer shutdown timed out")
	}
}
