package eventbus

import (
	"sync"
	"sync/atomic"
	"time"
)

// MetricOperation 定义指标操作类型
type MetricOperation string

const (
	OpPublish MetricOperation = "publish"
	OpPop     MetricOperation = "pop"
	OpProcess MetricOperation = "process"
)

// LatencyStats 延迟统计
type LatencyStats struct {
	count int64
	total time.Duration
	min   time.Duration
	max   time.Duration
	mu    sync.Mutex
}

// record 记录延迟数据
func (s *LatencyStats) record(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.count++
	s.total += d

	if s.min == 0 || d < s.min {
		s.min = d
	}
	if d > s.max {
		s.max = d
	}
}

// BusMetrics 事件总线性能指标收集器
type BusMetrics struct {
	totalEvents      atomic.Int64
	successfulEvents atomic.Int64
	failedEvents     atomic.Int64

	// 延迟统计
	publishLatency *LatencyStats
	processLatency *LatencyStats
}

// NewBusMetrics 创建新的指标收集器
func NewBusMetrics() *BusMetrics {
	return &BusMetrics{
		publishLatency: &LatencyStats{},
		processLatency: &LatencyStats{},
	}
}

// RecordSuccess 记录成功操作
func (m *BusMetrics) RecordSuccess(op MetricOperation) {
	m.successfulEvents.Add(1)
	m.totalEvents.Add(1)
}

// RecordError 记录失败操作
func (m *BusMetrics) RecordError(op MetricOperation) {
	m.failedEvents.Add(1)
	m.totalEvents.Add(1)
}

// RecordPublishLatency 记录发布延迟
func (m *BusMetrics) RecordPublishLatency(d time.Duration) {
	m.publishLatency.record(d)
}

// RecordProcessLatency 记录消费处理延迟
func (m *BusMetrics) RecordProcessLatency(d time.Duration) {
	m.processLatency.record(d)
}

// Snapshot 指标快照
type Snapshot struct {
	Total      int64 `json:"total"`
	Successful int64 `json:"successful"`
	Failed     int64 `json:"failed"`
}

// Snapshot 返回当前计数快照
func (m *BusMetrics) Snapshot() Snapshot {
	return Snapshot{
		Total:      m.totalEvents.Load(),
		Successful: m.successfulEvents.Load(),
		Failed:     m.failedEvents.Load(),
	}
}
