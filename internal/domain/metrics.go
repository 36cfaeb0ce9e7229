package domain

import (
	"sync/atomic"
	"time"
)

// EngineMetrics counts engine-wide events across all runners. All
// fields are updated atomically and read via GetSnapshot.
type EngineMetrics struct {
	RunsStarted   int64 `json:"runs_started"`
	RunsCompleted int64 `json:"runs_completed"`
	RunsFailed    int64 `json:"runs_failed"`

	NodesExecuted  int64 `json:"nodes_executed"`
	NodesSucceeded int64 `json:"nodes_succeeded"`
	NodesFailed    int64 `json:"nodes_failed"`

	HooksInvoked int64 `json:"hooks_invoked"`
	HooksFailed  int64 `json:"hooks_failed"`

	TotalExecutionTimeNs int64 `json:"total_execution_time_ns"`
	NodeExecutionCount   int64 `json:"node_execution_count"`
}

func NewEngineMetrics() *EngineMetrics {
	return &EngineMetrics{}
}

func (m *EngineMetrics) IncrementRunsStarted() {
	atomic.AddInt64(&m.RunsStarted, 1)
}

func (m *EngineMetrics) IncrementRunsCompleted() {
	atomic.AddInt64(&m.RunsCompleted, 1)
}

func (m *EngineMetrics) IncrementRunsFailed() {
	atomic.AddInt64(&m.RunsFailed, 1)
}

func (m *EngineMetrics) IncrementNodesExecuted() {
	atomic.AddInt64(&m.NodesExecuted, 1)
}

func (m *EngineMetrics) IncrementNodesSucceeded() {
	atomic.AddInt64(&m.NodesSucceeded, 1)
}

func (m *EngineMetrics) IncrementNodesFailed() {
	atomic.AddInt64(&m.NodesFailed, 1)
}

func (m *EngineMetrics) IncrementHooksInvoked() {
	atomic.AddInt64(&m.HooksInvoked, 1)
}

func (m *EngineMetrics) IncrementHooksFailed() {
	atomic.AddInt64(&m.HooksFailed, 1)
}

func (m *EngineMetrics) AddExecutionTime(duration time.Duration) {
	atomic.AddInt64(&m.TotalExecutionTimeNs, int64(duration))
	atomic.AddInt64(&m.NodeExecutionCount, 1)
}

func (m *EngineMetrics) GetAverageExecutionTime() time.Duration {
	totalNs := atomic.LoadInt64(&m.TotalExecutionTimeNs)
	count := atomic.LoadInt64(&m.NodeExecutionCount)

	if count == 0 {
		return 0
	}

	return time.Duration(totalNs / count)
}

func (m *EngineMetrics) GetSnapshot() EngineMetrics {
	return EngineMetrics{
		RunsStarted:          atomic.LoadInt64(&m.RunsStarted),
		RunsCompleted:        atomic.LoadInt64(&m.RunsCompleted),
		RunsFailed:           atomic.LoadInt64(&m.RunsFailed),
		NodesExecuted:        atomic.LoadInt64(&m.NodesExecuted),
		NodesSucceeded:       atomic.LoadInt64(&m.NodesSucceeded),
		NodesFailed:          atomic.LoadInt64(&m.NodesFailed),
		HooksInvoked:         atomic.LoadInt64(&m.HooksInvoked),
		HooksFailed:          atomic.LoadInt64(&m.HooksFailed),
		TotalExecutionTimeNs: atomic.LoadInt64(&m.TotalExecutionTimeNs),
		NodeExecutionCount:   atomic.LoadInt64(&m.NodeExecutionCount),
	}
}
