package domain

import (
	"sync"
	"time"
)

type RunnerStatus string

const (
	RunnerStatusAvailable   RunnerStatus = "available"
	RunnerStatusBusy        RunnerStatus = "busy"
	RunnerStatusError       RunnerStatus = "error"
	RunnerStatusMaintenance RunnerStatus = "maintenance"
)

type StrategyType string

const (
	StrategySequential      StrategyType = "sequential"
	StrategyBoundedParallel StrategyType = "bounded_parallel"
	StrategyDistributed     StrategyType = "distributed"
)

// RunnerConfig is the declared configuration of one execution strategy.
type RunnerConfig struct {
	Strategy       StrategyType   `json:"strategy"`
	MaxConcurrency int            `json:"max_concurrency"`
	Timeout        time.Duration  `json:"timeout"`
	RetryCount     int            `json:"retry_count"`
	ResourceHints  map[string]int `json:"resource_hints,omitempty"`
}

// RunnerCapabilities is derived from RunnerConfig at registration time.
type RunnerCapabilities struct {
	Parallel        bool       `json:"parallel"`
	Distributed     bool       `json:"distributed"`
	ResourceManaged bool       `json:"resource_managed"`
	Autoscaling     bool       `json:"autoscaling"`
	GPU             bool       `json:"gpu"`
	NodeTypes       []NodeType `json:"node_types,omitempty"`
	MaxConcurrency  int        `json:"max_concurrency"`
}

// Requirements filters runner selection. Zero value matches any
// available runner.
type Requirements struct {
	Parallel    bool `json:"parallel"`
	Distributed bool `json:"distributed"`
	GPU         bool `json:"gpu"`
}

// RunnerMetrics is live per-runner bookkeeping shared across runs;
// all access is serialized by its own mutex.
type RunnerMetrics struct {
	mu              sync.Mutex
	TotalRuns       int64         `json:"total_runs"`
	SuccessfulRuns  int64         `json:"successful_runs"`
	FailedRuns      int64         `json:"failed_runs"`
	AverageDuration time.Duration `json:"average_duration"`
	QueuedJobs      int64         `json:"queued_jobs"`
	ActiveJobs      int64         `json:"active_jobs"`
}

// RecordRun folds one completed run into the counters and the rolling
// average duration.
func (m *RunnerMetrics) RecordRun(duration time.Duration, success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.TotalRuns++
	if success {
		m.SuccessfulRuns++
	} else {
		m.FailedRuns++
	}

	if m.TotalRuns == 1 {
		m.AverageDuration = duration
	} else {
		m.AverageDuration += (duration - m.AverageDuration) / time.Duration(m.TotalRuns)
	}
}

// SuccessRatio is successful / max(1, total).
func (m *RunnerMetrics) SuccessRatio() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	total := m.TotalRuns
	if total < 1 {
		total = 1
	}
	return float64(m.SuccessfulRuns) / float64(total)
}

func (m *RunnerMetrics) JobQueued() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.QueuedJobs++
}

func (m *RunnerMetrics) JobStarted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.QueuedJobs > 0 {
		m.QueuedJobs--
	}
	m.ActiveJobs++
}

func (m *RunnerMetrics) JobFinished() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ActiveJobs > 0 {
		m.ActiveJobs--
	}
}

// Snapshot returns a copy safe to read without holding the mutex.
func (m *RunnerMetrics) Snapshot() RunnerMetrics {
	m.mu.Lock()
	defer m.mu.Unlock()
	return RunnerMetrics{
		TotalRuns:       m.TotalRuns,
		SuccessfulRuns:  m.SuccessfulRuns,
		FailedRuns:      m.FailedRuns,
		AverageDuration: m.AverageDuration,
		QueuedJobs:      m.QueuedJobs,
		ActiveJobs:      m.ActiveJobs,
	}
}

// RunnerDescriptor identifies one named execution strategy.
type RunnerDescriptor struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Config       RunnerConfig       `json:"config"`
	Capabilities RunnerCapabilities `json:"capabilities"`
	Metrics      *RunnerMetrics     `json:"metrics"`
	Status       RunnerStatus       `json:"status"`
}

// DeriveCapabilities computes the capability flags a RunnerConfig
// implies.
func DeriveCapabilities(config RunnerConfig) RunnerCapabilities {
	caps := RunnerCapabilities{
		MaxConcurrency: config.MaxConcurrency,
	}

	switch config.Strategy {
	case StrategyBoundedParallel:
		caps.Parallel = true
		caps.ResourceManaged = true
	case StrategyDistributed:
		caps.Parallel = true
		caps.Distributed = true
		caps.ResourceManaged = true
		caps.Autoscaling = true
	}

	if config.ResourceHints != nil {
		if gpus, ok := config.ResourceHints["gpu"]; ok && gpus > 0 {
			caps.GPU = true
		}
	}

	return caps
}

// Satisfies reports whether the capability set covers the requirements.
func (c RunnerCapabilities) Satisfies(req Requirements) bool {
	if req.Parallel && !c.Parallel {
		return false
	}
	if req.Distributed && !c.Distributed {
		return false
	}
	if req.GPU && !c.GPU {
		return false
	}
	return true
}
