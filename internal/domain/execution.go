package domain

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

type ExecutionStatus string

const (
	ExecutionStatusRunning   ExecutionStatus = "running"
	ExecutionStatusCompleted ExecutionStatus = "completed"
	ExecutionStatusFailed    ExecutionStatus = "failed"
)

type NodeStatus string

const (
	NodeStatusPending   NodeStatus = "pending"
	NodeStatusRunning   NodeStatus = "running"
	NodeStatusCompleted NodeStatus = "completed"
	NodeStatusFailed    NodeStatus = "failed"
)

// NodeMetrics carries timing and synthetic resource-usage figures for
// one node execution.
type NodeMetrics struct {
	ExecutionTimeMs int64   `json:"execution_time_ms"`
	MemoryMB        float64 `json:"memory_mb,omitempty"`
	CPUPercent      float64 `json:"cpu_percent,omitempty"`
	RecordsIn       int64   `json:"records_in,omitempty"`
	RecordsOut      int64   `json:"records_out,omitempty"`
}

// NodeExecution tracks one node's progress inside a run. Status only
// moves pending -> running -> {completed, failed}; it never regresses.
type NodeExecution struct {
	NodeID      string                 `json:"node_id"`
	Status      NodeStatus             `json:"status"`
	StartedAt   *time.Time             `json:"started_at,omitempty"`
	CompletedAt *time.Time             `json:"completed_at,omitempty"`
	Error       string                 `json:"error,omitempty"`
	Metrics     *NodeMetrics           `json:"metrics,omitempty"`
	Outputs     map[string]interface{} `json:"outputs,omitempty"`
}

// PipelineExecution is the run record for one execution attempt.
// It is mutated in place by the executor and runner while Status is
// ExecutionStatusRunning and becomes immutable once the run reaches a
// terminal state.
type PipelineExecution struct {
	ID          string                 `json:"id"`
	PipelineID  string                 `json:"pipeline_id"`
	Status      ExecutionStatus        `json:"status"`
	StartedAt   time.Time              `json:"started_at"`
	CompletedAt *time.Time             `json:"completed_at,omitempty"`
	Nodes       []NodeExecution        `json:"nodes"`
	Parameters  map[string]interface{} `json:"parameters,omitempty"`
	RunnerID    string                 `json:"runner_id,omitempty"`
	Error       string                 `json:"error,omitempty"`
}

// NewPipelineExecution creates a run record with every node
// pre-populated as pending, preserving the caller's node order.
func NewPipelineExecution(pipelineID string, nodes []Node, parameters map[string]interface{}) *PipelineExecution {
	entries := make([]NodeExecution, 0, len(nodes))
	for _, node := range nodes {
		entries = append(entries, NodeExecution{
			NodeID: node.ID,
			Status: NodeStatusPending,
		})
	}

	return &PipelineExecution{
		ID:         fmt.Sprintf("exec-%d-%s", time.Now().UnixNano(), uuid.New().String()[:8]),
		PipelineID: pipelineID,
		Status:     ExecutionStatusRunning,
		StartedAt:  time.Now(),
		Nodes:      entries,
		Parameters: parameters,
	}
}

// NodeEntry returns a pointer into Nodes for the given node id.
func (e *PipelineExecution) NodeEntry(nodeID string) *NodeExecution {
	for i := range e.Nodes {
		if e.Nodes[i].NodeID == nodeID {
			return &e.Nodes[i]
		}
	}
	return nil
}

// Complete marks the run terminal with the given status.
func (e *PipelineExecution) Complete(status ExecutionStatus, runErr string) {
	now := time.Now()
	e.Status = status
	e.CompletedAt = &now
	e.Error = runErr
}

// MarkNodeRunning transitions a pending entry to running.
func (e *PipelineExecution) MarkNodeRunning(nodeID string) {
	entry := e.NodeEntry(nodeID)
	if entry == nil || entry.Status != NodeStatusPending {
		return
	}
	now := time.Now()
	entry.Status = NodeStatusRunning
	entry.StartedAt = &now
}

// RunContext is the shared per-run result map: node id -> output
// payload. Each key is written by exactly one node and read only by
// downstream nodes, but distinct nodes of one wave write concurrently,
// so access is serialized.
type RunContext struct {
	mu          sync.RWMutex
	results     map[string]interface{}
	ExecutionID string
	PipelineID  string
	Parameters  map[string]interface{}
}

func NewRunContext(execution *PipelineExecution) *RunContext {
	return &RunContext{
		results:     make(map[string]interface{}),
		ExecutionID: execution.ID,
		PipelineID:  execution.PipelineID,
		Parameters:  execution.Parameters,
	}
}

func (c *RunContext) Result(nodeID string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result, ok := c.results[nodeID]
	return result, ok
}

func (c *RunContext) SetResult(nodeID string, result interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results[nodeID] = result
}

// Results returns a copy of the accumulated result map.
func (c *RunContext) Results() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]interface{}, len(c.results))
	for id, result := range c.results {
		out[id] = result
	}
	return out
}
