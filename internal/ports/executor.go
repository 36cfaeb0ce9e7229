package ports

import (
	"context"

	"github.com/skein-dev/skein/internal/domain"
)

// WorkFunction is the pluggable unit of work for one node type. The
// shipped implementation simulates latency and synthesizes a
// type-appropriate payload; production callers substitute real
// I/O or compute here without touching the engine.
type WorkFunction func(ctx context.Context, node domain.Node, runCtx *domain.RunContext) (interface{}, error)

// NodeResult is what the executor reports back to the runner. A node
// failure is data, never an error return.
type NodeResult struct {
	Success bool
	Output  interface{}
	Error   string
	Metrics domain.NodeMetrics
}

// ExecutorPort runs one node's work unit: timing, hooks, result
// capture. It never returns a node failure as an error; the runner
// decides whether to halt.
type ExecutorPort interface {
	ExecuteNode(ctx context.Context, node domain.Node, runCtx *domain.RunContext, execution *domain.PipelineExecution) NodeResult
}
