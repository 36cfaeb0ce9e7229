package ports

import (
	"context"

	"github.com/skein-dev/skein/internal/domain"
)

// PipelineRunner is one execution strategy. ExecutePipeline returns
// once the run reaches a terminal state; the run record is returned
// even when the run failed, so callers can inspect partial results.
// Only structural errors (cycle, missing node) are returned as errors,
// in which case no legitimate run record exists.
type PipelineRunner interface {
	Descriptor() *domain.RunnerDescriptor
	ExecutePipeline(ctx context.Context, pipelineID string, nodes []domain.Node, edges []domain.Edge, parameters map[string]interface{}) (*domain.PipelineExecution, error)
}

// RunnerRegistryPort holds named strategies and performs heuristic
// selection. Selection never blocks; absence is an expected result.
type RunnerRegistryPort interface {
	Register(runner PipelineRunner) error
	Unregister(runnerID string) bool
	Get(runnerID string) (PipelineRunner, bool)
	List() []*domain.RunnerDescriptor

	// SelectOptimalRunner filters available runners by the required
	// capabilities and picks the highest historical success ratio.
	// Returns nil when no runner is available at all.
	SelectOptimalRunner(req domain.Requirements) PipelineRunner
}

// WaveDispatcher is the execution substrate of the distributed
// strategy: it processes one wave of independent nodes and reports
// per-node outcomes. The in-process adapter is the reference
// substrate; a remote-worker transport is a drop-in replacement.
type WaveDispatcher interface {
	DispatchWave(ctx context.Context, wave []domain.Node, runCtx *domain.RunContext, execution *domain.PipelineExecution) map[string]NodeResult
}
