package hooks

import (
	"context"
	"time"

	"github.com/skein-dev/skein/internal/domain"
)

// Stage-specific wrappers so callers never build HookContext by hand.

func (r *Registry) BeforePipelineRun(ctx context.Context, execution *domain.PipelineExecution) []domain.HookResult {
	return r.ExecuteHooks(ctx, domain.HookContext{
		Stage:     domain.StageBeforePipelineRun,
		Execution: execution,
		Timestamp: time.Now(),
	})
}

func (r *Registry) AfterPipelineRun(ctx context.Context, execution *domain.PipelineExecution) []domain.HookResult {
	return r.ExecuteHooks(ctx, domain.HookContext{
		Stage:     domain.StageAfterPipelineRun,
		Execution: execution,
		Timestamp: time.Now(),
	})
}

func (r *Registry) OnPipelineError(ctx context.Context, execution *domain.PipelineExecution, runErr error) []domain.HookResult {
	return r.ExecuteHooks(ctx, domain.HookContext{
		Stage:     domain.StageOnPipelineError,
		Execution: execution,
		Error:     runErr,
		Timestamp: time.Now(),
	})
}

func (r *Registry) BeforeNodeRun(ctx context.Context, node *domain.Node, execution *domain.PipelineExecution) []domain.HookResult {
	return r.ExecuteHooks(ctx, domain.HookContext{
		Stage:     domain.StageBeforeNodeRun,
		Node:      node,
		Execution: execution,
		Timestamp: time.Now(),
	})
}

func (r *Registry) AfterNodeRun(ctx context.Context, node *domain.Node, execution *domain.PipelineExecution, output interface{}) []domain.HookResult {
	return r.ExecuteHooks(ctx, domain.HookContext{
		Stage:     domain.StageAfterNodeRun,
		Node:      node,
		Execution: execution,
		Data:      map[string]interface{}{"output": output},
		Timestamp: time.Now(),
	})
}

func (r *Registry) OnNodeError(ctx context.Context, node *domain.Node, execution *domain.PipelineExecution, nodeErr error) []domain.HookResult {
	return r.ExecuteHooks(ctx, domain.HookContext{
		Stage:     domain.StageOnNodeError,
		Node:      node,
		Execution: execution,
		Error:     nodeErr,
		Timestamp: time.Now(),
	})
}
