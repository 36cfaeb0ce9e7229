package ports

import (
	"context"
	"time"

	"github.com/skein-dev/skein/internal/domain"
)

// HookRegistryPort stores extension callbacks keyed by lifecycle stage
// and executes them with short-circuit semantics.
type HookRegistryPort interface {
	Register(def domain.HookDefinition) (string, error)
	Unregister(hookID string) bool
	GetHook(hookID string) (*domain.HookDefinition, bool)
	GetByStage(stage domain.HookStage) []domain.HookDefinition
	SetHookEnabled(hookID string, enabled bool) bool

	// SetEnabled toggles the whole registry. When disabled,
	// ExecuteHooks is a fast no-op returning an empty result list.
	SetEnabled(enabled bool)
	Enabled() bool

	// ExecuteHooks runs the stage's enabled hooks in priority order.
	// A callback error or an explicit Continue=false stops the chain;
	// neither propagates to the caller.
	ExecuteHooks(ctx context.Context, hookCtx domain.HookContext) []domain.HookResult

	// Stage convenience wrappers over ExecuteHooks.
	BeforePipelineRun(ctx context.Context, execution *domain.PipelineExecution) []domain.HookResult
	AfterPipelineRun(ctx context.Context, execution *domain.PipelineExecution) []domain.HookResult
	OnPipelineError(ctx context.Context, execution *domain.PipelineExecution, runErr error) []domain.HookResult
	BeforeNodeRun(ctx context.Context, node *domain.Node, execution *domain.PipelineExecution) []domain.HookResult
	AfterNodeRun(ctx context.Context, node *domain.Node, execution *domain.PipelineExecution, output interface{}) []domain.HookResult
	OnNodeError(ctx context.Context, node *domain.Node, execution *domain.PipelineExecution, nodeErr error) []domain.HookResult

	History() []domain.HookExecutionRecord
	HistoryForHook(hookID string) []domain.HookExecutionRecord
	RecentHistory(maxAge time.Duration) []domain.HookExecutionRecord
	ClearHistory()
}
