package runner

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/skein-dev/skein/internal/domain"
	"github.com/skein-dev/skein/internal/ports"
)

// Sequential drives nodes one at a time in topological order. The
// first node failure halts the run: later nodes stay pending and the
// run record comes back with status failed for inspection.
type Sequential struct {
	descriptor *domain.RunnerDescriptor
	deps       runDeps
}

func NewSequential(builder ports.GraphBuilderPort, executor ports.ExecutorPort, hooks ports.HookRegistryPort, store ports.ExecutionStorePort, metrics *domain.EngineMetrics, config domain.RunnerConfig, logger *slog.Logger) *Sequential {
	if logger == nil {
		logger = slog.Default()
	}
	config.Strategy = domain.StrategySequential
	config.MaxConcurrency = 1

	return &Sequential{
		descriptor: &domain.RunnerDescriptor{
			ID:           uuid.New().String(),
			Name:         "sequential",
			Config:       config,
			Capabilities: domain.DeriveCapabilities(config),
			Metrics:      &domain.RunnerMetrics{},
			Status:       domain.RunnerStatusAvailable,
		},
		deps: runDeps{
			builder:  builder,
			executor: executor,
			hooks:    hooks,
			store:    store,
			metrics:  metrics,
			logger:   logger.With("component", "runner", "strategy", "sequential"),
		},
	}
}

func (r *Sequential) Descriptor() *domain.RunnerDescriptor {
	return r.descriptor
}

func (r *Sequential) ExecutePipeline(ctx context.Context, pipelineID string, nodes []domain.Node, edges []domain.Edge, parameters map[string]interface{}) (*domain.PipelineExecution, error) {
	setup, err := r.deps.prepareRun(ctx, r.descriptor.ID, pipelineID, nodes, edges, parameters)
	if err != nil {
		return setup.execution, err
	}

	r.descriptor.Metrics.JobQueued()
	r.descriptor.Metrics.JobStarted()
	defer r.descriptor.Metrics.JobFinished()

	for _, nodeID := range setup.order {
		if err := ctx.Err(); err != nil {
			r.deps.finishRun(ctx, r.descriptor, setup, err)
			return setup.execution, nil
		}

		node := setup.nodesByID[nodeID]
		setup.execution.MarkNodeRunning(nodeID)

		result := r.deps.executor.ExecuteNode(ctx, node, setup.runCtx, setup.execution)
		applyNodeResult(setup.execution, nodeID, result)

		if !result.Success {
			r.deps.logger.Debug("halting run on first node failure",
				"execution_id", setup.execution.ID,
				"node_id", nodeID,
			)
			r.deps.finishRun(ctx, r.descriptor, setup, nodeFailure(nodeID, result.Error))
			return setup.execution, nil
		}
	}

	r.deps.finishRun(ctx, r.descriptor, setup, nil)
	return setup.execution, nil
}
