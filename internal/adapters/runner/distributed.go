package runner

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/skein-dev/skein/internal/domain"
	"github.com/skein-dev/skein/internal/ports"
)

// Distributed has the bounded-parallel contract but delegates wave
// processing to a WaveDispatcher. Ordering and failure propagation
// are unchanged; only the execution substrate differs, so any
// dispatcher (in-process reference, remote workers) drops in.
type Distributed struct {
	descriptor *domain.RunnerDescriptor
	dispatcher ports.WaveDispatcher
	deps       runDeps
}

func NewDistributed(builder ports.GraphBuilderPort, dispatcher ports.WaveDispatcher, hooks ports.HookRegistryPort, store ports.ExecutionStorePort, metrics *domain.EngineMetrics, config domain.RunnerConfig, logger *slog.Logger) *Distributed {
	if logger == nil {
		logger = slog.Default()
	}
	config.Strategy = domain.StrategyDistributed
	if config.MaxConcurrency < 1 {
		config.MaxConcurrency = domain.DefaultEngineConfig().MaxConcurrency
	}

	return &Distributed{
		descriptor: &domain.RunnerDescriptor{
			ID:           uuid.New().String(),
			Name:         "distributed",
			Config:       config,
			Capabilities: domain.DeriveCapabilities(config),
			Metrics:      &domain.RunnerMetrics{},
			Status:       domain.RunnerStatusAvailable,
		},
		dispatcher: dispatcher,
		deps: runDeps{
			builder: builder,
			hooks:   hooks,
			store:   store,
			metrics: metrics,
			logger:  logger.With("component", "runner", "strategy", "distributed"),
		},
	}
}

func (r *Distributed) Descriptor() *domain.RunnerDescriptor {
	return r.descriptor
}

func (r *Distributed) ExecutePipeline(ctx context.Context, pipelineID string, nodes []domain.Node, edges []domain.Edge, parameters map[string]interface{}) (*domain.PipelineExecution, error) {
	setup, err := r.deps.prepareRun(ctx, r.descriptor.ID, pipelineID, nodes, edges, parameters)
	if err != nil {
		return setup.execution, err
	}

	r.descriptor.Metrics.JobQueued()
	r.descriptor.Metrics.JobStarted()
	defer r.descriptor.Metrics.JobFinished()

	failure := runWavefront(ctx, &r.deps, setup, func(ctx context.Context, wave []domain.Node, setup *runSetup) map[string]ports.NodeResult {
		return r.dispatcher.DispatchWave(ctx, wave, setup.runCtx, setup.execution)
	})

	if failure != nil && domain.IsDeadlock(failure) {
		r.deps.finishRun(ctx, r.descriptor, setup, failure)
		return setup.execution, failure
	}

	r.deps.finishRun(ctx, r.descriptor, setup, failure)
	return setup.execution, nil
}
