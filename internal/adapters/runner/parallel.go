package runner

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/skein-dev/skein/internal/adapters/semaphore"
	"github.com/skein-dev/skein/internal/domain"
	"github.com/skein-dev/skein/internal/ports"
)

// BoundedParallel runs every ready node of a wave concurrently, with
// in-flight work capped by a counting semaphore. Work beyond the cap
// queues on the semaphore and drains as slots free; the descriptor's
// queued/active counters track both states.
type BoundedParallel struct {
	descriptor *domain.RunnerDescriptor
	slots      ports.SlotSemaphore
	deps       runDeps
}

func NewBoundedParallel(builder ports.GraphBuilderPort, executor ports.ExecutorPort, hooks ports.HookRegistryPort, store ports.ExecutionStorePort, metrics *domain.EngineMetrics, config domain.RunnerConfig, logger *slog.Logger) *BoundedParallel {
	if logger == nil {
		logger = slog.Default()
	}
	config.Strategy = domain.StrategyBoundedParallel
	if config.MaxConcurrency < 1 {
		config.MaxConcurrency = domain.DefaultEngineConfig().MaxConcurrency
	}

	componentLogger := logger.With("component", "runner", "strategy", "bounded-parallel")

	return &BoundedParallel{
		descriptor: &domain.RunnerDescriptor{
			ID:           uuid.New().String(),
			Name:         "bounded-parallel",
			Config:       config,
			Capabilities: domain.DeriveCapabilities(config),
			Metrics:      &domain.RunnerMetrics{},
			Status:       domain.RunnerStatusAvailable,
		},
		slots: semaphore.NewAdapter(config.MaxConcurrency, componentLogger),
		deps: runDeps{
			builder:  builder,
			executor: executor,
			hooks:    hooks,
			store:    store,
			metrics:  metrics,
			logger:   componentLogger,
		},
	}
}

func (r *BoundedParallel) Descriptor() *domain.RunnerDescriptor {
	return r.descriptor
}

func (r *BoundedParallel) ExecutePipeline(ctx context.Context, pipelineID string, nodes []domain.Node, edges []domain.Edge, parameters map[string]interface{}) (*domain.PipelineExecution, error) {
	setup, err := r.deps.prepareRun(ctx, r.descriptor.ID, pipelineID, nodes, edges, parameters)
	if err != nil {
		return setup.execution, err
	}

	failure := runWavefront(ctx, &r.deps, setup, r.dispatchWave)

	if failure != nil && domain.IsDeadlock(failure) {
		r.deps.finishRun(ctx, r.descriptor, setup, failure)
		return setup.execution, failure
	}

	r.deps.finishRun(ctx, r.descriptor, setup, failure)
	return setup.execution, nil
}

// dispatchWave launches every wave node, each gated by a semaphore
// slot, then awaits the whole wave before returning.
func (r *BoundedParallel) dispatchWave(ctx context.Context, wave []domain.Node, setup *runSetup) map[string]ports.NodeResult {
	var wg sync.WaitGroup
	var mu sync.Mutex
	results := make(map[string]ports.NodeResult, len(wave))

	for _, node := range wave {
		wg.Add(1)
		r.descriptor.Metrics.JobQueued()

		go func(node domain.Node) {
			defer wg.Done()

			if err := r.slots.Acquire(ctx); err != nil {
				r.descriptor.Metrics.JobStarted()
				r.descriptor.Metrics.JobFinished()
				mu.Lock()
				results[node.ID] = ports.NodeResult{Success: false, Error: err.Error()}
				mu.Unlock()
				return
			}
			defer r.slots.Release()

			r.descriptor.Metrics.JobStarted()
			defer r.descriptor.Metrics.JobFinished()

			setup.execution.MarkNodeRunning(node.ID)
			result := r.deps.executor.ExecuteNode(ctx, node, setup.runCtx, setup.execution)

			mu.Lock()
			results[node.ID] = result
			mu.Unlock()
		}(node)
	}

	wg.Wait()
	return results
}
