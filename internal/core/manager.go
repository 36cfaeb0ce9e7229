package core

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/skein-dev/skein/internal/adapters/catalog"
	"github.com/skein-dev/skein/internal/adapters/config"
	"github.com/skein-dev/skein/internal/adapters/dispatch"
	"github.com/skein-dev/skein/internal/adapters/executor"
	"github.com/skein-dev/skein/internal/adapters/graph"
	"github.com/skein-dev/skein/internal/adapters/hooks"
	"github.com/skein-dev/skein/internal/adapters/metrics"
	"github.com/skein-dev/skein/internal/adapters/runner"
	"github.com/skein-dev/skein/internal/adapters/storage"
	"github.com/skein-dev/skein/internal/adapters/store"
	"github.com/skein-dev/skein/internal/domain"
	"github.com/skein-dev/skein/internal/ports"
)

// Manager wires the engine together: graph builder, hook registry,
// node executor, the three execution strategies, the runner registry,
// and the execution store. It owns component lifecycles; everything
// else talks through ports.
type Manager struct {
	config *domain.Config
	logger *slog.Logger

	builder   *graph.Builder
	hooks     *hooks.Registry
	executor  *executor.Adapter
	runners   *runner.Registry
	storage   ports.StoragePort
	store     *store.Adapter
	catalog   *catalog.Adapter
	settings  *config.Manager
	metrics   *domain.EngineMetrics
	collector *metrics.Collector

	// engine-owned strategies, keyed for default selection
	strategies map[domain.StrategyType]ports.PipelineRunner
}

func New(cfg *domain.Config) (*Manager, error) {
	if cfg == nil {
		cfg = domain.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	engineMetrics := domain.NewEngineMetrics()
	hookRegistry := hooks.NewRegistry(engineMetrics, logger)
	hookRegistry.SetEnabled(cfg.Hooks.Enabled)
	hookRegistry.SetCallbackBudget(cfg.Hooks.CallbackBudget)

	exec := executor.NewAdapter(hookRegistry, engineMetrics, cfg.Engine.WorkSimulationSeed, logger)
	builder := graph.NewBuilder(logger)

	var kv ports.StoragePort
	if cfg.Store.Persistent {
		badger, err := storage.NewBadgerAdapter(cfg.DataDir, logger)
		if err != nil {
			return nil, err
		}
		kv = badger
	} else {
		kv = storage.NewMemoryAdapter()
	}

	executionStore := store.NewAdapter(kv, logger)

	settings, err := config.NewManager(logger)
	if err != nil {
		kv.Close()
		return nil, err
	}

	m := &Manager{
		config:     cfg,
		logger:     logger.With("component", "manager"),
		builder:    builder,
		hooks:      hookRegistry,
		executor:   exec,
		runners:    runner.NewRegistry(logger),
		storage:    kv,
		store:      executionStore,
		catalog:    catalog.NewAdapter(kv, hookRegistry, logger),
		settings:   settings,
		metrics:    engineMetrics,
		strategies: make(map[domain.StrategyType]ports.PipelineRunner),
	}
	m.collector = metrics.NewCollector(engineMetrics, m.runners)

	if err := m.registerBuiltinRunners(); err != nil {
		kv.Close()
		return nil, err
	}

	return m, nil
}

func (m *Manager) registerBuiltinRunners() error {
	runnerConfig := domain.RunnerConfig{
		MaxConcurrency: m.config.Engine.MaxConcurrency,
		Timeout:        m.config.Engine.NodeTimeout,
		RetryCount:     m.config.Engine.RetryCount,
	}

	sequential := runner.NewSequential(m.builder, m.executor, m.hooks, m.store, m.metrics, runnerConfig, m.logger)
	parallel := runner.NewBoundedParallel(m.builder, m.executor, m.hooks, m.store, m.metrics, runnerConfig, m.logger)

	dispatcher := dispatch.NewLocal(m.executor, m.config.Engine.MaxConcurrency, m.logger)
	distributed := runner.NewDistributed(m.builder, dispatcher, m.hooks, m.store, m.metrics, runnerConfig, m.logger)

	for _, r := range []ports.PipelineRunner{sequential, parallel, distributed} {
		if err := m.runners.Register(r); err != nil {
			return err
		}
		m.strategies[r.Descriptor().Config.Strategy] = r
	}

	return nil
}

// ExecutePipeline runs the graph on the configured default strategy.
// Call-site parameters win over resolved pipeline defaults.
func (m *Manager) ExecutePipeline(ctx context.Context, pipelineID string, nodes []domain.Node, edges []domain.Edge, parameters map[string]interface{}) (*domain.PipelineExecution, error) {
	strategy := m.config.Engine.DefaultStrategy
	selected, ok := m.strategies[strategy]
	if !ok {
		selected = m.runners.SelectOptimalRunner(domain.Requirements{})
	}
	if selected == nil {
		return nil, domain.ErrInvalidConfig
	}

	return m.runOn(ctx, selected, pipelineID, nodes, edges, parameters)
}

// ExecutePipelineFor selects a runner by capability requirements.
func (m *Manager) ExecutePipelineFor(ctx context.Context, req domain.Requirements, pipelineID string, nodes []domain.Node, edges []domain.Edge, parameters map[string]interface{}) (*domain.PipelineExecution, error) {
	selected := m.runners.SelectOptimalRunner(req)
	if selected == nil {
		return nil, domain.ErrNotFound
	}
	return m.runOn(ctx, selected, pipelineID, nodes, edges, parameters)
}

// ExecutePipelineOn runs on one registered runner by id.
func (m *Manager) ExecutePipelineOn(ctx context.Context, runnerID, pipelineID string, nodes []domain.Node, edges []domain.Edge, parameters map[string]interface{}) (*domain.PipelineExecution, error) {
	selected, ok := m.runners.Get(runnerID)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return m.runOn(ctx, selected, pipelineID, nodes, edges, parameters)
}

func (m *Manager) runOn(ctx context.Context, selected ports.PipelineRunner, pipelineID string, nodes []domain.Node, edges []domain.Edge, parameters map[string]interface{}) (*domain.PipelineExecution, error) {
	resolved, err := m.settings.ResolveParameters(ctx, pipelineID)
	if err != nil {
		return nil, err
	}
	effective, err := domain.MergeParameters(resolved, parameters)
	if err != nil {
		return nil, err
	}

	m.logger.Info("pipeline run requested",
		"pipeline_id", pipelineID,
		"runner_id", selected.Descriptor().ID,
		"strategy", string(selected.Descriptor().Config.Strategy),
		"nodes", len(nodes),
	)

	return selected.ExecutePipeline(ctx, pipelineID, nodes, edges, effective)
}

// GetExecution loads a finished run record by id.
func (m *Manager) GetExecution(ctx context.Context, executionID string) (*domain.PipelineExecution, error) {
	return m.store.Get(ctx, executionID)
}

// GetExecutionsForPipeline lists a pipeline's run records newest first.
func (m *Manager) GetExecutionsForPipeline(ctx context.Context, pipelineID string) ([]*domain.PipelineExecution, error) {
	return m.store.ListByPipeline(ctx, pipelineID)
}

// RecentExecutions lists up to limit records across all pipelines.
func (m *Manager) RecentExecutions(ctx context.Context, limit int) ([]*domain.PipelineExecution, error) {
	return m.store.Recent(ctx, limit)
}

// GetPipelineSlice computes the minimal subgraph that produces the
// target nodes.
func (m *Manager) GetPipelineSlice(nodes []domain.Node, edges []domain.Edge, targetIDs []string) (*domain.PipelineSlice, error) {
	return m.builder.Slice(nodes, edges, targetIDs)
}

func (m *Manager) RegisterHook(def domain.HookDefinition) (string, error) {
	return m.hooks.Register(def)
}

func (m *Manager) UnregisterHook(hookID string) bool {
	return m.hooks.Unregister(hookID)
}

func (m *Manager) SetHookEnabled(hookID string, enabled bool) bool {
	return m.hooks.SetHookEnabled(hookID, enabled)
}

func (m *Manager) HookHistory() []domain.HookExecutionRecord {
	return m.hooks.History()
}

func (m *Manager) RecentHookHistory(maxAge time.Duration) []domain.HookExecutionRecord {
	return m.hooks.RecentHistory(maxAge)
}

// RegisterWorkFunction substitutes the work unit for one node type.
func (m *Manager) RegisterWorkFunction(nodeType domain.NodeType, fn ports.WorkFunction) {
	m.executor.RegisterWorkFunction(nodeType, fn)
}

// RegisterRunner adds a caller-supplied execution strategy.
func (m *Manager) RegisterRunner(r ports.PipelineRunner) error {
	return m.runners.Register(r)
}

func (m *Manager) UnregisterRunner(runnerID string) bool {
	return m.runners.Unregister(runnerID)
}

// Runners lists registered runner descriptors in registration order.
func (m *Manager) Runners() []*domain.RunnerDescriptor {
	return m.runners.List()
}

// Catalog exposes the dataset metadata registry.
func (m *Manager) Catalog() ports.DataCatalog {
	return m.catalog
}

// Settings exposes the environment-derived execution settings.
func (m *Manager) Settings() ports.ExecutionSettings {
	return m.settings.ExecutionSettings()
}

// SetPipelineParameters installs default parameters for one pipeline,
// applied under call-site parameters on every run.
func (m *Manager) SetPipelineParameters(pipelineID string, params map[string]interface{}) {
	m.settings.SetPipelineParameters(pipelineID, params)
}

// Metrics returns a point-in-time copy of the engine counters.
func (m *Manager) Metrics() domain.EngineMetrics {
	return m.metrics.GetSnapshot()
}

// MetricsCollector is registerable with any prometheus.Registerer.
func (m *Manager) MetricsCollector() prometheus.Collector {
	return m.collector
}

// Close releases the storage backend. In-flight runs are not awaited;
// callers stop submitting before closing.
func (m *Manager) Close() error {
	m.logger.Info("manager closing")
	return m.storage.Close()
}
