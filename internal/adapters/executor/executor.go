package executor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/skein-dev/skein/internal/domain"
	"github.com/skein-dev/skein/internal/ports"
)

// Adapter runs the work unit for one node: before/after/error hooks,
// wall-clock timing, result capture into the shared run context. Node
// failures are reported as data, never returned as errors; the runner
// decides whether the run halts.
type Adapter struct {
	workFns   map[domain.NodeType]ports.WorkFunction
	defaultFn ports.WorkFunction
	simulated *SimulatedWork
	hooks     ports.HookRegistryPort
	metrics   *domain.EngineMetrics
	logger    *slog.Logger
}

func NewAdapter(hooks ports.HookRegistryPort, metrics *domain.EngineMetrics, seed int64, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = domain.NewEngineMetrics()
	}

	simulated := NewSimulatedWork(seed)

	return &Adapter{
		workFns:   make(map[domain.NodeType]ports.WorkFunction),
		defaultFn: simulated.Run,
		simulated: simulated,
		hooks:     hooks,
		metrics:   metrics,
		logger:    logger.With("component", "node-executor"),
	}
}

// RegisterWorkFunction substitutes real work for one node type. The
// surrounding execution contract does not change.
func (a *Adapter) RegisterWorkFunction(nodeType domain.NodeType, fn ports.WorkFunction) {
	a.workFns[nodeType] = fn
}

// SetDefaultWorkFunction replaces the fallback used for node types
// without a dedicated registration.
func (a *Adapter) SetDefaultWorkFunction(fn ports.WorkFunction) {
	a.defaultFn = fn
}

func (a *Adapter) workFor(nodeType domain.NodeType) ports.WorkFunction {
	if fn, ok := a.workFns[nodeType]; ok {
		return fn
	}
	return a.defaultFn
}

func (a *Adapter) ExecuteNode(ctx context.Context, node domain.Node, runCtx *domain.RunContext, execution *domain.PipelineExecution) ports.NodeResult {
	a.logger.Debug("starting node execution",
		"execution_id", execution.ID,
		"node_id", node.ID,
		"node_type", string(node.Type),
	)

	a.hooks.BeforeNodeRun(ctx, &node, execution)

	start := time.Now()
	output, err := a.runWork(ctx, node, runCtx)
	duration := time.Since(start)

	a.metrics.IncrementNodesExecuted()
	a.metrics.AddExecutionTime(duration)

	memoryMB, cpuPercent := a.simulated.syntheticUsage()
	metrics := domain.NodeMetrics{
		ExecutionTimeMs: duration.Milliseconds(),
		MemoryMB:        memoryMB,
		CPUPercent:      cpuPercent,
	}
	fillRecordCounts(&metrics, output)

	if err != nil {
		a.metrics.IncrementNodesFailed()
		a.logger.Error("node execution failed",
			"execution_id", execution.ID,
			"node_id", node.ID,
			"duration", duration,
			"error", err.Error(),
		)

		a.hooks.OnNodeError(ctx, &node, execution, err)

		return ports.NodeResult{
			Success: false,
			Error:   err.Error(),
			Metrics: metrics,
		}
	}

	a.metrics.IncrementNodesSucceeded()
	runCtx.SetResult(node.ID, output)

	a.logger.Debug("node execution completed",
		"execution_id", execution.ID,
		"node_id", node.ID,
		"duration", duration,
	)

	a.hooks.AfterNodeRun(ctx, &node, execution, output)

	return ports.NodeResult{
		Success: true,
		Output:  output,
		Metrics: metrics,
	}
}

// runWork isolates work-function panics so one bad node cannot take
// the whole runner down.
func (a *Adapter) runWork(ctx context.Context, node domain.Node, runCtx *domain.RunContext) (output interface{}, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			output = nil
			err = fmt.Errorf("work function panicked: %v", rec)
		}
	}()

	return a.workFor(node.Type)(ctx, node, runCtx)
}

func fillRecordCounts(metrics *domain.NodeMetrics, output interface{}) {
	payload, ok := output.(map[string]interface{})
	if !ok {
		return
	}

	if in, ok := payload["records_in"].(int64); ok {
		metrics.RecordsIn = in
	}
	if out, ok := payload["records_out"].(int64); ok {
		metrics.RecordsOut = out
	}
	if loaded, ok := payload["records_loaded"].(int64); ok {
		metrics.RecordsOut = loaded
	}
	if written, ok := payload["records_written"].(int64); ok {
		metrics.RecordsIn = written
	}
}
