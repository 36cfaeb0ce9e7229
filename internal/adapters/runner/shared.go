package runner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/skein-dev/skein/internal/domain"
	"github.com/skein-dev/skein/internal/ports"
)

// runSetup is everything a strategy needs after graph building: the
// live run record, the per-run result context, the execution order,
// and the dependency map.
type runSetup struct {
	execution *domain.PipelineExecution
	runCtx    *domain.RunContext
	order     []string
	deps      domain.DependencyMap
	nodesByID map[string]domain.Node
}

// runDeps bundles the collaborators shared by every strategy. Each
// strategy calls the helpers below explicitly; there is no inherited
// template method.
type runDeps struct {
	builder  ports.GraphBuilderPort
	executor ports.ExecutorPort
	hooks    ports.HookRegistryPort
	store    ports.ExecutionStorePort
	metrics  *domain.EngineMetrics
	logger   *slog.Logger
}

// prepareRun builds the dependency map and topological order, then
// creates the run record with every node pending and fires the
// before-pipeline hooks. A structural error (cycle, missing node)
// still yields a failed, persisted run record, but is returned to the
// caller as an error: no node ever executed, so the caller must see
// the difference from a node-level failure.
func (d *runDeps) prepareRun(ctx context.Context, runnerID, pipelineID string, nodes []domain.Node, edges []domain.Edge, parameters map[string]interface{}) (*runSetup, error) {
	execution := domain.NewPipelineExecution(pipelineID, nodes, parameters)
	execution.RunnerID = runnerID

	d.metrics.IncrementRunsStarted()

	order, err := d.builder.TopologicalSort(nodes, edges)
	if err != nil {
		d.logger.Error("graph build failed before execution",
			"execution_id", execution.ID,
			"pipeline_id", pipelineID,
			"error", err.Error(),
		)
		execution.Complete(domain.ExecutionStatusFailed, err.Error())
		d.metrics.IncrementRunsFailed()
		d.persist(ctx, execution)
		return &runSetup{execution: execution}, err
	}

	deps, err := d.builder.BuildDependencyMap(nodes, edges)
	if err != nil {
		execution.Complete(domain.ExecutionStatusFailed, err.Error())
		d.metrics.IncrementRunsFailed()
		d.persist(ctx, execution)
		return &runSetup{execution: execution}, err
	}

	nodesByID := make(map[string]domain.Node, len(nodes))
	for _, node := range nodes {
		nodesByID[node.ID] = node
	}

	d.hooks.BeforePipelineRun(ctx, execution)

	return &runSetup{
		execution: execution,
		runCtx:    domain.NewRunContext(execution),
		order:     order,
		deps:      deps,
		nodesByID: nodesByID,
	}, nil
}

// finishRun closes out a run: terminal status, pipeline-level hooks,
// engine and runner metrics, persistence.
func (d *runDeps) finishRun(ctx context.Context, descriptor *domain.RunnerDescriptor, setup *runSetup, failure error) {
	execution := setup.execution

	if failure != nil {
		execution.Complete(domain.ExecutionStatusFailed, failure.Error())
		d.metrics.IncrementRunsFailed()
		d.hooks.OnPipelineError(ctx, execution, failure)
	} else {
		execution.Complete(domain.ExecutionStatusCompleted, "")
		d.metrics.IncrementRunsCompleted()
		d.hooks.AfterPipelineRun(ctx, execution)
	}

	duration := time.Since(execution.StartedAt)
	descriptor.Metrics.RecordRun(duration, failure == nil)

	d.persist(ctx, execution)

	d.logger.Info("pipeline run finished",
		"execution_id", execution.ID,
		"pipeline_id", execution.PipelineID,
		"runner_id", descriptor.ID,
		"status", string(execution.Status),
		"duration", duration,
	)
}

func (d *runDeps) persist(ctx context.Context, execution *domain.PipelineExecution) {
	if d.store == nil {
		return
	}
	if err := d.store.Save(ctx, execution); err != nil {
		d.logger.Error("failed to persist run record",
			"execution_id", execution.ID,
			"error", err.Error(),
		)
	}
}

// applyNodeResult folds an executor result into the run record entry.
func applyNodeResult(execution *domain.PipelineExecution, nodeID string, result ports.NodeResult) {
	entry := execution.NodeEntry(nodeID)
	if entry == nil {
		return
	}

	now := time.Now()
	entry.CompletedAt = &now
	metrics := result.Metrics
	entry.Metrics = &metrics

	if result.Success {
		entry.Status = domain.NodeStatusCompleted
		if outputs, ok := result.Output.(map[string]interface{}); ok {
			entry.Outputs = outputs
		}
		return
	}

	entry.Status = domain.NodeStatusFailed
	entry.Error = result.Error
}

// nodeFailure is the run-level error text for a failed node.
func nodeFailure(nodeID, message string) error {
	return fmt.Errorf("node %s failed: %s", nodeID, message)
}
