package skein_test

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skein-dev/skein"
)

func newManager(t *testing.T, config *skein.Config) *skein.Manager {
	t.Helper()
	manager, err := skein.New(config)
	require.NoError(t, err)
	t.Cleanup(func() { manager.Close() })
	return manager
}

func etlGraph() ([]skein.Node, []skein.Edge) {
	nodes := []skein.Node{
		{ID: "load", Type: skein.NodeTypeFileInput},
		{ID: "clean", Type: skein.NodeTypeFilter},
		{ID: "train", Type: skein.NodeTypeModelTrain},
		{ID: "save", Type: skein.NodeTypeFileOutput},
	}
	edges := []skein.Edge{
		{ID: "e1", Source: "load", Target: "clean"},
		{ID: "e2", Source: "clean", Target: "train"},
		{ID: "e3", Source: "train", Target: "save"},
	}
	return nodes, edges
}

func TestManager_ExecutePipelineEndToEnd(t *testing.T) {
	manager := newManager(t, nil)
	nodes, edges := etlGraph()

	execution, err := manager.ExecutePipeline(context.Background(), "etl", nodes, edges, nil)

	require.NoError(t, err)
	assert.Equal(t, skein.ExecutionStatusCompleted, execution.Status)
	require.Len(t, execution.Nodes, 4)
	for _, entry := range execution.Nodes {
		assert.Equal(t, skein.NodeStatusCompleted, entry.Status, entry.NodeID)
		assert.NotNil(t, entry.StartedAt, entry.NodeID)
		assert.NotNil(t, entry.CompletedAt, entry.NodeID)
	}
}

func TestManager_ExecutionHistoryRoundTrip(t *testing.T) {
	manager := newManager(t, nil)
	nodes, edges := etlGraph()

	first, err := manager.ExecutePipeline(context.Background(), "etl", nodes, edges, nil)
	require.NoError(t, err)
	second, err := manager.ExecutePipeline(context.Background(), "etl", nodes, edges, nil)
	require.NoError(t, err)

	got, err := manager.GetExecution(context.Background(), first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)

	history, err := manager.GetExecutionsForPipeline(context.Background(), "etl")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, second.ID, history[0].ID, "newest first")

	recent, err := manager.RecentExecutions(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
}

func TestManager_GetExecutionMissing(t *testing.T) {
	manager := newManager(t, nil)

	_, err := manager.GetExecution(context.Background(), "exec-nope")
	require.Error(t, err)
	assert.True(t, skein.IsNotFound(err))
}

func TestManager_CustomWorkFunction(t *testing.T) {
	manager := newManager(t, nil)

	manager.RegisterWorkFunction(skein.NodeTypeFilter, func(ctx context.Context, node skein.Node, runCtx *skein.RunContext) (interface{}, error) {
		return map[string]interface{}{"rows_kept": 42}, nil
	})

	nodes := []skein.Node{{ID: "clean", Type: skein.NodeTypeFilter}}
	execution, err := manager.ExecutePipeline(context.Background(), "filter-only", nodes, nil, nil)

	require.NoError(t, err)
	entry := execution.NodeEntry("clean")
	require.NotNil(t, entry)
	assert.Equal(t, 42, entry.Outputs["rows_kept"])
}

func TestManager_NodeFailureRecordedNotRaised(t *testing.T) {
	manager := newManager(t, nil)

	manager.RegisterWorkFunction(skein.NodeTypeModelTrain, func(ctx context.Context, node skein.Node, runCtx *skein.RunContext) (interface{}, error) {
		return nil, errors.New("training diverged")
	})

	nodes, edges := etlGraph()
	execution, err := manager.ExecutePipeline(context.Background(), "etl", nodes, edges, nil)

	require.NoError(t, err)
	assert.Equal(t, skein.ExecutionStatusFailed, execution.Status)
	assert.Equal(t, skein.NodeStatusFailed, execution.NodeEntry("train").Status)
	assert.Equal(t, skein.NodeStatusPending, execution.NodeEntry("save").Status)
}

func TestManager_StructuralErrorIsRaised(t *testing.T) {
	manager := newManager(t, nil)

	nodes := []skein.Node{{ID: "a", Type: skein.NodeTypeFilter}}
	edges := []skein.Edge{{ID: "e1", Source: "a", Target: "ghost"}}

	execution, err := manager.ExecutePipeline(context.Background(), "broken", nodes, edges, nil)

	require.Error(t, err)
	assert.True(t, skein.IsMissingNode(err))
	require.NotNil(t, execution)
	assert.Equal(t, skein.ExecutionStatusFailed, execution.Status)
}

func TestManager_HookObservesRunLifecycle(t *testing.T) {
	manager := newManager(t, nil)

	var stages []skein.HookStage
	for _, stage := range []skein.HookStage{skein.StageBeforePipelineRun, skein.StageAfterPipelineRun} {
		_, err := manager.RegisterHook(skein.HookDefinition{
			Name:    "observe-" + string(stage),
			Stage:   stage,
			Enabled: true,
			Callback: func(ctx context.Context, hookCtx skein.HookContext) (skein.HookResult, error) {
				stages = append(stages, hookCtx.Stage)
				return skein.HookResult{Continue: true}, nil
			},
		})
		require.NoError(t, err)
	}

	nodes := []skein.Node{{ID: "a", Type: skein.NodeTypeFileInput}}
	_, err := manager.ExecutePipeline(context.Background(), "observed", nodes, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, []skein.HookStage{skein.StageBeforePipelineRun, skein.StageAfterPipelineRun}, stages)
	assert.NotEmpty(t, manager.HookHistory())
}

func TestManager_UnregisterHook(t *testing.T) {
	manager := newManager(t, nil)

	fired := false
	id, err := manager.RegisterHook(skein.HookDefinition{
		Name:    "once",
		Stage:   skein.StageBeforePipelineRun,
		Enabled: true,
		Callback: func(ctx context.Context, hookCtx skein.HookContext) (skein.HookResult, error) {
			fired = true
			return skein.HookResult{Continue: true}, nil
		},
	})
	require.NoError(t, err)
	assert.True(t, manager.UnregisterHook(id))

	nodes := []skein.Node{{ID: "a", Type: skein.NodeTypeFileInput}}
	_, err = manager.ExecutePipeline(context.Background(), "quiet", nodes, nil, nil)
	require.NoError(t, err)
	assert.False(t, fired)
}

func TestManager_GetPipelineSlice(t *testing.T) {
	manager := newManager(t, nil)
	nodes, edges := etlGraph()

	slice, err := manager.GetPipelineSlice(nodes, edges, []string{"train"})

	require.NoError(t, err)
	ids := make([]string, 0, len(slice.Nodes))
	for _, node := range slice.Nodes {
		ids = append(ids, node.ID)
	}
	assert.ElementsMatch(t, []string{"load", "clean", "train"}, ids)
	assert.Len(t, slice.Edges, 2)
}

func TestManager_ParallelStrategyFromConfig(t *testing.T) {
	config := skein.DefaultConfig()
	config.Engine.DefaultStrategy = skein.StrategyBoundedParallel
	manager := newManager(t, config)

	nodes, edges := etlGraph()
	execution, err := manager.ExecutePipeline(context.Background(), "etl", nodes, edges, nil)

	require.NoError(t, err)
	assert.Equal(t, skein.ExecutionStatusCompleted, execution.Status)
}

func TestManager_SelectByRequirements(t *testing.T) {
	manager := newManager(t, nil)
	nodes, edges := etlGraph()

	execution, err := manager.ExecutePipelineFor(context.Background(), skein.Requirements{Distributed: true}, "etl", nodes, edges, nil)

	require.NoError(t, err)
	assert.Equal(t, skein.ExecutionStatusCompleted, execution.Status)

	var used *skein.RunnerDescriptor
	for _, descriptor := range manager.Runners() {
		if descriptor.ID == execution.RunnerID {
			used = descriptor
		}
	}
	require.NotNil(t, used)
	assert.Equal(t, skein.StrategyDistributed, used.Config.Strategy)
}

func TestManager_BuiltinRunnersRegistered(t *testing.T) {
	manager := newManager(t, nil)

	strategies := make(map[skein.StrategyType]bool)
	for _, descriptor := range manager.Runners() {
		strategies[descriptor.Config.Strategy] = true
	}
	assert.True(t, strategies[skein.StrategySequential])
	assert.True(t, strategies[skein.StrategyBoundedParallel])
	assert.True(t, strategies[skein.StrategyDistributed])
}

func TestManager_PipelineParameterLayering(t *testing.T) {
	manager := newManager(t, nil)
	manager.SetPipelineParameters("etl", map[string]interface{}{
		"batch_size": 500,
		"format":     "csv",
	})

	var seen map[string]interface{}
	manager.RegisterWorkFunction(skein.NodeTypeFileInput, func(ctx context.Context, node skein.Node, runCtx *skein.RunContext) (interface{}, error) {
		seen = runCtx.Parameters
		return nil, nil
	})

	nodes := []skein.Node{{ID: "load", Type: skein.NodeTypeFileInput}}
	_, err := manager.ExecutePipeline(context.Background(), "etl", nodes, nil, map[string]interface{}{
		"format": "parquet",
	})

	require.NoError(t, err)
	require.NotNil(t, seen)
	assert.Equal(t, 500, seen["batch_size"])
	assert.Equal(t, "parquet", seen["format"])
}

func TestManager_MetricsAndCollector(t *testing.T) {
	manager := newManager(t, nil)
	nodes, edges := etlGraph()

	_, err := manager.ExecutePipeline(context.Background(), "etl", nodes, edges, nil)
	require.NoError(t, err)

	snapshot := manager.Metrics()
	assert.Equal(t, int64(1), snapshot.RunsStarted)
	assert.Equal(t, int64(1), snapshot.RunsCompleted)
	assert.Equal(t, int64(4), snapshot.NodesExecuted)

	registry := prometheus.NewRegistry()
	require.NoError(t, registry.Register(manager.MetricsCollector()))
	families, err := registry.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestManager_CatalogRoundTrip(t *testing.T) {
	manager := newManager(t, nil)

	entry := skein.DatasetDescriptor{ID: "ds-1", Name: "events", Format: "parquet"}
	require.NoError(t, manager.Catalog().SaveEntry(context.Background(), entry))

	got, err := manager.Catalog().GetEntry(context.Background(), "ds-1")
	require.NoError(t, err)
	assert.Equal(t, entry, *got)
}

func TestManager_PersistentStoreSurvivesReopen(t *testing.T) {
	dataDir := t.TempDir()

	config := skein.DefaultConfig()
	config.DataDir = dataDir
	config.Store.Persistent = true

	manager, err := skein.New(config)
	require.NoError(t, err)

	nodes := []skein.Node{{ID: "load", Type: skein.NodeTypeFileInput}}
	execution, err := manager.ExecutePipeline(context.Background(), "durable", nodes, nil, nil)
	require.NoError(t, err)
	require.NoError(t, manager.Close())

	reopened := newManager(t, config)
	got, err := reopened.GetExecution(context.Background(), execution.ID)
	require.NoError(t, err)
	assert.Equal(t, skein.ExecutionStatusCompleted, got.Status)
}

func TestManager_InvalidConfigRejected(t *testing.T) {
	config := skein.DefaultConfig()
	config.Store.Persistent = true // no DataDir

	_, err := skein.New(config)
	require.Error(t, err)
}
