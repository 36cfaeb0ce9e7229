package runner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skein-dev/skein/internal/domain"
)

func newSequential(h *harness) *Sequential {
	return NewSequential(h.builder, h.executor, h.hooks, h.store, h.metrics, domain.RunnerConfig{}, testLogger())
}

func TestSequential_RunsChainInOrder(t *testing.T) {
	h := newHarness()
	r := newSequential(h)
	nodes, edges := chainGraph()

	execution, err := r.ExecutePipeline(context.Background(), "pipe-1", nodes, edges, nil)

	require.NoError(t, err)
	require.NotNil(t, execution)
	assert.Equal(t, domain.ExecutionStatusCompleted, execution.Status)
	assert.NotNil(t, execution.CompletedAt)
	assert.Equal(t, []string{"a", "b", "c"}, h.startOrder())

	for _, entry := range execution.Nodes {
		assert.Equal(t, domain.NodeStatusCompleted, entry.Status, entry.NodeID)
		assert.NotNil(t, entry.Metrics, entry.NodeID)
	}
}

func TestSequential_FirstFailureHaltsRun(t *testing.T) {
	h := newHarness()
	h.failNode("b", "filter exploded")
	r := newSequential(h)
	nodes, edges := chainGraph()

	execution, err := r.ExecutePipeline(context.Background(), "pipe-1", nodes, edges, nil)

	// A node failure is recorded data, not a call-level error.
	require.NoError(t, err)
	assert.Equal(t, domain.ExecutionStatusFailed, execution.Status)
	assert.Contains(t, execution.Error, "node b failed")

	assert.Equal(t, domain.NodeStatusCompleted, execution.NodeEntry("a").Status)
	assert.Equal(t, domain.NodeStatusFailed, execution.NodeEntry("b").Status)
	assert.Contains(t, execution.NodeEntry("b").Error, "filter exploded")
	assert.Equal(t, domain.NodeStatusPending, execution.NodeEntry("c").Status)

	assert.Equal(t, []string{"a", "b"}, h.startOrder())
}

func TestSequential_EmptyPipelineCompletes(t *testing.T) {
	h := newHarness()
	r := newSequential(h)

	execution, err := r.ExecutePipeline(context.Background(), "pipe-empty", nil, nil, nil)

	require.NoError(t, err)
	assert.Equal(t, domain.ExecutionStatusCompleted, execution.Status)
	assert.Empty(t, execution.Nodes)
	assert.Empty(t, h.startOrder())
}

func TestSequential_CycleFailsBeforeAnyNodeRuns(t *testing.T) {
	h := newHarness()
	r := newSequential(h)
	nodes := []domain.Node{
		{ID: "a", Type: domain.NodeTypeFilter},
		{ID: "b", Type: domain.NodeTypeFilter},
	}
	edges := []domain.Edge{
		{ID: "e1", Source: "a", Target: "b"},
		{ID: "e2", Source: "b", Target: "a"},
	}

	execution, err := r.ExecutePipeline(context.Background(), "pipe-cycle", nodes, edges, nil)

	require.Error(t, err)
	assert.True(t, domain.IsCircularDependency(err))
	require.NotNil(t, execution)
	assert.Equal(t, domain.ExecutionStatusFailed, execution.Status)
	assert.Empty(t, h.startOrder())

	for _, entry := range execution.Nodes {
		assert.Equal(t, domain.NodeStatusPending, entry.Status)
	}
}

func TestSequential_PersistsRunRecord(t *testing.T) {
	h := newHarness()
	r := newSequential(h)
	nodes, edges := chainGraph()

	execution, err := r.ExecutePipeline(context.Background(), "pipe-1", nodes, edges, nil)
	require.NoError(t, err)

	stored, err := h.store.Get(context.Background(), execution.ID)
	require.NoError(t, err)
	assert.Equal(t, execution.ID, stored.ID)
	assert.Equal(t, domain.ExecutionStatusCompleted, stored.Status)
	assert.Len(t, stored.Nodes, 3)
}

func TestSequential_CancelledContextStopsRun(t *testing.T) {
	h := newHarness()
	r := newSequential(h)
	nodes, edges := chainGraph()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	execution, err := r.ExecutePipeline(ctx, "pipe-1", nodes, edges, nil)

	require.NoError(t, err)
	assert.Equal(t, domain.ExecutionStatusFailed, execution.Status)
	assert.Empty(t, h.startOrder())
}

func TestSequential_RecordsRunnerMetrics(t *testing.T) {
	h := newHarness()
	r := newSequential(h)
	nodes, edges := chainGraph()

	_, err := r.ExecutePipeline(context.Background(), "pipe-1", nodes, edges, nil)
	require.NoError(t, err)

	snapshot := r.Descriptor().Metrics.Snapshot()
	assert.Equal(t, int64(1), snapshot.TotalRuns)
	assert.Equal(t, int64(1), snapshot.SuccessfulRuns)
	assert.InDelta(t, 1.0, r.Descriptor().Metrics.SuccessRatio(), 0.001)
}
