package store

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/skein-dev/skein/internal/adapters/storage"
	"github.com/skein-dev/skein/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestStore() *Adapter {
	return NewAdapter(storage.NewMemoryAdapter(), testLogger())
}

func makeExecution(pipelineID string, startedAt time.Time) *domain.PipelineExecution {
	execution := domain.NewPipelineExecution(pipelineID, []domain.Node{{ID: "n1", Type: domain.NodeTypeFilter}}, nil)
	execution.StartedAt = startedAt
	execution.Complete(domain.ExecutionStatusCompleted, "")
	return execution
}

func TestStore_SaveAndGet(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	execution := makeExecution("p1", time.Now())
	require.NoError(t, s.Save(ctx, execution))

	loaded, err := s.Get(ctx, execution.ID)
	require.NoError(t, err)
	assert.Equal(t, execution.ID, loaded.ID)
	assert.Equal(t, "p1", loaded.PipelineID)
	assert.Equal(t, domain.ExecutionStatusCompleted, loaded.Status)
	require.Len(t, loaded.Nodes, 1)
	assert.Equal(t, "n1", loaded.Nodes[0].NodeID)
}

func TestStore_GetMissing(t *testing.T) {
	s := newTestStore()

	_, err := s.Get(context.Background(), "no-such-run")
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
}

func TestStore_ListByPipelineNewestFirst(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	oldest := makeExecution("p1", base)
	middle := makeExecution("p1", base.Add(time.Minute))
	newest := makeExecution("p1", base.Add(2*time.Minute))
	other := makeExecution("p2", base.Add(3*time.Minute))

	for _, e := range []*domain.PipelineExecution{middle, oldest, newest, other} {
		require.NoError(t, s.Save(ctx, e))
	}

	executions, err := s.ListByPipeline(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, executions, 3)
	assert.Equal(t, newest.ID, executions[0].ID)
	assert.Equal(t, middle.ID, executions[1].ID)
	assert.Equal(t, oldest.ID, executions[2].ID)
}

func TestStore_ListByPipelineEmpty(t *testing.T) {
	s := newTestStore()

	executions, err := s.ListByPipeline(context.Background(), "unknown")
	require.NoError(t, err)
	assert.Empty(t, executions)
}

func TestStore_RecentHonorsLimit(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	var ids []string
	for i := 0; i < 5; i++ {
		e := makeExecution("p1", base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, s.Save(ctx, e))
		ids = append(ids, e.ID)
	}

	recent, err := s.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, ids[4], recent[0].ID)
	assert.Equal(t, ids[3], recent[1].ID)
}

func TestStore_RoundTripsThroughBadger(t *testing.T) {
	backend, err := storage.NewBadgerAdapter(t.TempDir(), testLogger())
	require.NoError(t, err)
	s := NewAdapter(backend, testLogger())
	defer s.Close()

	ctx := context.Background()
	execution := makeExecution("p1", time.Now())
	require.NoError(t, s.Save(ctx, execution))

	loaded, err := s.Get(ctx, execution.ID)
	require.NoError(t, err)
	assert.Equal(t, execution.ID, loaded.ID)
}
