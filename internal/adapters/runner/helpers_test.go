package runner

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/skein-dev/skein/internal/adapters/executor"
	"github.com/skein-dev/skein/internal/adapters/graph"
	"github.com/skein-dev/skein/internal/adapters/hooks"
	"github.com/skein-dev/skein/internal/adapters/storage"
	"github.com/skein-dev/skein/internal/adapters/store"
	"github.com/skein-dev/skein/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// harness wires real collaborators around an instant work function
// that records execution order and fails on request.
type harness struct {
	builder  *graph.Builder
	executor *executor.Adapter
	hooks    *hooks.Registry
	store    *store.Adapter
	metrics  *domain.EngineMetrics

	mu       sync.Mutex
	started  []string
	failOn   map[string]error
	workTime time.Duration
}

func newHarness() *harness {
	logger := testLogger()
	metrics := domain.NewEngineMetrics()
	hookRegistry := hooks.NewRegistry(metrics, logger)

	h := &harness{
		builder: graph.NewBuilder(logger),
		hooks:   hookRegistry,
		store:   store.NewAdapter(storage.NewMemoryAdapter(), logger),
		metrics: metrics,
		failOn:  make(map[string]error),
	}

	h.executor = executor.NewAdapter(hookRegistry, metrics, 1, logger)
	h.executor.SetDefaultWorkFunction(h.work)
	return h
}

func (h *harness) work(ctx context.Context, node domain.Node, runCtx *domain.RunContext) (interface{}, error) {
	h.mu.Lock()
	h.started = append(h.started, node.ID)
	failErr := h.failOn[node.ID]
	h.mu.Unlock()

	if h.workTime > 0 {
		select {
		case <-time.After(h.workTime):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if failErr != nil {
		return nil, failErr
	}
	return map[string]interface{}{"node": node.ID}, nil
}

func (h *harness) startOrder() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.started))
	copy(out, h.started)
	return out
}

func (h *harness) failNode(nodeID string, message string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.failOn[nodeID] = errors.New(message)
}

func chainGraph() ([]domain.Node, []domain.Edge) {
	nodes := []domain.Node{
		{ID: "a", Type: domain.NodeTypeFileInput},
		{ID: "b", Type: domain.NodeTypeFilter},
		{ID: "c", Type: domain.NodeTypeFileOutput},
	}
	edges := []domain.Edge{
		{ID: "e1", Source: "a", Target: "b"},
		{ID: "e2", Source: "b", Target: "c"},
	}
	return nodes, edges
}

func diamondGraph() ([]domain.Node, []domain.Edge) {
	nodes := []domain.Node{
		{ID: "a", Type: domain.NodeTypeFileInput},
		{ID: "b", Type: domain.NodeTypeFilter},
		{ID: "c", Type: domain.NodeTypeAggregate},
		{ID: "d", Type: domain.NodeTypeFileOutput},
	}
	edges := []domain.Edge{
		{ID: "e1", Source: "a", Target: "b"},
		{ID: "e2", Source: "a", Target: "c"},
		{ID: "e3", Source: "b", Target: "d"},
		{ID: "e4", Source: "c", Target: "d"},
	}
	return nodes, edges
}
