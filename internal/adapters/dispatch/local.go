package dispatch

import (
	"context"
	"log/slog"
	"sync"

	"github.com/skein-dev/skein/internal/domain"
	"github.com/skein-dev/skein/internal/ports"
)

// Local is the reference WaveDispatcher: it processes a wave with
// in-process goroutines, bounded by workers. A remote-worker transport
// implements the same interface and replaces it wholesale.
type Local struct {
	executor ports.ExecutorPort
	workers  int
	logger   *slog.Logger
}

func NewLocal(executor ports.ExecutorPort, workers int, logger *slog.Logger) *Local {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Local{
		executor: executor,
		workers:  workers,
		logger:   logger.With("component", "wave-dispatcher", "substrate", "local"),
	}
}

func (d *Local) DispatchWave(ctx context.Context, wave []domain.Node, runCtx *domain.RunContext, execution *domain.PipelineExecution) map[string]ports.NodeResult {
	d.logger.Debug("processing wave locally",
		"execution_id", execution.ID,
		"wave_size", len(wave),
		"workers", d.workers,
	)

	var wg sync.WaitGroup
	var mu sync.Mutex
	results := make(map[string]ports.NodeResult, len(wave))

	slots := make(chan struct{}, d.workers)

	for _, node := range wave {
		wg.Add(1)
		go func(node domain.Node) {
			defer wg.Done()

			select {
			case slots <- struct{}{}:
			case <-ctx.Done():
				mu.Lock()
				results[node.ID] = ports.NodeResult{Success: false, Error: ctx.Err().Error()}
				mu.Unlock()
				return
			}
			defer func() { <-slots }()

			execution.MarkNodeRunning(node.ID)
			result := d.executor.ExecuteNode(ctx, node, runCtx, execution)

			mu.Lock()
			results[node.ID] = result
			mu.Unlock()
		}(node)
	}

	wg.Wait()
	return results
}
