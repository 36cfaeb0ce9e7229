package executor

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/skein-dev/skein/internal/domain"
)

// SimulatedWork is the shipped WorkFunction double: it sleeps for a
// randomized interval and synthesizes a payload appropriate to the
// node's kind. Real deployments register genuine work functions per
// node type and never touch this.
type SimulatedWork struct {
	mu         sync.Mutex
	rng        *rand.Rand
	minLatency time.Duration
	maxLatency time.Duration
}

func NewSimulatedWork(seed int64) *SimulatedWork {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &SimulatedWork{
		rng:        rand.New(rand.NewSource(seed)),
		minLatency: 5 * time.Millisecond,
		maxLatency: 50 * time.Millisecond,
	}
}

// WithLatency overrides the simulated latency window. Tests use a
// zero window to stay fast.
func (w *SimulatedWork) WithLatency(min, max time.Duration) *SimulatedWork {
	w.minLatency = min
	w.maxLatency = max
	return w
}

func (w *SimulatedWork) Run(ctx context.Context, node domain.Node, runCtx *domain.RunContext) (interface{}, error) {
	latency := w.randomLatency()
	if latency > 0 {
		timer := time.NewTimer(latency)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return w.payloadFor(node), nil
}

func (w *SimulatedWork) randomLatency() time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()

	window := w.maxLatency - w.minLatency
	if window <= 0 {
		return w.minLatency
	}
	return w.minLatency + time.Duration(w.rng.Int63n(int64(window)))
}

func (w *SimulatedWork) payloadFor(node domain.Node) map[string]interface{} {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch node.Type.Kind() {
	case domain.NodeKindInput:
		return map[string]interface{}{
			"records_loaded": int64(1000 + w.rng.Intn(9000)),
			"dataset_id":     node.DatasetID,
		}
	case domain.NodeKindOutput:
		return map[string]interface{}{
			"records_written": int64(500 + w.rng.Intn(5000)),
			"destination":     string(node.Type),
		}
	case domain.NodeKindModel:
		return map[string]interface{}{
			"accuracy":  0.80 + w.rng.Float64()*0.19,
			"precision": 0.75 + w.rng.Float64()*0.24,
			"recall":    0.70 + w.rng.Float64()*0.29,
		}
	default:
		in := int64(1000 + w.rng.Intn(9000))
		return map[string]interface{}{
			"records_in":  in,
			"records_out": in - int64(w.rng.Intn(500)),
		}
	}
}

// syntheticUsage fabricates resource-usage figures for the metrics
// block; real work functions report measured values instead.
func (w *SimulatedWork) syntheticUsage() (memoryMB, cpuPercent float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return 64 + w.rng.Float64()*448, 5 + w.rng.Float64()*90
}
