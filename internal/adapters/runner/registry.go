package runner

import (
	"log/slog"
	"sync"

	"github.com/skein-dev/skein/internal/domain"
	"github.com/skein-dev/skein/internal/ports"
)

// Registry holds named execution strategies and selects one by
// capability requirements and historical success rate. Selection is a
// heuristic and never blocks; absence is an expected result the
// caller must handle.
type Registry struct {
	mu      sync.RWMutex
	runners map[string]ports.PipelineRunner
	order   []string
	logger  *slog.Logger
}

func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}

	return &Registry{
		runners: make(map[string]ports.PipelineRunner),
		logger:  logger.With("component", "runner-registry"),
	}
}

func (r *Registry) Register(runner ports.PipelineRunner) error {
	if runner == nil || runner.Descriptor() == nil {
		return domain.ErrInvalidInput
	}

	descriptor := runner.Descriptor()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.runners[descriptor.ID]; exists {
		return domain.ErrInvalidInput
	}

	r.runners[descriptor.ID] = runner
	r.order = append(r.order, descriptor.ID)

	r.logger.Info("runner registered",
		"runner_id", descriptor.ID,
		"name", descriptor.Name,
		"strategy", string(descriptor.Config.Strategy),
	)

	return nil
}

func (r *Registry) Unregister(runnerID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.runners[runnerID]; !ok {
		return false
	}

	delete(r.runners, runnerID)
	for i, id := range r.order {
		if id == runnerID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	r.logger.Info("runner unregistered", "runner_id", runnerID)
	return true
}

func (r *Registry) Get(runnerID string) (ports.PipelineRunner, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	runner, ok := r.runners[runnerID]
	return runner, ok
}

// List returns descriptors in registration order.
func (r *Registry) List() []*domain.RunnerDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	descriptors := make([]*domain.RunnerDescriptor, 0, len(r.order))
	for _, id := range r.order {
		descriptors = append(descriptors, r.runners[id].Descriptor())
	}
	return descriptors
}

// SelectOptimalRunner filters available runners by the required
// capabilities, then picks the best historical success ratio, ties
// keeping the first registered. When nothing satisfies the
// requirements it falls back to any available runner; when nothing is
// available at all it returns nil.
func (r *Registry) SelectOptimalRunner(req domain.Requirements) ports.PipelineRunner {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var best ports.PipelineRunner
	bestRatio := -1.0
	var fallback ports.PipelineRunner

	for _, id := range r.order {
		runner := r.runners[id]
		descriptor := runner.Descriptor()

		if descriptor.Status != domain.RunnerStatusAvailable {
			continue
		}

		if fallback == nil {
			fallback = runner
		}

		if !descriptor.Capabilities.Satisfies(req) {
			continue
		}

		ratio := descriptor.Metrics.SuccessRatio()
		if ratio > bestRatio {
			best = runner
			bestRatio = ratio
		}
	}

	if best != nil {
		r.logger.Debug("runner selected",
			"runner_id", best.Descriptor().ID,
			"success_ratio", bestRatio,
		)
		return best
	}

	if fallback != nil {
		r.logger.Debug("no runner satisfies requirements, falling back",
			"runner_id", fallback.Descriptor().ID,
		)
	}
	return fallback
}
