package hooks

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/skein-dev/skein/internal/domain"
)

// Registry stores extension callbacks keyed by lifecycle stage and
// executes them in priority order with short-circuit semantics.
// Registered hooks and the execution history are the only state
// shared across runs; both are guarded by the registry mutex.
type Registry struct {
	mu       sync.RWMutex
	hooks    map[string]*registeredHook
	bySerial int64
	enabled  bool
	budget   time.Duration
	history  []domain.HookExecutionRecord
	metrics  *domain.EngineMetrics
	logger   *slog.Logger
}

type registeredHook struct {
	def    domain.HookDefinition
	serial int64
}

func NewRegistry(metrics *domain.EngineMetrics, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = domain.NewEngineMetrics()
	}

	return &Registry{
		hooks:   make(map[string]*registeredHook),
		enabled: true,
		metrics: metrics,
		logger:  logger.With("component", "hook-registry"),
	}
}

// Register assigns a fresh id, stamps the creation time, and stores
// the definition. The caller's Enabled flag is honored as given.
func (r *Registry) Register(def domain.HookDefinition) (string, error) {
	if def.Callback == nil {
		return "", domain.ErrInvalidInput
	}
	if def.Stage == "" {
		return "", domain.ErrInvalidInput
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	def.ID = uuid.New().String()
	def.CreatedAt = time.Now()
	r.bySerial++
	r.hooks[def.ID] = &registeredHook{def: def, serial: r.bySerial}

	r.logger.Debug("hook registered",
		"hook_id", def.ID,
		"name", def.Name,
		"stage", string(def.Stage),
		"priority", def.Priority,
	)

	return def.ID, nil
}

// Unregister deletes permanently. Disabling is the reversible path.
func (r *Registry) Unregister(hookID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.hooks[hookID]; !ok {
		return false
	}
	delete(r.hooks, hookID)
	r.logger.Debug("hook unregistered", "hook_id", hookID)
	return true
}

func (r *Registry) GetHook(hookID string) (*domain.HookDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	hook, ok := r.hooks[hookID]
	if !ok {
		return nil, false
	}
	def := hook.def
	return &def, true
}

// GetByStage returns the stage's enabled hooks sorted ascending by
// priority, ties broken by registration order.
func (r *Registry) GetByStage(stage domain.HookStage) []domain.HookDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.stageHooksLocked(stage)
}

func (r *Registry) stageHooksLocked(stage domain.HookStage) []domain.HookDefinition {
	matched := make([]*registeredHook, 0)
	for _, hook := range r.hooks {
		if hook.def.Stage == stage && hook.def.Enabled {
			matched = append(matched, hook)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].def.Priority != matched[j].def.Priority {
			return matched[i].def.Priority < matched[j].def.Priority
		}
		return matched[i].serial < matched[j].serial
	})

	defs := make([]domain.HookDefinition, 0, len(matched))
	for _, hook := range matched {
		defs = append(defs, hook.def)
	}
	return defs
}

func (r *Registry) SetHookEnabled(hookID string, enabled bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	hook, ok := r.hooks[hookID]
	if !ok {
		return false
	}
	hook.def.Enabled = enabled
	return true
}

func (r *Registry) SetEnabled(enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enabled = enabled
}

func (r *Registry) Enabled() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.enabled
}

// SetCallbackBudget caps how long one callback may suspend. Zero
// means unbounded.
func (r *Registry) SetCallbackBudget(budget time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.budget = budget
}

// ExecuteHooks runs the stage's enabled hooks in order. Every
// invocation is logged to the history regardless of outcome. A
// callback error is caught, logged with success=false, and ends the
// stage chain without reaching the caller; a normal return with
// Continue=false ends the chain after its result is recorded.
func (r *Registry) ExecuteHooks(ctx context.Context, hookCtx domain.HookContext) []domain.HookResult {
	if !r.Enabled() {
		return []domain.HookResult{}
	}

	r.mu.RLock()
	defs := r.stageHooksLocked(hookCtx.Stage)
	r.mu.RUnlock()

	results := make([]domain.HookResult, 0, len(defs))

	for _, def := range defs {
		start := time.Now()
		result, err := r.invoke(ctx, def, hookCtx)
		duration := time.Since(start)

		record := domain.HookExecutionRecord{
			HookID:    def.ID,
			Stage:     def.Stage,
			Success:   err == nil,
			Duration:  duration,
			Timestamp: start,
		}
		if err != nil {
			record.Error = err.Error()
		}
		r.appendHistory(record)

		r.metrics.IncrementHooksInvoked()

		if err != nil {
			r.metrics.IncrementHooksFailed()
			r.logger.Error("hook callback failed",
				"hook_id", def.ID,
				"name", def.Name,
				"stage", string(def.Stage),
				"duration", duration,
				"error", err.Error(),
			)
			break
		}

		results = append(results, result)

		if !result.Continue {
			r.logger.Debug("hook requested stop",
				"hook_id", def.ID,
				"stage", string(def.Stage),
			)
			break
		}
	}

	return results
}

// invoke isolates callback panics so a misbehaving extension cannot
// take down node or pipeline execution.
func (r *Registry) invoke(ctx context.Context, def domain.HookDefinition, hookCtx domain.HookContext) (result domain.HookResult, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			result = domain.HookResult{}
			err = &callbackPanicError{hookID: def.ID, value: rec}
		}
	}()

	r.mu.RLock()
	budget := r.budget
	r.mu.RUnlock()

	if budget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, budget)
		defer cancel()
	}

	return def.Callback(ctx, hookCtx)
}

func (r *Registry) appendHistory(record domain.HookExecutionRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history = append(r.history, record)
}

// History returns a copy of the full execution log. It grows until
// ClearHistory is called.
func (r *Registry) History() []domain.HookExecutionRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.HookExecutionRecord, len(r.history))
	copy(out, r.history)
	return out
}

func (r *Registry) HistoryForHook(hookID string) []domain.HookExecutionRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.HookExecutionRecord, 0)
	for _, record := range r.history {
		if record.HookID == hookID {
			out = append(out, record)
		}
	}
	return out
}

// RecentHistory returns entries younger than maxAge.
func (r *Registry) RecentHistory(maxAge time.Duration) []domain.HookExecutionRecord {
	cutoff := time.Now().Add(-maxAge)

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.HookExecutionRecord, 0)
	for _, record := range r.history {
		if record.Timestamp.After(cutoff) {
			out = append(out, record)
		}
	}
	return out
}

func (r *Registry) ClearHistory() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history = nil
}
