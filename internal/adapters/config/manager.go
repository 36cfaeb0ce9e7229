package config

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/caarlos0/env/v10"

	"github.com/skein-dev/skein/internal/domain"
	"github.com/skein-dev/skein/internal/ports"
)

// envSettings is the environment surface of the engine. Values are
// read once at construction; live reconfiguration goes through the
// setter methods instead.
type envSettings struct {
	Parallelism int           `env:"SKEIN_PARALLELISM" envDefault:"4"`
	Timeout     time.Duration `env:"SKEIN_NODE_TIMEOUT" envDefault:"5m"`
	RetryCount  int           `env:"SKEIN_RETRY_COUNT" envDefault:"0"`
}

// Manager resolves effective run parameters: global defaults, then
// per-pipeline overrides, then call-site parameters, later layers
// winning key by key.
type Manager struct {
	mu        sync.RWMutex
	defaults  map[string]interface{}
	pipelines map[string]map[string]interface{}
	settings  ports.ExecutionSettings
	logger    *slog.Logger
}

func NewManager(logger *slog.Logger) (*Manager, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var settings envSettings
	if err := env.Parse(&settings); err != nil {
		return nil, err
	}
	if settings.Parallelism < 1 {
		settings.Parallelism = 1
	}

	return &Manager{
		defaults:  make(map[string]interface{}),
		pipelines: make(map[string]map[string]interface{}),
		settings: ports.ExecutionSettings{
			Parallelism: settings.Parallelism,
			Timeout:     settings.Timeout,
			RetryCount:  settings.RetryCount,
		},
		logger: logger.With("component", "config-manager"),
	}, nil
}

// SetDefaults replaces the global default parameter map.
func (m *Manager) SetDefaults(params map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaults = cloneParams(params)
}

// SetPipelineParameters replaces the override map for one pipeline.
func (m *Manager) SetPipelineParameters(pipelineID string, params map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pipelines[pipelineID] = cloneParams(params)
}

func (m *Manager) ResolveParameters(ctx context.Context, pipelineID string) (map[string]interface{}, error) {
	m.mu.RLock()
	defaults := m.defaults
	overrides := m.pipelines[pipelineID]
	m.mu.RUnlock()

	resolved, err := domain.MergeParameters(defaults, overrides)
	if err != nil {
		return nil, err
	}

	m.logger.Debug("parameters resolved",
		"pipeline_id", pipelineID,
		"keys", len(resolved),
	)
	return resolved, nil
}

func (m *Manager) ExecutionSettings() ports.ExecutionSettings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings
}

func cloneParams(params map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(params))
	for k, v := range params {
		out[k] = v
	}
	return out
}
