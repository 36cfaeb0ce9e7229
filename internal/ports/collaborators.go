package ports

import (
	"context"
	"time"

	"github.com/skein-dev/skein/internal/domain"
)

// DataCatalog is the external dataset metadata registry. The engine
// resolves a node's declared dataset reference through it but never
// validates catalog contents.
type DataCatalog interface {
	GetEntry(ctx context.Context, datasetID string) (*domain.DatasetDescriptor, error)
	SaveEntry(ctx context.Context, entry domain.DatasetDescriptor) error
}

// ExecutionSettings feeds the runner registry's default concurrency
// and timeout configuration.
type ExecutionSettings struct {
	Parallelism int
	Timeout     time.Duration
	RetryCount  int
}

// ConfigManager is the external environment/parameter resolver.
type ConfigManager interface {
	// ResolveParameters returns the effective parameter map for a
	// pipeline; pipelineID may be empty for global defaults.
	ResolveParameters(ctx context.Context, pipelineID string) (map[string]interface{}, error)
	ExecutionSettings() ExecutionSettings
}
