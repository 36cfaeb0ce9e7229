package ports

import (
	"context"

	"github.com/skein-dev/skein/internal/domain"
)

// ExecutionStorePort keeps finished run records addressable by id and
// by owning pipeline. The engine hands a record over once its run
// leaves the running state; the store owns it from then on.
type ExecutionStorePort interface {
	Save(ctx context.Context, execution *domain.PipelineExecution) error
	Get(ctx context.Context, executionID string) (*domain.PipelineExecution, error)

	// ListByPipeline returns records for one pipeline, newest first.
	ListByPipeline(ctx context.Context, pipelineID string) ([]*domain.PipelineExecution, error)

	// Recent returns up to limit most recent records across pipelines.
	Recent(ctx context.Context, limit int) ([]*domain.PipelineExecution, error)

	Close() error
}
