package store

import (
	"context"
	"log/slog"
	"sort"

	"github.com/skein-dev/skein/internal/domain"
	"github.com/skein-dev/skein/internal/ports"
	"github.com/skein-dev/skein/internal/xjson"
)

// Adapter keeps run records addressable by id and by owning pipeline.
// Records are serialized through xjson onto a StoragePort, so the same
// adapter serves the in-memory and the Badger-backed configurations.
type Adapter struct {
	storage ports.StoragePort
	logger  *slog.Logger
}

func NewAdapter(storage ports.StoragePort, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}

	return &Adapter{
		storage: storage,
		logger:  logger.With("component", "execution-store"),
	}
}

// Save persists a run record and its pipeline index entry. The engine
// hands records over once their run is terminal; saving a running
// record is allowed (the engine may checkpoint) and overwrites.
func (a *Adapter) Save(ctx context.Context, execution *domain.PipelineExecution) error {
	data, err := xjson.Marshal(execution)
	if err != nil {
		return domain.NewStorageError("serialize", execution.ID, err)
	}

	if err := a.storage.Put(ctx, domain.ExecutionKey(execution.ID), data); err != nil {
		return err
	}

	indexKey := domain.PipelineIndexKey(execution.PipelineID, execution.StartedAt.UnixNano(), execution.ID)
	if err := a.storage.Put(ctx, indexKey, []byte(execution.ID)); err != nil {
		return err
	}

	a.logger.Debug("execution saved",
		"execution_id", execution.ID,
		"pipeline_id", execution.PipelineID,
		"status", string(execution.Status),
	)

	return nil
}

func (a *Adapter) Get(ctx context.Context, executionID string) (*domain.PipelineExecution, error) {
	data, err := a.storage.Get(ctx, domain.ExecutionKey(executionID))
	if err != nil {
		return nil, err
	}

	var execution domain.PipelineExecution
	if err := xjson.Unmarshal(data, &execution); err != nil {
		return nil, domain.NewStorageError("deserialize", executionID, err)
	}

	return &execution, nil
}

// ListByPipeline returns one pipeline's records newest first. Index
// keys embed the start timestamp, so the ascending prefix scan is
// chronological and only needs reversing.
func (a *Adapter) ListByPipeline(ctx context.Context, pipelineID string) ([]*domain.PipelineExecution, error) {
	entries, err := a.storage.ListByPrefix(ctx, domain.PipelinePrefix(pipelineID))
	if err != nil {
		return nil, err
	}

	executions := make([]*domain.PipelineExecution, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		execution, err := a.Get(ctx, string(entries[i].Value))
		if err != nil {
			if domain.IsNotFound(err) {
				a.logger.Warn("dangling pipeline index entry", "key", entries[i].Key)
				continue
			}
			return nil, err
		}
		executions = append(executions, execution)
	}

	return executions, nil
}

// Recent returns up to limit records across all pipelines, newest
// first.
func (a *Adapter) Recent(ctx context.Context, limit int) ([]*domain.PipelineExecution, error) {
	entries, err := a.storage.ListByPrefix(ctx, domain.ExecutionPrefix)
	if err != nil {
		return nil, err
	}

	executions := make([]*domain.PipelineExecution, 0, len(entries))
	for _, entry := range entries {
		var execution domain.PipelineExecution
		if err := xjson.Unmarshal(entry.Value, &execution); err != nil {
			return nil, domain.NewStorageError("deserialize", entry.Key, err)
		}
		executions = append(executions, &execution)
	}

	sort.Slice(executions, func(i, j int) bool {
		return executions[i].StartedAt.After(executions[j].StartedAt)
	})

	if limit > 0 && len(executions) > limit {
		executions = executions[:limit]
	}

	return executions, nil
}

func (a *Adapter) Close() error {
	return a.storage.Close()
}
