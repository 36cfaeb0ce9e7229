package catalog

import (
	"context"
	"log/slog"
	"time"

	"github.com/skein-dev/skein/internal/domain"
	"github.com/skein-dev/skein/internal/ports"
	"github.com/skein-dev/skein/internal/xjson"
)

// Adapter is a KV-backed dataset catalog. Entries are stored opaque;
// the engine resolves dataset references through it but never
// interprets formats or locations. Save and load are bracketed by the
// catalog hook stages.
type Adapter struct {
	storage ports.StoragePort
	hooks   ports.HookRegistryPort
	logger  *slog.Logger
}

func NewAdapter(storage ports.StoragePort, hooks ports.HookRegistryPort, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}

	return &Adapter{
		storage: storage,
		hooks:   hooks,
		logger:  logger.With("component", "data-catalog"),
	}
}

func (a *Adapter) GetEntry(ctx context.Context, datasetID string) (*domain.DatasetDescriptor, error) {
	a.fireStage(ctx, domain.StageBeforeCatalogLoad, datasetID)

	data, err := a.storage.Get(ctx, domain.CatalogKey(datasetID))
	if err != nil {
		return nil, err
	}

	var entry domain.DatasetDescriptor
	if err := xjson.Unmarshal(data, &entry); err != nil {
		return nil, domain.NewStorageError("decode", domain.CatalogKey(datasetID), err)
	}

	a.fireStage(ctx, domain.StageAfterCatalogLoad, datasetID)
	return &entry, nil
}

func (a *Adapter) SaveEntry(ctx context.Context, entry domain.DatasetDescriptor) error {
	if entry.ID == "" {
		return domain.ErrInvalidInput
	}

	a.fireStage(ctx, domain.StageBeforeCatalogSave, entry.ID)

	data, err := xjson.Marshal(entry)
	if err != nil {
		return domain.NewStorageError("encode", domain.CatalogKey(entry.ID), err)
	}

	if err := a.storage.Put(ctx, domain.CatalogKey(entry.ID), data); err != nil {
		return err
	}

	a.logger.Debug("catalog entry saved", "dataset_id", entry.ID, "name", entry.Name)
	a.fireStage(ctx, domain.StageAfterCatalogSave, entry.ID)
	return nil
}

// ListEntries scans every stored descriptor.
func (a *Adapter) ListEntries(ctx context.Context) ([]domain.DatasetDescriptor, error) {
	pairs, err := a.storage.ListByPrefix(ctx, domain.CatalogPrefix)
	if err != nil {
		return nil, err
	}

	entries := make([]domain.DatasetDescriptor, 0, len(pairs))
	for _, pair := range pairs {
		var entry domain.DatasetDescriptor
		if err := xjson.Unmarshal(pair.Value, &entry); err != nil {
			a.logger.Warn("skipping undecodable catalog entry", "key", pair.Key)
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (a *Adapter) fireStage(ctx context.Context, stage domain.HookStage, datasetID string) {
	if a.hooks == nil {
		return
	}
	a.hooks.ExecuteHooks(ctx, domain.HookContext{
		Stage:     stage,
		Data:      map[string]interface{}{"dataset_id": datasetID},
		Timestamp: time.Now(),
	})
}
