package storage

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dgraph-io/badger/v3"
	"github.com/skein-dev/skein/internal/domain"
	"github.com/skein-dev/skein/internal/ports"
)

// BadgerAdapter backs the StoragePort with an embedded Badger
// database. Used by the persistent execution store.
type BadgerAdapter struct {
	db     *badger.DB
	logger *slog.Logger
}

func NewBadgerAdapter(dataDir string, logger *slog.Logger) (*BadgerAdapter, error) {
	if logger == nil {
		logger = slog.Default()
	}
	componentLogger := logger.With("component", "storage", "backend", "badger")

	opts := badger.DefaultOptions(dataDir).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		componentLogger.Error("failed to open badger database", "data_dir", dataDir, "error", err.Error())
		return nil, domain.NewStorageError("open", dataDir, err)
	}

	componentLogger.Info("badger storage opened", "data_dir", dataDir)

	return &BadgerAdapter{
		db:     db,
		logger: componentLogger,
	}, nil
}

func (s *BadgerAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, domain.NewStorageError("get", key, domain.ErrNotFound)
	}
	if err != nil {
		s.logger.Error("badger get failed", "key", key, "error", err.Error())
		return nil, domain.NewStorageError("get", key, err)
	}

	return value, nil
}

func (s *BadgerAdapter) Put(ctx context.Context, key string, value []byte) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
	if err != nil {
		s.logger.Error("badger put failed", "key", key, "error", err.Error())
		return domain.NewStorageError("put", key, err)
	}

	s.logger.Debug("badger put", "key", key, "value_length", len(value))
	return nil
}

func (s *BadgerAdapter) Delete(ctx context.Context, key string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return domain.NewStorageError("delete", key, err)
	}
	return nil
}

func (s *BadgerAdapter) ListByPrefix(ctx context.Context, prefix string) ([]ports.KeyValue, error) {
	var entries []ports.KeyValue

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			entries = append(entries, ports.KeyValue{
				Key:   string(item.Key()),
				Value: value,
			})
		}
		return nil
	})
	if err != nil {
		s.logger.Error("badger prefix scan failed", "prefix", prefix, "error", err.Error())
		return nil, domain.NewStorageError("list", prefix, err)
	}

	return entries, nil
}

func (s *BadgerAdapter) Close() error {
	s.logger.Info("closing badger storage")
	return s.db.Close()
}
