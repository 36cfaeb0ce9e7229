package storage

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/skein-dev/skein/internal/domain"
	"github.com/skein-dev/skein/internal/ports"
)

// MemoryAdapter is the StoragePort for tests and non-persistent
// configurations. Prefix scans return keys in sorted order, matching
// the Badger adapter.
type MemoryAdapter struct {
	mu     sync.RWMutex
	data   map[string][]byte
	closed bool
}

func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{
		data: make(map[string][]byte),
	}
}

func (s *MemoryAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, domain.NewStorageError("get", key, domain.ErrStoreClosed)
	}

	value, ok := s.data[key]
	if !ok {
		return nil, domain.NewStorageError("get", key, domain.ErrNotFound)
	}

	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (s *MemoryAdapter) Put(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return domain.NewStorageError("put", key, domain.ErrStoreClosed)
	}

	stored := make([]byte, len(value))
	copy(stored, value)
	s.data[key] = stored
	return nil
}

func (s *MemoryAdapter) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return domain.NewStorageError("delete", key, domain.ErrStoreClosed)
	}

	delete(s.data, key)
	return nil
}

func (s *MemoryAdapter) ListByPrefix(ctx context.Context, prefix string) ([]ports.KeyValue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, domain.NewStorageError("list", prefix, domain.ErrStoreClosed)
	}

	keys := make([]string, 0)
	for key := range s.data {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	entries := make([]ports.KeyValue, 0, len(keys))
	for _, key := range keys {
		value := make([]byte, len(s.data[key]))
		copy(value, s.data[key])
		entries = append(entries, ports.KeyValue{Key: key, Value: value})
	}
	return entries, nil
}

func (s *MemoryAdapter) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
