package ports

import "context"

// KeyValue is one scanned entry from ListByPrefix.
type KeyValue struct {
	Key   string
	Value []byte
}

// StoragePort is the narrow KV surface the execution store needs.
// Implementations: Badger-backed persistence, in-memory for tests.
type StoragePort interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	ListByPrefix(ctx context.Context, prefix string) ([]KeyValue, error)
	Close() error
}
