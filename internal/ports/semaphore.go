package ports

import "context"

// SlotSemaphore bounds concurrent node work. Acquire suspends the
// requester until a slot frees or the context is done; there is no
// polling loop.
type SlotSemaphore interface {
	Acquire(ctx context.Context) error
	Release()
	Capacity() int
	InUse() int
}
