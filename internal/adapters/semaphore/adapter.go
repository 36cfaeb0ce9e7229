package semaphore

import (
	"log/slog"
	"sync/atomic"

	"context"
)

// Adapter is a counting slot semaphore over a buffered channel.
// Acquire suspends the requester until a slot frees; there is no
// re-check polling loop.
type Adapter struct {
	slots  chan struct{}
	inUse  int64
	logger *slog.Logger
}

func NewAdapter(capacity int, logger *slog.Logger) *Adapter {
	if capacity < 1 {
		capacity = 1
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Adapter{
		slots:  make(chan struct{}, capacity),
		logger: logger.With("component", "semaphore"),
	}
}

func (a *Adapter) Acquire(ctx context.Context) error {
	select {
	case a.slots <- struct{}{}:
		atomic.AddInt64(&a.inUse, 1)
		return nil
	case <-ctx.Done():
		a.logger.Debug("semaphore acquire abandoned", "error", ctx.Err().Error())
		return ctx.Err()
	}
}

func (a *Adapter) Release() {
	select {
	case <-a.slots:
		atomic.AddInt64(&a.inUse, -1)
	default:
		a.logger.Warn("release without matching acquire")
	}
}

func (a *Adapter) Capacity() int {
	return cap(a.slots)
}

func (a *Adapter) InUse() int {
	return int(atomic.LoadInt64(&a.inUse))
}
