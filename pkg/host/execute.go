package host

import (
	"context"
	"fmt"

	"github.com/goliatone/go-webtempl/pkg/future"
)

// Execute runs fn on its own goroutine once a worker slot is free and
// returns a future for its result. The caller never blocks. Cancelling ctx
// does not stop work that was already submitted; a panic in fn fails the
// future.
func Execute[T any](ctx context.Context, h *Host, fn func(context.Context) (T, error)) *future.Future[T] {
	p := future.NewPromise[T]()
	if ctx == nil {
		ctx = context.Background()
	}
	work := context.WithoutCancel(ctx)

	go func() {
		if err := h.sem.Acquire(work, 1); err != nil {
			p.Fail(fmt.Errorf("host: acquire worker: %w", err))
			return
		}
		defer h.sem.Release(1)

		defer func() {
			if r := recover(); r != nil {
				h.logger.Error("blocking task panicked", "panic", r)
				p.Fail(fmt.Errorf("host: task panicked: %v", r))
			}
		}()

		p.Resolve(fn(work))
	}()

	return p.Future()
}
