// Package future provides a minimal single-assignment asynchronous result.
//
// A Promise is the write side and a Future the read side. Completion happens
// exactly once; later attempts are ignored and reported to the caller.
package future

import (
	"context"
	"sync"
)

// Handler receives the outcome of a Future.
type Handler[T any] func(value T, err error)

// Future is the read side of an asynchronous result.
type Future[T any] struct {
	done chan struct{}

	mu       sync.Mutex
	value    T
	err      error
	handlers []Handler[T]
}

// Promise completes its Future.
type Promise[T any] struct {
	future *Future[T]
	once   sync.Once
}

// NewPromise creates an uncompleted promise.
func NewPromise[T any]() *Promise[T] {
	return &Promise[T]{
		future: &Future[T]{done: make(chan struct{})},
	}
}

// Future returns the read side bound to the promise.
func (p *Promise[T]) Future() *Future[T] {
	return p.future
}

// Complete resolves the future with a value. It returns false when the
// future was already completed.
func (p *Promise[T]) Complete(value T) bool {
	return p.resolve(value, nil)
}

// Fail resolves the future with an error. It returns false when the future
// was already completed.
func (p *Promise[T]) Fail(err error) bool {
	var zero T
	return p.resolve(zero, err)
}

// Resolve completes the future from a (value, error) pair, failing when err
// is non-nil.
func (p *Promise[T]) Resolve(value T, err error) bool {
	if err != nil {
		return p.Fail(err)
	}
	return p.Complete(value)
}

func (p *Promise[T]) resolve(value T, err error) bool {
	resolved := false
	p.once.Do(func() {
		resolved = true

		f := p.future
		f.mu.Lock()
		f.value = value
		f.err = err
		handlers := f.handlers
		f.handlers = nil
		close(f.done)
		f.mu.Unlock()

		for _, h := range handlers {
			h(value, err)
		}
	})
	return resolved
}

// Succeeded returns a future already completed with value.
func Succeeded[T any](value T) *Future[T] {
	p := NewPromise[T]()
	p.Complete(value)
	return p.Future()
}

// Failed returns a future already failed with err.
func Failed[T any](err error) *Future[T] {
	p := NewPromise[T]()
	p.Fail(err)
	return p.Future()
}

// Done is closed once the future completes.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// IsComplete reports whether the future has a result.
func (f *Future[T]) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Result returns the outcome. It must only be called after Done is closed;
// before that it returns the zero value and a nil error.
func (f *Future[T]) Result() (T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value, f.err
}

// OnComplete registers a handler. Handlers registered after completion run
// immediately on the calling goroutine; the others run on the goroutine that
// completes the future, in registration order.
func (f *Future[T]) OnComplete(h Handler[T]) *Future[T] {
	if h == nil {
		return f
	}

	f.mu.Lock()
	select {
	case <-f.done:
		value, err := f.value, f.err
		f.mu.Unlock()
		h(value, err)
	default:
		f.handlers = append(f.handlers, h)
		f.mu.Unlock()
	}
	return f
}

// Await blocks until the future completes or ctx is done. A done context
// does not cancel the underlying work.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	select {
	case <-f.done:
		return f.Result()
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Map derives a future by transforming a successful value. Failures pass
// through unchanged.
func Map[T, U any](f *Future[T], fn func(T) (U, error)) *Future[U] {
	p := NewPromise[U]()
	f.OnComplete(func(value T, err error) {
		if err != nil {
			p.Fail(err)
			return
		}
		p.Resolve(fn(value))
	})
	return p.Future()
}
