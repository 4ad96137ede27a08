package repository

import (
	"context"
	"fmt"
)

// Future is the pending result of an operation started with Async
type Future[R any] struct {
	done  chan struct{}
	value R
	err   error
}

// Async runs fn on its own goroutine and returns immediately. The same ctx is passed
// to fn, so cancelling it cancels the underlying store call.
func Async[R any](ctx context.Context, fn func(ctx context.Context) (R, error)) *Future[R] {
	f := &Future[R]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		defer func() {
			if rec := recover(); rec != nil {
				f.err = fmt.Errorf("async operation panicked: %v", rec)
			}
		}()
		f.value, f.err = fn(ctx)
	}()
	return f
}

// Done is closed once the result is available
func (f *Future[R]) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the result is ready or ctx ends. Giving up on the wait does not
// cancel the operation itself; cancel the context passed to Async for that.
func (f *Future[R]) Await(ctx context.Context) (R, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero R
		return zero, fmt.Errorf("%w: %w", ErrCancelled, ctx.Err())
	}
}
