package async

import (
	"context"
	"fmt"
	"time"
)

// Future is the eventual result of a computation. It completes exactly once.
type Future[U any] struct {
	result U
	err    error
	done   chan struct{}
}

// closedDone is shared by every future created already complete.
var closedDone = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

// Completed returns a future that is already resolved with result and err.
// It does not start a goroutine, so awaiting it never blocks.
func Completed[U any](result U, err error) *Future[U] {
	return &Future[U]{result: result, err: err, done: closedDone}
}

// Go runs fn in its own goroutine and returns its future. A panic in fn is
// recovered and reported as the future's error. If ctx is already cancelled
// fn is not called.
func Go[U any](ctx context.Context, fn func(context.Context) (U, error)) *Future[U] {
	f := &Future[U]{done: make(chan struct{})}

	go func() {
		defer close(f.done)
		defer func() {
			if r := recover(); r != nil {
				f.err = fmt.Errorf("async: panic: %v", r)
			}
		}()

		if err := ctx.Err(); err != nil {
			f.err = err
			return
		}
		f.result, f.err = fn(ctx)
	}()

	return f
}

// Await blocks until the future completes or ctx is done.
func (f *Future[U]) Await(ctx context.Context) (U, error) {
	select {
	case <-f.done:
		return f.result, f.err
	default:
	}

	select {
	case <-f.done:
		return f.result, f.err
	case <-ctx.Done():
		var zero U
		return zero, ctx.Err()
	}
}

// AwaitWithTimeout is like Await with a deadline relative to now.
func (f *Future[U]) AwaitWithTimeout(timeout time.Duration) (U, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-time.After(timeout):
		var zero U
		return zero, ErrTimeout
	}
}

// IsComplete reports whether the future has resolved, without blocking.
func (f *Future[U]) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}
