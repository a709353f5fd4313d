package statemachine

import (
	"context"

	"github.com/dmitrymomot/fastfsm/pkg/async"
)

// AwaitAction adapts an action that returns a future. The dispatch blocks
// until the future resolves or ctx is done, and fails with its error, so the
// transition is committed only after the deferred work completed.
func AwaitAction[U any, S, E comparable, C any](fn func(ctx context.Context, c C, t Trigger[S, E]) *async.Future[U]) Action[S, E, C] {
	return func(ctx context.Context, c C, t Trigger[S, E]) error {
		f := fn(ctx, c, t)
		if f == nil {
			return async.ErrNilFuture
		}
		_, err := f.Await(ctx)
		return err
	}
}
