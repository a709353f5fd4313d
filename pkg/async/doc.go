// Package async provides a minimal generic Future.
//
// A Future is obtained from Go, which runs a function in its own goroutine,
// or from Completed, which wraps a result that is already known. Callers wait
// with Await, bounded by a context, or AwaitWithTimeout, and poll with
// IsComplete.
//
// Completed futures exist for hot paths that expose an asynchronous signature
// but usually have the answer at hand: awaiting them costs one channel check
// and no goroutine.
//
//	f := async.Go(ctx, func(ctx context.Context) (int, error) {
//	    return lookup(ctx, key)
//	})
//	v, err := f.Await(ctx)
//
// The statemachine package uses futures through AwaitAction, which blocks the
// dispatch until the future resolves, so transitions stay synchronous.
package async
