package statemachine_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/fastfsm/pkg/async"
	"github.com/dmitrymomot/fastfsm/pkg/statemachine"
)

func TestAwaitAction(t *testing.T) {
	t.Parallel()

	t.Run("completed future", func(t *testing.T) {
		t.Parallel()
		c := &fsmCtx{}
		m := newMachine(newBuilder().
			Transition(A, B, Next, statemachine.WithAction(statemachine.AwaitAction(
				func(_ context.Context, c *fsmCtx, _ trig) *async.Future[int] {
					c.counter++
					return async.Completed(c.counter, nil)
				}))).
			MustBuild(), c)

		out, err := m.Fire(context.Background(), Next, nil)
		require.NoError(t, err)
		assert.Equal(t, statemachine.Fired, out)
		assert.Equal(t, 1, c.counter)
	})

	t.Run("waits for goroutine", func(t *testing.T) {
		t.Parallel()
		c := &fsmCtx{}
		m := newMachine(newBuilder().
			Transition(A, B, Next, statemachine.WithAction(statemachine.AwaitAction(
				func(ctx context.Context, _ *fsmCtx, _ trig) *async.Future[string] {
					return async.Go(ctx, func(context.Context) (string, error) {
						time.Sleep(5 * time.Millisecond)
						return "ok", nil
					})
				}))).
			MustBuild(), c)

		_, err := m.Fire(context.Background(), Next, nil)
		require.NoError(t, err)
		assert.True(t, m.IsIn(B))
	})

	t.Run("failed future keeps state", func(t *testing.T) {
		t.Parallel()
		m := newMachine(newBuilder().
			Transition(A, B, Next, statemachine.WithAction(statemachine.AwaitAction(
				func(context.Context, *fsmCtx, trig) *async.Future[struct{}] {
					return async.Completed(struct{}{}, errBoom)
				}))).
			MustBuild(), &fsmCtx{})

		_, err := m.Fire(context.Background(), Next, nil)
		assert.ErrorIs(t, err, errBoom)
		assert.True(t, statemachine.IsActionError(err))
		assert.True(t, m.IsIn(A))
	})

	t.Run("nil future", func(t *testing.T) {
		t.Parallel()
		m := newMachine(newBuilder().
			Transition(A, B, Next, statemachine.WithAction(statemachine.AwaitAction(
				func(context.Context, *fsmCtx, trig) *async.Future[int] { return nil }))).
			MustBuild(), &fsmCtx{})

		_, err := m.Fire(context.Background(), Next, nil)
		assert.ErrorIs(t, err, async.ErrNilFuture)
		assert.True(t, m.IsIn(A))
	})

	t.Run("cancelled while waiting", func(t *testing.T) {
		t.Parallel()
		release := make(chan struct{})
		defer close(release)
		m := newMachine(newBuilder().
			Transition(A, B, Next, statemachine.WithAction(statemachine.AwaitAction(
				func(context.Context, *fsmCtx, trig) *async.Future[int] {
					return async.Go(context.Background(), func(context.Context) (int, error) {
						<-release
						return 0, nil
					})
				}))).
			MustBuild(), &fsmCtx{})

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		_, err := m.Fire(ctx, Next, nil)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.True(t, m.IsIn(A))
	})
}
