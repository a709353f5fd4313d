package statemachine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/fastfsm/pkg/statemachine"
)

func TestSyncMachine_ConcurrentFire(t *testing.T) {
	t.Parallel()
	const (
		workers = 8
		fires   = 1000
	)

	c := &fsmCtx{}
	sm, err := statemachine.NewSyncMachine(guardActionTable(), c)
	require.NoError(t, err)

	g, ctx := errgroup.WithContext(context.Background())
	for range workers {
		g.Go(func() error {
			for range fires {
				if _, err := sm.Fire(ctx, Next, nil); err != nil {
					return err
				}
				sm.IsIn(A)
				if _, err := sm.CanFire(ctx, Next, nil); err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	// 8000 mod 3 == 2
	assert.Equal(t, C, sm.Current())
	require.NoError(t, sm.Do(func(m *statemachine.Machine[state, event, *fsmCtx]) error {
		assert.Equal(t, workers*fires, m.Context().counter)
		return nil
	}))
}

func TestSyncMachine_Delegates(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	sm := statemachine.Synchronized(statemachine.MustNewMachine(newBuilder().
		Transition(A, B, Next).
		Transition(B, C, Next, statemachine.WithGuard(alwaysFalse)).
		MustBuild(), &fsmCtx{}, statemachine.WithID("shared")))

	assert.Equal(t, "shared", sm.ID())

	triggers, err := sm.PermittedTriggers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []event{Next}, triggers)

	require.NoError(t, sm.FireStrict(ctx, Next, nil))
	assert.True(t, sm.IsIn(B))
	assert.True(t, statemachine.IsTransitionRejectedError(sm.FireStrict(ctx, Next, nil)))

	fired := 0
	sm.Use(statemachine.Hooks[state, event]{
		After: func(_ context.Context, _ statemachine.TransitionInfo[state, event], o statemachine.Outcome, _ error) {
			if o == statemachine.Fired {
				fired++
			}
		},
	})
	sm.Reset()
	assert.True(t, sm.IsIn(A))
	_, err = sm.Fire(ctx, Next, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, fired)
}

func TestNewSyncMachine_NilTable(t *testing.T) {
	t.Parallel()
	sm, err := statemachine.NewSyncMachine[state, event, *fsmCtx](nil, &fsmCtx{})
	assert.Nil(t, sm)
	assert.ErrorIs(t, err, statemachine.ErrNilTable)
}

func TestTable_SharedAcrossGoroutines(t *testing.T) {
	t.Parallel()
	tbl := guardActionTable()

	var g errgroup.Group
	results := make([]*fsmCtx, 16)
	for i := range results {
		g.Go(func() error {
			c := &fsmCtx{}
			m := statemachine.MustNewMachine(tbl, c)
			for range 300 + i {
				if _, err := m.Fire(context.Background(), Next, nil); err != nil {
					return err
				}
			}
			if !m.IsIn([]state{A, B, C}[(300+i)%3]) {
				return assert.AnError
			}
			results[i] = c
			return nil
		})
	}
	require.NoError(t, g.Wait())

	for i, c := range results {
		assert.Equal(t, 300+i, c.counter)
	}
}
