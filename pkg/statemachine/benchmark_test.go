package statemachine_test

import (
	"context"
	"testing"

	"github.com/dmitrymomot/fastfsm/pkg/async"
	"github.com/dmitrymomot/fastfsm/pkg/statemachine"
)

func BenchmarkFire_Basic(b *testing.B) {
	ctx := context.Background()
	m := newMachine(basicTable(), &fsmCtx{})

	b.ReportAllocs()
	for b.Loop() {
		_, _ = m.Fire(ctx, Next, nil)
	}
}

func BenchmarkFire_GuardsAndActions(b *testing.B) {
	ctx := context.Background()
	m := newMachine(guardActionTable(), &fsmCtx{})

	b.ReportAllocs()
	for b.Loop() {
		_, _ = m.Fire(ctx, Next, nil)
	}
}

func BenchmarkFire_Payload(b *testing.B) {
	ctx := context.Background()
	m := newMachine(payloadTable(), &fsmCtx{})
	p := &payloadData{value: 42, message: "test"}

	b.ReportAllocs()
	for b.Loop() {
		_, _ = m.Fire(ctx, NextWithPayload, p)
	}
}

// BenchmarkFire_AsyncHot awaits futures that are already resolved, so the
// action has an asynchronous signature but never blocks.
func BenchmarkFire_AsyncHot(b *testing.B) {
	ctx := context.Background()
	await := statemachine.AwaitAction(func(_ context.Context, c *fsmCtx, _ trig) *async.Future[int] {
		c.counter++
		return async.Completed(c.counter, nil)
	})
	m := newMachine(newBuilder().
		Transition(A, B, Next, statemachine.WithAction(await)).
		Transition(B, C, Next, statemachine.WithAction(await)).
		Transition(C, A, Next, statemachine.WithAction(await)).
		MustBuild(), &fsmCtx{})

	b.ReportAllocs()
	for b.Loop() {
		_, _ = m.Fire(ctx, Next, nil)
	}
}

func BenchmarkFire_Unhandled(b *testing.B) {
	ctx := context.Background()
	m := newMachine(basicTable(), &fsmCtx{})

	b.ReportAllocs()
	for b.Loop() {
		_, _ = m.Fire(ctx, Stop, nil)
	}
}

func BenchmarkFire_WithExtension(b *testing.B) {
	ctx := context.Background()
	m := newMachine(guardActionTable(), &fsmCtx{})
	m.Use(statemachine.Hooks[state, event]{
		After: func(context.Context, statemachine.TransitionInfo[state, event], statemachine.Outcome, error) {},
	})

	b.ReportAllocs()
	for b.Loop() {
		_, _ = m.Fire(ctx, Next, nil)
	}
}

func BenchmarkFire_LargeTable(b *testing.B) {
	ctx := context.Background()
	const n = 1000
	builder := newBuilder()
	for i := range n {
		builder.Transition(state(i), state((i+1)%n), Next, statemachine.WithGuard(alwaysTrue))
		builder.Transition(state(i), state(0), Stop)
	}
	m := newMachine(builder.MustBuild(), &fsmCtx{})

	b.ReportAllocs()
	for b.Loop() {
		_, _ = m.Fire(ctx, Next, nil)
	}
}

func BenchmarkCanFire(b *testing.B) {
	ctx := context.Background()
	m := newMachine(guardActionTable(), &fsmCtx{})

	b.ReportAllocs()
	for b.Loop() {
		_, _ = m.CanFire(ctx, Next, nil)
	}
}

func BenchmarkPermittedTriggers(b *testing.B) {
	ctx := context.Background()
	m := newMachine(newBuilder().
		Transition(A, B, Next).
		Transition(A, C, Stop, statemachine.WithGuard(alwaysFalse)).
		Internal(A, Tick).
		MustBuild(), &fsmCtx{})

	b.ReportAllocs()
	for b.Loop() {
		_, _ = m.PermittedTriggers(ctx)
	}
}

func BenchmarkSyncMachine_Parallel(b *testing.B) {
	ctx := context.Background()
	sm, err := statemachine.NewSyncMachine(basicTable(), &fsmCtx{})
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, _ = sm.Fire(ctx, Next, nil)
		}
	})
}

func BenchmarkBuild(b *testing.B) {
	b.ReportAllocs()
	for b.Loop() {
		_ = guardActionTable()
	}
}
