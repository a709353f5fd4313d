// Package statemachine provides a table-driven finite-state-machine engine
// with dispatch cost close to a hand-written switch.
//
// A machine definition is a Table: an ordered list of rules
// (from, event, guard?, action?, to) compiled once and shared read-only by
// every Machine created from it. States, event kinds and the context the
// guards and actions work on are type parameters:
//
//	Table[S, E comparable, C any]
//	Machine[S, E comparable, C any]
//
// # Architecture
//
// Build maps every state and event kind to a dense index and groups the rules
// by (state, event) in one arena, preserving declaration order. A dispatch is
// one map lookup for the event kind plus one slice access for the candidate
// rules, independent of the table size. The machine keeps its current state
// as an index.
//
// # Usage
//
//	type Counter struct{ N int }
//
//	const (
//	    A    = statemachine.StringState("A")
//	    B    = statemachine.StringState("B")
//	    Next = statemachine.StringEvent("next")
//	)
//
//	inc := func(ctx context.Context, c *Counter, t statemachine.Trigger[statemachine.StringState, statemachine.StringEvent]) error {
//	    c.N++
//	    return nil
//	}
//
//	table := statemachine.NewBuilder[statemachine.StringState, statemachine.StringEvent, *Counter]().
//	    Transition(A, B, Next, statemachine.WithAction(inc)).
//	    Transition(B, A, Next, statemachine.WithAction(inc)).
//	    MustBuild()
//
//	m, _ := statemachine.NewMachine(table, &Counter{})
//	outcome, err := m.Fire(ctx, Next, nil)
//
// # Dispatch semantics
//
// Candidate rules are tried in declaration order and the first one whose
// guard passes fires. Exit hooks of the source state, the rule action and
// entry hooks of the target state then run, and the state is committed only
// after all of them return without error. An event with no enabled rule
// yields Unhandled, which is not an error. Internal rules run their action
// without leaving the state.
//
// # Payloads
//
// Fire takes the payload as an any value that is handed unchanged to guards,
// actions and hooks and never retained. PayloadOf declares the exact payload
// type of an event kind; GuardWith and ActionWith adapt typed functions.
//
// # Error Handling
//
//	if statemachine.IsGuardError(err)  { /* state unchanged */ }
//	if statemachine.IsActionError(err) { /* state unchanged, context may be partially updated */ }
//
// FireStrict additionally reports unhandled events as
// *ErrNoTransitionAvailable or *ErrTransitionRejected. Panics in guards,
// actions and hooks are recovered and reported the same way, wrapping ErrPanic.
//
// # Introspection
//
// IsIn, CanFire and PermittedTriggers never run actions or hooks and never
// change state. CanFire and PermittedTriggers do evaluate guards.
// PermittedTriggersWith supplies per-event payloads to those guards.
//
// # Starting
//
// A new machine sits in the initial state without having entered it. Start
// runs the initial state's entry hooks once; Reset clears that, so the next
// Start enters again.
//
// # Concurrency
//
// Machine does no locking. Machines sharing one Table may run on different
// goroutines freely; a single Machine may not. SyncMachine wraps a Machine
// with a RWMutex for the shared-instance case. Callbacks must not fire events
// on their own machine; Machine reports such calls with ErrReentrantFire.
//
// # Extensions
//
// Extensions registered with Use observe every dispatch. WithLogger installs
// one that logs through log/slog; NewFeedExtension publishes a Record per
// dispatch to a broadcast.Broadcaster.
//
// # Deferred work
//
// Actions are synchronous. AwaitAction adapts an action that returns an
// async.Future and blocks the dispatch until it resolves.
package statemachine
