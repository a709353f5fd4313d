package statemachine

import (
	"context"
)

// Trigger describes the dispatch a guard, action or hook is running for.
// Payload is borrowed from the caller of Fire and is only valid during the call.
type Trigger[S, E comparable] struct {
	From    S
	To      S
	Event   E
	Payload any
}

// Guard reports whether a rule may fire. Guards must not mutate c.
// A non-nil error aborts the dispatch with a *GuardError.
type Guard[S, E comparable, C any] func(ctx context.Context, c C, t Trigger[S, E]) (bool, error)

// Action executes side effects when a rule fires. It also serves as the
// signature of state entry and exit hooks. Returning an error prevents the
// state change.
type Action[S, E comparable, C any] func(ctx context.Context, c C, t Trigger[S, E]) error

// Rule declares one transition: in state From, event Event moves the machine
// to To if Guard passes, running Action first.
type Rule[S, E comparable, C any] struct {
	From   S
	Event  E
	To     S
	Guard  Guard[S, E, C]  // nil means always enabled
	Action Action[S, E, C] // nil means no-op

	// Internal rules run Action without leaving the state: no exit or entry
	// hooks run and To is forced to From.
	Internal bool

	// Name labels the rule in errors, logs and extension callbacks.
	// Build fills in a default when empty.
	Name string
}

// Outcome is the result of a dispatch that did not fail.
type Outcome uint8

const (
	// Unhandled means no rule matched the current state and event, or every
	// candidate guard rejected it. It is not an error.
	Unhandled Outcome = iota
	// Fired means a rule was selected, its action completed and the state was committed.
	Fired
)

func (o Outcome) String() string {
	switch o {
	case Fired:
		return "fired"
	case Unhandled:
		return "unhandled"
	default:
		return "unknown"
	}
}

// StateMachine defines the runtime operations shared by Machine and SyncMachine.
type StateMachine[S, E comparable] interface {
	Current() S
	IsIn(state S) bool
	Fire(ctx context.Context, event E, payload any) (Outcome, error)
	FireStrict(ctx context.Context, event E, payload any) error
	CanFire(ctx context.Context, event E, payload any) (bool, error)
	PermittedTriggers(ctx context.Context) ([]E, error)
	PermittedTriggersWith(ctx context.Context, resolve func(E) any) ([]E, error)
	Start(ctx context.Context) error
	Started() bool
	Reset()
}

// StringState provides a simple string-based state implementation for basic use cases.
type StringState string

func (s StringState) Name() string {
	return string(s)
}

func (s StringState) String() string {
	return string(s)
}

// StringEvent provides a simple string-based event implementation for basic use cases.
type StringEvent string

func (e StringEvent) Name() string {
	return string(e)
}

func (e StringEvent) String() string {
	return string(e)
}
