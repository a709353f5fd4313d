package statemachine

import (
	"errors"
	"fmt"
)

var (
	ErrNoRules         = errors.New("no transition rules declared")
	ErrIncompleteRule  = errors.New("incomplete rule: from, event and to are required")
	ErrUnknownState    = errors.New("state is not used by any rule")
	ErrUnknownEvent    = errors.New("event is not used by any rule")
	ErrNilPayloadCheck = errors.New("payload check cannot be empty")
	ErrNilTable        = errors.New("transition table cannot be nil")

	ErrInvalidPayload = errors.New("payload type does not match event")
	ErrGuardFailed    = errors.New("guard evaluation failed")
	ErrActionFailed   = errors.New("action execution failed")
	ErrPanic          = errors.New("recovered panic")
	ErrReentrantFire  = errors.New("fire called while the same machine is dispatching")
)

// ErrNoTransitionAvailable indicates no rule exists for the given state/event combination.
type ErrNoTransitionAvailable struct {
	StateName string
	EventName string
}

func (e *ErrNoTransitionAvailable) Error() string {
	return fmt.Sprintf("no transition available from state '%s' for event '%s'", e.StateName, e.EventName)
}

func NewErrNoTransitionAvailable(stateName, eventName string) *ErrNoTransitionAvailable {
	return &ErrNoTransitionAvailable{
		StateName: stateName,
		EventName: eventName,
	}
}

// ErrTransitionRejected indicates all candidate rules were blocked by their guards.
type ErrTransitionRejected struct {
	StateName string
	EventName string
}

func (e *ErrTransitionRejected) Error() string {
	return fmt.Sprintf("transition from state '%s' for event '%s' was rejected by guards", e.StateName, e.EventName)
}

func NewErrTransitionRejected(stateName, eventName string) *ErrTransitionRejected {
	return &ErrTransitionRejected{
		StateName: stateName,
		EventName: eventName,
	}
}

// GuardError reports a guard that returned an error or panicked.
// The machine state is unchanged. It matches ErrGuardFailed with errors.Is.
type GuardError struct {
	StateName string
	EventName string
	Rule      string
	Err       error
}

func (e *GuardError) Error() string {
	return fmt.Sprintf("guard of rule '%s' failed in state '%s' for event '%s': %v", e.Rule, e.StateName, e.EventName, e.Err)
}

func (e *GuardError) Unwrap() error { return e.Err }

func (e *GuardError) Is(target error) bool { return target == ErrGuardFailed }

// Phase identifies the step of a transition that failed.
type Phase uint8

const (
	PhaseExit Phase = iota
	PhaseAction
	PhaseEntry
)

func (p Phase) String() string {
	switch p {
	case PhaseExit:
		return "exit"
	case PhaseAction:
		return "action"
	case PhaseEntry:
		return "entry"
	default:
		return "unknown"
	}
}

// ActionError reports an exit hook, action or entry hook that returned an
// error or panicked. The state was not committed, but the context may hold
// partial effects. It matches ErrActionFailed with errors.Is.
type ActionError struct {
	StateName  string
	TargetName string
	EventName  string
	Rule       string
	Phase      Phase
	Err        error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("%s of rule '%s' failed on '%s' -> '%s' for event '%s': %v",
		e.Phase, e.Rule, e.StateName, e.TargetName, e.EventName, e.Err)
}

func (e *ActionError) Unwrap() error { return e.Err }

func (e *ActionError) Is(target error) bool { return target == ErrActionFailed }

func IsNoTransitionAvailableError(err error) bool {
	var e *ErrNoTransitionAvailable
	return errors.As(err, &e)
}

func IsTransitionRejectedError(err error) bool {
	var e *ErrTransitionRejected
	return errors.As(err, &e)
}

func IsGuardError(err error) bool {
	var e *GuardError
	return errors.As(err, &e)
}

func IsActionError(err error) bool {
	var e *ActionError
	return errors.As(err, &e)
}

func tokenName(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case interface{ Name() string }:
		return t.Name()
	default:
		return fmt.Sprint(v)
	}
}
