package statemachine

import "context"

// TransitionInfo describes a dispatch to extensions. To and Rule are zero
// until a rule has been selected. Payload is only valid during the callback.
type TransitionInfo[S, E comparable] struct {
	MachineID string
	From      S
	To        S
	Event     E
	Rule      string
	Payload   any
}

// Extension observes dispatches on a machine. Callbacks run synchronously on
// the dispatching goroutine and must not call back into the same machine.
type Extension[S, E comparable] interface {
	// BeforeTransition runs before the candidate rules are looked up.
	BeforeTransition(ctx context.Context, info TransitionInfo[S, E])
	// GuardEvaluated runs after each guard of a candidate rule.
	GuardEvaluated(ctx context.Context, info TransitionInfo[S, E], passed bool, err error)
	// AfterTransition runs once per dispatch with its final outcome.
	AfterTransition(ctx context.Context, info TransitionInfo[S, E], outcome Outcome, err error)
}

// Hooks adapts plain functions to Extension. Nil fields are skipped.
type Hooks[S, E comparable] struct {
	Before func(ctx context.Context, info TransitionInfo[S, E])
	Guard  func(ctx context.Context, info TransitionInfo[S, E], passed bool, err error)
	After  func(ctx context.Context, info TransitionInfo[S, E], outcome Outcome, err error)
}

func (h Hooks[S, E]) BeforeTransition(ctx context.Context, info TransitionInfo[S, E]) {
	if h.Before != nil {
		h.Before(ctx, info)
	}
}

func (h Hooks[S, E]) GuardEvaluated(ctx context.Context, info TransitionInfo[S, E], passed bool, err error) {
	if h.Guard != nil {
		h.Guard(ctx, info, passed, err)
	}
}

func (h Hooks[S, E]) AfterTransition(ctx context.Context, info TransitionInfo[S, E], outcome Outcome, err error) {
	if h.After != nil {
		h.After(ctx, info, outcome, err)
	}
}

func (m *Machine[S, E, C]) info(r *rule[S, E, C], event E, payload any) TransitionInfo[S, E] {
	info := TransitionInfo[S, E]{
		MachineID: m.id,
		From:      m.table.states[m.current],
		Event:     event,
		Payload:   payload,
	}
	if r != nil {
		info.To = r.To
		info.Rule = r.Name
	}
	return info
}

func (m *Machine[S, E, C]) before(ctx context.Context, event E, payload any) {
	info := m.info(nil, event, payload)
	for _, ext := range m.exts {
		ext.BeforeTransition(ctx, info)
	}
}

func (m *Machine[S, E, C]) guardEvaluated(ctx context.Context, r *rule[S, E, C], event E, payload any, passed bool, err error) {
	info := m.info(r, event, payload)
	for _, ext := range m.exts {
		ext.GuardEvaluated(ctx, info, passed, err)
	}
}

// after is called once the outcome is known; for Fired the state is already
// committed, so From is taken from the rule.
func (m *Machine[S, E, C]) after(ctx context.Context, r *rule[S, E, C], event E, payload any, outcome Outcome, err error) {
	info := m.info(r, event, payload)
	if r != nil {
		info.From = r.From
	}
	for _, ext := range m.exts {
		ext.AfterTransition(ctx, info, outcome, err)
	}
}
