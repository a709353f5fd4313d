package statemachine

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Machine is one running instance of a Table bound to a context value c.
//
// Machine performs no locking: a single instance must not be used from
// several goroutines at once. Separate machines sharing one Table may run
// concurrently. Use SyncMachine when an instance itself must be shared.
//
// Guards, actions and hooks must not fire events on the machine that runs
// them: such calls fail with ErrReentrantFire.
type Machine[S, E comparable, C any] struct {
	id          string
	table       *Table[S, E, C]
	current     int
	c           C
	exts        []Extension[S, E]
	started     bool
	dispatching bool
}

// NewMachine creates a machine in the table's initial state.
// c is owned by the caller and handed unchanged to every guard, action and hook.
func NewMachine[S, E comparable, C any](table *Table[S, E, C], c C, opts ...Option) (*Machine[S, E, C], error) {
	if table == nil {
		return nil, ErrNilTable
	}

	o := &machineOptions{}
	for _, opt := range opts {
		opt(o)
	}
	if o.id == "" {
		o.id = uuid.NewString()
	}

	m := &Machine[S, E, C]{
		id:      o.id,
		table:   table,
		current: table.initial,
		c:       c,
	}
	if o.logger != nil {
		m.exts = append(m.exts, NewLogExtension[S, E](o.logger))
	}
	return m, nil
}

// MustNewMachine is like NewMachine but panics on error.
func MustNewMachine[S, E comparable, C any](table *Table[S, E, C], c C, opts ...Option) *Machine[S, E, C] {
	m, err := NewMachine(table, c, opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to create state machine: %v", err))
	}
	return m
}

// Use registers extensions. It must not be called concurrently with a dispatch.
func (m *Machine[S, E, C]) Use(exts ...Extension[S, E]) {
	for _, ext := range exts {
		if ext != nil {
			m.exts = append(m.exts, ext)
		}
	}
}

func (m *Machine[S, E, C]) ID() string {
	return m.id
}

func (m *Machine[S, E, C]) Table() *Table[S, E, C] {
	return m.table
}

// Context returns the value passed to NewMachine.
func (m *Machine[S, E, C]) Context() C {
	return m.c
}

func (m *Machine[S, E, C]) Current() S {
	return m.table.states[m.current]
}

// IsIn reports whether the machine is currently in state.
func (m *Machine[S, E, C]) IsIn(state S) bool {
	return m.table.states[m.current] == state
}

// Start runs the entry hooks of the current state, which is the initial
// state unless events were fired before. It runs them at most once: later
// calls return nil until Reset. A failing hook is reported as *ActionError
// with PhaseEntry and leaves the machine unstarted.
func (m *Machine[S, E, C]) Start(ctx context.Context) error {
	if m.started {
		return nil
	}
	if m.dispatching {
		return ErrReentrantFire
	}
	m.dispatching = true
	defer func() { m.dispatching = false }()

	s := m.table.states[m.current]
	tr := Trigger[S, E]{From: s, To: s}
	for _, h := range m.table.entry[m.current] {
		if err := callAction(ctx, h, m.c, tr); err != nil {
			return &ActionError{
				StateName:  tokenName(s),
				TargetName: tokenName(s),
				Rule:       "(start)",
				Phase:      PhaseEntry,
				Err:        err,
			}
		}
	}
	m.started = true
	return nil
}

// Started reports whether Start completed since creation or the last Reset.
func (m *Machine[S, E, C]) Started() bool {
	return m.started
}

// Reset moves the machine back to the initial state without running hooks.
// The machine is no longer started: call Start again to re-enter the
// initial state with its entry hooks.
func (m *Machine[S, E, C]) Reset() {
	m.current = m.table.initial
	m.started = false
}

// Fire dispatches event with an optional payload.
//
// The first candidate rule for the current state whose guard passes is
// selected. Its source exit hooks, action and target entry hooks run in that
// order, and only after all of them succeed is the new state committed.
// Unhandled is returned, without error, when nothing matched.
func (m *Machine[S, E, C]) Fire(ctx context.Context, event E, payload any) (Outcome, error) {
	out, _, err := m.dispatch(ctx, event, payload)
	return out, err
}

// FireStrict is like Fire but reports an unhandled event as
// *ErrNoTransitionAvailable or *ErrTransitionRejected.
func (m *Machine[S, E, C]) FireStrict(ctx context.Context, event E, payload any) error {
	from := m.current
	out, rejected, err := m.dispatch(ctx, event, payload)
	if err != nil || out == Fired {
		return err
	}
	stateName := tokenName(m.table.states[from])
	if rejected {
		return NewErrTransitionRejected(stateName, tokenName(event))
	}
	return NewErrNoTransitionAvailable(stateName, tokenName(event))
}

// CanFire reports whether Fire would select a rule, without running any
// action or hook and without changing state. Guard failures are returned.
func (m *Machine[S, E, C]) CanFire(ctx context.Context, event E, payload any) (bool, error) {
	cands, err := m.lookup(event, payload)
	if err != nil || len(cands) == 0 {
		return false, err
	}
	r, err := m.selectRule(ctx, cands, event, payload, false)
	return r != nil, err
}

// PermittedTriggers returns the event kinds that currently have an enabled
// rule, evaluating guards with a nil payload. Payload checks are not applied.
// The result follows event first-appearance order in the table.
func (m *Machine[S, E, C]) PermittedTriggers(ctx context.Context) ([]E, error) {
	return m.permitted(ctx, nil)
}

// PermittedTriggersWith is like PermittedTriggers but evaluates the guards
// of each event with the payload returned by resolve. The event's payload
// check is applied: a payload it rejects makes the event not permitted.
// A nil resolve behaves like PermittedTriggers.
func (m *Machine[S, E, C]) PermittedTriggersWith(ctx context.Context, resolve func(E) any) ([]E, error) {
	return m.permitted(ctx, resolve)
}

func (m *Machine[S, E, C]) permitted(ctx context.Context, resolve func(E) any) ([]E, error) {
	t := m.table
	var out []E
	for ei, event := range t.events {
		cands := t.candidates(m.current, ei)
		if len(cands) == 0 {
			continue
		}
		var payload any
		if resolve != nil {
			payload = resolve(event)
			if check := t.payloads[ei]; !check.IsZero() && !check.Accepts(payload) {
				continue
			}
		}
		r, err := m.selectRule(ctx, cands, event, payload, false)
		if err != nil {
			return nil, err
		}
		if r != nil {
			out = append(out, event)
		}
	}
	return out, nil
}

func (m *Machine[S, E, C]) lookup(event E, payload any) ([]rule[S, E, C], error) {
	t := m.table
	ei, ok := t.eventIdx[event]
	if !ok {
		return nil, nil
	}
	if check := t.payloads[ei]; !check.IsZero() && !check.Accepts(payload) {
		return nil, fmt.Errorf("%w: event '%s' expects %s, got %T", ErrInvalidPayload, tokenName(event), check, payload)
	}
	return t.candidates(m.current, ei), nil
}

// dispatch reports rejected=true when candidates existed but no guard passed.
func (m *Machine[S, E, C]) dispatch(ctx context.Context, event E, payload any) (Outcome, bool, error) {
	if m.dispatching {
		return Unhandled, false, fmt.Errorf("%w: event '%s' in state '%s'",
			ErrReentrantFire, tokenName(event), tokenName(m.table.states[m.current]))
	}
	m.dispatching = true
	defer func() { m.dispatching = false }()

	notify := len(m.exts) > 0
	if notify {
		m.before(ctx, event, payload)
	}

	cands, err := m.lookup(event, payload)
	if err != nil || len(cands) == 0 {
		if notify {
			m.after(ctx, nil, event, payload, Unhandled, err)
		}
		return Unhandled, false, err
	}

	r, err := m.selectRule(ctx, cands, event, payload, notify)
	if err != nil || r == nil {
		if notify {
			m.after(ctx, nil, event, payload, Unhandled, err)
		}
		return Unhandled, err == nil, err
	}

	if err := m.execute(ctx, r, event, payload); err != nil {
		if notify {
			m.after(ctx, r, event, payload, Unhandled, err)
		}
		return Unhandled, false, err
	}

	m.current = r.to
	if notify {
		m.after(ctx, r, event, payload, Fired, nil)
	}
	return Fired, false, nil
}

func (m *Machine[S, E, C]) selectRule(ctx context.Context, cands []rule[S, E, C], event E, payload any, notify bool) (*rule[S, E, C], error) {
	for i := range cands {
		r := &cands[i]
		if r.Guard == nil {
			return r, nil
		}
		ok, err := callGuard(ctx, r.Guard, m.c, Trigger[S, E]{From: r.From, To: r.To, Event: event, Payload: payload})
		if notify {
			m.guardEvaluated(ctx, r, event, payload, ok, err)
		}
		if err != nil {
			return nil, &GuardError{
				StateName: tokenName(r.From),
				EventName: tokenName(event),
				Rule:      r.Name,
				Err:       err,
			}
		}
		if ok {
			return r, nil
		}
	}
	return nil, nil
}

func (m *Machine[S, E, C]) execute(ctx context.Context, r *rule[S, E, C], event E, payload any) error {
	t := m.table
	tr := Trigger[S, E]{From: r.From, To: r.To, Event: event, Payload: payload}

	if !r.Internal {
		for _, h := range t.exit[r.from] {
			if err := callAction(ctx, h, m.c, tr); err != nil {
				return actionError(r, event, PhaseExit, err)
			}
		}
	}
	if r.Action != nil {
		if err := callAction(ctx, r.Action, m.c, tr); err != nil {
			return actionError(r, event, PhaseAction, err)
		}
	}
	if !r.Internal {
		for _, h := range t.entry[r.to] {
			if err := callAction(ctx, h, m.c, tr); err != nil {
				return actionError(r, event, PhaseEntry, err)
			}
		}
	}
	return nil
}

func actionError[S, E comparable, C any](r *rule[S, E, C], event E, phase Phase, err error) error {
	return &ActionError{
		StateName:  tokenName(r.From),
		TargetName: tokenName(r.To),
		EventName:  tokenName(event),
		Rule:       r.Name,
		Phase:      phase,
		Err:        err,
	}
}

func callGuard[S, E comparable, C any](ctx context.Context, g Guard[S, E, C], c C, t Trigger[S, E]) (ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			ok, err = false, fmt.Errorf("%w in guard: %v", ErrPanic, r)
		}
	}()
	return g(ctx, c, t)
}

func callAction[S, E comparable, C any](ctx context.Context, a Action[S, E, C], c C, t Trigger[S, E]) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w in action: %v", ErrPanic, r)
		}
	}()
	return a(ctx, c, t)
}
