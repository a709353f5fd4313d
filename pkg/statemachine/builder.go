package statemachine

import (
	"context"
	"errors"
	"fmt"
)

// TransitionOption configures a single transition with guards and actions.
type TransitionOption[S, E comparable, C any] func(*transitionConfig[S, E, C])

type transitionConfig[S, E comparable, C any] struct {
	guards  []Guard[S, E, C]
	actions []Action[S, E, C]
	name    string
}

// WithGuard adds a single guard to a transition. Several guards must all pass.
func WithGuard[S, E comparable, C any](guard Guard[S, E, C]) TransitionOption[S, E, C] {
	return func(cfg *transitionConfig[S, E, C]) {
		if guard != nil {
			cfg.guards = append(cfg.guards, guard)
		}
	}
}

// WithGuards adds multiple guards to a transition.
func WithGuards[S, E comparable, C any](guards ...Guard[S, E, C]) TransitionOption[S, E, C] {
	return func(cfg *transitionConfig[S, E, C]) {
		for _, guard := range guards {
			if guard != nil {
				cfg.guards = append(cfg.guards, guard)
			}
		}
	}
}

// WithAction adds a single action to a transition. Actions run in order.
func WithAction[S, E comparable, C any](action Action[S, E, C]) TransitionOption[S, E, C] {
	return func(cfg *transitionConfig[S, E, C]) {
		if action != nil {
			cfg.actions = append(cfg.actions, action)
		}
	}
}

// WithActions adds multiple actions to a transition.
func WithActions[S, E comparable, C any](actions ...Action[S, E, C]) TransitionOption[S, E, C] {
	return func(cfg *transitionConfig[S, E, C]) {
		for _, action := range actions {
			if action != nil {
				cfg.actions = append(cfg.actions, action)
			}
		}
	}
}

// WithName labels a transition. Rules without a name get a default one at Build.
func WithName[S, E comparable, C any](name string) TransitionOption[S, E, C] {
	return func(cfg *transitionConfig[S, E, C]) {
		cfg.name = name
	}
}

type stateHook[S, E comparable, C any] struct {
	state S
	entry bool
	hook  Action[S, E, C]
}

type payloadDecl[E comparable] struct {
	event E
	check PayloadCheck
}

// Builder provides a fluent API for building transition tables.
// Errors are collected and reported by Build.
type Builder[S, E comparable, C any] struct {
	rules    []Rule[S, E, C]
	hooks    []stateHook[S, E, C]
	payloads []payloadDecl[E]
	initial  S
	hasInit  bool
	errs     []error

	current  Rule[S, E, C]
	cfg      transitionConfig[S, E, C]
	hasFrom  bool
	hasEvent bool
	hasTo    bool
}

// NewBuilder creates a new transition table builder.
func NewBuilder[S, E comparable, C any]() *Builder[S, E, C] {
	return &Builder[S, E, C]{}
}

// From starts a new rule leaving state.
func (b *Builder[S, E, C]) From(state S) *Builder[S, E, C] {
	b.reset()
	b.current.From = state
	b.hasFrom = true
	return b
}

// When sets the event that triggers the current rule.
func (b *Builder[S, E, C]) When(event E) *Builder[S, E, C] {
	b.current.Event = event
	b.hasEvent = true
	return b
}

// To sets the target state of the current rule.
func (b *Builder[S, E, C]) To(state S) *Builder[S, E, C] {
	b.current.To = state
	b.hasTo = true
	return b
}

// WithGuard adds a guard to the current rule.
func (b *Builder[S, E, C]) WithGuard(guard Guard[S, E, C]) *Builder[S, E, C] {
	if guard != nil {
		b.cfg.guards = append(b.cfg.guards, guard)
	}
	return b
}

// WithAction adds an action to the current rule.
func (b *Builder[S, E, C]) WithAction(action Action[S, E, C]) *Builder[S, E, C] {
	if action != nil {
		b.cfg.actions = append(b.cfg.actions, action)
	}
	return b
}

// Named labels the current rule.
func (b *Builder[S, E, C]) Named(name string) *Builder[S, E, C] {
	b.cfg.name = name
	return b
}

// Add finalizes the current rule and appends it to the table.
func (b *Builder[S, E, C]) Add() *Builder[S, E, C] {
	if !b.hasFrom || !b.hasEvent || !b.hasTo {
		b.errs = append(b.errs, fmt.Errorf("%w: rule #%d", ErrIncompleteRule, len(b.rules)))
		b.reset()
		return b
	}
	r := b.current
	r.Guard = allOf(b.cfg.guards)
	r.Action = chain(b.cfg.actions)
	r.Name = b.cfg.name
	b.rules = append(b.rules, r)
	b.reset()
	return b
}

// Transition is a shorthand to add a rule in one call.
func (b *Builder[S, E, C]) Transition(from, to S, event E, opts ...TransitionOption[S, E, C]) *Builder[S, E, C] {
	b.rules = append(b.rules, newRule(from, to, event, false, opts))
	return b
}

// Internal adds a rule that runs its actions without leaving state.
func (b *Builder[S, E, C]) Internal(state S, event E, opts ...TransitionOption[S, E, C]) *Builder[S, E, C] {
	b.rules = append(b.rules, newRule(state, state, event, true, opts))
	return b
}

// Rules appends fully declared rules in order.
func (b *Builder[S, E, C]) Rules(rules ...Rule[S, E, C]) *Builder[S, E, C] {
	b.rules = append(b.rules, rules...)
	return b
}

// Initial overrides the initial state. It must appear in some rule.
func (b *Builder[S, E, C]) Initial(state S) *Builder[S, E, C] {
	b.initial = state
	b.hasInit = true
	return b
}

// OnEntry registers hooks run when a transition enters state.
func (b *Builder[S, E, C]) OnEntry(state S, hooks ...Action[S, E, C]) *Builder[S, E, C] {
	for _, h := range hooks {
		if h != nil {
			b.hooks = append(b.hooks, stateHook[S, E, C]{state: state, entry: true, hook: h})
		}
	}
	return b
}

// OnExit registers hooks run when a transition leaves state.
func (b *Builder[S, E, C]) OnExit(state S, hooks ...Action[S, E, C]) *Builder[S, E, C] {
	for _, h := range hooks {
		if h != nil {
			b.hooks = append(b.hooks, stateHook[S, E, C]{state: state, hook: h})
		}
	}
	return b
}

// Payload declares the payload contract for event.
func (b *Builder[S, E, C]) Payload(event E, check PayloadCheck) *Builder[S, E, C] {
	if check.IsZero() {
		b.errs = append(b.errs, fmt.Errorf("%w: event '%s'", ErrNilPayloadCheck, tokenName(event)))
		return b
	}
	b.payloads = append(b.payloads, payloadDecl[E]{event: event, check: check})
	return b
}

// Build compiles the declared rules into an immutable Table.
func (b *Builder[S, E, C]) Build() (*Table[S, E, C], error) {
	errs := append([]error(nil), b.errs...)
	if b.hasFrom {
		errs = append(errs, fmt.Errorf("%w: rule from '%s' was never added", ErrIncompleteRule, tokenName(b.current.From)))
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if len(b.rules) == 0 {
		return nil, ErrNoRules
	}

	t := &Table[S, E, C]{
		stateIdx: make(map[S]int),
		eventIdx: make(map[E]int),
	}
	addState := func(s S) int {
		if i, ok := t.stateIdx[s]; ok {
			return i
		}
		i := len(t.states)
		t.states = append(t.states, s)
		t.stateIdx[s] = i
		return i
	}

	t.declared = make([]Rule[S, E, C], len(b.rules))
	for i, r := range b.rules {
		if r.Internal {
			r.To = r.From
		}
		if r.Name == "" {
			r.Name = defaultRuleName(r)
		}
		t.declared[i] = r
		addState(r.From)
		addState(r.To)
		if _, ok := t.eventIdx[r.Event]; !ok {
			t.eventIdx[r.Event] = len(t.events)
			t.events = append(t.events, r.Event)
		}
	}

	if b.hasInit {
		i, ok := t.stateIdx[b.initial]
		if !ok {
			errs = append(errs, fmt.Errorf("%w: initial state '%s'", ErrUnknownState, tokenName(b.initial)))
		}
		t.initial = i
	} else {
		t.initial = t.stateIdx[b.rules[0].From]
	}

	t.entry = make([][]Action[S, E, C], len(t.states))
	t.exit = make([][]Action[S, E, C], len(t.states))
	for _, h := range b.hooks {
		i, ok := t.stateIdx[h.state]
		if !ok {
			errs = append(errs, fmt.Errorf("%w: hook on state '%s'", ErrUnknownState, tokenName(h.state)))
			continue
		}
		if h.entry {
			t.entry[i] = append(t.entry[i], h.hook)
		} else {
			t.exit[i] = append(t.exit[i], h.hook)
		}
	}

	t.payloads = make([]PayloadCheck, len(t.events))
	for _, p := range b.payloads {
		i, ok := t.eventIdx[p.event]
		if !ok {
			errs = append(errs, fmt.Errorf("%w: payload for event '%s'", ErrUnknownEvent, tokenName(p.event)))
			continue
		}
		t.payloads[i] = p.check
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	t.compileIndex()
	return t, nil
}

// MustBuild is like Build but panics on error.
func (b *Builder[S, E, C]) MustBuild() *Table[S, E, C] {
	t, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to build transition table: %v", err))
	}
	return t
}

// compileIndex groups rules by (state, event) with a counting sort, which is
// stable and therefore keeps declaration order inside each group.
func (t *Table[S, E, C]) compileIndex() {
	nEvents := len(t.events)
	t.index = make([]span, len(t.states)*nEvents)

	counts := make([]uint32, len(t.index)+1)
	for _, r := range t.declared {
		counts[t.stateIdx[r.From]*nEvents+t.eventIdx[r.Event]+1]++
	}
	for i := 1; i < len(counts); i++ {
		counts[i] += counts[i-1]
	}
	for i := range t.index {
		t.index[i] = span{lo: counts[i], hi: counts[i]}
	}

	t.rules = make([]rule[S, E, C], len(t.declared))
	for _, r := range t.declared {
		key := t.stateIdx[r.From]*nEvents + t.eventIdx[r.Event]
		t.rules[t.index[key].hi] = rule[S, E, C]{
			Rule: r,
			from: t.stateIdx[r.From],
			to:   t.stateIdx[r.To],
		}
		t.index[key].hi++
	}
}

func (b *Builder[S, E, C]) reset() {
	b.current = Rule[S, E, C]{}
	b.cfg = transitionConfig[S, E, C]{}
	b.hasFrom = false
	b.hasEvent = false
	b.hasTo = false
}

func newRule[S, E comparable, C any](from, to S, event E, internal bool, opts []TransitionOption[S, E, C]) Rule[S, E, C] {
	cfg := &transitionConfig[S, E, C]{}
	for _, opt := range opts {
		opt(cfg)
	}
	return Rule[S, E, C]{
		From:     from,
		Event:    event,
		To:       to,
		Guard:    allOf(cfg.guards),
		Action:   chain(cfg.actions),
		Internal: internal,
		Name:     cfg.name,
	}
}

func defaultRuleName[S, E comparable, C any](r Rule[S, E, C]) string {
	if r.Internal {
		return fmt.Sprintf("%s -%s-> (internal)", tokenName(r.From), tokenName(r.Event))
	}
	return fmt.Sprintf("%s -%s-> %s", tokenName(r.From), tokenName(r.Event), tokenName(r.To))
}

// allOf combines guards with a short-circuit AND.
func allOf[S, E comparable, C any](guards []Guard[S, E, C]) Guard[S, E, C] {
	switch len(guards) {
	case 0:
		return nil
	case 1:
		return guards[0]
	}
	return func(ctx context.Context, c C, t Trigger[S, E]) (bool, error) {
		for _, g := range guards {
			ok, err := g(ctx, c, t)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	}
}

// chain runs actions in order and stops at the first error.
func chain[S, E comparable, C any](actions []Action[S, E, C]) Action[S, E, C] {
	switch len(actions) {
	case 0:
		return nil
	case 1:
		return actions[0]
	}
	return func(ctx context.Context, c C, t Trigger[S, E]) error {
		for _, a := range actions {
			if err := a(ctx, c, t); err != nil {
				return err
			}
		}
		return nil
	}
}
