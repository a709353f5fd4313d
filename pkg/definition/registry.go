package definition

import (
	"fmt"
	"sync"

	"github.com/dmitrymomot/fastfsm/pkg/statemachine"
)

// State and Event are the token types of tables compiled from documents.
type (
	State = statemachine.StringState
	Event = statemachine.StringEvent
)

// Registry maps the names used in documents to guards, actions, state hooks
// and payload checks. It is safe for concurrent use.
type Registry[C any] struct {
	mu       sync.RWMutex
	guards   map[string]statemachine.Guard[State, Event, C]
	actions  map[string]statemachine.Action[State, Event, C]
	hooks    map[string]statemachine.Action[State, Event, C]
	payloads map[string]statemachine.PayloadCheck
}

func NewRegistry[C any]() *Registry[C] {
	return &Registry[C]{
		guards:   make(map[string]statemachine.Guard[State, Event, C]),
		actions:  make(map[string]statemachine.Action[State, Event, C]),
		hooks:    make(map[string]statemachine.Action[State, Event, C]),
		payloads: make(map[string]statemachine.PayloadCheck),
	}
}

// RegisterGuard adds a named guard. Names are unique per kind.
func (r *Registry[C]) RegisterGuard(name string, g statemachine.Guard[State, Event, C]) error {
	if g == nil {
		return fmt.Errorf("%w: guard %q", ErrNilFunc, name)
	}
	return register(&r.mu, r.guards, "guard", name, g)
}

// RegisterAction adds a named transition action.
func (r *Registry[C]) RegisterAction(name string, a statemachine.Action[State, Event, C]) error {
	if a == nil {
		return fmt.Errorf("%w: action %q", ErrNilFunc, name)
	}
	return register(&r.mu, r.actions, "action", name, a)
}

// RegisterHook adds a named entry or exit hook.
func (r *Registry[C]) RegisterHook(name string, h statemachine.Action[State, Event, C]) error {
	if h == nil {
		return fmt.Errorf("%w: hook %q", ErrNilFunc, name)
	}
	return register(&r.mu, r.hooks, "hook", name, h)
}

// RegisterPayload adds a named payload check, referenced from the payloads
// section of a document.
func (r *Registry[C]) RegisterPayload(name string, check statemachine.PayloadCheck) error {
	if check.IsZero() {
		return fmt.Errorf("%w: payload %q", ErrNilFunc, name)
	}
	return register(&r.mu, r.payloads, "payload", name, check)
}

// MustRegister panics if err is not nil. It is meant for registration at
// program start:
//
//	definition.MustRegister(reg.RegisterGuard("has_funds", hasFunds))
func MustRegister(err error) {
	if err != nil {
		panic(err)
	}
}

func (r *Registry[C]) guard(name string) (statemachine.Guard[State, Event, C], bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.guards[name]
	return g, ok
}

func (r *Registry[C]) action(name string) (statemachine.Action[State, Event, C], bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.actions[name]
	return a, ok
}

func (r *Registry[C]) hook(name string) (statemachine.Action[State, Event, C], bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.hooks[name]
	return h, ok
}

func (r *Registry[C]) payload(name string) (statemachine.PayloadCheck, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.payloads[name]
	return p, ok
}

func register[V any](mu *sync.RWMutex, m map[string]V, kind, name string, v V) error {
	if name == "" {
		return fmt.Errorf("%w: %s", ErrEmptyName, kind)
	}
	mu.Lock()
	defer mu.Unlock()
	if _, exists := m[name]; exists {
		return fmt.Errorf("%w: %s %q", ErrAlreadyRegistered, kind, name)
	}
	m[name] = v
	return nil
}
