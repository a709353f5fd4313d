package definition

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"slices"

	"github.com/dmitrymomot/fastfsm/pkg/statemachine"
)

// Compile resolves every name in doc against reg and builds the table.
// All unresolved names are reported together.
func Compile[C any](doc *Document, reg *Registry[C]) (*statemachine.Table[State, Event, C], error) {
	if doc == nil {
		return nil, errors.Join(ErrInvalidDocument, errors.New("document is nil"))
	}
	if reg == nil {
		return nil, ErrNilRegistry
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	var errs []error
	b := statemachine.NewBuilder[State, Event, C]()

	for i, t := range doc.Transitions {
		opts := make([]statemachine.TransitionOption[State, Event, C], 0, len(t.Guard)+len(t.Action)+1)
		for _, name := range t.Guard {
			g, ok := reg.guard(name)
			if !ok {
				errs = append(errs, fmt.Errorf("%w: %q (transition %d)", ErrUnknownGuard, name, i))
				continue
			}
			opts = append(opts, statemachine.WithGuard(g))
		}
		for _, name := range t.Action {
			a, ok := reg.action(name)
			if !ok {
				errs = append(errs, fmt.Errorf("%w: %q (transition %d)", ErrUnknownAction, name, i))
				continue
			}
			opts = append(opts, statemachine.WithAction(a))
		}
		if t.Name != "" {
			opts = append(opts, statemachine.WithName[State, Event, C](t.Name))
		}

		if t.Internal {
			b.Internal(State(t.From), Event(t.Event), opts...)
		} else {
			b.Transition(State(t.From), State(t.To), Event(t.Event), opts...)
		}
	}

	for _, s := range doc.States {
		b.OnEntry(State(s.Name), resolveHooks(reg, s.Name, "on_entry", s.OnEntry, &errs)...)
		b.OnExit(State(s.Name), resolveHooks(reg, s.Name, "on_exit", s.OnExit, &errs)...)
	}

	for _, event := range slices.Sorted(maps.Keys(doc.Payloads)) {
		typ := doc.Payloads[event]
		check, ok := reg.payload(typ)
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %q (event %q)", ErrUnknownPayload, typ, event))
			continue
		}
		b.Payload(Event(event), check)
	}

	if doc.Initial != "" {
		b.Initial(State(doc.Initial))
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	table, err := b.Build()
	if err != nil {
		return nil, errors.Join(ErrInvalidDocument, err)
	}
	return table, nil
}

// LoadTable reads, parses and compiles the document at path.
func LoadTable[C any](ctx context.Context, fsys fs.FS, path string, reg *Registry[C]) (*statemachine.Table[State, Event, C], error) {
	doc, err := LoadFile(ctx, fsys, path)
	if err != nil {
		return nil, err
	}
	table, err := Compile(doc, reg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

func resolveHooks[C any](reg *Registry[C], state, kind string, names Names, errs *[]error) []statemachine.Action[State, Event, C] {
	hooks := make([]statemachine.Action[State, Event, C], 0, len(names))
	for _, name := range names {
		h, ok := reg.hook(name)
		if !ok {
			*errs = append(*errs, fmt.Errorf("%w: %q (state %q %s)", ErrUnknownHook, name, state, kind))
			continue
		}
		hooks = append(hooks, h)
	}
	return hooks
}
