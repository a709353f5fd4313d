package statemachine

// span is a half-open range into Table.rules.
type span struct {
	lo, hi uint32
}

// rule is a declared Rule resolved to dense state indexes.
type rule[S, E comparable, C any] struct {
	Rule[S, E, C]
	from int
	to   int
}

// Table is a compiled, immutable transition table. It is safe to share one
// Table between any number of machines and goroutines.
//
// States and events are mapped to dense indexes in first-appearance order.
// Rules are stored grouped by (state, event), keeping declaration order inside
// each group, and index[state*len(events)+event] points at that group, so
// finding the candidates for a dispatch costs one map lookup for the event
// and one slice access regardless of table size.
type Table[S, E comparable, C any] struct {
	initial  int
	states   []S
	stateIdx map[S]int
	events   []E
	eventIdx map[E]int

	rules    []rule[S, E, C]
	declared []Rule[S, E, C]
	index    []span

	entry    [][]Action[S, E, C]
	exit     [][]Action[S, E, C]
	payloads []PayloadCheck
}

// NewTable compiles rules in declaration order. The source state of the
// first rule is the initial state; use NewBuilder to override it or to
// declare hooks and payload checks.
func NewTable[S, E comparable, C any](rules ...Rule[S, E, C]) (*Table[S, E, C], error) {
	return NewBuilder[S, E, C]().Rules(rules...).Build()
}

// MustNewTable is like NewTable but panics on error.
func MustNewTable[S, E comparable, C any](rules ...Rule[S, E, C]) *Table[S, E, C] {
	return NewBuilder[S, E, C]().Rules(rules...).MustBuild()
}

// Initial returns the state new machines start in.
func (t *Table[S, E, C]) Initial() S {
	return t.states[t.initial]
}

// States returns every state in first-appearance order.
func (t *Table[S, E, C]) States() []S {
	out := make([]S, len(t.states))
	copy(out, t.states)
	return out
}

// Events returns every event kind in first-appearance order.
func (t *Table[S, E, C]) Events() []E {
	out := make([]E, len(t.events))
	copy(out, t.events)
	return out
}

// Rules returns the rules in declaration order, with default names filled in.
func (t *Table[S, E, C]) Rules() []Rule[S, E, C] {
	out := make([]Rule[S, E, C], len(t.declared))
	copy(out, t.declared)
	return out
}

// Has reports whether state appears in any rule.
func (t *Table[S, E, C]) Has(state S) bool {
	_, ok := t.stateIdx[state]
	return ok
}

// Triggers returns the event kinds that have at least one rule leaving
// state, ignoring guards. The order is event first-appearance order.
func (t *Table[S, E, C]) Triggers(state S) []E {
	si, ok := t.stateIdx[state]
	if !ok {
		return nil
	}
	var out []E
	base := si * len(t.events)
	for ei := range t.events {
		if sp := t.index[base+ei]; sp.hi > sp.lo {
			out = append(out, t.events[ei])
		}
	}
	return out
}

func (t *Table[S, E, C]) candidates(state, event int) []rule[S, E, C] {
	sp := t.index[state*len(t.events)+event]
	return t.rules[sp.lo:sp.hi]
}
