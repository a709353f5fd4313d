package statemachine_test

import (
	"context"
	"errors"
	"math"

	"github.com/dmitrymomot/fastfsm/pkg/statemachine"
)

type state int

const (
	A state = iota
	B
	C
	D
)

func (s state) String() string {
	switch s {
	case A:
		return "A"
	case B:
		return "B"
	case C:
		return "C"
	case D:
		return "D"
	default:
		return "?"
	}
}

type event int

const (
	Next event = iota
	NextWithPayload
	Tick
	Stop
	Unused
)

func (e event) String() string {
	switch e {
	case Next:
		return "Next"
	case NextWithPayload:
		return "NextWithPayload"
	case Tick:
		return "Tick"
	case Stop:
		return "Stop"
	default:
		return "Unused"
	}
}

type fsmCtx struct {
	counter int
	sum     int
	last    any
	log     []string
}

type payloadData struct {
	value   int
	message string
}

type (
	trig    = statemachine.Trigger[state, event]
	table   = statemachine.Table[state, event, *fsmCtx]
	machine = statemachine.Machine[state, event, *fsmCtx]
)

var errBoom = errors.New("boom")

func newBuilder() *statemachine.Builder[state, event, *fsmCtx] {
	return statemachine.NewBuilder[state, event, *fsmCtx]()
}

func alwaysTrue(context.Context, *fsmCtx, trig) (bool, error)  { return true, nil }
func alwaysFalse(context.Context, *fsmCtx, trig) (bool, error) { return false, nil }

func belowLimit(_ context.Context, c *fsmCtx, _ trig) (bool, error) {
	return c.counter < math.MaxInt, nil
}

func increment(_ context.Context, c *fsmCtx, _ trig) error {
	c.counter++
	return nil
}

func record(entry string) statemachine.Action[state, event, *fsmCtx] {
	return func(_ context.Context, c *fsmCtx, _ trig) error {
		c.log = append(c.log, entry)
		return nil
	}
}

func failWith(err error) statemachine.Action[state, event, *fsmCtx] {
	return func(context.Context, *fsmCtx, trig) error { return err }
}

// basicTable is the bare A -> B -> C -> A cycle.
func basicTable() *table {
	return newBuilder().
		Transition(A, B, Next).
		Transition(B, C, Next).
		Transition(C, A, Next).
		MustBuild()
}

// guardActionTable is the cycle with a guard and a counting action on every rule.
func guardActionTable() *table {
	opts := []statemachine.TransitionOption[state, event, *fsmCtx]{
		statemachine.WithGuard(belowLimit),
		statemachine.WithAction(increment),
	}
	return newBuilder().
		Transition(A, B, Next, opts...).
		Transition(B, C, Next, opts...).
		Transition(C, A, Next, opts...).
		MustBuild()
}

// payloadTable sums payload values on every step of the cycle.
func payloadTable() *table {
	sum := statemachine.ActionWith(func(_ context.Context, c *fsmCtx, _ trig, p *payloadData) error {
		c.sum += p.value
		return nil
	})
	return newBuilder().
		Transition(A, B, NextWithPayload, statemachine.WithAction(sum)).
		Transition(B, C, NextWithPayload, statemachine.WithAction(sum)).
		Transition(C, A, NextWithPayload, statemachine.WithAction(sum)).
		Payload(NextWithPayload, statemachine.PayloadOf[*payloadData]()).
		MustBuild()
}

func newMachine(t *table, c *fsmCtx) *machine {
	return statemachine.MustNewMachine(t, c, statemachine.WithID("test"))
}
