package statemachine

import (
	"context"
	"fmt"
	"reflect"
)

// PayloadCheck validates the payload delivered with an event kind.
// Declare one per event with Builder.Payload; Fire and CanFire reject
// mismatching payloads with ErrInvalidPayload before any guard runs.
type PayloadCheck struct {
	typeName string
	accepts  func(any) bool
}

// PayloadOf accepts exactly payloads of dynamic type P (or implementing P
// when P is an interface). There is no numeric or pointer widening.
func PayloadOf[P any]() PayloadCheck {
	return PayloadCheck{
		typeName: reflect.TypeFor[P]().String(),
		accepts: func(v any) bool {
			_, ok := v.(P)
			return ok
		},
	}
}

// PayloadFunc wraps a custom predicate; typeName is used in error messages.
func PayloadFunc(typeName string, fn func(any) bool) PayloadCheck {
	return PayloadCheck{typeName: typeName, accepts: fn}
}

// Accepts reports whether v satisfies the check. A zero PayloadCheck accepts nothing.
func (p PayloadCheck) Accepts(v any) bool {
	return p.accepts != nil && p.accepts(v)
}

func (p PayloadCheck) String() string {
	return p.typeName
}

// IsZero reports whether p is the zero PayloadCheck.
func (p PayloadCheck) IsZero() bool {
	return p.accepts == nil
}

// PayloadAs returns the trigger payload as P.
func PayloadAs[P any, S, E comparable](t Trigger[S, E]) (P, bool) {
	p, ok := t.Payload.(P)
	return p, ok
}

// GuardWith adapts a guard that works on a typed payload.
// A nil payload rejects the rule; a payload of another type is reported as
// ErrInvalidPayload.
func GuardWith[P any, S, E comparable, C any](fn func(ctx context.Context, c C, t Trigger[S, E], payload P) (bool, error)) Guard[S, E, C] {
	return func(ctx context.Context, c C, t Trigger[S, E]) (bool, error) {
		if t.Payload == nil {
			return false, nil
		}
		p, ok := t.Payload.(P)
		if !ok {
			return false, payloadMismatch[P](t.Payload)
		}
		return fn(ctx, c, t, p)
	}
}

// ActionWith adapts an action that works on a typed payload.
// A missing or mismatching payload is reported as ErrInvalidPayload.
func ActionWith[P any, S, E comparable, C any](fn func(ctx context.Context, c C, t Trigger[S, E], payload P) error) Action[S, E, C] {
	return func(ctx context.Context, c C, t Trigger[S, E]) error {
		p, ok := t.Payload.(P)
		if !ok {
			return payloadMismatch[P](t.Payload)
		}
		return fn(ctx, c, t, p)
	}
}

func payloadMismatch[P any](got any) error {
	return fmt.Errorf("%w: want %s, got %T", ErrInvalidPayload, reflect.TypeFor[P](), got)
}
