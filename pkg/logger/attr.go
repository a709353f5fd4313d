package logger

import (
	"fmt"
	"log/slog"
	"strconv"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Errors groups multiple non-nil errors under the key "errors".
// If all errors are nil, it returns an empty Attr.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Machine records the state machine instance identifier under the key "machine_id".
// If id is empty, it returns an empty Attr.
func Machine(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("machine_id", id)
}

// State records a state under the key "state".
func State(s any) slog.Attr {
	return slog.String("state", name(s))
}

// FromState records the source state of a transition under the key "from".
func FromState(s any) slog.Attr {
	return slog.String("from", name(s))
}

// ToState records the target state of a transition under the key "to".
func ToState(s any) slog.Attr {
	return slog.String("to", name(s))
}

// Event records the event kind under the key "event".
func Event(e any) slog.Attr {
	return slog.String("event", name(e))
}

// Rule records the transition rule name under the key "rule".
// If rule is empty, it returns an empty Attr.
func Rule(rule string) slog.Attr {
	if rule == "" {
		return slog.Attr{}
	}
	return slog.String("rule", rule)
}

// Outcome records a dispatch outcome under the key "outcome".
func Outcome(o fmt.Stringer) slog.Attr {
	return slog.String("outcome", o.String())
}

// Phase records the failing transition phase under the key "phase".
func Phase(p fmt.Stringer) slog.Attr {
	return slog.String("phase", p.String())
}

// Duration records a duration under the key "duration".
func Duration(d any) slog.Attr {
	return slog.Any("duration", d)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// name renders states and events without allocating for the common string cases.
func name(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case interface{ Name() string }:
		return t.Name()
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(v)
	}
}
