package statemachine

import "log/slog"

// Option configures a machine during construction.
type Option func(*machineOptions)

type machineOptions struct {
	id     string
	logger *slog.Logger
}

// WithID sets the machine identifier reported to extensions and logs.
// Defaults to a random UUID.
func WithID(id string) Option {
	return func(o *machineOptions) {
		o.id = id
	}
}

// WithLogger installs a log extension writing to l. Nil loggers are ignored.
func WithLogger(l *slog.Logger) Option {
	return func(o *machineOptions) {
		if l != nil {
			o.logger = l
		}
	}
}
