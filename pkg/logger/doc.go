// Package logger provides a thin factory around Go's slog package plus
// attribute helpers that keep state machine log records consistent.
//
// New creates a *slog.Logger configured by Option functions:
//
//   - WithFormat / WithTextFormatter / WithJSONFormatter select the handler.
//   - WithLevel sets the minimum level.
//   - WithAttr attaches static attributes.
//   - WithEnvironment applies development, staging or production presets.
//   - WithContextAttrs appends attributes stored in a context with ContextWith.
//
// Config holds the same settings as env-tagged fields and is meant to be
// filled by the config package:
//
//	var cfg logger.Config
//	if err := config.Load(&cfg, config.WithPrefix("FSM_")); err != nil {
//	    return err
//	}
//	log, err := logger.NewFromConfig(cfg)
//
// # Attributes
//
// Helpers such as Machine, State, FromState, ToState, Event, Rule, Outcome and
// Phase render state and event tokens through Name(), String() or fmt, in
// that order, so any comparable token type logs readably:
//
//	log.DebugContext(ctx, "transition fired",
//	    logger.Machine(id),
//	    logger.FromState(from),
//	    logger.ToState(to),
//	    logger.Event(evt),
//	)
//
// Error and Errors produce attributes only for non-nil errors, so
// log.Info("done", logger.Error(err)) needs no nil check.
package logger
