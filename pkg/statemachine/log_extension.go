package statemachine

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dmitrymomot/fastfsm/pkg/logger"
)

type logExtension[S, E comparable] struct {
	log *slog.Logger
}

// NewLogExtension returns an Extension that logs dispatches to log:
// fired and unhandled events at debug level, failures at error level.
func NewLogExtension[S, E comparable](log *slog.Logger) Extension[S, E] {
	return &logExtension[S, E]{log: log.With(logger.Component("statemachine"))}
}

func (l *logExtension[S, E]) BeforeTransition(context.Context, TransitionInfo[S, E]) {}

func (l *logExtension[S, E]) GuardEvaluated(ctx context.Context, info TransitionInfo[S, E], passed bool, err error) {
	if err != nil || !l.log.Enabled(ctx, slog.LevelDebug) {
		return
	}
	l.log.DebugContext(ctx, "guard evaluated",
		logger.Machine(info.MachineID),
		logger.State(info.From),
		logger.Event(info.Event),
		logger.Rule(info.Rule),
		slog.Bool("passed", passed),
	)
}

func (l *logExtension[S, E]) AfterTransition(ctx context.Context, info TransitionInfo[S, E], outcome Outcome, err error) {
	if err != nil {
		attrs := []any{
			logger.Machine(info.MachineID),
			logger.State(info.From),
			logger.Event(info.Event),
			logger.Rule(info.Rule),
			logger.Error(err),
		}
		var ae *ActionError
		if errors.As(err, &ae) {
			attrs = append(attrs, logger.Phase(ae.Phase))
		}
		l.log.ErrorContext(ctx, "transition failed", attrs...)
		return
	}

	if !l.log.Enabled(ctx, slog.LevelDebug) {
		return
	}
	if outcome == Fired {
		l.log.DebugContext(ctx, "transition fired",
			logger.Machine(info.MachineID),
			logger.FromState(info.From),
			logger.ToState(info.To),
			logger.Event(info.Event),
			logger.Rule(info.Rule),
		)
		return
	}
	l.log.DebugContext(ctx, "event unhandled",
		logger.Machine(info.MachineID),
		logger.State(info.From),
		logger.Event(info.Event),
		logger.Outcome(outcome),
	)
}
