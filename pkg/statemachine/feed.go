package statemachine

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/dmitrymomot/fastfsm/pkg/broadcast"
)

// Record summarizes one finished dispatch. It never carries the payload.
type Record[S, E comparable] struct {
	MachineID string
	From      S
	To        S
	Event     E
	Rule      string
	Outcome   Outcome
	Err       error
	At        time.Time
}

type feedExtension[S, E comparable] struct {
	b      broadcast.Broadcaster[Record[S, E]]
	now    func() time.Time
	closed atomic.Bool
}

// NewFeedExtension returns an Extension that publishes a Record for every
// dispatch to b. Publishing never blocks the dispatch; records are lost for
// subscribers that fall behind. Once b reports broadcast.ErrClosed the
// extension stops publishing for good.
func NewFeedExtension[S, E comparable](b broadcast.Broadcaster[Record[S, E]]) Extension[S, E] {
	return &feedExtension[S, E]{b: b, now: time.Now}
}

func (f *feedExtension[S, E]) BeforeTransition(context.Context, TransitionInfo[S, E]) {}

func (f *feedExtension[S, E]) GuardEvaluated(context.Context, TransitionInfo[S, E], bool, error) {}

func (f *feedExtension[S, E]) AfterTransition(ctx context.Context, info TransitionInfo[S, E], outcome Outcome, err error) {
	if f.closed.Load() {
		return
	}
	_, perr := f.b.Publish(ctx, Record[S, E]{
		MachineID: info.MachineID,
		From:      info.From,
		To:        info.To,
		Event:     info.Event,
		Rule:      info.Rule,
		Outcome:   outcome,
		Err:       err,
		At:        f.now(),
	})
	if errors.Is(perr, broadcast.ErrClosed) {
		f.closed.Store(true)
	}
}
