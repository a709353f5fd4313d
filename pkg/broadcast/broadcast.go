package broadcast

import (
	"context"
	"sync"
	"sync/atomic"
)

// Subscriber receives published values on a buffered channel.
type Subscriber[T any] interface {
	// C returns the receive channel. It is closed after Close or when the
	// broadcaster shuts down.
	C() <-chan T
	// Dropped reports how many values were discarded because the buffer was full.
	Dropped() uint64
	// Close unsubscribes. It is idempotent.
	Close() error
}

// Broadcaster fans values out to every active subscriber without blocking
// the publisher.
type Broadcaster[T any] interface {
	// Subscribe registers a subscriber that is removed when ctx is done.
	Subscribe(ctx context.Context) Subscriber[T]
	// Publish delivers v to every subscriber with room in its buffer and
	// returns how many received it.
	Publish(ctx context.Context, v T) (int, error)
	Close() error
}

type subscriber[T any] struct {
	ch      chan T
	quit    chan struct{}
	dropped atomic.Uint64
	closed  bool
	mu      sync.RWMutex
	detach  func()
}

func (s *subscriber[T]) C() <-chan T {
	return s.ch
}

func (s *subscriber[T]) Dropped() uint64 {
	return s.dropped.Load()
}

func (s *subscriber[T]) Close() error {
	if s.detach != nil {
		s.detach()
	}
	s.close()
	return nil
}

func (s *subscriber[T]) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		close(s.ch)
		close(s.quit)
		s.closed = true
	}
}

func (s *subscriber[T]) done() <-chan struct{} {
	return s.quit
}

// send never blocks; a full buffer counts as a drop.
func (s *subscriber[T]) send(v T) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return false
	}
	select {
	case s.ch <- v:
		return true
	default:
		s.dropped.Add(1)
		return false
	}
}
