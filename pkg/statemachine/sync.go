package statemachine

import (
	"context"
	"sync"
)

// SyncMachine guards a Machine with a RWMutex so one instance can be shared
// between goroutines. Fire and Reset take the write lock; queries take the
// read lock, which relies on guards not mutating the context. Callbacks must
// not call back into the SyncMachine that runs them.
type SyncMachine[S, E comparable, C any] struct {
	mu sync.RWMutex
	m  *Machine[S, E, C]
}

// NewSyncMachine creates a Machine and wraps it.
func NewSyncMachine[S, E comparable, C any](table *Table[S, E, C], c C, opts ...Option) (*SyncMachine[S, E, C], error) {
	m, err := NewMachine(table, c, opts...)
	if err != nil {
		return nil, err
	}
	return &SyncMachine[S, E, C]{m: m}, nil
}

// Synchronized wraps an existing machine. The caller must stop using m directly.
func Synchronized[S, E comparable, C any](m *Machine[S, E, C]) *SyncMachine[S, E, C] {
	return &SyncMachine[S, E, C]{m: m}
}

func (s *SyncMachine[S, E, C]) ID() string {
	return s.m.ID()
}

func (s *SyncMachine[S, E, C]) Use(exts ...Extension[S, E]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m.Use(exts...)
}

func (s *SyncMachine[S, E, C]) Current() S {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.m.Current()
}

func (s *SyncMachine[S, E, C]) IsIn(state S) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.m.IsIn(state)
}

func (s *SyncMachine[S, E, C]) Fire(ctx context.Context, event E, payload any) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.Fire(ctx, event, payload)
}

func (s *SyncMachine[S, E, C]) FireStrict(ctx context.Context, event E, payload any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.FireStrict(ctx, event, payload)
}

func (s *SyncMachine[S, E, C]) CanFire(ctx context.Context, event E, payload any) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.m.CanFire(ctx, event, payload)
}

func (s *SyncMachine[S, E, C]) PermittedTriggers(ctx context.Context) ([]E, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.m.PermittedTriggers(ctx)
}

func (s *SyncMachine[S, E, C]) PermittedTriggersWith(ctx context.Context, resolve func(E) any) ([]E, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.m.PermittedTriggersWith(ctx, resolve)
}

func (s *SyncMachine[S, E, C]) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.Start(ctx)
}

func (s *SyncMachine[S, E, C]) Started() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.m.Started()
}

func (s *SyncMachine[S, E, C]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m.Reset()
}

// Do runs fn with exclusive access to the underlying machine, e.g. to read
// the context consistently with the current state.
func (s *SyncMachine[S, E, C]) Do(fn func(m *Machine[S, E, C]) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.m)
}

var (
	_ StateMachine[string, string] = (*Machine[string, string, struct{}])(nil)
	_ StateMachine[string, string] = (*SyncMachine[string, string, struct{}])(nil)
)
