// Package fastfsm is a table-driven finite-state-machine engine for Go.
//
// A transition table is declared once, compiled into dense indexes and shared
// read-only by any number of machines. Dispatching an event costs about as
// much as a hand-written switch, whatever the size of the table.
//
// Key Features:
//
//   - Generic states, events and context: Table[S, E, C], Machine[S, E, C]
//   - First-match-wins guards, actions, entry and exit hooks
//   - Atomic commit: the state changes only after every hook and action succeeded
//   - Typed payload contracts per event kind
//   - Introspection without side effects: IsIn, CanFire, PermittedTriggers
//   - Extensions for logging and transition feeds
//   - Tables declared in YAML and bound to Go functions by name
//
// Basic Usage:
//
//	table := statemachine.NewBuilder[State, Event, *Order]().
//		Transition(Pending, Paid, Pay, statemachine.WithGuard(paidInFull), statemachine.WithAction(recordPayment)).
//		Transition(Paid, Shipped, Ship).
//		MustBuild()
//
//	m, err := statemachine.NewMachine(table, order, statemachine.WithLogger(log))
//	outcome, err := m.Fire(ctx, Pay, payment)
//
// Packages:
//
//   - pkg/statemachine: tables, machines, dispatch, introspection, extensions
//   - pkg/definition: YAML documents compiled into tables through a registry
//   - pkg/async: futures awaited by AwaitAction
//   - pkg/broadcast: non-blocking fan-out behind NewFeedExtension
//   - pkg/logger: slog factory and attribute helpers
//   - pkg/config: environment configuration loader
package fastfsm
