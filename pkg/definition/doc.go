// Package definition loads transition tables from YAML documents.
//
// A document names its states, events, guards, actions and hooks as plain
// strings. Compile resolves the function names against a Registry and builds
// a statemachine.Table keyed by StringState and StringEvent, so tables can be
// changed without recompiling while the behavior stays in Go code.
//
// Usage:
//
//	reg := definition.NewRegistry[*Order]()
//	definition.MustRegister(reg.RegisterGuard("paid_in_full", paidInFull))
//	definition.MustRegister(reg.RegisterAction("reserve_stock", reserveStock))
//	definition.MustRegister(reg.RegisterPayload("payment", statemachine.PayloadOf[Payment]()))
//
//	table, err := definition.LoadTable(ctx, os.DirFS("machines"), "order.yaml", reg)
//	if err != nil {
//	    return err
//	}
//	m, err := statemachine.NewMachine(table, order)
//
// Parse and LoadFile validate the structure only. Compile reports every
// unresolved name at once, wrapped with ErrUnknownGuard, ErrUnknownAction,
// ErrUnknownHook or ErrUnknownPayload.
package definition
