package definition_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/fastfsm/pkg/definition"
	"github.com/dmitrymomot/fastfsm/pkg/statemachine"
)

type order struct {
	total         int
	paid          int
	reserved      bool
	notifications int
	refunded      int
}

type payment struct {
	amount int
}

type orderTrig = statemachine.Trigger[definition.State, definition.Event]

func orderRegistry(t *testing.T) *definition.Registry[*order] {
	t.Helper()
	reg := definition.NewRegistry[*order]()

	require.NoError(t, reg.RegisterGuard("paid_in_full", statemachine.GuardWith(
		func(_ context.Context, o *order, _ orderTrig, p payment) (bool, error) {
			return o.paid+p.amount >= o.total, nil
		})))
	require.NoError(t, reg.RegisterAction("record_payment", statemachine.ActionWith(
		func(_ context.Context, o *order, _ orderTrig, p payment) error {
			o.paid += p.amount
			return nil
		})))
	require.NoError(t, reg.RegisterAction("refund", func(_ context.Context, o *order, _ orderTrig) error {
		o.refunded = o.paid
		o.paid = 0
		return nil
	}))
	require.NoError(t, reg.RegisterHook("reserve_stock", func(_ context.Context, o *order, _ orderTrig) error {
		o.reserved = true
		return nil
	}))
	require.NoError(t, reg.RegisterHook("notify_customer", func(_ context.Context, o *order, _ orderTrig) error {
		o.notifications++
		return nil
	}))
	require.NoError(t, reg.RegisterPayload("payment", statemachine.PayloadOf[payment]()))
	return reg
}

func TestLoadTable_OrderLifecycle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	table, err := definition.LoadTable(ctx, os.DirFS("testdata"), "order.yaml", orderRegistry(t))
	require.NoError(t, err)

	assert.Equal(t, definition.State("pending"), table.Initial())
	assert.Equal(t,
		[]definition.State{"pending", "paid", "cancelled", "shipped", "delivered"},
		table.States())
	assert.Equal(t, "payment accepted", table.Rules()[0].Name)
	assert.Equal(t, "partial payment", table.Rules()[1].Name)

	o := &order{total: 100}
	m := statemachine.MustNewMachine(table, o)

	triggers, err := m.PermittedTriggers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []definition.Event{"pay", "cancel"}, triggers)

	_, err = m.Fire(ctx, "pay", "forty")
	assert.ErrorIs(t, err, statemachine.ErrInvalidPayload)

	out, err := m.Fire(ctx, "pay", payment{amount: 40})
	require.NoError(t, err)
	assert.Equal(t, statemachine.Fired, out)
	assert.True(t, m.IsIn("pending"))
	assert.Equal(t, 40, o.paid)

	_, err = m.Fire(ctx, "pay", payment{amount: 60})
	require.NoError(t, err)
	assert.True(t, m.IsIn("paid"))
	assert.Equal(t, 100, o.paid)
	assert.True(t, o.reserved)

	require.NoError(t, m.FireStrict(ctx, "ship", nil))
	require.NoError(t, m.FireStrict(ctx, "deliver", nil))
	assert.True(t, m.IsIn("delivered"))
	assert.Equal(t, 2, o.notifications)

	err = m.FireStrict(ctx, "cancel", nil)
	assert.True(t, statemachine.IsNoTransitionAvailableError(err))
}

func TestCompile_Cancel(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	doc, err := definition.LoadFile(ctx, os.DirFS("testdata"), "order.yaml")
	require.NoError(t, err)
	table, err := definition.Compile(doc, orderRegistry(t))
	require.NoError(t, err)

	o := &order{total: 10}
	m := statemachine.MustNewMachine(table, o)
	_, err = m.Fire(ctx, "pay", payment{amount: 10})
	require.NoError(t, err)
	_, err = m.Fire(ctx, "cancel", nil)
	require.NoError(t, err)

	assert.True(t, m.IsIn("cancelled"))
	assert.Equal(t, 10, o.refunded)
	assert.Zero(t, o.paid)
}

func TestCompile_UnknownNames(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	_, err := definition.LoadTable(ctx, os.DirFS("testdata"), "unknown_names.yaml", orderRegistry(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, definition.ErrUnknownGuard)
	assert.ErrorIs(t, err, definition.ErrUnknownAction)
	assert.ErrorIs(t, err, definition.ErrUnknownHook)
	assert.ErrorIs(t, err, definition.ErrUnknownPayload)
	assert.Contains(t, err.Error(), "unknown_names.yaml: ")
	assert.Contains(t, err.Error(), `"missing_guard" (transition 0)`)
	assert.Contains(t, err.Error(), `"missing_hook" (state "b" on_exit)`)
}

func TestCompile_Errors(t *testing.T) {
	t.Parallel()
	reg := definition.NewRegistry[*order]()

	_, err := definition.Compile[*order](nil, reg)
	assert.ErrorIs(t, err, definition.ErrInvalidDocument)

	doc := &definition.Document{Transitions: []definition.Transition{{From: "a", Event: "go", To: "b"}}}
	_, err = definition.Compile[*order](doc, nil)
	assert.ErrorIs(t, err, definition.ErrNilRegistry)

	// documents built in code are validated too
	_, err = definition.Compile(&definition.Document{}, reg)
	assert.ErrorIs(t, err, definition.ErrInvalidDocument)

	table, err := definition.Compile(doc, reg)
	require.NoError(t, err)
	assert.Equal(t, definition.State("a"), table.Initial())
}

func TestCompile_InternalTransition(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	reg := definition.NewRegistry[*order]()
	definition.MustRegister(reg.RegisterAction("ping", func(_ context.Context, o *order, _ orderTrig) error {
		o.notifications++
		return nil
	}))
	definition.MustRegister(reg.RegisterHook("enter", func(_ context.Context, o *order, _ orderTrig) error {
		o.reserved = true
		return nil
	}))

	doc, err := definition.Parse(ctx, []byte(`
name: pinger
states:
  - {name: idle, on_entry: enter, on_exit: enter}
transitions:
  - {from: idle, event: ping, internal: true, action: ping}
  - {from: idle, event: ping, to: busy}
`))
	require.NoError(t, err)
	table, err := definition.Compile(doc, reg)
	require.NoError(t, err)

	o := &order{}
	m := statemachine.MustNewMachine(table, o)
	for range 3 {
		_, err := m.Fire(ctx, "ping", nil)
		require.NoError(t, err)
	}
	assert.True(t, m.IsIn("idle"))
	assert.Equal(t, 3, o.notifications)
	assert.False(t, o.reserved)
}
