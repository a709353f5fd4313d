package logger_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/fastfsm/pkg/logger"
)

func TestContextWith(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	assert.Nil(t, logger.AttrsFromContext(ctx))
	assert.Equal(t, ctx, logger.ContextWith(ctx))

	ctx = logger.ContextWith(ctx, slog.String("a", "1"))
	ctx2 := logger.ContextWith(ctx, slog.String("b", "2"))

	assert.Len(t, logger.AttrsFromContext(ctx), 1)
	attrs := logger.AttrsFromContext(ctx2)
	if assert.Len(t, attrs, 2) {
		assert.Equal(t, "a", attrs[0].Key)
		assert.Equal(t, "b", attrs[1].Key)
	}
}

func TestContextHandler(t *testing.T) {
	t.Parallel()

	t.Run("appends context attributes", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithContextAttrs())

		ctx := logger.ContextWith(context.Background(), logger.Machine("m-42"))
		log.InfoContext(ctx, "fired")

		assert.Equal(t, "m-42", decode(t, buf)["machine_id"])
	})

	t.Run("disabled by default", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf))

		ctx := logger.ContextWith(context.Background(), logger.Machine("m-42"))
		log.InfoContext(ctx, "fired")

		assert.NotContains(t, decode(t, buf), "machine_id")
	})

	t.Run("preserves groups and attrs", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithContextAttrs()).
			With(slog.String("static", "yes")).
			WithGroup("fsm")

		ctx := logger.ContextWith(context.Background(), slog.String("dyn", "1"))
		log.InfoContext(ctx, "msg", slog.String("k", "v"))

		entry := decode(t, buf)
		assert.Equal(t, "yes", entry["static"])
		group, ok := entry["fsm"].(map[string]any)
		if assert.True(t, ok) {
			assert.Equal(t, "v", group["k"])
			assert.Equal(t, "1", group["dyn"])
		}
	})
}
