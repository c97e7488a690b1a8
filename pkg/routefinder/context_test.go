package routefinder

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewContext_Defaults(t *testing.T) {
	ctx := NewContext(context.Background())

	assert.NotNil(t, ctx.Logger())
	assert.NotEmpty(t, ctx.RunID())
	assert.Nil(t, ctx.Trace())
	assert.Equal(t, 0, ctx.Depth())
	assert.Equal(t, 1, ctx.Attempt())
}

func TestNewContext_DistinctRunIDs(t *testing.T) {
	a := NewContext(context.Background())
	b := NewContext(context.Background())

	assert.NotEqual(t, a.RunID(), b.RunID())
}

func TestWithContextRunID(t *testing.T) {
	ctx := NewContext(context.Background(), WithContextRunID("fixed"))
	assert.Equal(t, "fixed", ctx.RunID())
}

func TestWithLogger(t *testing.T) {
	logger := slog.Default()
	ctx := NewContext(context.Background(), WithLogger(logger))
	assert.Same(t, logger, ctx.Logger())
}

func TestExecutionContext_WithDepth(t *testing.T) {
	ctx := NewContext(context.Background()).(*executionContext)
	deeper := ctx.withDepth(3)

	assert.Equal(t, 3, deeper.Depth())
	assert.Equal(t, 0, ctx.Depth(), "withDepth must not mutate the receiver")
}

func TestExecutionContext_WithAttempt(t *testing.T) {
	ctx := NewContext(context.Background()).(*executionContext)
	next := ctx.withAttempt(2)

	assert.Equal(t, 2, next.Attempt())
	assert.Equal(t, 1, ctx.Attempt(), "withAttempt must not mutate the receiver")
}

func TestSpanContext_DelegatesDoneAndErr(t *testing.T) {
	base, cancel := context.WithCancel(context.Background())
	ctx := NewContext(context.Background())

	wrapped := withBase(ctx, base)
	require.NoError(t, wrapped.Err())

	cancel()
	<-wrapped.Done()
	assert.Error(t, wrapped.Err())
}

func TestSpanContext_PreservesServices(t *testing.T) {
	ctx := NewContext(context.Background(), WithContextRunID("run-x"))
	wrapped := withBase(ctx, context.Background())

	assert.Equal(t, "run-x", wrapped.RunID())
	assert.Same(t, ctx.Logger(), wrapped.Logger())
}

func TestWithDepth_FreeFunction_OnExecutionContext(t *testing.T) {
	ctx := NewContext(context.Background())
	deeper := withDepth(ctx, 4)

	assert.Equal(t, 4, deeper.Depth())
	assert.Equal(t, 0, ctx.Depth(), "withDepth must not mutate the original context")
}

func TestWithDepth_FreeFunction_PreservesSpanWrapping(t *testing.T) {
	ctx := NewContext(context.Background())
	wrapped := withBase(ctx, context.Background())

	deeper := withDepth(wrapped, 2)

	assert.Equal(t, 2, deeper.Depth())
	assert.IsType(t, &spanContext{}, deeper, "depth re-derivation must not discard the span-rebound base context")
}

func TestWithAttempt_FreeFunction_OnExecutionContext(t *testing.T) {
	ctx := NewContext(context.Background())
	next := withAttempt(ctx, 3)

	assert.Equal(t, 3, next.Attempt())
	assert.Equal(t, 1, ctx.Attempt(), "withAttempt must not mutate the original context")
}

func TestWithAttempt_FreeFunction_PreservesSpanWrapping(t *testing.T) {
	ctx := NewContext(context.Background())
	wrapped := withBase(ctx, context.Background())

	next := withAttempt(wrapped, 5)

	assert.Equal(t, 5, next.Attempt())
	assert.IsType(t, &spanContext{}, next, "attempt re-derivation must not discard the span-rebound base context")
}
