package routefinder

import (
	"testing"

	"github.com/holdfast-games/routefinder/pkg/routefinder/observability"
	"github.com/stretchr/testify/assert"
)

func TestDefaultFindConfig(t *testing.T) {
	c := defaultFindConfig()

	assert.Equal(t, 1<<30, c.depthLimit)
	assert.Nil(t, c.deadEndCallback)
	assert.Equal(t, observability.NoopMetrics{}, c.metrics)
	assert.Equal(t, observability.NoopSpanManager{}, c.spans)
	assert.False(t, c.tracingEnabled)
}

func TestWithSeed(t *testing.T) {
	c := defaultFindConfig()
	WithSeed(99)(&c)
	assert.Equal(t, int64(99), c.seed)
}

func TestWithDepthLimit(t *testing.T) {
	c := defaultFindConfig()
	WithDepthLimit(42)(&c)
	assert.Equal(t, 42, c.depthLimit)
}

func TestWithDepthLimit_IgnoresNonPositive(t *testing.T) {
	c := defaultFindConfig()
	WithDepthLimit(0)(&c)
	assert.Equal(t, 1<<30, c.depthLimit)

	WithDepthLimit(-5)(&c)
	assert.Equal(t, 1<<30, c.depthLimit)
}

func TestWithDeadEndCallback(t *testing.T) {
	called := false
	cb := func(*State) { called = true }

	c := defaultFindConfig()
	WithDeadEndCallback(cb)(&c)
	require := c.deadEndCallback
	require(nil)

	assert.True(t, called)
}

func TestWithMetrics_Enabled(t *testing.T) {
	c := defaultFindConfig()
	WithMetrics(true)(&c)
	assert.NotEqual(t, observability.NoopMetrics{}, c.metrics)
}

func TestWithMetrics_Disabled(t *testing.T) {
	c := defaultFindConfig()
	WithMetrics(true)(&c)
	WithMetrics(false)(&c)
	assert.Equal(t, observability.NoopMetrics{}, c.metrics)
}

func TestWithTracing_Enabled(t *testing.T) {
	c := defaultFindConfig()
	WithTracing(true)(&c)
	assert.True(t, c.tracingEnabled)
	assert.NotEqual(t, observability.NoopSpanManager{}, c.spans)
}

func TestWithTracing_Disabled(t *testing.T) {
	c := defaultFindConfig()
	WithTracing(true)(&c)
	WithTracing(false)(&c)
	assert.False(t, c.tracingEnabled)
	assert.Equal(t, observability.NoopSpanManager{}, c.spans)
}
