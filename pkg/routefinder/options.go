package routefinder

import (
	"math/rand"

	"github.com/holdfast-games/routefinder/pkg/routefinder/observability"
)

// findConfig holds configuration for a Find run (spec §5's
// RouteFinderOptions: debug_depth_limit, debug_dead_end_callback, plus the
// seed passed at construction).
type findConfig struct {
	seed            int64
	depthLimit      int
	deadEndCallback func(*State)
	metrics         observability.MetricsRecorder
	spans           observability.SpanManager
	tracingEnabled  bool
}

// defaultFindConfig returns the default search configuration: effectively
// unbounded depth, no dead-end observer, and a seed derived from the
// current PRNG state (override with WithSeed for determinism).
func defaultFindConfig() findConfig {
	return findConfig{
		seed:       rand.Int63(),
		depthLimit: 1 << 30,
		metrics:    observability.NoopMetrics{},
		spans:      observability.NoopSpanManager{},
	}
}

// FindOption configures a Find run.
type FindOption func(*findConfig)

// WithSeed sets the PRNG seed. Two calls to Find with the same graph and
// seed produce identical routes (spec §5's determinism invariant).
func WithSeed(seed int64) FindOption {
	return func(c *findConfig) {
		c.seed = seed
	}
}

// WithDepthLimit sets the recursion depth bound that aborts the search with
// a DepthLimitError, guarding against adversarial or malformed graphs.
// Default: effectively unbounded.
func WithDepthLimit(n int) FindOption {
	return func(c *findConfig) {
		if n > 0 {
			c.depthLimit = n
		}
	}
}

// WithDeadEndCallback registers an observer invoked once per terminal
// unsolvable subproblem (a dead end the driver could not expand past). The
// callback is advisory, not an error channel: the search never throws for
// ordinary unsolvability, it returns the best partial route.
func WithDeadEndCallback(fn func(*State)) FindOption {
	return func(c *findConfig) {
		c.deadEndCallback = fn
	}
}

// WithMetrics enables OpenTelemetry metrics recording for the run using the
// global OTel meter provider.
func WithMetrics(enabled bool) FindOption {
	return func(c *findConfig) {
		if enabled {
			c.metrics = observability.NewMetricsRecorder()
		} else {
			c.metrics = observability.NoopMetrics{}
		}
	}
}

// WithTracing enables OpenTelemetry span recording for the run using the
// global OTel tracer provider.
func WithTracing(enabled bool) FindOption {
	return func(c *findConfig) {
		c.tracingEnabled = enabled
		if enabled {
			c.spans = observability.NewSpanManager()
		} else {
			c.spans = observability.NoopSpanManager{}
		}
	}
}
