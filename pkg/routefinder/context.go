package routefinder

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/holdfast-games/routefinder/pkg/routefinder/trace"
)

// Context provides execution context to a search run.
// It extends context.Context with routefinder-specific services and
// metadata, and is the cooperative cancellation signal the driver checks
// at the top of each fulfill call (spec §5: no goroutines or channels in
// the search itself, just Err() polling).
//
// Context is immutable after creation. The driver derives a per-depth
// context with an enriched logger as it recurses.
type Context interface {
	context.Context

	// Services

	// Logger returns the configured logger, enriched with run and depth
	// context. Never returns nil - defaults to slog.Default() if not
	// configured.
	Logger() *slog.Logger

	// Trace returns the trace store, or nil if not configured. The driver
	// should check for nil before appending entries.
	Trace() trace.Store

	// Metadata

	// RunID returns the unique identifier for this search run.
	// Auto-generated if not configured.
	RunID() string

	// Depth returns the current recursion depth.
	// Zero before the search starts.
	Depth() int

	// Attempt returns the placement attempt number at this depth
	// (1 = first attempt, spec §4.5's bounded retry loop).
	Attempt() int
}

// executionContext is the internal implementation of Context.
type executionContext struct {
	context.Context

	logger  *slog.Logger
	tracer  trace.Store
	runID   string
	depth   int
	attempt int
}

// Logger returns the configured logger.
func (c *executionContext) Logger() *slog.Logger {
	return c.logger
}

// Trace returns the trace store.
func (c *executionContext) Trace() trace.Store {
	return c.tracer
}

// RunID returns the run identifier.
func (c *executionContext) RunID() string {
	return c.runID
}

// Depth returns the current recursion depth.
func (c *executionContext) Depth() int {
	return c.depth
}

// Attempt returns the placement attempt number.
func (c *executionContext) Attempt() int {
	return c.attempt
}

// ContextOption configures a Context.
type ContextOption func(*executionContext)

// WithLogger sets the logger for the context.
// The logger will be enriched with run_id, depth, and attempt during the
// search.
func WithLogger(logger *slog.Logger) ContextOption {
	return func(c *executionContext) {
		c.logger = logger
	}
}

// WithTrace sets the trace store for the context.
func WithTrace(store trace.Store) ContextOption {
	return func(c *executionContext) {
		c.tracer = store
	}
}

// WithContextRunID sets the run identifier for the context.
// If not set, a UUID will be auto-generated.
func WithContextRunID(id string) ContextOption {
	return func(c *executionContext) {
		c.runID = id
	}
}

// NewContext creates an execution context from a standard context.
// The returned Context wraps the provided context.Context and adds
// routefinder-specific services and metadata.
//
// Example:
//
//	ctx := routefinder.NewContext(context.Background(),
//	    routefinder.WithLogger(myLogger),
//	    routefinder.WithContextRunID("run-123"))
func NewContext(ctx context.Context, opts ...ContextOption) Context {
	ec := &executionContext{
		Context: ctx,
		logger:  slog.Default(),
		runID:   uuid.New().String(),
		attempt: 1,
	}

	for _, opt := range opts {
		opt(ec)
	}

	return ec
}

// withDepth returns a new context with the given depth set.
// Used internally by the driver to enrich the context at each recursion
// level.
func (c *executionContext) withDepth(depth int) *executionContext {
	return &executionContext{
		Context: c.Context,
		logger:  c.logger.With("run_id", c.runID, "depth", depth),
		tracer:  c.tracer,
		runID:   c.runID,
		depth:   depth,
		attempt: c.attempt,
	}
}

// withAttempt returns a new context with the given attempt number set.
func (c *executionContext) withAttempt(attempt int) *executionContext {
	return &executionContext{
		Context: c.Context,
		logger:  c.logger.With("run_id", c.runID, "depth", c.depth, "attempt", attempt),
		tracer:  c.tracer,
		runID:   c.runID,
		depth:   c.depth,
		attempt: attempt,
	}
}

// withDepth returns ctx re-derived at depth, preserving whatever
// rebinding (e.g. spanContext) already wraps it. Used by the driver to
// keep Context.Depth() and its enriched logger accurate as fulfill
// recurses.
func withDepth(ctx Context, depth int) Context {
	switch c := ctx.(type) {
	case *executionContext:
		return c.withDepth(depth)
	case *spanContext:
		return &spanContext{Context: withDepth(c.Context, depth), base: c.base}
	default:
		return ctx
	}
}

// withAttempt returns ctx re-derived at attempt, preserving whatever
// rebinding already wraps it. Used by the driver to keep
// Context.Attempt() accurate across tryEdges' bounded retry loop.
func withAttempt(ctx Context, attempt int) Context {
	switch c := ctx.(type) {
	case *executionContext:
		return c.withAttempt(attempt)
	case *spanContext:
		return &spanContext{Context: withAttempt(c.Context, attempt), base: c.base}
	default:
		return ctx
	}
}

// spanContext rebinds the plain context.Context a Context carries (e.g.
// after starting an OTel span, so the span becomes the parent of any
// subsequently started child span) while keeping the same Logger/Trace/
// RunID/Depth/Attempt services.
type spanContext struct {
	Context
	base context.Context
}

func withBase(parent Context, base context.Context) Context {
	return &spanContext{Context: parent, base: base}
}

func (c *spanContext) Deadline() (time.Time, bool) { return c.base.Deadline() }
func (c *spanContext) Done() <-chan struct{}       { return c.base.Done() }
func (c *spanContext) Err() error                  { return c.base.Err() }
func (c *spanContext) Value(key any) any           { return c.base.Value(key) }
