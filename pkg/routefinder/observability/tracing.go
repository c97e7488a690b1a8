package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracer is the routefinder tracer instance.
// Uses the global OTel tracer provider.
var tracer = otel.Tracer("routefinder")

// SpanManager handles trace span lifecycle.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartFindSpan starts a span for an entire Find run.
	StartFindSpan(ctx context.Context, runID string, seed int64) (context.Context, trace.Span)

	// StartSegmentSpan starts a span for one segment (clear/fork) of the
	// search, a child of the find span.
	StartSegmentSpan(ctx context.Context, root string) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)

	// AddSpanEvent adds an event to the current span in context.
	AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue)
}

// otelSpanManager implements SpanManager using OpenTelemetry.
type otelSpanManager struct{}

// NewSpanManager returns a SpanManager that uses OpenTelemetry.
//
// The span manager uses the global OTel tracer provider. Configure the
// provider before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetTracerProvider(yourProvider)
func NewSpanManager() SpanManager {
	return &otelSpanManager{}
}

// StartFindSpan starts a span for the entire Find run.
func (m *otelSpanManager) StartFindSpan(ctx context.Context, runID string, seed int64) (context.Context, trace.Span) {
	return tracer.Start(ctx, "routefinder.find",
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.Int64("seed", seed),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartSegmentSpan starts a span for one segment of the search.
func (m *otelSpanManager) StartSegmentSpan(ctx context.Context, root string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "routefinder.segment."+root,
		trace.WithAttributes(
			attribute.String("segment.root", root),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpanWithError completes a span, optionally recording an error.
func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// AddSpanEvent adds an event to the current span.
func (m *otelSpanManager) AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
