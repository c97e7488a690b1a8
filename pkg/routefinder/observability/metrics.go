package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records routefinder search metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordPlacementAttempt records one placement attempt for an edge.
	RecordPlacementAttempt(ctx context.Context, edgeID string, duration time.Duration, ok bool)

	// RecordFind records a completed Find run.
	RecordFind(ctx context.Context, allVisited bool, duration time.Duration, depth int)

	// RecordDeadEnd records a dead end the driver could not expand past.
	RecordDeadEnd(ctx context.Context, depth int)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	placementAttempts metric.Int64Counter
	placementLatency   metric.Float64Histogram
	placementFailures  metric.Int64Counter
	findRuns           metric.Int64Counter
	findLatency        metric.Float64Histogram
	findDepth          metric.Int64Histogram
	deadEnds           metric.Int64Counter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("routefinder")

	placementAttempts, err := meter.Int64Counter("routefinder.placement.attempts",
		metric.WithDescription("Number of key placement attempts"),
	)
	if err != nil {
		return nil, err
	}

	placementLatency, err := meter.Float64Histogram("routefinder.placement.latency_ms",
		metric.WithDescription("Placement attempt latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	placementFailures, err := meter.Int64Counter("routefinder.placement.failures",
		metric.WithDescription("Number of failed placement attempts"),
	)
	if err != nil {
		return nil, err
	}

	findRuns, err := meter.Int64Counter("routefinder.find.runs",
		metric.WithDescription("Number of Find runs"),
	)
	if err != nil {
		return nil, err
	}

	findLatency, err := meter.Float64Histogram("routefinder.find.latency_ms",
		metric.WithDescription("Find run latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	findDepth, err := meter.Int64Histogram("routefinder.find.depth",
		metric.WithDescription("Maximum recursion depth reached by a Find run"),
	)
	if err != nil {
		return nil, err
	}

	deadEnds, err := meter.Int64Counter("routefinder.search.dead_ends",
		metric.WithDescription("Number of terminal unsolvable subproblems encountered"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		placementAttempts: placementAttempts,
		placementLatency:  placementLatency,
		placementFailures: placementFailures,
		findRuns:          findRuns,
		findLatency:       findLatency,
		findDepth:         findDepth,
		deadEnds:          deadEnds,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordPlacementAttempt records a key placement attempt.
func (m *otelMetrics) RecordPlacementAttempt(ctx context.Context, edgeID string, duration time.Duration, ok bool) {
	attrs := []attribute.KeyValue{
		attribute.String("edge_id", edgeID),
	}

	m.placementAttempts.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.placementLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))

	if !ok {
		m.placementFailures.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// RecordFind records a completed Find run.
func (m *otelMetrics) RecordFind(ctx context.Context, allVisited bool, duration time.Duration, depth int) {
	attrs := []attribute.KeyValue{
		attribute.Bool("all_nodes_visited", allVisited),
	}
	m.findRuns.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.findLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
	m.findDepth.Record(ctx, int64(depth))
}

// RecordDeadEnd records a dead end.
func (m *otelMetrics) RecordDeadEnd(ctx context.Context, depth int) {
	m.deadEnds.Add(ctx, 1, metric.WithAttributes(attribute.Int("depth", depth)))
}
