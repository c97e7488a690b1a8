// Package observability provides production-grade observability features
// for routefinder: structured logging, metrics, and distributed tracing.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds run context to a logger.
// Returns a new logger with run_id, depth, and attempt fields.
//
// Example:
//
//	enriched := EnrichLogger(logger, "run-123", 2, 1)
//	enriched.Info("placing key") // includes run_id, depth, attempt
func EnrichLogger(logger *slog.Logger, runID string, depth, attempt int) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("run_id", runID),
		slog.Int("depth", depth),
		slog.Int("attempt", attempt),
	)
}

// LogFindStart logs the start of a search run.
func LogFindStart(logger *slog.Logger, runID string, seed int64) {
	if logger == nil {
		return
	}
	logger.Info("find starting",
		slog.String("run_id", runID),
		slog.Int64("seed", seed),
	)
}

// LogFindComplete logs successful search completion.
func LogFindComplete(logger *slog.Logger, runID string, durationMs float64, allVisited bool, placements int) {
	if logger == nil {
		return
	}
	logger.Info("find completed",
		slog.String("run_id", runID),
		slog.Float64("duration_ms", durationMs),
		slog.Bool("all_nodes_visited", allVisited),
		slog.Int("placements", placements),
	)
}

// LogFindError logs search failure (depth limit, cancellation).
func LogFindError(logger *slog.Logger, runID string, err error, durationMs float64, depth int) {
	if logger == nil {
		return
	}
	logger.Error("find failed",
		slog.String("run_id", runID),
		slog.String("error", err.Error()),
		slog.Float64("duration_ms", durationMs),
		slog.Int("depth", depth),
	)
}

// LogSegmentStart logs the start of a new segment (clear/fork).
func LogSegmentStart(logger *slog.Logger, root string, forked bool) {
	if logger == nil {
		return
	}
	logger.Debug("segment starting",
		slog.String("root", root),
		slog.Bool("forked", forked),
	)
}

// LogDeadEnd logs a dead end the driver could not expand past.
func LogDeadEnd(logger *slog.Logger, depth int, pendingEdges int) {
	if logger == nil {
		return
	}
	logger.Debug("dead end reached",
		slog.Int("depth", depth),
		slog.Int("pending_edges", pendingEdges),
	)
}

// LogPlacement logs a key placement attempt.
func LogPlacement(logger *slog.Logger, edgeID string, attempt int, ok bool) {
	if logger == nil {
		return
	}
	logger.Debug("placement attempt",
		slog.String("edge_id", edgeID),
		slog.Int("attempt", attempt),
		slog.Bool("ok", ok),
	)
}

// LogTraceError logs trace-store append failure (non-fatal: the search
// continues without a durable trace).
func LogTraceError(logger *slog.Logger, op string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("trace store operation failed",
		slog.String("operation", op),
		slog.String("error", err.Error()),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in
// milliseconds.
//
// Example:
//
//	done := TimedOperation()
//	// ... do work ...
//	durationMs := done()
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Milliseconds())
	}
}
