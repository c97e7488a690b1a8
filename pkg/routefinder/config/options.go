package config

import (
	"github.com/holdfast-games/routefinder/pkg/routefinder"
)

// Tuning keys recognized by FindOptions, loadable from a YAML/JSON file via
// FromFile (spec §5's RouteFinderOptions, externalized as tunable defaults
// rather than hardcoded constants).
const (
	KeySeed           = "seed"
	KeyDepthLimit     = "depth_limit"
	KeyMetricsEnabled = "metrics_enabled"
	KeyTracingEnabled = "tracing_enabled"
)

// FindOptions translates a loaded Config into routefinder.FindOption values,
// so a deployment can tune search behavior (seed, depth limit, telemetry)
// without a code change.
func FindOptions(cfg Config) []routefinder.FindOption {
	var opts []routefinder.FindOption

	if cfg.Has(KeySeed) {
		opts = append(opts, routefinder.WithSeed(int64(cfg.Int(KeySeed, 0))))
	}
	if cfg.Has(KeyDepthLimit) {
		opts = append(opts, routefinder.WithDepthLimit(cfg.Int(KeyDepthLimit, 0)))
	}
	if cfg.Bool(KeyMetricsEnabled, false) {
		opts = append(opts, routefinder.WithMetrics(true))
	}
	if cfg.Bool(KeyTracingEnabled, false) {
		opts = append(opts, routefinder.WithTracing(true))
	}

	return opts
}

// DefaultTuning returns a Config populated with baseline tuning values (a
// depth limit of 100000, metrics and tracing off), useful as a base to
// layer a loaded file's overrides onto. Find's own default, when no
// WithDepthLimit option is given, is an effectively unbounded depth.
func DefaultTuning() Config {
	return New(map[string]any{
		KeyDepthLimit:     100000,
		KeyMetricsEnabled: false,
		KeyTracingEnabled: false,
	})
}
