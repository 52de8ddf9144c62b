// Package duration provides canonical time constants for the entire codebase.
// This is the SINGLE SOURCE OF TRUTH for all time-based configuration.
//
// Usage:
//
//	if now.Sub(last) < duration.MinSimulationInterval { ... }
//	delay := duration.TriggerDelayMin
//
// DO NOT use hardcoded time.Duration values like `5 * time.Minute` anywhere.
// Instead, reference the appropriate constant from this package.
package duration

import "time"

// ============================================================================
// SIMULATION CADENCE
// ============================================================================
//
// Gates that keep training simulations spaced out enough to stay believable
// and avoid alert fatigue.
// ============================================================================

const (
	// MinSimulationInterval is the minimum spacing between simulations in a
	// session (5min)
	MinSimulationInterval = 5 * time.Minute

	// TriggerDelayMin is the smallest random delay before a planned
	// simulation may fire (5s)
	TriggerDelayMin = 5 * time.Second

	// TriggerDelayMax is the largest random delay before a planned
	// simulation may fire (30s)
	TriggerDelayMax = 30 * time.Second
)

// ============================================================================
// CONTEXT ANALYSIS
// ============================================================================

const (
	// BurstActivityGap is the spacing under which two consecutive
	// activities count as burst behavior (1s)
	BurstActivityGap = time.Second

	// ContextStaleAfter is the age past which a captured context is
	// considered stale for personalization (24h)
	ContextStaleAfter = 24 * time.Hour
)

// UnusualHourStart and UnusualHourEnd bound the local-time window outside
// which activity is flagged as unusual (06:00–23:00).
const (
	UnusualHourStart = 6
	UnusualHourEnd   = 23
)

// ============================================================================
// MODEL / TELEMETRY BOUNDS
// ============================================================================
//
// The detector and telemetry exporter must never stall the event loop; these
// bound any awaited call before falling back.
// ============================================================================

const (
	// ModelInference bounds a model-backed scoring call before the
	// heuristic fallback takes over (2s)
	ModelInference = 2 * time.Second

	// TelemetryShutdown bounds exporter shutdown (5s)
	TelemetryShutdown = 5 * time.Second

	// TelemetryConnect bounds exporter connection establishment (10s)
	TelemetryConnect = 10 * time.Second

	// MetricsReadTimeout is the metrics HTTP server read timeout (5s)
	MetricsReadTimeout = 5 * time.Second

	// MetricsWriteTimeout is the metrics HTTP server write timeout (10s)
	MetricsWriteTimeout = 10 * time.Second
)
