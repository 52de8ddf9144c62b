// Package progression tracks per-user training outcomes: risk scores,
// interaction counters, detection-speed averages, and difficulty
// advancement. All state is in memory and keyed by user identifier.
package progression

import (
	"time"

	"github.com/phishguard/phishguard/pkg/defaults"
)

// EventKind identifies a user interaction with a shown simulation.
type EventKind string

const (
	// EventSimulationShown records that a simulation surfaced to the user.
	EventSimulationShown EventKind = "simulation_shown"

	// EventLinkClicked records that the user followed the lure's link.
	EventLinkClicked EventKind = "link_clicked"

	// EventCredentialEntered records that the user typed into the lure's
	// form. Only the fact is recorded; no text ever reaches this package.
	EventCredentialEntered EventKind = "credential_entered"

	// EventSimulationDetected records that the user flagged the lure as a
	// simulation via the training UI.
	EventSimulationDetected EventKind = "simulation_detected"

	// EventReportedPhishing records that the user escalated the lure
	// through the report-phishing flow, the strongest positive outcome.
	EventReportedPhishing EventKind = "reported_phishing"

	// EventSimulationDismissed records that the user closed the lure
	// without engaging, a neutral outcome.
	EventSimulationDismissed EventKind = "simulation_dismissed"
)

// Valid reports whether k is one of the defined event kinds.
func (k EventKind) Valid() bool {
	switch k {
	case EventSimulationShown, EventLinkClicked, EventCredentialEntered,
		EventSimulationDetected, EventReportedPhishing, EventSimulationDismissed:
		return true
	}
	return false
}

// riskDeltas maps event kinds to their signed risk-score adjustment.
// Kinds absent from the map leave the score untouched.
var riskDeltas = map[EventKind]int{
	EventCredentialEntered:  defaults.DeltaCredentialEntered,
	EventLinkClicked:        defaults.DeltaLinkClicked,
	EventSimulationDetected: defaults.DeltaSimulationDetected,
	EventReportedPhishing:   defaults.DeltaReportedPhishing,
}

// Event is a single interaction outcome reported against a simulation.
type Event struct {
	// ID identifies the event for replay suppression across the sync
	// boundary. Events with an empty ID are never deduplicated.
	ID string `json:"id,omitempty"`

	// SimulationID names the simulation the event belongs to.
	SimulationID string `json:"simulation_id"`

	Kind EventKind `json:"kind"`

	// ElapsedMs is the time from simulation display to this event.
	// Meaningful for detection events; zero when unknown.
	ElapsedMs int64 `json:"elapsed_ms,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}
