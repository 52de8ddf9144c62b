// Package usercontext aggregates per-site user-context snapshots into a
// single analysis that drives simulation planning. The scraping collaborator
// owns the snapshots; this package only reads them and never errors on
// missing or empty input.
package usercontext

import (
	"time"

	"github.com/phishguard/phishguard/pkg/simulation"
)

// Activity is a single recent user action observed on a site.
type Activity struct {
	Type      string    `json:"type"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Connection is a contact in the user's graph on a site.
type Connection struct {
	Name     string  `json:"name"`
	Strength float64 `json:"strength"`
}

// UserContext is one site's captured snapshot of the user. All identity
// fields are optional; the aggregator treats absence as a weaker
// personalization signal, never as an error.
type UserContext struct {
	Site         string       `json:"site"`
	Handle       string       `json:"handle,omitempty"`
	FullName     string       `json:"full_name,omitempty"`
	Email        string       `json:"email,omitempty"`
	Organization string       `json:"organization,omitempty"`
	Activities   []Activity   `json:"activities,omitempty"`
	Connections  []Connection `json:"connections,omitempty"`
	CapturedAt   time.Time    `json:"captured_at"`
}

// RiskProfile is the coarse exposure classification of a user's aggregate
// context.
type RiskProfile string

const (
	RiskLow    RiskProfile = "low"
	RiskMedium RiskProfile = "medium"
	RiskHigh   RiskProfile = "high"
)

// Analysis is the derived view over all present contexts. Recomputed on
// every aggregation call; nothing here is persisted by this core.
type Analysis struct {
	RiskProfile          RiskProfile             `json:"risk_profile"`
	RiskScore            int                     `json:"risk_score"`
	PrimarySite          string                  `json:"primary_site"`
	KeyContacts          []string                `json:"key_contacts"`
	Topics               []string                `json:"topics"`
	SuggestedVectors     []simulation.AttackType `json:"suggested_vectors"`
	PersonalizationScore int                     `json:"personalization_score"`
}

// TimingPattern is the modal activity time derived from all activity
// timestamps.
type TimingPattern struct {
	PeakHour    int          `json:"peak_hour"`
	PeakWeekday time.Weekday `json:"peak_weekday"`
}

// Anomaly flags suspicious structure inside a single context snapshot.
type Anomaly string

const (
	// AnomalyBurstActivity means two chronologically adjacent activities
	// were captured under a second apart.
	AnomalyBurstActivity Anomaly = "burst_activity"

	// AnomalyUnusualHours means the most recent activity fell outside
	// normal waking hours.
	AnomalyUnusualHours Anomaly = "unusual_hours"
)
