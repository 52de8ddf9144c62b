package progression

import (
	"log/slog"
	"sync"
	"time"

	"github.com/phishguard/phishguard/pkg/defaults"
	"github.com/phishguard/phishguard/pkg/simulation"
)

// UserStats is a user's cumulative training record. Counters are
// monotonic; only the risk score and difficulty move in both directions.
type UserStats struct {
	UserID string `json:"user_id"`

	// RiskScore is the behavioral risk estimate in [0, 100]; higher means
	// riskier. New users start at the neutral baseline.
	RiskScore int `json:"risk_score"`

	Difficulty simulation.Difficulty `json:"difficulty"`

	SimulationsShown     int `json:"simulations_shown"`
	LinksClicked         int `json:"links_clicked"`
	CredentialsEntered   int `json:"credentials_entered"`
	SimulationsDetected  int `json:"simulations_detected"`
	PhishingReported     int `json:"phishing_reported"`
	SimulationsDismissed int `json:"simulations_dismissed"`

	// AvgDetectionMs is the running mean time-to-detection over detection
	// events that carried an elapsed time.
	AvgDetectionMs float64 `json:"avg_detection_ms"`
	detectionTimed int

	// DetectStreak counts consecutive positive outcomes; FailStreak counts
	// consecutive credential entries. Each resets the other.
	DetectStreak int `json:"detect_streak"`
	FailStreak   int `json:"fail_streak"`

	UpdatedAt time.Time `json:"updated_at"`
}

// Tracker records outcome events and maintains per-user stats. Safe for
// concurrent use. The tracker applies every event it is handed; callers
// ingesting from an at-least-once sync feed screen replays with a Deduper
// before recording.
type Tracker struct {
	mu     sync.Mutex
	users  map[string]*UserStats
	policy LevelPolicy
	logger *slog.Logger
	nowFn  func() time.Time
}

// TrackerOption configures a Tracker.
type TrackerOption func(*Tracker)

// WithPolicy sets the difficulty advancement policy.
func WithPolicy(p LevelPolicy) TrackerOption {
	return func(t *Tracker) {
		if p != nil {
			t.policy = p
		}
	}
}

// WithTrackerLogger sets the tracker's logger.
func WithTrackerLogger(logger *slog.Logger) TrackerOption {
	return func(t *Tracker) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithTrackerClock injects the time source, for tests.
func WithTrackerClock(now func() time.Time) TrackerOption {
	return func(t *Tracker) {
		if now != nil {
			t.nowFn = now
		}
	}
}

// NewTracker creates a Tracker with the streak policy.
func NewTracker(opts ...TrackerOption) *Tracker {
	t := &Tracker{
		users:  make(map[string]*UserStats),
		policy: NewStreakPolicy(),
		logger: slog.Default(),
		nowFn:  time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Record applies one outcome event to the user's stats and returns the
// updated snapshot. Unknown event kinds leave the stats unchanged. A
// user's first event materializes the neutral baseline before the event
// applies.
func (t *Tracker) Record(userID string, ev Event) UserStats {
	t.mu.Lock()
	defer t.mu.Unlock()

	stats := t.get(userID)
	if !ev.Kind.Valid() {
		t.logger.Warn("progression: unknown event kind", "user", userID, "kind", ev.Kind)
		return *stats
	}

	switch ev.Kind {
	case EventSimulationShown:
		stats.SimulationsShown++
	case EventLinkClicked:
		stats.LinksClicked++
		stats.DetectStreak = 0
	case EventCredentialEntered:
		stats.CredentialsEntered++
		stats.FailStreak++
		stats.DetectStreak = 0
	case EventSimulationDetected:
		stats.SimulationsDetected++
		stats.DetectStreak++
		stats.FailStreak = 0
		// The mean runs over timed detections only, so events without an
		// elapsed time never drag the average toward zero.
		if ev.ElapsedMs > 0 {
			stats.detectionTimed++
			n := float64(stats.detectionTimed)
			stats.AvgDetectionMs += (float64(ev.ElapsedMs) - stats.AvgDetectionMs) / n
		}
	case EventReportedPhishing:
		stats.PhishingReported++
		stats.DetectStreak++
		stats.FailStreak = 0
	case EventSimulationDismissed:
		stats.SimulationsDismissed++
	}

	stats.RiskScore = clampScore(stats.RiskScore + riskDeltas[ev.Kind])

	t.policy.Observe(stats.Difficulty, ev)
	if next := t.policy.Next(*stats); next != stats.Difficulty && next.Valid() {
		t.logger.Info("progression: difficulty change",
			"user", userID, "from", stats.Difficulty, "to", next)
		stats.Difficulty = next
		stats.DetectStreak = 0
		stats.FailStreak = 0
	}

	stats.UpdatedAt = t.nowFn()
	return *stats
}

// Stats returns the user's snapshot and whether the user is known.
func (t *Tracker) Stats(userID string) (UserStats, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	stats, ok := t.users[userID]
	if !ok {
		return UserStats{}, false
	}
	return *stats, true
}

// Baseline materializes and returns the user's record, creating the
// neutral baseline if this is the first sighting.
func (t *Tracker) Baseline(userID string) UserStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return *t.get(userID)
}

// Users returns the identifiers of every tracked user.
func (t *Tracker) Users() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, 0, len(t.users))
	for id := range t.users {
		out = append(out, id)
	}
	return out
}

func (t *Tracker) get(userID string) *UserStats {
	stats, ok := t.users[userID]
	if !ok {
		stats = &UserStats{
			UserID:     userID,
			RiskScore:  defaults.RiskScoreBaseline,
			Difficulty: simulation.DifficultyEasy,
			UpdatedAt:  t.nowFn(),
		}
		t.users[userID] = stats
	}
	return stats
}

func clampScore(score int) int {
	if score < defaults.RiskScoreMin {
		return defaults.RiskScoreMin
	}
	if score > defaults.RiskScoreMax {
		return defaults.RiskScoreMax
	}
	return score
}
