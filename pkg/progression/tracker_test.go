package progression

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phishguard/phishguard/pkg/defaults"
	"github.com/phishguard/phishguard/pkg/simulation"
)

func TestBaselineOnFirstUse(t *testing.T) {
	tr := NewTracker()
	stats := tr.Baseline("alice")

	assert.Equal(t, "alice", stats.UserID)
	assert.Equal(t, defaults.RiskScoreBaseline, stats.RiskScore)
	assert.Equal(t, simulation.DifficultyEasy, stats.Difficulty)
	assert.Zero(t, stats.SimulationsShown)

	_, known := tr.Stats("bob")
	assert.False(t, known)
}

func TestRecordDeltas(t *testing.T) {
	cases := []struct {
		kind EventKind
		want int
	}{
		{EventSimulationShown, 50},
		{EventSimulationDismissed, 50},
		{EventLinkClicked, 75},
		{EventCredentialEntered, 100},
		{EventSimulationDetected, 30},
		{EventReportedPhishing, 20},
	}
	for _, tc := range cases {
		t.Run(string(tc.kind), func(t *testing.T) {
			tr := NewTracker()
			stats := tr.Record("alice", Event{Kind: tc.kind})
			assert.Equal(t, tc.want, stats.RiskScore)
		})
	}
}

func TestRecordClampsScore(t *testing.T) {
	tr := NewTracker()
	for i := 0; i < 5; i++ {
		tr.Record("alice", Event{Kind: EventCredentialEntered})
	}
	stats, _ := tr.Stats("alice")
	assert.Equal(t, defaults.RiskScoreMax, stats.RiskScore)
	assert.Equal(t, 5, stats.CredentialsEntered)

	tr2 := NewTracker()
	for i := 0; i < 10; i++ {
		tr2.Record("bob", Event{Kind: EventReportedPhishing})
	}
	stats, _ = tr2.Stats("bob")
	assert.Equal(t, defaults.RiskScoreMin, stats.RiskScore)
}

func TestRecordScoreStaysInRange(t *testing.T) {
	// Randomized event streams must never push the score outside its
	// range, whatever the order or mix of outcomes.
	kinds := []EventKind{
		EventSimulationShown, EventLinkClicked, EventCredentialEntered,
		EventSimulationDetected, EventReportedPhishing, EventSimulationDismissed,
	}
	rng := rand.New(rand.NewSource(1))
	tr := NewTracker()
	for i := 0; i < 5000; i++ {
		stats := tr.Record("alice", Event{
			Kind:      kinds[rng.Intn(len(kinds))],
			ElapsedMs: rng.Int63n(60_000),
		})
		require.GreaterOrEqual(t, stats.RiskScore, defaults.RiskScoreMin)
		require.LessOrEqual(t, stats.RiskScore, defaults.RiskScoreMax)
		require.True(t, stats.Difficulty.Valid())
	}
}

func TestDetectionTimeRunningMean(t *testing.T) {
	tr := NewTracker()
	tr.Record("alice", Event{Kind: EventSimulationDetected, ElapsedMs: 10_000})
	stats := tr.Record("alice", Event{Kind: EventSimulationDetected, ElapsedMs: 20_000})
	assert.InDelta(t, 15_000, stats.AvgDetectionMs, 1e-9)

	// Detections without a measured elapsed time don't disturb the mean.
	stats = tr.Record("alice", Event{Kind: EventSimulationDetected})
	assert.InDelta(t, 15_000, stats.AvgDetectionMs, 1e-9)
	assert.Equal(t, 3, stats.SimulationsDetected)
}

func TestRecordAppliesEveryEvent(t *testing.T) {
	// Replay screening belongs to the ingest boundary; the tracker itself
	// counts every event it is handed, repeated IDs included.
	tr := NewTracker()
	ev := Event{ID: "ev-1", Kind: EventCredentialEntered}

	tr.Record("alice", ev)
	stats := tr.Record("alice", ev)
	assert.Equal(t, 2, stats.CredentialsEntered)
}

func TestUnknownKindIgnored(t *testing.T) {
	tr := NewTracker()
	tr.Record("alice", Event{Kind: EventKind("telemetry_ping")})
	stats, known := tr.Stats("alice")
	require.True(t, known)
	assert.Equal(t, defaults.RiskScoreBaseline, stats.RiskScore)
	assert.Zero(t, stats.SimulationsShown)
}

func TestStreakPromotionAndDemotion(t *testing.T) {
	now := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	tr := NewTracker(WithTrackerClock(func() time.Time { return now }))

	for i := 0; i < defaults.PromoteStreak; i++ {
		tr.Record("alice", Event{Kind: EventSimulationDetected})
	}
	stats, _ := tr.Stats("alice")
	assert.Equal(t, simulation.DifficultyMedium, stats.Difficulty)
	assert.Zero(t, stats.DetectStreak)

	for i := 0; i < defaults.DemoteStreak; i++ {
		tr.Record("alice", Event{Kind: EventCredentialEntered})
	}
	stats, _ = tr.Stats("alice")
	assert.Equal(t, simulation.DifficultyEasy, stats.Difficulty)
	assert.Zero(t, stats.FailStreak)
}

func TestStreakResetOnOppositeOutcome(t *testing.T) {
	tr := NewTracker()
	tr.Record("alice", Event{Kind: EventSimulationDetected})
	tr.Record("alice", Event{Kind: EventSimulationDetected})
	tr.Record("alice", Event{Kind: EventLinkClicked})
	tr.Record("alice", Event{Kind: EventSimulationDetected})

	stats, _ := tr.Stats("alice")
	assert.Equal(t, simulation.DifficultyEasy, stats.Difficulty)
	assert.Equal(t, 1, stats.DetectStreak)
}

func TestDemotionSaturatesAtEasy(t *testing.T) {
	tr := NewTracker()
	for i := 0; i < 10; i++ {
		tr.Record("alice", Event{Kind: EventCredentialEntered})
	}
	stats, _ := tr.Stats("alice")
	assert.Equal(t, simulation.DifficultyEasy, stats.Difficulty)
}

func TestPromotionSaturatesAtExpert(t *testing.T) {
	tr := NewTracker()
	for i := 0; i < 4*defaults.PromoteStreak; i++ {
		tr.Record("alice", Event{Kind: EventReportedPhishing})
	}
	stats, _ := tr.Stats("alice")
	assert.Equal(t, simulation.DifficultyExpert, stats.Difficulty)
}

func TestUsersIsolated(t *testing.T) {
	tr := NewTracker()
	tr.Record("alice", Event{Kind: EventCredentialEntered})
	tr.Record("bob", Event{Kind: EventReportedPhishing})

	alice, _ := tr.Stats("alice")
	bob, _ := tr.Stats("bob")
	assert.Equal(t, 100, alice.RiskScore)
	assert.Equal(t, 20, bob.RiskScore)
	assert.ElementsMatch(t, []string{"alice", "bob"}, tr.Users())
}

func TestDeduperRingEviction(t *testing.T) {
	d := NewDeduper(4)
	for i := 0; i < 4; i++ {
		assert.False(t, d.Seen("alice", fmt.Sprintf("ev-%d", i)))
	}
	assert.True(t, d.Seen("alice", "ev-0"))

	// A fifth digest evicts the oldest slot; the evicted event would be
	// re-admitted on replay.
	assert.False(t, d.Seen("alice", "ev-4"))
	assert.Equal(t, 4, d.Len())
	assert.True(t, d.Seen("alice", "ev-3"))
	assert.False(t, d.Seen("alice", "ev-0"))
}
