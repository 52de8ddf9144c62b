package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phishguard/phishguard/pkg/simulation"
)

func newTestCollector(t *testing.T) *Collector {
	t.Helper()
	c, err := NewCollector(Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestSimulationPlanned(t *testing.T) {
	c := newTestCollector(t)

	c.SimulationPlanned(simulation.Simulation{
		AttackType: simulation.AttackOAuthConsent,
		Metadata:   simulation.Metadata{Difficulty: simulation.DifficultyHard},
	})
	c.SimulationPlanned(simulation.Simulation{
		AttackType: simulation.AttackCredentialHarvest,
		Metadata:   simulation.Metadata{Difficulty: simulation.DifficultyEasy, RedTeam: true},
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(
		c.simulationsPlanned.WithLabelValues("oauth_consent", "hard")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.simulationsRedTeam))
}

func TestOutcomeRecorded(t *testing.T) {
	c := newTestCollector(t)

	c.OutcomeRecorded("alice", "credential_entered", 100)
	c.OutcomeRecorded("alice", "simulation_detected", 80)

	assert.Equal(t, 1.0, testutil.ToFloat64(
		c.outcomeEvents.WithLabelValues("credential_entered")))
	assert.Equal(t, 80.0, testutil.ToFloat64(
		c.riskScore.WithLabelValues("alice")))
}

func TestVerdictRecorded(t *testing.T) {
	c := newTestCollector(t)

	c.VerdictRecorded(true, "heuristic", 0.9)
	c.VerdictRecorded(false, "heuristic", 0.1)

	assert.Equal(t, 1.0, testutil.ToFloat64(
		c.detectionVerdicts.WithLabelValues("credential_entry", "heuristic")))
	assert.Equal(t, 1.0, testutil.ToFloat64(
		c.detectionVerdicts.WithLabelValues("clean", "heuristic")))
}

func TestContextAggregated(t *testing.T) {
	c := newTestCollector(t)

	c.ContextAggregated("high")
	c.ContextAggregated("high")

	assert.Equal(t, 2.0, testutil.ToFloat64(
		c.contextAggregations.WithLabelValues("high")))
}

func TestDetectionTimeIgnoresZero(t *testing.T) {
	c := newTestCollector(t)

	c.DetectionTime(0)
	c.DetectionTime(15 * time.Second)

	mfs, err := c.Registry().Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		if mf.GetName() != "phishguard_detection_seconds" {
			continue
		}
		require.Len(t, mf.GetMetric(), 1)
		assert.Equal(t, uint64(1), mf.GetMetric()[0].GetHistogram().GetSampleCount())
		return
	}
	t.Fatal("detection histogram not gathered")
}

func TestCloseIdempotent(t *testing.T) {
	c, err := NewCollector(Options{})
	require.NoError(t, err)
	assert.NoError(t, c.Close())
	assert.NoError(t, c.Close())
}
