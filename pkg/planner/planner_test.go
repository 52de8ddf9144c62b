package planner

import (
	"log/slog"
	"math/rand"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phishguard/phishguard/pkg/defaults"
	"github.com/phishguard/phishguard/pkg/duration"
	"github.com/phishguard/phishguard/pkg/lure"
	"github.com/phishguard/phishguard/pkg/simulation"
	"github.com/phishguard/phishguard/pkg/trigger"
	"github.com/phishguard/phishguard/pkg/usercontext"
)

func testCatalog(t *testing.T) *lure.Catalog {
	t.Helper()
	cat, err := lure.Load(slog.New(slog.NewTextHandler(testWriter{t}, nil)))
	require.NoError(t, err)
	return cat
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

func richContext() usercontext.UserContext {
	return usercontext.UserContext{
		Site:         "github.com",
		Handle:       "octocat",
		FullName:     "Mona Lisa",
		Email:        "mona@example.com",
		Organization: "Example Corp",
		Activities: []usercontext.Activity{
			{Type: "commit", Text: "fix login flow", Timestamp: time.Now()},
		},
		Connections: []usercontext.Connection{
			{Name: "Alice Reviewer", Strength: 0.9},
		},
	}
}

func newTestPlanner(t *testing.T, seed int64, opts ...Option) *Planner {
	t.Helper()
	base := []Option{
		WithRand(rand.New(rand.NewSource(seed))),
		WithLogger(slog.New(slog.NewTextHandler(testWriter{t}, nil))),
	}
	return New(testCatalog(t), append(base, opts...)...)
}

func TestContextFactor(t *testing.T) {
	assert.Equal(t, 0.0, contextFactor(usercontext.UserContext{}))

	partial := usercontext.UserContext{Handle: "octocat"}
	assert.InDelta(t, defaults.ContextFactorIncrement, contextFactor(partial), 1e-9)

	assert.InDelta(t, defaults.ContextFactorMax, contextFactor(richContext()), 1e-9)
}

func TestShouldTriggerRespectsMinInterval(t *testing.T) {
	now := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	p := newTestPlanner(t, 42, WithClock(clock))

	// Exhaust draws until one fires; with p=0.6 and a seeded source this
	// terminates quickly.
	fired := false
	for i := 0; i < 100 && !fired; i++ {
		fired = p.ShouldTrigger("github.com", richContext())
	}
	require.True(t, fired)

	// Inside the minimum interval every call is false no matter how rich
	// the context or how lucky the draw.
	for i := 0; i < 200; i++ {
		now = now.Add(time.Second)
		assert.False(t, p.ShouldTrigger("github.com", richContext()))
	}

	// After the interval elapses firing becomes possible again.
	now = now.Add(duration.MinSimulationInterval)
	fired = false
	for i := 0; i < 100 && !fired; i++ {
		fired = p.ShouldTrigger("github.com", richContext())
	}
	assert.True(t, fired)
}

func TestShouldTriggerSessionCap(t *testing.T) {
	now := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	p := newTestPlanner(t, 7, WithClock(clock), WithMinInterval(time.Millisecond))

	fires := 0
	for i := 0; i < 10_000; i++ {
		now = now.Add(time.Second)
		if p.ShouldTrigger("github.com", richContext()) {
			fires++
		}
	}
	assert.Equal(t, defaults.SessionSimulationCap, fires)
	assert.Equal(t, defaults.SessionSimulationCap, p.SessionCount())

	p.ResetSession()
	assert.Equal(t, 0, p.SessionCount())
}

func TestShouldTriggerProbabilityBounds(t *testing.T) {
	// Empty context: p = base. Rich context: p = max. Frequencies over many
	// draws with a fast limiter should straddle the two probabilities.
	countFires := func(seed int64, ctx usercontext.UserContext) int {
		now := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
		p := newTestPlanner(t, seed,
			WithClock(func() time.Time { return now }),
			WithMinInterval(time.Nanosecond),
			WithSessionCap(1_000_000))
		fires := 0
		for i := 0; i < 5000; i++ {
			now = now.Add(time.Second)
			if p.ShouldTrigger("github.com", ctx) {
				fires++
			}
		}
		return fires
	}

	sparse := countFires(1, usercontext.UserContext{})
	rich := countFires(1, richContext())
	assert.InDelta(t, defaults.TriggerBaseProbability, float64(sparse)/5000, 0.05)
	assert.InDelta(t, defaults.TriggerMaxProbability, float64(rich)/5000, 0.05)
}

func TestPlanProducesCompleteSimulation(t *testing.T) {
	p := newTestPlanner(t, 99, WithCampaign("q3-awareness"))
	sim := p.Plan("github.com", richContext(), simulation.DifficultyMedium)

	assert.NotEmpty(t, sim.ID)
	assert.Equal(t, "github.com", sim.TargetSite)
	assert.True(t, sim.AttackType.Valid())
	assert.NotEmpty(t, sim.Content.Title)
	assert.NotEmpty(t, sim.Content.Body)
	assert.NotEmpty(t, sim.Content.SenderName)
	assert.True(t, sim.Content.Urgency.Valid())
	assert.True(t, sim.Content.Placement.Valid())
	assert.Equal(t, "q3-awareness", sim.Metadata.CampaignID)
	assert.Equal(t, simulation.DifficultyMedium, sim.Metadata.Difficulty)
	assert.NotEmpty(t, sim.Metadata.TrainingObjective)
	assert.False(t, sim.Metadata.RedTeam)

	require.Len(t, sim.Triggers, 2)
	assert.Equal(t, trigger.KindTimeElapsed, sim.Triggers[0].Kind)
	assert.Equal(t, trigger.KindPageVisible, sim.Triggers[1].Kind)

	delayMs, err := strconv.ParseInt(sim.Triggers[0].Value, 10, 64)
	require.NoError(t, err)
	delay := time.Duration(delayMs) * time.Millisecond
	assert.GreaterOrEqual(t, delay, duration.TriggerDelayMin)
	assert.LessOrEqual(t, delay, duration.TriggerDelayMax)
}

func TestPlanUnknownSiteFallsBack(t *testing.T) {
	p := newTestPlanner(t, 3)
	sim := p.Plan("intranet.example.internal", usercontext.UserContext{}, simulation.DifficultyEasy)

	assert.Equal(t, simulation.AttackCredentialHarvest, sim.AttackType)
	assert.NotEmpty(t, sim.Content.Body)
}

func TestPlanDifficultyBiasesSophistication(t *testing.T) {
	// Over many plans, expert difficulty should select the most
	// sophisticated vectors more often than easy difficulty does.
	avgSophistication := func(d simulation.Difficulty) float64 {
		p := newTestPlanner(t, 11)
		total := 0
		const n = 2000
		for i := 0; i < n; i++ {
			sim := p.Plan("github.com", richContext(), d)
			total += sim.AttackType.Sophistication()
		}
		return float64(total) / n
	}

	easy := avgSophistication(simulation.DifficultyEasy)
	expert := avgSophistication(simulation.DifficultyExpert)
	assert.Greater(t, expert, easy)
}

func TestPlanInvalidDifficultyDefaultsToEasy(t *testing.T) {
	p := newTestPlanner(t, 5)
	sim := p.Plan("github.com", richContext(), simulation.Difficulty("nightmare"))
	assert.Equal(t, simulation.DifficultyEasy, sim.Metadata.Difficulty)
}

func TestPlanRedTeamDeterministic(t *testing.T) {
	req := RedTeamRequest{
		Target:  "alice",
		Vector:  "Business Email Compromise",
		Payload: "Pay this invoice before 5pm or the vendor escalates.",
		Site:    "mail.google.com",
		Triggers: []trigger.Condition{
			trigger.Temporal(10 * time.Second),
		},
	}

	// Two planners with different seeds: red-team planning must not touch
	// the random source, so output is identical modulo ID and timestamp.
	a := newTestPlanner(t, 1).PlanRedTeam(req)
	b := newTestPlanner(t, 2).PlanRedTeam(req)

	assert.NotEqual(t, a.ID, b.ID)
	a.ID, b.ID = "", ""
	a.Metadata.CreatedAt, b.Metadata.CreatedAt = time.Time{}, time.Time{}
	assert.Equal(t, a, b)
}

func TestPlanRedTeamPayloadVerbatim(t *testing.T) {
	p := newTestPlanner(t, 1)
	sim := p.PlanRedTeam(RedTeamRequest{
		Target:  "alice",
		Vector:  "Business Email Compromise",
		Payload: "Pay this invoice",
	})

	assert.Equal(t, "Pay this invoice", sim.Content.Body)
	assert.Contains(t, sim.Content.Title, "alice")
	assert.Contains(t, sim.Content.Title, "Business Email Compromise")
	assert.True(t, sim.Metadata.RedTeam)
	assert.Equal(t, simulation.DifficultyExpert, sim.Metadata.Difficulty)
	assert.Empty(t, sim.Triggers)
}

func TestPlanRedTeamVectorMapping(t *testing.T) {
	p := newTestPlanner(t, 1)

	known := p.PlanRedTeam(RedTeamRequest{Target: "bob", Vector: "oauth_consent", Payload: "x"})
	assert.Equal(t, simulation.AttackOAuthConsent, known.AttackType)

	free := p.PlanRedTeam(RedTeamRequest{Target: "bob", Vector: "Watering Hole", Payload: "x"})
	assert.Equal(t, simulation.AttackCredentialHarvest, free.AttackType)
}
