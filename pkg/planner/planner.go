// Package planner turns aggregated user context into concrete phishing
// simulations. It owns the per-session cadence state, the randomized
// training path, and the deterministic red-team path. All randomness flows
// through an injectable source so tests can pin outcomes.
package planner

import (
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/phishguard/phishguard/pkg/defaults"
	"github.com/phishguard/phishguard/pkg/duration"
	"github.com/phishguard/phishguard/pkg/lure"
	"github.com/phishguard/phishguard/pkg/simulation"
	"github.com/phishguard/phishguard/pkg/trigger"
	"github.com/phishguard/phishguard/pkg/usercontext"
)

// Planner plans simulations for one user session. Session cadence counters
// live on the instance, never in package state, so each user/session gets
// its own Planner.
type Planner struct {
	catalog    *lure.Catalog
	logger     *slog.Logger
	campaignID string

	mu           sync.Mutex
	rng          *rand.Rand
	limiter      *rate.Limiter
	sessionCount int
	sessionCap   int
	nowFn        func() time.Time
}

// Option configures a Planner.
type Option func(*Planner)

// WithRand injects the random source. Tests pass a seeded source to pin
// selection outcomes and trigger draws.
func WithRand(rng *rand.Rand) Option {
	return func(p *Planner) {
		if rng != nil {
			p.rng = rng
		}
	}
}

// WithSessionCap overrides the per-session simulation cap.
func WithSessionCap(cap int) Option {
	return func(p *Planner) {
		if cap > 0 {
			p.sessionCap = cap
		}
	}
}

// WithMinInterval overrides the minimum inter-simulation spacing.
func WithMinInterval(d time.Duration) Option {
	return func(p *Planner) {
		if d > 0 {
			p.limiter = rate.NewLimiter(rate.Every(d), 1)
		}
	}
}

// WithCampaign stamps planned simulations with a campaign identifier.
func WithCampaign(id string) Option {
	return func(p *Planner) { p.campaignID = id }
}

// WithLogger sets the planner's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Planner) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithClock injects the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(p *Planner) {
		if now != nil {
			p.nowFn = now
		}
	}
}

// New creates a Planner over the given template catalog.
func New(catalog *lure.Catalog, opts ...Option) *Planner {
	p := &Planner{
		catalog:    catalog,
		logger:     slog.Default(),
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		limiter:    rate.NewLimiter(rate.Every(duration.MinSimulationInterval), 1),
		sessionCap: defaults.SessionSimulationCap,
		nowFn:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	// A fresh session may trigger immediately; drain nothing.
	return p
}

// ShouldTrigger decides whether a new simulation may fire now. It returns
// false inside the minimum interval or at the session cap; otherwise it
// draws against a probability that grows with context richness. A true
// result consumes the cadence budget.
func (p *Planner) ShouldTrigger(site string, ctx usercontext.UserContext) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.nowFn()
	if p.sessionCount >= p.sessionCap {
		return false
	}
	if p.limiter.TokensAt(now) < 1 {
		return false
	}

	probability := defaults.TriggerBaseProbability + contextFactor(ctx)
	if probability > defaults.TriggerMaxProbability {
		probability = defaults.TriggerMaxProbability
	}
	if p.rng.Float64() >= probability {
		return false
	}

	p.limiter.AllowN(now, 1)
	p.sessionCount++
	p.logger.Debug("planner: trigger accepted",
		"site", site, "probability", probability, "session_count", p.sessionCount)
	return true
}

// contextFactor sums fixed increments for each populated context field
// group, capped so rich contexts cannot push probability past the ceiling.
func contextFactor(ctx usercontext.UserContext) float64 {
	factor := 0.0
	if strings.TrimSpace(ctx.Handle) != "" || strings.TrimSpace(ctx.FullName) != "" ||
		strings.TrimSpace(ctx.Email) != "" {
		factor += defaults.ContextFactorIncrement
	}
	if strings.TrimSpace(ctx.Organization) != "" {
		factor += defaults.ContextFactorIncrement
	}
	if len(ctx.Connections) > 0 {
		factor += defaults.ContextFactorIncrement
	}
	if len(ctx.Activities) > 0 {
		factor += defaults.ContextFactorIncrement
	}
	if factor > defaults.ContextFactorMax {
		factor = defaults.ContextFactorMax
	}
	return factor
}

// SessionCount returns the number of simulations planned this session.
func (p *Planner) SessionCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sessionCount
}

// ResetSession clears the session counter, for a new browsing session.
func (p *Planner) ResetSession() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sessionCount = 0
}

// Plan builds a personalized simulation for the site at the requested
// difficulty. Unknown sites receive the neutral fallback templates; the
// call never fails.
func (p *Planner) Plan(site string, ctx usercontext.UserContext, difficulty simulation.Difficulty) simulation.Simulation {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !difficulty.Valid() {
		difficulty = simulation.DifficultyEasy
	}

	attackType := p.selectAttackType(site, difficulty)
	tmpls, served := p.catalog.Find(site, attackType)
	tmpl := tmpls[p.rng.Intn(len(tmpls))]

	contact := ""
	if len(ctx.Connections) > 0 {
		contact = ctx.Connections[0].Name
	}
	persona := lure.NewPersona(site, ctx.Handle, ctx.FullName, ctx.Email, ctx.Organization, contact)
	rendered := lure.Render(tmpl, persona)

	delay := duration.TriggerDelayMin +
		time.Duration(p.rng.Int63n(int64(duration.TriggerDelayMax-duration.TriggerDelayMin)))

	now := p.nowFn()
	return simulation.Simulation{
		ID:         uuid.NewString(),
		AttackType: served,
		TargetSite: site,
		Content: simulation.Content{
			Title:           rendered.Title,
			Body:            rendered.Body,
			SenderName:      rendered.SenderName,
			SenderAddress:   rendered.SenderAddress,
			Urgency:         p.selectUrgency(tmpl.Urgencies, difficulty),
			CallToAction:    rendered.CallToAction,
			CallToActionURL: rendered.CallToActionURL,
			Placement:       tmpl.Placements[p.rng.Intn(len(tmpl.Placements))],
			Theme:           rendered.Theme,
		},
		Triggers: []trigger.Condition{trigger.Temporal(delay), trigger.Activation()},
		Metadata: simulation.Metadata{
			CreatedAt:         now,
			CampaignID:        p.campaignID,
			Difficulty:        difficulty,
			TrainingObjective: served.TrainingObjective(),
			RedTeam:           false,
		},
	}
}

// selectAttackType draws from the site's candidate vectors, with weights
// biased toward more sophisticated vectors as difficulty rises.
func (p *Planner) selectAttackType(site string, difficulty simulation.Difficulty) simulation.AttackType {
	candidates := usercontext.VectorsFor(site)
	if len(candidates) == 1 {
		return candidates[0]
	}

	bias := float64(difficulty.Rank())
	weights := make([]float64, len(candidates))
	total := 0.0
	for i, c := range candidates {
		weights[i] = 1 + bias*float64(c.Sophistication())/2
		total += weights[i]
	}

	draw := p.rng.Float64() * total
	for i, w := range weights {
		draw -= w
		if draw < 0 {
			return candidates[i]
		}
	}
	return candidates[len(candidates)-1]
}

// selectUrgency draws from the template's level set, favoring later (more
// pressing) levels as difficulty rises. Template urgency lists are ordered
// from least to most pressing.
func (p *Planner) selectUrgency(levels []simulation.Urgency, difficulty simulation.Difficulty) simulation.Urgency {
	if len(levels) == 0 {
		return simulation.UrgencyMedium
	}
	if len(levels) == 1 {
		return levels[0]
	}

	bias := float64(difficulty.Rank())
	total := 0.0
	weights := make([]float64, len(levels))
	for i := range levels {
		weights[i] = 1 + bias*float64(i)
		total += weights[i]
	}
	draw := p.rng.Float64() * total
	for i, w := range weights {
		draw -= w
		if draw < 0 {
			return levels[i]
		}
	}
	return levels[len(levels)-1]
}
