package progression

import (
	"math"
	"math/rand"
	"sync"

	"github.com/phishguard/phishguard/pkg/defaults"
	"github.com/phishguard/phishguard/pkg/simulation"
)

// LevelPolicy decides when a user's training difficulty changes. Observe is
// called once per outcome event; Next is consulted after each event and
// returns the difficulty the user should train at.
type LevelPolicy interface {
	Observe(d simulation.Difficulty, ev Event)
	Next(stats UserStats) simulation.Difficulty
}

// StreakPolicy advances difficulty on consecutive detections and retreats
// on consecutive credential entries. It is stateless; the streak counters
// live on UserStats.
type StreakPolicy struct {
	Promote int
	Demote  int
}

// NewStreakPolicy returns the default streak thresholds.
func NewStreakPolicy() *StreakPolicy {
	return &StreakPolicy{
		Promote: defaults.PromoteStreak,
		Demote:  defaults.DemoteStreak,
	}
}

// Observe is a no-op; streaks are tracked on the stats themselves.
func (p *StreakPolicy) Observe(simulation.Difficulty, Event) {}

// Next promotes when the detection streak reaches the threshold and
// demotes when the failure streak does. Promotion saturates at expert,
// demotion at easy.
func (p *StreakPolicy) Next(stats UserStats) simulation.Difficulty {
	if stats.DetectStreak >= p.Promote {
		return stats.Difficulty.Next()
	}
	if stats.FailStreak >= p.Demote {
		return stats.Difficulty.Prev()
	}
	return stats.Difficulty
}

// BanditPolicy treats each difficulty level as a Beta-Binomial arm whose
// success is "the user detected the lure at this level". Next picks the
// hardest level whose sampled detection probability still clears one half,
// which keeps training at the user's frontier rather than marching
// lockstep through streaks.
type BanditPolicy struct {
	mu   sync.Mutex
	arms map[simulation.Difficulty]*betaArm
	rng  *rand.Rand
}

// NewBanditPolicy creates a BanditPolicy with uniform priors and a seeded
// random source.
func NewBanditPolicy(seed int64) *BanditPolicy {
	return &BanditPolicy{
		arms: make(map[simulation.Difficulty]*betaArm),
		rng:  rand.New(rand.NewSource(seed)),
	}
}

// Observe records a detection success or a credential-entry failure
// against the difficulty the event occurred at. Other kinds carry no
// outcome signal and are ignored.
func (p *BanditPolicy) Observe(d simulation.Difficulty, ev Event) {
	var success bool
	switch ev.Kind {
	case EventSimulationDetected, EventReportedPhishing:
		success = true
	case EventCredentialEntered, EventLinkClicked:
		success = false
	default:
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.arm(d).update(success)
}

// Next samples arms over the one-step neighborhood of the current level
// and returns the hardest whose sampled detection probability clears one
// half. Unobserved arms sample from the uniform prior, so promotion stays
// possible but movement is bounded to a single step per event.
func (p *BanditPolicy) Next(stats UserStats) simulation.Difficulty {
	p.mu.Lock()
	defer p.mu.Unlock()

	candidates := []simulation.Difficulty{
		stats.Difficulty.Next(),
		stats.Difficulty,
		stats.Difficulty.Prev(),
	}
	tried := make(map[simulation.Difficulty]bool, len(candidates))
	for _, level := range candidates {
		if tried[level] {
			continue
		}
		tried[level] = true
		if p.arm(level).sample(p.rng) >= 0.5 {
			return level
		}
	}
	return stats.Difficulty.Prev()
}

func (p *BanditPolicy) arm(d simulation.Difficulty) *betaArm {
	arm, ok := p.arms[d]
	if !ok {
		arm = &betaArm{alpha: 1, beta: 1}
		p.arms[d] = arm
	}
	return arm
}

// betaArm is a Beta-Binomial posterior over one difficulty level.
type betaArm struct {
	alpha float64
	beta  float64
	pulls int
}

func (a *betaArm) update(success bool) {
	if success {
		a.alpha++
	} else {
		a.beta++
	}
	a.pulls++
}

// sample draws from Beta(alpha, beta) via the gamma ratio, switching to a
// normal approximation once the posterior is concentrated.
func (a *betaArm) sample(rng *rand.Rand) float64 {
	if a.alpha+a.beta > 100 {
		mean := a.alpha / (a.alpha + a.beta)
		sum := a.alpha + a.beta
		variance := (a.alpha * a.beta) / (sum * sum * (sum + 1))
		s := mean + rng.NormFloat64()*math.Sqrt(variance)
		return math.Max(0, math.Min(1, s))
	}
	x := gammaSample(rng, a.alpha)
	y := gammaSample(rng, a.beta)
	if x+y == 0 {
		return 0.5
	}
	return x / (x + y)
}

// gammaSample draws from Gamma(alpha, 1) with the Marsaglia-Tsang method.
func gammaSample(rng *rand.Rand, alpha float64) float64 {
	if alpha < 1 {
		return gammaSample(rng, alpha+1) * math.Pow(rng.Float64(), 1.0/alpha)
	}
	d := alpha - 1.0/3.0
	c := 1.0 / math.Sqrt(9.0*d)
	for {
		var x, v float64
		for {
			x = rng.NormFloat64()
			v = 1.0 + c*x
			if v > 0 {
				break
			}
		}
		v = v * v * v
		u := rng.Float64()
		if u < 1.0-0.0331*(x*x)*(x*x) {
			return d * v
		}
		if math.Log(u) < 0.5*x*x+d*(1.0-v+math.Log(v)) {
			return d * v
		}
	}
}
