// Package engine composes the context aggregator, risk detector,
// simulation planner, and progression tracker behind one facade. It is the
// integration surface embedding applications talk to; the component
// packages stay usable on their own.
package engine

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/phishguard/phishguard/pkg/defaults"
	"github.com/phishguard/phishguard/pkg/detection"
	"github.com/phishguard/phishguard/pkg/lure"
	"github.com/phishguard/phishguard/pkg/metrics"
	"github.com/phishguard/phishguard/pkg/planner"
	"github.com/phishguard/phishguard/pkg/progression"
	"github.com/phishguard/phishguard/pkg/simulation"
	"github.com/phishguard/phishguard/pkg/telemetry"
	"github.com/phishguard/phishguard/pkg/trigger"
	"github.com/phishguard/phishguard/pkg/usercontext"
)

// Engine is the composed simulation and risk-detection core. Safe for
// concurrent use; per-user planner state is guarded by the engine mutex.
type Engine struct {
	cfg      Config
	logger   *slog.Logger
	catalog  *lure.Catalog
	detector *detection.Detector
	tracker  *progression.Tracker
	dedupe   *progression.Deduper
	eval     *trigger.Evaluator

	collector *metrics.Collector
	exporter  *telemetry.Exporter

	mu       sync.Mutex
	planners map[string]*planner.Planner
	seeds    *rand.Rand
}

// Option configures the Engine beyond its Config.
type Option func(*Engine)

// WithLogger sets the engine logger, shared with components that take one.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithModelScorer installs an ML scorer in front of the detector's
// heuristic fallback.
func WithModelScorer(model detection.Scorer) Option {
	return func(e *Engine) {
		e.detector = detection.New(
			detection.WithModel(model),
			detection.WithThreshold(e.cfg.DetectionThreshold),
			detection.WithLogger(e.logger),
		)
	}
}

// WithCollector installs a metrics collector built elsewhere.
func WithCollector(c *metrics.Collector) Option {
	return func(e *Engine) { e.collector = c }
}

// WithExporter installs a telemetry exporter built elsewhere.
func WithExporter(x *telemetry.Exporter) Option {
	return func(e *Engine) { e.exporter = x }
}

// New builds an Engine from the config. The embedded template catalog
// always loads; metrics and telemetry start only when configured.
func New(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:      cfg,
		logger:   slog.Default(),
		planners: make(map[string]*planner.Planner),
	}
	for _, opt := range opts {
		opt(e)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	e.seeds = rand.New(rand.NewSource(seed))

	catalog, err := lure.Load(e.logger)
	if err != nil {
		return nil, err
	}
	e.catalog = catalog

	if e.detector == nil {
		e.detector = detection.New(
			detection.WithThreshold(cfg.DetectionThreshold),
			detection.WithLogger(e.logger),
		)
	}

	var policy progression.LevelPolicy
	if cfg.LevelPolicy == "bandit" {
		policy = progression.NewBanditPolicy(seed)
	} else {
		policy = progression.NewStreakPolicy()
	}
	e.tracker = progression.NewTracker(
		progression.WithPolicy(policy),
		progression.WithTrackerLogger(e.logger),
	)
	e.dedupe = progression.NewDeduper(defaults.DedupeRingSize)

	e.eval = trigger.NewEvaluator(e.logger)

	if e.collector == nil && cfg.MetricsPort > 0 {
		e.collector, err = metrics.NewCollector(metrics.Options{
			Port:   cfg.MetricsPort,
			Logger: e.logger,
		})
		if err != nil {
			return nil, err
		}
	}

	if e.exporter == nil && cfg.OTLPEndpoint != "" {
		e.exporter, err = telemetry.New(telemetry.Options{
			Endpoint: cfg.OTLPEndpoint,
			Insecure: cfg.OTLPInsecure,
		})
		if err != nil {
			// Telemetry is best-effort; the engine runs without it.
			e.logger.Warn("engine: telemetry disabled", "error", err)
			e.exporter = nil
		}
	}

	return e, nil
}

// Analyze aggregates captured per-site contexts into a context analysis.
func (e *Engine) Analyze(contexts map[string]usercontext.UserContext) usercontext.Analysis {
	analysis := usercontext.Aggregate(contexts)
	if e.collector != nil {
		e.collector.ContextAggregated(string(analysis.RiskProfile))
	}
	e.logger.Debug("engine: context aggregated",
		"sites", len(contexts),
		"risk_profile", analysis.RiskProfile,
		"primary_site", analysis.PrimarySite)
	return analysis
}

// Detect runs the risk detector over observed page structure and behavior.
func (e *Engine) Detect(ctx context.Context, in detection.Input) detection.Assessment {
	assessment := e.detector.Analyze(ctx, in)
	if e.collector != nil {
		e.collector.VerdictRecorded(assessment.CredentialEntry, assessment.ScoredBy, assessment.Confidence)
	}
	if e.exporter != nil {
		e.exporter.VerdictRecorded(assessment)
	}
	return assessment
}

// MaybePlan consults the user's cadence and, when a trigger fires, plans a
// simulation at the user's current difficulty. The returned bool reports
// whether a simulation was planned.
func (e *Engine) MaybePlan(userID, site string, uctx usercontext.UserContext) (simulation.Simulation, bool) {
	p := e.plannerFor(userID)
	if !p.ShouldTrigger(site, uctx) {
		return simulation.Simulation{}, false
	}

	difficulty := e.tracker.Baseline(userID).Difficulty
	sim := p.Plan(site, uctx, difficulty)
	e.observePlan(userID, sim)
	return sim, true
}

// Plan builds a simulation immediately, bypassing cadence. Operator and
// test surfaces use it; the training loop goes through MaybePlan.
func (e *Engine) Plan(userID, site string, uctx usercontext.UserContext) simulation.Simulation {
	difficulty := e.tracker.Baseline(userID).Difficulty
	sim := e.plannerFor(userID).Plan(site, uctx, difficulty)
	e.observePlan(userID, sim)
	return sim
}

// PlanRedTeam builds an operator-authored simulation verbatim.
func (e *Engine) PlanRedTeam(req planner.RedTeamRequest) simulation.Simulation {
	sim := e.plannerFor(req.Target).PlanRedTeam(req)
	e.observePlan(req.Target, sim)
	return sim
}

// Record applies an outcome event to the user's progression record.
// Replayed event IDs leave the record unchanged.
func (e *Engine) Record(userID string, ev progression.Event) progression.UserStats {
	// Outcome events arrive over an at-least-once sync feed; replayed
	// event IDs are screened here so the tracker sees each event once.
	if ev.ID != "" && e.dedupe.Seen(userID, ev.ID) {
		e.logger.Debug("replayed outcome event suppressed", "user", userID, "event", ev.ID)
		return e.tracker.Baseline(userID)
	}
	stats := e.tracker.Record(userID, ev)
	if e.collector != nil {
		e.collector.OutcomeRecorded(userID, string(ev.Kind), stats.RiskScore)
		if ev.Kind == progression.EventSimulationDetected {
			e.collector.DetectionTime(time.Duration(ev.ElapsedMs) * time.Millisecond)
		}
	}
	if e.exporter != nil {
		e.exporter.OutcomeRecorded(userID, string(ev.Kind), stats.RiskScore, stats.Difficulty)
	}
	return stats
}

// Stats returns the user's progression snapshot.
func (e *Engine) Stats(userID string) (progression.UserStats, bool) {
	return e.tracker.Stats(userID)
}

// Ready reports whether a pending simulation's trigger conditions are
// satisfied by the current behavior snapshot.
func (e *Engine) Ready(p *trigger.Pending, snap trigger.Snapshot, now time.Time) bool {
	return p.Ready(e.eval, snap, now)
}

/// StartSession opens a fresh session for the user: cadence counters reset
// and a new telemetry span begins.
func (e *Engine) StartSession(ctx context.Context, userID string) {
	e.mu.Lock()
	if p, ok := e.planners[userID]; ok {
		p.ResetSession()
	}
	e.mu.Unlock()

	if e.exporter != nil {
		e.exporter.StartSession(ctx, userID)
	}
	e.logger.Info("engine: session started", "user", userID)
}

// EndSession closes the user's telemetry span.
func (e *Engine) EndSession(ok bool, reason string) {
	if e.exporter != nil {
		e.exporter.EndSession(ok, reason)
	}
}

// Close releases metrics and telemetry resources.
func (e *Engine) Close() error {
	var firstErr error
	if e.exporter != nil {
		if err := e.exporter.Close(); err != nil {
			firstErr = err
		}
	}
	if e.collector != nil {
		if err := e.collector.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (e *Engine) plannerFor(userID string) *planner.Planner {
	e.mu.Lock()
	defer e.mu.Unlock()
	p, ok := e.planners[userID]
	if !ok {
		p = planner.New(e.catalog,
			planner.WithRand(rand.New(rand.NewSource(e.seeds.Int63()))),
			planner.WithLogger(e.logger),
			planner.WithCampaign(e.cfg.CampaignID),
			planner.WithSessionCap(e.cfg.SessionCap),
			planner.WithMinInterval(e.cfg.MinInterval.Std()),
		)
		e.planners[userID] = p
	}
	return p
}

func (e *Engine) observePlan(userID string, sim simulation.Simulation) {
	if e.collector != nil {
		e.collector.SimulationPlanned(sim)
	}
	if e.exporter != nil {
		e.exporter.SimulationPlanned(sim)
	}
	e.logger.Info("engine: simulation planned",
		"user", userID,
		"simulation_id", sim.ID,
		"attack_type", sim.AttackType,
		"site", sim.TargetSite,
		"difficulty", sim.Metadata.Difficulty,
		"red_team", sim.Metadata.RedTeam)
}
