package detection

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/phishguard/phishguard/pkg/defaults"
	"github.com/phishguard/phishguard/pkg/duration"
)

// Scorer produces a raw confidence and factor set for one input. The
// heuristic scorer implements it directly; model-backed scorers implement
// the same shape so the two are interchangeable.
type Scorer interface {
	// Score returns the unclamped confidence and discovered factors.
	Score(ctx context.Context, in Input) (float64, []Factor, error)

	// Name identifies the scorer in assessments and logs.
	Name() string
}

// Detector scores snapshots for credential-theft risk. It prefers the
// model-backed scorer when one is configured and healthy, and always falls
// back to the rule-based path on model failure; Analyze never errors.
type Detector struct {
	heuristic *Heuristic
	model     Scorer
	threshold float64
	logger    *slog.Logger

	onVerdictMu sync.RWMutex
	onVerdict   func(Assessment)
}

// Option configures a Detector.
type Option func(*Detector)

// WithModel installs an optional model-backed scorer.
func WithModel(model Scorer) Option {
	return func(d *Detector) { d.model = model }
}

// WithThreshold overrides the verdict confidence threshold.
func WithThreshold(threshold float64) Option {
	return func(d *Detector) {
		if threshold > 0 && threshold <= 1 {
			d.threshold = threshold
		}
	}
}

// WithAllowlist overrides the embedded legitimate-domain allow list.
func WithAllowlist(list *Allowlist) Option {
	return func(d *Detector) { d.heuristic = NewHeuristic(list) }
}

// WithLogger sets the detector's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Detector) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// New creates a Detector with the rule-based scorer always available.
func New(opts ...Option) *Detector {
	d := &Detector{
		heuristic: NewHeuristic(nil),
		threshold: defaults.DetectionThreshold,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// OnVerdict registers a callback invoked whenever an assessment carries a
// positive credential-entry verdict.
func (d *Detector) OnVerdict(callback func(Assessment)) {
	d.onVerdictMu.Lock()
	defer d.onVerdictMu.Unlock()
	d.onVerdict = callback
}

// Analyze scores the input and returns a fully-defined assessment. Bad
// input becomes risk factors, model failure becomes a heuristic score;
// there is no error path.
func (d *Detector) Analyze(ctx context.Context, in Input) Assessment {
	score, factors, scoredBy := d.score(ctx, in)

	if score > 1 {
		score = 1
	}
	if score < 0 {
		score = 0
	}

	// Rank by severity, ties by discovery order, then truncate.
	sort.SliceStable(factors, func(i, j int) bool {
		return factors[i].Severity.Rank() > factors[j].Severity.Rank()
	})
	if len(factors) > defaults.MaxRiskFactors {
		factors = factors[:defaults.MaxRiskFactors]
	}

	assessment := Assessment{
		CredentialEntry: in.HasPasswordField() && score > d.threshold,
		Confidence:      score,
		Factors:         factors,
		ScoredBy:        scoredBy,
		Timestamp:       time.Now(),
	}

	if assessment.CredentialEntry {
		d.onVerdictMu.RLock()
		cb := d.onVerdict
		d.onVerdictMu.RUnlock()
		if cb != nil {
			cb(assessment)
		}
	}
	return assessment
}

// score runs the model path when configured, bounded by a timeout, and
// falls back to the heuristic on any failure.
func (d *Detector) score(ctx context.Context, in Input) (float64, []Factor, string) {
	if d.model != nil {
		mctx, cancel := context.WithTimeout(ctx, duration.ModelInference)
		score, factors, err := d.model.Score(mctx, in)
		cancel()
		if err == nil {
			return score, factors, d.model.Name()
		}
		d.logger.Warn("detection: model scorer unavailable, using heuristic",
			"model", d.model.Name(), "error", err)
	}

	score, factors, err := d.heuristic.Score(ctx, in)
	if err != nil {
		// The heuristic has no failure modes today; keep the guarantee
		// anyway.
		d.logger.Error("detection: heuristic scorer failed", "error", err)
		return 0, nil, d.heuristic.Name()
	}
	return score, factors, d.heuristic.Name()
}

// Threshold returns the configured verdict threshold.
func (d *Detector) Threshold() float64 { return d.threshold }
