// Package metrics exposes engine counters for Prometheus scraping. A
// Collector registers on its own registry so embedding applications never
// collide with the default one; the HTTP server is optional.
package metrics

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/phishguard/phishguard/pkg/duration"
	"github.com/phishguard/phishguard/pkg/simulation"
)

// Collector owns the engine's Prometheus metrics.
type Collector struct {
	registry *prometheus.Registry
	logger   *slog.Logger

	simulationsPlanned  *prometheus.CounterVec
	simulationsRedTeam  prometheus.Counter
	outcomeEvents       *prometheus.CounterVec
	detectionVerdicts   *prometheus.CounterVec
	contextAggregations *prometheus.CounterVec
	riskScore           *prometheus.GaugeVec
	detectionConfidence prometheus.Histogram
	detectionLatency    prometheus.Histogram

	mu     sync.Mutex
	server *http.Server
	closed bool
}

// Options configures the optional scrape endpoint.
type Options struct {
	// Port for the metrics server; zero disables the server.
	Port int

	// Path for the metrics endpoint (default "/metrics").
	Path string

	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	Logger *slog.Logger
}

// NewCollector creates the collector and, when a port is configured,
// starts the scrape server.
func NewCollector(opts Options) (*Collector, error) {
	if opts.Path == "" {
		opts.Path = "/metrics"
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = duration.MetricsReadTimeout
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = duration.MetricsWriteTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	c := &Collector{
		registry: prometheus.NewRegistry(),
		logger:   opts.Logger,
	}
	if err := c.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}
	if opts.Port > 0 {
		c.startServer(opts)
	}
	return c, nil
}

func (c *Collector) initMetrics() error {
	c.simulationsPlanned = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "phishguard_simulations_planned_total",
			Help: "Simulations planned, by attack type and difficulty",
		},
		[]string{"attack_type", "difficulty"},
	)

	c.simulationsRedTeam = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "phishguard_redteam_simulations_total",
			Help: "Operator-authored red-team simulations planned",
		},
	)

	c.outcomeEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "phishguard_outcome_events_total",
			Help: "User outcome events recorded, by kind",
		},
		[]string{"kind"},
	)

	c.detectionVerdicts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "phishguard_detection_verdicts_total",
			Help: "Risk detector analyses, by verdict and scorer",
		},
		[]string{"verdict", "scorer"},
	)

	c.contextAggregations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "phishguard_context_aggregations_total",
			Help: "Context aggregations performed, by resulting risk profile",
		},
		[]string{"risk_profile"},
	)

	c.riskScore = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "phishguard_user_risk_score",
			Help: "Current behavioral risk score per user",
		},
		[]string{"user"},
	)

	c.detectionConfidence = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "phishguard_detection_confidence",
			Help:    "Confidence distribution of detector analyses",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		},
	)

	c.detectionLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "phishguard_detection_seconds",
			Help:    "Time-to-detection distribution in seconds",
			Buckets: []float64{1, 2.5, 5, 10, 30, 60, 120, 300},
		},
	)

	collectors := []prometheus.Collector{
		c.simulationsPlanned,
		c.simulationsRedTeam,
		c.outcomeEvents,
		c.detectionVerdicts,
		c.contextAggregations,
		c.riskScore,
		c.detectionConfidence,
		c.detectionLatency,
	}
	for _, col := range collectors {
		if err := c.registry.Register(col); err != nil {
			return err
		}
	}
	return nil
}

func (c *Collector) startServer(opts Options) {
	mux := http.NewServeMux()
	mux.Handle(opts.Path, promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}))

	c.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", opts.Port),
		Handler:      mux,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
	}

	go func() {
		if err := c.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			c.logger.Error("metrics: scrape server error", "error", err)
		}
	}()
}

// SimulationPlanned records a planned simulation.
func (c *Collector) SimulationPlanned(sim simulation.Simulation) {
	c.simulationsPlanned.WithLabelValues(
		string(sim.AttackType), string(sim.Metadata.Difficulty)).Inc()
	if sim.Metadata.RedTeam {
		c.simulationsRedTeam.Inc()
	}
}

// OutcomeRecorded records a user outcome event and the resulting score.
func (c *Collector) OutcomeRecorded(userID, kind string, riskScore int) {
	c.outcomeEvents.WithLabelValues(kind).Inc()
	c.riskScore.WithLabelValues(userID).Set(float64(riskScore))
}

// DetectionTime records how long the user took to flag a simulation.
func (c *Collector) DetectionTime(elapsed time.Duration) {
	if elapsed > 0 {
		c.detectionLatency.Observe(elapsed.Seconds())
	}
}

// VerdictRecorded records one detector analysis.
func (c *Collector) VerdictRecorded(credentialEntry bool, scorer string, confidence float64) {
	verdict := "clean"
	if credentialEntry {
		verdict = "credential_entry"
	}
	c.detectionVerdicts.WithLabelValues(verdict, scorer).Inc()
	c.detectionConfidence.Observe(confidence)
}

// ContextAggregated records one context aggregation.
func (c *Collector) ContextAggregated(riskProfile string) {
	c.contextAggregations.WithLabelValues(riskProfile).Inc()
}

// Registry exposes the underlying registry so embedding applications can
// serve it from their own mux.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Close shuts down the scrape server if one was started.
func (c *Collector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	if c.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), duration.TelemetryShutdown)
		defer cancel()
		return c.server.Shutdown(ctx)
	}
	return nil
}
