// Package telemetry exports engine traces to an OpenTelemetry collector
// over OTLP/gRPC. One root span covers a training session; planned
// simulations, detector verdicts, and outcome events attach as span
// events. Exporter failures never block the engine.
package telemetry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/phishguard/phishguard/pkg/defaults"
	"github.com/phishguard/phishguard/pkg/detection"
	"github.com/phishguard/phishguard/pkg/duration"
	"github.com/phishguard/phishguard/pkg/simulation"
)

// Options configures the exporter.
type Options struct {
	// Endpoint is the OTLP endpoint (e.g. "localhost:4317").
	Endpoint string

	// ServiceName for exported resources (default "phishguard").
	ServiceName string

	// Insecure disables TLS on the exporter connection.
	Insecure bool

	// Headers are attached to every OTLP export request.
	Headers map[string]string

	ShutdownTimeout   time.Duration
	ConnectionTimeout time.Duration
}

// Exporter owns the tracer provider and the active session span.
type Exporter struct {
	opts     Options
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer

	mu          sync.Mutex
	sessionSpan trace.Span
	sessionCtx  context.Context
	closed      bool
}

// New connects the OTLP exporter and builds the tracer provider. The
// connection is established lazily by the batch processor, so an absent
// collector surfaces as dropped batches rather than an error here.
func New(opts Options) (*Exporter, error) {
	if opts.ServiceName == "" {
		opts.ServiceName = "phishguard"
	}
	if opts.Endpoint == "" {
		opts.Endpoint = "localhost:4317"
	}
	if opts.ShutdownTimeout == 0 {
		opts.ShutdownTimeout = duration.TelemetryShutdown
	}
	if opts.ConnectionTimeout == 0 {
		opts.ConnectionTimeout = duration.TelemetryConnect
	}

	grpcOpts := []grpc.DialOption{}
	if opts.Insecure {
		grpcOpts = append(grpcOpts, grpc.WithTransportCredentials(insecure.NewCredentials()))
	}

	exporterOpts := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpoint(opts.Endpoint),
		otlptracegrpc.WithDialOption(grpcOpts...),
	}
	if opts.Insecure {
		exporterOpts = append(exporterOpts, otlptracegrpc.WithInsecure())
	}
	if len(opts.Headers) > 0 {
		exporterOpts = append(exporterOpts, otlptracegrpc.WithHeaders(opts.Headers))
	}

	ctx, cancel := context.WithTimeout(context.Background(), opts.ConnectionTimeout)
	defer cancel()

	exporter, err := otlptracegrpc.New(ctx, exporterOpts...)
	if err != nil {
		return nil, err
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(opts.ServiceName),
		semconv.ServiceVersion(defaults.Version),
		attribute.String("service.component", "engine"),
	)

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	return &Exporter{
		opts:     opts,
		provider: provider,
		tracer:   provider.Tracer("phishguard/engine"),
	}, nil
}

// StartSession opens the root span for a user's training session. Any
// previous session span is ended first.
func (e *Exporter) StartSession(ctx context.Context, userID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	if e.sessionSpan != nil {
		e.sessionSpan.End()
	}

	e.sessionCtx, e.sessionSpan = e.tracer.Start(ctx, "phishguard.session",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("user_id", userID),
		),
	)
}

// SimulationPlanned attaches the planned simulation as a span event.
func (e *Exporter) SimulationPlanned(sim simulation.Simulation) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.sessionSpan == nil {
		return
	}

	name := "simulation_planned"
	if sim.Metadata.RedTeam {
		name = "redteam_simulation_planned"
	}
	e.sessionSpan.AddEvent(name, trace.WithAttributes(
		attribute.String("simulation_id", sim.ID),
		attribute.String("attack_type", string(sim.AttackType)),
		attribute.String("target_site", sim.TargetSite),
		attribute.String("difficulty", string(sim.Metadata.Difficulty)),
		attribute.String("campaign_id", sim.Metadata.CampaignID),
	))
}

// VerdictRecorded attaches a detector assessment as a span event. A
// credential-entry verdict marks the session span as errored so traces
// with risky behavior stand out.
func (e *Exporter) VerdictRecorded(a detection.Assessment) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.sessionSpan == nil {
		return
	}

	factors := make([]string, len(a.Factors))
	for i, f := range a.Factors {
		factors[i] = string(f.Kind)
	}
	e.sessionSpan.AddEvent("detection_verdict", trace.WithAttributes(
		attribute.Bool("credential_entry", a.CredentialEntry),
		attribute.Float64("confidence", a.Confidence),
		attribute.String("scorer", a.ScoredBy),
		attribute.StringSlice("factors", factors),
	))
	if a.CredentialEntry {
		e.sessionSpan.SetStatus(codes.Error, "credential entry detected")
	}
}

// OutcomeRecorded attaches a user outcome event as a span event.
func (e *Exporter) OutcomeRecorded(userID, kind string, riskScore int, difficulty simulation.Difficulty) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.sessionSpan == nil {
		return
	}

	e.sessionSpan.AddEvent("outcome_recorded", trace.WithAttributes(
		attribute.String("user_id", userID),
		attribute.String("kind", kind),
		attribute.Int("risk_score", riskScore),
		attribute.String("difficulty", string(difficulty)),
	))
}

// EndSession closes the session span with a final status.
func (e *Exporter) EndSession(ok bool, reason string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sessionSpan == nil {
		return
	}
	if ok {
		e.sessionSpan.SetStatus(codes.Ok, reason)
	} else {
		e.sessionSpan.SetStatus(codes.Error, reason)
	}
	e.sessionSpan.End()
	e.sessionSpan = nil
	e.sessionCtx = nil
}

// Endpoint returns the configured OTLP endpoint.
func (e *Exporter) Endpoint() string { return e.opts.Endpoint }

// Close ends any active span and flushes pending telemetry.
func (e *Exporter) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true

	if e.sessionSpan != nil {
		e.sessionSpan.End()
		e.sessionSpan = nil
	}
	if e.provider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), e.opts.ShutdownTimeout)
		defer cancel()
		if err := e.provider.Shutdown(ctx); err != nil {
			return fmt.Errorf("telemetry: shutdown tracer provider: %w", err)
		}
	}
	return nil
}
