package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/ohc-assist/internal/generation"
	"github.com/wolfman30/ohc-assist/internal/observability/metrics"
	"github.com/wolfman30/ohc-assist/pkg/logging"
)

// Origin records whether a result came from the generation backend or from
// local fallback content.
type Origin string

const (
	OriginGenerated Origin = "generated"
	OriginFallback  Origin = "fallback"
)

// DisplayResult is the only value a run hands back to callers.
type DisplayResult[T any] struct {
	Payload T      `json:"payload"`
	Origin  Origin `json:"origin"`
}

// State is the lifecycle position of a Run.
type State int

const (
	StateIdle State = iota
	StatePending
	StateResolved
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateResolved:
		return "resolved"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

const (
	DefaultSuccessFloor  = 1500 * time.Millisecond
	DefaultFallbackFloor = 1000 * time.Millisecond
)

// Config holds the presentation floors and the generation timeout.
type Config struct {
	SuccessFloor  time.Duration
	FallbackFloor time.Duration
	// Timeout bounds the generation call; zero leaves it to the transport.
	Timeout time.Duration
}

// Runner holds what every run shares: config, logging, metrics and tracing.
// It carries no per-run state and is safe for concurrent use.
type Runner struct {
	cfg     Config
	logger  *logging.Logger
	metrics *metrics.PipelineMetrics
	tracer  trace.Tracer
	now     func() time.Time
	sleep   func(time.Duration)
}

// Option customises a Runner.
type Option func(*Runner)

// WithClock replaces the time source and the sleep used for floors.
func WithClock(now func() time.Time, sleep func(time.Duration)) Option {
	return func(r *Runner) {
		if now != nil {
			r.now = now
		}
		if sleep != nil {
			r.sleep = sleep
		}
	}
}

// WithTracer overrides the otel tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(r *Runner) {
		if tracer != nil {
			r.tracer = tracer
		}
	}
}

func NewRunner(cfg Config, logger *logging.Logger, m *metrics.PipelineMetrics, opts ...Option) *Runner {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.SuccessFloor < 0 {
		cfg.SuccessFloor = 0
	}
	if cfg.FallbackFloor < 0 {
		cfg.FallbackFloor = 0
	}
	r := &Runner{
		cfg:     cfg,
		logger:  logger,
		metrics: m,
		tracer:  otel.Tracer("ohc.internal.pipeline"),
		now:     time.Now,
		sleep:   time.Sleep,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Config returns the runner's configuration.
func (r *Runner) Config() Config { return r.cfg }

// RemainingDelay is how much longer a result must be held so that it is not
// shown before floor has passed since submission.
func RemainingDelay(elapsed, floor time.Duration) time.Duration {
	if elapsed >= floor {
		return 0
	}
	return floor - elapsed
}

// Run is a single submission. It moves Idle -> Pending -> Resolved exactly
// once and is discarded afterwards.
type Run[T any] struct {
	runner  *Runner
	flow    string
	observe func(State)

	mu    sync.Mutex
	state State
}

// NewRun prepares a run for flow (used as a log and metric label). observe,
// if non-nil, is called on every state transition.
func NewRun[T any](r *Runner, flow string, observe func(State)) *Run[T] {
	if r == nil {
		panic("pipeline: runner cannot be nil")
	}
	return &Run[T]{runner: r, flow: flow, observe: observe, state: StateIdle}
}

// State reports the current state.
func (run *Run[T]) State() State {
	run.mu.Lock()
	defer run.mu.Unlock()
	return run.state
}

func (run *Run[T]) transition(next State) {
	run.mu.Lock()
	run.state = next
	run.mu.Unlock()
	if run.observe != nil {
		run.observe(next)
	}
}

// Execute calls generate once. On success the payload is held until the
// success floor; on any failure fallback supplies the payload and the
// fallback floor applies. Execute always returns a result. Cancelling ctx
// only affects the generation call.
func (run *Run[T]) Execute(ctx context.Context, generate func(context.Context) (T, error), fallback func() T) DisplayResult[T] {
	run.mu.Lock()
	if run.state != StateIdle {
		run.mu.Unlock()
		panic("pipeline: run executed more than once")
	}
	run.mu.Unlock()

	r := run.runner
	start := r.now()
	run.transition(StatePending)

	ctx, span := r.tracer.Start(ctx, "pipeline.run")
	defer span.End()
	span.SetAttributes(attribute.String("ohc.flow", run.flow))

	payload, err := run.generate(ctx, generate)
	r.metrics.ObserveGeneration(run.flow, r.now().Sub(start).Seconds())

	origin := OriginGenerated
	floor := r.cfg.SuccessFloor
	if err != nil {
		kind := generation.KindOf(err)
		r.logger.Warn("generation failed, serving fallback",
			"flow", run.flow,
			"error_kind", string(kind),
			"error", err.Error(),
			"elapsed_ms", r.now().Sub(start).Milliseconds(),
		)
		r.metrics.ObserveFailure(run.flow, string(kind))
		span.SetAttributes(attribute.String("ohc.error_kind", string(kind)))

		payload = fallback()
		origin = OriginFallback
		floor = r.cfg.FallbackFloor
	}

	if wait := RemainingDelay(r.now().Sub(start), floor); wait > 0 {
		r.sleep(wait)
	}

	settled := r.now().Sub(start)
	r.metrics.ObserveSettled(run.flow, string(origin), settled.Seconds())
	span.SetAttributes(
		attribute.String("ohc.origin", string(origin)),
		attribute.Int64("ohc.settle_ms", settled.Milliseconds()),
	)
	run.transition(StateResolved)

	return DisplayResult[T]{Payload: payload, Origin: origin}
}

// generate applies the timeout and turns a panicking generator into a
// transport failure.
func (run *Run[T]) generate(ctx context.Context, generate func(context.Context) (T, error)) (payload T, err error) {
	if generate == nil {
		return payload, &generation.Error{Kind: generation.KindTransport, Cause: fmt.Errorf("no generator configured")}
	}
	if timeout := run.runner.cfg.Timeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	defer func() {
		if rec := recover(); rec != nil {
			var zero T
			payload = zero
			err = &generation.Error{Kind: generation.KindTransport, Cause: fmt.Errorf("generator panicked: %v", rec)}
		}
	}()
	return generate(ctx)
}

// Execute is shorthand for a one-off run without a state observer.
func Execute[T any](ctx context.Context, r *Runner, flow string, generate func(context.Context) (T, error), fallback func() T) DisplayResult[T] {
	return NewRun[T](r, flow, nil).Execute(ctx, generate, fallback)
}
