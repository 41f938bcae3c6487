package resource

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/bastion-ui/bastion/pkg/reactive"
)

// Status is the lifecycle state of a Resource.
type Status int

const (
	Idle      Status = iota // No key requested yet
	Pending                 // Fetch in flight
	Succeeded               // Value decoded and current
	Failed                  // Fetch or decode failed
)

// String returns the lowercase status name, used in logs and metric labels.
func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Transition describes a single status change of a resource.
type Transition struct {
	Key        string
	Generation uint64
	From       Status
	To         Status
	Err        error // non-nil only when To == Failed
}

// Resource is a single-flight request/retry coordinator. It maps a
// resource key (a URL) to an ongoing or completed fetch, decodes the
// response body as JSON into T, and exposes the current status, value or
// failure, and a Retry operation.
//
// Each fetch attempt carries a generation number. A completion whose
// generation is older than the current one is discarded without mutating
// state, so results are always applied in generation order. Superseded
// fetches are not cancelled; only their effect on state is suppressed.
type Resource[T any] struct {
	client Client
	ctx    context.Context

	status  *reactive.Signal[Status]
	value   *reactive.Signal[T]
	failure *reactive.Signal[error]

	// mu protects key, gen, disposed and unsubKey.
	mu       sync.Mutex
	key      string
	gen      uint64
	disposed bool
	unsubKey reactive.Unsubscribe

	logger  *slog.Logger
	metrics *Metrics
	tracer  trace.Tracer

	onSuccess    func(T)
	onFailure    func(error)
	onTransition func(Transition)
}

// New creates a Resource in the Idle state. Nothing is fetched until
// Request (or Watch) supplies a key.
func New[T any](client Client) *Resource[T] {
	var zero T
	return &Resource[T]{
		client:  client,
		ctx:     context.Background(),
		status:  reactive.NewSignal(Idle),
		value:   reactive.NewSignal(zero),
		failure: reactive.NewSignal[error](nil),
		logger:  slog.Default().With("component", "resource"),
	}
}

// Configuration methods. These are chainable and must be called before the
// first Request.

// OnSuccess registers a callback invoked after each Succeeded transition.
func (r *Resource[T]) OnSuccess(fn func(T)) *Resource[T] {
	r.onSuccess = fn
	return r
}

// OnFailure registers a callback invoked after each Failed transition.
func (r *Resource[T]) OnFailure(fn func(error)) *Resource[T] {
	r.onFailure = fn
	return r
}

// OnTransition registers a callback invoked on every status change.
func (r *Resource[T]) OnTransition(fn func(Transition)) *Resource[T] {
	r.onTransition = fn
	return r
}

// WithLogger sets the logger used for fetch outcomes and stale discards.
func (r *Resource[T]) WithLogger(logger *slog.Logger) *Resource[T] {
	if logger != nil {
		r.logger = logger
	}
	return r
}

// WithMetrics attaches Prometheus metrics to this resource.
func (r *Resource[T]) WithMetrics(m *Metrics) *Resource[T] {
	r.metrics = m
	return r
}

// WithTracer enables OpenTelemetry tracing of fetch attempts, using the
// named tracer from the global provider.
func (r *Resource[T]) WithTracer(name string) *Resource[T] {
	r.tracer = otel.Tracer(name)
	return r
}

// WithContext sets the base context passed to the Client on each fetch.
func (r *Resource[T]) WithContext(ctx context.Context) *Resource[T] {
	if ctx != nil {
		r.ctx = ctx
	}
	return r
}

// Watch binds the resource to a reactive key. The current key is requested
// immediately and every subsequent key change issues a fresh request. Call
// last in the configuration chain.
func (r *Resource[T]) Watch(key *reactive.Signal[string]) *Resource[T] {
	r.mu.Lock()
	r.unsubKey = key.Subscribe(func(k string) {
		r.Request(k)
	})
	r.mu.Unlock()

	r.Request(key.Get())
	return r
}

// Request begins (or reuses) an asynchronous fetch for key.
//
// If key matches the current key and a fetch is already in flight or has
// succeeded, the existing operation or value is reused and no new fetch is
// issued. A changed key always starts a fresh generation, as does a
// request against a Failed or Idle resource. An empty key is ignored.
func (r *Resource[T]) Request(key string) {
	if key == "" {
		return
	}

	r.mu.Lock()
	if r.disposed {
		r.mu.Unlock()
		return
	}
	if key == r.key {
		switch r.status.Peek() {
		case Pending, Succeeded:
			r.mu.Unlock()
			return
		}
	}
	r.key = key
	gen := r.nextGenLocked()
	r.mu.Unlock()

	r.begin(gen, key)
}

// Retry discards any previous result and starts a new fetch for the
// current key under a fresh generation. Callable from Pending (restarts),
// Succeeded or Failed; a resource is never terminally failed. A retry
// before any Request is a no-op.
func (r *Resource[T]) Retry() {
	r.mu.Lock()
	if r.disposed || r.key == "" {
		r.mu.Unlock()
		return
	}
	key := r.key
	gen := r.nextGenLocked()
	r.mu.Unlock()

	r.begin(gen, key)
}

// nextGenLocked bumps the generation. Callers must hold mu.
func (r *Resource[T]) nextGenLocked() uint64 {
	r.gen++
	return r.gen
}

// begin transitions to Pending and launches the fetch goroutine for the
// given generation.
func (r *Resource[T]) begin(gen uint64, key string) {
	var zero T
	r.failure.Set(nil)
	r.value.Set(zero)
	r.transition(key, gen, Pending, nil)

	if r.metrics != nil {
		r.metrics.fetchesTotal.Inc()
		r.metrics.inFlight.Inc()
	}

	go r.run(gen, key)
}

// run performs one fetch attempt. It never mutates resource state
// directly; all mutation goes through apply, which enforces the
// generation check.
func (r *Resource[T]) run(gen uint64, key string) {
	ctx := r.ctx
	var span trace.Span
	if r.tracer != nil {
		ctx, span = r.tracer.Start(ctx, "resource.fetch",
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(fetchAttrs(key, gen)...))
		defer span.End()
	}

	value, err := r.fetch(ctx, key)
	if span != nil {
		recordSpanOutcome(span, err)
	}
	if r.metrics != nil {
		r.metrics.inFlight.Dec()
	}

	r.apply(gen, key, value, err)
}

// fetch performs the network read and decode for one attempt.
func (r *Resource[T]) fetch(ctx context.Context, key string) (T, error) {
	var zero T

	resp, err := r.client.Get(ctx, key)
	if err != nil {
		return zero, &NetworkError{URL: key, Err: err}
	}
	if resp.StatusCode >= 400 {
		return zero, &StatusError{URL: key, Code: resp.StatusCode}
	}

	var value T
	if err := json.Unmarshal(resp.Body, &value); err != nil {
		return zero, &DecodeError{URL: key, Err: err}
	}
	return value, nil
}

// apply commits a completed fetch, unless it has gone stale. gen is
// compared against the current generation: a retry or key change that
// happened while the fetch was in flight supersedes it, and the result is
// dropped without touching state.
func (r *Resource[T]) apply(gen uint64, key string, value T, err error) {
	r.mu.Lock()
	if r.disposed || gen != r.gen {
		current := r.gen
		r.mu.Unlock()
		if r.metrics != nil {
			r.metrics.staleDiscarded.Inc()
		}
		r.logger.Debug("discarding stale fetch result",
			"key", key,
			"generation", gen,
			"current_generation", current)
		return
	}
	r.mu.Unlock()

	if err != nil {
		var zero T
		r.value.Set(zero)
		r.failure.Set(err)
		r.transition(key, gen, Failed, err)
		if r.metrics != nil {
			r.metrics.failuresTotal.WithLabelValues(failureKind(err)).Inc()
		}
		r.logger.Warn("fetch failed", "key", key, "generation", gen, "error", err)
		if r.onFailure != nil {
			r.onFailure(err)
		}
		return
	}

	r.failure.Set(nil)
	r.value.Set(value)
	r.transition(key, gen, Succeeded, nil)
	r.logger.Debug("fetch succeeded", "key", key, "generation", gen)
	if r.onSuccess != nil {
		r.onSuccess(value)
	}
}

// transition moves the status signal and fires the transition callback.
func (r *Resource[T]) transition(key string, gen uint64, to Status, err error) {
	from := r.status.Peek()
	r.status.Set(to)
	if r.onTransition != nil {
		r.onTransition(Transition{Key: key, Generation: gen, From: from, To: to, Err: err})
	}
}

// Dispose tears the resource down. Any in-flight result is discarded and
// the key subscription, if any, is released. Further Request and Retry
// calls are no-ops.
func (r *Resource[T]) Dispose() {
	r.mu.Lock()
	r.disposed = true
	unsub := r.unsubKey
	r.unsubKey = nil
	r.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}

// Accessors.

// Status returns the current lifecycle state.
func (r *Resource[T]) Status() Status {
	return r.status.Get()
}

// Key returns the current resource key, or "" before the first Request.
func (r *Resource[T]) Key() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.key
}

// Generation returns the current fetch generation.
func (r *Resource[T]) Generation() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gen
}

// Value returns the decoded payload. ok is false unless the resource is
// currently Succeeded.
func (r *Resource[T]) Value() (value T, ok bool) {
	if r.status.Get() != Succeeded {
		var zero T
		return zero, false
	}
	return r.value.Get(), true
}

// ValueOr returns the value when Succeeded, fallback otherwise.
func (r *Resource[T]) ValueOr(fallback T) T {
	if v, ok := r.Value(); ok {
		return v
	}
	return fallback
}

// Failure returns the captured failure, or nil unless currently Failed.
func (r *Resource[T]) Failure() error {
	if r.status.Get() != Failed {
		return nil
	}
	return r.failure.Get()
}

// IsPending reports whether a fetch is in flight.
func (r *Resource[T]) IsPending() bool {
	return r.status.Get() == Pending
}

// IsSucceeded reports whether the resource holds a current value.
func (r *Resource[T]) IsSucceeded() bool {
	return r.status.Get() == Succeeded
}

// IsFailed reports whether the last fetch failed.
func (r *Resource[T]) IsFailed() bool {
	return r.status.Get() == Failed
}

// StatusSignal exposes the underlying status signal so consumers can
// subscribe to state changes directly.
func (r *Resource[T]) StatusSignal() *reactive.Signal[Status] {
	return r.status
}
