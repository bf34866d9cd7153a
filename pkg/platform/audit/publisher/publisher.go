// Package publisher emits audit events to a Store.
//
// In the default synchronous mode Emit returns once the store accepted the
// event. WithAsyncBuffer moves persistence to a background goroutine fed by
// a bounded channel; a full buffer drops the event and reports
// ErrBufferFull. Close drains whatever is buffered.
package publisher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	audit "lcm/pkg/platform/audit"
	"lcm/pkg/platform/sentinel"
)

var (
	ErrBufferFull  = errors.New("audit buffer full")
	ErrCircuitOpen = fmt.Errorf("audit circuit open: %w", sentinel.ErrUnavailable)
)

// Publisher captures structured audit events. It is append-only and uses the
// store for persistence so tests can swap sinks easily.
type Publisher struct {
	store   audit.Store
	logger  *slog.Logger
	metrics *Metrics
	sampler *Sampler
	breaker *CircuitBreaker

	bufferSize int
	buffer     chan audit.Event
	mu         sync.RWMutex
	closed     bool
	wg         sync.WaitGroup
	closeOnce  sync.Once
}

// Option configures the Publisher.
type Option func(*Publisher)

// WithAsyncBuffer enables async persistence through a buffer of size n.
func WithAsyncBuffer(n int) Option {
	return func(p *Publisher) {
		p.bufferSize = n
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func WithMetrics(m *Metrics) Option {
	return func(p *Publisher) {
		p.metrics = m
	}
}

// WithSampler samples operational events. Security and compliance events are
// always kept.
func WithSampler(s *Sampler) Option {
	return func(p *Publisher) {
		p.sampler = s
	}
}

func WithCircuitBreaker(cb *CircuitBreaker) Option {
	return func(p *Publisher) {
		p.breaker = cb
	}
}

// NewPublisher creates a publisher over store.
func NewPublisher(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{store: store}
	for _, opt := range opts {
		opt(p)
	}
	if p.bufferSize > 0 {
		p.buffer = make(chan audit.Event, p.bufferSize)
		p.wg.Add(1)
		go p.run()
	}
	return p
}

// Emit records event. A zero timestamp is set to now and an empty category is
// derived from the action.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.Category == "" {
		event.Category = audit.AuditEvent(event.Action).Category()
	}
	if p.sampler != nil && event.Category == audit.CategoryOperations && !p.sampler.ShouldSample(event.Action) {
		p.metrics.IncSampled()
		return nil
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.buffer == nil || p.closed {
		return p.persist(ctx, event)
	}

	select {
	case p.buffer <- event:
		return nil
	default:
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	p.metrics.IncBufferDropped()
	return ErrBufferFull
}

// List returns the events recorded for one request.
func (p *Publisher) List(ctx context.Context, requestID string) ([]audit.Event, error) {
	return p.store.ListByRequest(ctx, requestID)
}

// Close stops the background writer after draining the buffer. It is safe to
// call more than once.
func (p *Publisher) Close() error {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		if p.buffer != nil {
			close(p.buffer)
		}
		p.mu.Unlock()
		p.wg.Wait()
	})
	return nil
}

func (p *Publisher) run() {
	defer p.wg.Done()
	for event := range p.buffer {
		_ = p.persist(context.Background(), event)
	}
}

func (p *Publisher) persist(ctx context.Context, event audit.Event) error {
	if p.breaker != nil && !p.breaker.Allow() {
		p.metrics.IncCircuitBreakerDropped()
		return ErrCircuitOpen
	}

	if err := p.store.Append(ctx, event); err != nil {
		p.metrics.IncPersistFailures()
		if p.breaker != nil {
			p.metrics.SetCircuitBreakerState(p.breaker.RecordFailure())
		}
		if p.logger != nil {
			p.logger.ErrorContext(ctx, "audit persist failed",
				"action", event.Action,
				"request_id", event.RequestID,
				"error", err,
			)
		}
		return err
	}

	if p.breaker != nil {
		p.breaker.RecordSuccess()
		p.metrics.SetCircuitBreakerState(false)
	}
	p.metrics.IncTracked()
	return nil
}
