// Package orchestrator produces the first response to a user message.
//
// The pipeline is guard, render, guard: the raw user message is evaluated
// before anything is rendered, a block short-circuits, and the rendered draft
// gets a second pass so the templates can never put blockable wording in
// front of a user. Blocks are results; only render defects are errors.
package orchestrator

import (
	"context"
	"log/slog"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"lcm/internal/guard"
	"lcm/internal/orchestrator/metrics"
	"lcm/internal/renderer"
	"lcm/pkg/domain"
	dErrors "lcm/pkg/domain-errors"
	"lcm/pkg/platform/audit"
	"lcm/pkg/requestcontext"
)

var tracer = otel.Tracer("lcm/internal/orchestrator")

// Service runs the first-response pipeline. It holds no per-request state
// and is safe for concurrent use.
type Service struct {
	guard    Guard
	renderer Renderer
	auditor  AuditPort
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

type Option func(*Service)

func WithAuditor(a AuditPort) Option {
	return func(s *Service) {
		s.auditor = a
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New creates the service. Guard and renderer are required.
func New(g Guard, r Renderer, opts ...Option) *Service {
	s := &Service{
		guard:    g,
		renderer: r,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ProduceFirstResponse guards in.UserMessage, renders the draft and guards it
// again.
//
// Defaults when fields are omitted:
//   - StateID: S2_PRESENT_CHOICES when choices are given, otherwise
//     S1_MIN_FACTS_REQUEST
//   - FactsRequired (S1 only): the template set's default facts
//   - CategoryText: the template's default category label
//
// An invalid lang falls back to the default language.
func (s *Service) ProduceFirstResponse(ctx context.Context, in Input, lang domain.Language) (*Response, error) {
	start := time.Now()
	if !lang.IsValid() {
		lang = domain.DefaultLanguage
	}
	requestID := requestcontext.RequestID(ctx)

	ctx, span := tracer.Start(ctx, "orchestrator.produce_first_response",
		trace.WithAttributes(
			attribute.String("lcm.language", lang.String()),
			attribute.Int("lcm.user_message_len", utf8.RuneCountInString(in.UserMessage)),
		),
	)
	defer span.End()

	// Rule priority: the user's own words are judged before any draft exists.
	if d := s.guard.Evaluate(in.UserMessage, lang); d.Blocked {
		span.SetAttributes(attribute.String("lcm.reason_code", d.Reason.String()))
		s.emit(ctx, audit.Event{
			Action:     string(audit.EventRequestBlocked),
			RequestID:  requestID,
			Decision:   "blocked",
			Reason:     d.Reason.String(),
			Pass:       string(guard.PassUserMessage),
			Language:   lang.String(),
			MessageLen: utf8.RuneCountInString(in.UserMessage),
		})
		s.logger.InfoContext(ctx, "first response blocked",
			"request_id", requestID,
			"pass", guard.PassUserMessage,
			"reason_code", d.Reason,
		)
		s.metrics.Observe(metrics.OutcomeBlockedUser, time.Since(start))
		return blockedResponse(d), nil
	}

	req := s.renderRequest(in, lang)
	span.SetAttributes(attribute.String("lcm.state_id", req.StateID.String()))

	msg, err := s.renderer.Render(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "render failed")
		s.emit(ctx, audit.Event{
			Action:    string(audit.EventRenderFailed),
			RequestID: requestID,
			Decision:  "failed",
			Reason:    string(dErrors.CodeOf(err)),
			StateID:   req.StateID.String(),
			Language:  lang.String(),
		})
		s.logger.ErrorContext(ctx, "first response render failed",
			"request_id", requestID,
			"state_id", req.StateID,
			"error", err,
		)
		s.metrics.Observe(metrics.OutcomeError, time.Since(start))
		return nil, err
	}

	if d := s.guard.EvaluateDraft(msg.Text, lang); d.Blocked {
		span.SetAttributes(attribute.String("lcm.reason_code", d.Reason.String()))
		s.emit(ctx, audit.Event{
			Action:    string(audit.EventDraftBlocked),
			RequestID: requestID,
			Decision:  "blocked",
			Reason:    d.Reason.String(),
			Pass:      string(guard.PassDraft),
			StateID:   req.StateID.String(),
			Language:  lang.String(),
		})
		// The templates or caller-supplied labels produced blockable wording.
		s.logger.WarnContext(ctx, "rendered draft blocked",
			"request_id", requestID,
			"state_id", req.StateID,
			"reason_code", d.Reason,
		)
		s.metrics.Observe(metrics.OutcomeBlockedDraft, time.Since(start))
		return blockedResponse(d), nil
	}

	s.emit(ctx, audit.Event{
		Action:     string(audit.EventResponseDelivered),
		RequestID:  requestID,
		Decision:   "allowed",
		StateID:    msg.StateID.String(),
		Language:   lang.String(),
		MessageLen: utf8.RuneCountInString(in.UserMessage),
	})
	s.logger.InfoContext(ctx, "first response delivered",
		"request_id", requestID,
		"state_id", msg.StateID,
		"language", lang,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	s.metrics.Observe(metrics.OutcomeDelivered, time.Since(start))
	return acceptedResponse(msg, lang), nil
}

func (s *Service) renderRequest(in Input, lang domain.Language) renderer.RenderRequest {
	state := in.StateID
	if state == "" {
		state = domain.StateMinFactsRequest
		if len(in.Choices) > 0 {
			state = domain.StatePresentChoices
		}
	}

	facts := in.FactsRequired
	if state == domain.StateMinFactsRequest && len(facts) == 0 {
		facts = s.renderer.Templates().DefaultFacts
	}

	return renderer.RenderRequest{
		Language:           lang,
		StateID:            state,
		CategoryLabel:      in.CategoryText,
		FactsRequired:      facts,
		Choices:            in.Choices,
		DisclosureOverride: in.DisclosureOverride,
	}
}

// emit records an audit event. Audit failures are logged and never change
// the response.
func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.auditor == nil {
		return
	}
	event.Timestamp = requestcontext.Now(ctx)
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "audit emit failed",
			"request_id", event.RequestID,
			"action", event.Action,
			"error", err,
		)
	}
}
