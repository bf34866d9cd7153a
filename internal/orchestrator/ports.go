package orchestrator

import (
	"context"

	"lcm/internal/guard"
	"lcm/internal/renderer"
	"lcm/pkg/domain"
	"lcm/pkg/platform/audit"
)

// Guard is the part of the intent guard the orchestrator needs.
type Guard interface {
	Evaluate(text string, lang domain.Language) guard.Decision
	EvaluateDraft(draftText string, lang domain.Language) guard.Decision
}

// Renderer builds drafts and exposes the defaults used to fill in a bare
// user message.
type Renderer interface {
	Render(req renderer.RenderRequest) (renderer.RenderedMessage, error)
	Templates() *renderer.TemplateSet
}

// AuditPort defines the interface for emitting audit events.
// This matches the audit publisher but is defined here to keep the
// orchestrator independent of how events are persisted.
type AuditPort interface {
	Emit(ctx context.Context, event audit.Event) error
}
