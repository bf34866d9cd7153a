package audit

import (
	"context"
	"time"
)

// EventCategory classifies audit events by their primary purpose.
// This enables different retention policies, sampling and routing.
type EventCategory string

const (
	// CategoryCompliance covers events that prove a response met its content
	// rules, or show where it did not. Never sampled.
	// Examples: a rendered draft refused by the second guard pass, a render
	// that failed its content checks.
	CategoryCompliance EventCategory = "compliance"

	// CategorySecurity covers refused user requests.
	// Examples: requests to log in for the user, to bypass the official route.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers routine activity and can be sampled.
	// Examples: a first response delivered.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from the response pipeline to capture each outcome. Keep
// it transport-agnostic so stores and sinks can fan out. User text is never
// part of an event; MessageLen records its length in characters only.
type Event struct {
	Category   EventCategory
	Timestamp  time.Time
	RequestID  string
	Action     string
	Decision   string // "allowed", "blocked" or "failed"
	Reason     string // reason code or error code
	Pass       string // guard pass that decided: "user" or "draft"
	StateID    string
	Language   string
	MessageLen int
}

type AuditEvent string

const (
	EventRequestBlocked    AuditEvent = "request_blocked"
	EventDraftBlocked      AuditEvent = "draft_blocked"
	EventResponseDelivered AuditEvent = "response_delivered"
	EventRenderFailed      AuditEvent = "render_failed"
)

// eventCategories maps each audit event to its category.
var eventCategories = map[AuditEvent]EventCategory{
	EventRequestBlocked:    CategorySecurity,
	EventDraftBlocked:      CategoryCompliance,
	EventRenderFailed:      CategoryCompliance,
	EventResponseDelivered: CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByRequest(ctx context.Context, requestID string) ([]Event, error)
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}
