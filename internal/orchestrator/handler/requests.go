package handler

import (
	"lcm/internal/contract"
	"lcm/internal/orchestrator"
	"lcm/internal/renderer"
	"lcm/pkg/domain"
	dErrors "lcm/pkg/domain-errors"
)

var requestValidator = contract.New()

// FirstResponseRequest is the HTTP request body for POST /first-response.
type FirstResponseRequest struct {
	UserMessage   string                `json:"user_message" validate:"required,max=500"`
	Lang          string                `json:"lang"`
	StateID       string                `json:"state_id"`
	CategoryText  string                `json:"category_text" validate:"max=100"`
	FactsRequired []renderer.FactItem   `json:"facts_required" validate:"max=10"`
	Choices       []renderer.ChoiceItem `json:"choices"`
	Disclosure    string                `json:"disclosure" validate:"max=500"`

	parsedState domain.StateID
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
// The choice count is left to the renderer, which owns that rule.
func (r *FirstResponseRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if err := requestValidator.Struct(r); err != nil {
		return err
	}
	if r.StateID != "" {
		state, err := domain.ParseStateID(r.StateID)
		if err != nil {
			return err
		}
		r.parsedState = state
	}
	return nil
}

// Input converts the request into the orchestrator input.
func (r *FirstResponseRequest) Input() orchestrator.Input {
	return orchestrator.Input{
		UserMessage:        r.UserMessage,
		StateID:            r.parsedState,
		CategoryText:       r.CategoryText,
		FactsRequired:      r.FactsRequired,
		Choices:            r.Choices,
		DisclosureOverride: r.Disclosure,
	}
}
