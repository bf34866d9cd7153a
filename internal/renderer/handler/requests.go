package handler

import (
	"lcm/internal/renderer"
	"lcm/pkg/domain"
	dErrors "lcm/pkg/domain-errors"
)

// RenderRequest is the HTTP request body for POST /render.
type RenderRequest struct {
	Language           string                `json:"language"`
	StateID            string                `json:"state_id"`
	CategoryLabel      string                `json:"category_label"`
	FactsRequired      []renderer.FactItem   `json:"facts_required"`
	Choices            []renderer.ChoiceItem `json:"choices"`
	DisclosureOverride string                `json:"disclosure_override"`

	parsed renderer.RenderRequest
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *RenderRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	state, err := domain.ParseStateID(r.StateID)
	if err != nil {
		return err
	}
	r.parsed = renderer.RenderRequest{
		Language:           domain.ParseLanguage(r.Language),
		StateID:            state,
		CategoryLabel:      r.CategoryLabel,
		FactsRequired:      r.FactsRequired,
		Choices:            r.Choices,
		DisclosureOverride: r.DisclosureOverride,
	}
	return nil
}

// Parsed returns the renderer request built by Validate.
func (r *RenderRequest) Parsed() renderer.RenderRequest {
	return r.parsed
}
