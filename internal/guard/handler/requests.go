package handler

import (
	"lcm/internal/contract"
	"lcm/pkg/domain"
	dErrors "lcm/pkg/domain-errors"
)

var requestValidator = contract.New()

// EvaluateRequest is the HTTP request body for POST /guard/evaluate.
// Draft is optional; when set both passes run and the response names the
// pass that decided.
type EvaluateRequest struct {
	Text  string `json:"text" validate:"max=500"`
	Draft string `json:"draft,omitempty" validate:"omitempty,max=2000"`
	Lang  string `json:"lang"`

	parsedLanguage domain.Language
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
// Empty text is valid: the guard allows it.
func (r *EvaluateRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if err := requestValidator.Struct(r); err != nil {
		return err
	}
	r.parsedLanguage = domain.ParseLanguage(r.Lang)
	return nil
}

// ParsedLanguage returns the normalized language.
func (r *EvaluateRequest) ParsedLanguage() domain.Language {
	return r.parsedLanguage
}
