package renderer

import "errors"

// Render failures. They are returned wrapped in a domain error carrying the
// code callers should map; match them with errors.Is.
var (
	ErrMissingTemplate      = errors.New("missing template")
	ErrEmptyFactsList       = errors.New("facts list is empty")
	ErrChoiceCountViolation = errors.New("choice count must be 1 or 2")
	ErrUnsupportedState     = errors.New("unsupported state")
	ErrInvalidItem          = errors.New("invalid item")
	ErrStructure            = errors.New("rendered text breaks the four-part layout")
)
