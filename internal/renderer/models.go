package renderer

import (
	"fmt"
	"strings"

	"lcm/pkg/domain"
	dErrors "lcm/pkg/domain-errors"
)

// MaxChoices is the hard upper bound on choices offered in one response.
const MaxChoices = 2

// FactItem is one fact the user is asked for. Both labels are required so the
// same list serves either language.
type FactItem struct {
	Key     string `json:"key" yaml:"key"`
	KoLabel string `json:"ko_label" yaml:"ko_label"`
	EnLabel string `json:"en_label" yaml:"en_label"`
}

// Label returns the label for lang.
func (f FactItem) Label(lang domain.Language) string {
	if lang == domain.LanguageEnglish {
		return f.EnLabel
	}
	return f.KoLabel
}

func (f FactItem) validate() error {
	if strings.TrimSpace(f.KoLabel) == "" || strings.TrimSpace(f.EnLabel) == "" {
		return dErrors.Wrap(ErrInvalidItem, dErrors.CodeInvalidInput,
			fmt.Sprintf("fact %q needs both ko_label and en_label", f.Key))
	}
	return nil
}

// ChoiceItem is one numbered choice.
type ChoiceItem struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func (c ChoiceItem) validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return dErrors.Wrap(ErrInvalidItem, dErrors.CodeInvalidInput,
			fmt.Sprintf("choice %q needs a title", c.ID))
	}
	return nil
}

// RenderRequest is everything the renderer needs for one response. An empty
// CategoryLabel falls back to the template's default category.
type RenderRequest struct {
	Language           domain.Language `json:"language"`
	StateID            domain.StateID  `json:"state_id"`
	CategoryLabel      string          `json:"category_label"`
	FactsRequired      []FactItem      `json:"facts_required,omitempty"`
	Choices            []ChoiceItem    `json:"choices,omitempty"`
	DisclosureOverride string          `json:"disclosure_override,omitempty"`
}

// Parts is the golden sequence before assembly, in emission order.
type Parts struct {
	Declaration string
	Body        string
	Disclosure  string
	WaitPrompt  string
}

// Slice returns the parts in emission order.
func (p Parts) Slice() []string {
	return []string{p.Declaration, p.Body, p.Disclosure, p.WaitPrompt}
}

// RenderedMessage is a successful render.
type RenderedMessage struct {
	Text     string          `json:"text"`
	StateID  domain.StateID  `json:"state_id"`
	Language domain.Language `json:"language"`
	Parts    Parts           `json:"-"`
}
