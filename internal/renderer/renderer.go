// Package renderer assembles the first response from templates.
//
// Every response follows the golden sequence: a state declaration, a body
// (facts request or numbered choices), the non-negotiable disclosure and a
// wait prompt that is always the last line. The parts are joined with blank
// lines and the assembled text is content-checked before it is returned.
package renderer

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"lcm/internal/invariant"
	"lcm/internal/renderer/metrics"
	"lcm/pkg/domain"
	dErrors "lcm/pkg/domain-errors"
)

const (
	partSeparator = "\n\n"
	factBullet    = "• "
)

// Renderer renders responses from an immutable template set.
type Renderer struct {
	templates *TemplateSet
	checker   *invariant.Checker
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

type Option func(*Renderer)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) {
		r.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Renderer) {
		r.metrics = m
	}
}

// WithChecker replaces the content checker applied to overrides and to the
// assembled text.
func WithChecker(c *invariant.Checker) Option {
	return func(r *Renderer) {
		r.checker = c
	}
}

// New creates a renderer over a validated template set.
func New(templates *TemplateSet, opts ...Option) (*Renderer, error) {
	if templates == nil {
		return nil, fmt.Errorf("templates are required")
	}
	r := &Renderer{
		templates: templates,
		checker:   invariant.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Templates exposes the template set, e.g. for default facts.
func (r *Renderer) Templates() *TemplateSet {
	return r.templates
}

// Render builds the response for req. Errors are domain errors: unsupported
// state and invalid items are caller mistakes, everything else is an
// authoring defect reported as CodeInvariantViolation.
func (r *Renderer) Render(req RenderRequest) (RenderedMessage, error) {
	start := time.Now()
	msg, err := r.render(req)

	result := "ok"
	if err != nil {
		result = string(dErrors.CodeOf(err))
		if r.logger != nil {
			r.logger.Warn("render failed",
				"state_id", req.StateID,
				"language", req.Language,
				"error", err,
			)
		}
	}
	r.metrics.IncrementRender(string(req.StateID), string(req.Language), result)
	r.metrics.ObserveRenderDuration(time.Since(start))
	return msg, err
}

func (r *Renderer) render(req RenderRequest) (RenderedMessage, error) {
	if !req.StateID.IsValid() {
		return RenderedMessage{}, dErrors.Wrap(ErrUnsupportedState, dErrors.CodeUnsupportedState,
			fmt.Sprintf("state %q cannot be rendered", req.StateID))
	}
	c, ok := r.templates.Copy[req.Language]
	if !ok || c == nil {
		return RenderedMessage{}, missing(req.Language, "copy")
	}

	declaration, err := r.declaration(c, req)
	if err != nil {
		return RenderedMessage{}, err
	}
	body, err := r.body(c, req)
	if err != nil {
		return RenderedMessage{}, err
	}
	disclosure, err := r.disclosure(c, req)
	if err != nil {
		return RenderedMessage{}, err
	}
	wait := c.WaitPromptFor(req.StateID)
	if wait == "" {
		return RenderedMessage{}, missing(req.Language, "wait_prompt."+string(req.StateID))
	}

	parts := Parts{
		Declaration: declaration,
		Body:        body,
		Disclosure:  disclosure,
		WaitPrompt:  wait,
	}
	text := strings.Join(parts.Slice(), partSeparator)

	if err := checkStructure(parts, text); err != nil {
		return RenderedMessage{}, err
	}
	if err := r.checker.Check("rendered text", text); err != nil {
		return RenderedMessage{}, err
	}

	return RenderedMessage{
		Text:     text,
		StateID:  req.StateID,
		Language: req.Language,
		Parts:    parts,
	}, nil
}

func (r *Renderer) declaration(c *Copy, req RenderRequest) (string, error) {
	tmpl, ok := c.StateDeclaration[req.StateID]
	if !ok || tmpl == "" {
		return "", missing(req.Language, "state_declaration."+string(req.StateID))
	}
	category := strings.TrimSpace(req.CategoryLabel)
	if category == "" {
		category = c.DefaultCategory
	}
	if err := r.checkItem("category label", category); err != nil {
		return "", err
	}
	return strings.ReplaceAll(tmpl, "{category}", category), nil
}

func (r *Renderer) body(c *Copy, req RenderRequest) (string, error) {
	lines := make([]string, 0, 2+len(req.FactsRequired)+len(req.Choices))

	switch req.StateID {
	case domain.StateMinFactsRequest:
		if len(req.FactsRequired) == 0 {
			return "", dErrors.Wrap(ErrEmptyFactsList, dErrors.CodeInvariantViolation,
				"S1_MIN_FACTS_REQUEST needs at least one fact")
		}
		lines = append(lines, c.FactsIntro)
		for _, f := range req.FactsRequired {
			if err := f.validate(); err != nil {
				return "", err
			}
			label := f.Label(req.Language)
			if err := r.checkItem("fact "+f.Key, label); err != nil {
				return "", err
			}
			lines = append(lines, factBullet+strings.TrimSpace(label))
		}
		lines = append(lines, c.FactsOutro)

	case domain.StatePresentChoices:
		if n := len(req.Choices); n == 0 || n > MaxChoices {
			return "", dErrors.Wrap(ErrChoiceCountViolation, dErrors.CodeInvariantViolation,
				fmt.Sprintf("got %d choices, want 1 to %d", n, MaxChoices))
		}
		lines = append(lines, c.ChoicesIntro)
		for i, ch := range req.Choices {
			if err := ch.validate(); err != nil {
				return "", err
			}
			if err := r.checkItem("choice "+ch.ID, ch.Title); err != nil {
				return "", err
			}
			line := strings.NewReplacer(
				"{n}", strconv.Itoa(i+1),
				"{title}", strings.TrimSpace(ch.Title),
			).Replace(c.ChoiceLine)
			lines = append(lines, line)
		}
		lines = append(lines, c.ChoicesPrompt)
	}

	return strings.Join(lines, "\n"), nil
}

func (r *Renderer) disclosure(c *Copy, req RenderRequest) (string, error) {
	text := c.Disclosure
	if override := strings.TrimSpace(req.DisclosureOverride); override != "" {
		// Overrides are leak-checked only; they are not run through the guard.
		if err := r.checker.Check("disclosure override", override); err != nil {
			return "", err
		}
		text = override
	}
	return c.NonNegotiable + "\n" + text, nil
}

// checkItem rejects caller-supplied text that would put banned vocabulary or
// a line break into the response.
func (r *Renderer) checkItem(subject, text string) error {
	if strings.ContainsAny(text, "\r\n") {
		return dErrors.Wrap(ErrInvalidItem, dErrors.CodeInvalidInput, subject+" must be a single line")
	}
	if v := r.checker.Find(text); v != nil {
		return dErrors.Wrap(ErrInvalidItem, dErrors.CodeInvalidInput,
			fmt.Sprintf("%s contains disallowed wording: %s", subject, v))
	}
	return nil
}

// checkStructure verifies the assembled text still splits into exactly the
// four parts and that the wait prompt is the final line.
func checkStructure(parts Parts, text string) error {
	for i, p := range parts.Slice() {
		if strings.TrimSpace(p) == "" {
			return dErrors.Wrap(ErrStructure, dErrors.CodeInvariantViolation,
				fmt.Sprintf("part %d is empty", i+1))
		}
		if strings.Contains(p, partSeparator) {
			return dErrors.Wrap(ErrStructure, dErrors.CodeInvariantViolation,
				fmt.Sprintf("part %d contains a blank line", i+1))
		}
	}
	if got := len(strings.Split(text, partSeparator)); got != 4 {
		return dErrors.Wrap(ErrStructure, dErrors.CodeInvariantViolation,
			fmt.Sprintf("text has %d parts", got))
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] != parts.WaitPrompt {
		return dErrors.Wrap(ErrStructure, dErrors.CodeInvariantViolation,
			"wait prompt is not the last line")
	}
	return nil
}
