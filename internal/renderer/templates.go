package renderer

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"lcm/internal/invariant"
	"lcm/pkg/domain"
	dErrors "lcm/pkg/domain-errors"
	"lcm/pkg/platform/sentinel"
)

//go:embed templates/first_response.v1.yaml
var embedded embed.FS

const defaultTemplatePath = "templates/first_response.v1.yaml"

// defaultWaitKey selects the wait prompt for states without their own entry.
const defaultWaitKey = "default"

// TemplateSet is the response template model: copy per language plus the
// facts asked for when the caller names none.
type TemplateSet struct {
	Version      string                   `yaml:"version"`
	DefaultFacts []FactItem               `yaml:"default_facts"`
	Copy         map[domain.Language]*Copy `yaml:"copy"`
}

// Copy holds every string of one language.
type Copy struct {
	DefaultCategory  string                    `yaml:"default_category"`
	StateDeclaration map[domain.StateID]string `yaml:"state_declaration"`
	FactsIntro       string                    `yaml:"facts_intro"`
	FactsOutro       string                    `yaml:"facts_outro"`
	ChoicesIntro     string                    `yaml:"choices_intro"`
	ChoiceLine       string                    `yaml:"choice_line"`
	ChoicesPrompt    string                    `yaml:"choices_prompt"`
	NonNegotiable    string                    `yaml:"non_negotiable"`
	Disclosure       string                    `yaml:"disclosure"`
	WaitPrompt       map[string]string         `yaml:"wait_prompt"`
}

// WaitPromptFor returns the wait prompt of state, falling back to the default.
func (c *Copy) WaitPromptFor(state domain.StateID) string {
	if p, ok := c.WaitPrompt[string(state)]; ok && p != "" {
		return p
	}
	return c.WaitPrompt[defaultWaitKey]
}

// LoadTemplates decodes and validates a YAML template document. Unknown keys,
// missing required strings and any banned term are errors; all of them are
// startup-fatal configuration defects.
func LoadTemplates(r io.Reader, checker *invariant.Checker) (*TemplateSet, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var ts TemplateSet
	if err := dec.Decode(&ts); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvariantViolation, "decode templates")
	}
	if err := ts.Validate(checker); err != nil {
		return nil, err
	}
	return &ts, nil
}

// LoadTemplateFile loads templates from path.
func LoadTemplateFile(path string, checker *invariant.Checker) (*TemplateSet, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("templates %s: %w", path, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read templates %s: %w", path, err)
	}
	return LoadTemplates(bytes.NewReader(raw), checker)
}

// DefaultTemplates loads the embedded template document.
func DefaultTemplates() (*TemplateSet, error) {
	raw, err := embedded.ReadFile(defaultTemplatePath)
	if err != nil {
		return nil, fmt.Errorf("read embedded templates: %w", err)
	}
	return LoadTemplates(bytes.NewReader(raw), invariant.Default())
}

// Validate checks that every supported language and state has its strings
// and that none of them carries a banned term.
func (ts *TemplateSet) Validate(checker *invariant.Checker) error {
	for _, f := range ts.DefaultFacts {
		if err := f.validate(); err != nil {
			return err
		}
	}

	for _, lang := range domain.Languages() {
		c, ok := ts.Copy[lang]
		if !ok || c == nil {
			return missing(lang, "copy")
		}

		required := map[string]string{
			"default_category":   c.DefaultCategory,
			"facts_intro":        c.FactsIntro,
			"facts_outro":        c.FactsOutro,
			"choices_intro":      c.ChoicesIntro,
			"choice_line":        c.ChoiceLine,
			"choices_prompt":     c.ChoicesPrompt,
			"non_negotiable":     c.NonNegotiable,
			"disclosure":         c.Disclosure,
			"wait_prompt.default": c.WaitPrompt[defaultWaitKey],
		}
		for _, state := range []domain.StateID{domain.StateMinFactsRequest, domain.StatePresentChoices} {
			required["state_declaration."+string(state)] = c.StateDeclaration[state]
			required["wait_prompt."+string(state)] = c.WaitPrompt[string(state)]
		}

		for key, value := range required {
			if value == "" {
				return missing(lang, key)
			}
		}
		for key, value := range required {
			if err := checker.Check(fmt.Sprintf("template %s.%s", lang, key), value); err != nil {
				return err
			}
		}
		for _, f := range ts.DefaultFacts {
			if err := checker.Check("default fact "+f.Key, f.Label(lang)); err != nil {
				return err
			}
		}
	}
	return nil
}

func missing(lang domain.Language, key string) error {
	return dErrors.Wrap(ErrMissingTemplate, dErrors.CodeInvariantViolation,
		fmt.Sprintf("template %s.%s is required", lang, key))
}
