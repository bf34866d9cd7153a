// Package guard decides whether a request must be refused.
//
// The guard is a fixed rule engine: a Taxonomy of case-insensitive patterns
// grouped by ReasonCode is evaluated in Precedence order and the first
// category with a matching rule decides the outcome. Evaluation is pure and
// total; a block is a result, never an error.
package guard

import (
	"log/slog"

	"lcm/internal/guard/metrics"
	"lcm/pkg/domain"
)

// Language is re-exported so callers of this package need not import domain
// for the common case.
type Language = domain.Language

// Guard evaluates text against a taxonomy and resolves refusal messages.
type Guard struct {
	taxonomy *Taxonomy
	catalog  *Catalog
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

type Option func(*Guard)

func WithTaxonomy(t *Taxonomy) Option {
	return func(g *Guard) {
		g.taxonomy = t
	}
}

func WithCatalog(c *Catalog) Option {
	return func(g *Guard) {
		g.catalog = c
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(g *Guard) {
		g.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(g *Guard) {
		g.metrics = m
	}
}

var defaultTaxonomy = MustNewTaxonomy(DefaultRules)

// New builds a guard over the default rule table and catalog unless options
// replace them.
func New(opts ...Option) *Guard {
	g := &Guard{
		taxonomy: defaultTaxonomy,
		catalog:  DefaultCatalog,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Classify returns the highest-precedence reason matching text.
func (g *Guard) Classify(text string) (ReasonCode, bool) {
	return classify(g.taxonomy, Normalize(text))
}

// Evaluate classifies text and attaches the refusal message for lang.
// Empty or whitespace-only text is never blocked.
func (g *Guard) Evaluate(text string, lang Language) Decision {
	return g.evaluate(text, lang, PassUserMessage)
}

// EvaluateTwoPass checks the user message first and the draft second. The
// first blocking pass decides, so the user message's reason wins when both
// would block.
func (g *Guard) EvaluateTwoPass(userText, draftText string, lang Language) (Decision, Pass) {
	if d := g.evaluate(userText, lang, PassUserMessage); d.Blocked {
		return d, PassUserMessage
	}
	return g.evaluate(draftText, lang, PassDraft), PassDraft
}

// EvaluateDraft runs only the secondary pass.
func (g *Guard) EvaluateDraft(draftText string, lang Language) Decision {
	return g.evaluate(draftText, lang, PassDraft)
}

func (g *Guard) evaluate(text string, lang Language, pass Pass) Decision {
	reason, blocked := g.Classify(text)
	d := buildDecision(g.catalog, reason, blocked, lang)

	g.metrics.IncrementDecision(d.Blocked, string(d.Reason), string(pass))
	if d.Blocked && g.logger != nil {
		// Text length only; user text is not logged.
		g.logger.Debug("guard blocked text",
			"pass", pass,
			"reason_code", d.Reason,
			"text_len", len(text),
		)
	}
	return d
}
