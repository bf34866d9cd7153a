// Package invariant checks user-visible text against banned-vocabulary rules.
//
// Two rule families exist: leaked terms (internal implementation words that
// must never reach a user) and hedges (generalities such as "usually" that the
// response copy is not allowed to fall back on). The same Checker is applied to
// refusal messages, template strings at load time, disclosure overrides and the
// fully rendered text.
package invariant

import (
	"fmt"
	"regexp"

	dErrors "lcm/pkg/domain-errors"
)

// Kind classifies a banned rule.
type Kind string

const (
	KindLeakedTerm Kind = "leaked_term"
	KindHedge      Kind = "hedge"
)

// Rule is a named banned pattern.
type Rule struct {
	Name    string
	Kind    Kind
	Pattern *regexp.Regexp
}

// Violation describes the first banned match found in a text.
type Violation struct {
	Kind  Kind
	Rule  string
	Match string
}

func (v *Violation) Error() string {
	return fmt.Sprintf("%s detected (rule %s, match %q)", v.Kind, v.Rule, v.Match)
}

// Checker evaluates text against an ordered set of rules. It is immutable
// after construction and safe for concurrent use.
type Checker struct {
	rules []Rule
}

// New builds a checker from one or more rule sets, preserving order.
func New(sets ...[]Rule) *Checker {
	var rules []Rule
	for _, s := range sets {
		rules = append(rules, s...)
	}
	return &Checker{rules: rules}
}

// Default checks both leaked terms and hedges.
func Default() *Checker {
	return New(LeakedTerms(), Hedges())
}

// LeakOnly checks leaked terms only.
func LeakOnly() *Checker {
	return New(LeakedTerms())
}

// LeakedTerms returns the rules for internal vocabulary in either language.
func LeakedTerms() []Rule {
	return []Rule{
		{Name: "gate_en", Kind: KindLeakedTerm, Pattern: regexp.MustCompile(`(?i)gate\s*\d*`)},
		{Name: "gate_ko", Kind: KindLeakedTerm, Pattern: regexp.MustCompile(`게이트`)},
	}
}

// Hedges returns the rules for generality words in either language.
func Hedges() []Rule {
	return []Rule{
		{Name: "botong", Kind: KindHedge, Pattern: regexp.MustCompile(`보통`)},
		{Name: "ilbanjeogeuro", Kind: KindHedge, Pattern: regexp.MustCompile(`일반적으로`)},
		{Name: "daechero", Kind: KindHedge, Pattern: regexp.MustCompile(`대체로`)},
		{Name: "usually", Kind: KindHedge, Pattern: regexp.MustCompile(`(?i)\busually\b`)},
		{Name: "generally", Kind: KindHedge, Pattern: regexp.MustCompile(`(?i)\bgenerally\b`)},
		{Name: "typically", Kind: KindHedge, Pattern: regexp.MustCompile(`(?i)\btypically\b`)},
	}
}

// Find returns the first violation in text, or nil.
func (c *Checker) Find(text string) *Violation {
	for _, r := range c.rules {
		if m := r.Pattern.FindString(text); m != "" {
			return &Violation{Kind: r.Kind, Rule: r.Name, Match: m}
		}
	}
	return nil
}

// Check returns a CodeInvariantViolation error wrapping the first violation.
// The subject names what was checked and ends up in the error message.
func (c *Checker) Check(subject, text string) error {
	if v := c.Find(text); v != nil {
		return dErrors.Wrap(v, dErrors.CodeInvariantViolation, subject+" failed content check")
	}
	return nil
}
