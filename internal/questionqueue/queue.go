// Package questionqueue asks follow-up questions one at a time.
//
// The queue is a pure function of an ordered question list and the answers
// collected so far: the next question is always the first unanswered one.
package questionqueue

import (
	"fmt"
	"strings"

	"lcm/internal/renderer"
	"lcm/pkg/domain"
	dErrors "lcm/pkg/domain-errors"
)

// Question is one item of the queue.
type Question struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Required bool   `json:"required"`
}

// Answers maps question ids to the values given. Treat it as immutable; use
// Apply to add an answer.
type Answers map[string]string

// Validate checks that questions is non-empty and every question has a unique
// id and a text.
func Validate(questions []Question) error {
	if len(questions) == 0 {
		return dErrors.New(dErrors.CodeValidation, "questions must not be empty")
	}
	seen := make(map[string]struct{}, len(questions))
	for i, q := range questions {
		if strings.TrimSpace(q.ID) == "" {
			return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("question %d: id is required", i))
		}
		if _, dup := seen[q.ID]; dup {
			return dErrors.New(dErrors.CodeValidation, "duplicate question id: "+q.ID)
		}
		seen[q.ID] = struct{}{}
		if strings.TrimSpace(q.Text) == "" {
			return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("question %s: text is required", q.ID))
		}
	}
	return nil
}

// Apply returns a copy of answers with id set to value.
func Apply(answers Answers, id, value string) Answers {
	next := make(Answers, len(answers)+1)
	for k, v := range answers {
		next[k] = v
	}
	next[id] = value
	return next
}

// Next returns the first unanswered question. ok is false once every
// question has an answer.
func Next(questions []Question, answers Answers) (q Question, ok bool, err error) {
	if err := Validate(questions); err != nil {
		return Question{}, false, err
	}
	for _, q := range questions {
		if _, answered := answers[q.ID]; !answered {
			return q, true, nil
		}
	}
	return Question{}, false, nil
}

// Done reports whether every question has an answer.
func Done(questions []Question, answers Answers) (bool, error) {
	_, ok, err := Next(questions, answers)
	if err != nil {
		return false, err
	}
	return !ok, nil
}

// FromFacts turns the facts a response asks for into questions, labelled in
// lang. Every fact is required.
func FromFacts(facts []renderer.FactItem, lang domain.Language) []Question {
	out := make([]Question, 0, len(facts))
	for _, f := range facts {
		out = append(out, Question{ID: f.Key, Text: f.Label(lang), Required: true})
	}
	return out
}
