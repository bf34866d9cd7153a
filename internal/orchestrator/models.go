package orchestrator

import (
	"lcm/internal/guard"
	"lcm/internal/renderer"
	"lcm/internal/step2"
	"lcm/pkg/domain"
)

// Input is one first-response request. Only UserMessage is required; see
// ProduceFirstResponse for the defaults applied to the rest.
type Input struct {
	UserMessage        string
	StateID            domain.StateID
	CategoryText       string
	FactsRequired      []renderer.FactItem
	Choices            []renderer.ChoiceItem
	DisclosureOverride string
}

// Result is the accepted draft.
type Result struct {
	Text     string          `json:"text"`
	StateID  domain.StateID  `json:"state_id"`
	Language domain.Language `json:"language"`
}

// Response is the outcome of ProduceFirstResponse.
// Invariant: OK == !Blocked; OK responses carry Result and Step2 with exactly
// three options; blocked responses carry ReasonCode and Message only.
type Response struct {
	OK         bool             `json:"ok"`
	Blocked    bool             `json:"blocked"`
	ReasonCode guard.ReasonCode `json:"reason_code,omitempty"`
	Message    string           `json:"message,omitempty"`
	Result     *Result          `json:"result,omitempty"`
	Step2      *step2.Set       `json:"step2,omitempty"`
}

func blockedResponse(d guard.Decision) *Response {
	return &Response{
		OK:         false,
		Blocked:    true,
		ReasonCode: d.Reason,
		Message:    d.Message,
	}
}

func acceptedResponse(msg renderer.RenderedMessage, lang domain.Language) *Response {
	options := step2.For(lang)
	return &Response{
		OK:      true,
		Blocked: false,
		Result: &Result{
			Text:     msg.Text,
			StateID:  msg.StateID,
			Language: msg.Language,
		},
		Step2: &options,
	}
}
