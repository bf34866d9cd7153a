package handler

import "lcm/internal/guard"

// EvaluateResponse is the HTTP response for POST /guard/evaluate.
type EvaluateResponse struct {
	Blocked    bool    `json:"blocked"`
	ReasonCode *string `json:"reason_code"`
	Message    *string `json:"message"`
	Pass       string  `json:"pass,omitempty"`
}

// FromDecision converts a guard decision to an HTTP response. Reason and
// message are null when the text is allowed.
func FromDecision(d guard.Decision) *EvaluateResponse {
	resp := &EvaluateResponse{Blocked: d.Blocked}
	if d.Blocked {
		reason := string(d.Reason)
		msg := d.Message
		resp.ReasonCode = &reason
		resp.Message = &msg
	}
	return resp
}

// FromTwoPass is FromDecision plus the pass that produced d.
func FromTwoPass(d guard.Decision, pass guard.Pass) *EvaluateResponse {
	resp := FromDecision(d)
	resp.Pass = string(pass)
	return resp
}
