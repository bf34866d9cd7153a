package domain

import dErrors "lcm/pkg/domain-errors"

// StateID identifies which conversation state a response is rendered for.
// Invariant: the value must be one of the supported states.
//
// Usage: construct via ParseStateID at trust boundaries; direct casting
// bypasses validation and the renderer will reject unknown values.
type StateID string

const (
	// StateMinFactsRequest asks the user for the minimum facts needed.
	StateMinFactsRequest StateID = "S1_MIN_FACTS_REQUEST"
	// StatePresentChoices offers one or two next steps.
	StatePresentChoices StateID = "S2_PRESENT_CHOICES"
)

var validStates = map[StateID]bool{
	StateMinFactsRequest: true,
	StatePresentChoices:  true,
}

// ParseStateID constructs a StateID from external input.
//
// Errors: CodeUnsupportedState when the value is empty or unknown.
func ParseStateID(s string) (StateID, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeUnsupportedState, "state_id cannot be empty")
	}
	st := StateID(s)
	if !st.IsValid() {
		return "", dErrors.New(dErrors.CodeUnsupportedState, "unsupported state_id: "+s)
	}
	return st, nil
}

// IsValid reports whether the state is supported.
func (s StateID) IsValid() bool {
	return validStates[s]
}

func (s StateID) String() string {
	return string(s)
}
