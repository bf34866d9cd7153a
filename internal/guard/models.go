package guard

import dErrors "lcm/pkg/domain-errors"

// ReasonCode is the closed classification of why a request was blocked.
// Values are stable identifiers; clients switch on them.
type ReasonCode string

const (
	ReasonNone ReasonCode = ""

	ReasonActOnUserBehalf    ReasonCode = "ACT_ON_USER_BEHALF"
	ReasonGuaranteeDemand    ReasonCode = "GUARANTEE_DEMAND"
	ReasonBypassOrUnofficial ReasonCode = "BYPASS_OR_UNOFFICIAL"
	ReasonAccountAccess      ReasonCode = "ACCOUNT_ACCESS"
)

// Precedence is the evaluation order of the reason codes, highest severity
// first: unauthorized access, circumvention, impersonated action, false
// certainty. Adding a category requires placing it here explicitly;
// NewTaxonomy rejects rules for categories missing from this list.
var Precedence = []ReasonCode{
	ReasonAccountAccess,
	ReasonBypassOrUnofficial,
	ReasonActOnUserBehalf,
	ReasonGuaranteeDemand,
}

// ReasonCodes returns every reason code in declaration order.
func ReasonCodes() []ReasonCode {
	return []ReasonCode{
		ReasonActOnUserBehalf,
		ReasonGuaranteeDemand,
		ReasonBypassOrUnofficial,
		ReasonAccountAccess,
	}
}

// IsValid reports whether r is one of the closed reason codes.
func (r ReasonCode) IsValid() bool {
	switch r {
	case ReasonActOnUserBehalf, ReasonGuaranteeDemand, ReasonBypassOrUnofficial, ReasonAccountAccess:
		return true
	}
	return false
}

func (r ReasonCode) String() string {
	return string(r)
}

// ParseReasonCode validates external input.
func ParseReasonCode(s string) (ReasonCode, error) {
	r := ReasonCode(s)
	if !r.IsValid() {
		return ReasonNone, dErrors.New(dErrors.CodeInvalidInput, "unknown reason_code: "+s)
	}
	return r, nil
}

// Decision is the guard result.
// Invariant: !Blocked => Reason == ReasonNone && Message == "";
// Blocked => Reason.IsValid() && Message is non-empty and leak-free.
type Decision struct {
	Blocked bool
	Reason  ReasonCode
	Message string
}

// Allowed is the zero decision.
func Allowed() Decision {
	return Decision{}
}

// Pass names which text a decision was made on.
type Pass string

const (
	// PassUserMessage is the primary pass over the raw user message.
	PassUserMessage Pass = "user"
	// PassDraft is the secondary pass over the rendered draft.
	PassDraft Pass = "draft"
)
