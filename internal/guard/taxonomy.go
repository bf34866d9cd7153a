package guard

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// RuleSpec is one row of the rule table: a category and its pattern source.
// Patterns are compiled case-insensitive.
type RuleSpec struct {
	Category ReasonCode
	Pattern  string
}

// Rule is a compiled RuleSpec.
type Rule struct {
	Category ReasonCode
	Pattern  *regexp.Regexp
}

// Taxonomy is the compiled rule table grouped by category. It is immutable
// after construction and shared by every evaluation.
type Taxonomy struct {
	byCategory map[ReasonCode][]Rule
	order      []ReasonCode
}

// DefaultRules is the built-in rule table for Korean and English.
var DefaultRules = []RuleSpec{
	// Account access: credentials, one-time codes, logging in for the user.
	{ReasonAccountAccess, `(계정|아이디|비번|비밀번호|password)\s*(알려|공유|입력|제공|넘겨|줄게)`},
	{ReasonAccountAccess, `로그인\s*해서.*(대신\s*)?(처리|진행|신청).*(해줘|해주세요|해\s*줘)`},
	{ReasonAccountAccess, `로그인\s*해서\s*(해|해줘|진행|처리)`},
	{ReasonAccountAccess, `(네가|너가|대신).*(로그인|접속|인증)`},
	{ReasonAccountAccess, `(otp|인증번호|verification\s*code).*(알려|공유|입력|제공|줄게|share|send)`},
	{ReasonAccountAccess, `(log|sign)\s*in(to)?\s*(to\s*)?(my\s*account\s*)?(for\s*me|on\s*my\s*behalf)`},
	{ReasonAccountAccess, `(please|can\s*you|could\s*you|would\s*you|will\s*you|you\s*can|just)\s*(log|sign)\s*in(to)?\s*(to\s*)?my\s*account`},
	{ReasonAccountAccess, `(here\s*is|here's|i'll\s*give\s*you|use)\s*my\s*(password|login|credentials|otp|pin)`},
	{ReasonAccountAccess, `\b(password|login|credentials|pin|otp)\s*(is|are)\b`},
	{ReasonAccountAccess, `\b(share|send|give|tell)\s*(you\s*)?my\s*(password|login|credentials|otp|pin|verification\s*code)`},

	// Bypass or unofficial routes.
	{ReasonBypassOrUnofficial, `우회|비공식`},
	{ReasonBypassOrUnofficial, `hack|bypass|unofficial|loophole`},
	{ReasonBypassOrUnofficial, `(몰래|비밀로).*(처리|진행|방법)`},
	{ReasonBypassOrUnofficial, `(get\s*around|work\s*around)\s*(the\s*)?(policy|rules|system)`},

	// Acting on the user's behalf: executing, clicking, submitting, contacting.
	{ReasonActOnUserBehalf, `내\s*대신`},
	{ReasonActOnUserBehalf, `대신\s*(해줘|해주세요|해\s*줘|해라|해줄래|해\s*줄래)`},
	{ReasonActOnUserBehalf, `대신\s*(환불|반품|취소|결제|구매|예약|신청|접수|등록|변경|해지|처리|연락)\S*\s*(좀\s*)?(해줘|해주세요|해\s*줘|해줄래)`},
	{ReasonActOnUserBehalf, `대신.*(환불|반품|취소|결제|구매|예약|신청|접수|등록|변경|해지).*(신청|처리|접수|진행|완료).*(해줘|해주세요|해\s*줘)`},
	{ReasonActOnUserBehalf, `(환불|반품|취소|결제|구매|예약|신청|접수|등록|변경|해지).*(대신).*(신청|처리|접수|진행|완료).*(해줘|해주세요|해\s*줘)`},
	{ReasonActOnUserBehalf, `(대신|네가|너가).*(눌러|클릭|결제|주문|구매|신청|예약|등록|승인|확인).*(줘|해줘|해\s*줘)`},
	{ReasonActOnUserBehalf, `(판매자|고객센터|상담원|업체).*(네가|너가|대신).*(말|연락|문의|요청|전화)`},
	{ReasonActOnUserBehalf, `(네가|너가|대신).*(판매자|고객센터|상담원|업체).*(말|연락|문의|요청|전화)`},
	{ReasonActOnUserBehalf, `you\s*(submit|file|process|approve|cancel|refund|return|contact|call)\s*(it|this|them)?\s*(for\s*me|on\s*my\s*behalf)`},
	{ReasonActOnUserBehalf, `(do|handle)\s*(it|this)\s*(for\s*me|on\s*my\s*behalf)`},
	{ReasonActOnUserBehalf, `just\s*(click|press|submit)\s*(it|this)\s*for\s*me`},
	{ReasonActOnUserBehalf, `(contact|call|email|message)\s*(the\s*)?(seller|support|store|merchant)\s*(for\s*me|on\s*my\s*behalf)`},
	{ReasonActOnUserBehalf, `\b(submit|cancel|file|process|click|press|apply|request|contact|call|email)\b[^.!?\n]*\b(for\s*me|on\s*my\s*behalf)\b`},

	// Demands for a guaranteed or confirmed outcome.
	{ReasonGuaranteeDemand, `(확정|보장|단정).*(환불|반품|취소|승인|가능)`},
	{ReasonGuaranteeDemand, `(환불|반품|취소|승인|가능).*(확정|보장|단정)`},
	{ReasonGuaranteeDemand, `100%\s*(가능|확정|보장|승인)`},
	{ReasonGuaranteeDemand, `무조건.*(환불|반품|취소|승인|가능)`},
	{ReasonGuaranteeDemand, `(절대|반드시).*(된다|가능하다|승인된다|환불된다)`},
	{ReasonGuaranteeDemand, `(guarantee|promise|confirm)\s*(a|the|me\s*a)?\s*(refund|return|approval|outcome)`},
	{ReasonGuaranteeDemand, `100%\s*(guarantee|sure|certain|confirmed)`},
	{ReasonGuaranteeDemand, `\b(promise|guarantee|assure)\s*(me\s*)?(that\s*)?[^.!?\n]*\b(refund|money\s*back|approved|approval)`},
}

// NewTaxonomy compiles specs into a taxonomy ordered by Precedence.
func NewTaxonomy(specs []RuleSpec) (*Taxonomy, error) {
	known := make(map[ReasonCode]bool, len(Precedence))
	for _, c := range Precedence {
		known[c] = true
	}

	t := &Taxonomy{
		byCategory: make(map[ReasonCode][]Rule, len(Precedence)),
		order:      append([]ReasonCode(nil), Precedence...),
	}
	for i, spec := range specs {
		if !known[spec.Category] {
			return nil, fmt.Errorf("rule %d: category %q has no precedence position", i, spec.Category)
		}
		if strings.TrimSpace(spec.Pattern) == "" {
			return nil, fmt.Errorf("rule %d: empty pattern", i)
		}
		rx, err := regexp.Compile("(?i)" + spec.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		t.byCategory[spec.Category] = append(t.byCategory[spec.Category], Rule{Category: spec.Category, Pattern: rx})
	}
	return t, nil
}

// MustNewTaxonomy is NewTaxonomy that panics on error, for static tables.
func MustNewTaxonomy(specs []RuleSpec) *Taxonomy {
	t, err := NewTaxonomy(specs)
	if err != nil {
		panic(err)
	}
	return t
}

// Hit reports whether any rule of category matches the normalized text.
func (t *Taxonomy) Hit(category ReasonCode, normalized string) bool {
	for _, r := range t.byCategory[category] {
		if r.Pattern.MatchString(normalized) {
			return true
		}
	}
	return false
}

// Normalize trims text and folds it to NFC so decomposed Hangul matches the
// precomposed syllables in the rule table.
func Normalize(text string) string {
	return norm.NFC.String(strings.TrimSpace(text))
}
