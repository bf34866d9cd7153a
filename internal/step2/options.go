// Package step2 provides the fixed follow-up options offered after a first
// response.
package step2

import "lcm/pkg/domain"

// OptionID identifies one follow-up option. Values are stable; clients switch
// on them.
type OptionID string

const (
	OptionOfficialFlow OptionID = "opt_official_flow"
	OptionDraftMessage OptionID = "opt_draft_message"
	OptionFollowup     OptionID = "opt_followup"
)

// Count is the number of options every response carries.
const Count = 3

// Option is one follow-up the user can pick.
type Option struct {
	ID    OptionID `json:"id"`
	Label string   `json:"label"`
}

// Set is the step2 payload of a first response.
type Set struct {
	Options []Option `json:"options"`
}

var order = [Count]OptionID{OptionOfficialFlow, OptionDraftMessage, OptionFollowup}

var labels = map[domain.Language]map[OptionID]string{
	domain.LanguageKorean: {
		OptionOfficialFlow: "공식 절차 안내",
		OptionDraftMessage: "판매자/고객센터 메시지 초안",
		OptionFollowup:     "추가 질문하기",
	},
	domain.LanguageEnglish: {
		OptionOfficialFlow: "Guide the official process",
		OptionDraftMessage: "Draft a message to the seller/support",
		OptionFollowup:     "Ask a follow-up question",
	},
}

// Options returns the three options in fixed order with labels for lang.
// Unknown languages get the default language. A fresh slice is returned on
// every call.
func Options(lang domain.Language) []Option {
	byID, ok := labels[lang]
	if !ok {
		byID = labels[domain.DefaultLanguage]
	}
	out := make([]Option, 0, Count)
	for _, id := range order {
		out = append(out, Option{ID: id, Label: byID[id]})
	}
	return out
}

// For wraps Options in the response payload.
func For(lang domain.Language) Set {
	return Set{Options: Options(lang)}
}
