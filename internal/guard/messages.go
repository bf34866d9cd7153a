package guard

import (
	"fmt"

	"lcm/internal/invariant"
	"lcm/pkg/domain"
)

// Catalog maps reason codes to refusal messages per language. Every entry and
// the fallback are content-checked when the catalog is built, so MessageFor
// never has to fail at request time.
type Catalog struct {
	messages map[ReasonCode]map[domain.Language]string
	fallback map[domain.Language]string
}

var defaultMessages = map[ReasonCode]map[domain.Language]string{
	ReasonActOnUserBehalf: {
		domain.LanguageKorean:  "저는 대신 신청/처리/연락처럼 사용자를 대신해 행동할 수 없습니다. 대신 공식 절차 안내나 메시지 초안 작성은 도와드릴게요.",
		domain.LanguageEnglish: "I can’t take actions on your behalf (submit/process/contact). I can guide the official steps or draft a message for you.",
	},
	ReasonGuaranteeDemand: {
		domain.LanguageKorean:  "저는 결과를 보장하거나 확정할 수 없습니다. 다만 기준에 따라 가능성을 판단하고 다음 행동을 안내해 드릴게요.",
		domain.LanguageEnglish: "I can’t guarantee or confirm outcomes. I can assess based on the criteria and guide the next step.",
	},
	ReasonBypassOrUnofficial: {
		domain.LanguageKorean:  "비공식/우회 경로를 통한 요청은 도와드릴 수 없습니다. 대신 공식 절차로 진행할 수 있게 안내해 드릴게요.",
		domain.LanguageEnglish: "I can’t help with bypass/unofficial routes. I can guide you through the official process instead.",
	},
	ReasonAccountAccess: {
		domain.LanguageKorean:  "계정 접근(로그인/비밀번호/인증 등)이 필요한 요청은 도와드릴 수 없습니다. 대신 안전한 공식 절차로 안내해 드릴게요.",
		domain.LanguageEnglish: "I can’t help with anything requiring account access (login/password/verification). I can guide a safe official process instead.",
	},
}

var defaultFallback = map[domain.Language]string{
	domain.LanguageKorean:  "요청을 도와드릴 수 없습니다. 대신 안전한 공식 절차로 안내해 드릴게요.",
	domain.LanguageEnglish: "I can’t help with that request. I can guide a safe official process instead.",
}

// DefaultCatalog is built at package init; a leak in the static copy is a
// build defect and panics.
var DefaultCatalog = mustNewCatalog(defaultMessages, defaultFallback, invariant.LeakOnly())

// NewCatalog validates and builds a catalog. Every reason code must have a
// non-empty message in every supported language, as must the fallback.
func NewCatalog(messages map[ReasonCode]map[domain.Language]string, fallback map[domain.Language]string, checker *invariant.Checker) (*Catalog, error) {
	c := &Catalog{
		messages: make(map[ReasonCode]map[domain.Language]string, len(messages)),
		fallback: make(map[domain.Language]string, len(fallback)),
	}
	for _, lang := range domain.Languages() {
		fb := fallback[lang]
		if fb == "" {
			return nil, fmt.Errorf("fallback message missing for %s", lang)
		}
		if err := checker.Check("fallback message ("+lang.String()+")", fb); err != nil {
			return nil, err
		}
		c.fallback[lang] = fb
	}
	for _, code := range ReasonCodes() {
		byLang, ok := messages[code]
		if !ok {
			return nil, fmt.Errorf("no messages for reason %s", code)
		}
		c.messages[code] = make(map[domain.Language]string, len(byLang))
		for _, lang := range domain.Languages() {
			msg := byLang[lang]
			if msg == "" {
				return nil, fmt.Errorf("message missing for reason %s in %s", code, lang)
			}
			if err := checker.Check(fmt.Sprintf("message %s (%s)", code, lang), msg); err != nil {
				return nil, err
			}
			c.messages[code][lang] = msg
		}
	}
	return c, nil
}

func mustNewCatalog(messages map[ReasonCode]map[domain.Language]string, fallback map[domain.Language]string, checker *invariant.Checker) *Catalog {
	c, err := NewCatalog(messages, fallback, checker)
	if err != nil {
		panic(err)
	}
	return c
}

// MessageFor returns the refusal message for code in lang. Unknown codes get
// the fallback; unknown languages resolve to the default language.
func (c *Catalog) MessageFor(code ReasonCode, lang domain.Language) string {
	if !lang.IsValid() {
		lang = domain.DefaultLanguage
	}
	if byLang, ok := c.messages[code]; ok {
		return byLang[lang]
	}
	return c.fallback[lang]
}

// MessageFor looks up code in the default catalog.
func MessageFor(code ReasonCode, lang domain.Language) string {
	return DefaultCatalog.MessageFor(code, lang)
}
