package domain

import "strings"

// Language selects the copy set used for messages and rendered responses.
// Only Korean and English are supported; anything else collapses to the default.
type Language string

const (
	LanguageKorean  Language = "ko"
	LanguageEnglish Language = "en"
)

// DefaultLanguage is used when the caller omits or garbles the language.
const DefaultLanguage = LanguageKorean

// ParseLanguage normalizes external input: any tag starting with "en"
// ("en", "EN-us", "english") is English, everything else is Korean.
// It never fails so a bad header cannot turn into a refusal.
func ParseLanguage(s string) Language {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(s)), "en") {
		return LanguageEnglish
	}
	return DefaultLanguage
}

// Languages lists every supported language in a stable order.
func Languages() []Language {
	return []Language{LanguageKorean, LanguageEnglish}
}

// IsValid reports whether l is one of the supported languages.
func (l Language) IsValid() bool {
	return l == LanguageKorean || l == LanguageEnglish
}

func (l Language) String() string {
	return string(l)
}
