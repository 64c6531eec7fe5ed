// Package i18n holds the language model shared by the whole API: the
// supported language tags, the bilingual Text value stored in JSONB columns,
// and the static message catalog used for localized API errors.
package i18n

import "strings"

// Language is a supported language tag.
type Language string

const (
	Arabic  Language = "ar"
	English Language = "en"
)

// Default is the language used when a request carries no usable tag.
const Default = Arabic

// Parse normalizes a raw language tag. Unrecognized or empty tags fall back
// to the default language.
func Parse(raw string) Language {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "en", "en-us", "en-gb":
		return English
	case "ar":
		return Arabic
	default:
		return Default
	}
}

// Text is a bilingual string. Either side may be empty; Localize applies the
// fallback chain requested language, then English, then Arabic.
type Text struct {
	AR string `json:"ar"`
	EN string `json:"en"`
}

// Localize returns the text for the given language. A missing translation
// falls back to English, then Arabic; the result is empty only when both
// sides are unset.
func (t Text) Localize(lang Language) string {
	var preferred string
	switch lang {
	case English:
		preferred = t.EN
	default:
		preferred = t.AR
	}
	if preferred != "" {
		return preferred
	}
	if t.EN != "" {
		return t.EN
	}
	return t.AR
}

// IsZero reports whether both translations are unset.
func (t Text) IsZero() bool {
	return t.AR == "" && t.EN == ""
}
