// Package locale holds the supported conversation languages and the
// per-language phrase table used for every user-facing message.
package locale

import (
	"strings"
	"unicode"
)

// Lang is a supported conversation language.
type Lang string

const (
	EN Lang = "en"
	AR Lang = "ar"
)

// Default is used until the customer picks or reveals a language.
const Default = EN

// Valid reports whether l is a supported language.
func (l Lang) Valid() bool {
	return l == EN || l == AR
}

// String implements fmt.Stringer.
func (l Lang) String() string { return string(l) }

// Parse maps loose input ("AR", "arabic", "عربي") to a Lang.
func Parse(s string) (Lang, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "en", "english", "eng", "انجليزي", "الانجليزية", "إنجليزي":
		return EN, true
	case "ar", "arabic", "عربي", "العربية", "عربى":
		return AR, true
	}
	return "", false
}

// Detect returns AR when text contains any Arabic letter, EN when it contains
// a Latin letter, and false when it has neither (digits, emoji).
func Detect(text string) (Lang, bool) {
	latin := false
	for _, r := range text {
		if unicode.Is(unicode.Arabic, r) && unicode.IsLetter(r) {
			return AR, true
		}
		if r < unicode.MaxASCII && unicode.IsLetter(r) {
			latin = true
		}
	}
	if latin {
		return EN, true
	}
	return "", false
}
