// Package locale guesses the language of a free-text city name. It is an
// input-validity gate for the destination lookup, not a language detector.
package locale

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/language"
)

// Locale is a hotels4 locale code such as ru_RU
type Locale string

const (
	Unknown Locale = ""
	Russian Locale = "ru_RU"
	English Locale = "en_US"
)

var tags = map[Locale]language.Tag{
	Russian: language.MustParse("ru-RU"),
	English: language.MustParse("en-US"),
}

// Detect classifies text: any Cyrillic letter wins, then any basic Latin
// letter, otherwise Unknown
func Detect(text string) Locale {
	hasLatin := false
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.Is(unicode.Cyrillic, r) && unicode.IsLetter(r):
			return Russian
		case r >= 'a' && r <= 'z':
			hasLatin = true
		}
	}
	if hasLatin {
		return English
	}
	return Unknown
}

// Known reports whether l is a supported locale
func (l Locale) Known() bool {
	_, ok := tags[l]
	return ok
}

// Tag returns the BCP 47 tag for l, or language.Und
func (l Locale) Tag() language.Tag {
	if tag, ok := tags[l]; ok {
		return tag
	}
	return language.Und
}

// FromTag maps a BCP 47 tag to the closest supported locale
func FromTag(tag language.Tag) Locale {
	base, _ := tag.Base()
	switch base.String() {
	case "ru":
		return Russian
	case "en":
		return English
	}
	return Unknown
}

// Parse accepts "ru_RU", "ru-RU" or a bare language such as "en"
func Parse(s string) (Locale, error) {
	tag, err := language.Parse(strings.ReplaceAll(strings.TrimSpace(s), "_", "-"))
	if err != nil {
		return Unknown, fmt.Errorf("invalid locale %q: %w", s, err)
	}
	loc := FromTag(tag)
	if !loc.Known() {
		return Unknown, fmt.Errorf("unsupported locale %q", s)
	}
	return loc, nil
}

// String returns the hotels4 form, e.g. "en_US"
func (l Locale) String() string {
	return string(l)
}
