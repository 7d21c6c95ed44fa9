// Package alphabet defines the per-language letter sets used to normalize
// text before trigram extraction and scoring. Normalization is deliberately
// lossy: anything outside a language's letter set is dropped, not replaced.
package alphabet

import (
	"fmt"
	"strings"
	"unicode"
)

// Language identifies a supported language by its short tag.
type Language string

// Supported languages.
const (
	Russian Language = "ru"
	English Language = "en"
	Hebrew  Language = "he"
)

// All lists every supported language.
func All() []Language {
	return []Language{Russian, English, Hebrew}
}

// Parse converts a tag string into a Language.
func Parse(tag string) (Language, error) {
	switch Language(strings.ToLower(tag)) {
	case Russian:
		return Russian, nil
	case English:
		return English, nil
	case Hebrew:
		return Hebrew, nil
	}
	return "", fmt.Errorf("alphabet: unknown language tag %q", tag)
}

// Valid reports whether r belongs to the language's letter set.
// Input is expected to be lowercased already.
func (l Language) Valid(r rune) bool {
	switch l {
	case Russian:
		// Base Cyrillic block plus ё, which sits outside it.
		return (r >= 0x0410 && r <= 0x044F) || r == 'ё'
	case English:
		return r >= 'a' && r <= 'z'
	case Hebrew:
		// Full Hebrew block including niqqud.
		return r >= 0x0590 && r <= 0x05FF
	}
	return false
}

// Normalize lowercases text and strips every rune outside the language's
// letter set. Adjacent words can become concatenated; that is acceptable at
// trigram order 3 and corpus scale.
func (l Language) Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.Map(unicode.ToLower, text) {
		if l.Valid(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Words lowercases text and splits it into maximal runs of valid letters,
// in order of appearance. Used by the unigram trainer and the corpus-based
// seed lexicons.
func (l Language) Words(text string) []string {
	var words []string
	var buf []rune
	for _, r := range strings.Map(unicode.ToLower, text) {
		if l.Valid(r) {
			buf = append(buf, r)
			continue
		}
		if len(buf) > 0 {
			words = append(words, string(buf))
			buf = buf[:0]
		}
	}
	if len(buf) > 0 {
		words = append(words, string(buf))
	}
	return words
}
