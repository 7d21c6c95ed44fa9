// Package layout models keyboard layouts and derives character substitution
// maps between them by joining layout definitions on shared physical keys.
package layout

import (
	"fmt"
	"sort"

	"relayout/internal/alphabet"
)

// PhysicalKey is an opaque, layout-independent key identifier, stable across
// all layouts ("KeyQ", "Digit1", "Semicolon", ...).
type PhysicalKey string

// KeyChars holds the characters a physical key produces in one layout.
// Zero value means the key is undefined for that modifier state.
type KeyChars struct {
	Base  rune
	Shift rune
}

// Definition is an immutable per-layout table: physical key to characters.
// Several definitions may exist per language (positional vs. phonetic
// variants).
type Definition struct {
	ID   string
	Lang alphabet.Language
	Keys map[PhysicalKey]KeyChars
}

// Set is a collection of layout definitions loaded from one source,
// indexed by id and by language. Static after construction.
type Set struct {
	byID   map[string]*Definition
	byLang map[alphabet.Language][]*Definition
}

func newSet() *Set {
	return &Set{
		byID:   make(map[string]*Definition),
		byLang: make(map[alphabet.Language][]*Definition),
	}
}

func (s *Set) add(def *Definition) {
	s.byID[def.ID] = def
	s.byLang[def.Lang] = append(s.byLang[def.Lang], def)
}

// ByID returns the layout definition with the given id.
func (s *Set) ByID(id string) (*Definition, error) {
	def, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("layout: unknown layout id %q", id)
	}
	return def, nil
}

// ByLanguage returns every layout variant registered for a language,
// in stable id order.
func (s *Set) ByLanguage(lang alphabet.Language) []*Definition {
	defs := append([]*Definition(nil), s.byLang[lang]...)
	sort.Slice(defs, func(i, j int) bool { return defs[i].ID < defs[j].ID })
	return defs
}

// IDs returns every layout id in the set, sorted.
func (s *Set) IDs() []string {
	ids := make([]string, 0, len(s.byID))
	for id := range s.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Languages returns every language that has at least one layout, sorted by tag.
func (s *Set) Languages() []alphabet.Language {
	langs := make([]alphabet.Language, 0, len(s.byLang))
	for l := range s.byLang {
		langs = append(langs, l)
	}
	sort.Slice(langs, func(i, j int) bool { return langs[i] < langs[j] })
	return langs
}
