package layout

import (
	"fmt"
	"sync"

	"relayout/internal/alphabet"
)

// ConversionMap is a character-to-character substitution derived by composing
// two layouts through shared physical keys. No entry means pass-through at
// apply time.
type ConversionMap map[rune]rune

// Candidate is one ConversionMap together with the layout variants it was
// built from. A language pair yields one candidate per (source variant,
// target variant); candidates are never merged, since variants can assign the
// same character to different physical keys.
type Candidate struct {
	SourceLayout string
	TargetLayout string
	Map          ConversionMap
}

// Converter builds candidate conversion maps between layout pairs.
// Results are cached per (source, target) pair for the process lifetime;
// the underlying Set is immutable, so no invalidation is needed.
type Converter struct {
	set *Set

	mu        sync.Mutex
	pairCache map[string]ConversionMap
	langCache map[string][]Candidate
}

// NewConverter returns a converter over the given layout set.
func NewConverter(set *Set) *Converter {
	return &Converter{
		set:       set,
		pairCache: make(map[string]ConversionMap),
		langCache: make(map[string][]Candidate),
	}
}

// Set returns the layout set the converter operates on.
func (c *Converter) Set() *Set { return c.set }

// BuildPair builds the substitution map from one layout variant to another:
// for every physical key present in both, source base char maps to target
// base char, and likewise for the shifted variant. Keys missing on either
// side are skipped. A pair with zero shared keys yields an empty map, not an
// error.
func (c *Converter) BuildPair(sourceID, targetID string) (ConversionMap, error) {
	c.mu.Lock()
	key := sourceID + "\x00" + targetID
	if m, ok := c.pairCache[key]; ok {
		c.mu.Unlock()
		return m, nil
	}
	c.mu.Unlock()

	src, err := c.set.ByID(sourceID)
	if err != nil {
		return nil, err
	}
	tgt, err := c.set.ByID(targetID)
	if err != nil {
		return nil, err
	}

	m := buildPair(src, tgt)

	c.mu.Lock()
	c.pairCache[key] = m
	c.mu.Unlock()
	return m, nil
}

// Maps returns the candidate conversion maps for a language pair, one per
// (source variant, target variant) combination, ordered by variant ids.
// Languages with no layouts yield an empty slice.
func (c *Converter) Maps(source, target alphabet.Language) ([]Candidate, error) {
	if source == target {
		return nil, fmt.Errorf("layout: conversion within language %q", source)
	}

	c.mu.Lock()
	key := string(source) + "\x00" + string(target)
	if cands, ok := c.langCache[key]; ok {
		c.mu.Unlock()
		return cands, nil
	}
	c.mu.Unlock()

	var cands []Candidate
	for _, src := range c.set.ByLanguage(source) {
		for _, tgt := range c.set.ByLanguage(target) {
			cands = append(cands, Candidate{
				SourceLayout: src.ID,
				TargetLayout: tgt.ID,
				Map:          buildPair(src, tgt),
			})
		}
	}

	c.mu.Lock()
	c.langCache[key] = cands
	c.mu.Unlock()
	return cands, nil
}

func buildPair(src, tgt *Definition) ConversionMap {
	m := make(ConversionMap)
	for key, sc := range src.Keys {
		tc, ok := tgt.Keys[key]
		if !ok {
			continue
		}
		if sc.Base != 0 && tc.Base != 0 {
			m[sc.Base] = tc.Base
		}
		if sc.Shift != 0 && tc.Shift != 0 {
			m[sc.Shift] = tc.Shift
		}
	}
	return m
}
