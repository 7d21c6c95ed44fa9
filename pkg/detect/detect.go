package detect

import (
	"errors"
	"sort"

	"relayout/internal/alphabet"
	"relayout/internal/layout"
)

// ErrNoModels is returned by Detect when no language model is loaded.
var ErrNoModels = errors.New("detect: no models loaded")

// Candidate is one possible reading of the input text.
type Candidate struct {
	// Intended is the language the text scores under.
	Intended alphabet.Language

	// TypedLayout and IntendedLayout identify the conversion applied.
	// Both are empty for a pure reading, where the text is scored as-is.
	TypedLayout    string
	IntendedLayout string

	// Text is the reconstruction: the input remapped from TypedLayout to
	// IntendedLayout, or the input itself for a pure reading.
	Text string

	// Score is the mean trigram log-probability of Text under the
	// Intended language's model. Higher is more plausible.
	Score float64
}

// Pure reports whether this candidate scored the text without conversion.
func (c Candidate) Pure() bool {
	return c.TypedLayout == ""
}

// Result is the outcome of Detect.
type Result struct {
	// Candidates holds every scorable reading, best first.
	Candidates []Candidate
}

// Best returns the top candidate. ok is false when no reading produced a
// score, which happens for text with no letters in any modeled alphabet.
func (r *Result) Best() (Candidate, bool) {
	if len(r.Candidates) == 0 {
		return Candidate{}, false
	}
	return r.Candidates[0], true
}

// Detect enumerates the plausible readings of text. For every language with
// a loaded model it scores the text as-is, plus each reconstruction obtained
// by remapping from another language's layouts. Readings with no trigrams in
// the target alphabet are dropped.
func (e *Engine) Detect(text string) (*Result, error) {
	langs := e.Languages()
	if len(langs) == 0 {
		return nil, ErrNoModels
	}

	var candidates []Candidate
	for _, intended := range langs {
		m := e.Model(intended)
		if m == nil {
			continue
		}

		// Pure reading: the text was typed on a matching layout.
		if score, ok := m.Score(text); ok {
			candidates = append(candidates, Candidate{
				Intended: intended,
				Text:     text,
				Score:    score,
			})
		}

		// Wrong-layout readings: the observed characters come from some
		// other language's layout, so map them back to the intended one.
		for _, typed := range e.layouts.Languages() {
			if typed == intended {
				continue
			}
			maps, err := e.converter.Maps(typed, intended)
			if err != nil {
				continue
			}
			for _, cand := range maps {
				reconstructed := layout.Remap(text, cand.Map)
				score, ok := m.Score(reconstructed)
				if !ok {
					continue
				}
				candidates = append(candidates, Candidate{
					Intended:       intended,
					TypedLayout:    cand.SourceLayout,
					IntendedLayout: cand.TargetLayout,
					Text:           reconstructed,
					Score:          score,
				})
			}
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	return &Result{Candidates: candidates}, nil
}
