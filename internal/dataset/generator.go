// Package dataset generates labeled (text, class) rows for training a
// wrong-layout text classifier. Pure classes carry a language's own words;
// wrong-layout classes carry words remapped through an
// intended-to-typed-layout conversion map, rendering what actually appears
// on screen when the wrong layout is active.
package dataset

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"relayout/internal/alphabet"
	"relayout/internal/layout"
)

// InvalidText marks a sample that could not be generated because no
// conversion map exists for its class. Bulk runs emit the sentinel instead
// of aborting; callers must count and log these, never accept them as data.
const InvalidText = "__invalid__"

// Class is one dataset label: either a bare language tag ("ru") or
// "<intended>_from_<typed>" ("ru_from_en": text the user meant in Russian,
// rendered by an English layout).
type Class struct {
	Intended alphabet.Language
	Typed    alphabet.Language // empty for pure classes
}

// Pure reports whether the class is an untransformed language class.
func (c Class) Pure() bool { return c.Typed == "" }

// Label returns the class label used in dataset rows.
func (c Class) Label() string {
	if c.Pure() {
		return string(c.Intended)
	}
	return fmt.Sprintf("%s_from_%s", c.Intended, c.Typed)
}

// Sample is one generated dataset row.
type Sample struct {
	Text    string
	Label   string
	Invalid bool
}

// Config controls generation. The zero value is not usable; start from
// DefaultConfig.
type Config struct {
	// Balance is the share of pure-class samples, in [0,1]. 1.0 means only
	// pure classes; the default is an even split.
	Balance float64

	// MaxWords is the upper bound of the 1..MaxWords words drawn per sample.
	MaxWords int

	// Seed fixes the random source; generation is deterministic for a fixed
	// seed and lexicon set.
	Seed int64

	// Focus, when set to a layout variant id, restricts generation to
	// classes touching that variant.
	Focus string
}

// DefaultConfig returns the standard generation parameters.
func DefaultConfig() Config {
	return Config{
		Balance:  0.5,
		MaxWords: 2,
		Seed:     1,
	}
}

// Generator produces dataset samples from a converter and seed lexicons.
type Generator struct {
	cfg     Config
	lex     Lexicons
	rng     *rand.Rand
	pure    []Class
	wrong   []Class
	byClass map[string][]layout.Candidate
}

// NewGenerator prepares a generator over every language that has both a seed
// lexicon and at least one layout. Candidate conversion maps are resolved up
// front; classes whose map list is empty stay requestable and yield invalid
// sentinel samples.
func NewGenerator(conv *layout.Converter, lex Lexicons, cfg Config) (*Generator, error) {
	if cfg.Balance < 0 || cfg.Balance > 1 {
		return nil, fmt.Errorf("dataset: balance %v outside [0,1]", cfg.Balance)
	}
	if cfg.MaxWords < 1 {
		return nil, fmt.Errorf("dataset: max words %d must be at least 1", cfg.MaxWords)
	}

	var langs []alphabet.Language
	for _, lang := range conv.Set().Languages() {
		if len(lex[lang]) > 0 {
			langs = append(langs, lang)
		}
	}
	if len(langs) == 0 {
		return nil, fmt.Errorf("dataset: no language has both layouts and a seed lexicon")
	}
	sort.Slice(langs, func(i, j int) bool { return langs[i] < langs[j] })

	g := &Generator{
		cfg:     cfg,
		lex:     lex,
		rng:     rand.New(rand.NewSource(cfg.Seed)),
		byClass: make(map[string][]layout.Candidate),
	}

	for _, intended := range langs {
		pure := Class{Intended: intended}
		if g.classInFocus(conv, pure) {
			g.pure = append(g.pure, pure)
		}
		for _, typed := range langs {
			if typed == intended {
				continue
			}
			cls := Class{Intended: intended, Typed: typed}
			cands, err := conv.Maps(intended, typed)
			if err != nil {
				return nil, err
			}
			cands = g.filterFocus(cands)
			if cfg.Focus != "" && len(cands) == 0 {
				continue
			}
			g.wrong = append(g.wrong, cls)
			g.byClass[cls.Label()] = cands
		}
	}

	if len(g.pure) == 0 && len(g.wrong) == 0 {
		return nil, fmt.Errorf("dataset: focus %q matches no class", cfg.Focus)
	}
	return g, nil
}

// Classes returns every class the generator can emit, pure first.
func (g *Generator) Classes() []Class {
	out := append([]Class(nil), g.pure...)
	return append(out, g.wrong...)
}

// Next generates one sample.
func (g *Generator) Next() Sample {
	usePure := len(g.wrong) == 0 ||
		(len(g.pure) > 0 && g.rng.Float64() < g.cfg.Balance)

	if usePure {
		cls := g.pure[g.rng.Intn(len(g.pure))]
		return Sample{Text: g.phrase(cls.Intended), Label: cls.Label()}
	}

	cls := g.wrong[g.rng.Intn(len(g.wrong))]
	cands := g.byClass[cls.Label()]
	if len(cands) == 0 {
		return Sample{Text: InvalidText, Label: cls.Label(), Invalid: true}
	}

	// One random variant combination per sample, so every variant pair is
	// represented in the output.
	cand := cands[g.rng.Intn(len(cands))]
	return Sample{
		Text:  layout.Remap(g.phrase(cls.Intended), cand.Map),
		Label: cls.Label(),
	}
}

// Generate produces n samples.
func (g *Generator) Generate(n int) []Sample {
	samples := make([]Sample, n)
	for i := range samples {
		samples[i] = g.Next()
	}
	return samples
}

// phrase draws 1..MaxWords random words from the language's lexicon.
func (g *Generator) phrase(lang alphabet.Language) string {
	words := g.lex[lang]
	n := 1 + g.rng.Intn(g.cfg.MaxWords)
	parts := make([]string, n)
	for i := range parts {
		parts[i] = words[g.rng.Intn(len(words))]
	}
	return strings.Join(parts, " ")
}

func (g *Generator) classInFocus(conv *layout.Converter, cls Class) bool {
	if g.cfg.Focus == "" {
		return true
	}
	for _, def := range conv.Set().ByLanguage(cls.Intended) {
		if def.ID == g.cfg.Focus {
			return true
		}
	}
	return false
}

func (g *Generator) filterFocus(cands []layout.Candidate) []layout.Candidate {
	if g.cfg.Focus == "" {
		return cands
	}
	var kept []layout.Candidate
	for _, c := range cands {
		if c.SourceLayout == g.cfg.Focus || c.TargetLayout == g.cfg.Focus {
			kept = append(kept, c)
		}
	}
	return kept
}
