// Package trigram implements the statistical language-identification model:
// training trigram log-probabilities from corpora with add-k smoothing, and
// scoring arbitrary text against a trained model.
package trigram

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"relayout/internal/alphabet"
)

// Order is the n-gram order. The whole design is built around overlapping
// 3-character substrings.
const Order = 3

// Version is the current model artifact version.
const Version = 1

//go:embed model.schema.json
var modelSchema []byte

// Model holds trigram log-probabilities for one language.
//
// Stored log-probabilities are rounded to 2 decimals, an intentional
// size/precision trade-off. The distribution is not renormalized after
// rounding, so it does not sum exactly to 1 over the observed plus unseen
// support; consumers must tolerate the quantization.
type Model struct {
	Lang           alphabet.Language  `json:"lang"`
	N              int                `json:"n"`
	Version        int                `json:"version"`
	SmoothingK     float64            `json:"smoothing_k"`
	TotalCount     int64              `json:"total_count"`
	UniqueTrigrams int                `json:"unique_trigrams"`
	Trigrams       map[string]float64 `json:"trigrams"`

	floor float64
}

// Floor is the log-probability assigned to trigrams absent from the model:
// the c=0 case of the same add-k formula, ln(k / (totalCount + k*vocabSize)).
// Without it, scores of texts with different unseen-trigram counts are not
// comparable.
func (m *Model) Floor() float64 { return m.floor }

// Lookup returns the log-probability for a trigram, falling back to the
// floor for unseen trigrams.
func (m *Model) Lookup(tri string) float64 {
	if lp, ok := m.Trigrams[tri]; ok {
		return lp
	}
	return m.floor
}

func (m *Model) computeFloor() {
	m.floor = math.Log(m.SmoothingK / (float64(m.TotalCount) + m.SmoothingK*float64(m.UniqueTrigrams)))
}

// Validate checks the model's required fields. Structural problems are
// errors; positive stored log-probabilities are warnings only, returned for
// the caller to log and flag for review.
func (m *Model) Validate() ([]string, error) {
	if m.Lang == "" {
		return nil, fmt.Errorf("trigram: model missing lang")
	}
	if _, err := alphabet.Parse(string(m.Lang)); err != nil {
		return nil, fmt.Errorf("trigram: model: %w", err)
	}
	if m.N != Order {
		return nil, fmt.Errorf("trigram: model order %d, want %d", m.N, Order)
	}
	if m.SmoothingK <= 0 {
		return nil, fmt.Errorf("trigram: smoothing_k %v must be positive", m.SmoothingK)
	}
	if len(m.Trigrams) == 0 {
		return nil, fmt.Errorf("trigram: model has no trigrams")
	}
	if m.UniqueTrigrams != len(m.Trigrams) {
		return nil, fmt.Errorf("trigram: unique_trigrams %d does not match table size %d",
			m.UniqueTrigrams, len(m.Trigrams))
	}

	var warnings []string
	positive := 0
	for tri, lp := range m.Trigrams {
		if lp > 0 {
			positive++
			if positive <= 3 {
				warnings = append(warnings, fmt.Sprintf("trigram %q has positive log-probability %v", tri, lp))
			}
		}
	}
	if positive > 3 {
		warnings = append(warnings, fmt.Sprintf("%d further trigrams have positive log-probabilities", positive-3))
	}
	return warnings, nil
}

// Save writes the model artifact as JSON.
func (m *Model) Save(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("trigram: encode model: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("trigram: write model: %w", err)
	}
	return nil
}

// Load reads a model artifact, validates it against the artifact schema and
// the structural rules, and prepares it for scoring. Returned warnings are
// non-fatal and should be logged.
func Load(path string) (*Model, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("trigram: read model: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a model artifact from raw JSON.
func Parse(data []byte) (*Model, []string, error) {
	if err := validateArtifact(data); err != nil {
		return nil, nil, err
	}

	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, nil, fmt.Errorf("trigram: decode model: %w", err)
	}

	warnings, err := m.Validate()
	if err != nil {
		return nil, nil, err
	}
	m.computeFloor()
	return &m, warnings, nil
}

func validateArtifact(data []byte) error {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("model.schema.json", bytes.NewReader(modelSchema)); err != nil {
		return fmt.Errorf("trigram: schema: %w", err)
	}
	schema, err := compiler.Compile("model.schema.json")
	if err != nil {
		return fmt.Errorf("trigram: schema: %w", err)
	}

	var instance any
	if err := json.Unmarshal(data, &instance); err != nil {
		return fmt.Errorf("trigram: decode model: %w", err)
	}
	if err := schema.Validate(instance); err != nil {
		return fmt.Errorf("trigram: model artifact: %w", err)
	}
	return nil
}
