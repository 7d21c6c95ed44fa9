package trigram

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"relayout/internal/alphabet"
	"relayout/internal/corpus"
)

// ErrNoTrigrams is returned when a corpus yields zero trigrams after
// normalization.
var ErrNoTrigrams = errors.New("trigram: no trigrams extracted from corpus")

// TrainerConfig controls corpus ingestion and smoothing.
type TrainerConfig struct {
	// SmoothingK is the add-k smoothing constant.
	SmoothingK float64

	// PruneMaxVocab triggers pruning when the distinct-trigram count exceeds
	// it; PruneKeep is how many of the most frequent trigrams survive a
	// prune. Zero disables pruning.
	PruneMaxVocab int
	PruneKeep     int

	// ProgressEvery emits a progress log every that many corpus lines.
	// Zero disables progress reporting.
	ProgressEvery int64
}

// DefaultTrainerConfig returns the standard training parameters.
func DefaultTrainerConfig() TrainerConfig {
	return TrainerConfig{
		SmoothingK:    1.0,
		PruneMaxVocab: 1_500_000,
		PruneKeep:     600_000,
		ProgressEvery: 100_000,
	}
}

// Train builds a trigram model for lang from the corpus at path, one phrase
// per line. An empty extraction is fatal for this language; batch callers
// must not let it abort sibling languages.
func Train(path string, lang alphabet.Language, cfg TrainerConfig, log *slog.Logger) (*Model, error) {
	if log == nil {
		log = slog.Default()
	}
	if cfg.SmoothingK <= 0 {
		return nil, fmt.Errorf("trigram: smoothing_k %v must be positive", cfg.SmoothingK)
	}

	counts := make(map[string]int64)
	var phrases int64

	err := corpus.EachLine(path, cfg.ProgressEvery, func(lines int64) {
		log.Info("training progress",
			"lang", lang, "lines", lines, "unique_trigrams", len(counts))
	}, func(line string) error {
		phrases++
		accumulate(counts, lang.Normalize(line))
		if cfg.PruneMaxVocab > 0 && len(counts) > cfg.PruneMaxVocab {
			before := len(counts)
			counts = pruneTop(counts, cfg.PruneKeep)
			log.Info("pruned trigram vocabulary",
				"lang", lang, "before", before, "after", len(counts))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(counts) == 0 {
		return nil, fmt.Errorf("%w (%s, lang %s)", ErrNoTrigrams, path, lang)
	}

	var total int64
	for _, c := range counts {
		total += c
	}

	log.Info("corpus processed",
		"lang", lang, "phrases", phrases,
		"unique_trigrams", len(counts), "total_count", total)

	return build(lang, counts, total, cfg.SmoothingK), nil
}

// TrainLines builds a model from in-memory phrases. Used by tests and by
// callers that already hold a normalized corpus.
func TrainLines(lines []string, lang alphabet.Language, smoothingK float64) (*Model, error) {
	counts := make(map[string]int64)
	for _, line := range lines {
		accumulate(counts, lang.Normalize(line))
	}
	if len(counts) == 0 {
		return nil, ErrNoTrigrams
	}
	var total int64
	for _, c := range counts {
		total += c
	}
	return build(lang, counts, total, smoothingK), nil
}

// accumulate adds every overlapping 3-character substring of a normalized
// line. Accumulation is commutative, so ingestion order never affects the
// resulting counts.
func accumulate(counts map[string]int64, normalized string) {
	runes := []rune(normalized)
	if len(runes) < Order {
		return
	}
	for i := 0; i+Order <= len(runes); i++ {
		counts[string(runes[i:i+Order])]++
	}
}

// pruneTop keeps the n most frequent trigrams, bounding memory on huge
// corpora. Counts for dropped trigrams are lost, matching the bounded-memory
// contract.
func pruneTop(counts map[string]int64, n int) map[string]int64 {
	type entry struct {
		tri string
		c   int64
	}
	entries := make([]entry, 0, len(counts))
	for tri, c := range counts {
		entries = append(entries, entry{tri, c})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].c != entries[j].c {
			return entries[i].c > entries[j].c
		}
		return entries[i].tri < entries[j].tri
	})
	if n < len(entries) {
		entries = entries[:n]
	}
	kept := make(map[string]int64, len(entries))
	for _, e := range entries {
		kept[e.tri] = e.c
	}
	return kept
}

func build(lang alphabet.Language, counts map[string]int64, total int64, k float64) *Model {
	vocab := len(counts)
	denom := float64(total) + k*float64(vocab)

	logprobs := make(map[string]float64, vocab)
	for tri, c := range counts {
		logprobs[tri] = round2(math.Log((float64(c) + k) / denom))
	}

	m := &Model{
		Lang:           lang,
		N:              Order,
		Version:        Version,
		SmoothingK:     k,
		TotalCount:     total,
		UniqueTrigrams: vocab,
		Trigrams:       logprobs,
	}
	m.computeFloor()
	return m
}

// round2 rounds to 2 decimal places, the artifact's storage precision.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
