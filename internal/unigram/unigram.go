// Package unigram trains compact top-N word frequency lists from corpora.
// The lists disambiguate layout conversions that produce duplicate characters
// (notably Hebrew QWERTY variants) and serve as corpus-backed seed lexicons
// for dataset generation.
package unigram

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"

	"relayout/internal/alphabet"
	"relayout/internal/corpus"
)

// ErrNoTokens is returned when a corpus yields zero usable words.
var ErrNoTokens = errors.New("unigram: no tokens extracted from corpus")

// TrainerConfig controls word extraction and memory bounds.
type TrainerConfig struct {
	// TopN is how many words the final list keeps, most frequent first.
	TopN int

	// MinLen drops tokens shorter than this many characters.
	MinLen int

	// PruneMaxVocab triggers pruning when the distinct-word count exceeds
	// it; PruneKeep is how many words survive a prune.
	PruneMaxVocab int
	PruneKeep     int

	// ProgressEvery emits a progress log every that many corpus lines.
	ProgressEvery int64
}

// DefaultTrainerConfig returns the standard word-list parameters.
func DefaultTrainerConfig() TrainerConfig {
	return TrainerConfig{
		TopN:          200_000,
		MinLen:        2,
		PruneMaxVocab: 1_500_000,
		PruneKeep:     600_000,
		ProgressEvery: 100_000,
	}
}

// Entry is one word with its corpus count.
type Entry struct {
	Word  string
	Count int64
}

// List is a word frequency list ordered most frequent first.
type List struct {
	Lang    alphabet.Language
	Entries []Entry
}

// Words returns just the words, in frequency order.
func (l *List) Words() []string {
	words := make([]string, len(l.Entries))
	for i, e := range l.Entries {
		words[i] = e.Word
	}
	return words
}

// Train builds a word frequency list for lang from the corpus at path.
func Train(path string, lang alphabet.Language, cfg TrainerConfig, log *slog.Logger) (*List, error) {
	if log == nil {
		log = slog.Default()
	}

	counts := make(map[string]int64)
	var tokens int64

	err := corpus.EachLine(path, cfg.ProgressEvery, func(lines int64) {
		log.Info("unigram progress", "lang", lang, "lines", lines, "unique_words", len(counts))
	}, func(line string) error {
		for _, w := range lang.Words(line) {
			if len([]rune(w)) < cfg.MinLen {
				continue
			}
			counts[w]++
			tokens++
		}
		if cfg.PruneMaxVocab > 0 && len(counts) > cfg.PruneMaxVocab {
			before := len(counts)
			counts = pruneTop(counts, cfg.PruneKeep)
			log.Info("pruned word vocabulary", "lang", lang, "before", before, "after", len(counts))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(counts) == 0 {
		return nil, fmt.Errorf("%w (%s, lang %s)", ErrNoTokens, path, lang)
	}

	log.Info("unigram corpus processed", "lang", lang, "tokens", tokens, "unique_words", len(counts))

	entries := sorted(counts)
	if cfg.TopN > 0 && cfg.TopN < len(entries) {
		entries = entries[:cfg.TopN]
	}
	return &List{Lang: lang, Entries: entries}, nil
}

// Save writes the list as word<TAB>count, most frequent first.
func (l *List) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unigram: write list: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, e := range l.Entries {
		fmt.Fprintf(w, "%s\t%d\n", e.Word, e.Count)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("unigram: write list: %w", err)
	}
	return nil
}

// LoadList reads a word<TAB>count list produced by Save.
func LoadList(path string, lang alphabet.Language) (*List, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unigram: read list: %w", err)
	}
	defer f.Close()

	var entries []Entry
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		word, countStr, found := strings.Cut(line, "\t")
		if !found {
			return nil, fmt.Errorf("unigram: %s: malformed line %q", path, line)
		}
		count, err := strconv.ParseInt(countStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("unigram: %s: bad count in %q: %w", path, line, err)
		}
		entries = append(entries, Entry{Word: word, Count: count})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("unigram: read list: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w (%s)", ErrNoTokens, path)
	}
	return &List{Lang: lang, Entries: entries}, nil
}

func pruneTop(counts map[string]int64, n int) map[string]int64 {
	entries := sorted(counts)
	if n < len(entries) {
		entries = entries[:n]
	}
	kept := make(map[string]int64, len(entries))
	for _, e := range entries {
		kept[e.Word] = e.Count
	}
	return kept
}

func sorted(counts map[string]int64) []Entry {
	entries := make([]Entry, 0, len(counts))
	for w, c := range counts {
		entries = append(entries, Entry{Word: w, Count: c})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Word < entries[j].Word
	})
	return entries
}
