package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relayout/internal/alphabet"
	"relayout/internal/layout"
)

func newTestGenerator(t *testing.T, cfg Config) *Generator {
	t.Helper()
	conv := layout.NewConverter(layout.BuiltinSet())
	g, err := NewGenerator(conv, BuiltinLexicons(), cfg)
	require.NoError(t, err)
	return g
}

func TestClassLabel(t *testing.T) {
	assert.Equal(t, "ru", Class{Intended: alphabet.Russian}.Label())
	assert.Equal(t, "ru_from_en", Class{Intended: alphabet.Russian, Typed: alphabet.English}.Label())
	assert.Equal(t, "he_from_ru", Class{Intended: alphabet.Hebrew, Typed: alphabet.Russian}.Label())
}

func TestGeneratorClasses(t *testing.T) {
	g := newTestGenerator(t, DefaultConfig())

	labels := map[string]bool{}
	for _, cls := range g.Classes() {
		labels[cls.Label()] = true
	}

	// Three languages: three pure classes plus six ordered pairs.
	assert.Len(t, labels, 9)
	for _, want := range []string{
		"en", "ru", "he",
		"ru_from_en", "en_from_ru",
		"he_from_en", "en_from_he",
		"he_from_ru", "ru_from_he",
	} {
		assert.True(t, labels[want], "missing class %s", want)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 42

	a := newTestGenerator(t, cfg).Generate(200)
	b := newTestGenerator(t, cfg).Generate(200)
	assert.Equal(t, a, b)

	cfg.Seed = 43
	c := newTestGenerator(t, cfg).Generate(200)
	assert.NotEqual(t, a, c)
}

func TestGenerateBalanceExtremes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Balance = 1.0
	for _, s := range newTestGenerator(t, cfg).Generate(100) {
		assert.NotContains(t, s.Label, "_from_", "balance 1.0 must yield only pure classes")
	}

	cfg.Balance = 0.0
	for _, s := range newTestGenerator(t, cfg).Generate(100) {
		assert.Contains(t, s.Label, "_from_", "balance 0.0 must yield only wrong-layout classes")
	}
}

func TestGenerateMaxWords(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxWords = 3
	for _, s := range newTestGenerator(t, cfg).Generate(300) {
		if s.Invalid {
			continue
		}
		words := strings.Fields(s.Text)
		assert.GreaterOrEqual(t, len(words), 1)
		assert.LessOrEqual(t, len(words), 3)
	}
}

func TestWrongLayoutSamplesAreGarbled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Balance = 0.0
	for _, s := range newTestGenerator(t, cfg).Generate(100) {
		require.False(t, s.Invalid)
		intendedTag, _, ok := strings.Cut(s.Label, "_from_")
		require.True(t, ok)
		intended, err := alphabet.Parse(intendedTag)
		require.NoError(t, err)

		// The rendered text must not read as the intended language: at
		// most a stray character survives the remap.
		normalized := intended.Normalize(s.Text)
		runes := len([]rune(strings.ReplaceAll(s.Text, " ", "")))
		assert.Less(t, len([]rune(normalized)), runes,
			"sample %q of class %s still reads as %s", s.Text, s.Label, intended)
	}
}

func TestFocusRestrictsClasses(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Focus = "ru_phonetic_yasherty"
	g := newTestGenerator(t, cfg)

	for _, cls := range g.Classes() {
		if cls.Pure() {
			assert.Equal(t, alphabet.Russian, cls.Intended)
			continue
		}
		touchesRussian := cls.Intended == alphabet.Russian || cls.Typed == alphabet.Russian
		assert.True(t, touchesRussian, "class %s does not touch the focus variant", cls.Label())
	}

	for _, s := range g.Generate(50) {
		assert.False(t, s.Invalid)
	}
}

func TestFocusUnknownVariant(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Focus = "qwertz_de"
	conv := layout.NewConverter(layout.BuiltinSet())
	_, err := NewGenerator(conv, BuiltinLexicons(), cfg)
	assert.Error(t, err)
}

func TestNewGeneratorValidation(t *testing.T) {
	conv := layout.NewConverter(layout.BuiltinSet())

	cfg := DefaultConfig()
	cfg.Balance = 1.5
	_, err := NewGenerator(conv, BuiltinLexicons(), cfg)
	assert.Error(t, err)

	cfg = DefaultConfig()
	cfg.MaxWords = 0
	_, err = NewGenerator(conv, BuiltinLexicons(), cfg)
	assert.Error(t, err)

	_, err = NewGenerator(conv, Lexicons{}, DefaultConfig())
	assert.Error(t, err)
}

func TestWriteCSV(t *testing.T) {
	samples := []Sample{
		{Text: "привет мир", Label: "ru"},
		{Text: "ghbdtn", Label: "ru_from_en"},
		{Text: "with, comma", Label: "en"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, samples))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"text", "label"}, records[0])
	assert.Equal(t, []string{"привет мир", "ru"}, records[1])
	assert.Equal(t, []string{"with, comma", "en"}, records[3])
}

type failingWriter struct{ err error }

func (w failingWriter) Write([]byte) (int, error) { return 0, w.err }

func TestWriteCSVReportsWriterErrors(t *testing.T) {
	samples := []Sample{{Text: "hello", Label: "en"}}

	err := WriteCSV(failingWriter{err: errors.New("disk full")}, samples)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestFilterValid(t *testing.T) {
	samples := []Sample{
		{Text: "ok", Label: "en"},
		{Text: InvalidText, Label: "ru_from_en", Invalid: true},
		{Text: "тоже ok", Label: "ru"},
	}

	valid, invalid := FilterValid(samples)
	assert.Equal(t, 1, invalid)
	require.Len(t, valid, 2)
	for _, s := range valid {
		assert.False(t, s.Invalid)
		assert.NotEqual(t, InvalidText, s.Text)
	}
}
