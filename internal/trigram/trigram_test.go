package trigram

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relayout/internal/alphabet"
)

func TestExtract(t *testing.T) {
	assert.Equal(t, []string{"hel", "ell", "llo"}, Extract("hello"))
	assert.Equal(t, []string{"при", "рив"}, Extract("прив"))
	assert.Nil(t, Extract("hi"))
	assert.Nil(t, Extract(""))
}

func TestTrainLinesCounts(t *testing.T) {
	m, err := TrainLines([]string{"aaab", "aaa"}, alphabet.English, 1.0)
	require.NoError(t, err)

	// "aaab" yields aaa, aab; "aaa" yields aaa. Three trigrams total,
	// two distinct.
	assert.Equal(t, int64(3), m.TotalCount)
	assert.Equal(t, 2, m.UniqueTrigrams)

	// P(aaa) = (2+1)/(3+1*2), P(aab) = (1+1)/(3+1*2), rounded to 2 decimals.
	assert.InDelta(t, round2(math.Log(3.0/5.0)), m.Trigrams["aaa"], 1e-9)
	assert.InDelta(t, round2(math.Log(2.0/5.0)), m.Trigrams["aab"], 1e-9)
}

func TestTrainLinesNormalizes(t *testing.T) {
	// Punctuation and foreign letters are stripped before extraction, so
	// "a-b-c" and "abc" count the same trigram.
	m, err := TrainLines([]string{"a-b-c", "ABC", "привет"}, alphabet.English, 1.0)
	require.NoError(t, err)

	assert.Equal(t, 1, m.UniqueTrigrams)
	assert.Equal(t, int64(2), m.TotalCount)
	_, seen := m.Trigrams["при"]
	assert.False(t, seen, "Russian trigrams must not leak into an English model")
}

func TestTrainLinesEmpty(t *testing.T) {
	_, err := TrainLines([]string{"hi", "!!!", ""}, alphabet.English, 1.0)
	assert.ErrorIs(t, err, ErrNoTrigrams)
}

func TestFloorBelowSeen(t *testing.T) {
	m, err := TrainLines([]string{"hello world phrases", "more hello text"}, alphabet.English, 1.0)
	require.NoError(t, err)

	// The unseen floor is the c=0 case, so every stored log-probability
	// computed from c >= 1 must sit above it (modulo rounding).
	for tri, lp := range m.Trigrams {
		assert.GreaterOrEqual(t, lp+0.01, m.Floor(), "trigram %q below floor", tri)
	}
	assert.Equal(t, m.Floor(), m.Lookup("zzz"))
}

func TestTrainOrderIndependent(t *testing.T) {
	a, err := TrainLines([]string{"hello world", "goodbye world"}, alphabet.English, 1.0)
	require.NoError(t, err)
	b, err := TrainLines([]string{"goodbye world", "hello world"}, alphabet.English, 1.0)
	require.NoError(t, err)

	assert.Equal(t, a.Trigrams, b.Trigrams)
	assert.Equal(t, a.TotalCount, b.TotalCount)
}

func TestPruneTop(t *testing.T) {
	counts := map[string]int64{"aaa": 5, "bbb": 3, "ccc": 3, "ddd": 1}
	kept := pruneTop(counts, 2)

	// Ties break by trigram, so bbb wins over ccc.
	assert.Equal(t, map[string]int64{"aaa": 5, "bbb": 3}, kept)
}

func TestScoreMean(t *testing.T) {
	m, err := TrainLines([]string{"aaaa"}, alphabet.English, 1.0)
	require.NoError(t, err)

	// Single distinct trigram: any all-seen text scores exactly its
	// log-probability.
	score, ok := m.Score("aaa")
	require.True(t, ok)
	assert.InDelta(t, m.Trigrams["aaa"], score, 1e-9)

	// Text with unseen trigrams scores lower.
	lower, ok := m.Score("abc")
	require.True(t, ok)
	assert.Less(t, lower, score)
}

func TestScoreUnscorable(t *testing.T) {
	m, err := TrainLines([]string{"hello world"}, alphabet.English, 1.0)
	require.NoError(t, err)

	_, ok := m.Score("привет")
	assert.False(t, ok)
	_, ok = m.Score("42!")
	assert.False(t, ok)
	_, ok = m.Score("hi")
	assert.False(t, ok)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	m, err := TrainLines([]string{"hello world", "well worn words"}, alphabet.English, 1.0)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "trigram_en.json")
	require.NoError(t, m.Save(path))

	loaded, warnings, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	assert.Equal(t, m.Lang, loaded.Lang)
	assert.Equal(t, m.TotalCount, loaded.TotalCount)
	assert.Equal(t, m.UniqueTrigrams, loaded.UniqueTrigrams)
	assert.Equal(t, m.Trigrams, loaded.Trigrams)
	assert.InDelta(t, m.Floor(), loaded.Floor(), 1e-12)
}

func TestLoadMissingFile(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestParseRejectsBadArtifacts(t *testing.T) {
	cases := []struct {
		name string
		json string
	}{
		{"not json", `{`},
		{"missing fields", `{"lang": "en"}`},
		{"wrong order", `{"lang":"en","n":4,"version":1,"smoothing_k":1,"total_count":1,"unique_trigrams":1,"trigrams":{"abc":-1.0}}`},
		{"unknown lang", `{"lang":"de","n":3,"version":1,"smoothing_k":1,"total_count":1,"unique_trigrams":1,"trigrams":{"abc":-1.0}}`},
		{"zero smoothing", `{"lang":"en","n":3,"version":1,"smoothing_k":0,"total_count":1,"unique_trigrams":1,"trigrams":{"abc":-1.0}}`},
		{"count mismatch", `{"lang":"en","n":3,"version":1,"smoothing_k":1,"total_count":1,"unique_trigrams":7,"trigrams":{"abc":-1.0}}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Parse([]byte(tc.json))
			assert.Error(t, err)
		})
	}
}

func TestParseWarnsOnPositiveLogProbs(t *testing.T) {
	artifact := `{"lang":"en","n":3,"version":1,"smoothing_k":1,"total_count":2,"unique_trigrams":2,"trigrams":{"abc":0.5,"bcd":-1.0}}`

	m, warnings, err := Parse([]byte(artifact))
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "abc")
	assert.NotNil(t, m)
}

func TestTrainFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "en.txt")
	content := "hello world\n\nanother line of text\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	m, err := Train(path, alphabet.English, DefaultTrainerConfig(), nil)
	require.NoError(t, err)
	assert.Equal(t, alphabet.English, m.Lang)
	assert.Greater(t, m.UniqueTrigrams, 0)
}
