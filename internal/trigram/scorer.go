package trigram

// Extract returns every overlapping 3-character trigram of already-normalized
// text, in order.
func Extract(normalized string) []string {
	runes := []rune(normalized)
	if len(runes) < Order {
		return nil
	}
	tris := make([]string, 0, len(runes)-Order+1)
	for i := 0; i+Order <= len(runes); i++ {
		tris = append(tris, string(runes[i:i+Order]))
	}
	return tris
}

// Score normalizes text exactly as training does, extracts its trigrams, and
// returns the mean log-probability under the model, using the floor for
// unseen trigrams. The mean keeps scores comparable across texts of
// different lengths. ok is false when the text yields no trigrams at all;
// such a text cannot be scored.
func (m *Model) Score(text string) (score float64, ok bool) {
	tris := Extract(m.Lang.Normalize(text))
	if len(tris) == 0 {
		return 0, false
	}
	var sum float64
	for _, tri := range tris {
		sum += m.Lookup(tri)
	}
	return sum / float64(len(tris)), true
}
