package layout

import "strings"

// Remap applies a conversion map to text character-wise. Characters without
// an entry pass through unchanged. The result has exactly as many characters
// as the input, in the same order; remapping never inserts, deletes, or
// reorders.
func Remap(text string, m ConversionMap) string {
	if len(m) == 0 {
		return text
	}
	return strings.Map(func(r rune) rune {
		if out, ok := m[r]; ok {
			return out
		}
		return r
	}, text)
}
