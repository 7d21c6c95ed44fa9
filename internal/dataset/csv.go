package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteCSV writes samples as CSV with a text,label header. Fields containing
// a comma or quote are double-quoted with internal quotes doubled, per
// encoding/csv. Invalid sentinel samples are written too; use FilterValid
// first when the consumer must not see them.
func WriteCSV(w io.Writer, samples []Sample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"text", "label"}); err != nil {
		return fmt.Errorf("dataset: write csv header: %w", err)
	}
	for _, s := range samples {
		if err := cw.Write([]string{s.Text, s.Label}); err != nil {
			return fmt.Errorf("dataset: write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("dataset: flush csv: %w", err)
	}
	return nil
}

// FilterValid splits samples into valid rows and the count of invalid
// sentinel rows.
func FilterValid(samples []Sample) (valid []Sample, invalid int) {
	valid = make([]Sample, 0, len(samples))
	for _, s := range samples {
		if s.Invalid {
			invalid++
			continue
		}
		valid = append(valid, s)
	}
	return valid, invalid
}
