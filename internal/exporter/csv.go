// Package exporter renders release records as downloadable CSV and
// XLSX documents.
package exporter

import (
	"encoding/csv"
	"fmt"
	"io"

	"modelpulse/internal/core"
)

// Header is the column layout shared by both export formats. It
// mirrors the dataset's own key names.
var Header = []string{"Model", "Organization", "Release Date"}

// WriteCSV writes records as CSV with a header row.
func WriteCSV(w io.Writer, records []core.ModelRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range records {
		row := []string{r.Model, r.Organization, r.ReleaseDate.Format(core.ReleaseDateLayout)}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %q: %w", r.Model, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
