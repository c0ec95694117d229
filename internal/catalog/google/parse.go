package google

import (
	"fmt"
	"strings"
	"time"

	"modelpulse/internal/catalog"
	"modelpulse/internal/core"
)

// parseReleaseRows converts a values matrix (as returned by the Sheets
// API) into a snapshot. The first row must be a header containing
// Model, Organization and Release Date; column order is free.
func parseReleaseRows(sheet string, values [][]interface{}) (catalog.Snapshot, error) {
	if len(values) == 0 {
		return catalog.Snapshot{}, nil
	}

	headers := toStrings(values[0])
	colModel := indexOf(headers, "Model")
	colOrg := indexOf(headers, "Organization")
	colDate := indexOf(headers, "Release Date")
	if colModel == -1 || colOrg == -1 || colDate == -1 {
		missing := make([]string, 0, 3)
		if colModel == -1 {
			missing = append(missing, "Model")
		}
		if colOrg == -1 {
			missing = append(missing, "Organization")
		}
		if colDate == -1 {
			missing = append(missing, "Release Date")
		}
		return catalog.Snapshot{}, &catalog.MalformedInputError{
			Source: sheet,
			Detail: fmt.Sprintf("header missing %s; got headers=%v", strings.Join(missing, ","), headers),
		}
	}

	snap := catalog.Snapshot{}
	for i := 1; i < len(values); i++ {
		row := toStrings(values[i])
		model := strings.TrimSpace(safeGet(row, colModel))
		org := strings.TrimSpace(safeGet(row, colOrg))
		dateStr := strings.TrimSpace(safeGet(row, colDate))
		if model == "" && org == "" && dateStr == "" {
			// Blank spreadsheet row, not data.
			continue
		}
		if model == "" || org == "" {
			return catalog.Snapshot{}, &catalog.MalformedInputError{
				Source: sheet,
				Detail: fmt.Sprintf("row %d: missing Model or Organization", i+1),
			}
		}

		released, err := time.Parse(core.ReleaseDateLayout, dateStr)
		if err != nil {
			snap.Skipped++
			continue
		}
		snap.Records = append(snap.Records, core.ModelRecord{
			Model:        model,
			Organization: org,
			ReleaseDate:  released,
		})
	}
	return snap, nil
}

func toStrings(row []interface{}) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = fmt.Sprintf("%v", v)
	}
	return out
}

func indexOf(headers []string, name string) int {
	for i, h := range headers {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}

func safeGet(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
