// Package file implements a catalog.ReleaseReader over a JSON dataset
// file: an array of objects with the string keys "Model",
// "Organization" and "Release Date" (YYYY-MM-DD).
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"modelpulse/internal/catalog"
	"modelpulse/internal/core"
)

// Source reads release records from a JSON file. Reads are re-executed
// on every call; a snapshot keyed by file modification time is kept as
// a pure optimization and never changes observable behavior.
type Source struct {
	path string

	mu       sync.Mutex
	modTime  time.Time
	snapshot catalog.Snapshot
	cached   bool
}

func New(path string) *Source {
	return &Source{path: path}
}

// releaseRow mirrors one dataset element. Pointers distinguish a
// missing key from an empty value.
type releaseRow struct {
	Model        *string `json:"Model"`
	Organization *string `json:"Organization"`
	ReleaseDate  *string `json:"Release Date"`
}

// ListReleases implements catalog.ReleaseReader.
func (s *Source) ListReleases(ctx context.Context) (catalog.Snapshot, error) {
	info, err := os.Stat(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return catalog.Snapshot{}, fmt.Errorf("%s: %w", s.path, catalog.ErrNotFound)
	}
	if err != nil {
		return catalog.Snapshot{}, fmt.Errorf("stat dataset %s: %w", s.path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached && info.ModTime().Equal(s.modTime) {
		slog.DebugContext(ctx, "Dataset snapshot reused", "path", s.path, "mod_time", s.modTime)
		return copySnapshot(s.snapshot), nil
	}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		return catalog.Snapshot{}, fmt.Errorf("read dataset %s: %w", s.path, err)
	}

	snap, err := Parse(s.path, raw)
	if err != nil {
		return catalog.Snapshot{}, err
	}
	if snap.Skipped > 0 {
		slog.WarnContext(ctx, "Dataset records skipped",
			"path", s.path,
			"skipped", snap.Skipped,
			"loaded", len(snap.Records))
	}

	s.modTime = info.ModTime()
	s.snapshot = snap
	s.cached = true
	return copySnapshot(snap), nil
}

// Parse decodes a JSON dataset into a snapshot. Shape problems (not an
// array, missing key, non-string value) are fatal; an unparsable date
// only skips that record and increments Skipped.
func Parse(source string, raw []byte) (catalog.Snapshot, error) {
	var rows []releaseRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		return catalog.Snapshot{}, &catalog.MalformedInputError{
			Source: source,
			Detail: err.Error(),
		}
	}

	snap := catalog.Snapshot{}
	for i, row := range rows {
		if key := missingKey(row); key != "" {
			return catalog.Snapshot{}, &catalog.MalformedInputError{
				Source: source,
				Detail: fmt.Sprintf("element %d: missing or empty key %q", i, key),
			}
		}

		released, err := time.Parse(core.ReleaseDateLayout, *row.ReleaseDate)
		if err != nil {
			snap.Skipped++
			continue
		}

		snap.Records = append(snap.Records, core.ModelRecord{
			Model:        *row.Model,
			Organization: *row.Organization,
			ReleaseDate:  released,
		})
	}
	return snap, nil
}

func missingKey(row releaseRow) string {
	switch {
	case row.Model == nil || *row.Model == "":
		return "Model"
	case row.Organization == nil || *row.Organization == "":
		return "Organization"
	case row.ReleaseDate == nil:
		return "Release Date"
	}
	return ""
}

func copySnapshot(snap catalog.Snapshot) catalog.Snapshot {
	out := catalog.Snapshot{Skipped: snap.Skipped}
	if snap.Records != nil {
		out.Records = make([]core.ModelRecord, len(snap.Records))
		copy(out.Records, snap.Records)
	}
	return out
}
