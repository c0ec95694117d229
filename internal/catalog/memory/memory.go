// Package memory implements an in-memory catalog source, used by tests
// and as the zero-config demo backend.
package memory

import (
	"context"
	"sync"
	"time"

	"modelpulse/internal/catalog"
	"modelpulse/internal/core"
)

type Store struct {
	mu      sync.Mutex
	records []core.ModelRecord
	skipped int
}

func New(records []core.ModelRecord) *Store {
	s := &Store{}
	s.records = append(s.records, records...)
	return s
}

// Demo returns a store seeded with a handful of well-known releases,
// so the backend shows something without any configuration.
func Demo() *Store {
	d := func(y int, m time.Month, day int) time.Time {
		return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
	}
	return New([]core.ModelRecord{
		{Model: "GPT-4", Organization: "OpenAI", ReleaseDate: d(2023, time.March, 14)},
		{Model: "Claude 2", Organization: "Anthropic", ReleaseDate: d(2023, time.July, 11)},
		{Model: "Llama 2", Organization: "Meta", ReleaseDate: d(2023, time.July, 18)},
		{Model: "Mistral 7B", Organization: "Mistral AI", ReleaseDate: d(2023, time.September, 27)},
		{Model: "Gemini 1.0", Organization: "Google", ReleaseDate: d(2023, time.December, 6)},
		{Model: "Claude 3", Organization: "Anthropic", ReleaseDate: d(2024, time.March, 4)},
		{Model: "GPT-4o", Organization: "OpenAI", ReleaseDate: d(2024, time.May, 13)},
	})
}

// NewWithSkipped seeds a store that also reports skipped records, for
// exercising the degraded-load path.
func NewWithSkipped(records []core.ModelRecord, skipped int) *Store {
	s := New(records)
	s.skipped = skipped
	return s
}

// ListReleases implements catalog.ReleaseReader.
func (s *Store) ListReleases(_ context.Context) (catalog.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.ModelRecord, len(s.records))
	copy(out, s.records)
	return catalog.Snapshot{Records: out, Skipped: s.skipped}, nil
}
