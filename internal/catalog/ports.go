// Package catalog defines the ports for release dataset sources.
// Concrete sources (file, memory, sqlite, google) live in subpackages
// and in internal/storage.
package catalog

import (
	"context"

	"modelpulse/internal/core"
)

// Snapshot is one complete read of a release dataset. Records preserve
// source order; Skipped counts the records dropped because their
// release date did not parse.
type Snapshot struct {
	Records []core.ModelRecord
	Skipped int
}

// ReleaseReader is the inbound port every dataset source implements.
// Each call re-reads the source; callers own the returned snapshot.
type ReleaseReader interface {
	ListReleases(ctx context.Context) (Snapshot, error)
}
