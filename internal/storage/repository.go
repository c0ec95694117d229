// Package storage provides the SQLite-backed catalog. The serving path
// only ever reads; writes happen through Import, used by the offline
// importer (cmd/modelpulse-import).
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"modelpulse/internal/catalog"
	"modelpulse/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteCatalog struct {
	db *sql.DB
}

// Ensure interface conformance
var _ catalog.ReleaseReader = (*SQLiteCatalog)(nil)

// Open opens an existing catalog database for serving. A missing file
// is a missing dataset, not a reason to create an empty one.
func Open(dbPath string) (*SQLiteCatalog, error) {
	if _, err := os.Stat(dbPath); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", dbPath, catalog.ErrNotFound)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite catalog: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping catalog: %w", err)
	}
	return &SQLiteCatalog{db: db}, nil
}

// Create opens (creating if needed) a catalog database and runs the
// schema migrations. Importer entry point.
func Create(dbPath string) (*SQLiteCatalog, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite catalog: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping catalog: %w", err)
	}
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &SQLiteCatalog{db: db}, nil
}

func (c *SQLiteCatalog) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// ListReleases implements catalog.ReleaseReader. Rows come back in
// insertion order, so a catalog imported from a JSON dataset preserves
// that dataset's record order. A stored date that fails to parse is
// skipped and counted, same as the other sources.
func (c *SQLiteCatalog) ListReleases(ctx context.Context) (catalog.Snapshot, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT model, organization, release_date FROM releases ORDER BY id`)
	if err != nil {
		return catalog.Snapshot{}, fmt.Errorf("query releases: %w", err)
	}
	defer rows.Close()

	snap := catalog.Snapshot{}
	for rows.Next() {
		var model, org, dateStr string
		if err := rows.Scan(&model, &org, &dateStr); err != nil {
			return catalog.Snapshot{}, fmt.Errorf("scan release row: %w", err)
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
	if err := rows.Err(); err != nil {
		return catalog.Snapshot{}, fmt.Errorf("iterate releases: %w", err)
	}
	if snap.Skipped > 0 {
		slog.WarnContext(ctx, "Catalog rows skipped", "skipped", snap.Skipped, "loaded", len(snap.Records))
	}
	return snap, nil
}

// Import replaces the catalog contents with the given snapshot inside a
// single transaction.
func (c *SQLiteCatalog) Import(ctx context.Context, snap catalog.Snapshot) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM releases`); err != nil {
		return fmt.Errorf("clear releases: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO releases (model, organization, release_date) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range snap.Records {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("record %q: %w", r.Model, err)
		}
		dateStr := r.ReleaseDate.Format(core.ReleaseDateLayout)
		if _, err := stmt.ExecContext(ctx, r.Model, r.Organization, dateStr); err != nil {
			return fmt.Errorf("insert release %q: %w", r.Model, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}

	slog.InfoContext(ctx, "Catalog imported",
		"records", len(snap.Records),
		"skipped_in_source", snap.Skipped)
	return nil
}
