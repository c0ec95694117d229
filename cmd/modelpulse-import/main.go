// Command modelpulse-import converts a JSON dataset into a SQLite
// catalog usable by the sqlite backend. It is an offline tool; the
// server itself never writes.
package main

import (
	"context"
	"flag"
	"os"

	catfile "modelpulse/internal/catalog/file"
	"modelpulse/internal/cli"
	"modelpulse/internal/storage"
)

func main() {
	in := flag.String("in", "./data/models.json", "JSON dataset to import")
	db := flag.String("db", "./data/catalog.db", "SQLite catalog to create or replace")
	flag.Parse()

	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	ctx, stop := cli.ShutdownContext(context.Background())
	defer stop()

	snap, err := catfile.New(*in).ListReleases(ctx)
	if err != nil {
		logger.Error("Failed to load dataset", "error", err, "path", *in)
		os.Exit(1)
	}
	if snap.Skipped > 0 {
		logger.Warn("Some records were skipped", "skipped", snap.Skipped, "path", *in)
	}

	repo, err := storage.Create(*db)
	if err != nil {
		logger.Error("Failed to create catalog", "error", err, "path", *db)
		os.Exit(1)
	}
	defer repo.Close()

	if err := repo.Import(ctx, snap); err != nil {
		logger.Error("Import failed", "error", err, "path", *db)
		os.Exit(1)
	}

	logger.Info("Import complete",
		"records", len(snap.Records),
		"skipped", snap.Skipped,
		"from", *in,
		"to", *db)
}
