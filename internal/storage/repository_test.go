package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"modelpulse/internal/catalog"
	"modelpulse/internal/core"
)

func testCatalog(t *testing.T) *SQLiteCatalog {
	t.Helper()
	c, err := Create(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("create catalog: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestOpenMissingCatalog(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "absent.db"))
	if !catalog.IsNotFound(err) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestImportAndList(t *testing.T) {
	c := testCatalog(t)
	ctx := context.Background()

	records := []core.ModelRecord{
		{Model: "GPT-4", Organization: "OpenAI", ReleaseDate: date(2023, 3, 14)},
		{Model: "Claude 2", Organization: "Anthropic", ReleaseDate: date(2023, 7, 11)},
		{Model: "Llama 2", Organization: "Meta", ReleaseDate: date(2023, 7, 18)},
	}
	if err := c.Import(ctx, catalog.Snapshot{Records: records}); err != nil {
		t.Fatalf("import: %v", err)
	}

	snap, err := c.ListReleases(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(snap.Records) != 3 {
		t.Fatalf("got %d records, want 3", len(snap.Records))
	}
	// Insertion order preserved.
	for i, want := range []string{"GPT-4", "Claude 2", "Llama 2"} {
		if snap.Records[i].Model != want {
			t.Errorf("record[%d] = %s, want %s", i, snap.Records[i].Model, want)
		}
	}
	if !snap.Records[0].ReleaseDate.Equal(date(2023, 3, 14)) {
		t.Errorf("release date round-trip failed: %v", snap.Records[0].ReleaseDate)
	}
}

func TestImportReplacesExisting(t *testing.T) {
	c := testCatalog(t)
	ctx := context.Background()

	first := []core.ModelRecord{{Model: "Old", Organization: "Org", ReleaseDate: date(2022, 1, 1)}}
	if err := c.Import(ctx, catalog.Snapshot{Records: first}); err != nil {
		t.Fatalf("first import: %v", err)
	}
	second := []core.ModelRecord{{Model: "New", Organization: "Org", ReleaseDate: date(2023, 1, 1)}}
	if err := c.Import(ctx, catalog.Snapshot{Records: second}); err != nil {
		t.Fatalf("second import: %v", err)
	}

	snap, err := c.ListReleases(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(snap.Records) != 1 || snap.Records[0].Model != "New" {
		t.Errorf("import should replace contents, got %v", snap.Records)
	}
}

func TestImportRejectsInvalidRecord(t *testing.T) {
	c := testCatalog(t)
	ctx := context.Background()

	bad := []core.ModelRecord{{Model: "", Organization: "Org", ReleaseDate: date(2023, 1, 1)}}
	if err := c.Import(ctx, catalog.Snapshot{Records: bad}); err == nil {
		t.Fatal("import should reject an invalid record")
	}

	// Failed import must not leave partial state.
	snap, err := c.ListReleases(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(snap.Records) != 0 {
		t.Errorf("rolled-back import leaked %d records", len(snap.Records))
	}
}

func TestListEmptyCatalog(t *testing.T) {
	c := testCatalog(t)
	snap, err := c.ListReleases(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(snap.Records) != 0 || snap.Skipped != 0 {
		t.Errorf("empty catalog: snapshot = %+v, want empty", snap)
	}
}
