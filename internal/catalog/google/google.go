// Package google implements a read-only catalog source backed by a
// Google Sheet with Model / Organization / Release Date columns.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"modelpulse/internal/catalog"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// Ensure interface conformance
var _ catalog.ReleaseReader = (*Client)(nil)

// NewFromEnv creates a Sheets-backed source from environment variables.
// Required: GOOGLE_SPREADSHEET_ID.
// Optional: GOOGLE_SHEET_NAME (default "Releases").
// Auth: GOOGLE_API_KEY for public sheets, or GOOGLE_SERVICE_ACCOUNT_JSON /
// GOOGLE_SERVICE_ACCOUNT_FILE / GOOGLE_APPLICATION_CREDENTIALS.
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	sheetName := strings.TrimSpace(os.Getenv("GOOGLE_SHEET_NAME"))
	if sheetName == "" {
		sheetName = "Releases"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

// newSheetsService initializes a read-only Sheets Service. An API key
// is enough for public spreadsheets; service-account credentials cover
// the rest.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	if apiKey := strings.TrimSpace(os.Getenv("GOOGLE_API_KEY")); apiKey != "" {
		slog.InfoContext(ctx, "Using API key credentials for Sheets")
		return gsheet.NewService(ctx,
			goption.WithAPIKey(apiKey),
			goption.WithScopes(gsheet.SpreadsheetsReadonlyScope))
	}

	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		slog.InfoContext(ctx, "Using inline JSON credentials for Sheets")
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		slog.InfoContext(ctx, "Reading Sheets credentials from file", "path", serviceAccountFile)
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing credentials (set GOOGLE_API_KEY, GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	return gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsReadonlyScope))
}

// ListReleases implements catalog.ReleaseReader. It reads the three
// dataset columns of the configured sheet and applies the same parse
// policy as the file source: shape problems fail the load, bad dates
// are skipped and counted.
func (c *Client) ListReleases(ctx context.Context) (catalog.Snapshot, error) {
	if c.svc == nil {
		return catalog.Snapshot{}, errors.New("sheets service not initialized")
	}

	rng := fmt.Sprintf("%s!A:C", c.sheetName)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return catalog.Snapshot{}, fmt.Errorf("read %s: %w", rng, err)
	}

	snap, err := parseReleaseRows(c.sheetName, resp.Values)
	if err != nil {
		return catalog.Snapshot{}, err
	}
	if snap.Skipped > 0 {
		slog.WarnContext(ctx, "Sheet records skipped",
			"sheet", c.sheetName,
			"skipped", snap.Skipped,
			"loaded", len(snap.Records))
	}
	return snap, nil
}
