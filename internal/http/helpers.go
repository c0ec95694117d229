package http

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"modelpulse/internal/catalog"
	"modelpulse/internal/core"
)

// snapshotFingerprint keys the view caches. Every record feeds the
// hash, so any change to the dataset produces a new key and the
// memoized views can never outlive the data they were derived from.
func snapshotFingerprint(snap catalog.Snapshot) string {
	h := sha256.New()
	fmt.Fprintf(h, "%d\n", snap.Skipped)
	for _, r := range snap.Records {
		fmt.Fprintf(h, "%s\x00%s\x00%s\n",
			r.Model, r.Organization, r.ReleaseDate.Format(core.ReleaseDateLayout))
	}
	return hex.EncodeToString(h.Sum(nil))
}

func isExportPath(path string) bool {
	return strings.HasPrefix(path, "/export/")
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

// writeJSON encodes v as the response body.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.ErrorContext(r.Context(), "JSON encode failed", "error", err, "url", r.URL.Path)
	}
}

// loadStatus maps a dataset failure onto an HTTP status.
func loadStatus(err error) int {
	switch {
	case catalog.IsNotFound(err):
		return http.StatusNotFound
	case catalog.IsMalformed(err):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// DTOs shared by the JSON API.

type releaseDTO struct {
	Model        string `json:"model"`
	Organization string `json:"organization"`
	ReleaseDate  string `json:"release_date"`
}

type monthlyDTO struct {
	Month    string       `json:"month"`
	Count    int          `json:"count"`
	Releases []releaseDTO `json:"releases"`
}

type organizationDTO struct {
	Organization string       `json:"organization"`
	Releases     []releaseDTO `json:"releases"`
}

func toReleaseDTOs(records []core.ModelRecord) []releaseDTO {
	out := make([]releaseDTO, len(records))
	for i, r := range records {
		out[i] = releaseDTO{
			Model:        r.Model,
			Organization: r.Organization,
			ReleaseDate:  r.ReleaseDate.Format(core.ReleaseDateLayout),
		}
	}
	return out
}
