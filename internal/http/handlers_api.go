package http

import (
	"log/slog"
	"net/http"

	"modelpulse/internal/core"
)

// handleAPIReleases returns the raw record sequence plus the skipped
// count.
func (s *Server) handleAPIReleases(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	snap, err := s.getSnapshot(r.Context())
	if err != nil {
		s.writeAPIError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, struct {
		Total    int          `json:"total"`
		Skipped  int          `json:"skipped"`
		Releases []releaseDTO `json:"releases"`
	}{
		Total:    len(snap.Records),
		Skipped:  snap.Skipped,
		Releases: toReleaseDTOs(snap.Records),
	})
}

// handleAPIMonthly returns the monthly buckets, chronological. dense=1
// fills in zero-count months between the first and last bucket.
func (s *Server) handleAPIMonthly(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	snap, err := s.getSnapshot(r.Context())
	if err != nil {
		s.writeAPIError(w, r, err)
		return
	}

	buckets := s.monthlyBuckets(r.Context(), snap)
	if r.URL.Query().Get("dense") == "1" {
		buckets = core.FillMonthGaps(buckets)
	}

	months := make([]monthlyDTO, 0, len(buckets))
	for _, b := range buckets {
		months = append(months, monthlyDTO{
			Month:    b.Month.String(),
			Count:    b.Count,
			Releases: toReleaseDTOs(b.Records),
		})
	}
	writeJSON(w, r, http.StatusOK, struct {
		Skipped int          `json:"skipped"`
		Months  []monthlyDTO `json:"months"`
	}{Skipped: snap.Skipped, Months: months})
}

// handleAPIOrganizations returns the per-organization groups. With
// ?name=, only that organization (404 when absent).
func (s *Server) handleAPIOrganizations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	snap, err := s.getSnapshot(r.Context())
	if err != nil {
		s.writeAPIError(w, r, err)
		return
	}
	groups := s.organizationGroups(r.Context(), snap)

	if name := r.URL.Query().Get("name"); name != "" {
		for _, g := range groups {
			if g.Organization == name {
				writeJSON(w, r, http.StatusOK, organizationDTO{
					Organization: g.Organization,
					Releases:     toReleaseDTOs(g.Records),
				})
				return
			}
		}
		writeJSON(w, r, http.StatusNotFound, struct {
			Error string `json:"error"`
		}{Error: "unknown organization: " + name})
		return
	}

	orgs := make([]organizationDTO, 0, len(groups))
	for _, g := range groups {
		orgs = append(orgs, organizationDTO{
			Organization: g.Organization,
			Releases:     toReleaseDTOs(g.Records),
		})
	}
	writeJSON(w, r, http.StatusOK, struct {
		Skipped       int               `json:"skipped"`
		Organizations []organizationDTO `json:"organizations"`
	}{Skipped: snap.Skipped, Organizations: orgs})
}

func (s *Server) writeAPIError(w http.ResponseWriter, r *http.Request, err error) {
	slog.ErrorContext(r.Context(), "Dataset load error", "error", err, "url", r.URL.Path)
	writeJSON(w, r, loadStatus(err), struct {
		Error string `json:"error"`
	}{Error: err.Error()})
}
