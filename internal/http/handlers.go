package http

import (
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"modelpulse/internal/core"
)

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleReady verifies the dataset source is listable before reporting
// ready.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusServiceUnavailable)
		return
	}
	if _, err := s.getSnapshot(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "Readiness check failed", "error", err)
		http.Error(w, "dataset not readable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// chartRow is one bar of the monthly chart. Width is a percentage of
// the tallest bar so templates can scale without script.
type chartRow struct {
	Month string
	Count int
	Width int
}

func chartRows(buckets []core.MonthlyBucket) []chartRow {
	maxCount := 0
	for _, b := range buckets {
		if b.Count > maxCount {
			maxCount = b.Count
		}
	}
	rows := make([]chartRow, 0, len(buckets))
	for _, b := range buckets {
		width := 0
		if maxCount > 0 && b.Count > 0 {
			width = (b.Count*100 + maxCount/2) / maxCount // rounded percent
			if width < 2 {
				width = 2
			}
			if width > 100 {
				width = 100
			}
		}
		rows = append(rows, chartRow{Month: b.Month.String(), Count: b.Count, Width: width})
	}
	return rows
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	snap, err := s.getSnapshot(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Dataset load error", "error", err)
		w.WriteHeader(loadStatus(err))
		if terr := s.templates.ExecuteTemplate(w, "error.html", struct{ Message string }{err.Error()}); terr != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	buckets := s.monthlyBuckets(r.Context(), snap)
	groups := s.organizationGroups(r.Context(), snap)

	// Selectors are a display concern: organizations alphabetical,
	// months chronological.
	orgs := make([]string, 0, len(groups))
	for _, g := range groups {
		orgs = append(orgs, g.Organization)
	}
	sort.Strings(orgs)

	months := make([]string, 0, len(buckets))
	for _, b := range buckets {
		months = append(months, b.Month.String())
	}

	data := struct {
		Total         int
		Skipped       int
		Organizations []string
		Months        []string
	}{
		Total:         len(snap.Records),
		Skipped:       snap.Skipped,
		Organizations: orgs,
		Months:        months,
	}
	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleMonthlyChart renders the releases-per-month bar chart partial.
// dense=1 fills months with no releases so the time axis has no holes.
func (s *Server) handleMonthlyChart(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	snap, err := s.getSnapshot(r.Context())
	if err != nil {
		s.renderPartialError(w, r, "Error loading monthly chart", err)
		return
	}

	buckets := s.monthlyBuckets(r.Context(), snap)
	if r.URL.Query().Get("dense") == "1" {
		buckets = core.FillMonthGaps(buckets)
	}

	data := struct {
		Rows    []chartRow
		Skipped int
	}{Rows: chartRows(buckets), Skipped: snap.Skipped}
	if err := s.templates.ExecuteTemplate(w, "monthly_chart.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "monthly_chart.html")
		s.renderPartialError(w, r, "Error rendering monthly chart", err)
	}
}

// handleOrganization renders the release list of one organization.
func (s *Server) handleOrganization(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		http.Error(w, "missing organization name", http.StatusBadRequest)
		return
	}

	snap, err := s.getSnapshot(r.Context())
	if err != nil {
		s.renderPartialError(w, r, "Error loading organization releases", err)
		return
	}

	// Exact match, same as the aggregation: no case or whitespace
	// normalization.
	var records []core.ModelRecord
	for _, g := range s.organizationGroups(r.Context(), snap) {
		if g.Organization == name {
			records = g.Records
			break
		}
	}

	data := struct {
		Organization string
		Releases     []releaseRow
	}{Organization: name, Releases: releaseRows(records)}
	if err := s.templates.ExecuteTemplate(w, "organization_releases.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "organization_releases.html")
		s.renderPartialError(w, r, "Error rendering organization releases", err)
	}
}

// handleMonth renders the release list of one calendar month.
func (s *Server) handleMonth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	key := strings.TrimSpace(r.URL.Query().Get("key"))
	ym, err := core.ParseYearMonth(key)
	if err != nil {
		http.Error(w, "invalid month key, want YYYY-MM", http.StatusBadRequest)
		return
	}

	snap, err := s.getSnapshot(r.Context())
	if err != nil {
		s.renderPartialError(w, r, "Error loading month releases", err)
		return
	}

	var records []core.ModelRecord
	for _, b := range s.monthlyBuckets(r.Context(), snap) {
		if b.Month == ym {
			records = b.Records
			break
		}
	}

	data := struct {
		Month    string
		Releases []releaseRow
	}{Month: ym.String(), Releases: releaseRows(records)}
	if err := s.templates.ExecuteTemplate(w, "month_releases.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "month_releases.html")
		s.renderPartialError(w, r, "Error rendering month releases", err)
	}
}

// handleRawData renders the unmodified record table.
func (s *Server) handleRawData(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	snap, err := s.getSnapshot(r.Context())
	if err != nil {
		s.renderPartialError(w, r, "Error loading raw data", err)
		return
	}

	data := struct {
		Releases []releaseRow
		Skipped  int
	}{Releases: releaseRows(snap.Records), Skipped: snap.Skipped}
	if err := s.templates.ExecuteTemplate(w, "raw_data.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "raw_data.html")
		s.renderPartialError(w, r, "Error rendering raw data", err)
	}
}

// releaseRow is the template-facing shape of one record.
type releaseRow struct {
	Model        string
	Organization string
	ReleaseDate  string
}

func releaseRows(records []core.ModelRecord) []releaseRow {
	rows := make([]releaseRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, releaseRow{
			Model:        r.Model,
			Organization: r.Organization,
			ReleaseDate:  r.ReleaseDate.Format(core.ReleaseDateLayout),
		})
	}
	return rows
}

func (s *Server) renderPartialError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	slog.ErrorContext(r.Context(), msg, "error", err)
	_, _ = w.Write([]byte(`<div class="error">` + msg + `</div>`))
}
