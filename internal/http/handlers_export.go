package http

import (
	"log/slog"
	"net/http"

	"modelpulse/internal/exporter"
)

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
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

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="releases.csv"`)
	if err := exporter.WriteCSV(w, snap.Records); err != nil {
		// Headers are gone; all we can do is log.
		slog.ErrorContext(r.Context(), "CSV export failed", "error", err)
	}
}

func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
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

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="releases.xlsx"`)
	if err := exporter.WriteXLSX(w, snap.Records); err != nil {
		slog.ErrorContext(r.Context(), "XLSX export failed", "error", err)
	}
}
