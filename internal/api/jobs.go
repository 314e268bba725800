package api

import (
	"net/http"
	"strconv"

	"github.com/cognitivegears/ha-escpos-thermal-printer/internal/history"
)

// maxJobListLimit caps the limit query parameter on GET /jobs.
const maxJobListLimit = 500

// handleListJobs returns recent print jobs, newest first.
// Supports ?printer_id= and ?limit= query parameters.
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	if s.jobs == nil {
		writeJSON(w, http.StatusOK, map[string]any{
			"jobs":  []history.Job{},
			"count": 0,
		})
		return
	}

	opts := history.ListOptions{
		PrinterID: r.URL.Query().Get("printer_id"),
	}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			writeBadRequest(w, "limit must be a positive integer")
			return
		}
		if limit > maxJobListLimit {
			limit = maxJobListLimit
		}
		opts.Limit = limit
	}

	jobs, err := s.jobs.List(r.Context(), opts)
	if err != nil {
		s.logger.Error("failed to list jobs", "error", err)
		writeInternalError(w, "failed to list jobs")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"jobs":  jobs,
		"count": len(jobs),
	})
}
