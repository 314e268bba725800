package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cognitivegears/ha-escpos-thermal-printer/internal/printer"
)

// handleListPrinters returns all configured printers.
func (s *Server) handleListPrinters(w http.ResponseWriter, r *http.Request) {
	printers, err := s.registry.List(r.Context())
	if err != nil {
		s.logger.Error("failed to list printers", "error", err)
		writeInternalError(w, "failed to list printers")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"printers": printers,
		"count":    len(printers),
	})
}

// handleCreatePrinter registers a new printer.
func (s *Server) handleCreatePrinter(w http.ResponseWriter, r *http.Request) {
	var p printer.Printer
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if err := s.registry.Create(r.Context(), &p); err != nil {
		s.writePrinterError(w, err, "failed to create printer")
		return
	}

	writeJSON(w, http.StatusCreated, p)
}

// handleGetPrinter returns a single printer by ID.
func (s *Server) handleGetPrinter(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, err := s.registry.Get(r.Context(), id)
	if err != nil {
		s.writePrinterError(w, err, "failed to load printer")
		return
	}

	writeJSON(w, http.StatusOK, p)
}

// handleUpdatePrinter applies a partial update to an existing printer.
// Fields absent from the body keep their current values.
func (s *Server) handleUpdatePrinter(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	existing, err := s.registry.Get(r.Context(), id)
	if err != nil {
		s.writePrinterError(w, err, "failed to load printer")
		return
	}

	updated := existing.DeepCopy()
	if err := json.NewDecoder(r.Body).Decode(updated); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	// The ID comes from the URL, not the body.
	updated.ID = id

	if err := s.registry.Update(r.Context(), updated); err != nil {
		s.writePrinterError(w, err, "failed to update printer")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// handleDeletePrinter removes a printer from the registry.
func (s *Server) handleDeletePrinter(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.registry.Delete(r.Context(), id); err != nil {
		s.writePrinterError(w, err, "failed to delete printer")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleProbePrinter runs an on-demand connectivity check and returns the result.
func (s *Server) handleProbePrinter(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	adapter, err := s.manager.Adapter(r.Context(), id)
	if err != nil {
		s.writePrinterError(w, err, "failed to load printer")
		return
	}

	adapter.CheckStatus(r.Context())

	writeJSON(w, http.StatusOK, map[string]any{
		"printer_id":  id,
		"status":      adapter.Status(),
		"diagnostics": adapter.Diagnostics(),
	})
}

// handlePrinterStatus returns the last known online state of a printer.
func (s *Server) handlePrinterStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	adapter, err := s.manager.Adapter(r.Context(), id)
	if err != nil {
		s.writePrinterError(w, err, "failed to load printer")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"printer_id": id,
		"status":     adapter.Status(),
	})
}

// handlePrinterDiagnostics returns probe timing and failure details for a printer.
func (s *Server) handlePrinterDiagnostics(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	adapter, err := s.manager.Adapter(r.Context(), id)
	if err != nil {
		s.writePrinterError(w, err, "failed to load printer")
		return
	}

	writeJSON(w, http.StatusOK, adapter.Diagnostics())
}

// writePrinterError maps registry and manager errors to HTTP responses.
func (s *Server) writePrinterError(w http.ResponseWriter, err error, logMsg string) {
	switch {
	case errors.Is(err, printer.ErrPrinterNotFound):
		writeNotFound(w, "printer not found")
	case errors.Is(err, printer.ErrPrinterExists):
		writeConflict(w, "printer already exists")
	case errors.Is(err, printer.ErrValidation):
		writeValidationError(w, err.Error())
	default:
		s.logger.Error(logMsg, "error", err)
		writeInternalError(w, logMsg)
	}
}
