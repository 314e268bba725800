package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Health check (no auth required)
		r.Get("/health", s.handleHealth)

		// Auth endpoints (no auth required)
		r.Post("/auth/login", s.handleLogin)

		// WebSocket upgrade. Browsers cannot attach an Authorization
		// header to a WebSocket handshake, so auth is the single-use
		// ticket issued by the authenticated /auth/ws-ticket endpoint.
		r.Get("/ws", s.handleWebSocket)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			// WS ticket requires authentication - user must be logged in to request a ticket
			r.Post("/auth/ws-ticket", s.handleWSTicket)

			// Printer endpoints
			r.Route("/printers", func(r chi.Router) {
				r.Get("/", s.handleListPrinters)
				r.Post("/", s.handleCreatePrinter)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.handleGetPrinter)
					r.Patch("/", s.handleUpdatePrinter)
					r.Delete("/", s.handleDeletePrinter)
					r.Post("/probe", s.handleProbePrinter)
					r.Get("/status", s.handlePrinterStatus)
					r.Get("/diagnostics", s.handlePrinterDiagnostics)

					r.Route("/print", func(r chi.Router) {
						r.Post("/text", s.handlePrintText)
						r.Post("/text_utf8", s.handlePrintTextUTF8)
						r.Post("/qr", s.handlePrintQR)
						r.Post("/barcode", s.handlePrintBarcode)
						r.Post("/image", s.handlePrintImage)
					})

					r.Post("/feed", s.handleFeed)
					r.Post("/cut", s.handleCut)
					r.Post("/beep", s.handleBeep)
				})
			})

			// Job history
			r.Get("/jobs", s.handleListJobs)
		})
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"version":  s.version,
		"printers": s.registry.Count(),
	})
}
