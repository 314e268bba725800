package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cognitivegears/ha-escpos-thermal-printer/internal/escpos"
	"github.com/cognitivegears/ha-escpos-thermal-printer/internal/history"
	"github.com/cognitivegears/ha-escpos-thermal-printer/internal/printer"
	"github.com/cognitivegears/ha-escpos-thermal-printer/internal/textenc"
)

// feedRequest is the body for POST /printers/{id}/feed.
type feedRequest struct {
	Lines int `json:"lines"`
}

// cutRequest is the body for POST /printers/{id}/cut.
type cutRequest struct {
	Mode string `json:"mode"`
}

// beepRequest is the body for POST /printers/{id}/beep.
type beepRequest struct {
	Times    int `json:"times"`
	Duration int `json:"duration"`
}

// handlePrintText prints styled text with codepage transcoding.
func (s *Server) handlePrintText(w http.ResponseWriter, r *http.Request) {
	var opts printer.TextOptions
	if !s.decodeBody(w, r, &opts) {
		return
	}
	s.runOperation(w, r, "print_text", func(ctx context.Context, a *printer.Adapter) (int, error) {
		return a.PrintText(ctx, opts)
	})
}

// handlePrintTextUTF8 prints arbitrary UTF-8 text transcoded with the
// printer's configured codepage. Any per-call encoding override in the
// body is ignored.
func (s *Server) handlePrintTextUTF8(w http.ResponseWriter, r *http.Request) {
	var opts printer.TextOptions
	if !s.decodeBody(w, r, &opts) {
		return
	}
	s.runOperation(w, r, "print_text_utf8", func(ctx context.Context, a *printer.Adapter) (int, error) {
		return a.PrintTextUTF8(ctx, opts)
	})
}

// handlePrintQR prints a QR code.
func (s *Server) handlePrintQR(w http.ResponseWriter, r *http.Request) {
	var opts printer.QROptions
	if !s.decodeBody(w, r, &opts) {
		return
	}
	s.runOperation(w, r, "print_qr", func(ctx context.Context, a *printer.Adapter) (int, error) {
		return a.PrintQR(ctx, opts)
	})
}

// handlePrintBarcode prints a barcode.
func (s *Server) handlePrintBarcode(w http.ResponseWriter, r *http.Request) {
	var opts printer.BarcodeOptions
	if !s.decodeBody(w, r, &opts) {
		return
	}
	s.runOperation(w, r, "print_barcode", func(ctx context.Context, a *printer.Adapter) (int, error) {
		return a.PrintBarcode(ctx, opts)
	})
}

// handlePrintImage prints a raster image from a URL or allowed local path.
func (s *Server) handlePrintImage(w http.ResponseWriter, r *http.Request) {
	var opts printer.ImageOptions
	if !s.decodeBody(w, r, &opts) {
		return
	}
	s.runOperation(w, r, "print_image", func(ctx context.Context, a *printer.Adapter) (int, error) {
		return a.PrintImage(ctx, s.manager.Fetcher(), opts)
	})
}

// handleFeed advances the paper.
func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	var req feedRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	s.runOperation(w, r, "feed", func(ctx context.Context, a *printer.Adapter) (int, error) {
		return a.Feed(ctx, req.Lines)
	})
}

// handleCut cuts the paper.
func (s *Server) handleCut(w http.ResponseWriter, r *http.Request) {
	var req cutRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	s.runOperation(w, r, "cut", func(ctx context.Context, a *printer.Adapter) (int, error) {
		return a.Cut(ctx, req.Mode)
	})
}

// handleBeep sounds the printer buzzer.
func (s *Server) handleBeep(w http.ResponseWriter, r *http.Request) {
	var req beepRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	s.runOperation(w, r, "beep", func(ctx context.Context, a *printer.Adapter) (int, error) {
		return a.Beep(ctx, req.Times, req.Duration)
	})
}

// decodeBody decodes a JSON request body into v. An empty body leaves v at
// its zero value. It writes a 400 response and returns false on bad JSON.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err != nil && !errors.Is(err, io.EOF) {
		writeBadRequest(w, "invalid JSON body")
		return false
	}
	return true
}

// runOperation resolves the printer adapter, executes the operation through
// the job recorder, and writes the outcome.
func (s *Server) runOperation(w http.ResponseWriter, r *http.Request, operation string, fn func(context.Context, *printer.Adapter) (int, error)) {
	id := chi.URLParam(r, "id")

	adapter, err := s.manager.Adapter(r.Context(), id)
	if err != nil {
		s.writePrinterError(w, err, "failed to load printer")
		return
	}

	var bytesWritten int
	run := func(ctx context.Context) (int, error) {
		n, opErr := fn(ctx, adapter)
		bytesWritten = n
		return n, opErr
	}

	if s.recorder != nil {
		err = s.recorder.Track(r.Context(), id, operation, history.SourceAPI, run)
	} else {
		_, err = run(r.Context())
	}
	if err != nil {
		s.writeOperationError(w, operation, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"printer_id": id,
		"operation":  operation,
		"status":     "ok",
		"bytes":      bytesWritten,
	})
}

// writeOperationError maps print operation failures to HTTP responses.
// Payload problems are the client's fault; transport failures are not.
func (s *Server) writeOperationError(w http.ResponseWriter, operation string, err error) {
	switch {
	case errors.Is(err, printer.ErrEmptyText),
		errors.Is(err, printer.ErrTextTooLong),
		errors.Is(err, printer.ErrQRDataTooLong),
		errors.Is(err, printer.ErrImageSource),
		errors.Is(err, printer.ErrImageTooLarge),
		errors.Is(err, escpos.ErrUnknownSymbology),
		errors.Is(err, textenc.ErrUnknownCodepage):
		writeValidationError(w, err.Error())
	default:
		s.logger.Error("print operation failed", "operation", operation, "error", err)
		writeError(w, http.StatusBadGateway, "printer_unreachable", "operation failed: "+err.Error())
	}
}
