// Package handlers provides HTTP handlers for the converter API.
package handlers

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/spherical/pdf-converter/internal/domain"
	"github.com/spherical/pdf-converter/internal/observability"
	"github.com/spherical/pdf-converter/internal/upload"
	"github.com/spherical/pdf-converter/internal/workspace"
)

// FormatField is the multipart field naming the target format
const FormatField = "format"

// Response bodies for the failure paths.
const (
	msgNoFile            = "No file uploaded."
	msgUnsupportedFormat = "Unsupported format"
	msgConversionFailed  = "An error occurred during conversion."
	msgTimedOut          = "Conversion timed out."
	msgSendFailed        = "Error sending file"
)

// Resolver picks the converter for a format token.
type Resolver interface {
	Resolve(token string) (domain.TargetFormat, domain.Converter, error)
}

// ConvertHandler handles PDF conversion requests.
type ConvertHandler struct {
	logger   *observability.Logger
	store    *upload.Store
	ws       *workspace.Workspace
	resolver Resolver
	timeout  time.Duration
}

// NewConvertHandler creates a new conversion handler. timeout bounds each
// conversion; zero means the request context alone decides.
func NewConvertHandler(logger *observability.Logger, store *upload.Store, ws *workspace.Workspace, resolver Resolver, timeout time.Duration) *ConvertHandler {
	return &ConvertHandler{
		logger:   logger.WithOperation("convert"),
		store:    store,
		ws:       ws,
		resolver: resolver,
		timeout:  timeout,
	}
}

// Convert handles POST /convert.
func (h *ConvertHandler) Convert(w http.ResponseWriter, r *http.Request) {
	id := observability.RequestIDFromContext(r.Context())
	if id == "" {
		id = uuid.NewString()
	}
	logger := h.logger.WithRequestID(id)
	lc := newLifecycle(id, logger)

	ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

	part, err := h.store.Open(ww, r)
	if err != nil {
		h.fail(ww, lc, err)
		return
	}
	defer part.Close()

	token := r.FormValue(FormatField)
	format, converter, err := h.resolver.Resolve(token)
	if err != nil {
		h.fail(ww, lc, err)
		return
	}

	uploaded, err := h.store.Save(part)
	if err != nil {
		h.fail(ww, lc, err)
		return
	}
	// Input and output removal are separate defers; each always runs.
	defer h.cleanup(lc, "input", uploaded.Path)

	req := domain.ConversionRequest{
		ID:             id,
		InputPath:      uploaded.Path,
		Token:          token,
		Format:         format,
		OutputBasePath: h.ws.OutputBase(),
		ReceivedAt:     lc.received,
	}
	outputPath := req.OutputPath()
	defer h.cleanup(lc, "output", outputPath)

	lc.to(StateValidated)
	logger.Info().
		Str("format", string(format)).
		Str("file", uploaded.OriginalName).
		Int64("size", uploaded.Size).
		Msg("Starting conversion")

	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	lc.to(StateConverting)
	start := time.Now()
	produced, err := converter.Convert(ctx, uploaded.Path, outputPath)
	if err != nil {
		h.fail(ww, lc, err)
		return
	}
	if produced != outputPath {
		defer h.cleanup(lc, "output", produced)
	}

	logger.Info().
		Str("format", string(format)).
		Dur("duration", time.Since(start)).
		Msg("Conversion completed")

	lc.to(StateResponding)
	h.send(ww, lc, domain.ConversionResult{OutputPath: produced, Format: format})
}

// send streams the result as an attachment. Once headers are out a failure
// can only be logged.
func (h *ConvertHandler) send(w chimiddleware.WrapResponseWriter, lc *lifecycle, result domain.ConversionResult) {
	f, err := os.Open(result.OutputPath)
	if err != nil {
		lc.logger.Error().Err(err).Str("path", result.OutputPath).Msg("Error sending file")
		lc.to(StateErrored)
		writeError(w, http.StatusInternalServerError, msgSendFailed)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		lc.logger.Error().Err(err).Str("path", result.OutputPath).Msg("Error sending file")
		lc.to(StateErrored)
		writeError(w, http.StatusInternalServerError, msgSendFailed)
		return
	}

	name := filepath.Base(result.OutputPath)
	w.Header().Set("Content-Type", result.Format.ContentType())
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.Header().Set("Content-Length", strconv.FormatInt(info.Size(), 10))
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, f); err != nil {
		lc.logger.Error().Err(err).Int("status", w.Status()).Msg("Error sending file")
		lc.to(StateErrored)
	}
}

// fail maps err onto a response: caller mistakes are 400, everything else is
// 500 with the cause logged.
func (h *ConvertHandler) fail(w chimiddleware.WrapResponseWriter, lc *lifecycle, err error) {
	lc.to(StateErrored)

	status, msg := classify(err)
	event := lc.logger.Warn()
	if status >= http.StatusInternalServerError {
		event = lc.logger.Error()
	}
	event.Err(err).
		Str("error_type", string(domain.ErrorTypeOf(err))).
		Int("status", status).
		Msg("Conversion request failed")

	if w.Status() != 0 {
		return
	}
	writeError(w, status, msg)
}

func (h *ConvertHandler) cleanup(lc *lifecycle, kind, path string) {
	if err := workspace.Remove(path); err != nil {
		lc.logger.Warn().Err(err).Str("kind", kind).Str("path", path).Msg("Failed to remove file")
	}
	if kind == "input" {
		lc.to(StateCleanedUp)
	}
}

func classify(err error) (int, string) {
	var de *domain.DomainError
	if !errors.As(err, &de) {
		return http.StatusInternalServerError, msgConversionFailed
	}

	switch de.Type {
	case domain.ErrorTypeUnsupportedFormat:
		return http.StatusBadRequest, msgUnsupportedFormat
	case domain.ErrorTypeValidation:
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) || errors.Is(err, http.ErrMissingBoundary) {
			return http.StatusBadRequest, msgNoFile
		}
		return http.StatusBadRequest, de.Message
	case domain.ErrorTypeTimeout:
		return http.StatusInternalServerError, msgTimedOut
	default:
		return http.StatusInternalServerError, msgConversionFailed
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, message)
}
