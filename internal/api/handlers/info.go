package handlers

import (
	"encoding/json"
	"net/http"
)

// ReadyMessage is the body of GET /
const ReadyMessage = "PDF Conversion API is running. Use POST /convert to convert files."

// InfoHandler serves the readiness, health and format listing routes.
type InfoHandler struct {
	service string
	formats []string
}

// NewInfoHandler creates an info handler.
func NewInfoHandler(service string, formats []string) *InfoHandler {
	return &InfoHandler{service: service, formats: formats}
}

// Index handles GET /.
func (h *InfoHandler) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(ReadyMessage))
}

// Health handles GET /health.
func (h *InfoHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": h.service})
}

// Formats handles GET /formats.
func (h *InfoHandler) Formats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"formats": h.formats})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
