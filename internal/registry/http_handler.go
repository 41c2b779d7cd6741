package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rpattn/specreg/internal/domain"
)

// Handler exposes the registry as JSON endpoints:
//
//	GET    /api/history            full audit log, newest first
//	POST   /api/history            append one entry
//	PATCH  /api/history/{id}/status flip the uploaded flag
//	GET    /api/summaries          latest-state projection
//	GET    /api/reports            aggregate release/region counts
type Handler struct {
	service *Service
}

// NewHTTPHandler wraps the service with the registry endpoints.
func NewHTTPHandler(service *Service) http.Handler {
	return &Handler{service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/api/history" && r.Method == http.MethodGet:
		h.handleListHistory(w, r)
	case r.URL.Path == "/api/history" && r.Method == http.MethodPost:
		h.handleAppend(w, r)
	case strings.HasPrefix(r.URL.Path, "/api/history/") && strings.HasSuffix(r.URL.Path, "/status") && r.Method == http.MethodPatch:
		h.handlePatchStatus(w, r)
	case r.URL.Path == "/api/summaries" && r.Method == http.MethodGet:
		h.handleSummaries(w, r)
	case r.URL.Path == "/api/reports" && r.Method == http.MethodGet:
		h.handleReports(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
	}
}

func (h *Handler) handleListHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.History(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *Handler) handleAppend(w http.ResponseWriter, r *http.Request) {
	var draft domain.HistoryEntry
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	entry, err := h.service.Append(r.Context(), draft)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

type patchStatusPayload struct {
	Uploaded bool `json:"uploaded"`
}

func (h *Handler) handlePatchStatus(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/api/history/"), "/status")

	var payload patchStatusPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	if err := h.service.SetUploaded(r.Context(), id, payload.Uploaded); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "status updated"})
}

func (h *Handler) handleSummaries(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.service.Summaries(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (h *Handler) handleReports(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.ReleaseStats(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// writeDomainError maps the error taxonomy onto HTTP status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	var validationErr domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, domain.ErrDuplicateEntry):
		writeError(w, http.StatusConflict, err)
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, domain.ErrStoreUnavailable):
		writeError(w, http.StatusServiceUnavailable, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}
