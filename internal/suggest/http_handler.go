package suggest

import (
	"encoding/json"
	"net/http"
	"strings"
)

// Handler exposes suggestions as a POST endpoint. "No suggestion" is a
// 204, never an error; the caller's form simply leaves its fields blank.
type Handler struct {
	service *Service
}

// NewHTTPHandler wraps the service with a POST endpoint.
func NewHTTPHandler(service *Service) http.Handler {
	return &Handler{service: service}
}

type suggestPayload struct {
	CurrentVersion    string `json:"currentVersion"`
	ChangeDescription string `json:"changeDescription"`
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var payload suggestPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(payload.ChangeDescription) == "" {
		http.Error(w, "changeDescription is required", http.StatusBadRequest)
		return
	}

	suggestion := h.service.Suggest(r.Context(), payload.CurrentVersion, payload.ChangeDescription)
	if suggestion == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(suggestion)
}
