package api

import (
	"errors"
	"net/http"
	"strings"
)

// ClaimsHandler serves the slot claim endpoint.
type ClaimsHandler struct {
	deps Dependencies
}

// NewClaimsHandler creates a new claims handler.
func NewClaimsHandler(deps Dependencies) *ClaimsHandler {
	return &ClaimsHandler{deps: deps}
}

// claimRequest mirrors the POST /api/v1/claims schema.
type claimRequest struct {
	Session sessionRequest `json:"session"`
	Title   string         `json:"title"`
	Slot    string         `json:"slot"`
}

// HandleClaim handles POST /api/v1/claims requests.
func (h *ClaimsHandler) HandleClaim(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}

	var req claimRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := req.Session.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("missing title"))
		return
	}

	d, e, err := h.deps.Claim(r.Context(), req.Session.toSession(), req.Title, req.Slot)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"slot":      d.Slot,
		"displaced": d.Displaced,
		"previous":  d.Previous,
		"event":     e,
	})
}
