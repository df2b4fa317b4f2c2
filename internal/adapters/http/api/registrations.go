package api

import (
	"errors"
	"net/http"
	"strings"

	service "github.com/okian/matchdesk/internal/app"
)

// RegistrationsHandler serves the tournament sign-up endpoint.
type RegistrationsHandler struct {
	deps Dependencies
}

// NewRegistrationsHandler creates a new registrations handler.
func NewRegistrationsHandler(deps Dependencies) *RegistrationsHandler {
	return &RegistrationsHandler{deps: deps}
}

// registrationRequest mirrors the POST /api/v1/registrations schema.
type registrationRequest struct {
	Session  sessionRequest `json:"session"`
	GameID   string         `json:"game_id"`
	Payload  string         `json:"payload"`
	ImageURL string         `json:"image_url"`
}

// HandleRegister handles POST /api/v1/registrations requests.
func (h *RegistrationsHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}

	var req registrationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := req.Session.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if strings.TrimSpace(req.GameID) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("missing game_id"))
		return
	}

	if err := h.deps.Register(r.Context(), req.Session.toSession(), service.RegistrationRequest{
		GameID:   req.GameID,
		Payload:  req.Payload,
		ImageURL: req.ImageURL,
	}); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "ok"})
}
