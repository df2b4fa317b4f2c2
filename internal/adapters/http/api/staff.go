package api

import (
	"net/http"
	"strconv"

	service "github.com/okian/matchdesk/internal/app"
	"github.com/okian/matchdesk/internal/domain/model"
)

// StaffHandler serves the staff data endpoints.
type StaffHandler struct {
	deps Dependencies
}

// NewStaffHandler creates a new staff handler.
func NewStaffHandler(deps Dependencies) *StaffHandler {
	return &StaffHandler{deps: deps}
}

// staffRequest mirrors the POST /api/v1/staff schema.
type staffRequest struct {
	Session sessionRequest `json:"session"`

	GameName string `json:"game_name"`
	GameID   string `json:"game_id"`
	Username string `json:"username"`
	Tag      string `json:"tag"`
}

// HandleSubmit handles POST /api/v1/staff requests.
func (h *StaffHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}

	var req staffRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := req.Session.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	err := h.deps.SubmitStaff(r.Context(), req.Session.toSession(), service.StaffRequest{
		GameName: req.GameName,
		GameID:   req.GameID,
		Username: req.Username,
		Tag:      req.Tag,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "ok"})
}

// HandleHistory handles GET /api/v1/staff/history requests.
func (h *StaffHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}

	sess, err := querySession(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	// staff_id is optional; omitted means the requesting actor.
	var staff model.Ref
	if raw := r.URL.Query().Get("staff_id"); raw != "" {
		id, perr := strconv.ParseUint(raw, 10, 64)
		if perr != nil {
			writeError(w, http.StatusBadRequest, "bad_request", perr)
			return
		}
		staff = model.Ref(id)
	}

	events, err := h.deps.StaffHistory(r.Context(), sess, staff)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events, "count": len(events)})
}
