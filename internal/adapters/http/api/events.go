package api

import (
	"errors"
	"net/http"
	"strings"

	service "github.com/okian/matchdesk/internal/app"
	"github.com/okian/matchdesk/internal/domain/model"
)

// EventsHandler serves the scheduled-event endpoints.
type EventsHandler struct {
	deps Dependencies
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(deps Dependencies) *EventsHandler {
	return &EventsHandler{deps: deps}
}

// createEventRequest mirrors the POST /api/v1/events schema.
type createEventRequest struct {
	Session sessionRequest `json:"session"`

	Team1      string      `json:"team1"`
	Team2      string      `json:"team2"`
	Time       timeRequest `json:"time"`
	Tournament string      `json:"tournament"`
	Group      string      `json:"group"`
	Round      string      `json:"round"`
	Channel    uint64      `json:"channel"`
	Captain1   uint64      `json:"captain1"`
	Captain2   uint64      `json:"captain2"`
	Judge      uint64      `json:"judge"`
	Recorder   uint64      `json:"recorder"`
	ImageURL   string      `json:"image_url"`
	Remarks    string      `json:"remarks"`
}

func (e createEventRequest) validate() error {
	switch {
	case strings.TrimSpace(e.Team1) == "":
		return errors.New("missing team1")
	case strings.TrimSpace(e.Team2) == "":
		return errors.New("missing team2")
	}
	return nil
}

// editEventRequest mirrors the PATCH /api/v1/events schema. Absent fields
// are left untouched; a present time block replaces the timestamp.
type editEventRequest struct {
	Session sessionRequest `json:"session"`
	Title   string         `json:"title"`

	Team1      *string      `json:"team1"`
	Team2      *string      `json:"team2"`
	Time       *timeRequest `json:"time"`
	Tournament *string      `json:"tournament"`
	Group      *string      `json:"group"`
	Round      *string      `json:"round"`
	Channel    *uint64      `json:"channel"`
	Captain1   *uint64      `json:"captain1"`
	Captain2   *uint64      `json:"captain2"`
	Judge      *uint64      `json:"judge"`
	Recorder   *uint64      `json:"recorder"`
	ImageURL   *string      `json:"image_url"`
	Remarks    *string      `json:"remarks"`
}

// deleteEventRequest mirrors the DELETE /api/v1/events schema.
type deleteEventRequest struct {
	Session sessionRequest `json:"session"`
	Title   string         `json:"title"`
	Reason  string         `json:"reason"`
}

// confirmRequest mirrors the POST /api/v1/events/confirm schema.
type confirmRequest struct {
	Session sessionRequest `json:"session"`
	Token   string         `json:"token"`
}

// HandleEvents dispatches event collection requests by method.
func (h *EventsHandler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.handleCreate(w, r)
	case http.MethodGet:
		h.handleList(w, r)
	case http.MethodPatch:
		h.handleEdit(w, r)
	case http.MethodDelete:
		h.handleDelete(w, r)
	default:
		w.Header().Set("Allow", "GET, POST, PATCH, DELETE")
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
	}
}

func (h *EventsHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createEventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := req.Session.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	e, err := h.deps.CreateEvent(r.Context(), req.Session.toSession(), service.CreateEventRequest{
		Team1:      req.Team1,
		Team2:      req.Team2,
		Time:       req.Time.toInput(),
		Tournament: req.Tournament,
		Group:      req.Group,
		Round:      req.Round,
		Channel:    model.Ref(req.Channel),
		Captain1:   model.Ref(req.Captain1),
		Captain2:   model.Ref(req.Captain2),
		Judge:      model.Ref(req.Judge),
		Recorder:   model.Ref(req.Recorder),
		ImageURL:   req.ImageURL,
		Remarks:    req.Remarks,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (h *EventsHandler) handleList(w http.ResponseWriter, r *http.Request) {
	sess, err := querySession(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	events, err := h.deps.ListEvents(r.Context(), sess)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events})
}

func (h *EventsHandler) handleEdit(w http.ResponseWriter, r *http.Request) {
	var req editEventRequest
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

	edit := service.EditEventRequest{
		Patch: model.EventPatch{
			Team1:      req.Team1,
			Team2:      req.Team2,
			Tournament: req.Tournament,
			Group:      req.Group,
			Round:      req.Round,
			Channel:    refPtr(req.Channel),
			Captain1:   refPtr(req.Captain1),
			Captain2:   refPtr(req.Captain2),
			Judge:      refPtr(req.Judge),
			Recorder:   refPtr(req.Recorder),
			ImageURL:   req.ImageURL,
			Remarks:    req.Remarks,
		},
	}
	if req.Time != nil {
		in := req.Time.toInput()
		edit.Time = &in
	}

	e, err := h.deps.EditEvent(r.Context(), req.Session.toSession(), req.Title, edit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (h *EventsHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	var req deleteEventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := req.Session.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	token, e, err := h.deps.DeleteEvent(r.Context(), req.Session.toSession(), req.Title, req.Reason)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"token": token, "event": e})
}

// HandleShow handles GET /api/v1/events/show requests.
func (h *EventsHandler) HandleShow(w http.ResponseWriter, r *http.Request) {
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
	title := r.URL.Query().Get("title")
	if title == "" {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("missing title"))
		return
	}

	e, doc, err := h.deps.ShowEvent(r.Context(), sess, title)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"event": e, "card": doc})
}

// HandleConfirm handles POST /api/v1/events/confirm requests.
func (h *EventsHandler) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}

	var req confirmRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := req.Session.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	e, err := h.deps.ConfirmDelete(r.Context(), req.Session.toSession(), req.Token)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}
