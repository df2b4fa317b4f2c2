package api

import (
	"errors"
	"net/http"
	"strings"

	service "github.com/okian/matchdesk/internal/app"
)

// ResultsHandler serves the match results endpoints.
type ResultsHandler struct {
	deps Dependencies
}

// NewResultsHandler creates a new results handler.
func NewResultsHandler(deps Dependencies) *ResultsHandler {
	return &ResultsHandler{deps: deps}
}

// resultRequest mirrors the POST /api/v1/results schema.
type resultRequest struct {
	Session sessionRequest `json:"session"`

	EventTitle    string   `json:"event_title"`
	Team1Score    int      `json:"team1_score"`
	Team2Score    int      `json:"team2_score"`
	MatchCount    int      `json:"match_count"`
	Remarks       string   `json:"remarks"`
	RecordingLink string   `json:"recording_link"`
	Evidence      []string `json:"evidence"`
}

// HandleResults dispatches results requests by method.
func (h *ResultsHandler) HandleResults(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.handleRecord(w, r)
	case http.MethodGet:
		h.handleList(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
	}
}

func (h *ResultsHandler) handleRecord(w http.ResponseWriter, r *http.Request) {
	var req resultRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := req.Session.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if strings.TrimSpace(req.EventTitle) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("missing event_title"))
		return
	}

	rec, err := h.deps.RecordResult(r.Context(), req.Session.toSession(), service.ResultRequest{
		EventTitle:    req.EventTitle,
		Team1Score:    req.Team1Score,
		Team2Score:    req.Team2Score,
		MatchCount:    req.MatchCount,
		Remarks:       req.Remarks,
		RecordingLink: req.RecordingLink,
		Evidence:      req.Evidence,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (h *ResultsHandler) handleList(w http.ResponseWriter, r *http.Request) {
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

	recs, err := h.deps.ListResults(r.Context(), sess, title)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": recs})
}
