package api

import (
	"net/http"

	"github.com/okian/matchdesk/internal/domain/model"
)

// ConfigHandler serves the tenant configuration endpoints.
type ConfigHandler struct {
	deps Dependencies
}

// NewConfigHandler creates a new config handler.
func NewConfigHandler(deps Dependencies) *ConfigHandler {
	return &ConfigHandler{deps: deps}
}

// configRequest mirrors the PUT /api/v1/config schema.
type configRequest struct {
	Session sessionRequest `json:"session"`

	OperatorRole        uint64 `json:"operator_role"`
	JudgeRole           uint64 `json:"judge_role"`
	RecorderRole        uint64 `json:"recorder_role"`
	ScheduleChannel     uint64 `json:"schedule_channel"`
	ResultsChannel      uint64 `json:"results_channel"`
	NotificationChannel uint64 `json:"notification_channel"`
	TranscriptChannel   uint64 `json:"transcript_channel"`
	ThumbnailChannel    uint64 `json:"thumbnail_channel"`
	LogoRef             string `json:"logo_ref"`
}

// configPatchRequest mirrors the PATCH /api/v1/config schema. Absent fields
// are left untouched.
type configPatchRequest struct {
	Session sessionRequest `json:"session"`

	OperatorRole        *uint64 `json:"operator_role"`
	JudgeRole           *uint64 `json:"judge_role"`
	RecorderRole        *uint64 `json:"recorder_role"`
	ScheduleChannel     *uint64 `json:"schedule_channel"`
	ResultsChannel      *uint64 `json:"results_channel"`
	NotificationChannel *uint64 `json:"notification_channel"`
	TranscriptChannel   *uint64 `json:"transcript_channel"`
	ThumbnailChannel    *uint64 `json:"thumbnail_channel"`
	LogoRef             *string `json:"logo_ref"`
}

// HandleConfig dispatches config requests by method.
func (h *ConfigHandler) HandleConfig(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPut:
		h.handleSet(w, r)
	case http.MethodPatch:
		h.handleEdit(w, r)
	case http.MethodGet:
		h.handleGet(w, r)
	default:
		w.Header().Set("Allow", "GET, PUT, PATCH")
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
	}
}

func (h *ConfigHandler) handleSet(w http.ResponseWriter, r *http.Request) {
	var req configRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := req.Session.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	cfg := model.TenantConfig{
		OperatorRole:        model.Ref(req.OperatorRole),
		JudgeRole:           model.Ref(req.JudgeRole),
		RecorderRole:        model.Ref(req.RecorderRole),
		ScheduleChannel:     model.Ref(req.ScheduleChannel),
		ResultsChannel:      model.Ref(req.ResultsChannel),
		NotificationChannel: model.Ref(req.NotificationChannel),
		TranscriptChannel:   model.Ref(req.TranscriptChannel),
		ThumbnailChannel:    model.Ref(req.ThumbnailChannel),
		LogoRef:             req.LogoRef,
	}

	if err := h.deps.ConfigSet(r.Context(), req.Session.toSession(), cfg); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *ConfigHandler) handleEdit(w http.ResponseWriter, r *http.Request) {
	var req configPatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := req.Session.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	patch := model.TenantConfigPatch{
		OperatorRole:        refPtr(req.OperatorRole),
		JudgeRole:           refPtr(req.JudgeRole),
		RecorderRole:        refPtr(req.RecorderRole),
		ScheduleChannel:     refPtr(req.ScheduleChannel),
		ResultsChannel:      refPtr(req.ResultsChannel),
		NotificationChannel: refPtr(req.NotificationChannel),
		TranscriptChannel:   refPtr(req.TranscriptChannel),
		ThumbnailChannel:    refPtr(req.ThumbnailChannel),
		LogoRef:             req.LogoRef,
	}

	if err := h.deps.ConfigEdit(r.Context(), req.Session.toSession(), patch); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *ConfigHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	sess, err := querySession(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	cfg, err := h.deps.Config(r.Context(), sess)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func refPtr(v *uint64) *model.Ref {
	if v == nil {
		return nil
	}
	ref := model.Ref(*v)
	return &ref
}
