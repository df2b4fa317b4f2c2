// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/okian/matchdesk/internal/adapters/repository"
	service "github.com/okian/matchdesk/internal/app"
	"github.com/okian/matchdesk/internal/domain/claim"
	"github.com/okian/matchdesk/internal/domain/display"
	"github.com/okian/matchdesk/internal/domain/model"
	"github.com/okian/matchdesk/internal/domain/tenant"
	"github.com/okian/matchdesk/internal/domain/timeparse"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	ConfigSet(ctx context.Context, sess service.Session, cfg model.TenantConfig) error
	ConfigEdit(ctx context.Context, sess service.Session, patch model.TenantConfigPatch) error
	Config(ctx context.Context, sess service.Session) (model.TenantConfig, error)

	CreateEvent(ctx context.Context, sess service.Session, req service.CreateEventRequest) (model.Event, error)
	EditEvent(ctx context.Context, sess service.Session, title string, req service.EditEventRequest) (model.Event, error)
	DeleteEvent(ctx context.Context, sess service.Session, title, reason string) (string, model.Event, error)
	ConfirmDelete(ctx context.Context, sess service.Session, token string) (model.Event, error)
	ShowEvent(ctx context.Context, sess service.Session, title string) (model.Event, display.Document, error)
	ListEvents(ctx context.Context, sess service.Session) ([]model.Event, error)

	Claim(ctx context.Context, sess service.Session, title, slot string) (claim.Decision, model.Event, error)

	RecordResult(ctx context.Context, sess service.Session, req service.ResultRequest) (model.ResultRecord, error)
	ListResults(ctx context.Context, sess service.Session, eventTitle string) ([]model.ResultRecord, error)

	SubmitStaff(ctx context.Context, sess service.Session, req service.StaffRequest) error
	StaffHistory(ctx context.Context, sess service.Session, staff model.Ref) ([]model.Event, error)
	Register(ctx context.Context, sess service.Session, req service.RegistrationRequest) error
}

// StatsProvider exposes service statistics to the stats endpoint.
type StatsProvider interface {
	GetStats(ctx context.Context) service.Stats
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler        *HealthHandler
	statsHandler         *StatsHandler
	configHandler        *ConfigHandler
	eventsHandler        *EventsHandler
	claimsHandler        *ClaimsHandler
	resultsHandler       *ResultsHandler
	staffHandler         *StaffHandler
	registrationsHandler *RegistrationsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:        NewHealthHandler(),
		statsHandler:         NewStatsHandler(statsProvider),
		configHandler:        NewConfigHandler(deps),
		eventsHandler:        NewEventsHandler(deps),
		claimsHandler:        NewClaimsHandler(deps),
		resultsHandler:       NewResultsHandler(deps),
		staffHandler:         NewStaffHandler(deps),
		registrationsHandler: NewRegistrationsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/v1/config", MetricsMiddleware(s.configHandler.HandleConfig, "config"))
	mux.HandleFunc("/api/v1/events", MetricsMiddleware(s.eventsHandler.HandleEvents, "events"))
	mux.HandleFunc("/api/v1/events/show", MetricsMiddleware(s.eventsHandler.HandleShow, "events_show"))
	mux.HandleFunc("/api/v1/events/confirm", MetricsMiddleware(s.eventsHandler.HandleConfirm, "events_confirm"))
	mux.HandleFunc("/api/v1/claims", MetricsMiddleware(s.claimsHandler.HandleClaim, "claims"))
	mux.HandleFunc("/api/v1/results", MetricsMiddleware(s.resultsHandler.HandleResults, "results"))
	mux.HandleFunc("/api/v1/staff", MetricsMiddleware(s.staffHandler.HandleSubmit, "staff"))
	mux.HandleFunc("/api/v1/staff/history", MetricsMiddleware(s.staffHandler.HandleHistory, "staff_history"))
	mux.HandleFunc("/api/v1/registrations", MetricsMiddleware(s.registrationsHandler.HandleRegister, "registrations"))
}

// sessionRequest mirrors the session block every command request carries.
type sessionRequest struct {
	GuildID       uint64   `json:"guild_id"`
	Community     string   `json:"community"`
	ActorID       uint64   `json:"actor_id"`
	ActorName     string   `json:"actor_name"`
	ActorRoles    []uint64 `json:"actor_roles"`
	InteractionID string   `json:"interaction_id"`
}

func (s sessionRequest) toSession() service.Session {
	roles := make([]model.Ref, len(s.ActorRoles))
	for i, r := range s.ActorRoles {
		roles[i] = model.Ref(r)
	}
	return service.Session{
		GuildID:   model.Ref(s.GuildID),
		Community: s.Community,
		Actor: model.Actor{
			ID:    model.Ref(s.ActorID),
			Name:  s.ActorName,
			Roles: roles,
		},
		InteractionID: s.InteractionID,
	}
}

func (s sessionRequest) validate() error {
	switch {
	case s.GuildID == 0:
		return errors.New("missing guild_id")
	case s.ActorID == 0:
		return errors.New("missing actor_id")
	}
	return nil
}

// querySession builds a session from URL query parameters, used by the
// read-only GET endpoints.
func querySession(r *http.Request) (service.Session, error) {
	q := r.URL.Query()

	guildID, err := strconv.ParseUint(q.Get("guild_id"), 10, 64)
	if err != nil || guildID == 0 {
		return service.Session{}, errors.New("missing or invalid guild_id")
	}
	actorID, err := strconv.ParseUint(q.Get("actor_id"), 10, 64)
	if err != nil || actorID == 0 {
		return service.Session{}, errors.New("missing or invalid actor_id")
	}

	return service.Session{
		GuildID:   model.Ref(guildID),
		Community: q.Get("community"),
		Actor: model.Actor{
			ID:   model.Ref(actorID),
			Name: q.Get("actor_name"),
		},
	}, nil
}

// timeRequest mirrors the raw date/time fragments of a command.
type timeRequest struct {
	Day      string `json:"day"`
	Month    string `json:"month"`
	Year     string `json:"year"`
	Hour     string `json:"hour"`
	Minute   string `json:"minute"`
	Meridiem string `json:"meridiem"`
}

func (t timeRequest) toInput() service.TimeInput {
	return service.TimeInput{
		Day:      t.Day,
		Month:    t.Month,
		Year:     t.Year,
		Hour:     t.Hour,
		Minute:   t.Minute,
		Meridiem: t.Meridiem,
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Join(ErrBadRequest, err)
	}
	return nil
}

// writeServiceError translates domain errors into HTTP responses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, repository.ErrConfigurationMissing):
		writeError(w, http.StatusConflict, "configuration_missing", err)
	case errors.Is(err, service.ErrForbidden), errors.Is(err, claim.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden", err)
	case errors.Is(err, claim.ErrSlotHeld):
		writeError(w, http.StatusConflict, "slot_held", err)
	case errors.Is(err, service.ErrDuplicateInteraction):
		writeError(w, http.StatusConflict, "duplicate_interaction", err)
	case errors.Is(err, service.ErrUnknownConfirmation):
		writeError(w, http.StatusNotFound, "unknown_confirmation", err)
	case errors.Is(err, service.ErrConfirmationExpired):
		writeError(w, http.StatusGone, "confirmation_expired", err)
	case errors.Is(err, service.ErrNoChanges),
		errors.Is(err, service.ErrTooManyImages),
		errors.Is(err, claim.ErrUnknownSlot),
		errors.Is(err, timeparse.ErrInvalidTimestamp),
		errors.Is(err, tenant.ErrUnknownCommunity):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal", err)
	}
}
