package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/okian/matchdesk/internal/adapters/composer"
	"github.com/okian/matchdesk/internal/adapters/gateway"
	outbox "github.com/okian/matchdesk/internal/adapters/mq/queue"
	"github.com/okian/matchdesk/internal/adapters/repository"
	"github.com/okian/matchdesk/internal/domain/display"
	"github.com/okian/matchdesk/internal/domain/model"
	"github.com/okian/matchdesk/internal/domain/timeparse"
	"github.com/okian/matchdesk/pkg/logger"
	"github.com/okian/matchdesk/pkg/metrics"
)

// TimeInput carries the raw date/time fragments of a command.
type TimeInput struct {
	Day      string
	Month    string
	Year     string
	Hour     string
	Minute   string
	Meridiem string
}

// Empty reports whether no fragment was supplied.
func (t TimeInput) Empty() bool {
	return t.Day == "" && t.Month == "" && t.Year == "" &&
		t.Hour == "" && t.Minute == "" && t.Meridiem == ""
}

// CreateEventRequest carries the fields of an event create command.
type CreateEventRequest struct {
	Team1      string
	Team2      string
	Time       TimeInput
	Tournament string
	Group      string
	Round      string
	Channel    model.Ref
	Captain1   model.Ref
	Captain2   model.Ref
	Judge      model.Ref
	Recorder   model.Ref
	ImageURL   string
	Remarks    string
}

// EditEventRequest carries an event edit: a merge patch plus an optional
// replacement timestamp.
type EditEventRequest struct {
	Patch model.EventPatch
	Time  *TimeInput
}

// CreateEvent schedules a new match event: it normalizes the timestamp,
// posts the card to the schedule channel and stores the document.
func (s *Service) CreateEvent(ctx context.Context, sess Session, req CreateEventRequest) (e model.Event, err error) {
	defer func(start time.Time) { track("event.create", start, err) }(time.Now())

	ns, cfg, err := s.namespace(ctx, sess)
	if err != nil {
		return model.Event{}, err
	}
	if err = requireOperator(cfg, sess.Actor); err != nil {
		return model.Event{}, err
	}

	instant, err := timeparse.Normalize(req.Time.Day, req.Time.Month, req.Time.Year,
		req.Time.Hour, req.Time.Minute, req.Time.Meridiem)
	if err != nil {
		return model.Event{}, err
	}

	e = model.Event{
		Title:         model.EventTitle(req.Team1, req.Team2),
		Team1:         req.Team1,
		Team2:         req.Team2,
		ScheduledAt:   instant.At,
		ScheduledText: instant.Text,
		Tournament:    req.Tournament,
		Group:         req.Group,
		Round:         req.Round,
		Channel:       req.Channel,
		Captain1:      req.Captain1,
		Captain2:      req.Captain2,
		Judge:         req.Judge,
		Recorder:      req.Recorder,
		ImageURL:      req.ImageURL,
		Remarks:       req.Remarks,
	}

	// Post the card before storing so the stored document carries its
	// message reference from the start.
	if cfg.ScheduleChannel.IsSet() {
		doc := display.Render(e)
		msg := gateway.Message{Card: &doc}

		// Card image rendering is best effort; the event is posted without
		// an image when the renderer fails.
		if img, cerr := s.cards.Compose(ctx, composer.Request{
			Team1:    e.Team1,
			Team2:    e.Team2,
			TimeText: e.ScheduledText,
			LogoRef:  cfg.LogoRef,
		}); cerr != nil {
			metrics.RecordErrorByComponent("composer", "render_error")
			s.logger.Warn(ctx, "composing match card image",
				logger.String("title", e.Title),
				logger.Error(cerr),
			)
		} else {
			msg.Attachment = &gateway.Attachment{Name: e.Title + ".png", Data: img}
		}

		ref, sendErr := s.gw.Send(ctx, cfg.ScheduleChannel, msg)
		if sendErr != nil {
			err = fmt.Errorf("posting schedule card: %w", sendErr)
			return model.Event{}, err
		}
		e.MessageRef = ref

		if msg.Attachment != nil && cfg.ThumbnailChannel.IsSet() {
			ok := s.deliveries.Enqueue(ctx, outbox.Delivery{
				Kind:    outbox.KindThumbnail,
				Channel: cfg.ThumbnailChannel,
				Message: gateway.Message{Content: e.Title, Attachment: msg.Attachment},
			})
			if !ok {
				s.logger.Warn(ctx, "thumbnail copy dropped", logger.String("title", e.Title))
			}
		}
	}

	id, err := ns.CreateEvent(ctx, e)
	if err != nil {
		return model.Event{}, fmt.Errorf("storing event: %w", err)
	}
	e.ID = id
	e.Revision = 1

	if _, err := ns.AdvanceDisplayRevision(ctx, id, e.Revision); err != nil {
		s.logger.Warn(ctx, "recording display revision", logger.Error(err))
	}

	s.notify(ctx, cfg, fmt.Sprintf("**%s** scheduled for %s", e.Title, display.LocalTimeValue(e.ScheduledAt)))
	s.audit(ctx, cfg, auditLine(sess.Actor, "created event **%s**", e.Title))

	metrics.RecordEventCreated()
	metrics.UpdateEventsTracked(s.store.CountEvents(ctx))
	return e, nil
}

// EditEvent merges the requested changes into the event and refreshes the
// posted card from the resulting snapshot.
func (s *Service) EditEvent(ctx context.Context, sess Session, title string, req EditEventRequest) (e model.Event, err error) {
	defer func(start time.Time) { track("event.edit", start, err) }(time.Now())

	ns, cfg, err := s.namespace(ctx, sess)
	if err != nil {
		return model.Event{}, err
	}
	if err = requireOperator(cfg, sess.Actor); err != nil {
		return model.Event{}, err
	}

	patch := req.Patch
	if req.Time != nil && !req.Time.Empty() {
		instant, terr := timeparse.Normalize(req.Time.Day, req.Time.Month, req.Time.Year,
			req.Time.Hour, req.Time.Minute, req.Time.Meridiem)
		if terr != nil {
			return model.Event{}, terr
		}
		patch.ScheduledAt = &instant.At
		patch.ScheduledText = &instant.Text
	}

	if patch.Empty() {
		return model.Event{}, ErrNoChanges
	}

	e, err = ns.MutateEvent(ctx, title, func(doc *model.Event) error {
		doc.Apply(patch)
		return nil
	})
	if err != nil {
		return model.Event{}, err
	}

	s.refreshDisplay(ctx, ns, cfg, e)
	s.audit(ctx, cfg, auditLine(sess.Actor, "edited event **%s**", e.Title))
	return e, nil
}

// DeleteEvent stages a delete and returns the confirmation token. Nothing
// is removed until ConfirmDelete is called with the token; the reason is
// carried into the transcript line written on confirmation.
func (s *Service) DeleteEvent(ctx context.Context, sess Session, title, reason string) (token string, e model.Event, err error) {
	defer func(start time.Time) { track("event.delete", start, err) }(time.Now())

	ns, cfg, err := s.namespace(ctx, sess)
	if err != nil {
		return "", model.Event{}, err
	}
	if err = requireOperator(cfg, sess.Actor); err != nil {
		return "", model.Event{}, err
	}

	e, err = ns.GetEvent(ctx, title)
	if err != nil {
		return "", model.Event{}, err
	}

	key, err := tenantKey(sess)
	if err != nil {
		return "", model.Event{}, err
	}

	token = uuid.NewString()
	s.pendingMu.Lock()
	s.pending[token] = pendingDelete{
		key:     key,
		title:   title,
		reason:  reason,
		actor:   sess.Actor.ID,
		expires: time.Now().Add(s.confirmTTL),
	}
	s.pendingMu.Unlock()

	return token, e, nil
}

// ConfirmDelete completes a staged delete. The token is single use, bound
// to the actor who staged it and expires after the configured TTL.
func (s *Service) ConfirmDelete(ctx context.Context, sess Session, token string) (e model.Event, err error) {
	defer func(start time.Time) { track("event.delete.confirm", start, err) }(time.Now())

	if sess.InteractionID != "" && s.guard.SeenAndRecord(ctx, sess.InteractionID) {
		metrics.RecordInteractionReplay()
		return model.Event{}, ErrDuplicateInteraction
	}

	s.pendingMu.Lock()
	pd, ok := s.pending[token]
	if ok {
		delete(s.pending, token)
	}
	s.pendingMu.Unlock()

	if !ok {
		return model.Event{}, ErrUnknownConfirmation
	}
	if key, kerr := tenantKey(sess); kerr != nil || key != pd.key {
		return model.Event{}, ErrUnknownConfirmation
	}
	if time.Now().After(pd.expires) {
		return model.Event{}, ErrConfirmationExpired
	}
	if pd.actor != sess.Actor.ID {
		return model.Event{}, fmt.Errorf("%w: confirmation belongs to another user", ErrForbidden)
	}

	ns, cfg, err := s.namespace(ctx, sess)
	if err != nil {
		return model.Event{}, err
	}

	e, err = ns.DeleteEvent(ctx, pd.title)
	if err != nil {
		return model.Event{}, err
	}

	if e.MessageRef != "" && cfg.ScheduleChannel.IsSet() {
		if derr := s.gw.Delete(ctx, cfg.ScheduleChannel, e.MessageRef); derr != nil {
			s.logger.Warn(ctx, "removing schedule card",
				logger.String("title", e.Title),
				logger.Error(derr),
			)
		}
	}

	reason := pd.reason
	if reason == "" {
		reason = "None"
	}
	s.audit(ctx, cfg, auditLine(sess.Actor, "deleted event **%s**. Reason: %s", e.Title, reason))

	metrics.RecordEventDeleted()
	metrics.UpdateEventsTracked(s.store.CountEvents(ctx))
	return e, nil
}

// ShowEvent returns an event snapshot and its rendered card.
func (s *Service) ShowEvent(ctx context.Context, sess Session, title string) (e model.Event, doc display.Document, err error) {
	defer func(start time.Time) { track("event.show", start, err) }(time.Now())

	ns, cfg, err := s.namespace(ctx, sess)
	if err != nil {
		return model.Event{}, display.Document{}, err
	}

	e, err = ns.GetEvent(ctx, title)
	if err != nil {
		return model.Event{}, display.Document{}, err
	}

	s.audit(ctx, cfg, auditLine(sess.Actor, "viewed event **%s**", e.Title))
	return e, display.Render(e), nil
}

// ListEvents returns the community's events in creation order.
func (s *Service) ListEvents(ctx context.Context, sess Session) (events []model.Event, err error) {
	defer func(start time.Time) { track("event.list", start, err) }(time.Now())

	ns, cfg, err := s.namespace(ctx, sess)
	if err != nil {
		return nil, err
	}

	events, err = ns.ListEvents(ctx)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, cfg, auditLine(sess.Actor, "listed %d events", len(events)))
	return events, nil
}

// refreshDisplay re-renders the card for a committed snapshot and edits the
// posted message. A snapshot older than the last pushed revision is dropped
// so a newer card is never overwritten by a stale one.
func (s *Service) refreshDisplay(ctx context.Context, ns repository.Namespace, cfg model.TenantConfig, e model.Event) {
	if e.MessageRef == "" || !cfg.ScheduleChannel.IsSet() {
		return
	}

	ok, err := ns.AdvanceDisplayRevision(ctx, e.ID, e.Revision)
	if err != nil {
		s.logger.Warn(ctx, "recording display revision", logger.Error(err))
		return
	}
	if !ok {
		metrics.RecordDisplayEditDropped()
		return
	}

	doc := display.Render(e)
	if err := s.gw.Edit(ctx, cfg.ScheduleChannel, e.MessageRef, gateway.Message{Card: &doc}); err != nil {
		metrics.RecordErrorByComponent("display", "edit_error")
		s.logger.Error(ctx, "refreshing schedule card",
			logger.String("title", e.Title),
			logger.Error(err),
		)
		return
	}
	metrics.RecordDisplayEdit()
}
