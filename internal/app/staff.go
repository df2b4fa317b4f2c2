package service

import (
	"context"
	"time"

	"github.com/okian/matchdesk/internal/domain/model"
)

// StaffRequest carries a staff data submission.
type StaffRequest struct {
	GameName string
	GameID   string
	Username string
	Tag      string
}

// SubmitStaff records the actor's staff data.
func (s *Service) SubmitStaff(ctx context.Context, sess Session, req StaffRequest) (err error) {
	defer func(start time.Time) { track("staff.submit", start, err) }(time.Now())

	ns, cfg, err := s.namespace(ctx, sess)
	if err != nil {
		return err
	}

	err = ns.AppendStaffSubmission(ctx, model.StaffSubmission{
		GameName:    req.GameName,
		GameID:      req.GameID,
		Username:    req.Username,
		Tag:         req.Tag,
		PlatformID:  sess.Actor.ID,
		SubmittedAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	s.audit(ctx, cfg, auditLine(sess.Actor, "submitted staff data"))
	return nil
}

// StaffHistory lists the events the given staff member judged. A zero staff
// reference resolves to the requesting actor.
func (s *Service) StaffHistory(ctx context.Context, sess Session, staff model.Ref) (events []model.Event, err error) {
	defer func(start time.Time) { track("staff.history", start, err) }(time.Now())

	if !staff.IsSet() {
		staff = sess.Actor.ID
	}

	ns, cfg, err := s.namespace(ctx, sess)
	if err != nil {
		return nil, err
	}

	events, err = ns.EventsJudgedBy(ctx, staff)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, cfg, auditLine(sess.Actor, "viewed judge history (%d events)", len(events)))
	return events, nil
}

// RegistrationRequest carries a tournament sign-up: the in-game id plus the
// free-text payload and optional image the form collected.
type RegistrationRequest struct {
	GameID   string
	Payload  string
	ImageURL string
}

// Register records a tournament sign-up for the actor.
func (s *Service) Register(ctx context.Context, sess Session, req RegistrationRequest) (err error) {
	defer func(start time.Time) { track("registration.open", start, err) }(time.Now())

	ns, cfg, err := s.namespace(ctx, sess)
	if err != nil {
		return err
	}

	err = ns.AppendRegistration(ctx, model.Registration{
		UserID:      sess.Actor.ID,
		Username:    sess.Actor.Name,
		GameID:      req.GameID,
		Payload:     req.Payload,
		ImageURL:    req.ImageURL,
		SubmittedAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	s.audit(ctx, cfg, auditLine(sess.Actor, "registered for the tournament"))
	return nil
}
