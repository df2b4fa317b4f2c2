package service

import (
	"context"
	"errors"
	"time"

	"github.com/okian/matchdesk/internal/domain/claim"
	"github.com/okian/matchdesk/internal/domain/display"
	"github.com/okian/matchdesk/internal/domain/model"
	"github.com/okian/matchdesk/pkg/logger"
	"github.com/okian/matchdesk/pkg/metrics"
)

// Claim processes a judge or recorder claim interaction.
//
// The transition is evaluated inside the store's mutation closure, under the
// namespace lock, so two racing claims serialize and the loser's decision is
// computed from the winner's committed state. A redelivered interaction is
// absorbed by the replay guard; an evaluation failure unrecords the
// interaction so the user can retry.
func (s *Service) Claim(ctx context.Context, sess Session, title, slotName string) (d claim.Decision, e model.Event, err error) {
	defer func(start time.Time) { track("claim."+slotName, start, err) }(time.Now())

	if sess.InteractionID != "" && s.guard.SeenAndRecord(ctx, sess.InteractionID) {
		metrics.RecordInteractionReplay()
		return claim.Decision{}, model.Event{}, ErrDuplicateInteraction
	}
	unrecord := func() {
		if sess.InteractionID != "" {
			s.guard.Unrecord(ctx, sess.InteractionID)
		}
	}

	slot, err := claim.ParseSlot(slotName)
	if err != nil {
		unrecord()
		return claim.Decision{}, model.Event{}, err
	}

	ns, cfg, err := s.namespace(ctx, sess)
	if err != nil {
		unrecord()
		return claim.Decision{}, model.Event{}, err
	}

	e, err = ns.MutateEvent(ctx, title, func(doc *model.Event) error {
		var everr error
		if d, everr = s.coordinator.Evaluate(cfg, *doc, slot, sess.Actor); everr != nil {
			return everr
		}
		doc.Apply(d.Patch())
		return nil
	})
	if err != nil {
		unrecord()
		metrics.RecordClaim(string(slot), claimOutcome(err))
		return claim.Decision{}, model.Event{}, err
	}

	metrics.RecordClaim(string(slot), "accepted")
	if d.Displaced {
		metrics.RecordClaimDisplaced()
	}

	// Claiming a slot opens the restricted match channel to the claimer.
	if e.Channel.IsSet() {
		if gerr := s.gw.GrantChannelAccess(ctx, e.Channel, sess.Actor.ID); gerr != nil {
			s.logger.Warn(ctx, "granting channel access",
				logger.Uint64("channel", uint64(e.Channel)),
				logger.Error(gerr),
			)
		}
	}

	s.refreshDisplay(ctx, ns, cfg, e)
	s.audit(ctx, cfg, auditLine(sess.Actor, "claimed the %s slot for **%s** (%s)",
		slot, e.Title, display.UserMention(sess.Actor.ID)))

	return d, e, nil
}

func claimOutcome(err error) string {
	switch {
	case errors.Is(err, claim.ErrForbidden):
		return "forbidden"
	case errors.Is(err, claim.ErrSlotHeld):
		return "held"
	default:
		return "error"
	}
}
