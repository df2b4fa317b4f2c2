package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/okian/matchdesk/internal/adapters/gateway"
	"github.com/okian/matchdesk/internal/domain/model"
	"github.com/okian/matchdesk/internal/domain/results"
	"github.com/okian/matchdesk/pkg/logger"
	"github.com/okian/matchdesk/pkg/metrics"
)

// ResultRequest carries the fields of a result submission.
type ResultRequest struct {
	EventTitle    string
	Team1Score    int
	Team2Score    int
	MatchCount    int
	Remarks       string
	RecordingLink string
	Evidence      []string
}

// RecordResult appends a result record and publishes the results view.
//
// Only operators may record results. Re-submitting for the same event
// appends a new record; earlier records stay untouched. Evidence beyond
// the first image goes out as one plain message ahead of the results card,
// so the two are posted synchronously to keep their order.
func (s *Service) RecordResult(ctx context.Context, sess Session, req ResultRequest) (rec model.ResultRecord, err error) {
	defer func(start time.Time) { track("event.results", start, err) }(time.Now())

	ns, cfg, err := s.namespace(ctx, sess)
	if err != nil {
		return model.ResultRecord{}, err
	}

	if err = requireOperator(cfg, sess.Actor); err != nil {
		return model.ResultRecord{}, err
	}
	if len(req.Evidence) > s.maxEvidenceImages {
		return model.ResultRecord{}, fmt.Errorf("%w: %d supplied, %d allowed",
			ErrTooManyImages, len(req.Evidence), s.maxEvidenceImages)
	}

	e, err := ns.GetEvent(ctx, req.EventTitle)
	if err != nil {
		return model.ResultRecord{}, err
	}

	rec = model.ResultRecord{
		EventID:       e.ID,
		EventTitle:    e.Title,
		Team1Score:    req.Team1Score,
		Team2Score:    req.Team2Score,
		MatchCount:    req.MatchCount,
		Remarks:       req.Remarks,
		RecordingLink: req.RecordingLink,
		Evidence:      req.Evidence,
		RecordedAt:    time.Now().UTC(),
	}
	if err = ns.AppendResult(ctx, rec); err != nil {
		return model.ResultRecord{}, fmt.Errorf("storing result: %w", err)
	}

	if cfg.ResultsChannel.IsSet() {
		if extra := results.SecondaryEvidence(rec); len(extra) > 0 {
			if _, serr := s.gw.Send(ctx, cfg.ResultsChannel, gateway.Message{Content: strings.Join(extra, "\n")}); serr != nil {
				s.logger.Warn(ctx, "posting secondary evidence", logger.Error(serr))
			}
		}

		doc := results.Render(e, rec)
		if _, serr := s.gw.Send(ctx, cfg.ResultsChannel, gateway.Message{Results: &doc}); serr != nil {
			s.logger.Error(ctx, "posting results card",
				logger.String("title", e.Title),
				logger.Error(serr),
			)
		}
	}

	s.audit(ctx, cfg, auditLine(sess.Actor, "recorded results for **%s** (%d : %d)",
		e.Title, rec.Team1Score, rec.Team2Score))

	metrics.RecordResultRecorded()
	return rec, nil
}

// ListResults returns all result records for an event, oldest first.
func (s *Service) ListResults(ctx context.Context, sess Session, eventTitle string) (recs []model.ResultRecord, err error) {
	defer func(start time.Time) { track("event.results.list", start, err) }(time.Now())

	ns, _, err := s.namespace(ctx, sess)
	if err != nil {
		return nil, err
	}
	return ns.ListResults(ctx, eventTitle)
}
