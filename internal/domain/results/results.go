// Package results computes match outcomes and renders the public results view.
package results

import (
	"fmt"

	"github.com/okian/matchdesk/internal/domain/display"
	"github.com/okian/matchdesk/internal/domain/model"
)

// Outcome is the computed winner of a match.
type Outcome string

// Possible outcomes.
const (
	Team1Wins Outcome = "team1"
	Team2Wins Outcome = "team2"
	Draw      Outcome = "draw"
)

// Emblems attached to the winning and losing side of the results line.
const (
	winnerEmblem = ":trophy:"
	loserEmblem  = ":skull:"
)

// Winner determines the outcome from the two scores.
func Winner(team1Score, team2Score int) Outcome {
	switch {
	case team1Score > team2Score:
		return Team1Wins
	case team2Score > team1Score:
		return Team2Wins
	default:
		return Draw
	}
}

// Document is the rendered public results view. It repeats the event's
// contextual fields and adds the results line.
type Document struct {
	Title         string
	LocalTime     string
	Tournament    string
	Group         string
	Round         string
	Channel       string
	Captain1      string
	Captain2      string
	Staffs        string
	Results       string
	RecordingLink string // optional
	Remarks       string // optional
	ImageURL      string // primary evidence, optional
}

// Render builds the results document from the event snapshot and the
// submitted record. Primary evidence (the first image) is inlined; use
// SecondaryEvidence for the remainder.
func Render(e model.Event, rec model.ResultRecord) Document {
	eventDoc := display.Render(e)

	doc := Document{
		Title:         e.Title,
		LocalTime:     eventDoc.LocalTime,
		Tournament:    eventDoc.Tournament,
		Group:         eventDoc.Group,
		Round:         eventDoc.Round,
		Channel:       eventDoc.Channel,
		Captain1:      eventDoc.Captain1,
		Captain2:      eventDoc.Captain2,
		Staffs:        eventDoc.Staffs,
		Results:       resultsLine(e, rec),
		RecordingLink: rec.RecordingLink,
		Remarks:       rec.Remarks,
	}
	if len(rec.Evidence) > 0 {
		doc.ImageURL = rec.Evidence[0]
	}
	return doc
}

// SecondaryEvidence returns evidence beyond the first image. These are
// delivered as one plain message preceding the results document.
func SecondaryEvidence(rec model.ResultRecord) []string {
	if len(rec.Evidence) <= 1 {
		return nil
	}
	return rec.Evidence[1:]
}

// resultsLine marks the winning side with the trophy emblem. A draw gets
// the loser emblem on both sides, matching the score mirror.
func resultsLine(e model.Event, rec model.ResultRecord) string {
	winner := Winner(rec.Team1Score, rec.Team2Score)

	left := loserEmblem
	if winner == Team1Wins {
		left = winnerEmblem
	}
	right := loserEmblem
	if winner == Team2Wins {
		right = winnerEmblem
	}

	return fmt.Sprintf("%s %s (%d) : (%d) %s %s",
		left, e.Team1, rec.Team1Score, rec.Team2Score, e.Team2, right)
}
