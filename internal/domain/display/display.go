// Package display renders an event record into its structured display
// document.
//
// The display is a tagged record with one typed slot per field rather than a
// positional, label-searched list. Every slot is derived from the event
// snapshot alone, so re-rendering after a mutation always reflects the
// store's current state; there is no in-memory display to go stale. An edit
// that does not touch staffing therefore leaves the Staffs slot byte-identical
// by construction.
package display

import (
	"fmt"
	"time"

	"github.com/okian/matchdesk/internal/domain/model"
)

// Placeholder strings used across event and result renderings.
const (
	NotSpecified      = "Not specified"
	AwaitingSelection = "Awaiting selection"

	titlePrefix = ":calendar_spiral: "
	slotBullet  = ":white_small_square: "
)

// Document is the rendered display of one event.
type Document struct {
	Title      string
	UTCTime    string
	LocalTime  string
	Tournament string
	Group      string
	Round      string
	Channel    string
	Captain1   string
	Captain2   string
	Staffs     string
	Remarks    string // optional; empty means the field is absent
	ImageURL   string // optional; empty means no image
}

// Field is one named display field in render order.
type Field struct {
	Name  string
	Value string
}

// Render derives the display document from an event snapshot.
func Render(e model.Event) Document {
	return Document{
		Title:      titlePrefix + e.Title,
		UTCTime:    e.ScheduledText,
		LocalTime:  LocalTimeValue(e.ScheduledAt),
		Tournament: orNotSpecified(e.Tournament),
		Group:      orNotSpecified(e.Group),
		Round:      orNotSpecified(e.Round),
		Channel:    channelOrNotSpecified(e.Channel),
		Captain1:   captainValue(e.Captain1, e.Team1),
		Captain2:   captainValue(e.Captain2, e.Team2),
		Staffs:     StaffsValue(e.Judge, e.Recorder),
		Remarks:    e.Remarks,
		ImageURL:   e.ImageURL,
	}
}

// Fields returns the ordered named field sequence, omitting absent optionals.
func (d Document) Fields() []Field {
	fields := []Field{
		{Name: "UTC Time", Value: d.UTCTime},
		{Name: "Local Time", Value: d.LocalTime},
		{Name: "Tournament", Value: d.Tournament},
		{Name: "Group", Value: d.Group},
		{Name: "Round", Value: d.Round},
		{Name: "Channel", Value: d.Channel},
		{Name: "Team1 Captain", Value: d.Captain1},
		{Name: "Team2 Captain", Value: d.Captain2},
		{Name: "Staffs", Value: d.Staffs},
	}
	if d.Remarks != "" {
		fields = append(fields, Field{Name: "Remarks", Value: d.Remarks})
	}
	return fields
}

// StaffsValue composes the single Staffs field from both slot states.
func StaffsValue(judge, recorder model.Ref) string {
	return slotBullet + "**Judge**: " + slotValue(judge) + "\n" +
		slotBullet + "**Recorder**: " + slotValue(recorder)
}

// LocalTimeValue renders the client-local time marker for an instant.
// The platform expands <t:unix> to the viewer's local time and <t:unix:R>
// to a relative phrase.
func LocalTimeValue(at time.Time) string {
	ts := at.Unix()
	return fmt.Sprintf("<t:%d> (<t:%d:R>)", ts, ts)
}

// UserMention renders a platform user mention.
func UserMention(user model.Ref) string {
	return fmt.Sprintf("<@%d>", user)
}

// ChannelMention renders a platform channel mention.
func ChannelMention(channel model.Ref) string {
	return fmt.Sprintf("<#%d>", channel)
}

func slotValue(staff model.Ref) string {
	if !staff.IsSet() {
		return AwaitingSelection
	}
	return UserMention(staff)
}

func captainValue(captain model.Ref, team string) string {
	if captain.IsSet() {
		return UserMention(captain)
	}
	return team
}

func channelOrNotSpecified(channel model.Ref) string {
	if !channel.IsSet() {
		return NotSpecified
	}
	return ChannelMention(channel)
}

func orNotSpecified(s string) string {
	if s == "" {
		return NotSpecified
	}
	return s
}
