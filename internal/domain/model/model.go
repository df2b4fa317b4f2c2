// Package model contains domain models passed between layers.
package model

import "time"

// Ref is a platform identifier (user, role, channel or message).
// Zero means "not set"; the platform never issues a zero id.
type Ref uint64

// IsSet reports whether the reference points at something.
func (r Ref) IsSet() bool { return r != 0 }

// TenantConfig is the per-community configuration document.
// At most one exists per tenant; created by config.set, merged by config.edit.
type TenantConfig struct {
	GuildID             Ref
	OperatorRole        Ref
	JudgeRole           Ref
	RecorderRole        Ref
	ScheduleChannel     Ref
	ResultsChannel      Ref
	NotificationChannel Ref
	TranscriptChannel   Ref
	ThumbnailChannel    Ref
	LogoRef             string
}

// TenantConfigPatch carries only the fields a config.edit wants to change.
type TenantConfigPatch struct {
	OperatorRole        *Ref
	JudgeRole           *Ref
	RecorderRole        *Ref
	ScheduleChannel     *Ref
	ResultsChannel      *Ref
	NotificationChannel *Ref
	TranscriptChannel   *Ref
	ThumbnailChannel    *Ref
	LogoRef             *string
}

// Apply merges set fields of p into c. Absent fields are left untouched.
func (c *TenantConfig) Apply(p TenantConfigPatch) {
	if p.OperatorRole != nil {
		c.OperatorRole = *p.OperatorRole
	}
	if p.JudgeRole != nil {
		c.JudgeRole = *p.JudgeRole
	}
	if p.RecorderRole != nil {
		c.RecorderRole = *p.RecorderRole
	}
	if p.ScheduleChannel != nil {
		c.ScheduleChannel = *p.ScheduleChannel
	}
	if p.ResultsChannel != nil {
		c.ResultsChannel = *p.ResultsChannel
	}
	if p.NotificationChannel != nil {
		c.NotificationChannel = *p.NotificationChannel
	}
	if p.TranscriptChannel != nil {
		c.TranscriptChannel = *p.TranscriptChannel
	}
	if p.ThumbnailChannel != nil {
		c.ThumbnailChannel = *p.ThumbnailChannel
	}
	if p.LogoRef != nil {
		c.LogoRef = *p.LogoRef
	}
}

// Empty reports whether the patch changes nothing.
func (p TenantConfigPatch) Empty() bool {
	return p.OperatorRole == nil && p.JudgeRole == nil && p.RecorderRole == nil &&
		p.ScheduleChannel == nil && p.ResultsChannel == nil && p.NotificationChannel == nil &&
		p.TranscriptChannel == nil && p.ThumbnailChannel == nil && p.LogoRef == nil
}

// Event is the central scheduled-match record.
type Event struct {
	ID            string // document identity, stable across title changes
	Title         string // "<team1> vs <team2>", lookup key within a tenant
	Team1         string
	Team2         string
	ScheduledAt   time.Time // absolute instant, UTC
	ScheduledText string    // human-entered form, e.g. "25/12/2025 8:30 PM"
	Tournament    string
	Group         string
	Round         string
	Channel       Ref // optional restricted match channel
	Captain1      Ref
	Captain2      Ref
	Judge         Ref // empty until claimed
	Recorder      Ref // empty until claimed
	ImageURL      string
	Remarks       string
	MessageRef    string // rendered display message reference
	Revision      uint64 // bumped by every committed mutation
}

// EventTitle derives the canonical event title from the team names.
func EventTitle(team1, team2 string) string {
	return team1 + " vs " + team2
}

// EventPatch carries only the fields an edit wants to change.
// Merge semantics: nil means "leave untouched".
type EventPatch struct {
	Team1         *string
	Team2         *string
	ScheduledAt   *time.Time
	ScheduledText *string
	Tournament    *string
	Group         *string
	Round         *string
	Channel       *Ref
	Captain1      *Ref
	Captain2      *Ref
	Judge         *Ref
	Recorder      *Ref
	ImageURL      *string
	Remarks       *string
}

// Apply merges set fields of p into e and recomputes the title when a team
// name changed.
func (e *Event) Apply(p EventPatch) {
	if p.Team1 != nil {
		e.Team1 = *p.Team1
	}
	if p.Team2 != nil {
		e.Team2 = *p.Team2
	}
	if p.Team1 != nil || p.Team2 != nil {
		e.Title = EventTitle(e.Team1, e.Team2)
	}
	if p.ScheduledAt != nil {
		e.ScheduledAt = *p.ScheduledAt
	}
	if p.ScheduledText != nil {
		e.ScheduledText = *p.ScheduledText
	}
	if p.Tournament != nil {
		e.Tournament = *p.Tournament
	}
	if p.Group != nil {
		e.Group = *p.Group
	}
	if p.Round != nil {
		e.Round = *p.Round
	}
	if p.Channel != nil {
		e.Channel = *p.Channel
	}
	if p.Captain1 != nil {
		e.Captain1 = *p.Captain1
	}
	if p.Captain2 != nil {
		e.Captain2 = *p.Captain2
	}
	if p.Judge != nil {
		e.Judge = *p.Judge
	}
	if p.Recorder != nil {
		e.Recorder = *p.Recorder
	}
	if p.ImageURL != nil {
		e.ImageURL = *p.ImageURL
	}
	if p.Remarks != nil {
		e.Remarks = *p.Remarks
	}
}

// Empty reports whether the patch changes nothing.
func (p EventPatch) Empty() bool {
	return p.Team1 == nil && p.Team2 == nil && p.ScheduledAt == nil &&
		p.ScheduledText == nil && p.Tournament == nil && p.Group == nil &&
		p.Round == nil && p.Channel == nil && p.Captain1 == nil &&
		p.Captain2 == nil && p.Judge == nil && p.Recorder == nil &&
		p.ImageURL == nil && p.Remarks == nil
}

// ResultRecord is an append-only record of a submitted result.
// Re-submission appends a new record; records are never mutated.
type ResultRecord struct {
	ID            string
	EventID       string
	EventTitle    string
	Team1Score    int
	Team2Score    int
	MatchCount    int
	Remarks       string
	RecordingLink string
	Evidence      []string // ordered; first item is inlined, the rest are linked
	RecordedAt    time.Time
}

// StaffSubmission correlates a platform identity with submitted staff data.
type StaffSubmission struct {
	ID          string
	GameName    string
	GameID      string
	Username    string
	Tag         string
	PlatformID  Ref
	SubmittedAt time.Time
}

// Registration is an append-only tournament sign-up record.
type Registration struct {
	ID          string
	UserID      Ref
	Username    string
	GameID      string
	Payload     string
	ImageURL    string
	SubmittedAt time.Time
}

// Actor is the authenticated origin of a command or interaction.
type Actor struct {
	ID    Ref
	Name  string
	Roles []Ref
}

// HasRole reports whether the actor carries the given role.
func (a Actor) HasRole(role Ref) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}
