// Package gateway defines the contract for the chat platform the assistant
// posts to. Implementations adapt a concrete platform; the in-memory
// implementation backs tests and local runs.
package gateway

import (
	"context"

	"github.com/okian/matchdesk/internal/domain/display"
	"github.com/okian/matchdesk/internal/domain/model"
	"github.com/okian/matchdesk/internal/domain/results"
)

// Attachment is a binary payload posted alongside a message.
type Attachment struct {
	Name string
	Data []byte
}

// Message is one outbound post: plain content, an event card, a results
// card, or content above a card, with an optional attachment.
type Message struct {
	Content    string
	Card       *display.Document
	Results    *results.Document
	Attachment *Attachment
}

// Gateway sends, edits and deletes messages and manages channel access.
//
// Send returns an opaque message reference the caller can later pass to
// Edit or Delete. All operations are synchronous; callers that need
// best-effort semantics go through the outbox instead.
type Gateway interface {
	Send(ctx context.Context, channel model.Ref, msg Message) (string, error)
	Edit(ctx context.Context, channel model.Ref, ref string, msg Message) error
	Delete(ctx context.Context, channel model.Ref, ref string) error

	// GrantChannelAccess makes a restricted match channel visible to a user.
	GrantChannelAccess(ctx context.Context, channel, user model.Ref) error
}
