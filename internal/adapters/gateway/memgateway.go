package gateway

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/okian/matchdesk/internal/domain/model"
)

// Posted is one message as the in-memory gateway recorded it.
type Posted struct {
	Ref     string
	Channel model.Ref
	Message Message
	Edits   int
}

// MemGateway implements Gateway in memory. It records every post, edit,
// delete and access grant so tests can assert on the outbound surface.
type MemGateway struct {
	mu          sync.Mutex
	posts       map[string]*Posted        // ref -> message
	order       map[model.Ref][]string    // channel -> refs in post order
	grants      map[model.Ref][]model.Ref // channel -> granted users
	unavailable map[model.Ref]struct{}    // channels refusing traffic
}

// NewMemGateway creates an empty in-memory gateway.
func NewMemGateway() *MemGateway {
	return &MemGateway{
		posts:       make(map[string]*Posted),
		order:       make(map[model.Ref][]string),
		grants:      make(map[model.Ref][]model.Ref),
		unavailable: make(map[model.Ref]struct{}),
	}
}

// Send posts a message and returns its reference.
func (g *MemGateway) Send(_ context.Context, channel model.Ref, msg Message) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, down := g.unavailable[channel]; down {
		return "", ErrDestinationUnavailable
	}

	ref := uuid.NewString()
	g.posts[ref] = &Posted{Ref: ref, Channel: channel, Message: msg}
	g.order[channel] = append(g.order[channel], ref)
	return ref, nil
}

// Edit replaces the content of a previously sent message.
func (g *MemGateway) Edit(_ context.Context, channel model.Ref, ref string, msg Message) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, down := g.unavailable[channel]; down {
		return ErrDestinationUnavailable
	}

	p, ok := g.posts[ref]
	if !ok || p.Channel != channel {
		return ErrUnknownMessage
	}
	p.Message = msg
	p.Edits++
	return nil
}

// Delete removes a previously sent message.
func (g *MemGateway) Delete(_ context.Context, channel model.Ref, ref string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, down := g.unavailable[channel]; down {
		return ErrDestinationUnavailable
	}

	p, ok := g.posts[ref]
	if !ok || p.Channel != channel {
		return ErrUnknownMessage
	}
	delete(g.posts, ref)

	refs := g.order[channel]
	for i, r := range refs {
		if r == ref {
			g.order[channel] = append(refs[:i], refs[i+1:]...)
			break
		}
	}
	return nil
}

// GrantChannelAccess records a channel access grant.
func (g *MemGateway) GrantChannelAccess(_ context.Context, channel, user model.Ref) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, down := g.unavailable[channel]; down {
		return ErrDestinationUnavailable
	}
	g.grants[channel] = append(g.grants[channel], user)
	return nil
}

// SetUnavailable toggles a channel's availability. Operations against an
// unavailable channel fail with ErrDestinationUnavailable.
func (g *MemGateway) SetUnavailable(channel model.Ref, down bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if down {
		g.unavailable[channel] = struct{}{}
	} else {
		delete(g.unavailable, channel)
	}
}

// Messages returns the live messages in a channel, in post order.
func (g *MemGateway) Messages(channel model.Ref) []Posted {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]Posted, 0, len(g.order[channel]))
	for _, ref := range g.order[channel] {
		if p, ok := g.posts[ref]; ok {
			out = append(out, *p)
		}
	}
	return out
}

// Message returns a single message by reference.
func (g *MemGateway) Message(ref string) (Posted, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, ok := g.posts[ref]
	if !ok {
		return Posted{}, false
	}
	return *p, true
}

// Grants returns the users granted access to a channel, in grant order.
func (g *MemGateway) Grants(channel model.Ref) []model.Ref {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]model.Ref, len(g.grants[channel]))
	copy(out, g.grants[channel])
	return out
}
