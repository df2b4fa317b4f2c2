// Package dedupe guards against interaction replays.
//
// Chat platforms may redeliver a button interaction (client retries, gateway
// reconnects). Claim and confirmation handlers record each interaction id
// here so a redelivered interaction is acknowledged without re-running the
// transition.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"
)

// Guard records seen interaction IDs to ensure at-most-once processing.
type Guard interface {
	// SeenAndRecord atomically checks if id was seen and records it if not.
	// Returns true if id was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord removes an ID from the seen list, allowing it to be retried.
	// Use when an interaction was recorded but its processing failed before
	// any state change.
	Unrecord(ctx context.Context, id string)

	Size() int64
}

// inMemoryGuard implements Guard with a map plus a FIFO ring for eviction.
// maxSize <= 0 disables eviction.
type inMemoryGuard struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	order   []string // FIFO eviction order; empty slots after Unrecord are skipped
	maxSize int
	size    atomic.Int64
}

// NewInMemoryGuard creates a new in-memory guard with configuration options.
func NewInMemoryGuard(opts ...Option) Guard {
	g := &inMemoryGuard{
		maxSize: 50_000, // default max size
	}

	for _, opt := range opts {
		opt(g)
	}

	g.seen = make(map[string]struct{})
	return g
}

// SeenAndRecord atomically checks if id was seen and records it if not.
func (g *inMemoryGuard) SeenAndRecord(_ context.Context, id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.seen[id]; ok {
		return true
	}

	g.seen[id] = struct{}{}
	g.size.Add(1)

	if g.maxSize > 0 {
		g.order = append(g.order, id)
		g.evictLocked()
	}
	return false
}

// Unrecord removes an ID from the seen list.
func (g *inMemoryGuard) Unrecord(_ context.Context, id string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.seen[id]; !ok {
		return
	}
	delete(g.seen, id)
	g.size.Add(-1)
	// The stale entry in the ring is skipped at eviction time.
}

// Size returns the current number of recorded ids.
func (g *inMemoryGuard) Size() int64 {
	return g.size.Load()
}

// evictLocked drops the oldest recorded ids until the guard fits maxSize.
// Caller must hold g.mu.
func (g *inMemoryGuard) evictLocked() {
	for int(g.size.Load()) > g.maxSize && len(g.order) > 0 {
		oldest := g.order[0]
		g.order = g.order[1:]
		if _, ok := g.seen[oldest]; !ok {
			continue // already unrecorded
		}
		delete(g.seen, oldest)
		g.size.Add(-1)
	}
}
