// Package queue defines the contract for enqueuing and consuming outbound
// deliveries. Audit lines and notifications go through here so a slow or
// failing destination never blocks command handling.
package queue

import (
	"context"
	"sync"
	"time"

	"github.com/okian/matchdesk/internal/adapters/gateway"
	"github.com/okian/matchdesk/internal/domain/model"
	"github.com/okian/matchdesk/pkg/metrics"
)

// Default queue configuration constants.
const (
	defaultCapacity = 10000
)

// Delivery kinds flowing through the outbox.
const (
	KindAudit        = "audit"
	KindNotification = "notification"
	KindThumbnail    = "thumbnail"
)

// Delivery is one pending outbound message.
type Delivery struct {
	Kind       string
	Channel    model.Ref
	Message    gateway.Message
	EnqueuedAt time.Time
}

// Outbox provides non-blocking enqueue and channel-based dequeue semantics.
type Outbox interface {
	// Enqueue adds a delivery to the outbox.
	// Returns false if the outbox is full or closed and the delivery was dropped.
	Enqueue(ctx context.Context, d Delivery) bool

	// Dequeue returns a channel that receives deliveries as they become
	// available. The channel is closed when the outbox is closed.
	Dequeue(ctx context.Context) <-chan Delivery

	// Len returns the current number of pending deliveries.
	Len(ctx context.Context) int

	// Close shuts the outbox down. After closing, no new deliveries can be
	// enqueued and the dequeue channel is closed.
	Close() error

	// IsClosed reports whether the outbox has been closed.
	IsClosed() bool
}

// InMemoryOutbox implements Outbox using a buffered channel.
type InMemoryOutbox struct {
	deliveries chan Delivery
	capacity   int

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryOutbox creates a new in-memory outbox with configuration options.
func NewInMemoryOutbox(opts ...Option) *InMemoryOutbox {
	o := &InMemoryOutbox{
		capacity: defaultCapacity,
	}

	for _, opt := range opts {
		opt(o)
	}

	o.deliveries = make(chan Delivery, o.capacity)

	metrics.UpdateOutboxCapacity(o.capacity)
	metrics.UpdateOutboxDepth(0)

	return o
}

// Enqueue adds a delivery to the outbox.
func (o *InMemoryOutbox) Enqueue(ctx context.Context, d Delivery) bool {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if o.closed {
		metrics.RecordOutboxRejected()
		metrics.RecordErrorByComponent("outbox", "closed")
		return false
	}

	if d.EnqueuedAt.IsZero() {
		d.EnqueuedAt = time.Now()
	}

	select {
	case o.deliveries <- d:
		metrics.UpdateOutboxDepth(len(o.deliveries))
		return true
	case <-ctx.Done():
		metrics.RecordOutboxRejected()
		metrics.RecordErrorByComponent("outbox", "context_cancelled")
		return false
	default:
		metrics.RecordOutboxRejected()
		metrics.RecordErrorByComponent("outbox", "capacity_exceeded")
		return false
	}
}

// Dequeue returns a channel that receives deliveries as they become available.
func (o *InMemoryOutbox) Dequeue(ctx context.Context) <-chan Delivery {
	out := make(chan Delivery)
	go func() {
		defer close(out)
		for d := range o.deliveries {
			select {
			case out <- d:
				metrics.UpdateOutboxDepth(len(o.deliveries))
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len returns the current number of pending deliveries.
func (o *InMemoryOutbox) Len(_ context.Context) int {
	depth := len(o.deliveries)
	metrics.UpdateOutboxDepth(depth)
	return depth
}

// Close shuts the outbox down.
func (o *InMemoryOutbox) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return nil
	}

	close(o.deliveries)
	o.closed = true
	return nil
}

// IsClosed reports whether the outbox has been closed.
func (o *InMemoryOutbox) IsClosed() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.closed
}
