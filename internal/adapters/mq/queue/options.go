// Package queue defines the contract for enqueuing and consuming outbound
// deliveries.
package queue

// Option applies a configuration option to the InMemoryOutbox.
type Option func(*InMemoryOutbox)

// WithCapacity sets the maximum number of pending deliveries.
func WithCapacity(capacity int) Option {
	return func(o *InMemoryOutbox) {
		if capacity > 0 {
			o.capacity = capacity
		}
	}
}
