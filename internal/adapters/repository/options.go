package repository

// Default store configuration constants.
const (
	defaultCapacityHint = 64
)

// Option applies a configuration option to the MemStore.
type Option func(*MemStore)

// WithCapacityHint presizes each namespace's event collection.
func WithCapacityHint(n int) Option {
	return func(s *MemStore) {
		if n > 0 {
			s.capacityHint = n
		}
	}
}
