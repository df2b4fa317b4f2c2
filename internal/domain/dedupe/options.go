package dedupe

// Option applies a configuration option to the guard.
type Option func(*inMemoryGuard)

// WithMaxSize bounds how many interaction ids are retained.
// Zero or negative means unbounded.
func WithMaxSize(size int) Option {
	return func(g *inMemoryGuard) {
		g.maxSize = size
	}
}
