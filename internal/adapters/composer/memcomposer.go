package composer

import (
	"context"
	"fmt"
	"sync"
)

// MemComposer is an in-memory Composer producing deterministic placeholder
// payloads instead of real images.
type MemComposer struct {
	mu          sync.Mutex
	unavailable bool
	renders     int
}

// NewMemComposer creates a new in-memory composer.
func NewMemComposer() *MemComposer {
	return &MemComposer{}
}

// SetUnavailable toggles failure of subsequent Compose calls.
func (c *MemComposer) SetUnavailable(down bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.unavailable = down
}

// Renders reports how many payloads have been produced.
func (c *MemComposer) Renders() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.renders
}

// Compose renders a deterministic placeholder payload for the request.
func (c *MemComposer) Compose(_ context.Context, req Request) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.unavailable {
		return nil, ErrUnavailable
	}

	c.renders++
	return []byte(fmt.Sprintf("card(%s vs %s @ %s, logo=%s)", req.Team1, req.Team2, req.TimeText, req.LogoRef)), nil
}
