// Package composer defines the contract for rendering match card images.
// Implementations adapt an external renderer; the in-memory implementation
// backs tests and local runs.
package composer

import (
	"context"
)

// Request carries the fields a match card image is rendered from.
type Request struct {
	Team1    string
	Team2    string
	TimeText string
	LogoRef  string
}

// Composer renders a match card image for a scheduled event.
//
// Compose returns the encoded image bytes. Rendering is best effort for
// callers; a failure must never block the command that triggered it.
type Composer interface {
	Compose(ctx context.Context, req Request) ([]byte, error)
}
