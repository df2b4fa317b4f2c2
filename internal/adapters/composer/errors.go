package composer

import "errors"

var (
	// ErrUnavailable indicates the renderer cannot produce images right now.
	ErrUnavailable = errors.New("composer unavailable")
)
