package timeparse

import "errors"

// Sentinel kinds for timestamp errors.
var (
	ErrInvalidTimestamp = errors.New("invalid timestamp")
)
