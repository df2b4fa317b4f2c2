package gateway

import "errors"

// Sentinel kinds for gateway errors.
var (
	ErrDestinationUnavailable = errors.New("destination unavailable")
	ErrUnknownMessage         = errors.New("unknown message reference")
)
