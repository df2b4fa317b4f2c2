package tenant

import "errors"

// Sentinel kinds for tenant resolution errors.
var (
	ErrUnknownCommunity = errors.New("unknown community")
)
