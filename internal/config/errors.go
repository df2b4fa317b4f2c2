package config

import "errors"

// Sentinel kinds for configuration errors.
var (
	ErrInvalidClaimPolicy = errors.New("invalid claim policy")
)
