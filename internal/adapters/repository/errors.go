package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound             = errors.New("event not found")
	ErrConfigurationMissing = errors.New("tenant configuration missing")
	ErrClosed               = errors.New("store closed")
)
