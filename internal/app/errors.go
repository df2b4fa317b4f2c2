package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrAlreadyStarted       = errors.New("service already started")
	ErrNotStarted           = errors.New("service not started")
	ErrNoChanges            = errors.New("no changes requested")
	ErrForbidden            = errors.New("operator role required")
	ErrDuplicateInteraction = errors.New("interaction already processed")
	ErrUnknownConfirmation  = errors.New("unknown confirmation token")
	ErrConfirmationExpired  = errors.New("confirmation token expired")
	ErrTooManyImages        = errors.New("too many evidence images")
)
