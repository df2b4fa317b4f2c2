package claim

import "errors"

// Sentinel kinds for claim errors.
var (
	ErrForbidden   = errors.New("requester lacks the required role")
	ErrSlotHeld    = errors.New("slot already held")
	ErrUnknownSlot = errors.New("unknown slot")
)
