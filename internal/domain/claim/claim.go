// Package claim implements the slot claim state machine.
//
// Each event carries two slots, judge and recorder. A slot is either empty
// or held by one staff identity. The coordinator decides whether a claim
// attempt may transition the slot; committing the transition to the store
// and re-rendering the display is the caller's job, so the coordinator
// never holds state of its own and can be re-run against a fresh snapshot
// on every interaction.
package claim

import (
	"fmt"

	"github.com/okian/matchdesk/internal/domain/model"
)

// Slot names the two staffing roles attachable to an event.
type Slot string

// The two slots.
const (
	SlotJudge    Slot = "judge"
	SlotRecorder Slot = "recorder"
)

// Policy selects the behavior when an eligible staff member claims a slot
// that is already held.
type Policy string

// Policies.
const (
	// LastWins re-assigns the slot to the new requester. This mirrors the
	// historical behavior; a staff member can silently displace another.
	LastWins Policy = "last_wins"
	// FirstWins rejects the claim with ErrSlotHeld. Re-claiming a slot you
	// already hold stays a no-op accept.
	FirstWins Policy = "first_wins"
)

// Decision is the outcome of an accepted claim.
type Decision struct {
	Slot      Slot
	Requester model.Ref
	Previous  model.Ref // previous holder, zero if the slot was empty
	Displaced bool      // true when an existing holder was replaced
}

// Coordinator evaluates claim transitions under a configured policy.
type Coordinator struct {
	policy Policy
}

// Option applies a configuration option to the Coordinator.
type Option func(*Coordinator)

// WithPolicy sets the held-slot policy.
func WithPolicy(p Policy) Option {
	return func(c *Coordinator) {
		if p == LastWins || p == FirstWins {
			c.policy = p
		}
	}
}

// New constructs a Coordinator. The default policy is LastWins.
func New(opts ...Option) *Coordinator {
	c := &Coordinator{policy: LastWins}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Policy returns the active held-slot policy.
func (c *Coordinator) Policy() Policy { return c.policy }

// RoleFor returns the tenant role designated for a slot.
func RoleFor(cfg model.TenantConfig, slot Slot) (model.Ref, error) {
	switch slot {
	case SlotJudge:
		return cfg.JudgeRole, nil
	case SlotRecorder:
		return cfg.RecorderRole, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownSlot, slot)
	}
}

// Holder returns the current holder of a slot in the given snapshot.
func Holder(e model.Event, slot Slot) (model.Ref, error) {
	switch slot {
	case SlotJudge:
		return e.Judge, nil
	case SlotRecorder:
		return e.Recorder, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownSlot, slot)
	}
}

// Evaluate runs the claim transition against a fresh event snapshot.
// An ineligible requester is rejected with ErrForbidden and causes no state
// change. A held slot is resolved per the policy.
func (c *Coordinator) Evaluate(cfg model.TenantConfig, e model.Event, slot Slot, requester model.Actor) (Decision, error) {
	role, err := RoleFor(cfg, slot)
	if err != nil {
		return Decision{}, err
	}
	if !requester.HasRole(role) {
		return Decision{}, fmt.Errorf("%w: %s role required", ErrForbidden, slot)
	}

	holder, err := Holder(e, slot)
	if err != nil {
		return Decision{}, err
	}

	if holder.IsSet() && holder != requester.ID && c.policy == FirstWins {
		return Decision{}, fmt.Errorf("%w: %s slot", ErrSlotHeld, slot)
	}

	return Decision{
		Slot:      slot,
		Requester: requester.ID,
		Previous:  holder,
		Displaced: holder.IsSet() && holder != requester.ID,
	}, nil
}

// Patch translates an accepted decision into the store mutation.
func (d Decision) Patch() model.EventPatch {
	ref := d.Requester
	switch d.Slot {
	case SlotRecorder:
		return model.EventPatch{Recorder: &ref}
	default:
		return model.EventPatch{Judge: &ref}
	}
}

// ParseSlot validates a slot name from the command surface.
func ParseSlot(s string) (Slot, error) {
	switch Slot(s) {
	case SlotJudge:
		return SlotJudge, nil
	case SlotRecorder:
		return SlotRecorder, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSlot, s)
	}
}
