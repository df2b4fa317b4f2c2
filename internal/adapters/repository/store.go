// Package repository defines the tenant-scoped document store and errors.
package repository

import (
	"context"

	"github.com/okian/matchdesk/internal/domain/model"
	"github.com/okian/matchdesk/internal/domain/tenant"
)

// Store hands out per-tenant namespace handles. Cross-tenant access is
// structurally impossible: every operation goes through a handle obtained
// with the namespace key.
type Store interface {
	// Namespace returns the handle for one tenant's collections, creating
	// the namespace on first use.
	Namespace(key tenant.Key) Namespace

	// CountEvents returns the number of events stored across all tenants.
	CountEvents(ctx context.Context) int

	// Close shuts the store down; subsequent mutations fail with ErrClosed.
	Close() error
}

// Namespace is one tenant's configuration and collections.
//
// All mutating operations on a single event document are applied atomically
// under the namespace lock; the store is the sole synchronization point and
// no lock is held while a caller performs display or notification I/O.
type Namespace interface {
	// Configuration. One document per tenant, created by the first upsert.
	GetConfig(ctx context.Context) (model.TenantConfig, error)
	UpsertConfig(ctx context.Context, cfg model.TenantConfig) error
	PatchConfig(ctx context.Context, patch model.TenantConfigPatch) error

	// Events. Titles are lookup keys, not identities: a later create with a
	// colliding title shadows the earlier document for lookups.
	CreateEvent(ctx context.Context, e model.Event) (string, error)
	GetEvent(ctx context.Context, title string) (model.Event, error)
	ListEvents(ctx context.Context) ([]model.Event, error)
	// MutateEvent applies fn to the current document under the namespace
	// lock, bumps the revision on success and returns the new snapshot.
	MutateEvent(ctx context.Context, title string, fn func(*model.Event) error) (model.Event, error)
	// DeleteEvent removes the document and returns its last snapshot.
	DeleteEvent(ctx context.Context, title string) (model.Event, error)

	// AdvanceDisplayRevision records that the display for an event was
	// updated to rev. It returns false when a newer revision was already
	// pushed, in which case the caller must drop its stale edit.
	AdvanceDisplayRevision(ctx context.Context, eventID string, rev uint64) (bool, error)

	// Append-only collections.
	AppendResult(ctx context.Context, rec model.ResultRecord) error
	ListResults(ctx context.Context, eventTitle string) ([]model.ResultRecord, error)
	AppendStaffSubmission(ctx context.Context, rec model.StaffSubmission) error
	AppendRegistration(ctx context.Context, rec model.Registration) error

	// EventsJudgedBy lists events whose judge slot is held by staff,
	// in storage order.
	EventsJudgedBy(ctx context.Context, staff model.Ref) ([]model.Event, error)
}
