// Package repository defines the tenant-scoped document store and errors.
package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/okian/matchdesk/internal/domain/model"
	"github.com/okian/matchdesk/internal/domain/tenant"
	"github.com/okian/matchdesk/pkg/metrics"
)

// MemStore is the in-memory Store implementation.
//
// One mutex per namespace serializes all mutations for that tenant; event
// documents are kept in creation order so colliding titles shadow correctly
// (lookups scan from the newest document backwards).
type MemStore struct {
	mu         sync.RWMutex
	namespaces map[tenant.Key]*memNamespace
	closed     bool

	capacityHint int
}

// NewMemStore creates an in-memory store with configuration options.
func NewMemStore(_ context.Context, opts ...Option) *MemStore {
	s := &MemStore{
		namespaces:   make(map[tenant.Key]*memNamespace),
		capacityHint: defaultCapacityHint,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Namespace returns the handle for one tenant, creating it on first use.
func (s *MemStore) Namespace(key tenant.Key) Namespace {
	s.mu.Lock()
	defer s.mu.Unlock()

	ns, ok := s.namespaces[key]
	if !ok {
		ns = &memNamespace{
			store:      s,
			events:     make([]*model.Event, 0, s.capacityHint),
			displayRev: make(map[string]uint64),
		}
		s.namespaces[key] = ns
	}
	return ns
}

// CountEvents returns the number of events stored across all tenants.
func (s *MemStore) CountEvents(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0
	for _, ns := range s.namespaces {
		ns.mu.Lock()
		total += len(ns.events)
		ns.mu.Unlock()
	}
	return total
}

// Close shuts the store down.
func (s *MemStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *MemStore) isClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

// memNamespace holds one tenant's documents. Its mutex is the single-writer
// boundary for that tenant's events.
type memNamespace struct {
	store *MemStore

	mu            sync.Mutex
	config        *model.TenantConfig
	events        []*model.Event
	results       []model.ResultRecord
	staff         []model.StaffSubmission
	registrations []model.Registration
	displayRev    map[string]uint64 // event id -> last display revision pushed
}

// GetConfig returns the tenant configuration document.
func (n *memNamespace) GetConfig(_ context.Context) (model.TenantConfig, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.config == nil {
		return model.TenantConfig{}, ErrConfigurationMissing
	}
	return *n.config, nil
}

// UpsertConfig creates or replaces the tenant configuration. Idempotent.
func (n *memNamespace) UpsertConfig(_ context.Context, cfg model.TenantConfig) error {
	if n.store.isClosed() {
		return ErrClosed
	}
	defer observe("upsert_config", time.Now())

	n.mu.Lock()
	defer n.mu.Unlock()

	c := cfg
	n.config = &c
	return nil
}

// PatchConfig merges set fields into the existing configuration.
func (n *memNamespace) PatchConfig(_ context.Context, patch model.TenantConfigPatch) error {
	if n.store.isClosed() {
		return ErrClosed
	}
	defer observe("patch_config", time.Now())

	n.mu.Lock()
	defer n.mu.Unlock()

	if n.config == nil {
		return ErrConfigurationMissing
	}
	n.config.Apply(patch)
	return nil
}

// CreateEvent stores a new event document and returns its identity.
func (n *memNamespace) CreateEvent(_ context.Context, e model.Event) (string, error) {
	if n.store.isClosed() {
		return "", ErrClosed
	}
	defer observe("create_event", time.Now())

	n.mu.Lock()
	defer n.mu.Unlock()

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.Revision = 1
	doc := e
	n.events = append(n.events, &doc)
	return doc.ID, nil
}

// GetEvent looks an event up by title. The newest colliding document wins.
func (n *memNamespace) GetEvent(_ context.Context, title string) (model.Event, error) {
	defer observe("get_event", time.Now())

	n.mu.Lock()
	defer n.mu.Unlock()

	doc := n.findLocked(title)
	if doc == nil {
		return model.Event{}, fmt.Errorf("%w: %q", ErrNotFound, title)
	}
	return *doc, nil
}

// ListEvents returns the tenant's events in storage order.
func (n *memNamespace) ListEvents(_ context.Context) ([]model.Event, error) {
	defer observe("list_events", time.Now())

	n.mu.Lock()
	defer n.mu.Unlock()

	out := make([]model.Event, len(n.events))
	for i, doc := range n.events {
		out[i] = *doc
	}
	return out, nil
}

// MutateEvent applies fn atomically under the namespace lock and bumps the
// document revision. fn returning an error aborts the mutation unchanged.
func (n *memNamespace) MutateEvent(_ context.Context, title string, fn func(*model.Event) error) (model.Event, error) {
	if n.store.isClosed() {
		return model.Event{}, ErrClosed
	}
	defer observe("mutate_event", time.Now())

	n.mu.Lock()
	defer n.mu.Unlock()

	doc := n.findLocked(title)
	if doc == nil {
		return model.Event{}, fmt.Errorf("%w: %q", ErrNotFound, title)
	}

	// Work on a copy so a failing fn leaves the document untouched.
	candidate := *doc
	if err := fn(&candidate); err != nil {
		return model.Event{}, err
	}
	candidate.Revision = doc.Revision + 1
	*doc = candidate
	return candidate, nil
}

// DeleteEvent removes the newest document with the given title.
func (n *memNamespace) DeleteEvent(_ context.Context, title string) (model.Event, error) {
	if n.store.isClosed() {
		return model.Event{}, ErrClosed
	}
	defer observe("delete_event", time.Now())

	n.mu.Lock()
	defer n.mu.Unlock()

	for i := len(n.events) - 1; i >= 0; i-- {
		if n.events[i].Title == title {
			doc := *n.events[i]
			n.events = append(n.events[:i], n.events[i+1:]...)
			delete(n.displayRev, doc.ID)
			return doc, nil
		}
	}
	return model.Event{}, fmt.Errorf("%w: %q", ErrNotFound, title)
}

// AdvanceDisplayRevision records a pushed display revision; stale pushes
// return false and must be dropped by the caller.
func (n *memNamespace) AdvanceDisplayRevision(_ context.Context, eventID string, rev uint64) (bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if last, ok := n.displayRev[eventID]; ok && last >= rev {
		return false, nil
	}
	n.displayRev[eventID] = rev
	return true, nil
}

// AppendResult appends a result record. Records are never mutated.
func (n *memNamespace) AppendResult(_ context.Context, rec model.ResultRecord) error {
	if n.store.isClosed() {
		return ErrClosed
	}
	defer observe("append_result", time.Now())

	n.mu.Lock()
	defer n.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	n.results = append(n.results, rec)
	return nil
}

// ListResults returns all result records for an event title, oldest first.
func (n *memNamespace) ListResults(_ context.Context, eventTitle string) ([]model.ResultRecord, error) {
	defer observe("list_results", time.Now())

	n.mu.Lock()
	defer n.mu.Unlock()

	var out []model.ResultRecord
	for _, rec := range n.results {
		if rec.EventTitle == eventTitle {
			out = append(out, rec)
		}
	}
	return out, nil
}

// AppendStaffSubmission appends a staff data record.
func (n *memNamespace) AppendStaffSubmission(_ context.Context, rec model.StaffSubmission) error {
	if n.store.isClosed() {
		return ErrClosed
	}
	defer observe("append_staff", time.Now())

	n.mu.Lock()
	defer n.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	n.staff = append(n.staff, rec)
	return nil
}

// AppendRegistration appends a registration record.
func (n *memNamespace) AppendRegistration(_ context.Context, rec model.Registration) error {
	if n.store.isClosed() {
		return ErrClosed
	}
	defer observe("append_registration", time.Now())

	n.mu.Lock()
	defer n.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	n.registrations = append(n.registrations, rec)
	return nil
}

// EventsJudgedBy lists events whose judge slot is held by staff.
func (n *memNamespace) EventsJudgedBy(_ context.Context, staff model.Ref) ([]model.Event, error) {
	defer observe("events_judged_by", time.Now())

	n.mu.Lock()
	defer n.mu.Unlock()

	var out []model.Event
	for _, doc := range n.events {
		if doc.Judge == staff {
			out = append(out, *doc)
		}
	}
	return out, nil
}

// findLocked scans from the newest document backwards so later creates
// shadow earlier titles. Caller must hold n.mu.
func (n *memNamespace) findLocked(title string) *model.Event {
	for i := len(n.events) - 1; i >= 0; i-- {
		if n.events[i].Title == title {
			return n.events[i]
		}
	}
	return nil
}

func observe(op string, start time.Time) {
	metrics.RecordStoreOpLatency(op, float64(time.Since(start).Microseconds())/1000.0)
}
