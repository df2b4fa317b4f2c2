// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/okian/matchdesk/internal/adapters/composer"
	"github.com/okian/matchdesk/internal/adapters/gateway"
	outbox "github.com/okian/matchdesk/internal/adapters/mq/queue"
	workerpool "github.com/okian/matchdesk/internal/adapters/mq/worker"
	"github.com/okian/matchdesk/internal/adapters/repository"
	"github.com/okian/matchdesk/internal/domain/claim"
	"github.com/okian/matchdesk/internal/domain/dedupe"
	"github.com/okian/matchdesk/internal/domain/model"
	"github.com/okian/matchdesk/internal/domain/tenant"
	"github.com/okian/matchdesk/pkg/logger"
	"github.com/okian/matchdesk/pkg/metrics"
)

// Session identifies the community and actor behind one command.
type Session struct {
	GuildID   model.Ref
	Community string
	Actor     model.Actor

	// InteractionID is the platform's delivery id for button interactions.
	// Claim and confirmation handlers use it to absorb redeliveries.
	InteractionID string
}

// Service implements the command surface of the assistant.
type Service struct {
	mu sync.RWMutex

	// Core components
	store       repository.Store
	gw          gateway.Gateway
	cards       composer.Composer
	deliveries  outbox.Outbox
	pool        *workerpool.Pool
	guard       dedupe.Guard
	coordinator *claim.Coordinator

	// Configuration
	outboxSize        int
	workerCount       int
	guardSize         int
	claimPolicy       claim.Policy
	maxEvidenceImages int
	confirmTTL        time.Duration

	// Pending delete confirmations, token -> staged delete.
	pendingMu sync.Mutex
	pending   map[string]pendingDelete

	// State
	started   bool
	startTime time.Time

	// Logging
	logger logger.Logger
}

type pendingDelete struct {
	key     tenant.Key
	title   string
	reason  string
	actor   model.Ref
	expires time.Time
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the backing document store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithGateway sets the chat platform gateway.
func WithGateway(gw gateway.Gateway) Option {
	return func(s *Service) {
		if gw != nil {
			s.gw = gw
		}
	}
}

// WithComposer sets the match card image renderer.
func WithComposer(c composer.Composer) Option {
	return func(s *Service) {
		if c != nil {
			s.cards = c
		}
	}
}

// WithOutboxSize bounds the outbound delivery queue.
func WithOutboxSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.outboxSize = size
		}
	}
}

// WithWorkerCount sets the number of delivery workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithReplayGuardSize sets the size of the interaction replay guard.
func WithReplayGuardSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.guardSize = size
		}
	}
}

// WithClaimPolicy selects the held-slot claim policy.
func WithClaimPolicy(policy string) Option {
	return func(s *Service) {
		if p := claim.Policy(policy); p == claim.LastWins || p == claim.FirstWins {
			s.claimPolicy = p
		}
	}
}

// WithMaxEvidenceImages caps evidence attachments per result submission.
func WithMaxEvidenceImages(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxEvidenceImages = n
		}
	}
}

// WithConfirmTTL bounds how long a delete confirmation token stays valid.
func WithConfirmTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.confirmTTL = ttl
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		outboxSize:        10_000,
		workerCount:       runtime.NumCPU() * 2,
		guardSize:         50_000,
		claimPolicy:       claim.LastWins,
		maxEvidenceImages: 9,
		confirmTTL:        2 * time.Minute,
		pending:           make(map[string]pendingDelete),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start wires the components together and starts the delivery workers.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return ErrAlreadyStarted
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.store == nil {
		s.store = repository.NewMemStore(ctx)
	}
	if s.gw == nil {
		s.gw = gateway.NewMemGateway()
	}
	if s.cards == nil {
		s.cards = composer.NewMemComposer()
	}

	s.deliveries = outbox.NewInMemoryOutbox(outbox.WithCapacity(s.outboxSize))
	s.guard = dedupe.NewInMemoryGuard(dedupe.WithMaxSize(s.guardSize))
	s.coordinator = claim.New(claim.WithPolicy(s.claimPolicy))
	s.pool = workerpool.NewPool(s.workerCount, s.deliveries, s.gw)
	s.pool.Start(ctx)

	s.started = true
	s.startTime = time.Now()

	s.logger.Info(ctx, "service started",
		logger.Int("workers", s.pool.Size()),
		logger.Int("outbox_size", s.outboxSize),
		logger.String("claim_policy", string(s.claimPolicy)),
	)
	return nil
}

// Stop drains the outbox, stops the workers and closes the store.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}

	if err := s.deliveries.Close(); err != nil {
		s.logger.Error(ctx, "closing outbox", logger.Error(err))
	}
	if err := s.pool.Shutdown(ctx); err != nil {
		s.logger.Error(ctx, "stopping delivery pool", logger.Error(err))
	}
	if err := s.store.Close(); err != nil {
		return fmt.Errorf("closing store: %w", err)
	}

	s.started = false
	s.logger.Info(ctx, "service stopped")
	return nil
}

// Stats is a point-in-time snapshot of service state.
type Stats struct {
	Started         bool    `json:"started"`
	UptimeSeconds   float64 `json:"uptime_seconds"`
	EventsTracked   int     `json:"events_tracked"`
	OutboxDepth     int     `json:"outbox_depth"`
	ReplayGuardSize int64   `json:"replay_guard_size"`
	DeliveryWorkers int     `json:"delivery_workers"`
	ClaimPolicy     string  `json:"claim_policy"`
}

// GetStats reports current service statistics.
func (s *Service) GetStats(ctx context.Context) Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return Stats{ClaimPolicy: string(s.claimPolicy)}
	}

	return Stats{
		Started:         true,
		UptimeSeconds:   time.Since(s.startTime).Seconds(),
		EventsTracked:   s.store.CountEvents(ctx),
		OutboxDepth:     s.deliveries.Len(ctx),
		ReplayGuardSize: s.guard.Size(),
		DeliveryWorkers: s.pool.Size(),
		ClaimPolicy:     string(s.claimPolicy),
	}
}

// namespace resolves the session's tenant handle and configuration.
func (s *Service) namespace(ctx context.Context, sess Session) (repository.Namespace, model.TenantConfig, error) {
	ns, err := s.namespaceOnly(sess)
	if err != nil {
		return nil, model.TenantConfig{}, err
	}

	cfg, err := ns.GetConfig(ctx)
	if err != nil {
		return nil, model.TenantConfig{}, fmt.Errorf("loading tenant configuration: %w", err)
	}
	return ns, cfg, nil
}

// namespaceOnly resolves the tenant handle without requiring configuration.
func (s *Service) namespaceOnly(sess Session) (repository.Namespace, error) {
	key, err := tenantKey(sess)
	if err != nil {
		return nil, err
	}
	return s.store.Namespace(key), nil
}

// requireOperator enforces the tenant's operator role on management
// commands. An unset role leaves the command open.
func requireOperator(cfg model.TenantConfig, actor model.Actor) error {
	if cfg.OperatorRole.IsSet() && !actor.HasRole(cfg.OperatorRole) {
		return ErrForbidden
	}
	return nil
}

// tenantKey derives the session's storage namespace.
func tenantKey(sess Session) (tenant.Key, error) {
	key, err := tenant.Resolve(sess.GuildID, sess.Community)
	if err != nil {
		return "", fmt.Errorf("resolving community: %w", err)
	}
	return key, nil
}

// audit enqueues a transcript line. Best effort: a full outbox drops the
// line and counts it.
func (s *Service) audit(ctx context.Context, cfg model.TenantConfig, line string) {
	if !cfg.TranscriptChannel.IsSet() {
		return
	}

	ok := s.deliveries.Enqueue(ctx, outbox.Delivery{
		Kind:    outbox.KindAudit,
		Channel: cfg.TranscriptChannel,
		Message: gateway.Message{Content: line},
	})
	if !ok {
		metrics.RecordAuditDropped()
		s.logger.Warn(ctx, "audit line dropped", logger.String("line", line))
	}
}

// notify enqueues a notification-channel message. Best effort.
func (s *Service) notify(ctx context.Context, cfg model.TenantConfig, content string) {
	if !cfg.NotificationChannel.IsSet() {
		return
	}

	ok := s.deliveries.Enqueue(ctx, outbox.Delivery{
		Kind:    outbox.KindNotification,
		Channel: cfg.NotificationChannel,
		Message: gateway.Message{Content: content},
	})
	if !ok {
		s.logger.Warn(ctx, "notification dropped")
	}
}

// auditLine prefixes a transcript line with the platform's local-time marker.
func auditLine(actor model.Actor, format string, args ...any) string {
	return fmt.Sprintf("<t:%d> **%s** %s", time.Now().Unix(), actor.Name, fmt.Sprintf(format, args...))
}

// track records the command counter and latency for one operation.
func track(command string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.RecordCommand(command, outcome)
	metrics.RecordCommandDuration(command, float64(time.Since(start).Milliseconds()))
}
