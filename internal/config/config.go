// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keep fields unexported where possible and use functional options.
// - Provide New(...Option) initializer to build a Config with defaults.
// - All future functions must accept context.Context as the first parameter.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
	"runtime"
)

// Claim policy values accepted by Config.ClaimPolicy.
const (
	ClaimPolicyLastWins  = "last_wins"
	ClaimPolicyFirstWins = "first_wins"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// OutboxSize bounds the in-memory delivery outbox.
	OutboxSize int `koanf:"outbox_size"`

	// DeliveryWorkerCount sets the number of outbound delivery workers.
	DeliveryWorkerCount int `koanf:"delivery_worker_count"`

	// ReplayGuardSize sets the size of the interaction replay guard.
	ReplayGuardSize int `koanf:"replay_guard_size"`

	// ClaimPolicy selects what happens when an eligible staff member claims
	// an already-held slot: last_wins re-assigns, first_wins rejects.
	ClaimPolicy string `koanf:"claim_policy"`

	// MaxEvidenceImages caps evidence attachments per result submission.
	MaxEvidenceImages int `koanf:"max_evidence_images"`

	// ConfirmTTLSeconds bounds how long a delete confirmation token stays valid.
	ConfirmTTLSeconds int `koanf:"confirm_ttl_seconds"`
}

// New creates a Config using provided options. Context is accepted first to
// satisfy the project-wide convention; it is reserved for future use (e.g.,
// loading from env/files) and is currently unused.
func New(_ context.Context) *Config {
	c := &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		OutboxSize:          10_000,
		DeliveryWorkerCount: runtime.NumCPU() * 2,
		ReplayGuardSize:     50_000,
		ClaimPolicy:         ClaimPolicyLastWins,
		MaxEvidenceImages:   9,
		ConfirmTTLSeconds:   120,
	}
	return c
}
