package service

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/matchdesk/internal/domain/model"
)

// ConfigSet creates or replaces the community configuration. The first set
// bootstraps the tenant; running it again is idempotent.
func (s *Service) ConfigSet(ctx context.Context, sess Session, cfg model.TenantConfig) (err error) {
	defer func(start time.Time) { track("config.set", start, err) }(time.Now())

	// The operator role being assigned must be one the caller holds, so a
	// tenant cannot be bootstrapped (or hijacked) by someone outside it.
	if !sess.Actor.HasRole(cfg.OperatorRole) {
		return ErrForbidden
	}

	ns, err := s.namespaceOnly(sess)
	if err != nil {
		return err
	}

	cfg.GuildID = sess.GuildID
	if err = ns.UpsertConfig(ctx, cfg); err != nil {
		return fmt.Errorf("storing configuration: %w", err)
	}

	s.audit(ctx, cfg, auditLine(sess.Actor, "set the community configuration"))
	return nil
}

// ConfigEdit merges the set fields of the patch into the existing
// configuration. Fields left out of the patch keep their value.
func (s *Service) ConfigEdit(ctx context.Context, sess Session, patch model.TenantConfigPatch) (err error) {
	defer func(start time.Time) { track("config.edit", start, err) }(time.Now())

	if patch.Empty() {
		return ErrNoChanges
	}

	ns, cfg, err := s.namespace(ctx, sess)
	if err != nil {
		return err
	}
	if err = requireOperator(cfg, sess.Actor); err != nil {
		return err
	}

	if err = ns.PatchConfig(ctx, patch); err != nil {
		return fmt.Errorf("patching configuration: %w", err)
	}

	cfg, err = ns.GetConfig(ctx)
	if err != nil {
		return fmt.Errorf("reloading configuration: %w", err)
	}

	s.audit(ctx, cfg, auditLine(sess.Actor, "edited the community configuration"))
	return nil
}

// Config returns the community configuration document.
func (s *Service) Config(ctx context.Context, sess Session) (cfg model.TenantConfig, err error) {
	defer func(start time.Time) { track("config.show", start, err) }(time.Now())

	_, cfg, err = s.namespace(ctx, sess)
	return cfg, err
}
