package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/opsboard/gatekeeper/internal/core/domain"
	"github.com/opsboard/gatekeeper/internal/core/ports"
)

// ImpersonationService is the admin start/stop impersonating action. It is
// authorised on the real account role, never on an override.
type ImpersonationService struct {
	store ports.ImpersonationStore
	audit ports.AuditRecorder
	log   zerolog.Logger
	now   func() time.Time
}

func NewImpersonationService(store ports.ImpersonationStore, audit ports.AuditRecorder, log zerolog.Logger) *ImpersonationService {
	if audit == nil {
		audit = discardAudit{}
	}
	return &ImpersonationService{store: store, audit: audit, log: log, now: time.Now}
}

// Start makes the session act as role.
func (s *ImpersonationService) Start(ctx context.Context, actor *domain.Identity, session domain.Session, role domain.Role) (domain.RoleContext, error) {
	if err := s.authorize(actor, session); err != nil {
		return domain.RoleContext{}, err
	}
	if !role.Valid() {
		return domain.RoleContext{}, domain.ErrInvalidRole
	}
	if err := s.store.Set(ctx, session.ID, role); err != nil {
		return domain.RoleContext{}, fmt.Errorf("start impersonation: %w", err)
	}

	s.audit.Record(domain.AuditEvent{
		Action:     domain.AuditImpersonationSet,
		Actor:      actor.Email,
		SessionID:  session.ID,
		Role:       role,
		OccurredAt: s.now().UTC(),
	})
	s.log.Info().Str("email", actor.Email).Str("role", role.String()).Msg("impersonation started")
	return domain.NewRoleContext(actor.AccountRole, &role), nil
}

// Stop clears the session's override.
func (s *ImpersonationService) Stop(ctx context.Context, actor *domain.Identity, session domain.Session) (domain.RoleContext, error) {
	if err := s.authorize(actor, session); err != nil {
		return domain.RoleContext{}, err
	}
	if err := s.store.Clear(ctx, session.ID); err != nil {
		return domain.RoleContext{}, fmt.Errorf("stop impersonation: %w", err)
	}

	s.audit.Record(domain.AuditEvent{
		Action:     domain.AuditImpersonationClear,
		Actor:      actor.Email,
		SessionID:  session.ID,
		OccurredAt: s.now().UTC(),
	})
	s.log.Info().Str("email", actor.Email).Msg("impersonation stopped")
	return domain.NewRoleContext(actor.AccountRole, nil), nil
}

func (s *ImpersonationService) authorize(actor *domain.Identity, session domain.Session) error {
	if actor == nil || session.ID == "" {
		return domain.ErrUnauthenticated
	}
	if !actor.AccountRole.AtLeast(domain.RoleAdmin) {
		return domain.ErrInsufficientPrivilege
	}
	return nil
}
