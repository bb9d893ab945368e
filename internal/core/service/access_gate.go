package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/opsboard/gatekeeper/internal/core/domain"
	"github.com/opsboard/gatekeeper/internal/core/ports"
)

// AccessCheck is the outcome of AccessGate.Check.
type AccessCheck struct {
	Decision domain.Decision
	Auth     domain.IdentityResult
	// Roles is only meaningful when Auth.OK().
	Roles domain.RoleContext
}

// AccessGate combines the identity resolver and the impersonation store and
// applies domain.CheckAccess.
type AccessGate struct {
	overrides ports.ImpersonationStore
	log       zerolog.Logger
}

func NewAccessGate(overrides ports.ImpersonationStore, log zerolog.Logger) *AccessGate {
	return &AccessGate{overrides: overrides, log: log}
}

// Check decides whether the identity behind res may enter a view gated at
// required. The identity is resolved through res so repeated checks in one
// cycle share a single lookup.
func (g *AccessGate) Check(ctx context.Context, res *Resolution, required domain.Role) AccessCheck {
	auth := res.Result(ctx)
	if !auth.OK() {
		return AccessCheck{Decision: domain.CheckAccess(required, nil, nil), Auth: auth}
	}

	override := g.override(ctx, res.Session())
	roles := domain.NewRoleContext(auth.Identity.AccountRole, override)
	decision := domain.CheckAccess(required, auth.Identity, override)
	if !decision.Allowed {
		g.log.Debug().
			Str("email", auth.Identity.Email).
			Str("effective_role", roles.Effective.String()).
			Str("required_role", required.String()).
			Msg("access denied")
	}
	return AccessCheck{Decision: decision, Auth: auth, Roles: roles}
}

// Roles resolves the identity and its {real, effective} role pair.
func (g *AccessGate) Roles(ctx context.Context, res *Resolution) (domain.RoleContext, domain.IdentityResult) {
	auth := res.Result(ctx)
	if !auth.OK() {
		return domain.RoleContext{}, auth
	}
	return domain.NewRoleContext(auth.Identity.AccountRole, g.override(ctx, res.Session())), auth
}

// override reads the session's override. A failed read falls back to the
// account role.
func (g *AccessGate) override(ctx context.Context, session *domain.Session) *domain.Role {
	if session == nil || session.ID == "" {
		return nil
	}
	role, ok, err := g.overrides.Get(ctx, session.ID)
	if err != nil {
		g.log.Warn().Err(err).Str("session_id", session.ID).Msg("impersonation read failed, using account role")
		return nil
	}
	if !ok {
		return nil
	}
	return &role
}
