package service

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/opsboard/gatekeeper/internal/core/domain"
	"github.com/opsboard/gatekeeper/internal/core/ports"
)

// IdentityPolicy controls how lookup failures are reported.
type IdentityPolicy string

const (
	// PolicyFailClosed reports transport failures as unauthenticated.
	PolicyFailClosed IdentityPolicy = "fail-closed"
	// PolicyDistinguish keeps transport failures as lookup-failed. Gating
	// still treats them as having no identity.
	PolicyDistinguish IdentityPolicy = "distinguish"
)

// IdentityResolver turns a verified session into an Identity.
type IdentityResolver struct {
	users  ports.UserRepository
	policy IdentityPolicy
	log    zerolog.Logger
}

func NewIdentityResolver(users ports.UserRepository, policy IdentityPolicy, log zerolog.Logger) *IdentityResolver {
	if policy != PolicyDistinguish {
		policy = PolicyFailClosed
	}
	return &IdentityResolver{users: users, policy: policy, log: log}
}

// Begin starts a resolution for one page-load cycle. A nil session resolves
// as unauthenticated without a lookup.
func (r *IdentityResolver) Begin(session *domain.Session) *Resolution {
	return &Resolution{resolver: r, session: session}
}

// Resolve is Begin(session).Result(ctx) for callers that need a single answer.
func (r *IdentityResolver) Resolve(ctx context.Context, session *domain.Session) domain.IdentityResult {
	return r.Begin(session).Result(ctx)
}

func (r *IdentityResolver) lookup(ctx context.Context, session *domain.Session) domain.IdentityResult {
	if session == nil || session.Email == "" {
		return domain.Unresolved(domain.AuthUnauthenticated, nil)
	}

	user, err := r.users.FindByEmail(ctx, session.Email)
	switch {
	case err == nil && user != nil:
		return domain.Resolved(domain.IdentityFromUser(user))
	case err == nil, errors.Is(err, domain.ErrUserNotFound):
		r.log.Debug().Str("session_id", session.ID).Msg("session has no matching user")
		return domain.Unresolved(domain.AuthUnauthenticated, domain.ErrUserNotFound)
	}

	r.log.Warn().Err(err).Str("session_id", session.ID).Msg("identity lookup failed")
	if r.policy == PolicyDistinguish {
		return domain.Unresolved(domain.AuthLookupFailed, errors.Join(domain.ErrIdentityLookup, err))
	}
	return domain.Unresolved(domain.AuthUnauthenticated, errors.Join(domain.ErrIdentityLookup, err))
}

// Resolution performs the identity lookup at most once, however many times
// Result is called.
type Resolution struct {
	resolver *IdentityResolver
	session  *domain.Session

	once   sync.Once
	result domain.IdentityResult
}

// Result on a nil Resolution is unauthenticated.
func (res *Resolution) Result(ctx context.Context) domain.IdentityResult {
	if res == nil {
		return domain.Unresolved(domain.AuthUnauthenticated, nil)
	}
	res.once.Do(func() {
		res.result = res.resolver.lookup(ctx, res.session)
	})
	return res.result
}

// Session returns the session this resolution was started for, or nil.
func (res *Resolution) Session() *domain.Session {
	if res == nil {
		return nil
	}
	return res.session
}
