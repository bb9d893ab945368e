package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/opsboard/gatekeeper/internal/core/domain"
	"github.com/opsboard/gatekeeper/internal/core/ports"
)

// LockoutPolicy enables lock-on-failure. A zero MaxAttempts leaves failed
// logins without side effects.
type LockoutPolicy struct {
	MaxAttempts int
	Duration    time.Duration
}

func (p LockoutPolicy) enabled() bool { return p.MaxAttempts > 0 && p.Duration > 0 }

type AuthOption func(*AuthService)

func WithLockoutPolicy(p LockoutPolicy) AuthOption {
	return func(s *AuthService) { s.lockout = p }
}

func WithClock(now func() time.Time) AuthOption {
	return func(s *AuthService) { s.now = now }
}

func WithSessionIDs(next func() string) AuthOption {
	return func(s *AuthService) { s.newSessionID = next }
}

// AuthService implements credential login and logout.
type AuthService struct {
	creds     ports.CredentialRepository
	overrides ports.ImpersonationStore
	tokens    *SessionTokens
	hasher    PasswordHasher
	audit     ports.AuditRecorder
	log       zerolog.Logger

	lockout      LockoutPolicy
	now          func() time.Time
	newSessionID func() string
}

func NewAuthService(
	creds ports.CredentialRepository,
	overrides ports.ImpersonationStore,
	tokens *SessionTokens,
	hasher PasswordHasher,
	audit ports.AuditRecorder,
	log zerolog.Logger,
	opts ...AuthOption,
) *AuthService {
	if hasher == nil {
		hasher = BcryptHasher{}
	}
	if audit == nil {
		audit = discardAudit{}
	}
	s := &AuthService{
		creds:        creds,
		overrides:    overrides,
		tokens:       tokens,
		hasher:       hasher,
		audit:        audit,
		log:          log,
		now:          time.Now,
		newSessionID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login validates username and password against the stored digest. Unknown
// usernames, inactive credentials and wrong passwords all yield the same
// domain.ErrInvalidCredentials. A locked credential yields
// domain.ErrAccountLocked and is left untouched.
func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, domain.ErrMissingFields
	}

	cred, err := s.creds.FindActiveByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrCredentialNotFound) {
			s.recordFailure(username, "invalid_credentials")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: find credential: %w", err)
	}
	if !cred.Active() {
		s.recordFailure(username, "invalid_credentials")
		return nil, domain.ErrInvalidCredentials
	}
	now := s.now().UTC()
	if !s.hasher.Verify(cred.PasswordHash, password) {
		if !cred.LockedAt(now) {
			s.registerMismatch(ctx, cred, now)
		}
		s.recordFailure(username, "invalid_credentials")
		return nil, domain.ErrInvalidCredentials
	}

	if cred.LockedAt(now) {
		s.recordFailure(username, "account_locked")
		return nil, domain.ErrAccountLocked
	}

	zero := 0
	if err := s.creds.RecordLogin(ctx, cred.ID, domain.LoginUpdate{
		LastLogin:     &now,
		LoginAttempts: &zero,
		ClearLock:     true,
	}); err != nil {
		return nil, fmt.Errorf("login: record login: %w", err)
	}
	cred.LastLogin = &now
	cred.LoginAttempts = 0
	cred.LockedUntil = nil

	session := domain.Session{ID: s.newSessionID(), Email: cred.UserEmail}
	if err := s.overrides.Set(ctx, session.ID, cred.Role); err != nil {
		return nil, fmt.Errorf("login: set impersonation: %w", err)
	}

	token, err := s.tokens.Issue(session)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	s.audit.Record(domain.AuditEvent{
		Action:     domain.AuditLoginSucceeded,
		Actor:      cred.Username,
		SessionID:  session.ID,
		Role:       cred.Role,
		OccurredAt: now,
	})
	s.log.Info().
		Str("username", cred.Username).
		Str("role", cred.Role.String()).
		Str("session_id", session.ID).
		Msg("login succeeded")

	return &ports.LoginResult{
		Token:      token,
		Session:    session,
		Credential: cred,
		Dashboard:  domain.Dashboard(cred.Role),
	}, nil
}

// Logout drops the session's impersonation override.
func (s *AuthService) Logout(ctx context.Context, session domain.Session) error {
	if session.ID == "" {
		return domain.ErrUnauthenticated
	}
	if err := s.overrides.Clear(ctx, session.ID); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.audit.Record(domain.AuditEvent{
		Action:     domain.AuditLogout,
		Actor:      session.Email,
		SessionID:  session.ID,
		OccurredAt: s.now().UTC(),
	})
	return nil
}

// registerMismatch applies the lockout policy after a wrong password. It is
// never called while the credential is locked. An expired lock restarts the
// count.
func (s *AuthService) registerMismatch(ctx context.Context, cred *domain.Credential, now time.Time) {
	if !s.lockout.enabled() {
		return
	}
	attempts := cred.LoginAttempts + 1
	update := domain.LoginUpdate{LoginAttempts: &attempts}
	if cred.LockedUntil != nil {
		attempts = 1
		update.ClearLock = true
	}
	if attempts >= s.lockout.MaxAttempts {
		until := now.Add(s.lockout.Duration)
		update.LockedUntil = &until
		update.ClearLock = false
	}
	if err := s.creds.RecordLogin(ctx, cred.ID, update); err != nil {
		s.log.Warn().Err(err).Str("username", cred.Username).Msg("failed to record login attempt")
	}
}

func (s *AuthService) recordFailure(username, reason string) {
	s.audit.Record(domain.AuditEvent{
		Action:     domain.AuditLoginFailed,
		Actor:      username,
		Reason:     reason,
		OccurredAt: s.now().UTC(),
	})
}

type discardAudit struct{}

func (discardAudit) Record(domain.AuditEvent) {}
