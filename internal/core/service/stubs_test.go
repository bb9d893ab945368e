package service

import (
	"context"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/opsboard/gatekeeper/internal/core/domain"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type recordedUpdate struct {
	id     string
	update domain.LoginUpdate
}

type stubCredentialRepo struct {
	byUsername map[string]*domain.Credential
	findErr    error
	recordErr  error
	updates    []recordedUpdate
}

func newStubCredentialRepo(creds ...*domain.Credential) *stubCredentialRepo {
	r := &stubCredentialRepo{byUsername: make(map[string]*domain.Credential)}
	for _, c := range creds {
		r.byUsername[c.Username] = c
	}
	return r
}

// FindActiveByUsername mirrors the real query: inactive credentials are
// invisible.
func (r *stubCredentialRepo) FindActiveByUsername(_ context.Context, username string) (*domain.Credential, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	c, ok := r.byUsername[username]
	if !ok || c.Status != domain.CredentialActive {
		return nil, domain.ErrCredentialNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *stubCredentialRepo) RecordLogin(_ context.Context, id string, update domain.LoginUpdate) error {
	if r.recordErr != nil {
		return r.recordErr
	}
	r.updates = append(r.updates, recordedUpdate{id: id, update: update})
	for _, c := range r.byUsername {
		if c.ID != id {
			continue
		}
		if update.LastLogin != nil {
			c.LastLogin = update.LastLogin
		}
		if update.LoginAttempts != nil {
			c.LoginAttempts = *update.LoginAttempts
		}
		if update.LockedUntil != nil {
			c.LockedUntil = update.LockedUntil
		}
		if update.ClearLock {
			c.LockedUntil = nil
		}
	}
	return nil
}

type stubUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
	err   error
	calls int
}

func newStubUserRepo(users ...*domain.User) *stubUserRepo {
	r := &stubUserRepo{users: make(map[string]*domain.User)}
	for _, u := range users {
		r.users[u.Email] = u
	}
	return r
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

type stubImpersonationStore struct {
	mu       sync.Mutex
	roles    map[string]domain.Role
	getErr   error
	setErr   error
	clearErr error
	reads    int
}

func newStubImpersonationStore() *stubImpersonationStore {
	return &stubImpersonationStore{roles: make(map[string]domain.Role)}
}

func (s *stubImpersonationStore) Get(_ context.Context, sessionID string) (domain.Role, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	if s.getErr != nil {
		return "", false, s.getErr
	}
	r, ok := s.roles[sessionID]
	return r, ok, nil
}

func (s *stubImpersonationStore) Set(_ context.Context, sessionID string, role domain.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setErr != nil {
		return s.setErr
	}
	s.roles[sessionID] = role
	return nil
}

func (s *stubImpersonationStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.clearErr != nil {
		return s.clearErr
	}
	delete(s.roles, sessionID)
	return nil
}

type stubAudit struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (a *stubAudit) Record(e domain.AuditEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, e)
}

func (a *stubAudit) actions() []domain.AuditAction {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]domain.AuditAction, 0, len(a.events))
	for _, e := range a.events {
		out = append(out, e.Action)
	}
	return out
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var fixedNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func testTokens() *SessionTokens {
	t := NewSessionTokens("test-secret", time.Hour)
	t.now = fixedClock
	return t
}

func mustHash(plain string) string {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return string(b)
}

func sessionPtr(id, email string) *domain.Session {
	return &domain.Session{ID: id, Email: email}
}
