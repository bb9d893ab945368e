package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/opsboard/gatekeeper/internal/core/domain"
	"github.com/opsboard/gatekeeper/internal/core/service"
)

type stubUsers struct {
	byEmail map[string]*domain.User
}

func (s *stubUsers) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := s.byEmail[email]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

type stubOverrides struct {
	mu    sync.Mutex
	roles map[string]domain.Role
}

func (s *stubOverrides) Get(_ context.Context, sid string) (domain.Role, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.roles[sid]
	return r, ok, nil
}

func (s *stubOverrides) Set(_ context.Context, sid string, r domain.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roles[sid] = r
	return nil
}

func (s *stubOverrides) Clear(_ context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.roles, sid)
	return nil
}

type fixture struct {
	tokens    *service.SessionTokens
	resolver  *service.IdentityResolver
	gate      *service.AccessGate
	overrides *stubOverrides
}

func newFixture(users ...*domain.User) *fixture {
	byEmail := map[string]*domain.User{}
	for _, u := range users {
		byEmail[u.Email] = u
	}
	overrides := &stubOverrides{roles: map[string]domain.Role{}}
	return &fixture{
		tokens:    service.NewSessionTokens("secret", time.Hour),
		resolver:  service.NewIdentityResolver(&stubUsers{byEmail: byEmail}, service.PolicyFailClosed, zerolog.Nop()),
		gate:      service.NewAccessGate(overrides, zerolog.Nop()),
		overrides: overrides,
	}
}

func (f *fixture) bearer(sid, email string) string {
	raw, err := f.tokens.Issue(domain.Session{ID: sid, Email: email})
	if err != nil {
		panic(err)
	}
	return "Bearer " + raw
}

// serve runs h behind mws and returns the recorder.
func serve(authHeader string, h echo.HandlerFunc, mws ...echo.MiddlewareFunc) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}
