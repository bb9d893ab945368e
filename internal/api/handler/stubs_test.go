package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/opsboard/gatekeeper/internal/api/middleware"
	"github.com/opsboard/gatekeeper/internal/core/domain"
	"github.com/opsboard/gatekeeper/internal/core/ports"
	"github.com/opsboard/gatekeeper/internal/core/service"
)

type stubAuthService struct {
	loginFn  func(ctx context.Context, username, password string) (*ports.LoginResult, error)
	logoutFn func(ctx context.Context, session domain.Session) error
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAuthService) Logout(ctx context.Context, session domain.Session) error {
	return s.logoutFn(ctx, session)
}

type stubImpersonation struct {
	startFn func(ctx context.Context, actor *domain.Identity, session domain.Session, role domain.Role) (domain.RoleContext, error)
	stopFn  func(ctx context.Context, actor *domain.Identity, session domain.Session) (domain.RoleContext, error)
}

func (s *stubImpersonation) Start(ctx context.Context, actor *domain.Identity, session domain.Session, role domain.Role) (domain.RoleContext, error) {
	return s.startFn(ctx, actor, session, role)
}

func (s *stubImpersonation) Stop(ctx context.Context, actor *domain.Identity, session domain.Session) (domain.RoleContext, error) {
	return s.stopFn(ctx, actor, session)
}

type stubUsers map[string]*domain.User

func (s stubUsers) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := s[email]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

type stubOverrides map[string]domain.Role

func (s stubOverrides) Get(_ context.Context, sid string) (domain.Role, bool, error) {
	r, ok := s[sid]
	return r, ok, nil
}

func (s stubOverrides) Set(_ context.Context, sid string, r domain.Role) error {
	s[sid] = r
	return nil
}

func (s stubOverrides) Clear(_ context.Context, sid string) error {
	delete(s, sid)
	return nil
}

// app is an echo instance wired with the session middleware and real gates
// over in-memory stores.
type app struct {
	e         *echo.Echo
	tokens    *service.SessionTokens
	gate      *service.AccessGate
	engine    *service.RedirectEngine
	overrides stubOverrides
	session   echo.MiddlewareFunc
}

func newApp(users ...*domain.User) *app {
	byEmail := stubUsers{}
	for _, u := range users {
		byEmail[u.Email] = u
	}
	overrides := stubOverrides{}
	tokens := service.NewSessionTokens("secret", time.Hour)
	resolver := service.NewIdentityResolver(byEmail, service.PolicyFailClosed, zerolog.Nop())
	gate := service.NewAccessGate(overrides, zerolog.Nop())

	e := echo.New()
	e.Validator = NewValidator()
	e.HTTPErrorHandler = testErrorHandler
	return &app{
		e:         e,
		tokens:    tokens,
		gate:      gate,
		engine:    service.NewRedirectEngine(gate, service.DefaultRedirectConfig(), zerolog.Nop()),
		overrides: overrides,
		session:   middleware.Session(tokens, resolver),
	}
}

func (a *app) bearer(sid, email string) string {
	raw, err := a.tokens.Issue(domain.Session{ID: sid, Email: email})
	if err != nil {
		panic(err)
	}
	return "Bearer " + raw
}

// do runs h behind the session middleware plus mws and renders errors the
// way the server does.
func (a *app) do(method, target, body, auth string, h echo.HandlerFunc, mws ...echo.MiddlewareFunc) *httptest.ResponseRecorder {
	var req = httptest.NewRequest(method, target, nil)
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if auth != "" {
		req.Header.Set(echo.HeaderAuthorization, auth)
	}
	rec := httptest.NewRecorder()
	c := a.e.NewContext(req, rec)

	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	h = a.session(h)
	if err := h(c); err != nil {
		a.e.HTTPErrorHandler(err, c)
	}
	return rec
}

// testErrorHandler renders the status codes the production error handler
// assigns to domain errors.
func testErrorHandler(err error, c echo.Context) {
	var he *echo.HTTPError
	code := http.StatusInternalServerError
	switch {
	case errors.As(err, &he):
		code = he.Code
	case errors.Is(err, domain.ErrMissingFields), errors.Is(err, domain.ErrInvalidRole):
		code = http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrUnauthenticated):
		code = http.StatusUnauthorized
	case errors.Is(err, domain.ErrInsufficientPrivilege):
		code = http.StatusForbidden
	case errors.Is(err, domain.ErrAccountLocked):
		code = http.StatusLocked
	}
	_ = c.JSON(code, map[string]string{"error": err.Error()})
}
