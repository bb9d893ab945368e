package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/opsboard/gatekeeper/internal/core/domain"
	"github.com/opsboard/gatekeeper/internal/core/service"
)

const (
	ctxSession    = "session"
	ctxResolution = "resolution"
	ctxIdentity   = "identity"
	ctxRoles      = "roles"
)

// Session reads an optional bearer token and attaches the session plus a
// lazy identity resolution to the context. A missing or invalid token leaves
// the request anonymous; the gates decide whether that is acceptable.
func Session(tokens *service.SessionTokens, resolver *service.IdentityResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var session *domain.Session
			if raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization)); ok {
				if s, err := tokens.Parse(raw); err == nil {
					session = &s
					c.Set(ctxSession, session)
				}
			}
			c.Set(ctxResolution, resolver.Begin(session))
			return next(c)
		}
	}
}

func bearerToken(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// SessionFrom returns the session set by Session, or nil.
func SessionFrom(c echo.Context) *domain.Session {
	s, _ := c.Get(ctxSession).(*domain.Session)
	return s
}

// ResolutionFrom returns the identity resolution set by Session, or nil.
func ResolutionFrom(c echo.Context) *service.Resolution {
	r, _ := c.Get(ctxResolution).(*service.Resolution)
	return r
}

// IdentityFrom returns the identity set by a gate, or nil.
func IdentityFrom(c echo.Context) *domain.Identity {
	id, _ := c.Get(ctxIdentity).(*domain.Identity)
	return id
}

// RolesFrom returns the role context set by RequireRole.
func RolesFrom(c echo.Context) (domain.RoleContext, bool) {
	rc, ok := c.Get(ctxRoles).(domain.RoleContext)
	return rc, ok
}
