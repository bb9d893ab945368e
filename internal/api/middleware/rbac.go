package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/opsboard/gatekeeper/internal/api/metrics"
	"github.com/opsboard/gatekeeper/internal/core/domain"
	"github.com/opsboard/gatekeeper/internal/core/service"
)

// DenialResponse is the body returned when a gate refuses a request.
type DenialResponse struct {
	Error    string            `json:"error"`
	Reason   domain.DenyReason `json:"reason"`
	Required domain.Role       `json:"required"`
}

// RequireRole admits requests whose effective role ranks at least required.
// Session must run first.
func RequireRole(gate *service.AccessGate, required domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			check := gate.Check(c.Request().Context(), ResolutionFrom(c), required)
			metrics.AccessDecisionsTotal.WithLabelValues(string(required), Outcome(check.Decision)).Inc()

			if !check.Decision.Allowed {
				return deny(c, check.Decision.Reason, required)
			}

			c.Set(ctxIdentity, check.Auth.Identity)
			c.Set(ctxRoles, check.Roles)
			return next(c)
		}
	}
}

// RequireRealRole admits requests whose account role ranks at least required.
// Role overrides are ignored, so an admin acting as a user keeps admin-only
// endpoints.
func RequireRealRole(required domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			res := ResolutionFrom(c)
			if res == nil {
				return deny(c, domain.DenyUnauthenticated, required)
			}
			auth := res.Result(c.Request().Context())
			if !auth.OK() {
				return deny(c, domain.DenyUnauthenticated, required)
			}
			if !auth.Identity.AccountRole.AtLeast(required) {
				return deny(c, domain.DenyInsufficientPrivilege, required)
			}

			c.Set(ctxIdentity, auth.Identity)
			return next(c)
		}
	}
}

// Outcome is the metric label for a decision.
func Outcome(d domain.Decision) string {
	if d.Allowed {
		return "allow"
	}
	return string(d.Reason)
}

func deny(c echo.Context, reason domain.DenyReason, required domain.Role) error {
	status := http.StatusForbidden
	msg := "insufficient privilege"
	if reason == domain.DenyUnauthenticated {
		status = http.StatusUnauthorized
		msg = "authentication required"
	}
	return c.JSON(status, DenialResponse{Error: msg, Reason: reason, Required: required})
}
