package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/opsboard/gatekeeper/internal/api/middleware"
	"github.com/opsboard/gatekeeper/internal/core/domain"
)

// ctxSession returns the verified session, failing fast with 401 when the
// Session middleware did not attach one.
func ctxSession(c echo.Context) (domain.Session, error) {
	s := middleware.SessionFrom(c)
	if s == nil || s.ID == "" {
		return domain.Session{}, domain.ErrUnauthenticated
	}
	return *s, nil
}

// ctxIdentity returns the identity attached by a gate. A missing identity
// means the route was registered without one.
func ctxIdentity(c echo.Context) (*domain.Identity, error) {
	id := middleware.IdentityFrom(c)
	if id == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authenticated identity")
	}
	return id, nil
}
