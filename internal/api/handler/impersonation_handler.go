package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/opsboard/gatekeeper/internal/api/metrics"
	"github.com/opsboard/gatekeeper/internal/core/domain"
	"github.com/opsboard/gatekeeper/internal/core/ports"
)

type ImpersonationHandler struct {
	svc ports.ImpersonationService
}

func NewImpersonationHandler(svc ports.ImpersonationService) *ImpersonationHandler {
	return &ImpersonationHandler{svc: svc}
}

type impersonationRequest struct {
	Role string `json:"role" validate:"required,role"`
}

// Set makes the caller's session act as another role.
//
// @Summary      Impersonate a role
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      impersonationRequest  true  "Role to act as"
// @Success      200   {object}  domain.RoleContext
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  middleware.DenialResponse
// @Failure      403   {object}  middleware.DenialResponse
// @Router       /v1/admin/impersonation [put]
func (h *ImpersonationHandler) Set(c echo.Context) error {
	var req impersonationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	role, ok := domain.ParseRole(req.Role)
	if !ok {
		return domain.ErrInvalidRole
	}

	session, err := ctxSession(c)
	if err != nil {
		return err
	}
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	rc, err := h.svc.Start(c.Request().Context(), actor, session, role)
	if err != nil {
		return err
	}
	metrics.ImpersonationChangesTotal.WithLabelValues("set").Inc()
	return c.JSON(http.StatusOK, rc)
}

// Clear stops impersonating and returns to the account role.
//
// @Summary      Stop impersonating
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.RoleContext
// @Failure      401  {object}  middleware.DenialResponse
// @Failure      403  {object}  middleware.DenialResponse
// @Router       /v1/admin/impersonation [delete]
func (h *ImpersonationHandler) Clear(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	rc, err := h.svc.Stop(c.Request().Context(), actor, session)
	if err != nil {
		return err
	}
	metrics.ImpersonationChangesTotal.WithLabelValues("cleared").Inc()
	return c.JSON(http.StatusOK, rc)
}
