package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/opsboard/gatekeeper/internal/api/metrics"
	"github.com/opsboard/gatekeeper/internal/api/middleware"
	"github.com/opsboard/gatekeeper/internal/core/domain"
	"github.com/opsboard/gatekeeper/internal/core/service"
)

// AccessHandler exposes the access gate to view code.
type AccessHandler struct {
	gate *service.AccessGate
}

func NewAccessHandler(gate *service.AccessGate) *AccessHandler {
	return &AccessHandler{gate: gate}
}

type accessQuery struct {
	Required string `query:"required" validate:"required,role"`
}

type accessResponse struct {
	Allowed  bool                `json:"allowed"`
	Reason   domain.DenyReason   `json:"reason,omitempty"`
	Required domain.Role         `json:"required"`
	Roles    *domain.RoleContext `json:"roles,omitempty"`
}

type meResponse struct {
	Identity  *domain.Identity   `json:"identity"`
	Roles     domain.RoleContext `json:"roles"`
	Dashboard domain.Page        `json:"dashboard"`
}

// Check reports whether the caller may enter a view gated at a role.
//
// @Summary      Check access
// @Tags         access
// @Produce      json
// @Param        required  query     string  true  "Minimum role"  Enums(user, technician, developer, admin)
// @Success      200       {object}  accessResponse
// @Failure      400       {object}  map[string]string
// @Router       /v1/access [get]
func (h *AccessHandler) Check(c echo.Context) error {
	var q accessQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query")
	}
	if err := c.Validate(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	required, ok := domain.ParseRole(q.Required)
	if !ok {
		return domain.ErrInvalidRole
	}

	check := h.gate.Check(c.Request().Context(), middleware.ResolutionFrom(c), required)
	metrics.AccessDecisionsTotal.WithLabelValues(string(required), middleware.Outcome(check.Decision)).Inc()

	resp := accessResponse{
		Allowed:  check.Decision.Allowed,
		Reason:   check.Decision.Reason,
		Required: required,
	}
	if check.Auth.OK() {
		roles := check.Roles
		resp.Roles = &roles
	}
	return c.JSON(http.StatusOK, resp)
}

// Me returns the caller's identity and role pair.
//
// @Summary      Current identity
// @Tags         access
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  meResponse
// @Failure      401  {object}  middleware.DenialResponse
// @Router       /v1/me [get]
func (h *AccessHandler) Me(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	roles, ok := middleware.RolesFrom(c)
	if !ok {
		roles = domain.NewRoleContext(id.AccountRole, nil)
	}
	return c.JSON(http.StatusOK, meResponse{
		Identity:  id,
		Roles:     roles,
		Dashboard: domain.Dashboard(roles.Effective),
	})
}
