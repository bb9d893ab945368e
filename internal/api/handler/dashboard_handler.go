package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/opsboard/gatekeeper/internal/api/middleware"
	"github.com/opsboard/gatekeeper/internal/core/domain"
)

type DashboardHandler struct{}

func NewDashboardHandler() *DashboardHandler {
	return &DashboardHandler{}
}

type dashboardResponse struct {
	Page     domain.Page        `json:"page"`
	URL      string             `json:"url"`
	Required domain.Role        `json:"required"`
	Roles    domain.RoleContext `json:"roles"`
}

// Show returns the descriptor of the dashboard gated at role. The route must
// sit behind RequireRole(role).
//
// @Summary      Dashboard descriptor
// @Tags         dashboards
// @Produce      json
// @Security     BearerAuth
// @Param        role  path      string  true  "Dashboard role"  Enums(user, technician, developer, admin)
// @Success      200   {object}  dashboardResponse
// @Failure      401   {object}  middleware.DenialResponse
// @Failure      403   {object}  middleware.DenialResponse
// @Router       /v1/dashboards/{role} [get]
func (h *DashboardHandler) Show(role domain.Role) echo.HandlerFunc {
	page := domain.Dashboard(role)
	return func(c echo.Context) error {
		roles, ok := middleware.RolesFrom(c)
		if !ok {
			return domain.ErrUnauthenticated
		}
		return c.JSON(http.StatusOK, dashboardResponse{
			Page:     page,
			URL:      page.URL(),
			Required: role,
			Roles:    roles,
		})
	}
}
