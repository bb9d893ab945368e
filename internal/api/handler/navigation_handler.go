package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/opsboard/gatekeeper/internal/api/metrics"
	"github.com/opsboard/gatekeeper/internal/api/middleware"
	"github.com/opsboard/gatekeeper/internal/core/domain"
	"github.com/opsboard/gatekeeper/internal/core/service"
)

type NavigationHandler struct {
	engine *service.RedirectEngine
}

func NewNavigationHandler(engine *service.RedirectEngine) *NavigationHandler {
	return &NavigationHandler{engine: engine}
}

type navigationResponse struct {
	Kind      domain.RedirectKind `json:"kind"`
	Target    domain.Page         `json:"target"`
	TargetURL string              `json:"target_url"`
	DelayMS   int64               `json:"delay_ms"`
	Replayed  bool                `json:"replayed"`
}

// Decide tells the client whether to render the page at path or navigate.
//
// @Summary      Navigation decision
// @Tags         navigation
// @Produce      json
// @Param        path  query     string  false  "Current page path"  default(/)
// @Success      200   {object}  navigationResponse
// @Router       /v1/navigation [get]
func (h *NavigationHandler) Decide(c echo.Context) error {
	path := c.QueryParam("path")
	if path == "" {
		path = "/"
	}

	d := h.engine.Mount(middleware.ResolutionFrom(c), path).Evaluate(c.Request().Context())
	metrics.RedirectDecisionsTotal.WithLabelValues(string(d.Kind)).Inc()

	return c.JSON(http.StatusOK, navigationResponse{
		Kind:      d.Kind,
		Target:    d.Target,
		TargetURL: d.Target.URL(),
		DelayMS:   d.Delay.Milliseconds(),
		Replayed:  d.Replayed,
	})
}
