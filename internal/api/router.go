package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/opsboard/gatekeeper/docs"
	"github.com/opsboard/gatekeeper/internal/api/handler"
	"github.com/opsboard/gatekeeper/internal/api/middleware"
	"github.com/opsboard/gatekeeper/internal/core/domain"
	"github.com/opsboard/gatekeeper/internal/core/ports"
	"github.com/opsboard/gatekeeper/internal/core/service"
	"github.com/opsboard/gatekeeper/internal/infrastructure/http/handlers"
)

// Deps carries everything the router needs. The caller owns their lifecycle.
type Deps struct {
	Log           zerolog.Logger
	Tokens        *service.SessionTokens
	Resolver      *service.IdentityResolver
	Gate          *service.AccessGate
	Redirects     *service.RedirectEngine
	Auth          ports.AuthService
	Impersonation ports.ImpersonationService
	LoginLimiter  *middleware.IPRateLimiter
	Readiness     map[string]handlers.Check
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echoprometheus.NewMiddleware("gatekeeper"))
	e.Use(middleware.Session(d.Tokens, d.Resolver))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Auth)
	accessHandler := handler.NewAccessHandler(d.Gate)
	navigationHandler := handler.NewNavigationHandler(d.Redirects)
	impersonationHandler := handler.NewImpersonationHandler(d.Impersonation)
	dashboardHandler := handler.NewDashboardHandler()

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login, middleware.RateLimit(d.LoginLimiter))
	e.POST("/auth/logout", authHandler.Logout)

	// --- Gating API ---
	v1 := e.Group("/v1")
	v1.GET("/me", accessHandler.Me, middleware.RequireRole(d.Gate, domain.RoleUser))
	v1.GET("/access", accessHandler.Check)
	v1.GET("/navigation", navigationHandler.Decide)
	for _, r := range domain.Roles() {
		v1.GET("/dashboards/"+string(r), dashboardHandler.Show(r), middleware.RequireRole(d.Gate, r))
	}

	admin := v1.Group("/admin", middleware.RequireRealRole(domain.RoleAdmin))
	admin.PUT("/impersonation", impersonationHandler.Set)
	admin.DELETE("/impersonation", impersonationHandler.Clear)

	// --- Health probes and ops (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(d.Readiness)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil || v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
