package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/rentalhub/rental-api/docs"
	"github.com/rentalhub/rental-api/internal/api/handler"
	"github.com/rentalhub/rental-api/internal/api/middleware"
	"github.com/rentalhub/rental-api/internal/core/guard"
	"github.com/rentalhub/rental-api/internal/core/ports"
	"github.com/rentalhub/rental-api/internal/infrastructure/http/handlers"
)

// Dependencies holds everything the router wires into handlers.
type Dependencies struct {
	Sessions     ports.SessionService
	Carts        ports.CartService
	Catalog      ports.CatalogService
	Routes       *guard.Table
	Tokens       *middleware.SessionTokens
	HealthChecks map[string]handlers.Check
	SecureCookie bool
	Logger       zerolog.Logger
	// Registry receives the HTTP metrics. Nil means the default registry,
	// which also carries the counters of the metrics package.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	if deps.Routes == nil {
		deps.Routes = guard.NewTable(guard.DefaultRoutes)
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(promConfig(deps.Registry)))

	// --- Operational endpoints ---
	e.GET("/health", handlers.NewHealthHandler().Liveness)
	e.GET("/health/ready", handlers.NewHealthDependenciesHandler(deps.HealthChecks).Readiness)
	e.GET("/metrics", metricsHandler(deps.Registry))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Session-scoped API ---
	sessionHandler := handler.NewSessionHandler(deps.Sessions)
	navigationHandler := handler.NewNavigationHandler(deps.Sessions, deps.Routes)
	catalogHandler := handler.NewCatalogHandler(deps.Catalog)
	cartHandler := handler.NewCartHandler(deps.Carts, deps.Sessions, deps.Logger)
	dashboardHandler := handler.NewDashboardHandler(deps.Sessions, deps.Carts, deps.Catalog)

	requireAuth := middleware.Guard(guard.RouteMeta{RequiresAuth: true}, deps.Sessions)
	requireAdmin := middleware.Guard(guard.RouteMeta{RequiresAdmin: true}, deps.Sessions)

	v1 := e.Group("/v1", middleware.Session(deps.Tokens, deps.SecureCookie))

	v1.GET("/session", sessionHandler.Get)
	v1.POST("/session/login", sessionHandler.Login)
	v1.POST("/session/logout", sessionHandler.Logout)
	v1.POST("/session/role", sessionHandler.SwitchRole)

	v1.POST("/navigation/resolve", navigationHandler.Resolve)

	v1.GET("/catalog/:table", catalogHandler.List)

	v1.GET("/cart", cartHandler.View)
	v1.DELETE("/cart", cartHandler.Clear)
	v1.POST("/cart/items", cartHandler.AddItem)
	v1.PATCH("/cart/items/:id", cartHandler.UpdateItem)
	v1.DELETE("/cart/items/:id", cartHandler.RemoveItem)
	v1.POST("/cart/checkout", cartHandler.Checkout, requireAuth)

	v1.GET("/dashboard", dashboardHandler.User, requireAuth)
	v1.GET("/admin/dashboard", dashboardHandler.Admin, requireAdmin)

	return e
}

func promConfig(reg *prometheus.Registry) echoprometheus.MiddlewareConfig {
	cfg := echoprometheus.MiddlewareConfig{Namespace: "rental"}
	if reg != nil {
		cfg.Registerer = reg
	}
	return cfg
}

func metricsHandler(reg *prometheus.Registry) echo.HandlerFunc {
	if reg == nil {
		return echoprometheus.NewHandler()
	}
	return echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: reg})
}

// requestLogger logs one line per request through zerolog.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
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
