package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/soundhub/user-service/internal/api/handler"
	"github.com/soundhub/user-service/internal/api/middleware"
	"github.com/soundhub/user-service/internal/core/domain"
	"github.com/soundhub/user-service/internal/core/ports"
)

// Deps carries everything the router needs to register handlers.
type Deps struct {
	Accounts  ports.AccountStore
	Profiles  ports.ProfileService
	Auth      ports.AuthService
	Readiness *handler.HealthDependenciesHandler
	JWTSecret string
	Log       zerolog.Logger

	// Registerer receives the HTTP request metrics. Nil means the default registry.
	Registerer prometheus.Registerer
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
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "soundhub",
		Registerer: d.Registerer,
	}))

	authHandler := handler.NewAuthHandler(d.Auth)
	accountHandler := handler.NewAccountHandler(d.Accounts, d.Profiles)
	authMiddleware := middleware.Auth(d.JWTSecret)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Account routes ---
	v1 := e.Group("/v1", authMiddleware)
	v1.GET("/accounts", accountHandler.List, adminOnly)
	v1.GET("/accounts/bands/unlinked", accountHandler.UnlinkedBands, adminOnly)
	v1.GET("/accounts/:id", accountHandler.Get)
	v1.PATCH("/accounts/:id", accountHandler.Update)
	v1.DELETE("/accounts/:id", accountHandler.Delete)
	v1.PUT("/accounts/:id/artist", accountHandler.LinkArtist, adminOnly)
	v1.PUT("/accounts/:id/following/:artistId", accountHandler.Follow)
	v1.DELETE("/accounts/:id/following/:artistId", accountHandler.Unfollow)
	v1.PUT("/accounts/:id/liked-tracks/:trackId", accountHandler.Like)
	v1.DELETE("/accounts/:id/liked-tracks/:trackId", accountHandler.Unlike)

	// --- Health probes (no auth required) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	if d.Readiness != nil {
		e.GET("/health/ready", d.Readiness.Readiness)
	}

	// --- Ops ---
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
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Error != nil {
				evt = log.Warn().Err(v.Error)
			}
			evt.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
