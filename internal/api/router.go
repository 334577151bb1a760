package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"

	"github.com/omsomani/account-system/internal/api/handler"
	"github.com/omsomani/account-system/internal/api/middleware"
	"github.com/omsomani/account-system/internal/core/ports"
	"github.com/omsomani/account-system/internal/infrastructure/http/handlers"
	"github.com/omsomani/account-system/internal/ratelimit"
)

const (
	loginLimitMessage = "Too many login attempts, please try again after 15 minutes"
	apiLimitMessage   = "Too many requests, please try again later"
)

// Deps bundles everything the router wires together.
type Deps struct {
	Auth        *handler.AuthHandler
	Profile     *handler.ProfileHandler
	Health      *handlers.HealthHandler
	Ready       *handlers.ReadinessHandler
	Tokens      ports.TokenIssuer
	Limiter     *ratelimit.Limiter
	LoginPolicy ratelimit.Policy
	APIPolicy   ratelimit.Policy
	Log         zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("account"))

	// --- Operational endpoints (never rate limited) ---
	e.GET("/health", d.Health.Liveness)
	e.GET("/health/ready", d.Ready.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	apiLimit := middleware.RateLimit(d.Limiter, d.APIPolicy, apiLimitMessage)
	loginLimit := middleware.RateLimit(d.Limiter, d.LoginPolicy, loginLimitMessage)
	authRequired := middleware.Auth(d.Tokens)

	// --- Auth routes ---
	auth := e.Group("/auth", apiLimit)
	auth.POST("/signup", d.Auth.Signup)
	auth.POST("/login", d.Auth.Login, loginLimit)

	// --- Profile routes (bearer token required) ---
	profile := e.Group("/profile", apiLimit, authRequired)
	profile.GET("", d.Profile.Get)
	profile.PUT("", d.Profile.Update)
	profile.PUT("/password", d.Profile.ChangePassword)

	return e
}
