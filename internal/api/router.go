package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/campussutras/campus-api/internal/api/handler"
	"github.com/campussutras/campus-api/internal/api/middleware"
	"github.com/campussutras/campus-api/internal/api/response"
	"github.com/campussutras/campus-api/internal/api/session"
	"github.com/campussutras/campus-api/internal/core/ports"
)

// Dependencies is everything the HTTP layer needs from the outside.
type Dependencies struct {
	Accounts    ports.AccountService
	Assessments ports.AssessmentService
	Leads       ports.LeadService

	Sessions *session.Manager
	Tokens   middleware.TokenVerifier
	Limiter  ports.RateLimiter // nil disables rate limiting

	Health      map[string]handler.Pinger
	CORSOrigins []string

	// Registerer and Gatherer default to the prometheus globals.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer

	Log zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = response.NewHTTPErrorHandler(deps.Log)

	registerer, gatherer := deps.Registerer, deps.Gatherer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echomiddleware.Secure())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     deps.CORSOrigins,
		AllowCredentials: true,
	}))
	e.Use(echomiddleware.Gzip())
	e.Use(echomiddleware.BodyLimit("16K"))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "campus",
		Subsystem:  "http",
		Registerer: registerer,
	}))
	if deps.Limiter != nil {
		e.Use(middleware.RateLimit(deps.Limiter, deps.Log))
	}

	userGate := middleware.UserGate(deps.Sessions, deps.Tokens)
	adminGate := middleware.AdminGate(deps.Sessions, deps.Tokens)

	accounts := handler.NewAccountHandler(deps.Accounts, deps.Sessions)
	assessments := handler.NewAssessmentHandler(deps.Assessments)
	leads := handler.NewLeadHandler(deps.Leads)
	health := handler.NewHealthHandler(deps.Health)

	// --- User routes ---
	user := e.Group("/api/v1/user")
	user.POST("/signup", accounts.Signup)
	user.POST("/login", accounts.Login)
	user.GET("/logout", accounts.Logout)
	user.PATCH("/send-verification-code", accounts.SendVerificationCode)
	user.PATCH("/verify-email/:token", accounts.VerifyEmail)
	user.PATCH("/forget-password", accounts.ForgetPassword)
	user.PATCH("/forget-change-password/:token", accounts.ResetPassword)
	user.POST("/contact", leads.Contact)
	user.POST("/enrollment", leads.Enrollment)
	user.POST("/internship", leads.Internship)

	user.GET("/profile", accounts.Profile, userGate)
	user.GET("/assessments", assessments.Mine, userGate)
	user.PATCH("/change-password", accounts.ChangePassword, userGate)
	user.PATCH("/update", accounts.UpdateProfile, userGate)

	user.GET("/get-users", accounts.ListUsers, adminGate)
	user.GET("/get-user/:id", accounts.GetUser, adminGate)
	user.PATCH("/make-admin/:id", accounts.MakeAdmin, adminGate)

	// --- Assessment routes ---
	assessment := e.Group("/api/v1/assessment")
	assessment.POST("/save-assessment", assessments.Save, userGate)
	assessment.GET("/my-assessments", assessments.Mine, userGate)
	assessment.GET("/get-assessments", assessments.ListAll, adminGate)
	assessment.GET("/user-assessments/:id", assessments.ByUser, adminGate)

	// --- Health probes, metrics and docs (no auth required) ---
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Error != nil {
				evt = log.Warn().Err(v.Error)
			}
			evt.
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
