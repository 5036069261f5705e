package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/legaltech/case-management/internal/api/handler"
	"github.com/legaltech/case-management/internal/api/middleware"
	"github.com/legaltech/case-management/internal/core/domain"
	"github.com/legaltech/case-management/internal/core/ports"
)

// Services are the domain services the router exposes.
type Services struct {
	Auth      ports.AuthService
	Cases     ports.CaseService
	Entries   ports.TimeEntryService
	Documents ports.DocumentService
	Users     ports.UserService
}

// Deps are the collaborators of the transport layer. Limiter and Redis may
// be nil when rate limiting is not configured.
type Deps struct {
	Tokens  ports.TokenIssuer
	Limiter ports.RateLimiter
	Redis   handler.Pinger
	Logger  zerolog.Logger
	// MaxBodyBytes bounds request bodies, multipart uploads included.
	MaxBodyBytes int64
	// Metrics receives the HTTP request metrics and backs /metrics.
	// Nil uses the default Prometheus registry.
	Metrics *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(svc Services, deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)
	requestMetrics, metricsHandler := httpMetrics(deps.Metrics)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Logger))
	e.Use(requestMetrics)
	if deps.MaxBodyBytes > 0 {
		// Leave room for multipart framing around the file itself.
		e.Use(echomiddleware.BodyLimitWithConfig(echomiddleware.BodyLimitConfig{
			Limit: formatBytes(deps.MaxBodyBytes + 1<<20),
		}))
	}

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", metricsHandler)

	v1 := e.Group("/api/v1")
	if deps.Limiter != nil {
		v1.Use(middleware.RateLimit(deps.Limiter, deps.Logger))
	}

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(svc.Auth)
	v1.POST("/auth/register", authHandler.Register)
	v1.POST("/auth/login", authHandler.Login)
	v1.POST("/auth/refresh-token", authHandler.Refresh)

	authed := v1.Group("", middleware.Auth(deps.Tokens, svc.Auth))
	anyRole := middleware.RBAC(domain.RoleAdmin, domain.RoleLawyer)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Cases ---
	caseHandler := handler.NewCaseHandler(svc.Cases)
	cases := authed.Group("/cases", anyRole)
	cases.POST("", caseHandler.Create)
	cases.GET("", caseHandler.List)
	cases.GET("/search", caseHandler.Search)
	cases.GET("/:id", caseHandler.Get)
	cases.PUT("/:id", caseHandler.Update)
	cases.PUT("/:id/status", caseHandler.ChangeStatus)
	cases.DELETE("/:id", caseHandler.Delete)
	cases.GET("/:id/total-hours", caseHandler.TotalHours)

	// --- Time entries ---
	entryHandler := handler.NewTimeEntryHandler(svc.Entries)
	entries := cases.Group("/:caseId/time-entries")
	entries.POST("", entryHandler.Create)
	entries.GET("", entryHandler.List)
	entries.GET("/total-hours", entryHandler.TotalHours)
	entries.GET("/:id", entryHandler.Get)
	entries.PUT("/:id", entryHandler.Update)
	entries.DELETE("/:id", entryHandler.Delete)

	// --- Documents ---
	documentHandler := handler.NewDocumentHandler(svc.Documents)
	documents := cases.Group("/:caseId/documents")
	documents.POST("", documentHandler.Upload)
	documents.GET("", documentHandler.List)
	documents.GET("/:id", documentHandler.Get)
	documents.DELETE("/:id", documentHandler.Delete)
	authed.GET("/public/documents/:id", documentHandler.Download, anyRole)

	// --- Users ---
	userHandler := handler.NewUserHandler(svc.Users)
	users := authed.Group("/users")
	users.POST("/admins", userHandler.CreateAdmin, adminOnly)
	users.POST("/lawyers", userHandler.CreateLawyer, adminOnly)
	users.GET("", userHandler.List, adminOnly)
	users.GET("/:id", userHandler.Get, anyRole)
	users.PUT("/:id", userHandler.Update, adminOnly)
	users.DELETE("/:id", userHandler.Delete, adminOnly)

	return e
}
