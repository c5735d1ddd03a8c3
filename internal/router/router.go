package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "loandesk/docs"
	"loandesk/internal/domain"
	"loandesk/internal/handler"
	"loandesk/internal/middleware"
	"loandesk/internal/service"
)

// Handlers groups the HTTP handlers mounted by Setup.
type Handlers struct {
	Auth        *handler.AuthHandler
	Application *handler.ApplicationHandler
	Document    *handler.DocumentHandler
	Inspection  *handler.InspectionHandler
	Stats       *handler.StatsHandler
	Health      *handler.HealthHandler
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(authSvc service.AuthService, h Handlers, allowedOrigins []string, log *zap.Logger) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.CORS(allowedOrigins))
	r.Use(middleware.Metrics())

	// Health checks and ops
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")

	// Public auth routes
	auth := api.Group("/auth")
	auth.POST("/login", h.Auth.Login)

	// Protected routes - require a valid JWT bound to the active session
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))

	protected.POST("/auth/logout", h.Auth.Logout)
	protected.GET("/auth/session", h.Auth.Session)

	supervisors := middleware.RequireRole(domain.RoleSupervisor, domain.RoleManager)
	managers := middleware.RequireRole(domain.RoleManager)

	apps := protected.Group("/applications")
	apps.GET("", h.Application.List)
	apps.GET("/export", h.Application.Export)
	apps.GET("/stats/summary", h.Stats.GetStats)
	apps.GET("/:id", h.Application.Get)
	apps.GET("/:id/plan", h.Application.Plan)
	apps.GET("/:id/history", h.Application.History)
	apps.PUT("/:id/status", supervisors, h.Application.UpdateStatus)
	apps.PUT("/:id/review", managers, h.Application.SubmitReview)

	// Documents
	apps.PUT("/:id/documents/:docId/verify", h.Document.Verify)
	apps.PUT("/:id/documents/:docId/reopen", managers, h.Document.Reopen)
	apps.GET("/:id/documents/:docId/download", h.Document.Download)
	apps.GET("/:id/documents/:docId/preview", h.Document.Preview)

	// Site inspections
	apps.POST("/:id/site-inspection", supervisors, h.Inspection.Schedule)
	apps.GET("/:id/site-inspections", h.Inspection.List)
	apps.PUT("/:id/site-inspections/:inspectionId/complete", supervisors, h.Inspection.Complete)
	apps.PUT("/:id/site-inspections/:inspectionId/cancel", supervisors, h.Inspection.Cancel)

	return r
}
