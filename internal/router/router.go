package router

import (
	"github.com/gin-gonic/gin"

	"nefera/internal/config"
	"nefera/internal/handler"
	"nefera/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	evalH *handler.EvaluationHandler,
	reportH *handler.ReportHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	evaluations := v1.Group("/evaluations")
	evaluations.POST("/run", evalH.Run)
	evaluations.GET("", evalH.List)
	evaluations.GET("/export/csv", reportH.ExportCSV)
	evaluations.GET("/export/xlsx", reportH.ExportXLSX)
	evaluations.GET("/:id", evalH.GetByID)
	evaluations.GET("/:id/audit", evalH.AuditTrail)

	return r
}
