package router

import (
	"github.com/gin-gonic/gin"

	"pretenz/internal/config"
	"pretenz/internal/handler"
	"pretenz/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	parseH *handler.ParseHandler,
	entityH *handler.EntityHandler,
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

	// Claim parsing
	claims := v1.Group("/claims")
	claims.POST("/parse", parseH.Parse)
	claims.GET("", parseH.List)
	claims.GET("/:id", parseH.GetByID)

	// Standalone entity validation
	entities := v1.Group("/entities")
	entities.POST("/validate", entityH.Validate)

	return r
}
