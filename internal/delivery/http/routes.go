package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/productfilter/backend/config"
)

// SetupRouter creates and configures the Gin router. metricsHandler may be
// nil, in which case /metrics is not exposed.
func SetupRouter(cfg *config.Config, handler *Handler, metricsHandler http.Handler, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RequestIDMiddleware())
	router.Use(RecoveryMiddleware(logger))
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(CORSPolicyFrom(cfg.Server)))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	if metricsHandler != nil {
		router.GET("/metrics", gin.WrapH(metricsHandler))
	}

	// Unversioned path kept for existing clients
	router.GET("/products/filter", handler.FilterProducts)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		products := v1.Group("/products")
		{
			products.GET("/filter", handler.FilterProducts)
		}
	}

	return router
}
