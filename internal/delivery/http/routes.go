package http

import (
	"github.com/gin-gonic/gin"
	"github.com/serpops/backend/config"
	"github.com/serpops/backend/internal/metrics"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.POST("/serp/page-types", handler.ClassifyPageTypes)

		topics := v1.Group("/topics")
		{
			topics.POST("/extract", handler.ExtractTopics)
			topics.POST("/pick", handler.PickTopics)
		}

		mentions := v1.Group("/mentions")
		{
			mentions.POST("/verify", handler.VerifyMentions)
			mentions.POST("/snapshot", handler.PollSnapshot)
		}
	}

	return router
}
