package http

import (
	"github.com/gin-gonic/gin"
	"github.com/grocyscan/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	if cfg.Server.MaxUploadBytes > 0 {
		router.MaxMultipartMemory = cfg.Server.MaxUploadBytes
	}

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		scan := v1.Group("/scan")
		{
			scan.GET("/products", handler.ListProducts)
			scan.POST("/upload", handler.UploadReceipt)
			scan.POST("/book", handler.BookItems)
			scan.GET("/mappings", handler.ListMappings)
		}
	}

	return router
}
