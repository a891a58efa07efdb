package http

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/prohanzla/CalorieTracker-sub000/config"
	"github.com/prohanzla/CalorieTracker-sub000/internal/auth"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, tokens *auth.TokenManager, logger zerolog.Logger) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(RequestIDMiddleware())
	router.Use(RequestLoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public auth endpoints
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", handler.Register)
			authGroup.POST("/login", handler.Login)
		}

		// Everything below requires a valid token
		protected := v1.Group("")
		protected.Use(AuthMiddleware(tokens))
		{
			me := protected.Group("/me")
			{
				me.GET("", handler.Me)
				me.GET("/targets", handler.GetTargets)
				me.PUT("/targets", handler.UpdateTargets)
				me.GET("/limits", handler.GetLimits)
			}

			products := protected.Group("/products")
			{
				products.GET("", handler.SearchProducts)
				products.POST("", handler.CreateProduct)
				products.GET("/:id", handler.GetProduct)
				products.PUT("/:id", handler.UpdateProduct)
				products.DELETE("/:id", handler.DeleteProduct)
			}

			// Kept outside /products so :code does not clash with :id
			protected.GET("/barcode/:code", handler.ResolveBarcode)

			protected.POST("/images", handler.UploadImage)

			logs := protected.Group("/logs")
			{
				logs.GET("/:date", handler.GetDaySummary)
				logs.GET("/:date/nutrients", handler.GetNutrientBreakdown)
				logs.POST("/:date/entries", handler.AddEntry)
				logs.POST("/:date/analysis", handler.AnalyzeDay)
				logs.DELETE("/:date/analysis", handler.ResetAnalysis)
			}

			entries := protected.Group("/entries")
			{
				entries.PATCH("/:id", handler.PatchEntry)
				entries.DELETE("/:id", handler.DeleteEntry)
			}

			activity := protected.Group("/activity")
			{
				activity.GET("", handler.GetActivity)
				activity.PUT("", handler.SyncActivity)
				activity.PUT("/manual", handler.SetManualEarned)
				activity.DELETE("/manual", handler.ClearManualEarned)
			}

			estimate := protected.Group("/estimate")
			{
				estimate.POST("/describe", handler.DescribeFood)
				estimate.POST("/label", handler.ScanLabel)
			}

			protected.GET("/ws", handler.Stream)
		}
	}

	return router
}
