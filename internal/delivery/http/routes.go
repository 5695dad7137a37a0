package http

import (
	"github.com/gin-gonic/gin"
	"github.com/macrolens/diary/config"
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

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(NewIPRateLimiter(cfg.RateLimit.PerIP)))
	v1.Use(AuthMiddleware(NewTokenVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer)))
	{
		v1.GET("/meal-slots", handler.MealSlots)
		v1.GET("/activity-levels", handler.ActivityLevels)

		foods := v1.Group("/foods")
		{
			foods.GET("", handler.SearchFoods)
			foods.GET("/usda", handler.SearchUSDA)
			foods.POST("/import", handler.ImportFood)
			foods.GET("/:id", handler.GetFood)
		}

		dishes := v1.Group("/custom-dishes")
		{
			dishes.GET("", handler.ListCustomDishes)
			dishes.POST("", handler.CreateCustomDish)
			dishes.GET("/:id", handler.GetCustomDish)
			dishes.DELETE("/:id", handler.DeleteCustomDish)
		}

		recipes := v1.Group("/recipes")
		{
			recipes.POST("", handler.CreateRecipe)
			recipes.GET("/:id", handler.GetRecipe)
			recipes.DELETE("/:id", handler.DeleteRecipe)
		}

		diary := v1.Group("/diary")
		{
			diary.GET("", handler.ListDiaryEntries)
			diary.POST("", handler.CreateDiaryEntry)
			diary.PUT("/:id", handler.UpdateDiaryEntry)
			diary.DELETE("/:id", handler.DeleteDiaryEntry)
		}

		v1.POST("/portions/preview", handler.PreviewPortion)

		summary := v1.Group("/summary")
		{
			summary.GET("/day", handler.DaySummary)
			summary.GET("/week", handler.WeekSummary)
		}

		targets := v1.Group("/nutrition-targets")
		{
			targets.GET("/current", handler.CurrentTarget)
			targets.POST("", handler.CreateTarget)
			targets.POST("/suggest", handler.SuggestTarget)
		}

		metrics := v1.Group("/body-metrics")
		{
			metrics.POST("", handler.AddBodyMetric)
			metrics.GET("/latest", handler.LatestBodyMetric)
		}
	}

	return router
}
