package routes

import (
	"tokenwise/internal/handlers"
	"tokenwise/internal/middleware"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter builds the read-only query API.
func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.RateLimiterMiddleware(middleware.RateLimiterConfig{
		RequestsPerSecond: 10,
		Burst:             20,
	}))

	h := handlers.NewHandler(db)

	api := r.Group("/api")
	{
		api.GET("/stats", h.GetStats)
		api.GET("/transactions", h.ListTransactions)
		api.GET("/top-holders", h.ListTopHolders)
		api.GET("/repeated-activity", h.GetRepeatedActivity)
		api.GET("/export", h.ExportTransactions)
	}

	return r
}
