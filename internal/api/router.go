package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	v1 "github.com/revlytics/revlytics/internal/api/v1"
	"github.com/revlytics/revlytics/internal/config"
	"github.com/revlytics/revlytics/internal/logger"
	"github.com/revlytics/revlytics/internal/rest/middleware"
	"github.com/revlytics/revlytics/internal/types"
)

// Handlers groups the route handlers wired into the router
type Handlers struct {
	Analytics *v1.AnalyticsHandler
}

// NewRouter builds the gin engine with the standard middleware chain and routes
func NewRouter(handlers Handlers, cfg *config.Configuration, log *logger.Logger) *gin.Engine {
	if cfg.Deployment.Mode == types.RunModeProd {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	gin.DefaultWriter = log.GetGinLogger()

	router.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware(),
		middleware.LoggingMiddleware(log),
		middleware.ErrorHandler(),
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiV1 := router.Group("/v1")
	analytics := apiV1.Group("/analytics")
	{
		analytics.GET("/dashboard", handlers.Analytics.GetDashboard)
		analytics.GET("/series", handlers.Analytics.GetSeries)
		analytics.GET("/subscriptions", handlers.Analytics.ListSubscriptionStates)
		analytics.GET("/subscriptions/metrics", handlers.Analytics.GetSubscriptionMetrics)
	}

	return router
}
