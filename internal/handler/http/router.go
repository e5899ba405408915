// File: internal/handler/http/router.go
package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/RayanDZ04/area-rattrapage/internal/handler/http/middleware"
)

// SetupRouter wires the engine's HTTP surface.
func SetupRouter(
	engineHandler *EngineHandler,
	healthHandler *HealthHandler,
	logger *zap.Logger,
) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.CorsMiddleware())
	router.Use(middleware.MetricsMiddleware())

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", healthHandler.Health)
	router.GET("/readiness", healthHandler.Readiness)

	api := router.Group("/api/v1")
	{
		users := api.Group("/users")
		{
			users.POST("/:user_id/run", engineHandler.RunNow)
			users.GET("/:user_id/runs", engineHandler.ListRuns)
		}
	}

	return router
}
