package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/signalyze/sentinel/internal/telemetry"
)

// SetupRoutes configures all API routes.
func SetupRoutes(router *gin.Engine, handler *Handler, cfg ServerConfig, provider *telemetry.Provider) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": cfg.Name,
			"version": cfg.Version,
		})
	})

	if provider != nil {
		router.GET("/metrics", gin.WrapH(provider.Handler()))
	}

	v1 := router.Group("/api/v1")
	{
		analyze := v1.Group("/analyze")
		{
			analyze.POST("", handler.Analyze)            // POST /api/v1/analyze
			analyze.POST("/batch", handler.AnalyzeBatch) // POST /api/v1/analyze/batch
		}

		v1.GET("/rules", handler.ListRules) // GET /api/v1/rules

		runs := v1.Group("/runs")
		{
			runs.GET("", handler.ListRuns)    // GET /api/v1/runs
			runs.GET("/:id", handler.GetRun)  // GET /api/v1/runs/:id
		}

		v1.GET("/stats", handler.GetStats) // GET /api/v1/stats
	}
}
