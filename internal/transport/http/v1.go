package http

import (
	"github.com/gin-gonic/gin"

	"github.com/0xGeorgii/interstellar/internal/handler"
)

func loadRoutes(r *gin.Engine, h *handler.Handler) {
	// protocol surface
	r.POST("/order", h.OrderHandler.Submit)
	r.POST("/secret", h.SecretHandler.Submit)
	r.GET("/order_status", h.OrderHandler.Status)

	// health checks
	r.GET("/healthz", h.HealthHandler.Basic)
	r.GET("/health", h.HealthHandler.Basic)

	v1 := r.Group("/api/v1")

	health := v1.Group("/health")
	{
		health.GET("/db", h.HealthHandler.Database)
		health.GET("/external", h.HealthHandler.External)
	}

	// prometheus metrics
	r.GET("/metrics", h.MetricsHandler.Handler())
}
