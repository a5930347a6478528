package router

import (
	"github.com/deppfellow/go-forms/internal/handler"
	"github.com/deppfellow/go-forms/internal/metrics"
	"github.com/labstack/echo/v4"
)

// registerSystemRoutes registers endpoints that are not part of the forms:
// health status and Prometheus metrics.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)
	r.GET("/metrics", echo.WrapHandler(metrics.Handler()))
}
