// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the API route groups,
// mapping specific paths to their corresponding handlers
package router

import (
	"github.com/deppfellow/go-forms/internal/handler"
	"github.com/deppfellow/go-forms/internal/middleware"
	"github.com/deppfellow/go-forms/internal/server"
	"github.com/labstack/echo/v4"
)

// NewRouter builds the Echo instance with global middleware, the form
// routes and the system routes.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true

	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	// Order matters: request id and trace context must exist before the
	// request logger is built, and Recover must sit inside the logger so a
	// panic is logged with the final status.
	router.Use(
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middlewares.Global.Recover(),
	)

	registerSystemRoutes(router, h)
	registerFormRoutes(router, h, middlewares)

	return router
}
