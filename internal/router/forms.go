package router

import (
	"github.com/deppfellow/go-forms/internal/handler"
	"github.com/deppfellow/go-forms/internal/middleware"
	"github.com/labstack/echo/v4"
)

// registerFormRoutes registers the submission endpoints for every method so
// that non-POST requests get a 405 in the form's own envelope.
func registerFormRoutes(r *echo.Echo, h *handler.Handlers, mw *middleware.Middlewares) {
	api := r.Group("/api", mw.RateLimit.RecordHits())

	api.Any("/apply", h.Forms.Apply)
	api.Any("/newsletter", h.Forms.Newsletter)
	api.Any("/newsletter/subscribe", h.Forms.NewsletterSubscribe)
	api.Any("/merch-waitlist", h.Forms.MerchWaitlist)
}
