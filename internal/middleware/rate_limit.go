package middleware

import (
	"github.com/deppfellow/go-forms/internal/errs"
	"github.com/deppfellow/go-forms/internal/metrics"
	"github.com/deppfellow/go-forms/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type RateLimitMiddleware struct {
	server *server.Server
}

func NewRateLimitMiddleware(s *server.Server) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		server: s,
	}
}

// RecordRateLimitHit counts one rejected submission and, with New Relic
// enabled, records a RateLimitHit custom event.
func (r *RateLimitMiddleware) RecordRateLimitHit(endpoint string) {
	metrics.RateLimitHitsTotal.WithLabelValues(endpoint).Inc()

	if r.server.LoggerService != nil && r.server.LoggerService.GetApplication() != nil {
		r.server.LoggerService.GetApplication().RecordCustomEvent("RateLimitHit", map[string]interface{}{
			"endpoint": endpoint,
		})
	}
}

// RecordHits watches handler errors for rate limit rejections.
func (r *RateLimitMiddleware) RecordHits() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)

			var httpErr *errs.HTTPError
			if errors.As(err, &httpErr) && httpErr.Code == errs.CodeRateLimited {
				endpoint := GetFormName(c)
				if endpoint == "" {
					endpoint = c.Path()
				}
				r.RecordRateLimitHit(endpoint)
			}

			return err
		}
	}
}
