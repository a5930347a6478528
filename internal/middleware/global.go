package middleware

import (
	"net/http"

	"github.com/deppfellow/go-forms/internal/errs"
	"github.com/deppfellow/go-forms/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// GlobalMiddlewares groups “global” middleware and the global error handler.
type GlobalMiddlewares struct {
	server *server.Server
}

// NewGlobalMiddlewares constructs the middleware bundle.
func NewGlobalMiddlewares(s *server.Server) *GlobalMiddlewares {
	return &GlobalMiddlewares{
		server: s,
	}
}

// CORS returns Echo’s CORS middleware configured by your server config.
func (global *GlobalMiddlewares) CORS() echo.MiddlewareFunc {
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: global.server.Config.Server.CORSAllowedOrigins,
		AllowMethods: []string{http.MethodPost, http.MethodOptions},
	})
}

// RequestLogger produces one “API” log line per request, with severity
// based on status.
func (global *GlobalMiddlewares) RequestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogError:   true,
		LogLatency: true,
		LogHost:    true,
		LogMethod:  true,
		LogURIPath: true,

		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			statusCode := v.Status

			// When a handler returns an error the global error handler has
			// not written the final status yet, so derive it from the error.
			// Reference: https://github.com/labstack/echo/issues/2310#issuecomment-1288196898
			if v.Error != nil {
				var httpErr *errs.HTTPError
				var echoErr *echo.HTTPError

				if errors.As(v.Error, &httpErr) {
					statusCode = httpErr.Status
				} else if errors.As(v.Error, &echoErr) {
					statusCode = echoErr.Code
				}
			}

			logger := GetLogger(c)

			var e *zerolog.Event
			switch {
			case statusCode >= 500:
				e = logger.Error().Err(v.Error)
			case statusCode >= 400:
				e = logger.Warn()
			default:
				e = logger.Info()
			}

			if requestID := GetRequestID(c); requestID != "" {
				e = e.Str("request_id", requestID)
			}

			if form := GetFormName(c); form != "" {
				e = e.Str("form", form)
			}

			e.
				Dur("latency", v.Latency).
				Int("status", statusCode).
				Str("method", v.Method).
				Str("uri", v.URI).
				Str("host", v.Host).
				Str("ip", c.RealIP()).
				Str("user_agent", c.Request().UserAgent()).
				Msg("API")

			return nil
		},
	})
}

// Recover returns Echo’s panic recovery middleware. Panics reach
// GlobalErrorHandler as errors and become 500 responses.
func (global *GlobalMiddlewares) Recover() echo.MiddlewareFunc {
	return middleware.Recover()
}

// Secure returns Echo’s secure headers middleware.
func (global *GlobalMiddlewares) Secure() echo.MiddlewareFunc {
	return middleware.Secure()
}

// GlobalErrorHandler is the final error funnel for the entire HTTP server.
//
// Every error is turned into an *errs.HTTPError and rendered in the
// envelope of the form that raised it (see SetForm). Anything that is not
// already an HTTPError or an Echo routing error becomes a generic 500; its
// text only goes to the log.
func (global *GlobalMiddlewares) GlobalErrorHandler(err error, c echo.Context) {
	originalErr := err

	var httpErr *errs.HTTPError
	if !errors.As(err, &httpErr) {
		var echoErr *echo.HTTPError
		if errors.As(err, &echoErr) {
			switch echoErr.Code {
			case http.StatusNotFound:
				httpErr = errs.NewNotFoundError("Route not found")
			case http.StatusMethodNotAllowed:
				httpErr = errs.NewMethodNotAllowedError()
			default:
				message := http.StatusText(echoErr.Code)
				if msg, ok := echoErr.Message.(string); ok {
					message = msg
				}
				httpErr = &errs.HTTPError{
					Code:    errs.MakeUpperCaseWithUnderscores(http.StatusText(echoErr.Code)),
					Message: message,
					Status:  echoErr.Code,
				}
			}
		} else {
			httpErr = errs.NewInternalServerError(err)
		}
	}

	logger := GetLogger(c)

	var event *zerolog.Event
	if httpErr.Status >= 500 {
		event = logger.Error().Stack().Err(originalErr)
	} else {
		event = logger.Warn().Str("reason", originalErr.Error())
	}
	if httpErr.Field != "" {
		event = event.Str("field", httpErr.Field)
	}
	event.
		Int("status", httpErr.Status).
		Str("error_code", httpErr.Code).
		Msg(httpErr.Message)

	if c.Response().Committed {
		return
	}

	for key, values := range httpErr.Headers() {
		for _, value := range values {
			c.Response().Header().Set(key, value)
		}
	}

	if err := c.JSON(httpErr.Status, GetEnvelope(c).ErrorBody(httpErr)); err != nil {
		logger.Error().Err(err).Msg("failed to write error response")
	}
}
