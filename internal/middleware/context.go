package middleware

import (
	"github.com/deppfellow/go-forms/internal/errs"
	"github.com/deppfellow/go-forms/internal/logger"
	"github.com/deppfellow/go-forms/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"
)

const (
	// LoggerKey is used as the key for storing the request-scoped logger.
	LoggerKey = "logger"

	// FormKey and EnvelopeKey are set by form handlers so that errors raised
	// anywhere in the chain render in the form's response shape.
	FormKey     = "form"
	EnvelopeKey = "envelope"
)

// ContextEnhancer builds a request-scoped logger with request_id, method,
// path, ip and, when a New Relic transaction exists, trace ids.
//
// The logger is stored both on the Echo context and on the Go request
// context, so code that only sees a context.Context (services, background
// jobs) can use zerolog.Ctx.
type ContextEnhancer struct {
	server *server.Server
}

// NewContextEnhancer creates a new ContextEnhancer using the app Server container.
func NewContextEnhancer(s *server.Server) *ContextEnhancer {
	return &ContextEnhancer{server: s}
}

func (ce *ContextEnhancer) EnhanceContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := GetRequestID(c)

			contextLogger := ce.server.Logger.With().
				Str("request_id", requestID).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Str("ip", c.RealIP()).
				Logger()

			if txn := newrelic.FromContext(c.Request().Context()); txn != nil {
				contextLogger = logger.WithTraceContext(contextLogger, txn)
			}

			c.Set(LoggerKey, &contextLogger)

			ctx := contextLogger.WithContext(c.Request().Context())
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// GetLogger retrieves the request-scoped logger from Echo context.
//
// If EnhanceContext middleware didn't run, it returns a no-op logger.
func GetLogger(c echo.Context) *zerolog.Logger {
	if logger, ok := c.Get(LoggerKey).(*zerolog.Logger); ok {
		return logger
	}

	logger := zerolog.Nop()
	return &logger
}

// SetForm records which form is handling the request and its envelope.
func SetForm(c echo.Context, name string, envelope errs.Envelope) {
	c.Set(FormKey, name)
	c.Set(EnvelopeKey, envelope)
}

// GetFormName returns the form set by SetForm, or "".
func GetFormName(c echo.Context) string {
	if name, ok := c.Get(FormKey).(string); ok {
		return name
	}
	return ""
}

// GetEnvelope returns the envelope set by SetForm, defaulting to EnvelopeOK.
func GetEnvelope(c echo.Context) errs.Envelope {
	if envelope, ok := c.Get(EnvelopeKey).(errs.Envelope); ok {
		return envelope
	}
	return errs.EnvelopeOK
}
