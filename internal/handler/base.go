package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/deppfellow/go-forms/internal/errs"
	"github.com/deppfellow/go-forms/internal/middleware"
	"github.com/deppfellow/go-forms/internal/ratelimit"
	"github.com/deppfellow/go-forms/internal/server"
	"github.com/deppfellow/go-forms/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"
)

// Handler is the base handler type that holds shared application dependencies.
type Handler struct {
	server *server.Server
}

// NewHandler constructs a base Handler.
func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}

// handleForm is the shared execution pipeline for every form route.
//
// It centralizes:
//
// - method check and envelope selection
// - structured logging (with request context)
// - New Relic tracing attributes and error reporting
// - timing
// - response writing
func handleForm(c echo.Context, forms *service.FormService, form *service.Form) error {
	start := time.Now()

	// Errors from here on, panics included, render in the form's envelope.
	middleware.SetForm(c, form.Name, form.Envelope)

	if c.Request().Method != http.MethodPost {
		c.Response().Header().Set(echo.HeaderAllow, http.MethodPost)
		return errs.NewMethodNotAllowedError()
	}

	txn := newrelic.FromContext(c.Request().Context())
	if txn != nil {
		txn.AddAttribute("handler.name", c.Path())
	}

	logger := middleware.GetLogger(c).With().
		Str("operation", "submit").
		Str("form", form.Name).
		Logger()

	logger.Debug().Msg("handling submission")

	req := service.Request{
		Origin:     c.Request().Header.Get(echo.HeaderOrigin),
		SelfOrigin: c.Scheme() + "://" + c.Request().Host,
		ClientID:   clientID(c.Request()),
		Body:       c.Request().Body,
	}

	ctx := logger.WithContext(c.Request().Context())
	if err := forms.Submit(ctx, form, req); err != nil {
		duration := time.Since(start)

		logger.Debug().
			Err(err).
			Dur("total_duration", duration).
			Msg("submission rejected")

		if txn != nil {
			txn.AddAttribute("handler.status", "error")
			txn.AddAttribute("total.duration_ms", duration.Milliseconds())
		}
		return err
	}

	duration := time.Since(start)
	if txn != nil {
		txn.AddAttribute("handler.status", "success")
		txn.AddAttribute("total.duration_ms", duration.Milliseconds())
	}

	logger.Info().
		Dur("total_duration", duration).
		Msg("submission completed successfully")

	return c.JSON(http.StatusOK, form.Envelope.SuccessBody())
}

// clientID is the first X-Forwarded-For entry. The edge proxy appends
// to that header, so the first entry is the address the proxy saw.
func clientID(r *http.Request) string {
	forwarded := r.Header.Get(echo.HeaderXForwardedFor)
	first, _, _ := strings.Cut(forwarded, ",")
	if first = strings.TrimSpace(first); first != "" {
		return first
	}
	return ratelimit.UnknownClient
}
