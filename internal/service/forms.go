package service

import (
	"context"
	"fmt"
	"io"

	"github.com/deppfellow/go-forms/internal/errs"
	"github.com/deppfellow/go-forms/internal/lib/job"
	"github.com/deppfellow/go-forms/internal/metrics"
	"github.com/deppfellow/go-forms/internal/ratelimit"
	"github.com/deppfellow/go-forms/internal/repository"
	"github.com/deppfellow/go-forms/internal/server"
	"github.com/deppfellow/go-forms/internal/validation"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Form configures one instantiation of the submission pipeline.
type Form struct {
	// Name labels logs, metrics and rate limit keys.
	Name     string
	Envelope errs.Envelope

	// SameOrigin rejects requests whose Origin header names another site.
	SameOrigin bool
	// Honeypot is the hidden field that only bots fill in. Empty disables the check.
	Honeypot string
	// RateLimited enables the per-client submission window.
	RateLimited bool
	// ExposeUpstreamDetail adds upstream status and body to 502 responses.
	ExposeUpstreamDetail bool

	// UpstreamMessage is the client-facing message for a failed write.
	UpstreamMessage string

	Rules    []validation.Rule
	Mappings []validation.Mapping

	// Missing lists the configuration the form cannot work without.
	Missing func() []string
	Writer  repository.RecordWriter

	// Notify builds the best-effort side-channel work for an accepted submission.
	Notify func(sub Submission) []job.Task

	limiter ratelimit.Limiter
}

// Request is the transport-independent view of one submission attempt.
type Request struct {
	// Origin is the Origin header, SelfOrigin is scheme://host of the request.
	Origin     string
	SelfOrigin string
	ClientID   string
	Body       io.Reader
}

// Submission is an accepted, written submission.
type Submission struct {
	Form    *Form
	Payload validation.Payload
	Record  repository.Record
}

// Outcome label for submissions dropped by the honeypot.
const outcomeDiscarded = "DISCARDED"

// FormService runs the submission pipeline.
type FormService struct {
	server *server.Server

	Application     *Form
	Newsletter      *Form
	NewsletterNamed *Form
	Merch           *Form
}

// Forms returns every configured form.
func (f *FormService) Forms() []*Form {
	return []*Form{f.Application, f.Newsletter, f.NewsletterNamed, f.Merch}
}

// Submit runs the pipeline for one request: origin, configuration, parse,
// honeypot, validation, rate limit, sanitize, write, then notifications in
// the background. A nil error means the client gets a success body.
//
// Every rejection is an *errs.HTTPError.
func (f *FormService) Submit(ctx context.Context, form *Form, req Request) (err error) {
	outcome := "OK"
	defer func() {
		if err != nil {
			outcome = errs.CodeUnexpected
			var httpErr *errs.HTTPError
			if errors.As(err, &httpErr) {
				outcome = httpErr.Code
			}
		}
		metrics.SubmissionsTotal.WithLabelValues(form.Name, outcome).Inc()
	}()

	logger := zerolog.Ctx(ctx).With().Str("form", form.Name).Logger()

	if form.SameOrigin && req.Origin != "" && req.Origin != req.SelfOrigin {
		logger.Warn().Str("origin", req.Origin).Msg("cross-origin submission rejected")
		return errs.NewForbiddenError("Forbidden")
	}

	if missing := form.Missing(); len(missing) > 0 {
		logger.Error().Strs("missing", missing).Msg("form is not configured")
		return errs.NewMisconfiguredError(missing)
	}

	payload, err := validation.ParseBody(req.Body)
	if err != nil {
		return errs.NewMalformedInputError(err)
	}

	if form.Honeypot != "" && payload.Filled(form.Honeypot) {
		logger.Info().Str("client", req.ClientID).Msg("honeypot filled, submission discarded")
		outcome = outcomeDiscarded
		return nil
	}

	if err := validation.Check(payload, form.Rules); err != nil {
		return err
	}

	if form.RateLimited {
		if err := f.checkRate(ctx, &logger, form, req.ClientID); err != nil {
			return err
		}
	}

	record := repository.Record(validation.Sanitize(payload, form.Mappings))

	if err := form.Writer.Create(ctx, record); err != nil {
		return f.upstreamFailure(&logger, form, err)
	}

	logger.Info().Msg("submission recorded")

	if form.Notify != nil {
		f.server.Job.Dispatch(ctx, form.Name, form.Notify(Submission{
			Form:    form,
			Payload: payload,
			Record:  record,
		})...)
	}

	return nil
}

func (f *FormService) checkRate(ctx context.Context, logger *zerolog.Logger, form *Form, clientID string) error {
	if clientID == "" {
		clientID = ratelimit.UnknownClient
	}

	decision, err := form.limiter.Allow(ctx, clientID)
	if err != nil {
		// The window store is unavailable; let the submission through.
		logger.Error().Err(err).Msg("rate limiter unavailable")
		return nil
	}

	if !decision.Allowed {
		logger.Warn().
			Str("client", clientID).
			Int("count", decision.Count).
			Int("limit", decision.Limit).
			Msg("rate limit exceeded")
		return errs.NewRateLimitedError(decision.RetryAfter)
	}

	return nil
}

func (f *FormService) upstreamFailure(logger *zerolog.Logger, form *Form, err error) error {
	event := logger.Error().Err(err)

	detail := err.Error()
	var upstream *repository.UpstreamError
	if errors.As(err, &upstream) {
		event = event.
			Str("target", upstream.Target).
			Int("upstream_status", upstream.Status).
			Str("upstream_body", upstream.Body).
			Str("url", upstream.URL)
		detail = fmt.Sprintf("%d: %s", upstream.Status, upstream.Body)
	}
	event.Msg("record store write failed")

	if !form.ExposeUpstreamDetail || !f.server.Config.Newsletter.Debug {
		detail = ""
	}

	return errs.NewUpstreamError(form.UpstreamMessage, detail, err)
}
