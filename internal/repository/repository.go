// Package repository handles all interactions with the external record stores.
//
// Accepted submissions are persisted by third-party services only: one row
// per submission in a tabular store (Airtable), or one member upsert in an
// audience list (Mailchimp). Each store is a RecordWriter so the form
// pipeline does not care which one it is writing to.
package repository

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/deppfellow/go-forms/internal/lib/utils"
	"github.com/deppfellow/go-forms/internal/metrics"
)

// maxErrorBody caps how much of an upstream error body is kept.
const maxErrorBody = 2048

// Record maps store field labels (e.g. "Full Name") to sanitized values.
type Record map[string]any

// RecordWriter persists one accepted submission.
type RecordWriter interface {
	Create(ctx context.Context, record Record) error
}

// UpstreamError is returned when a store answers with a non-2xx status.
type UpstreamError struct {
	Target string
	Status int
	Body   string
	// URL is the request URL with account identifiers redacted.
	URL string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s responded %d", e.Target, e.Status)
}

// do sends req and turns any non-2xx answer into an *UpstreamError.
// redactedURL is what ends up in errors; the real URL never leaves this function.
func do(client *http.Client, req *http.Request, target, redactedURL string) error {
	start := time.Now()
	res, err := client.Do(req)
	metrics.UpstreamDuration.WithLabelValues(target).Observe(time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("%s request to %s failed: %w", target, redactedURL, redactTransportError(err, req.URL.String(), redactedURL))
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		return &UpstreamError{
			Target: target,
			Status: res.StatusCode,
			Body:   strings.TrimSpace(string(body)),
			URL:    redactedURL,
		}
	}

	_, _ = io.Copy(io.Discard, res.Body)
	return nil
}

type redactedError struct {
	msg   string
	cause error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.cause }

// redactTransportError strips the raw URL that net/http embeds in *url.Error.
func redactTransportError(err error, rawURL, redactedURL string) error {
	msg := err.Error()
	if !strings.Contains(msg, rawURL) {
		return err
	}
	return &redactedError{msg: strings.ReplaceAll(msg, rawURL, redactedURL), cause: err}
}

// redactURL is a small convenience over utils.RedactAll for URLs.
func redactURL(raw string, identifiers ...string) string {
	return utils.RedactAll(raw, identifiers...)
}
