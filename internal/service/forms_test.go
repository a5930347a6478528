package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/deppfellow/go-forms/internal/config"
	"github.com/deppfellow/go-forms/internal/errs"
	"github.com/deppfellow/go-forms/internal/lib/job"
	"github.com/deppfellow/go-forms/internal/ratelimit"
	"github.com/deppfellow/go-forms/internal/repository"
	"github.com/deppfellow/go-forms/internal/server"
	"github.com/deppfellow/go-forms/internal/validation"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	mu      sync.Mutex
	records []repository.Record
	err     error
}

func (f *fakeWriter) Create(_ context.Context, record repository.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, record)
	return nil
}

type fakeLimiter struct {
	decision ratelimit.Decision
	err      error
	keys     []string
}

func (f *fakeLimiter) Allow(_ context.Context, key string) (ratelimit.Decision, error) {
	f.keys = append(f.keys, key)
	return f.decision, f.err
}

func newTestFormService(t *testing.T) *FormService {
	t.Helper()
	logger := zerolog.Nop()
	srv, err := server.New(&config.Config{}, &logger, nil)
	require.NoError(t, err)
	return &FormService{server: srv}
}

func newTestForm(writer repository.RecordWriter) *Form {
	return &Form{
		Name:            "test",
		Envelope:        errs.EnvelopeSuccess,
		Honeypot:        "company",
		UpstreamMessage: "Failed",
		Rules:           []validation.Rule{validation.RequiredEmail("email")},
		Mappings:        []validation.Mapping{{Field: "email", Label: "Email", Kind: validation.KindText}},
		Missing:         func() []string { return nil },
		Writer:          writer,
	}
}

func submit(f *FormService, form *Form, body string, clientID string) error {
	return f.Submit(context.Background(), form, Request{
		ClientID: clientID,
		Body:     strings.NewReader(body),
	})
}

func TestSubmit_RateLimitFailsOpen(t *testing.T) {
	f := newTestFormService(t)
	writer := &fakeWriter{}
	limiter := &fakeLimiter{err: errors.New("redis: connection refused")}

	form := newTestForm(writer)
	form.RateLimited = true
	form.limiter = limiter

	require.NoError(t, submit(f, form, `{"email":"a@b.com"}`, ""))
	assert.Equal(t, []string{ratelimit.UnknownClient}, limiter.keys)
	assert.Len(t, writer.records, 1)
}

func TestSubmit_RateLimitedAfterValidation(t *testing.T) {
	f := newTestFormService(t)
	writer := &fakeWriter{}
	limiter := &fakeLimiter{decision: ratelimit.Decision{Allowed: false, Count: 6, Limit: 5}}

	form := newTestForm(writer)
	form.RateLimited = true
	form.limiter = limiter

	// Invalid submissions never reach the limiter.
	err := submit(f, form, `{"email":"nope"}`, "203.0.113.7")
	assert.ErrorIs(t, err, &errs.HTTPError{Code: errs.CodeInvalidField})
	assert.Empty(t, limiter.keys)

	err = submit(f, form, `{"email":"a@b.com"}`, "203.0.113.7")
	assert.ErrorIs(t, err, &errs.HTTPError{Code: errs.CodeRateLimited})
	assert.Equal(t, []string{"203.0.113.7"}, limiter.keys)
	assert.Empty(t, writer.records)
}

func TestSubmit_ConfigCheckedBeforeParse(t *testing.T) {
	f := newTestFormService(t)
	form := newTestForm(&fakeWriter{})
	form.Missing = func() []string { return []string{"FORMS_MAILCHIMP__LIST_ID"} }

	err := submit(f, form, `not json`, "")

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, errs.CodeMisconfigured, httpErr.Code)
	assert.Equal(t, []string{"FORMS_MAILCHIMP__LIST_ID"}, httpErr.Missing)
}

func TestSubmit_NotifiesOnlyAfterWrite(t *testing.T) {
	f := newTestFormService(t)
	writer := &fakeWriter{}

	var mu sync.Mutex
	var notified []string
	form := newTestForm(writer)
	form.Notify = func(sub Submission) []job.Task {
		return []job.Task{{Channel: "chat", Run: func(context.Context) error {
			mu.Lock()
			defer mu.Unlock()
			notified = append(notified, sub.Record["Email"].(string))
			return nil
		}}}
	}

	require.NoError(t, submit(f, form, `{"email":" a@b.com "}`, ""))
	f.server.Job.Wait()
	assert.Equal(t, []string{"a@b.com"}, notified)

	writer.err = &repository.UpstreamError{Target: "airtable", Status: 500, Body: "oops"}
	err := submit(f, form, `{"email":"c@d.com"}`, "")
	f.server.Job.Wait()

	assert.ErrorIs(t, err, &errs.HTTPError{Code: errs.CodeUpstreamFailure})
	assert.Equal(t, []string{"a@b.com"}, notified)
}

func TestSummary(t *testing.T) {
	form := &Form{Mappings: applicationMappings}
	record := repository.Record{
		"Full Name":           "Ada Lovelace",
		"Email":               "ada@example.com",
		"Fields":              []string{"Math", "Computing"},
		"Add to Mailing List": true,
	}

	got := summary("New community application", Submission{Form: form, Record: record})

	assert.Equal(t, strings.Join([]string{
		"New community application",
		"*Full Name:* Ada Lovelace",
		"*Email:* ada@example.com",
		"*Fields:* Math, Computing",
		"*Add to Mailing List:* Yes",
	}, "\n"), got)
}

func TestNotifierSkipsDisabledChannels(t *testing.T) {
	n := &notifier{}
	sub := Submission{
		Form:    &Form{Mappings: merchMappings},
		Payload: validation.Payload{"name": "Grace", "email": "g@h.io"},
		Record:  repository.Record{"Name": "Grace"},
	}

	assert.Empty(t, n.merch(sub))
	assert.Empty(t, n.application(sub))
}
