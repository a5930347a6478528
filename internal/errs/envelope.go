package errs

import (
	"net/http"
	"strconv"
	"time"
)

// Envelope is the response body shape an endpoint has promised its clients.
type Envelope string

const (
	// EnvelopeOK answers {"ok":true} or {"error":"..."}.
	EnvelopeOK Envelope = "ok"
	// EnvelopeSuccess answers {"success":true} or {"success":false,"error":"..."}.
	EnvelopeSuccess Envelope = "success"
)

// SuccessBody is the body of a 200 response.
func (e Envelope) SuccessBody() map[string]any {
	if e == EnvelopeSuccess {
		return map[string]any{"success": true}
	}
	return map[string]any{"ok": true}
}

// ErrorBody is the body of a rejection. Missing and Detail are only added
// when set on the error.
func (e Envelope) ErrorBody(err *HTTPError) map[string]any {
	body := map[string]any{"error": err.Message}
	if e == EnvelopeSuccess {
		body["success"] = false
	}
	if len(err.Missing) > 0 {
		body["missing"] = err.Missing
	}
	if err.Detail != "" {
		body["detail"] = err.Detail
	}
	return body
}

// Headers returns extra response headers for e.
func (e *HTTPError) Headers() http.Header {
	h := http.Header{}
	if e.RetryAfter > 0 {
		seconds := int((e.RetryAfter + time.Second - 1) / time.Second)
		h.Set("Retry-After", strconv.Itoa(seconds))
	}
	return h
}
