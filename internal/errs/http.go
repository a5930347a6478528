package errs

import (
	"strings"
	"time"
)

// Machine-readable codes, one per rejection category.
const (
	CodeForbidden        = "FORBIDDEN"
	CodeMisconfigured    = "MISCONFIGURED"
	CodeMalformedInput   = "MALFORMED_INPUT"
	CodeInvalidField     = "INVALID_FIELD"
	CodeRateLimited      = "RATE_LIMITED"
	CodeUpstreamFailure  = "UPSTREAM_FAILURE"
	CodeUnexpected       = "UNEXPECTED"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	CodeNotFound         = "NOT_FOUND"
)

// HTTPError is the error type every handler returns for a rejected request.
//
// Only Message (and Missing / Detail when set) reach the client; Code and
// Field are for logs and tests.
type HTTPError struct {
	Code    string
	Message string
	Status  int

	// Field names the offending request field for INVALID_FIELD.
	Field string

	// Missing lists configuration keys (env var names, never values) for MISCONFIGURED.
	Missing []string

	// Detail is upstream error context, only rendered when an endpoint opts in.
	Detail string

	// RetryAfter is sent as the Retry-After header for RATE_LIMITED.
	RetryAfter time.Duration

	// cause is the underlying error, kept for logging.
	cause error
}

// Error makes *HTTPError satisfy the built-in `error` interface.
func (e *HTTPError) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

// Unwrap exposes the underlying cause to errors.Is / errors.As.
func (e *HTTPError) Unwrap() error {
	return e.cause
}

// Is reports whether target is an *HTTPError with the same Code.
func (e *HTTPError) Is(target error) bool {
	t, ok := target.(*HTTPError)
	return ok && t.Code == e.Code
}

// MakeUpperCaseWithUnderscores converts a string into an UPPER_CASE_WITH_UNDERSCORES format.
//
// Example:
//
//	"Bad Request" -> "BAD_REQUEST"
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
