package errs

import (
	"net/http"
	"time"
)

// NewForbiddenError creates a 403 for a cross-origin submission.
func NewForbiddenError(message string) *HTTPError {
	return &HTTPError{
		Code:    CodeForbidden,
		Message: message,
		Status:  http.StatusForbidden,
	}
}

// NewMisconfiguredError creates a 500 naming the configuration keys that are absent.
func NewMisconfiguredError(missing []string) *HTTPError {
	return &HTTPError{
		Code:    CodeMisconfigured,
		Message: "Server misconfigured",
		Status:  http.StatusInternalServerError,
		Missing: missing,
	}
}

// NewMalformedInputError creates a 400 for a body that could not be parsed.
func NewMalformedInputError(cause error) *HTTPError {
	return &HTTPError{
		Code:    CodeMalformedInput,
		Message: "Invalid JSON body",
		Status:  http.StatusBadRequest,
		cause:   cause,
	}
}

// NewInvalidFieldError creates a 400 naming the first field that failed validation.
func NewInvalidFieldError(field, message string) *HTTPError {
	return &HTTPError{
		Code:    CodeInvalidField,
		Message: message,
		Status:  http.StatusBadRequest,
		Field:   field,
	}
}

// NewRateLimitedError creates a 429.
func NewRateLimitedError(retryAfter time.Duration) *HTTPError {
	return &HTTPError{
		Code:       CodeRateLimited,
		Message:    "Too many requests. Please try again later.",
		Status:     http.StatusTooManyRequests,
		RetryAfter: retryAfter,
	}
}

// NewUpstreamError creates a 502 for a failed authoritative write.
// detail is only rendered by endpoints that expose upstream detail.
func NewUpstreamError(message, detail string, cause error) *HTTPError {
	return &HTTPError{
		Code:    CodeUpstreamFailure,
		Message: message,
		Status:  http.StatusBadGateway,
		Detail:  detail,
		cause:   cause,
	}
}

// NewMethodNotAllowedError creates a 405.
func NewMethodNotAllowedError() *HTTPError {
	return &HTTPError{
		Code:    CodeMethodNotAllowed,
		Message: "Method not allowed",
		Status:  http.StatusMethodNotAllowed,
	}
}

// NewNotFoundError creates a 404.
func NewNotFoundError(message string) *HTTPError {
	return &HTTPError{
		Code:    CodeNotFound,
		Message: message,
		Status:  http.StatusNotFound,
	}
}

// NewInternalServerError creates a 500 for anything unexpected.
//
// The message is the generic status text; the cause only goes to logs.
func NewInternalServerError(cause error) *HTTPError {
	return &HTTPError{
		Code:    CodeUnexpected,
		Message: "Internal server error",
		Status:  http.StatusInternalServerError,
		cause:   cause,
	}
}
