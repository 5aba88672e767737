// Package httpx provides the shared HTTP-client infrastructure for
// talking to the comment store: a typed error taxonomy, exponential
// backoff retry, and structured request/response logging.
package httpx

import "fmt"

// ErrorType categorizes a failed API call.
type ErrorType int

const (
	ErrTypeAuthentication ErrorType = iota
	ErrTypeRateLimit
	ErrTypeServiceUnavailable
	ErrTypeInvalidRequest
	ErrTypeNotFound
	ErrTypeTimeout
	ErrTypeUnknown
)

// String returns a human-readable description of the error type.
func (e ErrorType) String() string {
	switch e {
	case ErrTypeAuthentication:
		return "authentication error"
	case ErrTypeRateLimit:
		return "rate limit exceeded"
	case ErrTypeServiceUnavailable:
		return "service unavailable"
	case ErrTypeInvalidRequest:
		return "invalid request"
	case ErrTypeNotFound:
		return "not found"
	case ErrTypeTimeout:
		return "timeout"
	default:
		return "unknown error"
	}
}

// Error is an API call failure with enough context to decide whether a
// retry is worthwhile.
type Error struct {
	Type       ErrorType
	Message    string
	StatusCode int
	Retryable  bool
	Service    string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s (status: %d)", e.Service, e.Type.String(), e.Message, e.StatusCode)
}

// Is matches errors of the same type, for use with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// IsRetryable reports whether retrying the call can succeed.
func (e *Error) IsRetryable() bool {
	return e.Retryable
}

// NewTimeoutError creates a timeout error; timeouts are always worth a
// retry.
func NewTimeoutError(service, message string) *Error {
	return &Error{
		Type:      ErrTypeTimeout,
		Message:   message,
		Retryable: true,
		Service:   service,
	}
}

// NewUnknownError creates a non-retryable catch-all error.
func NewUnknownError(service, message string) *Error {
	return &Error{
		Type:      ErrTypeUnknown,
		Message:   message,
		Retryable: false,
		Service:   service,
	}
}
