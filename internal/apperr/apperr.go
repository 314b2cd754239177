package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Kind classifies a failure for the HTTP boundary
type Kind int

const (
	KindInternal Kind = iota
	KindBadRequest
	KindRateLimited
	KindProvider
	KindEmptyResult
)

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindRateLimited:
		return "rate_limited"
	case KindProvider:
		return "provider_error"
	case KindEmptyResult:
		return "empty_result"
	default:
		return "internal"
	}
}

// Error is a classified failure carrying a user-facing message
type Error struct {
	Kind       Kind
	Code       string
	Message    string
	RetryAfter time.Duration
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StatusCode maps the error kind to an HTTP status
func (e *Error) StatusCode() int {
	switch e.Kind {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func BadRequest(code, message string) *Error {
	return &Error{Kind: KindBadRequest, Code: code, Message: message}
}

func RateLimited(message string, retryAfter time.Duration) *Error {
	return &Error{Kind: KindRateLimited, Code: "ERR_RATE_LIMITED", Message: message, RetryAfter: retryAfter}
}

func Provider(message string) *Error {
	return &Error{Kind: KindProvider, Code: "ERR_PROVIDER", Message: message}
}

func EmptyResult(message string) *Error {
	return &Error{Kind: KindEmptyResult, Code: "ERR_EMPTY_RESULT", Message: message}
}

func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Code: "ERR_INTERNAL", Message: message, Err: err}
}

// As extracts a classified error from err's chain, or wraps it as internal
func As(err error, fallbackMessage string) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Internal(fallbackMessage, err)
}
