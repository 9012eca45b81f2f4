package apierror

import (
	"fmt"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/lexfrei/go-klaviyo/internal/retry"
)

// Kind classifies a failure.
type Kind int

const (
	// KindUnknown is reported by KindOf for errors not produced by this library.
	KindUnknown Kind = iota
	// KindConfiguration is caller misuse: bad scheme, method or body combination.
	KindConfiguration
	// KindAuth is an invalid or missing credential (HTTP 403).
	KindAuth
	// KindNotFound is a missing resource (HTTP 404).
	KindNotFound
	// KindRateLimited is HTTP 429; RetryAfter carries the server hint.
	KindRateLimited
	// KindAPI is any other non-2xx response, or an undecodable success body.
	KindAPI
	// KindTransport is a network failure, timeout or cancellation.
	KindTransport
)

// Sentinels matched by (*Error).Is.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrAuth          = errors.New("authentication error")
	ErrNotFound      = errors.New("resource not found")
	ErrRateLimited   = errors.New("rate limited")
	ErrAPI           = errors.New("api error")
	ErrTransport     = errors.New("transport error")
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindAuth:
		return "auth"
	case KindNotFound:
		return "not_found"
	case KindRateLimited:
		return "rate_limited"
	case KindAPI:
		return "api"
	case KindTransport:
		return "transport"
	case KindUnknown:
		return "unknown"
	}

	return fmt.Sprintf("kind(%d)", int(k))
}

func (k Kind) sentinel() error {
	switch k {
	case KindConfiguration:
		return ErrConfiguration
	case KindAuth:
		return ErrAuth
	case KindNotFound:
		return ErrNotFound
	case KindRateLimited:
		return ErrRateLimited
	case KindAPI:
		return ErrAPI
	case KindTransport:
		return ErrTransport
	case KindUnknown:
	}

	return nil
}

// Error is the single error type returned by the client.
type Error struct {
	Kind Kind

	// StatusCode is the HTTP status, zero when no response was received.
	StatusCode int

	// Detail is the human readable message, usually the "detail" field
	// of the error body.
	Detail string

	// RetryAfter is only set for KindRateLimited.
	RetryAfter time.Duration

	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	msg := "klaviyo " + e.Kind.String() + " error"
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel of e's Kind.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// New creates an error of the given kind.
func New(kind Kind, statusCode int, detail string) *Error {
	return &Error{Kind: kind, StatusCode: statusCode, Detail: detail}
}

// Configurationf creates a KindConfiguration error.
func Configurationf(format string, args ...any) *Error {
	return &Error{Kind: KindConfiguration, Detail: fmt.Sprintf(format, args...)}
}

// RateLimited creates a KindRateLimited error with a retry hint in seconds.
// The hint is capped at one day.
func RateLimited(detail string, retryAfterSeconds int) *Error {
	return &Error{
		Kind:       KindRateLimited,
		StatusCode: 429,
		Detail:     detail,
		RetryAfter: retry.Wait(retryAfterSeconds),
	}
}

// Transport wraps cause as a KindTransport error.
func Transport(detail string, cause error) *Error {
	return &Error{Kind: KindTransport, Detail: detail, Err: cause}
}

// KindOf returns the Kind of err, or KindUnknown.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}

	return KindUnknown
}

// RetryAfter returns the server supplied delay for a rate limited error.
// The boolean is false when err is not rate limited.
func RetryAfter(err error) (time.Duration, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Kind == KindRateLimited {
		return apiErr.RetryAfter, true
	}

	return 0, false
}

// IsRetryable reports whether a caller may reasonably retry after err.
// Rate limit and transport failures qualify, as do API errors with a 5xx status.
func IsRetryable(err error) bool {
	switch KindOf(err) {
	case KindRateLimited, KindTransport:
		return true
	case KindAPI:
		var apiErr *Error
		return errors.As(err, &apiErr) && retry.ShouldRetry(apiErr.StatusCode)
	case KindUnknown, KindConfiguration, KindAuth, KindNotFound:
	}

	return false
}
