// Package response classifies raw HTTP responses into results or typed errors.
package response

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/lexfrei/go-klaviyo/apierror"
	"github.com/lexfrei/go-klaviyo/internal/httpclient"
	"github.com/lexfrei/go-klaviyo/internal/retry"
)

// Default details used when the error body carries none.
const (
	DetailInvalidAPIKey    = "Invalid API Key."
	DetailResourceNotFound = "The requested resource does not exist."
	DetailInvalidJSON      = "invalid JSON in response body"
)

// Result is a successful API response.
type Result struct {
	StatusCode int

	// Body is the raw response payload.
	Body []byte

	// Data is the decoded JSON body. An empty body decodes to an empty map.
	// It is nil for public requests, whose payload is not guaranteed to be JSON.
	Data any
}

// Map returns Data as a JSON object, or nil when it is something else.
func (r *Result) Map() map[string]any {
	m, _ := r.Data.(map[string]any)
	return m
}

// Decode unmarshals the raw body into v. An empty body leaves v untouched.
func (r *Result) Decode(v any) error {
	if len(bytes.TrimSpace(r.Body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return &apierror.Error{Kind: apierror.KindAPI, StatusCode: r.StatusCode, Detail: DetailInvalidJSON, Err: err}
	}
	return nil
}

// Classify turns raw into a *Result or an *apierror.Error.
//
//	403        -> KindAuth
//	404        -> KindNotFound
//	429        -> KindRateLimited with RetryAfter from the body detail
//	other !2xx -> KindAPI
//	2xx        -> Result (raw passthrough when public)
func Classify(raw *httpclient.RawResponse, public bool) (*Result, error) {
	status := raw.StatusCode

	switch {
	case status == http.StatusForbidden:
		return nil, apierror.New(apierror.KindAuth, status, detailOr(raw.Body, DetailInvalidAPIKey))

	case status == http.StatusNotFound:
		return nil, apierror.New(apierror.KindNotFound, status, detailOr(raw.Body, DetailResourceNotFound))

	case status == http.StatusTooManyRequests:
		detail := detailOr(raw.Body, "")
		seconds := retry.SecondsFromDetail(detail)
		if seconds == 0 {
			seconds = int(retry.ParseRetryAfter(raw.Header.Get("Retry-After")).Seconds())
		}
		if detail == "" {
			detail = "too many requests"
		}
		return nil, apierror.RateLimited(detail, seconds)

	case status < 200 || status >= 300:
		return nil, apierror.New(apierror.KindAPI, status,
			detailOr(raw.Body, fmt.Sprintf("request failed with status %d", status)))
	}

	result := &Result{StatusCode: status, Body: raw.Body}
	if public {
		return result, nil
	}

	data, err := decode(raw.Body)
	if err != nil {
		return nil, &apierror.Error{Kind: apierror.KindAPI, StatusCode: status, Detail: DetailInvalidJSON, Err: err}
	}
	result.Data = data

	return result, nil
}

// decode parses body as JSON; an empty body is an empty object.
func decode(body []byte) (any, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return map[string]any{}, nil
	}

	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, err //nolint:wrapcheck // wrapped by the caller into apierror
	}

	return data, nil
}

// detailOr extracts the "detail" string of a JSON error body, or returns fallback.
func detailOr(body []byte, fallback string) string {
	var payload struct {
		Detail any `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return fallback
	}

	switch d := payload.Detail.(type) {
	case string:
		if d != "" {
			return d
		}
	case nil:
	default:
		return fmt.Sprint(d)
	}

	return fallback
}
