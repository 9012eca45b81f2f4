// Package testutil provides common testing utilities and helpers.
package testutil

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexfrei/go-klaviyo/apierror"
)

// Recorded is a request captured by a mock server, body included.
type Recorded struct {
	Method string
	Path   string
	Query  map[string][]string
	Header http.Header
	Body   []byte
}

// Recorder captures every request a mock server receives.
type Recorder struct {
	mu       sync.Mutex
	requests []Recorded
}

// Requests returns a copy of the captured requests.
func (r *Recorder) Requests() []Recorded {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]Recorded(nil), r.requests...)
}

// Last returns the most recent request or fails the test.
func (r *Recorder) Last(t *testing.T) Recorded {
	t.Helper()

	reqs := r.Requests()
	require.NotEmpty(t, reqs, "no request recorded")

	return reqs[len(reqs)-1]
}

func (r *Recorder) record(req *http.Request) {
	body, _ := io.ReadAll(req.Body)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.requests = append(r.requests, Recorded{
		Method: req.Method,
		Path:   req.URL.Path,
		Query:  req.URL.Query(),
		Header: req.Header.Clone(),
		Body:   body,
	})
}

// NewMockServer creates a test HTTP server that records requests and answers
// every one of them with statusCode and responseBody.
func NewMockServer(t *testing.T, responseBody string, statusCode int) (*httptest.Server, *Recorder) {
	t.Helper()

	rec := &Recorder{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.record(r)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		_, err := w.Write([]byte(responseBody))
		assert.NoError(t, err, "Failed to write response body")
	}))
	t.Cleanup(server.Close)

	return server, rec
}

// NewMockServerMulti creates a test HTTP server with multiple path handlers.
// The handlers map keys are URL paths, values are handler functions.
func NewMockServerMulti(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handler, ok := handlers[r.URL.Path]
		if !ok {
			t.Errorf("Unexpected request path: %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
			return
		}
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	return server
}

// Response is one canned answer of NewMockServerSequence.
type Response struct {
	Body       string
	StatusCode int
	Header     map[string]string
}

// NewMockServerSequence creates a test server that returns responses in sequence.
// Useful for testing retry logic.
func NewMockServerSequence(t *testing.T, responses []Response) (*httptest.Server, *Recorder) {
	t.Helper()

	rec := &Recorder{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.record(r)

		n := len(rec.Requests())
		if n > len(responses) {
			t.Errorf("More requests than configured responses (got %d requests, have %d responses)",
				n, len(responses))
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		resp := responses[n-1]
		for k, v := range resp.Header {
			w.Header().Set(k, v)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(resp.StatusCode)
		_, err := w.Write([]byte(resp.Body))
		assert.NoError(t, err, "Failed to write response body")
	}))
	t.Cleanup(server.Close)

	return server, rec
}

// AssertV2Auth checks the v2 api-key header.
func AssertV2Auth(t *testing.T, req Recorded, privateKey string) {
	t.Helper()

	assert.Equal(t, privateKey, req.Header.Get("api-key"), "api-key header")
	assert.NotContains(t, req.Query, "api_key", "v2 must not put the key in the query")
}

// AssertV1Auth checks the v1 api_key query parameter.
func AssertV1Auth(t *testing.T, req Recorded, privateKey string) {
	t.Helper()

	assert.Equal(t, []string{privateKey}, req.Query["api_key"], "api_key query parameter")
	assert.Empty(t, req.Header.Get("api-key"), "v1 must not send the api-key header")
}

// DecodePublicData decodes the base64 JSON "data" parameter of a public request.
func DecodePublicData(t *testing.T, req Recorded) map[string]any {
	t.Helper()

	require.Len(t, req.Query["data"], 1, "data query parameter")

	raw, err := base64.StdEncoding.DecodeString(req.Query["data"][0])
	require.NoError(t, err)

	var data map[string]any
	require.NoError(t, json.Unmarshal(raw, &data))

	return data
}

// RequireKind checks that err is an *apierror.Error of the given kind.
func RequireKind(t *testing.T, err error, kind apierror.Kind) *apierror.Error {
	t.Helper()

	var apiErr *apierror.Error
	require.True(t, errors.As(err, &apiErr), "want *apierror.Error, got %T: %v", err, err)
	require.Equal(t, kind, apiErr.Kind, "error kind (%v)", err)

	return apiErr
}
