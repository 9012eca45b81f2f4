// Package httpclient provides the HTTP transport: a middleware-chained client
// that executes wire requests and returns raw responses.
package httpclient

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/lexfrei/go-klaviyo/apierror"
	"github.com/lexfrei/go-klaviyo/internal/redact"
	"github.com/lexfrei/go-klaviyo/internal/request"
)

// DefaultTimeout bounds every request, including reading the body.
const DefaultTimeout = 30 * time.Second

// Client is an HTTP client that supports middleware chaining.
type Client struct {
	base       *http.Client
	middleware []Middleware
}

// Middleware wraps an http.RoundTripper to add behavior.
// Middleware is applied in order: first middleware is outermost.
type Middleware func(http.RoundTripper) http.RoundTripper

// RawResponse is an unclassified HTTP response with its body fully read.
type RawResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// New creates a new HTTP client with the given options.
func New(opts ...Option) *Client {
	c := &Client{
		base: &http.Client{
			Timeout: DefaultTimeout,
		},
		middleware: []Middleware{},
	}

	for _, opt := range opts {
		opt(c)
	}

	if len(c.middleware) > 0 {
		transport := c.base.Transport
		if transport == nil {
			transport = http.DefaultTransport
		}

		// Apply middleware in reverse order so first middleware is outermost
		for i := len(c.middleware) - 1; i >= 0; i-- {
			transport = c.middleware[i](transport)
		}

		c.base.Transport = transport
	}

	return c
}

// Execute sends w and reads the whole response body.
// Every failure is an *apierror.Error of KindTransport (or KindConfiguration
// for a malformed request). No retry is attempted.
func (c *Client) Execute(ctx context.Context, w *request.WireRequest) (*RawResponse, error) {
	req, err := w.HTTPRequest(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := c.base.Do(req)
	if err != nil {
		return nil, transportError(ctx, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(ctx, err)
	}

	return &RawResponse{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

// transportError classifies err and strips credentials from any URL it carries.
func transportError(ctx context.Context, err error) error {
	cause := sanitize(err)

	var netErr net.Error
	switch {
	case errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled):
		return apierror.Transport("request cancelled", cause)
	case errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr) && netErr.Timeout():
		return apierror.Transport("request timed out", cause)
	default:
		return apierror.Transport("request failed", cause)
	}
}

func sanitize(err error) error {
	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		return err
	}

	clean := *urlErr
	clean.URL = redact.URL(urlErr.URL)
	return &clean
}
