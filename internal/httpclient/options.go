package httpclient

import (
	"net/http"
	"time"
)

// Option is a functional option for configuring the HTTP client.
type Option func(*Client)

// WithHTTPClient uses a copy of client as the underlying http.Client, so
// wrapping its transport never alters the caller's value. A zero Timeout
// is replaced by DefaultTimeout.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client == nil {
			return
		}
		clone := *client
		if clone.Timeout == 0 {
			clone.Timeout = DefaultTimeout
		}
		c.base = &clone
	}
}

// WithTimeout sets the request timeout. Zero keeps the current value.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.base.Timeout = timeout
		}
	}
}

// WithTransport sets the HTTP transport.
// If middleware is also configured, the transport will be wrapped.
func WithTransport(transport http.RoundTripper) Option {
	return func(c *Client) {
		c.base.Transport = transport
	}
}

// WithMiddleware adds middleware to the client.
// The first middleware in the slice becomes the outermost layer:
//
//	WithMiddleware(A, B, C) creates chain: A(B(C(transport)))
//	Request flow: A -> B -> C -> transport -> server
//
// Put outer concerns such as logging first and pacing after them.
func WithMiddleware(middleware ...Middleware) Option {
	return func(c *Client) {
		c.middleware = append(c.middleware, middleware...)
	}
}
