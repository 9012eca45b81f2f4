package middleware

import (
	"crypto/tls"
	"net/http"
)

// TLSConfig returns a middleware that replaces the base transport with a clone
// carrying config. It must be the innermost layer: a next that is not an
// *http.Transport is swapped for a clone of http.DefaultTransport.
func TLSConfig(config *tls.Config) func(http.RoundTripper) http.RoundTripper {
	return func(next http.RoundTripper) http.RoundTripper {
		transport, ok := next.(*http.Transport)
		if !ok {
			defaultTransport, ok := http.DefaultTransport.(*http.Transport)
			if !ok {
				return next
			}
			transport = defaultTransport.Clone()
			transport.ForceAttemptHTTP2 = true
		} else {
			transport = transport.Clone()
		}

		transport.TLSClientConfig = config.Clone()

		return transport
	}
}
