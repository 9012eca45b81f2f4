// Package redact removes credentials from strings that may be logged or
// embedded in errors.
package redact

import (
	"net/url"
	"strings"
)

// Placeholder replaces every redacted value.
const Placeholder = "REDACTED"

// sensitiveParams are query parameters that carry secrets. data holds the
// base64 public-API payload, which embeds the public key and profile data.
var sensitiveParams = []string{"api_key", "data"}

// URL returns raw with the values of sensitive query parameters replaced.
// Unparseable input is reduced to its part before the query string.
func URL(raw string) string {
	i := strings.IndexByte(raw, '?')
	if i < 0 {
		return raw
	}

	query, err := url.ParseQuery(raw[i+1:])
	if err != nil {
		return raw[:i] + "?" + Placeholder
	}

	changed := false
	for _, name := range sensitiveParams {
		if _, ok := query[name]; ok {
			query[name] = []string{Placeholder}
			changed = true
		}
	}
	if !changed {
		return raw
	}

	return raw[:i] + "?" + query.Encode()
}
