// Package auth attaches credential material to request descriptors.
//
// Three schemes exist, one per API generation:
//   - Public: the public key travels inside a base64 "data" query parameter.
//   - PrivateV1: the private key is sent as the "api_key" query parameter.
//   - PrivateV2: the private key is sent in the "api-key" header.
package auth

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/lexfrei/go-klaviyo/apierror"
	"github.com/lexfrei/go-klaviyo/internal/request"
)

// Wire names used by the schemes.
const (
	APIKeyHeader    = "api-key"
	APIKeyParam     = "api_key"
	DataParam       = "data"
	TokenParam      = "token"
	UserAgentHeader = "User-Agent"
)

// Scheme selects how credentials are attached.
type Scheme int

const (
	// Public embeds the public key in a base64 JSON "data" parameter.
	Public Scheme = iota + 1
	// PrivateV1 adds the private key as a query parameter.
	PrivateV1
	// PrivateV2 adds the private key as a header.
	PrivateV2
)

func (s Scheme) String() string {
	switch s {
	case Public:
		return "public"
	case PrivateV1:
		return "v1"
	case PrivateV2:
		return "v2"
	}

	return fmt.Sprintf("scheme(%d)", int(s))
}

// Credentials holds the account keys. Values are never printed.
type Credentials struct {
	PublicKey  string
	PrivateKey string
}

// String masks both keys so Credentials can't leak through fmt.
func (c Credentials) String() string {
	return fmt.Sprintf("Credentials{PublicKey:%s PrivateKey:%s}", mask(c.PublicKey), mask(c.PrivateKey))
}

// GoString masks both keys for %#v.
func (c Credentials) GoString() string {
	return c.String()
}

func mask(s string) string {
	if s == "" {
		return `""`
	}
	return "[REDACTED]"
}

// Authenticator applies a Scheme using a fixed set of credentials.
// It is immutable and safe for concurrent use.
type Authenticator struct {
	creds     Credentials
	userAgent string
}

// NewAuthenticator returns an Authenticator for creds. userAgent is sent on
// private requests.
func NewAuthenticator(creds Credentials, userAgent string) *Authenticator {
	return &Authenticator{creds: creds, userAgent: userAgent}
}

// Apply returns a copy of d with the credentials of scheme attached.
// d itself is not modified.
func (a *Authenticator) Apply(scheme Scheme, d request.Descriptor) (request.Descriptor, error) {
	out := d.Clone()

	switch scheme {
	case Public:
		return a.applyPublic(out)
	case PrivateV1:
		if a.creds.PrivateKey == "" {
			return request.Descriptor{}, apierror.Configurationf("private key is required for v1 requests")
		}
		out.Query = out.Query.Merge(request.NewParams(APIKeyParam, a.creds.PrivateKey))
		out.Headers.Set(UserAgentHeader, a.userAgent)
		return out, nil
	case PrivateV2:
		if a.creds.PrivateKey == "" {
			return request.Descriptor{}, apierror.Configurationf("private key is required for v2 requests")
		}
		out.Headers.Set(APIKeyHeader, a.creds.PrivateKey)
		out.Headers.Set(UserAgentHeader, a.userAgent)
		return out, nil
	}

	return request.Descriptor{}, apierror.Configurationf("unknown authentication scheme %s", scheme)
}

func (a *Authenticator) applyPublic(d request.Descriptor) (request.Descriptor, error) {
	if d.Method != "" && d.Method != http.MethodGet {
		return request.Descriptor{}, apierror.Configurationf("public requests must use GET, got %s", d.Method)
	}
	if d.HasBody() {
		return request.Descriptor{}, apierror.Configurationf("public requests cannot carry a request body")
	}
	if a.creds.PublicKey == "" {
		return request.Descriptor{}, apierror.Configurationf("public key is required for public requests")
	}

	d.Method = http.MethodGet
	d.Headers.Del(APIKeyHeader)

	payload := request.NewParams(TokenParam, a.creds.PublicKey).Merge(d.Query)

	raw, err := payload.MarshalJSON()
	if err != nil {
		return request.Descriptor{}, apierror.Configurationf("invalid public request parameters: %v", err)
	}

	d.Query = request.NewParams(DataParam, base64.StdEncoding.EncodeToString(bytes.TrimSpace(raw)))
	return d, nil
}
