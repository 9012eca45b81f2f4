package auth_test

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexfrei/go-klaviyo/apierror"
	"github.com/lexfrei/go-klaviyo/internal/auth"
	"github.com/lexfrei/go-klaviyo/internal/request"
)

const (
	testPublicKey  = "Test0A"
	testPrivateKey = "pk_test"
	testUserAgent  = "klaviyo-go/1.2.3"
)

func newAuthenticator() *auth.Authenticator {
	return auth.NewAuthenticator(auth.Credentials{
		PublicKey:  testPublicKey,
		PrivateKey: testPrivateKey,
	}, testUserAgent)
}

func TestPublicScheme(t *testing.T) {
	t.Parallel()

	got, err := newAuthenticator().Apply(auth.Public, request.Descriptor{})
	require.NoError(t, err)

	assert.Equal(t, []string{"data"}, got.Query.Keys())
	data, _ := got.Query.Get("data")
	assert.Equal(t, "eyJ0b2tlbiI6IlRlc3QwQSJ9", data)
	assert.Equal(t, http.MethodGet, got.Method)
	assert.Empty(t, got.Headers.Get("User-Agent"))
}

func TestPublicSchemeEmbedsQuery(t *testing.T) {
	t.Parallel()

	headers := http.Header{}
	headers.Set(auth.APIKeyHeader, "should-be-removed")

	in := request.Descriptor{
		Method:  http.MethodGet,
		Query:   request.NewParams("event", "Viewed Product", "properties", map[string]any{"sku": "A1"}),
		Headers: headers,
	}

	got, err := newAuthenticator().Apply(auth.Public, in)
	require.NoError(t, err)

	data, _ := got.Query.Get("data")
	decoded, err := base64.StdEncoding.DecodeString(data.(string))
	require.NoError(t, err)
	assert.Equal(t, `{"token":"Test0A","event":"Viewed Product","properties":{"sku":"A1"}}`, string(decoded))

	assert.Empty(t, got.Headers.Get(auth.APIKeyHeader))
	assert.Equal(t, "should-be-removed", in.Headers.Get(auth.APIKeyHeader), "input must not change")
	assert.Equal(t, 2, in.Query.Len(), "input must not change")
}

func TestPublicSchemeRejectsNonGET(t *testing.T) {
	t.Parallel()

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			t.Parallel()

			_, err := newAuthenticator().Apply(auth.Public, request.Descriptor{Method: method})
			require.Error(t, err)
			assert.True(t, errors.Is(err, apierror.ErrConfiguration))
		})
	}
}

func TestPublicSchemeRejectsBody(t *testing.T) {
	t.Parallel()

	_, err := newAuthenticator().Apply(auth.Public, request.Descriptor{JSON: map[string]any{"a": 1}})
	assert.True(t, errors.Is(err, apierror.ErrConfiguration))
}

func TestPublicSchemeRequiresPublicKey(t *testing.T) {
	t.Parallel()

	a := auth.NewAuthenticator(auth.Credentials{PrivateKey: testPrivateKey}, testUserAgent)
	_, err := a.Apply(auth.Public, request.Descriptor{})
	assert.True(t, errors.Is(err, apierror.ErrConfiguration))
}

func TestPrivateV1Scheme(t *testing.T) {
	t.Parallel()

	got, err := newAuthenticator().Apply(auth.PrivateV1, request.Descriptor{})
	require.NoError(t, err)

	assert.Equal(t, []string{"api_key"}, got.Query.Keys())
	key, _ := got.Query.Get("api_key")
	assert.Equal(t, testPrivateKey, key)
	assert.Contains(t, got.Headers.Get("User-Agent"), "1.2.3")
	assert.Empty(t, got.Headers.Get(auth.APIKeyHeader))
}

func TestPrivateV1SchemeMergesQuery(t *testing.T) {
	t.Parallel()

	in := request.Descriptor{Query: request.NewParams("count", 10, "api_key", "caller-value")}

	got, err := newAuthenticator().Apply(auth.PrivateV1, in)
	require.NoError(t, err)

	assert.Equal(t, []string{"count", "api_key"}, got.Query.Keys())
	key, _ := got.Query.Get("api_key")
	assert.Equal(t, testPrivateKey, key)
}

func TestPrivateV2Scheme(t *testing.T) {
	t.Parallel()

	in := request.Descriptor{
		Method: http.MethodPost,
		Query:  request.NewParams("marker", 5),
		JSON:   map[string]any{"list_name": "A"},
	}

	got, err := newAuthenticator().Apply(auth.PrivateV2, in)
	require.NoError(t, err)

	assert.Equal(t, testPrivateKey, got.Headers.Get("api-key"))
	assert.Equal(t, testUserAgent, got.Headers.Get("User-Agent"))
	assert.Equal(t, []string{"marker"}, got.Query.Keys())
	assert.Equal(t, in.JSON, got.JSON)
	assert.Nil(t, in.Headers, "input must not change")
}

func TestPrivateSchemesRequirePrivateKey(t *testing.T) {
	t.Parallel()

	a := auth.NewAuthenticator(auth.Credentials{PublicKey: testPublicKey}, testUserAgent)

	for _, scheme := range []auth.Scheme{auth.PrivateV1, auth.PrivateV2} {
		_, err := a.Apply(scheme, request.Descriptor{})
		assert.True(t, errors.Is(err, apierror.ErrConfiguration), scheme.String())
	}
}

func TestUnknownScheme(t *testing.T) {
	t.Parallel()

	_, err := newAuthenticator().Apply(auth.Scheme(99), request.Descriptor{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apierror.ErrConfiguration))
	assert.Contains(t, err.Error(), "scheme(99)")
}

func TestCredentialsAreMasked(t *testing.T) {
	t.Parallel()

	creds := auth.Credentials{PublicKey: testPublicKey, PrivateKey: testPrivateKey}

	for _, s := range []string{fmt.Sprint(creds), fmt.Sprintf("%v", creds), fmt.Sprintf("%+v", creds), fmt.Sprintf("%#v", creds)} {
		assert.NotContains(t, s, testPrivateKey)
		assert.NotContains(t, s, testPublicKey)
	}
}
