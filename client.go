package klaviyo

import (
	"context"
	"crypto/tls"
	"net/http"
	"net/url"
	"time"

	"github.com/lexfrei/go-klaviyo/apierror"
	"github.com/lexfrei/go-klaviyo/internal/auth"
	"github.com/lexfrei/go-klaviyo/internal/httpclient"
	"github.com/lexfrei/go-klaviyo/internal/middleware"
	"github.com/lexfrei/go-klaviyo/internal/ratelimit"
	"github.com/lexfrei/go-klaviyo/internal/request"
	"github.com/lexfrei/go-klaviyo/internal/response"
	"github.com/lexfrei/go-klaviyo/observability"
)

const (
	// DefaultBaseURL is the root of every API generation.
	DefaultBaseURL = "https://a.klaviyo.com/api"

	// DefaultTimeout bounds each request, body included.
	DefaultTimeout = httpclient.DefaultTimeout

	// PublicRateLimit is the default client-side rate for public endpoints (requests per minute).
	PublicRateLimit = ratelimit.DefaultPublicPerMinute
	// V1RateLimit is the default client-side rate for v1 endpoints (requests per minute).
	V1RateLimit = ratelimit.DefaultV1PerMinute
	// V2RateLimit is the default client-side rate for v2 endpoints (requests per minute).
	V2RateLimit = ratelimit.DefaultV2PerMinute

	v1Prefix = "v1"
	v2Prefix = "v2"
)

// Client is a Klaviyo API client. It is safe for concurrent use.
type Client struct {
	baseURL string
	auth    *auth.Authenticator
	http    *httpclient.Client
	logger  observability.Logger
	metrics observability.MetricsRecorder

	public      *PublicService
	lists       *ListsService
	profiles    *ProfilesService
	metricsAPI  *MetricsService
	templates   *TemplatesService
	dataPrivacy *DataPrivacyService
}

// Compile-time check to ensure Client implements API.
var _ API = (*Client)(nil)

// ClientConfig holds configuration for the Klaviyo API client.
type ClientConfig struct {
	// PublicKey is the public (site) key used by track and identify.
	PublicKey string

	// PrivateKey is the private API key used by v1 and v2 endpoints.
	PrivateKey string

	// BaseURL is the API root (defaults to https://a.klaviyo.com/api)
	BaseURL string

	// HTTPClient is the HTTP client to use (optional). It is copied, never modified.
	HTTPClient *http.Client

	// Timeout sets the HTTP client timeout. Zero keeps the timeout of HTTPClient,
	// or 30 seconds when HTTPClient is nil or has none.
	Timeout time.Duration

	// TLSConfig overrides the TLS settings of the base transport (optional)
	TLSConfig *tls.Config

	// PublicRateLimitPerMinute paces public requests. Zero uses the default, negative disables.
	PublicRateLimitPerMinute int

	// V1RateLimitPerMinute paces v1 requests. Zero uses the default, negative disables.
	V1RateLimitPerMinute int

	// V2RateLimitPerMinute paces v2 requests. Zero uses the default, negative disables.
	V2RateLimitPerMinute int

	// Logger for observability (optional, uses noop logger if nil)
	Logger observability.Logger

	// Metrics recorder for observability (optional, uses noop recorder if nil)
	Metrics observability.MetricsRecorder
}

// New creates a client with default settings. Either key may be empty when
// the corresponding generation is not used; requests that need a missing key
// fail with a configuration error.
//
// Example:
//
//	client, err := klaviyo.New("PUBLIC_KEY", "pk_private")
func New(publicKey, privateKey string) (*Client, error) {
	return NewWithConfig(&ClientConfig{
		PublicKey:  publicKey,
		PrivateKey: privateKey,
	})
}

// NewWithConfig creates a client with custom configuration. cfg is not modified.
//
// The middleware chain, from outside in, is Observability -> RateLimit -> TLS.
//
// Example:
//
//	client, err := klaviyo.NewWithConfig(&klaviyo.ClientConfig{
//	    PrivateKey:           "pk_private",
//	    V2RateLimitPerMinute: 300,
//	    Logger:               observability.NewZapLogger(zapLogger),
//	})
func NewWithConfig(cfg *ClientConfig) (*Client, error) {
	if cfg == nil {
		return nil, apierror.Configurationf("config is required")
	}
	if cfg.PublicKey == "" && cfg.PrivateKey == "" {
		return nil, apierror.Configurationf("a public or private key is required")
	}

	c := *cfg
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if u, err := url.Parse(c.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, apierror.Configurationf("invalid base URL %q", c.BaseURL)
	}
	if c.Timeout == 0 && c.HTTPClient == nil {
		c.Timeout = DefaultTimeout
	}
	if c.Logger == nil {
		c.Logger = observability.NoopLogger()
	}
	if c.Metrics == nil {
		c.Metrics = observability.NoopMetricsRecorder()
	}

	selector := middleware.GenerationSelector(
		ratelimit.NewRateLimiter(ratelimit.Resolve(c.PublicRateLimitPerMinute, PublicRateLimit)),
		ratelimit.NewRateLimiter(ratelimit.Resolve(c.V1RateLimitPerMinute, V1RateLimit)),
		ratelimit.NewRateLimiter(ratelimit.Resolve(c.V2RateLimitPerMinute, V2RateLimit)),
	)

	chain := []httpclient.Middleware{
		middleware.Observability(c.Logger, c.Metrics),
		middleware.RateLimit(middleware.RateLimitConfig{
			Selector: selector,
			Logger:   c.Logger,
			Metrics:  c.Metrics,
		}),
	}
	if c.TLSConfig != nil {
		chain = append(chain, middleware.TLSConfig(c.TLSConfig))
	}

	httpClient := httpclient.New(
		httpclient.WithHTTPClient(c.HTTPClient),
		httpclient.WithTimeout(c.Timeout),
		httpclient.WithMiddleware(chain...),
	)

	client := &Client{
		baseURL: c.BaseURL,
		auth: auth.NewAuthenticator(auth.Credentials{
			PublicKey:  c.PublicKey,
			PrivateKey: c.PrivateKey,
		}, UserAgent()),
		http:    httpClient,
		logger:  c.Logger,
		metrics: c.Metrics,
	}

	client.public = &PublicService{client: client}
	client.lists = &ListsService{client: client}
	client.profiles = &ProfilesService{client: client}
	client.metricsAPI = &MetricsService{client: client}
	client.templates = &TemplatesService{client: client}
	client.dataPrivacy = &DataPrivacyService{client: client}

	return client, nil
}

// Public returns the track and identify endpoints.
func (c *Client) Public() *PublicService { return c.public }

// Lists returns the list and segment endpoints.
func (c *Client) Lists() *ListsService { return c.lists }

// Profiles returns the person endpoints.
func (c *Client) Profiles() *ProfilesService { return c.profiles }

// Metrics returns the metric and timeline endpoints.
func (c *Client) Metrics() *MetricsService { return c.metricsAPI }

// Templates returns the email template endpoints.
func (c *Client) Templates() *TemplatesService { return c.templates }

// DataPrivacy returns the data privacy endpoints.
func (c *Client) DataPrivacy() *DataPrivacyService { return c.dataPrivacy }

// PublicRequest sends a GET to a public endpoint such as "track". The public
// key and query are sent base64 encoded in the "data" parameter. The raw body
// is returned undecoded.
func (c *Client) PublicRequest(ctx context.Context, path string, query Params) (*Result, error) {
	return c.do(ctx, auth.Public, request.Descriptor{
		Method: http.MethodGet,
		Path:   path,
		Query:  request.Filter(query),
	})
}

// RequestV1 sends a request to a v1 endpoint with the private key as the
// api_key query parameter. An empty method means GET; opts may be nil.
func (c *Client) RequestV1(ctx context.Context, method, path string, opts *Options) (*Result, error) {
	return c.do(ctx, auth.PrivateV1, opts.descriptor(method, v1Prefix+"/"+path))
}

// RequestV2 sends a request to a v2 endpoint with the private key in the
// api-key header. An empty method means GET; opts may be nil.
func (c *Client) RequestV2(ctx context.Context, method, path string, opts *Options) (*Result, error) {
	return c.do(ctx, auth.PrivateV2, opts.descriptor(method, v2Prefix+"/"+path))
}

func (c *Client) do(ctx context.Context, scheme auth.Scheme, d request.Descriptor) (*Result, error) {
	result, err := c.send(ctx, scheme, d)
	if err != nil {
		kind := apierror.KindOf(err)
		c.metrics.RecordError("request_"+scheme.String(), kind.String())
		c.logger.Debug("klaviyo request failed",
			observability.F("scheme", scheme.String()),
			observability.F("path", request.NormalizePath(d.Path)),
			observability.F("kind", kind.String()),
			observability.F("error", err),
		)
		return nil, err
	}

	return result, nil
}

func (c *Client) send(ctx context.Context, scheme auth.Scheme, d request.Descriptor) (*Result, error) {
	authed, err := c.auth.Apply(scheme, d)
	if err != nil {
		return nil, err //nolint:wrapcheck // already an *apierror.Error
	}

	wire, err := request.Build(c.baseURL, authed)
	if err != nil {
		return nil, err //nolint:wrapcheck // already an *apierror.Error
	}

	raw, err := c.http.Execute(ctx, wire)
	if err != nil {
		return nil, err //nolint:wrapcheck // already an *apierror.Error
	}

	//nolint:wrapcheck // Classify returns *apierror.Error
	return response.Classify(raw, scheme == auth.Public)
}
