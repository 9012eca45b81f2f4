package klaviyo

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/lexfrei/go-klaviyo/apierror"
	"github.com/lexfrei/go-klaviyo/observability"
)

const (
	// DefaultMaxRetries is the default number of retries after the first attempt.
	DefaultMaxRetries = 3
	// DefaultRetryWaitTime is the default initial wait between retries.
	DefaultRetryWaitTime = 1 * time.Second
	// DefaultRetryMaxElapsed bounds the total time spent retrying.
	DefaultRetryMaxElapsed = 5 * time.Minute
)

// RetryConfig configures Retry. Zero values select the defaults.
type RetryConfig struct {
	// MaxRetries is the number of retries after the first attempt. Negative disables retries.
	MaxRetries int

	// InitialWait is the first exponential backoff interval.
	InitialWait time.Duration

	// MaxElapsed bounds the total time spent, waits included.
	MaxElapsed time.Duration

	// Endpoint labels retry metrics and logs.
	Endpoint string

	Logger  observability.Logger
	Metrics observability.MetricsRecorder
}

// Retry runs op until it succeeds or fails permanently. Rate limited errors
// wait for their RetryAfter hint (or back off exponentially without one).
// Transport errors and API errors with a 5xx status back off exponentially.
// Every other error is returned at once. The last error from op is returned
// when retries run out.
//
// Requests are never retried implicitly; wrap calls explicitly:
//
//	result, err := klaviyo.Retry(ctx, klaviyo.RetryConfig{}, func(ctx context.Context) (*klaviyo.Result, error) {
//	    return client.Lists().GetLists(ctx)
//	})
func Retry(ctx context.Context, cfg RetryConfig, op func(context.Context) (*Result, error)) (*Result, error) {
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.InitialWait <= 0 {
		cfg.InitialWait = DefaultRetryWaitTime
	}
	if cfg.MaxElapsed <= 0 {
		cfg.MaxElapsed = DefaultRetryMaxElapsed
	}
	if cfg.Logger == nil {
		cfg.Logger = observability.NoopLogger()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = observability.NoopMetricsRecorder()
	}

	tries := uint(1)
	if cfg.MaxRetries > 0 {
		tries += uint(cfg.MaxRetries)
	}

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = cfg.InitialWait

	var last error
	operation := func() (*Result, error) {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		last = err

		if !apierror.IsRetryable(err) || ctx.Err() != nil {
			return nil, backoff.Permanent(err)
		}
		if wait, ok := apierror.RetryAfter(err); ok && wait > 0 {
			return nil, backoff.RetryAfter(int(wait / time.Second))
		}
		return nil, err
	}

	attempt := 0
	notify := func(_ error, next time.Duration) {
		attempt++
		cfg.Metrics.RecordRetry(attempt, cfg.Endpoint)
		cfg.Logger.Debug("retrying request",
			observability.F("endpoint", cfg.Endpoint),
			observability.F("attempt", attempt),
			observability.F("wait", next),
			observability.F("error", last),
		)
	}

	result, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(expBackoff),
		backoff.WithMaxTries(tries),
		backoff.WithMaxElapsedTime(cfg.MaxElapsed),
		backoff.WithNotify(notify),
	)
	if err != nil {
		if ctx.Err() == nil && last != nil {
			return nil, last
		}
		return nil, err //nolint:wrapcheck // context cause or last error from op
	}

	return result, nil
}
