// Package ratelimit builds the client-side token buckets that pace requests
// per API generation.
package ratelimit

import "golang.org/x/time/rate"

// Default steady rates, in requests per minute.
const (
	DefaultPublicPerMinute = 700
	DefaultV1PerMinute     = 700
	DefaultV2PerMinute     = 700
)

// NewRateLimiter creates a new rate limiter with specified requests per minute.
// Tokens are replenished at requestsPerMinute/60 per second with a burst
// capacity equal to requestsPerMinute. A non-positive rate returns nil,
// which callers treat as "no limiting".
func NewRateLimiter(requestsPerMinute int) *rate.Limiter {
	if requestsPerMinute <= 0 {
		return nil
	}

	return rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), requestsPerMinute)
}

// Resolve maps a configured rate to an effective one: zero selects def,
// a negative value disables limiting.
func Resolve(configured, def int) int {
	switch {
	case configured == 0:
		return def
	case configured < 0:
		return 0
	default:
		return configured
	}
}
