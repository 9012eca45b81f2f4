// Package retry extracts retry hints from rate limited responses.
package retry

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// MaxWait caps every retry hint. Larger hints are treated as MaxWait.
const MaxWait = 24 * time.Hour

const maxWaitSeconds = int(MaxWait / time.Second)

// Wait converts a hint in seconds to a duration in [0, MaxWait].
func Wait(seconds int) time.Duration {
	if seconds <= 0 {
		return 0
	}
	if seconds > maxWaitSeconds {
		return MaxWait
	}

	return time.Duration(seconds) * time.Second
}

// ShouldRetry returns true if the HTTP status code indicates a retryable error.
// Retryable errors include:
//   - 429 (Too Many Requests) - rate limit exceeded
//   - 5xx (Server Errors) - temporary server-side issues
func ShouldRetry(statusCode int) bool {
	return statusCode >= 500 || statusCode == 429
}

// SecondsFromDetail returns the first positive integer token of a free text
// message such as "Request was throttled. Expected available in 5 seconds.".
// A token counts when it starts with digits; trailing characters are ignored.
// Values above MaxWait, including ones that overflow int, are capped.
// Returns 0 when no such token exists.
func SecondsFromDetail(detail string) int {
	for _, field := range strings.Fields(detail) {
		end := 0
		for end < len(field) && field[end] >= '0' && field[end] <= '9' {
			end++
		}
		if end == 0 {
			continue
		}

		n, err := strconv.Atoi(field[:end])
		if errors.Is(err, strconv.ErrRange) || n > maxWaitSeconds {
			return maxWaitSeconds
		}
		if err == nil && n > 0 {
			return n
		}
	}

	return 0
}

// ParseRetryAfter parses the Retry-After HTTP header and returns the duration to wait.
// Both delta-seconds and HTTP-date forms are accepted. Dates in the past and
// garbage return 0; the result never exceeds MaxWait.
func ParseRetryAfter(retryAfterHeader string) time.Duration {
	value := strings.TrimSpace(retryAfterHeader)
	if value == "" {
		return 0
	}

	seconds, err := strconv.Atoi(value)
	if errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(value, "-") {
		return MaxWait
	}
	if err == nil {
		return Wait(seconds)
	}

	date, err := http.ParseTime(value)
	if err != nil {
		return 0
	}

	wait := time.Until(date)
	if wait <= 0 {
		return 0
	}

	return min(wait, MaxWait)
}
