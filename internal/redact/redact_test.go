package redact_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lexfrei/go-klaviyo/internal/redact"
)

func TestURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "no query",
			in:   "https://a.klaviyo.com/api/v2/lists",
			want: "https://a.klaviyo.com/api/v2/lists",
		},
		{
			name: "api key replaced",
			in:   "https://a.klaviyo.com/api/v1/metrics?page=1&api_key=pk_secret",
			want: "https://a.klaviyo.com/api/v1/metrics?api_key=REDACTED&page=1",
		},
		{
			name: "public data replaced",
			in:   "https://a.klaviyo.com/api/track?data=eyJ0b2tlbiI6IlRlc3QwQSJ9",
			want: "https://a.klaviyo.com/api/track?data=REDACTED",
		},
		{
			name: "query without secrets untouched",
			in:   "https://a.klaviyo.com/api/v1/metrics?page=1&count=50",
			want: "https://a.klaviyo.com/api/v1/metrics?page=1&count=50",
		},
		{
			name: "connection error with public data",
			in:   `Get "https://a.klaviyo.com/api/identify?data=eyJ0b2tlbiI6IlRlc3QwQSJ9": dial tcp: connection refused`,
			want: `Get "https://a.klaviyo.com/api/identify?data=REDACTED`,
		},
		{
			name: "malformed query dropped",
			in:   "https://a.klaviyo.com/api/v1/metrics?api_key=%zz",
			want: "https://a.klaviyo.com/api/v1/metrics?REDACTED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := redact.URL(tt.in)
			assert.Equal(t, tt.want, got)
			assert.NotContains(t, got, "pk_secret")
			assert.NotContains(t, got, "eyJ0b2tlbiI6")
		})
	}
}
