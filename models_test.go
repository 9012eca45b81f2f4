package klaviyo_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	klaviyo "github.com/lexfrei/go-klaviyo"
	"github.com/lexfrei/go-klaviyo/apierror"
)

func TestProfileValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		profile *klaviyo.Profile
		wantErr bool
	}{
		{name: "email", profile: &klaviyo.Profile{Email: "a@b.c"}},
		{name: "id", profile: &klaviyo.Profile{ID: "u1"}},
		{name: "phone", profile: &klaviyo.Profile{PhoneNumber: "+15555550100"}},
		{name: "ios tokens", profile: &klaviyo.Profile{IOSTokens: []string{"tok"}}},
		{name: "no identifier", profile: &klaviyo.Profile{FirstName: "Bo", City: "Boston"}, wantErr: true},
		{name: "nil", profile: nil, wantErr: true},
		{
			name:    "special custom key",
			profile: &klaviyo.Profile{Email: "a@b.c", Custom: map[string]any{"$consent": "yes"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.profile.Validate()
			if tt.wantErr {
				assert.True(t, errors.Is(err, apierror.ErrConfiguration), "got %v", err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestProfileToParamsOrder(t *testing.T) {
	t.Parallel()

	profile := &klaviyo.Profile{
		Email:     "a@b.c",
		ID:        "u1",
		City:      "Boston",
		IOSTokens: []string{"tok"},
		Custom:    map[string]any{"zeta": 1, "alpha": true},
	}

	params := profile.ToParams()
	assert.Equal(t, []string{"$id", "$email", "$city", "$ios_tokens", "alpha", "zeta"}, params.Keys())

	raw, err := json.Marshal(params)
	require.NoError(t, err)
	assert.Equal(t, `{"$id":"u1","$email":"a@b.c","$city":"Boston","$ios_tokens":["tok"],"alpha":true,"zeta":1}`, string(raw))
}

func TestProfileFromMap(t *testing.T) {
	t.Parallel()

	profile, err := klaviyo.ProfileFromMap(map[string]any{
		"$email":      "a@b.c",
		"$first_name": "Bo",
		"$ios_tokens": []any{"t1", "t2"},
		"plan":        "pro",
	})
	require.NoError(t, err)

	assert.Equal(t, "a@b.c", profile.Email)
	assert.Equal(t, "Bo", profile.FirstName)
	assert.Equal(t, []string{"t1", "t2"}, profile.IOSTokens)
	assert.Equal(t, map[string]any{"plan": "pro"}, profile.Custom)
}

func TestProfileFromMapErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		attrs map[string]any
	}{
		{name: "no identifier", attrs: map[string]any{"$first_name": "Bo"}},
		{name: "non string special", attrs: map[string]any{"$email": 42}},
		{name: "bad tokens", attrs: map[string]any{"$ios_tokens": "tok"}},
		{name: "bad token item", attrs: map[string]any{"$ios_tokens": []any{1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := klaviyo.ProfileFromMap(tt.attrs)
			assert.True(t, errors.Is(err, apierror.ErrConfiguration), "got %v", err)
		})
	}
}

func TestEventValidate(t *testing.T) {
	t.Parallel()

	customer := &klaviyo.Profile{Email: "a@b.c"}

	require.NoError(t, (&klaviyo.Event{Name: "Viewed", Customer: customer}).Validate())

	assert.Error(t, (&klaviyo.Event{Customer: customer}).Validate(), "name is required")
	assert.Error(t, (&klaviyo.Event{Name: "Viewed"}).Validate(), "customer is required")
	assert.Error(t, (*klaviyo.Event)(nil).Validate())
}

func TestEventToParams(t *testing.T) {
	t.Parallel()

	event := &klaviyo.Event{
		Name:     "Viewed",
		Customer: &klaviyo.Profile{Email: "a@b.c"},
		Time:     time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC),
	}

	raw, err := json.Marshal(event.ToParams())
	require.NoError(t, err)
	assert.Equal(t,
		`{"event":"Viewed","customer_properties":{"$email":"a@b.c"},"properties":{},"time":1700000000}`,
		string(raw))

	event.Time = time.Time{}
	assert.Equal(t, []string{"event", "customer_properties", "properties"}, event.ToParams().Keys())
}

func TestSinceParams(t *testing.T) {
	t.Parallel()

	assert.Equal(t, klaviyo.NewParams("since", "uuid-1"), klaviyo.SinceParams("1400000000", "uuid-1"))
	assert.Equal(t, klaviyo.NewParams("since", "1400000000"), klaviyo.SinceParams("1400000000", ""))

	empty := klaviyo.SinceParams("", "")
	v, ok := empty.Get("since")
	assert.True(t, ok)
	assert.Nil(t, v, "an unset since is dropped by the request filter")
}
