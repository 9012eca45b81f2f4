package klaviyo

import (
	"context"
	"maps"
)

// PublicService sends events and profile updates with the public key.
// Successful responses carry the raw body, "1" when accepted and "0" otherwise.
type PublicService struct {
	client *Client
}

// Track records event.
func (s *PublicService) Track(ctx context.Context, event *Event) (*Result, error) {
	if err := event.Validate(); err != nil {
		return nil, err
	}

	return s.client.PublicRequest(ctx, "track", event.ToParams())
}

// TrackOnce records event unless the customer already has one with the same name.
func (s *PublicService) TrackOnce(ctx context.Context, event *Event) (*Result, error) {
	if err := event.Validate(); err != nil {
		return nil, err
	}

	once := *event
	once.Properties = maps.Clone(event.Properties)
	if once.Properties == nil {
		once.Properties = map[string]any{}
	}
	once.Properties[TrackOnceKey] = true

	return s.Track(ctx, &once)
}

// Identify creates or updates profile.
func (s *PublicService) Identify(ctx context.Context, profile *Profile) (*Result, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	return s.client.PublicRequest(ctx, "identify", NewParams("properties", profile.ToParams()))
}

// Accepted reports whether a public endpoint accepted the payload.
func Accepted(result *Result) bool {
	return result != nil && string(result.Body) == "1"
}
