package klaviyo

import (
	"context"
	"net/http"
)

// ProfilesService reads and updates people (mostly v1).
type ProfilesService struct {
	client *Client
}

// TimelineOptions pages through an event timeline. Zero values are omitted.
type TimelineOptions struct {
	// Since is a unix timestamp to start from.
	Since string
	// UUID is the "next" token of a previous page; it takes precedence over Since.
	UUID string
	// Count is the page size.
	Count int
	// Sort is "asc" or "desc".
	Sort string
}

func (o *TimelineOptions) params() Params {
	if o == nil {
		return Params{}
	}

	return SinceParams(o.Since, o.UUID).Merge(NewParams(
		"count", optional(o.Count),
		"sort", optional(o.Sort),
	))
}

// GetProfile returns every attribute of a person.
func (s *ProfilesService) GetProfile(ctx context.Context, personID string) (*Result, error) {
	return s.client.RequestV1(ctx, http.MethodGet, "person/"+personID, nil)
}

// UpdateProfile sets attributes on a person. Nil values are skipped.
func (s *ProfilesService) UpdateProfile(ctx context.Context, personID string, properties Params) (*Result, error) {
	return s.client.RequestV1(ctx, http.MethodPut, "person/"+personID, &Options{Query: properties})
}

// GetProfileMetricsTimeline returns the events of a person across all metrics.
func (s *ProfilesService) GetProfileMetricsTimeline(ctx context.Context, personID string, opts *TimelineOptions) (*Result, error) {
	return s.client.RequestV1(ctx, http.MethodGet, "person/"+personID+"/metrics/timeline", &Options{
		Query: opts.params(),
	})
}

// GetProfileMetricTimeline returns the events of a person for one metric.
func (s *ProfilesService) GetProfileMetricTimeline(ctx context.Context, personID, metricID string, opts *TimelineOptions) (*Result, error) {
	return s.client.RequestV1(ctx, http.MethodGet, "person/"+personID+"/metric/"+metricID+"/timeline", &Options{
		Query: opts.params(),
	})
}

// GetProfileIDByEmail looks up the person id for email (v2).
func (s *ProfilesService) GetProfileIDByEmail(ctx context.Context, email string) (*Result, error) {
	return s.client.RequestV2(ctx, http.MethodGet, "people/search", &Options{
		Query: NewParams("email", email),
	})
}
