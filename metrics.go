package klaviyo

import (
	"context"
	"net/http"
)

// MetricsService reads metrics and their event timelines (v1).
type MetricsService struct {
	client *Client
}

// ExportOptions selects the data exported for a metric. Zero values are omitted.
type ExportOptions struct {
	StartDate   string
	EndDate     string
	Unit        string
	Measurement string
	Where       string
	By          string
	Count       int
}

func (o *ExportOptions) params() Params {
	if o == nil {
		return Params{}
	}

	return NewParams(
		"start_date", optional(o.StartDate),
		"end_date", optional(o.EndDate),
		"unit", optional(o.Unit),
		"measurement", optional(o.Measurement),
		"where", optional(o.Where),
		"by", optional(o.By),
		"count", optional(o.Count),
	)
}

// GetMetrics returns one page of metrics. Zero page and count use the server defaults.
func (s *MetricsService) GetMetrics(ctx context.Context, page, count int) (*Result, error) {
	return s.client.RequestV1(ctx, http.MethodGet, "metrics", &Options{
		Query: NewParams("page", optional(page), "count", optional(count)),
	})
}

// GetMetricsTimeline returns the events of every metric.
func (s *MetricsService) GetMetricsTimeline(ctx context.Context, opts *TimelineOptions) (*Result, error) {
	return s.client.RequestV1(ctx, http.MethodGet, "metrics/timeline", &Options{Query: opts.params()})
}

// GetMetricTimeline returns the events of one metric.
func (s *MetricsService) GetMetricTimeline(ctx context.Context, metricID string, opts *TimelineOptions) (*Result, error) {
	return s.client.RequestV1(ctx, http.MethodGet, "metric/"+metricID+"/timeline", &Options{Query: opts.params()})
}

// ExportMetricData returns aggregated values of one metric.
func (s *MetricsService) ExportMetricData(ctx context.Context, metricID string, opts *ExportOptions) (*Result, error) {
	return s.client.RequestV1(ctx, http.MethodGet, "metric/"+metricID+"/export", &Options{Query: opts.params()})
}
