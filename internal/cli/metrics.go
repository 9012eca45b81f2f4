package cli

import (
	"context"

	"github.com/spf13/cobra"

	klaviyo "github.com/lexfrei/go-klaviyo"
	"github.com/lexfrei/go-klaviyo/internal/output"
)

func (a *app) newMetricsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "List metrics and read event timelines",
	}

	cmd.AddCommand(a.newMetricsListCmd(), a.newMetricsTimelineCmd())

	return cmd
}

func (a *app) newMetricsListCmd() *cobra.Command {
	var page, count int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := a.newClient()
			if err != nil {
				return err
			}

			result, err := a.call(cmd, func(ctx context.Context) (*klaviyo.Result, error) {
				return client.Metrics().GetMetrics(ctx, page, count)
			})
			if err != nil {
				return err
			}

			return a.printItems(result, "data", []output.Column{
				{Header: "ID", Key: "id"},
				{Header: "NAME", Key: "name"},
				{Header: "CREATED", Key: "created"},
			})
		},
	}

	cmd.Flags().IntVar(&page, "page", 0, "Page number")
	cmd.Flags().IntVar(&count, "count", 0, "Metrics per page (server default 50)")

	return cmd
}

func (a *app) newMetricsTimelineCmd() *cobra.Command {
	opts := &klaviyo.TimelineOptions{}

	cmd := &cobra.Command{
		Use:   "timeline [metric-id]",
		Short: "Show the event timeline of all metrics or of one metric",
		Long: `Print one page of events. Pass the "next" value of a response with --uuid
to read the next page.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.newClient()
			if err != nil {
				return err
			}

			result, err := a.call(cmd, func(ctx context.Context) (*klaviyo.Result, error) {
				if len(args) == 1 {
					return client.Metrics().GetMetricTimeline(ctx, args[0], opts)
				}
				return client.Metrics().GetMetricsTimeline(ctx, opts)
			})
			if err != nil {
				return err
			}

			return a.printResult(result)
		},
	}

	cmd.Flags().StringVar(&opts.Since, "since", "", "Unix timestamp to start from")
	cmd.Flags().StringVar(&opts.UUID, "uuid", "", "Page token from a previous response")
	cmd.Flags().IntVar(&opts.Count, "count", 0, "Events per page")
	cmd.Flags().StringVar(&opts.Sort, "sort", "", "Sort order: asc or desc")

	return cmd
}
