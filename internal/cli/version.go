package cli

import (
	"github.com/spf13/cobra"

	klaviyo "github.com/lexfrei/go-klaviyo"
	"github.com/lexfrei/go-klaviyo/internal/output"
)

func (a *app) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the library version",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			if a.jsonOut {
				return output.PrintJSON(a.streams.Out, map[string]any{
					"version":    klaviyo.Version,
					"user_agent": klaviyo.UserAgent(),
				})
			}

			a.streams.Printf("klaviyo version %s\n", klaviyo.Version)
			return nil
		},
	}
}
