package cli

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	klaviyo "github.com/lexfrei/go-klaviyo"
)

func (a *app) newProfilesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "Inspect profiles",
	}

	cmd.AddCommand(a.newProfilesGetCmd())

	return cmd
}

func (a *app) newProfilesGetCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "get [person-id]",
		Short: "Show a profile by ID, or look up a profile ID by email",
		Example: `  klaviyo profiles get 01GDDKASAP8TKDDA2GRZDSVP4H
  klaviyo profiles get --email alice@example.com`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (len(args) == 1) == (email != "") {
				return errors.New("pass either a person ID or --email")
			}

			client, err := a.newClient()
			if err != nil {
				return err
			}

			result, err := a.call(cmd, func(ctx context.Context) (*klaviyo.Result, error) {
				if email != "" {
					return client.Profiles().GetProfileIDByEmail(ctx, email)
				}
				return client.Profiles().GetProfile(ctx, args[0])
			})
			if err != nil {
				return err
			}

			return a.printResult(result)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Look up the profile ID for this email")

	return cmd
}
