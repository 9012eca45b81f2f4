package cli

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	klaviyo "github.com/lexfrei/go-klaviyo"
)

func (a *app) newIdentifyCmd() *cobra.Command {
	var email, id, phone, properties string

	cmd := &cobra.Command{
		Use:     "identify",
		Short:   "Create or update a profile",
		Example: `  klaviyo identify --email alice@example.com --properties '{"$first_name":"Alice","plan":"pro"}'`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			attrs, err := parseObject("properties", properties)
			if err != nil {
				return err
			}
			profile, err := profileFromFlags(attrs, email, id, phone)
			if err != nil {
				return err
			}

			client, err := a.newClient()
			if err != nil {
				return err
			}

			result, err := a.call(cmd, func(ctx context.Context) (*klaviyo.Result, error) {
				return client.Public().Identify(ctx, profile)
			})
			if err != nil {
				return err
			}
			if !klaviyo.Accepted(result) {
				return errors.New("profile was not accepted")
			}

			a.streams.Printf("%s\n", a.streams.Success("profile identified"))
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Profile email")
	cmd.Flags().StringVar(&id, "id", "", "Profile external ID")
	cmd.Flags().StringVar(&phone, "phone", "", "Profile phone number")
	cmd.Flags().StringVar(&properties, "properties", "", "Profile properties as a JSON object")

	return cmd
}
