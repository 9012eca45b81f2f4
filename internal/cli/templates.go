package cli

import (
	"github.com/spf13/cobra"

	"github.com/lexfrei/go-klaviyo/internal/output"
)

func (a *app) newTemplatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Inspect email templates",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List email templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := a.newClient()
			if err != nil {
				return err
			}

			result, err := a.call(cmd, client.Templates().GetAllTemplates)
			if err != nil {
				return err
			}

			return a.printItems(result, "data", []output.Column{
				{Header: "ID", Key: "id"},
				{Header: "NAME", Key: "name"},
				{Header: "UPDATED", Key: "updated"},
			})
		},
	})

	return cmd
}
