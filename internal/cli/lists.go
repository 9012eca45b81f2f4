package cli

import (
	"context"

	"github.com/spf13/cobra"

	klaviyo "github.com/lexfrei/go-klaviyo"
	"github.com/lexfrei/go-klaviyo/internal/output"
)

func (a *app) newListsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lists",
		Short: "Manage lists and segments",
	}

	cmd.AddCommand(
		a.newListsGetCmd(),
		a.newListsCreateCmd(),
		a.newListsDeleteCmd(),
		a.newListsMembersCmd(),
	)

	return cmd
}

func (a *app) newListsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get [list-id]",
		Short: "List all lists, or show one list",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.newClient()
			if err != nil {
				return err
			}

			if len(args) == 1 {
				result, err := a.call(cmd, func(ctx context.Context) (*klaviyo.Result, error) {
					return client.Lists().GetListByID(ctx, args[0])
				})
				if err != nil {
					return err
				}
				return a.printResult(result)
			}

			result, err := a.call(cmd, client.Lists().GetLists)
			if err != nil {
				return err
			}

			return a.printItems(result, "", []output.Column{
				{Header: "ID", Key: "list_id"},
				{Header: "NAME", Key: "list_name"},
			})
		},
	}
}

func (a *app) newListsCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create a list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.newClient()
			if err != nil {
				return err
			}

			result, err := a.call(cmd, func(ctx context.Context) (*klaviyo.Result, error) {
				return client.Lists().CreateList(ctx, args[0])
			})
			if err != nil {
				return err
			}

			return a.printResult(result)
		},
	}
}

func (a *app) newListsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <list-id>",
		Short: "Delete a list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.newClient()
			if err != nil {
				return err
			}

			if _, err := a.call(cmd, func(ctx context.Context) (*klaviyo.Result, error) {
				return client.Lists().DeleteList(ctx, args[0])
			}); err != nil {
				return err
			}

			a.streams.Printf("%s\n", a.streams.Success("list "+args[0]+" deleted"))
			return nil
		},
	}
}

func (a *app) newListsMembersCmd() *cobra.Command {
	var marker int

	cmd := &cobra.Command{
		Use:   "members <list-or-segment-id>",
		Short: "Page through every member of a list or segment",
		Long: `Print one page of members. The response carries a "marker" to pass back
with --marker for the next page.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.newClient()
			if err != nil {
				return err
			}

			result, err := a.call(cmd, func(ctx context.Context) (*klaviyo.Result, error) {
				return client.Lists().GetAllMembers(ctx, args[0], marker)
			})
			if err != nil {
				return err
			}

			return a.printItems(result, "records", []output.Column{
				{Header: "ID", Key: "id"},
				{Header: "EMAIL", Key: "email"},
			})
		},
	}

	cmd.Flags().IntVar(&marker, "marker", 0, "Page marker from a previous response")

	return cmd
}
