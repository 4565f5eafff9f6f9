package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"conference-site/pkg/umbraco"
)

// newShowItemCmd creates a new command for showing a single content item
func newShowItemCmd() *cobra.Command {
	var id, route, slug, contentType string

	cmd := &cobra.Command{
		Use:   "show-item",
		Short: "Show a single content item",
		Long: `Show one content item looked up by --id, --route, or --slug with --type.
The home page is shown when no lookup flag is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := newClient()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			var item *umbraco.ContentItem
			switch {
			case id != "":
				item, err = client.FetchContentByID(ctx, id)
			case route != "":
				item, err = client.FetchContentByRoute(ctx, route)
			case slug != "":
				if contentType == "" {
					return errors.New("--type is required with --slug")
				}
				item, err = client.FetchContentBySlug(ctx, slug, contentType)
			default:
				item, err = client.FetchHomepage(ctx)
			}
			if err != nil {
				return err
			}
			if item == nil {
				return errors.New("content item not found")
			}
			return printJSON(cmd.OutOrStdout(), item)
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Content item ID")
	cmd.Flags().StringVar(&route, "route", "", "Content item route, e.g. /speakers/ada/")
	cmd.Flags().StringVar(&slug, "slug", "", "Last route segment of the item")
	cmd.Flags().StringVar(&contentType, "type", "", "Content type to search with --slug")
	cmd.MarkFlagsMutuallyExclusive("id", "route", "slug")
	return cmd
}
