package cmd

import (
	"github.com/spf13/cobra"
)

// newChildrenCmd creates a new command for listing the direct children of an item
func newChildrenCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "children <parent-id> [content-type]",
		Short: "List the direct children of a content item",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := newClient()
			if err != nil {
				return err
			}

			contentType := ""
			if len(args) > 1 {
				contentType = args[1]
			}

			items, err := client.FetchChildren(cmd.Context(), args[0], contentType)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), items)
			}
			return printItems(cmd, items)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw items as JSON")
	return cmd
}
