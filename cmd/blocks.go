package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"conference-site/pkg/blocks"
)

// newBlocksCmd creates a new command for showing the block list of a page
func newBlocksCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "blocks [route]",
		Short: "Show the blocks of a page in render order",
		Long:  `Decode the block list of the page at route (default "/") and print each block's alias and ID.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, client, err := newClient()
			if err != nil {
				return err
			}

			route := "/"
			if len(args) > 0 {
				route = args[0]
			}

			item, err := client.FetchContentByRoute(cmd.Context(), route)
			if err != nil {
				return err
			}
			if item == nil {
				return errors.New("page not found: " + route)
			}

			list := blocks.InOrder(item.Properties.Value(cfg.Site.BlocksProperty))
			if asJSON {
				return printJSON(cmd.OutOrStdout(), list)
			}
			for i, b := range list {
				fmt.Fprintf(cmd.OutOrStdout(), "%2d. %s (%s)\n", i+1, blocks.TypeAlias(b), b.ID)
			}
			if len(list) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No blocks in %q on %s\n", cfg.Site.BlocksProperty, route)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the blocks as JSON")
	return cmd
}
