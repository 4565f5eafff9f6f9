package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"conference-site/pkg/umbraco"
)

// newListContentCmd creates a new command for listing raw content items
func newListContentCmd() *cobra.Command {
	var (
		filters []string
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "list-content [content-type]",
		Short: "List content items from the Delivery API",
		Long: `List content items of the given content type (or all items when omitted).
Extra query parameters can be passed with --filter key=value.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := newClient()
			if err != nil {
				return err
			}

			contentType := ""
			if len(args) > 0 {
				contentType = args[0]
			}
			extra, err := parseFilters(filters)
			if err != nil {
				return err
			}

			items, err := client.FetchContentItems(cmd.Context(), contentType, extra...)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), items)
			}
			return printItems(cmd, items)
		},
	}

	cmd.Flags().StringArrayVarP(&filters, "filter", "f", nil, "Extra query parameter as key=value (repeatable)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw items as JSON")
	return cmd
}

// parseFilters converts key=value flags into ordered query parameters
func parseFilters(raw []string) ([]umbraco.Filter, error) {
	filters := make([]umbraco.Filter, 0, len(raw))
	for _, f := range raw {
		key, value, ok := strings.Cut(f, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid filter %q, expected key=value", f)
		}
		filters = append(filters, umbraco.Filter{Key: key, Value: value})
	}
	return filters, nil
}

func printItems(cmd *cobra.Command, items []umbraco.ContentItem) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tNAME\tROUTE")
	for _, item := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", item.ID, item.ContentType, item.Name, item.Route.Path)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\n%d items\n", len(items))
	return nil
}
