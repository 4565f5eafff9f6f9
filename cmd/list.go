package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newListCmd creates a new command for listing mapped site entities
func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "list <speakers|projects|events|threads>",
		Short:     "List mapped site entities",
		Long:      `Fetch one collection from the CMS and print it the way the site sees it.`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"speakers", "projects", "events", "threads"},
		RunE: func(cmd *cobra.Command, args []string) error {
			_, svc, err := initService()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			var out any
			switch args[0] {
			case "speakers":
				out, err = svc.GetSpeakers(ctx)
			case "projects":
				out, err = svc.GetProjects(ctx)
			case "events":
				out, err = svc.GetEvents(ctx)
			case "threads":
				out, err = svc.GetThreads(ctx)
			default:
				return fmt.Errorf("unknown collection %q", args[0])
			}
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
}
