package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"conference-site/pkg/site"
)

// newBuildCmd creates a new command for building the static site
func newBuildCmd() *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the static site",
		Long: `Fetch all content, render every page with the pug views and write the
site, the JSON feed and the public assets to the output directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, svc, err := initService()
			if err != nil {
				return err
			}
			if outputDir != "" {
				cfg.Site.OutputDir = outputDir
			}

			renderer := site.NewRenderer(cfg.Site.ViewsDir, cfg.MediaBaseURL(), logger)
			result, err := site.NewBuilder(cfg.Site, svc, renderer, logger).Build(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Built %d pages and copied %d assets to %s\n",
				len(result.Pages), result.Assets, cfg.Site.OutputDir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "out", "o", "", "Output directory (overrides the site file)")
	return cmd
}
