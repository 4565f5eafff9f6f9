package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"conference-site/pkg/publish"
	"conference-site/pkg/site"
)

// newPublishCmd creates a new command for publishing the site to a bucket
func newPublishCmd() *cobra.Command {
	var (
		prune     bool
		skipBuild bool
	)

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Build the site and upload it to Google Cloud Storage",
		Long: `Build the static site and upload the output directory to the bucket named by
--bucket or BUCKET_NAME. With --prune, objects that are no longer part of the
site are removed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, svc, err := initService()
			if err != nil {
				return err
			}
			if err := cfg.RequireBucket(); err != nil {
				return err
			}

			ctx := cmd.Context()
			if !skipBuild {
				renderer := site.NewRenderer(cfg.Site.ViewsDir, cfg.MediaBaseURL(), logger)
				if _, err := site.NewBuilder(cfg.Site, svc, renderer, logger).Build(ctx); err != nil {
					return err
				}
			}

			publisher, err := publish.New(ctx, cfg.BucketName, logger)
			if err != nil {
				return err
			}
			defer publisher.Close()

			report, err := publisher.Publish(ctx, cfg.Site.OutputDir, prune)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %d objects to gs://%s (%d stale objects removed)\n",
				report.Uploaded, cfg.BucketName, report.Deleted)
			return nil
		},
	}

	cmd.Flags().BoolVar(&prune, "prune", false, "Delete bucket objects that are not part of the site")
	cmd.Flags().BoolVar(&skipBuild, "skip-build", false, "Upload the existing output directory without rebuilding")
	return cmd
}
