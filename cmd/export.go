package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"conference-site/pkg/services"
)

// newExportCmd creates a new command for exporting site data
func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [format]",
		Short: "Export site data",
		Long:  `Export all site data in the specified format. Currently supported formats: json, yaml.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, _, err := initService(); err != nil {
				return err
			}

			format := "json"
			if len(args) > 0 {
				format = args[0]
			}
			return exportData(cmd, format)
		},
	}
}

// exportData exports site data in the specified format
func exportData(cmd *cobra.Command, format string) error {
	if format != "json" && format != "yaml" {
		return fmt.Errorf("unsupported export format: %s (supported formats: json, yaml)", format)
	}

	data, err := services.GetSiteData(cmd.Context())
	if err != nil {
		return err
	}

	if format == "json" {
		return printJSON(cmd.OutOrStdout(), data)
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("error marshaling data: %w", err)
	}
	return enc.Close()
}
