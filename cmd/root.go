package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"conference-site/pkg/config"
	"conference-site/pkg/services"
	"conference-site/pkg/umbraco"
)

// Configuration flags
var (
	apiURL     string
	apiKey     string
	bucketName string
	portNumber string
	siteConfig string
	verbose    bool

	logger = zap.NewNop()
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "conference-site",
		Short: "Conference site is a tool for reading CMS content and publishing the conference website",
		Long: `Conference site reads speakers, projects, events and block pages from the
Umbraco Delivery API. It can inspect content, build the static site, serve a
live preview and publish the build to Google Cloud Storage.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			zcfg := zap.NewProductionConfig()
			if verbose {
				zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			l, err := zcfg.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			logger = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}

	// Define persistent flags that will be available for all commands
	rootCmd.PersistentFlags().StringVarP(&apiURL, "api-url", "u", "", "Set the "+config.EnvAPIURL+" (overrides environment variable)")
	rootCmd.PersistentFlags().StringVarP(&apiKey, "api-key", "k", "", "Set the "+config.EnvAPIKey+" (overrides environment variable)")
	rootCmd.PersistentFlags().StringVarP(&bucketName, "bucket", "b", "", "Set the "+config.EnvBucketName+" (overrides environment variable)")
	rootCmd.PersistentFlags().StringVarP(&portNumber, "port", "p", "", "Set the "+config.EnvPort+" (overrides environment variable)")
	rootCmd.PersistentFlags().StringVarP(&siteConfig, "config", "c", "", "Path to the YAML site file (overrides "+config.EnvSiteConfig+")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	// Add commands to root
	rootCmd.AddCommand(newListContentCmd())
	rootCmd.AddCommand(newShowItemCmd())
	rootCmd.AddCommand(newChildrenCmd())
	rootCmd.AddCommand(newBlocksCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newBuildCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newPublishCmd())
	rootCmd.AddCommand(newMinesweeperCmd())

	return rootCmd
}

// LoadConfig loads configuration with respect to command line flags
func LoadConfig() (*config.Config, error) {
	// Set environment variables from flags if provided
	overrides := map[string]string{
		config.EnvAPIURL:     apiURL,
		config.EnvAPIKey:     apiKey,
		config.EnvBucketName: bucketName,
		config.EnvPort:       portNumber,
		config.EnvSiteConfig: siteConfig,
	}
	for key, value := range overrides {
		if value != "" {
			if err := os.Setenv(key, value); err != nil {
				return nil, err
			}
		}
	}

	// Load configuration from environment variables (potentially set above)
	return config.Load()
}

// newClient loads the configuration and creates a Delivery API client
func newClient() (*config.Config, *umbraco.Client, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	client, err := umbraco.NewClient(cfg, umbraco.WithLogger(logger))
	if err != nil {
		return nil, nil, err
	}
	return cfg, client, nil
}

// initService loads the configuration and initializes the site service
func initService() (*config.Config, *services.Service, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := services.InitService(cfg, logger); err != nil {
		return nil, nil, err
	}
	return cfg, services.Default(), nil
}
