package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variable names
const (
	EnvAPIURL     = "PUBLIC_UMBRACO_API_URL"
	EnvAPIKey     = "UMBRACO_DELIVERY_API_KEY"
	EnvPort       = "PORT"
	EnvBucketName = "BUCKET_NAME"
	EnvSiteConfig = "SITE_CONFIG"
)

const (
	defaultPort          = "8080"
	defaultSiteConfig    = "site.yaml"
	defaultOutputDir     = "dist"
	defaultViewsDir      = "views"
	defaultPublicDir     = "public"
	defaultBlocksProp    = "blocks"
	deliveryAPIPathInURL = "/umbraco/delivery/api/v2"
)

// Config holds all configuration for the application
type Config struct {
	APIURL     string
	APIKey     string
	Port       string
	BucketName string
	Site       Site
}

// Site holds the static build settings, read from the optional site file
type Site struct {
	OutputDir      string   `yaml:"output_dir"`
	ViewsDir       string   `yaml:"views_dir"`
	PublicDir      string   `yaml:"public_dir"`
	BlocksProperty string   `yaml:"blocks_property"`
	StaticPages    []string `yaml:"static_pages"`
}

// ErrAPIURLNotSet is returned when the PUBLIC_UMBRACO_API_URL environment variable is not set
var ErrAPIURLNotSet = errors.New(EnvAPIURL + " environment variable not set")

// ErrAPIKeyNotSet is returned when the UMBRACO_DELIVERY_API_KEY environment variable is not set
var ErrAPIKeyNotSet = errors.New(EnvAPIKey + " environment variable not set")

// ErrBucketNameNotSet is returned when the BUCKET_NAME environment variable is not set
var ErrBucketNameNotSet = errors.New(EnvBucketName + " environment variable not set")

// DefaultSite returns the build settings used when no site file overrides them
func DefaultSite() Site {
	return Site{
		OutputDir:      defaultOutputDir,
		ViewsDir:       defaultViewsDir,
		PublicDir:      defaultPublicDir,
		BlocksProperty: defaultBlocksProp,
		StaticPages:    []string{"/", "/speakers", "/projects"},
	}
}

// Load loads configuration from a .env file (if any) and environment variables
func Load() (*Config, error) {
	// A missing .env file is fine; the environment may already be populated.
	_ = godotenv.Load()

	apiURL := strings.TrimSpace(os.Getenv(EnvAPIURL))
	if apiURL == "" {
		return nil, ErrAPIURLNotSet
	}

	apiKey := strings.TrimSpace(os.Getenv(EnvAPIKey))
	if apiKey == "" {
		return nil, ErrAPIKeyNotSet
	}

	port := os.Getenv(EnvPort)
	if port == "" {
		port = defaultPort
	}

	site, err := loadSite(os.Getenv(EnvSiteConfig))
	if err != nil {
		return nil, err
	}

	return &Config{
		APIURL:     apiURL,
		APIKey:     apiKey,
		Port:       port,
		BucketName: os.Getenv(EnvBucketName),
		Site:       site,
	}, nil
}

// loadSite reads the YAML site file. An explicit path must exist; the default
// path is optional.
func loadSite(path string) (Site, error) {
	site := DefaultSite()

	explicit := path != ""
	if !explicit {
		path = defaultSiteConfig
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return site, nil
		}
		return site, fmt.Errorf("error reading site config %s: %w", path, err)
	}

	return ParseSite(data)
}

// ParseSite decodes a YAML site file on top of the defaults
func ParseSite(data []byte) (Site, error) {
	site := DefaultSite()
	if err := yaml.Unmarshal(data, &site); err != nil {
		return site, fmt.Errorf("error unmarshalling site config: %w", err)
	}
	if len(site.StaticPages) == 0 {
		site.StaticPages = DefaultSite().StaticPages
	}
	return site, nil
}

// MediaBaseURL returns the CMS origin used to absolutize media paths: the API
// URL without any delivery API path and without a trailing slash.
func (c *Config) MediaBaseURL() string {
	base := c.APIURL
	if idx := strings.Index(base, deliveryAPIPathInURL); idx != -1 {
		base = base[:idx]
	}
	return strings.TrimSuffix(base, "/")
}

// RequireBucket checks that a bucket is configured for publishing
func (c *Config) RequireBucket() error {
	if c.BucketName == "" {
		return ErrBucketNameNotSet
	}
	return nil
}

// ServerAddress returns the server address with port
func (c *Config) ServerAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

// ServerStartMessage returns the message printed when the preview server starts
func (c *Config) ServerStartMessage() string {
	return fmt.Sprintf("Starting preview server at http://localhost:%s/ (content from %s)", c.Port, c.MediaBaseURL())
}
