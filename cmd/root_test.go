package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conference-site/pkg/config"
)

func TestRootCommands(t *testing.T) {
	root := NewRootCmd()

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"list-content", "show-item", "children", "blocks", "list", "export", "build", "serve", "publish", "minesweeper"} {
		assert.Contains(t, names, want)
	}
}

func TestLoadConfigFlagsOverrideEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(config.EnvAPIURL, "https://env.example.com")
	t.Setenv(config.EnvAPIKey, "env-key")
	t.Setenv(config.EnvPort, "")
	t.Setenv(config.EnvBucketName, "")
	t.Setenv(config.EnvSiteConfig, "")

	apiURL, apiKey, portNumber = "https://flag.example.com", "", "9090"
	t.Cleanup(func() { apiURL, apiKey, portNumber = "", "", "" })

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "https://flag.example.com", cfg.APIURL)
	assert.Equal(t, "env-key", cfg.APIKey)
	assert.Equal(t, "9090", cfg.Port)
}
