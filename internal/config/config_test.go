package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "https://upgrade.scdn.co/upgrade/client/", cfg.BaseURL)
	assert.Equal(t, 100, cfg.MaxConnections)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, 1000, cfg.Adaptive.InitialWidth)
	assert.Equal(t, 1000, cfg.Adaptive.Increment)
	assert.Equal(t, 10, cfg.Adaptive.MaxRounds)
	assert.Equal(t, "versions.json", cfg.Registry.Object)
	require.NoError(t, cfg.Validate())
}

func TestLoadFromYAML(t *testing.T) {
	yamlContent := `
base_url: http://127.0.0.1:9000/upgrade/client/
max_connections: 50
timeout: 5s
adaptive:
  initial_width: 500
  increment: 250
  max_rounds: 4
registry:
  bucket: mem://
  object: registry/versions.json
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(yamlContent), 0644))

	cfg, err := LoadFromFile(configPath)
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:9000/upgrade/client/", cfg.BaseURL)
	assert.Equal(t, 50, cfg.MaxConnections)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, 500, cfg.Adaptive.InitialWidth)
	assert.Equal(t, 250, cfg.Adaptive.Increment)
	assert.Equal(t, 4, cfg.Adaptive.MaxRounds)
	assert.Equal(t, "mem://", cfg.Registry.Bucket)
	assert.Equal(t, "registry/versions.json", cfg.Registry.Object)

	// Unset fields keep their defaults.
	assert.Equal(t, Default().SnapshotURL, cfg.SnapshotURL)
	assert.Equal(t, Default().FormURL, cfg.FormURL)
}

func TestLoadFromYAMLBadTimeout(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("timeout: soon"), 0644))

	_, err := LoadFromFile(configPath)
	assert.Error(t, err)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("LOADERSPOT_MAX_CONNECTIONS", "25")
	t.Setenv("LOADERSPOT_TIMEOUT", "3s")
	t.Setenv("LOADERSPOT_REGISTRY_BUCKET", "mem://")

	cfg := Default()
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, 25, cfg.MaxConnections)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, "mem://", cfg.Registry.Bucket)
}

func TestLoadFromEnvInvalid(t *testing.T) {
	t.Setenv("LOADERSPOT_MAX_CONNECTIONS", "many")

	cfg := Default()
	assert.Error(t, cfg.LoadFromEnv())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty base url", func(c *Config) { c.BaseURL = "" }},
		{"zero connections", func(c *Config) { c.MaxConnections = 0 }},
		{"negative connections", func(c *Config) { c.MaxConnections = -1 }},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }},
		{"zero initial width", func(c *Config) { c.Adaptive.InitialWidth = 0 }},
		{"zero increment", func(c *Config) { c.Adaptive.Increment = 0 }},
		{"zero max rounds", func(c *Config) { c.Adaptive.MaxRounds = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
