package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/LoaderSpot/LoaderSpot/internal/notify"
	"github.com/LoaderSpot/LoaderSpot/internal/platform"
)

// Config defines configuration for the loaderspot CLI.
type Config struct {
	BaseURL        string         `yaml:"base_url"`
	MaxConnections int            `yaml:"max_connections"`
	Timeout        time.Duration  `yaml:"timeout"`
	SnapshotURL    string         `yaml:"snapshot_url"`
	FormURL        string         `yaml:"form_url"`
	Adaptive       AdaptiveConfig `yaml:"adaptive"`
	Registry       RegistryConfig `yaml:"registry"`
}

// AdaptiveConfig defines the expanding-window search parameters.
type AdaptiveConfig struct {
	InitialWidth int `yaml:"initial_width"`
	Increment    int `yaml:"increment"`
	MaxRounds    int `yaml:"max_rounds"`
}

// RegistryConfig points at the versions.json registry object.
type RegistryConfig struct {
	Bucket string `yaml:"bucket"`
	Object string `yaml:"object"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		BaseURL:        platform.DefaultBaseURL,
		MaxConnections: 100,
		Timeout:        10 * time.Second,
		SnapshotURL:    notify.DefaultSnapshotURL,
		FormURL:        notify.DefaultFormURL,
		Adaptive: AdaptiveConfig{
			InitialWidth: 1000,
			Increment:    1000,
			MaxRounds:    10,
		},
		Registry: RegistryConfig{
			Object: "versions.json",
		},
	}
}

// yamlConfig is used for YAML unmarshaling with string durations.
type yamlConfig struct {
	BaseURL        string         `yaml:"base_url"`
	MaxConnections int            `yaml:"max_connections"`
	Timeout        string         `yaml:"timeout"`
	SnapshotURL    string         `yaml:"snapshot_url"`
	FormURL        string         `yaml:"form_url"`
	Adaptive       AdaptiveConfig `yaml:"adaptive"`
	Registry       RegistryConfig `yaml:"registry"`
}

// LoadFromFile loads configuration from a YAML file.
func LoadFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}

	cfg := Default()

	if yc.BaseURL != "" {
		cfg.BaseURL = yc.BaseURL
	}
	if yc.MaxConnections != 0 {
		cfg.MaxConnections = yc.MaxConnections
	}
	if yc.Timeout != "" {
		d, err := time.ParseDuration(yc.Timeout)
		if err != nil {
			return Config{}, fmt.Errorf("parse timeout: %w", err)
		}
		cfg.Timeout = d
	}
	if yc.SnapshotURL != "" {
		cfg.SnapshotURL = yc.SnapshotURL
	}
	if yc.FormURL != "" {
		cfg.FormURL = yc.FormURL
	}
	if yc.Adaptive.InitialWidth != 0 {
		cfg.Adaptive.InitialWidth = yc.Adaptive.InitialWidth
	}
	if yc.Adaptive.Increment != 0 {
		cfg.Adaptive.Increment = yc.Adaptive.Increment
	}
	if yc.Adaptive.MaxRounds != 0 {
		cfg.Adaptive.MaxRounds = yc.Adaptive.MaxRounds
	}
	if yc.Registry.Bucket != "" {
		cfg.Registry.Bucket = yc.Registry.Bucket
	}
	if yc.Registry.Object != "" {
		cfg.Registry.Object = yc.Registry.Object
	}

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables use the LOADERSPOT_ prefix.
func (c *Config) LoadFromEnv() error {
	if v := os.Getenv("LOADERSPOT_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("LOADERSPOT_MAX_CONNECTIONS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse LOADERSPOT_MAX_CONNECTIONS: %w", err)
		}
		c.MaxConnections = n
	}
	if v := os.Getenv("LOADERSPOT_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse LOADERSPOT_TIMEOUT: %w", err)
		}
		c.Timeout = d
	}
	if v := os.Getenv("LOADERSPOT_SNAPSHOT_URL"); v != "" {
		c.SnapshotURL = v
	}
	if v := os.Getenv("LOADERSPOT_FORM_URL"); v != "" {
		c.FormURL = v
	}
	if v := os.Getenv("LOADERSPOT_REGISTRY_BUCKET"); v != "" {
		c.Registry.Bucket = v
	}
	if v := os.Getenv("LOADERSPOT_REGISTRY_OBJECT"); v != "" {
		c.Registry.Object = v
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("config: base_url is required")
	}
	if c.MaxConnections <= 0 {
		return errors.New("config: max_connections must be positive")
	}
	if c.Timeout <= 0 {
		return errors.New("config: timeout must be positive")
	}
	if c.Adaptive.InitialWidth <= 0 {
		return errors.New("config: adaptive.initial_width must be positive")
	}
	if c.Adaptive.Increment <= 0 {
		return errors.New("config: adaptive.increment must be positive")
	}
	if c.Adaptive.MaxRounds <= 0 {
		return errors.New("config: adaptive.max_rounds must be positive")
	}
	return nil
}
