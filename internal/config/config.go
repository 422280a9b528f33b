// Package config layers the converter's settings: an optional YAML file,
// environment variables (including a .env file via godotenv), and finally
// the command-line flags, which always win.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked for in the working directory when no
// --config flag is given.
const DefaultPath = ".octoallure.yaml"

// Environment variable names recognized by LoadEnv.
const (
	EnvAPIKey  = "OCTOMIND_API_KEY"
	EnvBaseURL = "OCTOMIND_BASE_URL"
)

// Config holds everything a run needs besides per-invocation flags.
type Config struct {
	APIKey        string `yaml:"apiKey"`
	BaseURL       string `yaml:"baseUrl"`
	TestTargetID  string `yaml:"testTargetId"`
	EnvironmentID string `yaml:"environmentId"`
	ResultsDir    string `yaml:"resultsDir"`
	ReportDir     string `yaml:"reportDir"`
}

// Load reads a YAML config file. A missing file at the default path is fine
// (zero config); a missing file at an explicit path is an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadEnv overlays environment variables onto the config. A .env file in the
// working directory is read first if present; real environment variables win
// over it (godotenv never overrides existing ones).
func (c *Config) LoadEnv() {
	_ = godotenv.Load()

	if v := os.Getenv(EnvAPIKey); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv(EnvBaseURL); v != "" {
		c.BaseURL = v
	}
}

// Override applies a non-empty flag value over the config value.
func Override(flagValue, configValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return configValue
}
