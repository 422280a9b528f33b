package main

import (
	"fmt"

	"octoallure/internal/config"
	"octoallure/internal/logging"
	"octoallure/internal/octomind"
)

// loadConfig layers the config file under environment variables; flag values
// are applied on top by the callers via config.Override.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(rootFlags.configPath)
	if err != nil {
		return nil, err
	}
	cfg.LoadEnv()
	return cfg, nil
}

// newClient builds the Octomind API client from flags, environment and
// config file, validating the API key before any remote call.
func newClient(cfg *config.Config) (*octomind.Client, error) {
	apiKey := config.Override(rootFlags.apiKey, cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required (--api-key, %s, or config file)", config.EnvAPIKey)
	}

	opts := []octomind.Option{octomind.WithLogger(logging.New("octomind"))}
	if baseURL := config.Override(rootFlags.baseURL, cfg.BaseURL); baseURL != "" {
		opts = append(opts, octomind.WithBaseURL(baseURL))
	}
	return octomind.New(apiKey, opts...)
}

// resolveTargetID validates the required test target ID from flag or config.
func resolveTargetID(flagValue string, cfg *config.Config) (string, error) {
	id := config.Override(flagValue, cfg.TestTargetID)
	if id == "" {
		return "", fmt.Errorf("test target ID is required (--test-target-id or config file)")
	}
	return id, nil
}
