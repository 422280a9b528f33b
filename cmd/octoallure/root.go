package main

import (
	"github.com/spf13/cobra"

	"octoallure/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	apiKey     string
	baseURL    string
	configPath string
	debug      bool
	logFormat  string
}

var rootCmd = &cobra.Command{
	Use:   "octoallure",
	Short: "Convert Octomind test reports into Allure results",
	Long:  "Octoallure fetches test reports from the Octomind API and translates\nthem into the Allure results format, optionally driving the Allure\ngenerator per report to accumulate cross-run history.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logging.Setup(rootFlags.debug, rootFlags.logFormat)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootFlags.apiKey, "api-key", "", "Octomind API key (or OCTOMIND_API_KEY)")
	pf.StringVar(&rootFlags.baseURL, "base-url", "", "Octomind API base URL (default https://app.octomind.dev/api)")
	pf.StringVar(&rootFlags.configPath, "config", "", "Config file path (default .octoallure.yaml if present)")
	pf.BoolVar(&rootFlags.debug, "debug", false, "Enable debug logging")
	pf.StringVar(&rootFlags.logFormat, "log-format", "text", "Log format: text or json")

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.Version = version
}
