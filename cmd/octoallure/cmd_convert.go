package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"octoallure/internal/batch"
	"octoallure/internal/config"
	"octoallure/internal/logging"
)

var convertFlags struct {
	testTargetID string
	reportID     string
	outputDir    string
}

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a single test report into Allure result files",
	Long: `Fetches one test report and writes its Allure result and container files
into the output directory without wiping it. Run the Allure generator on the
directory yourself, or use 'octoallure batch' for the full render loop.`,
	RunE: runConvert,
}

func init() {
	f := convertCmd.Flags()
	f.StringVarP(&convertFlags.testTargetID, "test-target-id", "t", "", "Octomind test target ID (required)")
	f.StringVarP(&convertFlags.reportID, "report-id", "r", "", "Test report ID to convert (required)")
	f.StringVarP(&convertFlags.outputDir, "output-dir", "o", "", "Directory for Allure result files (default allure-results)")

	_ = convertCmd.MarkFlagRequired("report-id")
}

func runConvert(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	targetID, err := resolveTargetID(convertFlags.testTargetID, cfg)
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	outputDir := config.Override(convertFlags.outputDir, cfg.ResultsDir)
	if outputDir == "" {
		outputDir = "allure-results"
	}
	o := batch.New(client, nil, batch.WithLogger(logging.New("convert")))
	summary, err := o.RunSingle(cmd.Context(), batch.Options{
		TestTargetID: targetID,
		ResultsDir:   outputDir,
	}, convertFlags.reportID)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Converted report %s: %d result(s) written to %s\n",
		convertFlags.reportID, summary.Results, outputDir)
	return nil
}
