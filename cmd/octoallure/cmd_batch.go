package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"octoallure/internal/batch"
	"octoallure/internal/config"
	"octoallure/internal/logging"
	"octoallure/internal/render"
)

var batchFlags struct {
	testTargetID  string
	outputDir     string
	reportDir     string
	maxReports    int
	environmentID string
	allureBin     string
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Convert and render every test report of a target",
	Long: `Enumerates all test reports of a target (newest first) and, for each one,
wipes the results directory, writes that report's Allure files, carries the
renderer's history forward and runs the Allure generator. Rendering one
report at a time is what builds up cross-run trend data.`,
	RunE: runBatch,
}

func init() {
	f := batchCmd.Flags()
	f.StringVarP(&batchFlags.testTargetID, "test-target-id", "t", "", "Octomind test target ID (required)")
	f.StringVarP(&batchFlags.outputDir, "output-dir", "o", "", "Working directory for Allure result files (default allure-results)")
	f.StringVar(&batchFlags.reportDir, "report-dir", "", "Persistent directory for the rendered report (default allure-report)")
	f.IntVar(&batchFlags.maxReports, "max-reports", 0, "Maximum number of reports to process (0 = all)")
	f.StringVar(&batchFlags.environmentID, "environment-id", "", "Only convert reports from this environment")
	f.StringVar(&batchFlags.allureBin, "allure-bin", "", "Allure executable (default 'allure' on PATH)")
}

func runBatch(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	targetID, err := resolveTargetID(batchFlags.testTargetID, cfg)
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	resultsDir := config.Override(batchFlags.outputDir, cfg.ResultsDir)
	if resultsDir == "" {
		resultsDir = "allure-results"
	}
	reportDir := config.Override(batchFlags.reportDir, cfg.ReportDir)
	if reportDir == "" {
		reportDir = "allure-report"
	}

	renderer := &render.Generator{
		Bin:       batchFlags.allureBin,
		ReportDir: reportDir,
		Logger:    logging.New("render"),
	}

	o := batch.New(client, renderer, batch.WithLogger(logging.New("batch")))
	summary, err := o.Run(cmd.Context(), batch.Options{
		TestTargetID:  targetID,
		EnvironmentID: config.Override(batchFlags.environmentID, cfg.EnvironmentID),
		MaxReports:    batchFlags.maxReports,
		ResultsDir:    resultsDir,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Rendered %d report(s), %d result(s); report at %s\n",
		summary.Reports, summary.Results, reportDir)
	return nil
}
