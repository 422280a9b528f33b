package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/spf13/cobra"

	"octoallure/internal/logging"
)

var snapshotFlags struct {
	reportDir string
	out       string
	timeout   time.Duration
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Capture a PNG screenshot of a rendered Allure report",
	Long: `Serves a generated Allure report directory on a loopback port and captures
a full-page screenshot with headless Chrome. Useful as a CI artifact when the
full HTML report is too heavy to attach.`,
	RunE: runSnapshot,
}

func init() {
	f := snapshotCmd.Flags()
	f.StringVar(&snapshotFlags.reportDir, "report-dir", "allure-report", "Rendered report directory to serve")
	f.StringVar(&snapshotFlags.out, "out", "allure-report.png", "Screenshot output path")
	f.DurationVar(&snapshotFlags.timeout, "timeout", 30*time.Second, "Overall timeout for the capture")
}

func runSnapshot(cmd *cobra.Command, _ []string) error {
	logger := logging.New("snapshot")

	if _, err := os.Stat(snapshotFlags.reportDir); err != nil {
		return fmt.Errorf("report dir: %w", err)
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	srv := &http.Server{Handler: http.FileServer(http.Dir(snapshotFlags.reportDir))}
	go srv.Serve(ln)
	defer srv.Close()

	base := fmt.Sprintf("http://%s/index.html", ln.Addr().String())
	logger.Info("serving report", "url", base)

	ctx, cancel := context.WithTimeout(cmd.Context(), snapshotFlags.timeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	var shot []byte
	err = chromedp.Run(browserCtx,
		chromedp.Navigate(base),
		chromedp.WaitReady("body"),
		// The report renders client-side; give the widgets a moment.
		chromedp.Sleep(2*time.Second),
		chromedp.FullScreenshot(&shot, 90),
	)
	if err != nil {
		return fmt.Errorf("capture: %w", err)
	}

	if err := os.WriteFile(snapshotFlags.out, shot, 0644); err != nil {
		return fmt.Errorf("write screenshot: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Screenshot: %s\n", snapshotFlags.out)
	return nil
}
