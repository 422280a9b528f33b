// Package render drives the external Allure report generator and manages its
// working directories: the per-report results directory and the persistent
// report directory whose history subdirectory carries trend data forward
// between invocations.
package render

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
)

// DefaultBin is the Allure executable looked up on PATH.
const DefaultBin = "allure"

// historyDir is the renderer's trend-data subdirectory.
const historyDir = "history"

// Generator invokes the Allure executable to render a results directory into
// the persistent report directory.
type Generator struct {
	// Bin is the renderer executable; empty means DefaultBin.
	Bin string
	// ReportDir is the persistent output directory the renderer writes to.
	ReportDir string
	// Logger defaults to a discard logger.
	Logger *slog.Logger
}

func (g *Generator) logger() *slog.Logger {
	if g.Logger != nil {
		return g.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Generate runs `allure generate <resultsDir> --output <reportDir> --clean`,
// inheriting stdout and stderr. A non-zero exit is fatal for the run.
func (g *Generator) Generate(ctx context.Context, resultsDir string) error {
	bin := g.Bin
	if bin == "" {
		bin = DefaultBin
	}

	cmd := exec.CommandContext(ctx, bin, "generate", resultsDir, "--output", g.ReportDir, "--clean")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	g.logger().InfoContext(ctx, "running report generator",
		"bin", bin, "results", resultsDir, "output", g.ReportDir)

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("allure generate: %w", err)
	}
	return nil
}

// CopyHistory copies the renderer's accumulated history subdirectory from a
// prior report into the results directory, so the next invocation produces
// cross-run trend data. A missing history directory is not an error; the
// first report of a batch has none.
func (g *Generator) CopyHistory(resultsDir string) error {
	src := filepath.Join(g.ReportDir, historyDir)
	info, err := os.Stat(src)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("copy history: %w", err)
	}
	if !info.IsDir() {
		return nil
	}

	dst := filepath.Join(resultsDir, historyDir)
	if err := os.MkdirAll(dst, 0755); err != nil {
		return fmt.Errorf("copy history: %w", err)
	}
	if err := os.CopyFS(dst, os.DirFS(src)); err != nil {
		return fmt.Errorf("copy history: %w", err)
	}
	return nil
}

// PrepareResultsDir creates the results directory. With wipe set it removes
// any previous contents first, so the renderer processes exactly one
// report's artifacts at a time; single-report mode creates without wiping.
func PrepareResultsDir(dir string, wipe bool) error {
	if wipe {
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("wipe results dir: %w", err)
		}
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create results dir: %w", err)
	}
	return nil
}
