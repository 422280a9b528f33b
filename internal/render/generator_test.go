package render

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeStub creates a fake renderer executable that records its arguments.
func writeStub(t *testing.T, dir string, exitCode int) (bin, argsFile string) {
	t.Helper()
	argsFile = filepath.Join(dir, "args.txt")
	bin = filepath.Join(dir, "fake-allure")
	script := "#!/bin/sh\necho \"$@\" > " + argsFile + "\nexit " + map[int]string{0: "0", 1: "1"}[exitCode] + "\n"
	if err := os.WriteFile(bin, []byte(script), 0755); err != nil {
		t.Fatal(err)
	}
	return bin, argsFile
}

func TestGenerate_InvokesRenderer(t *testing.T) {
	dir := t.TempDir()
	bin, argsFile := writeStub(t, dir, 0)

	g := &Generator{Bin: bin, ReportDir: filepath.Join(dir, "report")}
	resultsDir := filepath.Join(dir, "results")
	if err := g.Generate(context.Background(), resultsDir); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	data, err := os.ReadFile(argsFile)
	if err != nil {
		t.Fatal(err)
	}
	got := strings.TrimSpace(string(data))
	want := "generate " + resultsDir + " --output " + g.ReportDir + " --clean"
	if got != want {
		t.Errorf("renderer args = %q, want %q", got, want)
	}
}

func TestGenerate_NonZeroExitIsFatal(t *testing.T) {
	dir := t.TempDir()
	bin, _ := writeStub(t, dir, 1)

	g := &Generator{Bin: bin, ReportDir: dir}
	if err := g.Generate(context.Background(), dir); err == nil {
		t.Fatal("expected error on non-zero renderer exit")
	}
}

func TestCopyHistory(t *testing.T) {
	reportDir := t.TempDir()
	resultsDir := t.TempDir()

	historySrc := filepath.Join(reportDir, "history")
	if err := os.MkdirAll(historySrc, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(historySrc, "history-trend.json"), []byte(`[]`), 0644); err != nil {
		t.Fatal(err)
	}

	g := &Generator{ReportDir: reportDir}
	if err := g.CopyHistory(resultsDir); err != nil {
		t.Fatalf("CopyHistory: %v", err)
	}

	copied := filepath.Join(resultsDir, "history", "history-trend.json")
	if _, err := os.Stat(copied); err != nil {
		t.Errorf("expected history file copied to %s: %v", copied, err)
	}
}

func TestCopyHistory_MissingSourceIsNoop(t *testing.T) {
	g := &Generator{ReportDir: t.TempDir()}
	resultsDir := t.TempDir()
	if err := g.CopyHistory(resultsDir); err != nil {
		t.Fatalf("CopyHistory with no history dir: %v", err)
	}
	if _, err := os.Stat(filepath.Join(resultsDir, "history")); !os.IsNotExist(err) {
		t.Error("no history directory should have been created")
	}
}

func TestPrepareResultsDir_Wipe(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "results")
	if err := PrepareResultsDir(dir, false); err != nil {
		t.Fatal(err)
	}
	stale := filepath.Join(dir, "old-result.json")
	if err := os.WriteFile(stale, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := PrepareResultsDir(dir, true); err != nil {
		t.Fatalf("PrepareResultsDir wipe: %v", err)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("wipe must remove previous artifacts")
	}

	// Without wipe, existing artifacts survive.
	keep := filepath.Join(dir, "keep.json")
	if err := os.WriteFile(keep, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := PrepareResultsDir(dir, false); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(keep); err != nil {
		t.Error("non-wipe prepare must keep existing artifacts")
	}
}
