// Package batch drives the end-to-end conversion flow: resolve the test
// target once, enumerate its reports, translate each report's results and
// hand the artifacts to the external renderer one report at a time. The
// renderer's history mechanism requires strictly serialized invocations, so
// nothing here runs concurrently.
package batch

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"octoallure/internal/convert"
	"octoallure/internal/octomind"
	"octoallure/internal/render"
)

// Source is the read side of the Octomind API the orchestrator needs.
// *octomind.Client satisfies it.
type Source interface {
	GetTestTarget(ctx context.Context, testTargetID string) (*octomind.TestTarget, error)
	GetTestReport(ctx context.Context, testTargetID, reportID string) (*octomind.TestReport, error)
	ListAllTestReports(ctx context.Context, testTargetID string, maxReports int, filters []octomind.FilterClause) ([]octomind.TestReport, error)
	GetTestCase(ctx context.Context, testTargetID, testCaseID string) (*octomind.TestCase, error)
}

// Renderer is the external report generator collaborator. *render.Generator
// satisfies it.
type Renderer interface {
	Generate(ctx context.Context, resultsDir string) error
	CopyHistory(resultsDir string) error
}

// Options selects what to convert and where artifacts land.
type Options struct {
	TestTargetID  string
	EnvironmentID string // optional equality filter on report listing
	MaxReports    int    // 0 = unbounded
	ResultsDir    string
}

// Summary counts what a run produced.
type Summary struct {
	Reports int
	Results int
}

// Orchestrator wires the API source, the converter and the renderer together.
type Orchestrator struct {
	src         Source
	renderer    Renderer
	logger      *slog.Logger
	convertOpts []convert.Option
}

// Option configures the Orchestrator.
type Option func(*Orchestrator)

// WithLogger configures structured logging.
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// WithConvertOptions forwards options to the converter (clock injection in
// tests).
func WithConvertOptions(opts ...convert.Option) Option {
	return func(o *Orchestrator) { o.convertOpts = opts }
}

// New creates an Orchestrator. renderer may be nil for single-report mode.
func New(src Source, renderer Renderer, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		src:      src,
		renderer: renderer,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Orchestrator) newConverter(target *octomind.TestTarget) *convert.Converter {
	opts := append([]convert.Option{convert.WithLogger(o.logger)}, o.convertOpts...)
	return convert.New(o.src, target, opts...)
}

// Run executes batch mode: every report of the target, newest first per
// server ordering, is translated, persisted into a freshly wiped results
// directory and rendered before the next report starts. The per-report
// wipe-then-render cycle is what accumulates renderer history across runs.
func (o *Orchestrator) Run(ctx context.Context, opts Options) (*Summary, error) {
	target, err := o.src.GetTestTarget(ctx, opts.TestTargetID)
	if err != nil {
		return nil, fmt.Errorf("resolve test target: %w", err)
	}

	conv := o.newConverter(target)
	conv.ResetCache()

	var filters []octomind.FilterClause
	if opts.EnvironmentID != "" {
		filters = append(filters, octomind.EnvironmentFilter(opts.EnvironmentID))
	}

	reports, err := o.src.ListAllTestReports(ctx, opts.TestTargetID, opts.MaxReports, filters)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	o.logger.InfoContext(ctx, "batch run starting",
		"testTargetId", opts.TestTargetID, "reports", len(reports))

	summary := &Summary{}
	for i := range reports {
		report := &reports[i]

		if err := render.PrepareResultsDir(opts.ResultsDir, true); err != nil {
			return summary, err
		}

		written, err := o.translateAndPersist(ctx, conv, report, opts.ResultsDir)
		if err != nil {
			return summary, err
		}
		summary.Reports++
		summary.Results += written

		if err := o.renderer.CopyHistory(opts.ResultsDir); err != nil {
			return summary, err
		}
		if err := o.renderer.Generate(ctx, opts.ResultsDir); err != nil {
			return summary, fmt.Errorf("render report %s: %w", report.ID, err)
		}
		o.logger.InfoContext(ctx, "report rendered", "reportId", report.ID, "results", written)
	}
	return summary, nil
}

// RunSingle executes single-report mode: fetch one report, translate it and
// persist the artifacts without wiping the results directory or invoking the
// renderer.
func (o *Orchestrator) RunSingle(ctx context.Context, opts Options, reportID string) (*Summary, error) {
	target, err := o.src.GetTestTarget(ctx, opts.TestTargetID)
	if err != nil {
		return nil, fmt.Errorf("resolve test target: %w", err)
	}

	report, err := o.src.GetTestReport(ctx, opts.TestTargetID, reportID)
	if err != nil {
		return nil, fmt.Errorf("fetch report: %w", err)
	}

	if err := render.PrepareResultsDir(opts.ResultsDir, false); err != nil {
		return nil, err
	}

	written, err := o.translateAndPersist(ctx, o.newConverter(target), report, opts.ResultsDir)
	if err != nil {
		return nil, err
	}
	return &Summary{Reports: 1, Results: written}, nil
}

// translateAndPersist is the pure-then-effectful half of the cycle: convert
// in memory first, then write everything out.
func (o *Orchestrator) translateAndPersist(ctx context.Context, conv *convert.Converter, report *octomind.TestReport, resultsDir string) (int, error) {
	results, container := conv.ConvertReport(ctx, report)

	for _, res := range results {
		if _, err := convert.WriteResult(resultsDir, res); err != nil {
			return 0, fmt.Errorf("persist report %s: %w", report.ID, err)
		}
	}
	if _, err := convert.WriteContainer(resultsDir, container); err != nil {
		return 0, fmt.Errorf("persist report %s: %w", report.ID, err)
	}
	return len(results), nil
}
