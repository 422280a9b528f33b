// Package convert translates Octomind test reports into Allure result and
// container records. The translation itself is pure; the only I/O is the
// memoized test-case lookup, and even that degrades to a synthetic case
// instead of failing.
package convert

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"octoallure/internal/allure"
	"octoallure/internal/octomind"
)

// appBaseURL is the Octomind web UI, used for navigation links on results.
const appBaseURL = "https://app.octomind.dev"

// CaseSource resolves test case definitions. *octomind.Client satisfies it.
type CaseSource interface {
	GetTestCase(ctx context.Context, testTargetID, testCaseID string) (*octomind.TestCase, error)
}

type caseKey struct {
	targetID string
	caseID   string
}

// Converter translates the results of one test target. It owns the test-case
// cache, which persists across reports within a batch run until ResetCache.
// Not safe for concurrent use; the batch loop is strictly sequential.
type Converter struct {
	cases  CaseSource
	target *octomind.TestTarget
	logger *slog.Logger
	now    func() time.Time
	cache  map[caseKey]*octomind.TestCase
}

// Option configures a Converter during construction.
type Option func(*Converter)

// WithLogger configures structured logging.
func WithLogger(l *slog.Logger) Option {
	return func(c *Converter) { c.logger = l }
}

// WithClock injects the time source used when the source omits timestamps.
// Tests pin it for reproducible output.
func WithClock(now func() time.Time) Option {
	return func(c *Converter) { c.now = now }
}

// New creates a Converter for the given target. cases resolves test-case
// metadata on demand (memoized per (target, case) pair).
func New(cases CaseSource, target *octomind.TestTarget, opts ...Option) *Converter {
	c := &Converter{
		cases:  cases,
		target: target,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
		cache:  make(map[caseKey]*octomind.TestCase),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ResetCache drops all memoized test cases. Invoked once at the start of
// each batch run.
func (c *Converter) ResetCache() {
	c.cache = make(map[caseKey]*octomind.TestCase)
}

// lookupCase returns the test case for (targetID, caseID), fetching and
// memoizing on first use. A failed fetch is downgraded to a synthetic case
// whose ID and name are both the case ID, so conversion always proceeds.
func (c *Converter) lookupCase(ctx context.Context, targetID, caseID string) *octomind.TestCase {
	key := caseKey{targetID: targetID, caseID: caseID}
	if tc, ok := c.cache[key]; ok {
		return tc
	}

	tc, err := c.cases.GetTestCase(ctx, targetID, caseID)
	if err != nil || tc == nil {
		c.logger.WarnContext(ctx, "test case lookup failed, using synthetic case",
			"testTargetId", targetID, "testCaseId", caseID, "error", err)
		tc = &octomind.TestCase{ID: caseID, Name: caseID}
	}
	c.cache[key] = tc
	return tc
}

// ConvertReport translates every result of a report and builds the grouping
// container referencing them, in order.
func (c *Converter) ConvertReport(ctx context.Context, report *octomind.TestReport) ([]*allure.Result, *allure.Container) {
	results := make([]*allure.Result, 0, len(report.TestResults))
	children := make([]string, 0, len(report.TestResults))
	for i := range report.TestResults {
		res := c.ConvertResult(ctx, report, &report.TestResults[i])
		results = append(results, res)
		children = append(children, res.UUID)
	}
	return results, c.BuildContainer(report, children)
}

// ConvertResult translates one test result into an Allure result record.
// It performs no fallible I/O: missing case metadata degrades to a synthetic
// case and malformed timestamps fall back to the injected clock.
func (c *Converter) ConvertResult(ctx context.Context, report *octomind.TestReport, res *octomind.TestResult) *allure.Result {
	// The result's own identifiers win over the report's in case of mismatch;
	// the history ID has to be stable for the case, not the batch.
	targetID := res.TestTargetID
	if targetID == "" {
		targetID = c.target.ID
	}

	tc := c.lookupCase(ctx, targetID, res.TestCaseID)

	name := tc.Description
	if name == "" {
		name = tc.Name
	}
	if name == "" {
		name = res.TestCaseID
	}

	start := c.parseTime(res.CreatedAt, c.now())
	stop := c.parseTime(res.UpdatedAt, start)

	out := &allure.Result{
		UUID:       uuid.NewString(),
		HistoryID:  allure.HistoryID(targetID, res.TestCaseID),
		TestCaseID: res.TestCaseID,
		FullName:   fmt.Sprintf("%s.%s", c.target.App, name),
		Name:       name,
		Links:      c.buildLinks(report, res, tc),
		Labels:     c.buildLabels(report, res, tc, name),
		Status:     allure.StatusFromOctomind(res.Status),
		Stage:      allure.StageFinished,
		Start:      start.UnixMilli(),
		Stop:       stop.UnixMilli(),
	}
	if tc.Description != "" {
		out.Description = tc.Description
	}

	cursor := out.Start
	for _, step := range res.Steps {
		converted := convertStep(step, cursor)
		cursor = converted.Stop
		out.Steps = append(out.Steps, converted)
	}

	if res.ErrorMessage != "" || res.StackTrace != "" {
		out.StatusDetails = &allure.StatusDetails{
			Message: res.ErrorMessage,
			Trace:   res.StackTrace,
		}
	}
	return out
}

// convertStep translates one source step into a timed sub-record starting at
// start. A missing duration yields a zero-length step; the caller threads
// the returned Stop into the next step's start.
func convertStep(step octomind.Step, start int64) allure.StepResult {
	out := allure.StepResult{
		Name:   step.Name,
		Status: allure.StatusFromOctomind(step.Status),
		Stage:  allure.StageFinished,
		Start:  start,
		Stop:   start + step.DurationMS,
	}
	if step.ErrorMessage != "" {
		out.StatusDetails = &allure.StatusDetails{Message: step.ErrorMessage}
	}
	return out
}

func (c *Converter) buildLinks(report *octomind.TestReport, res *octomind.TestResult, tc *octomind.TestCase) []allure.Link {
	links := []allure.Link{
		{
			Type: allure.LinkTypeLink,
			Name: "Octomind report",
			URL:  fmt.Sprintf("%s/testtargets/%s/testreports/%s", appBaseURL, c.target.ID, report.ID),
		},
	}
	if res.TraceURL != "" {
		links = append(links, allure.Link{
			Type: allure.LinkTypeLink,
			Name: "trace",
			URL:  res.TraceURL,
		})
	}
	if tc.ExternalID != "" {
		// Placeholder anchor: the actual tracker is unknown to the converter.
		links = append(links, allure.Link{
			Type: allure.LinkTypeTMS,
			Name: tc.ExternalID,
			URL:  "#" + tc.ExternalID,
		})
	}
	return links
}

func (c *Converter) buildLabels(report *octomind.TestReport, res *octomind.TestResult, tc *octomind.TestCase, name string) []allure.Label {
	labels := []allure.Label{
		{Name: allure.LabelHost, Value: "octomind"},
		{Name: allure.LabelLanguage, Value: "typescript"},
		{Name: allure.LabelFramework, Value: "octomind"},
		{Name: allure.LabelTestClass, Value: c.target.App},
		{Name: allure.LabelTestMethod, Value: res.TestCaseID},
		{Name: allure.LabelSuite, Value: name},
		{Name: allure.LabelPackage, Value: c.target.App},
	}
	if report.Breakpoint != "" {
		labels = append(labels, allure.Label{Name: allure.LabelBreakpoint, Value: report.Breakpoint})
	}
	if report.Browser != "" {
		labels = append(labels, allure.Label{Name: allure.LabelBrowser, Value: report.Browser})
	}
	for _, tag := range tc.Tags {
		if tag.Type != octomind.TagTypeFreeText {
			continue
		}
		labels = append(labels, allure.Label{Name: allure.LabelTag, Value: tag.Value})
	}
	return labels
}

// BuildContainer wraps a report's result UUIDs into a grouping container.
// Start and stop default to the current time independently of each other;
// report-level timestamps are absent for runs that never started or never
// finished.
func (c *Converter) BuildContainer(report *octomind.TestReport, children []string) *allure.Container {
	return &allure.Container{
		UUID:     uuid.NewString(),
		Name:     fmt.Sprintf("Test report %s", report.ID),
		Children: children,
		Start:    c.parseTime(report.StartedAt, c.now()).UnixMilli(),
		Stop:     c.parseTime(report.FinishedAt, c.now()).UnixMilli(),
	}
}

// parseTime parses an RFC 3339 timestamp, silently falling back when the
// value is absent or malformed.
func (c *Converter) parseTime(value string, fallback time.Time) time.Time {
	if value == "" {
		return fallback
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		c.logger.Debug("malformed timestamp, using fallback", "value", value, "error", err)
		return fallback
	}
	return t
}
