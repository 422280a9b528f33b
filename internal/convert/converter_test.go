package convert

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"octoallure/internal/allure"
	"octoallure/internal/octomind"
)

// fakeCaseSource serves canned cases and counts fetches per case ID.
type fakeCaseSource struct {
	cases   map[string]*octomind.TestCase
	fetches map[string]int
	err     error
}

func (f *fakeCaseSource) GetTestCase(_ context.Context, _, testCaseID string) (*octomind.TestCase, error) {
	if f.fetches == nil {
		f.fetches = make(map[string]int)
	}
	f.fetches[testCaseID]++
	if f.err != nil {
		return nil, f.err
	}
	tc, ok := f.cases[testCaseID]
	if !ok {
		return nil, errors.New("test case not found")
	}
	return tc, nil
}

var testTarget = &octomind.TestTarget{ID: "tt-1", App: "MyApp"}

func fixedClock(t *testing.T, stamp string) func() time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, stamp)
	if err != nil {
		t.Fatal(err)
	}
	return func() time.Time { return parsed }
}

func TestConvertResult_Fixture(t *testing.T) {
	src := &fakeCaseSource{cases: map[string]*octomind.TestCase{
		"case-1": {ID: "case-1", Name: "login", Description: "Login flow"},
	}}
	conv := New(src, testTarget, WithClock(fixedClock(t, "2030-01-01T00:00:00Z")))

	report := &octomind.TestReport{ID: "rep-1", TestTargetID: "tt-1"}
	res := &octomind.TestResult{
		ID:           "res-1",
		TestTargetID: "tt-1",
		TestCaseID:   "case-1",
		Status:       octomind.StatusPassed,
		CreatedAt:    "2024-01-01T00:00:00Z",
	}

	out := conv.ConvertResult(context.Background(), report, res)

	if out.FullName != "MyApp.Login flow" {
		t.Errorf("fullName = %q, want %q", out.FullName, "MyApp.Login flow")
	}
	if out.Name != "Login flow" {
		t.Errorf("name = %q", out.Name)
	}
	wantStart := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	if out.Start != wantStart {
		t.Errorf("start = %d, want %d", out.Start, wantStart)
	}
	if out.Stop != out.Start {
		t.Errorf("stop = %d, want start %d (no updatedAt)", out.Stop, out.Start)
	}
	if out.Status != allure.StatusPassed {
		t.Errorf("status = %q", out.Status)
	}
	if out.Stage != allure.StageFinished {
		t.Errorf("stage = %q", out.Stage)
	}
	if out.HistoryID != allure.HistoryID("tt-1", "case-1") {
		t.Error("historyId not derived from (target, case)")
	}
	if out.StatusDetails != nil {
		t.Error("statusDetails must be omitted without error message or trace")
	}
	if out.UUID == "" {
		t.Error("uuid must be generated")
	}
}

func TestConvertResult_DisplayNameFallbacks(t *testing.T) {
	cases := []struct {
		name string
		tc   *octomind.TestCase
		want string
	}{
		{"description wins", &octomind.TestCase{ID: "c", Name: "n", Description: "d"}, "d"},
		{"name second", &octomind.TestCase{ID: "c", Name: "n"}, "n"},
		{"case id last", &octomind.TestCase{ID: "c"}, "case-1"},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			src := &fakeCaseSource{cases: map[string]*octomind.TestCase{"case-1": tt.tc}}
			conv := New(src, testTarget)
			out := conv.ConvertResult(context.Background(),
				&octomind.TestReport{ID: "rep-1"},
				&octomind.TestResult{TestCaseID: "case-1"})
			if out.Name != tt.want {
				t.Errorf("name = %q, want %q", out.Name, tt.want)
			}
		})
	}
}

func TestConvertResult_StepThreading(t *testing.T) {
	src := &fakeCaseSource{cases: map[string]*octomind.TestCase{
		"case-1": {ID: "case-1", Name: "steps"},
	}}
	conv := New(src, testTarget)

	res := &octomind.TestResult{
		TestCaseID: "case-1",
		CreatedAt:  "2024-06-01T12:00:00Z",
		Steps: []octomind.Step{
			{Name: "a", Status: octomind.StatusPassed, DurationMS: 100},
			{Name: "b", Status: octomind.StatusPassed},
			{Name: "c", Status: octomind.StatusFailed, DurationMS: 50, ErrorMessage: "boom"},
		},
	}
	out := conv.ConvertResult(context.Background(), &octomind.TestReport{ID: "rep-1"}, res)

	start := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC).UnixMilli()
	want := []struct{ start, stop int64 }{
		{start, start + 100},
		{start + 100, start + 100},
		{start + 100, start + 150},
	}
	if len(out.Steps) != len(want) {
		t.Fatalf("expected %d steps, got %d", len(want), len(out.Steps))
	}
	for i, w := range want {
		if out.Steps[i].Start != w.start || out.Steps[i].Stop != w.stop {
			t.Errorf("step %d span = (%d,%d), want (%d,%d)",
				i, out.Steps[i].Start, out.Steps[i].Stop, w.start, w.stop)
		}
	}
	if out.Steps[2].StatusDetails == nil || out.Steps[2].StatusDetails.Message != "boom" {
		t.Error("failing step must carry its error message")
	}
	if out.Steps[0].StatusDetails != nil {
		t.Error("passing step must not carry statusDetails")
	}
}

func TestConvertResult_LinksAndLabels(t *testing.T) {
	src := &fakeCaseSource{cases: map[string]*octomind.TestCase{
		"case-1": {
			ID:         "case-1",
			Name:       "checkout",
			ExternalID: "JIRA-42",
			Tags: []octomind.Tag{
				{Type: octomind.TagTypeFreeText, Value: "smoke"},
				{Type: "SYSTEM", Value: "hidden"},
				{Type: octomind.TagTypeFreeText, Value: "smoke"},
			},
		},
	}}
	conv := New(src, testTarget)

	report := &octomind.TestReport{ID: "rep-1", Breakpoint: "1280", Browser: "chromium"}
	res := &octomind.TestResult{
		TestCaseID: "case-1",
		TraceURL:   "https://storage.example/trace.zip",
	}
	out := conv.ConvertResult(context.Background(), report, res)

	wantLinks := []allure.Link{
		{Type: allure.LinkTypeLink, Name: "Octomind report", URL: "https://app.octomind.dev/testtargets/tt-1/testreports/rep-1"},
		{Type: allure.LinkTypeLink, Name: "trace", URL: "https://storage.example/trace.zip"},
		{Type: allure.LinkTypeTMS, Name: "JIRA-42", URL: "#JIRA-42"},
	}
	if diff := cmp.Diff(wantLinks, out.Links); diff != "" {
		t.Errorf("links mismatch (-want +got):\n%s", diff)
	}

	wantLabels := []allure.Label{
		{Name: allure.LabelHost, Value: "octomind"},
		{Name: allure.LabelLanguage, Value: "typescript"},
		{Name: allure.LabelFramework, Value: "octomind"},
		{Name: allure.LabelTestClass, Value: "MyApp"},
		{Name: allure.LabelTestMethod, Value: "case-1"},
		{Name: allure.LabelSuite, Value: "checkout"},
		{Name: allure.LabelPackage, Value: "MyApp"},
		{Name: allure.LabelBreakpoint, Value: "1280"},
		{Name: allure.LabelBrowser, Value: "chromium"},
		{Name: allure.LabelTag, Value: "smoke"},
		{Name: allure.LabelTag, Value: "smoke"},
	}
	if diff := cmp.Diff(wantLabels, out.Labels); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
}

func TestConvertResult_StatusDetails(t *testing.T) {
	src := &fakeCaseSource{cases: map[string]*octomind.TestCase{
		"case-1": {ID: "case-1", Name: "x"},
	}}
	conv := New(src, testTarget)

	out := conv.ConvertResult(context.Background(),
		&octomind.TestReport{ID: "rep-1"},
		&octomind.TestResult{TestCaseID: "case-1", Status: octomind.StatusError, ErrorMessage: "timeout"})
	if out.Status != allure.StatusBroken {
		t.Errorf("status = %q, want broken", out.Status)
	}
	if out.StatusDetails == nil || out.StatusDetails.Message != "timeout" {
		t.Errorf("statusDetails = %+v", out.StatusDetails)
	}
}

func TestConvertResult_MalformedTimestampFallsBack(t *testing.T) {
	src := &fakeCaseSource{cases: map[string]*octomind.TestCase{
		"case-1": {ID: "case-1", Name: "x"},
	}}
	conv := New(src, testTarget, WithClock(fixedClock(t, "2030-06-15T10:00:00Z")))

	out := conv.ConvertResult(context.Background(),
		&octomind.TestReport{ID: "rep-1"},
		&octomind.TestResult{TestCaseID: "case-1", CreatedAt: "not a timestamp"})
	want := time.Date(2030, 6, 15, 10, 0, 0, 0, time.UTC).UnixMilli()
	if out.Start != want {
		t.Errorf("start = %d, want clock fallback %d", out.Start, want)
	}
}

func TestLookupCase_MemoizesAndResets(t *testing.T) {
	src := &fakeCaseSource{cases: map[string]*octomind.TestCase{
		"case-1": {ID: "case-1", Name: "login"},
	}}
	conv := New(src, testTarget)

	ctx := context.Background()
	conv.lookupCase(ctx, "tt-1", "case-1")
	conv.lookupCase(ctx, "tt-1", "case-1")
	if src.fetches["case-1"] != 1 {
		t.Errorf("expected exactly 1 fetch, got %d", src.fetches["case-1"])
	}

	conv.ResetCache()
	conv.lookupCase(ctx, "tt-1", "case-1")
	if src.fetches["case-1"] != 2 {
		t.Errorf("expected refetch after reset, got %d fetches", src.fetches["case-1"])
	}
}

func TestLookupCase_FailureYieldsSyntheticCase(t *testing.T) {
	src := &fakeCaseSource{err: errors.New("boom")}
	conv := New(src, testTarget)

	tc := conv.lookupCase(context.Background(), "tt-1", "case-9")
	if tc.ID != "case-9" || tc.Name != "case-9" {
		t.Errorf("synthetic case = %+v, want id and name both case-9", tc)
	}
	if len(tc.Tags) != 0 {
		t.Error("synthetic case must have no tags")
	}

	// The failure is cached too: no retry storm within a batch.
	conv.lookupCase(context.Background(), "tt-1", "case-9")
	if src.fetches["case-9"] != 1 {
		t.Errorf("expected 1 fetch for failing case, got %d", src.fetches["case-9"])
	}
}

func TestBuildContainer(t *testing.T) {
	conv := New(&fakeCaseSource{}, testTarget, WithClock(fixedClock(t, "2030-01-01T00:00:00Z")))

	report := &octomind.TestReport{
		ID:        "rep-1",
		StartedAt: "2024-01-01T00:00:00Z",
	}
	children := []string{"uuid-a", "uuid-b", "uuid-c"}
	container := conv.BuildContainer(report, children)

	if diff := cmp.Diff(children, container.Children); diff != "" {
		t.Errorf("children mismatch (-want +got):\n%s", diff)
	}
	if container.UUID == "" {
		t.Error("container uuid must be generated")
	}
	if container.Start != time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli() {
		t.Errorf("start = %d", container.Start)
	}
	// FinishedAt absent: stop defaults to the clock, independently of start.
	if container.Stop != time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli() {
		t.Errorf("stop = %d", container.Stop)
	}
}

func TestConvertReport_ChildrenMatchResults(t *testing.T) {
	src := &fakeCaseSource{cases: map[string]*octomind.TestCase{
		"case-1": {ID: "case-1", Name: "a"},
		"case-2": {ID: "case-2", Name: "b"},
	}}
	conv := New(src, testTarget)

	report := &octomind.TestReport{
		ID: "rep-1",
		TestResults: []octomind.TestResult{
			{ID: "res-1", TestCaseID: "case-1", Status: octomind.StatusPassed},
			{ID: "res-2", TestCaseID: "case-2", Status: octomind.StatusFailed},
		},
	}
	results, container := conv.ConvertReport(context.Background(), report)

	if len(results) != 2 || len(container.Children) != 2 {
		t.Fatalf("expected 2 results and 2 children, got %d and %d", len(results), len(container.Children))
	}
	for i, res := range results {
		if container.Children[i] != res.UUID {
			t.Errorf("child %d = %q, want %q (translation order)", i, container.Children[i], res.UUID)
		}
	}
	if results[0].UUID == results[1].UUID {
		t.Error("generated result UUIDs must be unique")
	}
}
