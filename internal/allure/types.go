// Package allure models the file-based result format consumed by the Allure
// report generator: per-test result files, grouping containers, steps,
// labels and links. Timestamps are epoch milliseconds.
package allure

// Status is the execution outcome of a result or step.
type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusBroken  Status = "broken"
	StatusSkipped Status = "skipped"
	StatusUnknown Status = "unknown"
)

// StageFinished is the only lifecycle stage this converter emits; results
// are always written after the fact, never while running.
const StageFinished = "finished"

// Link types understood by the report renderer.
const (
	LinkTypeLink = "link"
	LinkTypeTMS  = "tms"
)

// Well-known label names.
const (
	LabelHost       = "host"
	LabelLanguage   = "language"
	LabelFramework  = "framework"
	LabelTestClass  = "testClass"
	LabelTestMethod = "testMethod"
	LabelSuite      = "suite"
	LabelPackage    = "package"
	LabelBrowser    = "browser"
	LabelBreakpoint = "breakpoint"
	LabelTag        = "tag"
)

// Label is a flat name-value pair; multiple labels may share a name.
type Label struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Link points from a result to a related resource.
type Link struct {
	Type string `json:"type,omitempty"`
	Name string `json:"name,omitempty"`
	URL  string `json:"url,omitempty"`
}

// StatusDetails carries the failure message and stack trace of a result
// or step.
type StatusDetails struct {
	Message string `json:"message,omitempty"`
	Trace   string `json:"trace,omitempty"`
}

// StepResult is one timed action within a result.
type StepResult struct {
	Name          string         `json:"name,omitempty"`
	Status        Status         `json:"status,omitempty"`
	StatusDetails *StatusDetails `json:"statusDetails,omitempty"`
	Stage         string         `json:"stage,omitempty"`
	Start         int64          `json:"start"`
	Stop          int64          `json:"stop"`
}

// Parameter is a named argument shown alongside a result.
type Parameter struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Attachment references a file stored next to the result.
type Attachment struct {
	Name   string `json:"name,omitempty"`
	Source string `json:"source,omitempty"`
	Type   string `json:"type,omitempty"`
}

// Result is one test outcome, serialized to {uuid}-result.json. HistoryID is
// derived, not generated: identical (target, case) inputs always yield the
// identical value so the renderer can correlate reruns.
type Result struct {
	UUID          string         `json:"uuid"`
	HistoryID     string         `json:"historyId,omitempty"`
	TestCaseID    string         `json:"testCaseId,omitempty"`
	FullName      string         `json:"fullName,omitempty"`
	Name          string         `json:"name,omitempty"`
	Description   string         `json:"description,omitempty"`
	Links         []Link         `json:"links,omitempty"`
	Labels        []Label        `json:"labels,omitempty"`
	Status        Status         `json:"status,omitempty"`
	StatusDetails *StatusDetails `json:"statusDetails,omitempty"`
	Stage         string         `json:"stage,omitempty"`
	Start         int64          `json:"start"`
	Stop          int64          `json:"stop"`
	Steps         []StepResult   `json:"steps,omitempty"`
	Attachments   []Attachment   `json:"attachments,omitempty"`
	Parameters    []Parameter    `json:"parameters,omitempty"`
}

// Container groups the results of one report, serialized to
// {uuid}-container.json.
type Container struct {
	UUID     string   `json:"uuid"`
	Name     string   `json:"name,omitempty"`
	Children []string `json:"children,omitempty"`
	Start    int64    `json:"start"`
	Stop     int64    `json:"stop"`
}
