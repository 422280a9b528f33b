package octomind

// Report statuses returned by the Octomind API. Reports carry the full set;
// results and steps only ever use the narrower execution outcomes.
const (
	StatusWaiting = "WAITING"
	StatusRunning = "RUNNING"
	StatusPassed  = "PASSED"
	StatusFailed  = "FAILED"
	StatusError   = "ERROR"
	StatusSkipped = "SKIPPED"
)

// TagTypeFreeText marks the only tag kind surfaced to downstream consumers.
const TagTypeFreeText = "FREE_TEXT"

// TestTarget is the application/project under test, owning test cases,
// reports, tags and environments.
type TestTarget struct {
	ID           string        `json:"id"`
	App          string        `json:"app,omitempty"`
	Tags         []Tag         `json:"tags,omitempty"`
	Environments []Environment `json:"environments,omitempty"`
}

// Environment is a named execution environment within a test target.
type Environment struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// Tag is a typed key-value pair scoped to an environment and target.
type Tag struct {
	ID            string `json:"id,omitempty"`
	Type          string `json:"type,omitempty"`
	Key           string `json:"key,omitempty"`
	Value         string `json:"value,omitempty"`
	EnvironmentID string `json:"environmentId,omitempty"`
	TestTargetID  string `json:"testTargetId,omitempty"`
}

// TestReport is one execution run of a test suite, containing the results of
// all test cases executed in that run.
type TestReport struct {
	ID           string       `json:"id"`
	TestTargetID string       `json:"testTargetId,omitempty"`
	Status       string       `json:"status,omitempty"`
	StartedAt    string       `json:"startedAt,omitempty"`
	FinishedAt   string       `json:"finishedAt,omitempty"`
	CreatedAt    string       `json:"createdAt,omitempty"`
	Breakpoint   string       `json:"breakpoint,omitempty"`
	Browser      string       `json:"browser,omitempty"`
	TestResults  []TestResult `json:"testResults,omitempty"`
}

// TestResult is the outcome of one test case within a report.
type TestResult struct {
	ID           string `json:"id"`
	TestTargetID string `json:"testTargetId,omitempty"`
	TestCaseID   string `json:"testCaseId,omitempty"`
	Status       string `json:"status,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty"`
	StackTrace   string `json:"stackTrace,omitempty"`
	TraceURL     string `json:"traceUrl,omitempty"`
	DurationMS   int64  `json:"duration,omitempty"`
	CreatedAt    string `json:"createdAt,omitempty"`
	UpdatedAt    string `json:"updatedAt,omitempty"`
	Steps        []Step `json:"steps,omitempty"`
}

// Step is one action within a result's execution trace.
type Step struct {
	Name         string `json:"name,omitempty"`
	Status       string `json:"status,omitempty"`
	DurationMS   int64  `json:"duration,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

// TestCase is the reusable definition of a test, referenced by results
// across reports.
type TestCase struct {
	ID          string `json:"id"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	ExternalID  string `json:"externalId,omitempty"`
	Tags        []Tag  `json:"tags,omitempty"`
}

// ReportKey is the keyset cursor for report pagination, bound to the last
// seen creation timestamp. Serialized as JSON in the "key" query parameter.
type ReportKey struct {
	CreatedAt string `json:"createdAt"`
}

// TestReportsPage is one page of the report listing.
type TestReportsPage struct {
	TestReports []TestReport `json:"testReports"`
	Key         *ReportKey   `json:"key,omitempty"`
	HasNextPage bool         `json:"hasNextPage"`
}

// FilterClause is one predicate in the report listing filter array.
type FilterClause struct {
	Key      string `json:"key"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
}

// EnvironmentFilter returns the equality clause restricting a report listing
// to a single environment.
func EnvironmentFilter(environmentID string) FilterClause {
	return FilterClause{Key: "environmentId", Operator: "EQUALS", Value: environmentID}
}

// ErrorRS is the standard Octomind error response shape.
type ErrorRS struct {
	ErrorCode int    `json:"errorCode,omitempty"`
	Message   string `json:"message,omitempty"`
}
