// Package mcp exposes the converter over the Model Context Protocol so
// agent-based tooling can inspect test targets, list reports and convert
// them without shelling out to the CLI.
package mcp

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"octoallure/internal/batch"
	"octoallure/internal/logging"
	"octoallure/internal/octomind"
)

// Server wraps the MCP SDK server around an Octomind API source.
type Server struct {
	MCPServer *sdkmcp.Server
	src       batch.Source
	version   string
}

// NewServer creates an MCP server exposing the conversion tools backed by
// the given API source.
func NewServer(src batch.Source, version string) *Server {
	s := &Server{src: src, version: version}
	s.MCPServer = sdkmcp.NewServer(
		&sdkmcp.Implementation{Name: "octoallure", Version: version},
		nil,
	)
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "get_target",
		Description: "Fetch a test target (application under test) with its environments.",
	}, s.handleGetTarget)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "list_reports",
		Description: "List test reports for a target, newest first, with optional environment filter and count cap.",
	}, s.handleListReports)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "convert_report",
		Description: "Convert one test report into Allure result and container files in a directory.",
	}, s.handleConvertReport)
}

// --- Tool input/output types ---

type getTargetInput struct {
	TestTargetID string `json:"test_target_id" jsonschema:"Octomind test target ID"`
}

type environmentInfo struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

type getTargetOutput struct {
	ID           string            `json:"id"`
	App          string            `json:"app,omitempty"`
	Environments []environmentInfo `json:"environments,omitempty"`
}

type listReportsInput struct {
	TestTargetID  string `json:"test_target_id" jsonschema:"Octomind test target ID"`
	MaxReports    int    `json:"max_reports,omitempty" jsonschema:"maximum number of reports to return (0 = all)"`
	EnvironmentID string `json:"environment_id,omitempty" jsonschema:"restrict to one environment"`
}

type reportSummary struct {
	ID        string `json:"id"`
	Status    string `json:"status,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
	Results   int    `json:"results"`
}

type listReportsOutput struct {
	Reports []reportSummary `json:"reports"`
	Total   int             `json:"total"`
}

type convertReportInput struct {
	TestTargetID string `json:"test_target_id" jsonschema:"Octomind test target ID"`
	ReportID     string `json:"report_id" jsonschema:"test report ID to convert"`
	OutputDir    string `json:"output_dir" jsonschema:"directory for the Allure result files"`
}

type convertReportOutput struct {
	ResultsWritten int    `json:"results_written"`
	OutputDir      string `json:"output_dir"`
}

// --- Tool handlers ---

func (s *Server) handleGetTarget(ctx context.Context, _ *sdkmcp.CallToolRequest, input getTargetInput) (*sdkmcp.CallToolResult, getTargetOutput, error) {
	if input.TestTargetID == "" {
		return nil, getTargetOutput{}, fmt.Errorf("test_target_id is required")
	}

	target, err := s.src.GetTestTarget(ctx, input.TestTargetID)
	if err != nil {
		return nil, getTargetOutput{}, err
	}

	out := getTargetOutput{ID: target.ID, App: target.App}
	for _, env := range target.Environments {
		out.Environments = append(out.Environments, environmentInfo{ID: env.ID, Name: env.Name})
	}
	return nil, out, nil
}

func (s *Server) handleListReports(ctx context.Context, _ *sdkmcp.CallToolRequest, input listReportsInput) (*sdkmcp.CallToolResult, listReportsOutput, error) {
	if input.TestTargetID == "" {
		return nil, listReportsOutput{}, fmt.Errorf("test_target_id is required")
	}

	var filters []octomind.FilterClause
	if input.EnvironmentID != "" {
		filters = append(filters, octomind.EnvironmentFilter(input.EnvironmentID))
	}

	reports, err := s.src.ListAllTestReports(ctx, input.TestTargetID, input.MaxReports, filters)
	if err != nil {
		return nil, listReportsOutput{}, err
	}

	out := listReportsOutput{Total: len(reports)}
	for _, r := range reports {
		out.Reports = append(out.Reports, reportSummary{
			ID:        r.ID,
			Status:    r.Status,
			CreatedAt: r.CreatedAt,
			Results:   len(r.TestResults),
		})
	}
	return nil, out, nil
}

func (s *Server) handleConvertReport(ctx context.Context, _ *sdkmcp.CallToolRequest, input convertReportInput) (*sdkmcp.CallToolResult, convertReportOutput, error) {
	if input.TestTargetID == "" || input.ReportID == "" || input.OutputDir == "" {
		return nil, convertReportOutput{}, fmt.Errorf("test_target_id, report_id and output_dir are required")
	}

	logger := logging.New("mcp-convert")
	o := batch.New(s.src, nil, batch.WithLogger(logger))
	summary, err := o.RunSingle(ctx, batch.Options{
		TestTargetID: input.TestTargetID,
		ResultsDir:   input.OutputDir,
	}, input.ReportID)
	if err != nil {
		return nil, convertReportOutput{}, err
	}

	logger.Info("report converted", "report_id", input.ReportID, "results", summary.Results)
	return nil, convertReportOutput{
		ResultsWritten: summary.Results,
		OutputDir:      input.OutputDir,
	}, nil
}
