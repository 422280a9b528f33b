package octomind

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// GetTestReport returns a single report with its nested results and steps.
func (c *Client) GetTestReport(ctx context.Context, testTargetID, reportID string) (*TestReport, error) {
	u := fmt.Sprintf("%s/apiKey/v2/test-targets/%s/test-reports/%s", c.baseURL, testTargetID, reportID)

	var report TestReport
	if err := c.doJSON(ctx, "GET", u, "get test report", nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// ListTestReports returns one page of reports for a target. key is the keyset
// cursor from the previous page (nil on the first request); filters restrict
// the listing (see EnvironmentFilter). Both are JSON-encoded query parameters.
func (c *Client) ListTestReports(ctx context.Context, testTargetID string, key *ReportKey, filters []FilterClause) (*TestReportsPage, error) {
	params := url.Values{}
	if key != nil {
		encoded, err := json.Marshal(key)
		if err != nil {
			return nil, fmt.Errorf("list test reports: marshal key: %w", err)
		}
		params.Set("key", string(encoded))
	}
	if len(filters) > 0 {
		encoded, err := json.Marshal(filters)
		if err != nil {
			return nil, fmt.Errorf("list test reports: marshal filter: %w", err)
		}
		params.Set("filter", string(encoded))
	}

	u := fmt.Sprintf("%s/apiKey/v2/test-targets/%s/test-reports", c.baseURL, testTargetID)
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var page TestReportsPage
	if err := c.doJSON(ctx, "GET", u, "list test reports", nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// ListAllTestReports enumerates reports for a target, auto-paginating with
// the server's keyset cursor. maxReports caps the result (0 = unbounded);
// when the cap is exceeded the accumulated list is truncated to exactly that
// count after the final page.
//
// The loop is defensive against a misbehaving server: pages are de-duplicated
// by report ID, and a page that contributes nothing new (all duplicates, or
// empty despite hasNextPage) terminates the loop with a warning rather than
// spinning forever. Server ordering is preserved.
func (c *Client) ListAllTestReports(ctx context.Context, testTargetID string, maxReports int, filters []FilterClause) ([]TestReport, error) {
	var all []TestReport
	seen := make(map[string]bool)
	var key *ReportKey

	for {
		page, err := c.ListTestReports(ctx, testTargetID, key, filters)
		if err != nil {
			return nil, fmt.Errorf("list all test reports: %w", err)
		}

		fresh := 0
		for _, report := range page.TestReports {
			if seen[report.ID] {
				continue
			}
			seen[report.ID] = true
			all = append(all, report)
			fresh++
		}

		if len(page.TestReports) > 0 && fresh == 0 {
			c.logger.WarnContext(ctx, "pagination returned only duplicate reports, stopping",
				"testTargetId", testTargetID, "accumulated", len(all))
			break
		}

		if !page.HasNextPage {
			break
		}
		if fresh == 0 {
			// hasNextPage with an empty page; advancing the cursor would loop.
			c.logger.WarnContext(ctx, "pagination reported more pages but returned no reports, stopping",
				"testTargetId", testTargetID, "accumulated", len(all))
			break
		}
		if maxReports > 0 && len(all) >= maxReports {
			break
		}
		key = page.Key
	}

	if maxReports > 0 && len(all) > maxReports {
		all = all[:maxReports]
	}
	return all, nil
}
