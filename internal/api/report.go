package api

import (
	"context"
	"net/http"
)

// ReportIssue submits a free-form issue report.
func (c *Client) ReportIssue(ctx context.Context, description string) error {
	body := map[string]string{"description": description}
	req, err := c.newRequest(ctx, http.MethodPost, "/api/report/report_issue/", body, false)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}
