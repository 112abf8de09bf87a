package report

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Client reads submitted reports back from the server for the dashboard
// command.
type Client struct {
	base   string
	client *http.Client
}

// NewClient builds a read client for the given server base URL.
func NewClient(base string) *Client {
	return &Client{
		base:   strings.TrimRight(base, "/"),
		client: &http.Client{},
	}
}

// Reports fetches every report the server exposes at /api/reports.
func (c *Client) Reports(ctx context.Context) ([]Report, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/api/reports", nil)
	if err != nil {
		return nil, fmt.Errorf("report: build request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("report: fetch reports: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("report: server answered %d", resp.StatusCode)
	}

	var reports []Report
	if err := json.NewDecoder(resp.Body).Decode(&reports); err != nil {
		return nil, fmt.Errorf("report: decode reports: %w", err)
	}
	return reports, nil
}

// Filter keeps the reports matching the given incident type and status;
// empty selectors match everything.
func Filter(reports []Report, incidentType, status string) []Report {
	out := make([]Report, 0, len(reports))
	for _, r := range reports {
		if incidentType != "" && r.IncidentType != incidentType {
			continue
		}
		if status != "" && r.Status != status {
			continue
		}
		out = append(out, r)
	}
	return out
}
