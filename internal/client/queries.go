package client

import (
	"context"
	"log/slog"
)

const anonymousQueryLimit = 5

// QueryStatus reports how many free queries remain before the backend asks
// the user to register. Advisory only on this side; enforcement, if any,
// is the server's call.
type QueryStatus struct {
	CanQuery             bool   `json:"can_query"`
	Remaining            int    `json:"remaining"`
	Limit                int    `json:"limit"`
	Used                 int    `json:"used"`
	RequiresRegistration bool   `json:"requires_registration"`
	Message              string `json:"message,omitempty"`
}

type QueryRecordResponse struct {
	Message              string `json:"message"`
	Remaining            int    `json:"remaining"`
	RequiresRegistration bool   `json:"requires_registration"`
}

// GetQueryStatus fetches the current quota. When the endpoint is
// unreachable it falls back to the permissive anonymous default rather
// than blocking the user.
func (c *Client) GetQueryStatus(ctx context.Context) *QueryStatus {
	status := QueryStatus{}
	if err := c.getJSON(ctx, "/api/queries/status", &status); err != nil {
		slog.Warn("Failed to get query status, assuming anonymous default", "error", err)
		return &QueryStatus{
			CanQuery:  true,
			Remaining: anonymousQueryLimit,
			Limit:     anonymousQueryLimit,
		}
	}
	return &status
}

// RecordQuery counts one query against the quota.
func (c *Client) RecordQuery(ctx context.Context) (*QueryRecordResponse, error) {
	resp := QueryRecordResponse{}
	if err := c.postJSON(ctx, "/api/queries/record", nil, &resp); err != nil {
		slog.Error("Failed to record query", "error", err)
		return nil, err
	}
	return &resp, nil
}
