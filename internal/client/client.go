package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/orakh/orakhui/internal/config"
	"github.com/orakh/orakhui/internal/store"
)

const JSONContentType = "application/json"

// The conversation endpoint can be slow right after a cold start; a hung
// request is cut off here and surfaces like any other request failure.
const requestTimeout = 60 * time.Second

// ApiErrorResponse is the error body the backend returns on non-2xx.
type ApiErrorResponse struct {
	Detail string `json:"detail"`
}

// Client talks to the Orakh backend API.
type Client struct {
	httpClient *http.Client
	Config     *config.Config
	Store      *store.Store
}

// NewClient creates a new API Client
func NewClient(cfg *config.Config, st *store.Store) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		Config:     cfg,
		Store:      st,
	}
}

// postJSON sends payload to path and decodes the response into out when out
// is non-nil. The persisted bearer token, when present, rides along.
func (c *Client) postJSON(ctx context.Context, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		reqBytes, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewBuffer(reqBytes)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Config.BaseURL+path, body)
	if err != nil {
		slog.Error("Failed to build request", "path", path, "error", err)
		return err
	}
	return c.do(req, out)
}

// getJSON issues a GET against path and decodes the response into out.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Config.BaseURL+path, nil)
	if err != nil {
		slog.Error("Failed to build request", "path", path, "error", err)
		return err
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Content-Type", JSONContentType)
	req.Header.Set("Accept", JSONContentType)
	if token, ok := c.Store.Token(); ok {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		slog.Error("Failed to send request", "path", req.URL.Path, "error", err)
		return err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		slog.Error("Failed to read response body", "error", err)
		return err
	}

	if err := handleApiError(res, body); err != nil {
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		slog.Error("Failed to unmarshal response body", "path", req.URL.Path, "error", err)
		return err
	}
	return nil
}

func handleApiError(res *http.Response, body []byte) error {
	if res.StatusCode >= 200 && res.StatusCode < 300 {
		return nil
	}
	apiErr := ApiErrorResponse{}
	if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.Detail == "" {
		return fmt.Errorf("Api request failed: status code %d", res.StatusCode)
	}
	return fmt.Errorf("Api request failed: status code %d, detail %s", res.StatusCode, apiErr.Detail)
}
