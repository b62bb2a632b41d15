// Package api implements the REST side of the transport client. Every
// operation is single-shot: retry policy belongs to the caller.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/KenLuoph/Gemini-Hackathon/internal/plan"
)

// Client issues plan-domain operations against the backend. It holds no
// mutable state beyond the transport handle and is safe for concurrent use.
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient constructs a REST client. A nil httpClient selects a default
// transport; tests inject the httptest server's client.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = defaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Prefix == "" {
		cfg.Prefix = defaultPrefix
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{cfg: cfg, http: httpClient}
}

// GeneratePlan asks the backend to generate a plan for the given intent.
// A decoded envelope is returned for both accepted and rejected intents;
// transport and HTTP failures surface as *APIError.
func (c *Client) GeneratePlan(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	if req.Preferences != nil && req.Preferences.Empty() {
		req.Preferences = nil
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, &APIError{Message: fmt.Sprintf("encode request: %v", err)}
	}

	resp, cancel, err := c.do(ctx, http.MethodPost, "/plan/generate", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer cancel()
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var out GenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &APIError{Message: fmt.Sprintf("decode response: %v", err)}
	}
	return &out, nil
}

// ConfirmPlan confirms a verified plan and returns the raw response map. The
// caller inspects the monitoring_started field.
func (c *Client) ConfirmPlan(ctx context.Context, planID string) (map[string]any, error) {
	resp, cancel, err := c.do(ctx, http.MethodPost, "/plan/"+planID+"/confirm", nil)
	if err != nil {
		return nil, err
	}
	defer cancel()
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &APIError{Message: fmt.Sprintf("decode response: %v", err)}
	}
	return out, nil
}

// GetPlan fetches a plan by id.
func (c *Client) GetPlan(ctx context.Context, planID string) (*plan.TripPlan, error) {
	resp, cancel, err := c.do(ctx, http.MethodGet, "/plan/"+planID, nil)
	if err != nil {
		return nil, err
	}
	defer cancel()
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, &APIError{Status: http.StatusNotFound, Message: "plan " + planID + " not found"}
	default:
		return nil, statusError(resp)
	}

	var out plan.TripPlan
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &APIError{Message: fmt.Sprintf("decode response: %v", err)}
	}
	return &out, nil
}

// do issues the request on a context bounded by the configured timeout. The
// returned cancel releases the deadline once the body has been consumed.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, context.CancelFunc, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+c.cfg.Prefix+path, body)
	if err != nil {
		cancel()
		return nil, nil, &APIError{Message: fmt.Sprintf("build request: %v", err)}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		cancel()
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, nil, &APIError{Status: http.StatusRequestTimeout, Message: "request timed out"}
		}
		return nil, nil, &APIError{Message: err.Error()}
	}
	return resp, cancel, nil
}

func statusError(resp *http.Response) *APIError {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	msg := strings.TrimSpace(string(snippet))
	if msg == "" {
		msg = resp.Status
	}
	return &APIError{Status: resp.StatusCode, Message: msg}
}
