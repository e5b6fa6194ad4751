package grafana

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to the Grafana HTTP API with an API key.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient creates a client for the given base URL (e.g. http://host:3000).
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Health checks /api/health, which needs no auth.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/health", nil)
	if err != nil {
		return err
	}
	return c.send(req)
}

// ImportDashboard creates or updates the dashboard via /api/dashboards/db.
// Overwrite is always set so repeat pushes update in place.
func (c *Client) ImportDashboard(ctx context.Context, d Dashboard) error {
	payload, err := json.Marshal(struct {
		Dashboard Dashboard `json:"dashboard"`
		Overwrite bool      `json:"overwrite"`
	}{Dashboard: d, Overwrite: true})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/dashboards/db", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.send(req)
}

func (c *Client) send(req *http.Request) error {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(res.Body)
		msg := strings.TrimSpace(string(body))
		if msg != "" {
			return fmt.Errorf("grafana request failed: %s: %s", res.Status, msg)
		}
		return fmt.Errorf("grafana request failed: %s", res.Status)
	}
	return nil
}
