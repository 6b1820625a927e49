// Package bloomclient is a small client SDK for the bloomgrid API.
package bloomclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Client talks to a running bloomgrid server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the server at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type Health struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type Info struct {
	Name     string   `json:"name"`
	Version  string   `json:"version"`
	DataDir  string   `json:"data_dir"`
	Features []string `json:"features"`
}

type MonthFile struct {
	Month      string `json:"month"`
	Resolution int    `json:"resolution"`
	Name       string `json:"name"`
	Size       string `json:"size"`
}

type LegendEntry struct {
	Species string `json:"species"`
	Color   string `json:"color"`
}

type Legend struct {
	Month    string        `json:"month"`
	Entries  []LegendEntry `json:"entries"`
	Fallback bool          `json:"fallback"`
}

// Health checks server liveness.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var out Health
	if err := c.get(ctx, "/health", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Info returns service metadata.
func (c *Client) Info(ctx context.Context) (*Info, error) {
	var out Info
	if err := c.get(ctx, "/api/v1/info", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Months lists the published distribution files in calendar order.
func (c *Client) Months(ctx context.Context) ([]MonthFile, error) {
	var out []MonthFile
	if err := c.get(ctx, "/api/v1/months", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Legend returns the derived species legend for a month.
func (c *Client) Legend(ctx context.Context, month string) (*Legend, error) {
	var out Legend
	if err := c.get(ctx, "/api/v1/legend/"+month, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: unexpected status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
