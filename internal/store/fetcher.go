package store

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog"

	"github.com/urbanbloom/bloomgrid/internal/hexgrid"
)

// FetchError reports a failed distribution fetch: network failure,
// non-success status, or a body that is not a valid feature collection.
type FetchError struct {
	Month      string
	StatusCode int // 0 when the request never completed
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s distribution: status %d", e.Month, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s distribution: %v", e.Month, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Fetcher loads a month's feature collection from a static HTTP host.
// Single attempt, no retry, no caching of previous months.
type Fetcher struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewFetcher creates a fetcher against a base URL, e.g.
// "https://example.org" for files under "https://example.org/geojson/".
func NewFetcher(baseURL string, timeout time.Duration, logger zerolog.Logger) *Fetcher {
	return &Fetcher{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Load fetches and parses the distribution for a month. Beyond "is a
// valid FeatureCollection" no schema validation happens here; malformed
// feature properties are tolerated downstream.
func (f *Fetcher) Load(ctx context.Context, month string) (*geojson.FeatureCollection, error) {
	url := f.URL(month)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{Month: month, Err: err}
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Month: month, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		f.logger.Warn().Str("month", month).Int("status", resp.StatusCode).Msg("distribution fetch failed")
		return nil, &FetchError{Month: month, StatusCode: resp.StatusCode, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Month: month, Err: err}
	}

	fc, err := geojson.UnmarshalFeatureCollection(body)
	if err != nil {
		return nil, &FetchError{Month: month, Err: fmt.Errorf("parse body: %w", err)}
	}

	f.logger.Debug().Str("month", month).Int("features", len(fc.Features)).Msg("distribution loaded")
	return fc, nil
}

// URL returns the request URL for a month's distribution file.
func (f *Fetcher) URL(month string) string {
	return fmt.Sprintf("%s/geojson/%s", f.baseURL, hexgrid.FileName(month, hexgrid.ShippedResolution))
}
