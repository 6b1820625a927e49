package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const marBody = `{
	"type": "FeatureCollection",
	"features": [{
		"type": "Feature",
		"geometry": {"type": "Polygon", "coordinates": [[[77.59,12.97],[77.60,12.97],[77.60,12.98],[77.59,12.97]]]},
		"properties": {"h3_index": "8a61892c2c37fff", "colour_hex": "#e4572e", "tree_species": ["Gulmohar"], "prominence": "high", "month": "Mar", "resolution": 10}
	}]
}`

// One server for all subtests: metrics register with the default
// Prometheus registry, so constructing two servers in one binary panics.
func TestServerEndpoints(t *testing.T) {
	dataDir := t.TempDir()
	geojsonDir := filepath.Join(dataDir, "geojson")
	require.NoError(t, os.MkdirAll(geojsonDir, 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(geojsonDir, "h3_tree_distribution_Mar_resolution_10.geojson"),
		[]byte(marBody), 0o644))

	srv := New(Config{
		Host:    "127.0.0.1",
		Port:    "0",
		DataDir: dataDir,
		Logger:  zerolog.Nop(),
	})
	ts := httptest.NewServer(srv)
	defer ts.Close()
	defer srv.Close()

	get := func(t *testing.T, path string) (*http.Response, []byte) {
		t.Helper()
		resp, err := http.Get(ts.URL + path)
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		resp.Body.Close()
		return resp, body
	}

	t.Run("health", func(t *testing.T) {
		resp, body := get(t, "/health")
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var health struct {
			Status  string `json:"status"`
			Version string `json:"version"`
		}
		require.NoError(t, json.Unmarshal(body, &health))
		assert.Equal(t, "ok", health.Status)
	})

	t.Run("months lists published files in calendar order", func(t *testing.T) {
		resp, body := get(t, "/api/v1/months")
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var months []struct {
			Month      string `json:"month"`
			Resolution int    `json:"resolution"`
			Name       string `json:"name"`
		}
		require.NoError(t, json.Unmarshal(body, &months))
		require.Len(t, months, 1)
		assert.Equal(t, "Mar", months[0].Month)
		assert.Equal(t, 10, months[0].Resolution)
		assert.Equal(t, "h3_tree_distribution_Mar_resolution_10.geojson", months[0].Name)
	})

	t.Run("legend for a published month", func(t *testing.T) {
		resp, body := get(t, "/api/v1/legend/Mar")
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var legend struct {
			Month    string `json:"month"`
			Fallback bool   `json:"fallback"`
			Entries  []struct {
				Species string `json:"species"`
				Color   string `json:"color"`
			} `json:"entries"`
		}
		require.NoError(t, json.Unmarshal(body, &legend))
		assert.Equal(t, "Mar", legend.Month)
		assert.False(t, legend.Fallback)
		require.Len(t, legend.Entries, 1)
		assert.Equal(t, "Gulmohar", legend.Entries[0].Species)
		assert.Equal(t, "#e4572e", legend.Entries[0].Color)
	})

	t.Run("legend normalizes month casing", func(t *testing.T) {
		resp, body := get(t, "/api/v1/legend/mar")
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var legend struct {
			Month string `json:"month"`
		}
		require.NoError(t, json.Unmarshal(body, &legend))
		assert.Equal(t, "Mar", legend.Month)
	})

	t.Run("distribution endpoint returns the published file", func(t *testing.T) {
		resp, body := get(t, "/api/v1/distribution/Mar")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, marBody, string(body))
	})

	t.Run("legend for a missing month is 404", func(t *testing.T) {
		resp, _ := get(t, "/api/v1/legend/Dec")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("legend for an invalid month code is 400", func(t *testing.T) {
		resp, _ := get(t, "/api/v1/legend/Marchish")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("distribution files served with CORS", func(t *testing.T) {
		resp, body := get(t, "/geojson/h3_tree_distribution_Mar_resolution_10.geojson")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
		assert.JSONEq(t, marBody, string(body))
	})

	t.Run("metrics endpoint", func(t *testing.T) {
		resp, _ := get(t, "/metrics")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("root status", func(t *testing.T) {
		resp, body := get(t, "/")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, string(body), `"service":"bloomgrid"`)
	})
}
