package store

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const marBody = `{"type":"FeatureCollection","features":[{"type":"Feature","geometry":{"type":"Polygon","coordinates":[[[77.59,12.97],[77.60,12.97],[77.60,12.98],[77.59,12.97]]]},"properties":{"h3_index":"8a61892e6c37fff","colour_hex":"#e4572e","tree_species":["Gulmohar"],"month":"Mar","resolution":10}}]}`

func newTestFetcher(baseURL string) *Fetcher {
	return NewFetcher(baseURL, 2*time.Second, zerolog.Nop())
}

func TestFetcherLoad(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/geojson/h3_tree_distribution_Mar_resolution_10.geojson", r.URL.Path)
		w.Header().Set("Content-Type", "application/geo+json")
		w.Write([]byte(marBody))
	}))
	defer srv.Close()

	fc, err := newTestFetcher(srv.URL).Load(context.Background(), "Mar")

	require.NoError(t, err)
	require.Len(t, fc.Features, 1)
	assert.Equal(t, "#e4572e", fc.Features[0].Properties["colour_hex"])
}

func TestFetcherLoadNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := newTestFetcher(srv.URL).Load(context.Background(), "Apr")

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "Apr", fetchErr.Month)
	assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
}

func TestFetcherLoadInvalidBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not geojson</html>"))
	}))
	defer srv.Close()

	_, err := newTestFetcher(srv.URL).Load(context.Background(), "May")

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Zero(t, fetchErr.StatusCode)
	assert.Contains(t, fetchErr.Error(), "May")
}

func TestFetcherLoadNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	_, err := newTestFetcher(srv.URL).Load(context.Background(), "Jun")

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	require.Error(t, errors.Unwrap(fetchErr))
}
