// Package api defines the Huma API routes and handlers.
package api

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"github.com/danielgtaylor/huma/v2"

	"github.com/urbanbloom/bloomgrid/internal/hexgrid"
	"github.com/urbanbloom/bloomgrid/internal/legend"
	"github.com/urbanbloom/bloomgrid/internal/store"
)

// Version is the service version reported by health and info.
const Version = "0.1.0"

// Types

type MonthInput struct {
	Month string `path:"month" doc:"Month code (Jan..Dec, case-insensitive)" example:"Mar"`
}

type HealthBody struct {
	Status  string `json:"status" doc:"Health status" example:"ok"`
	Version string `json:"version" doc:"API version" example:"0.1.0"`
}

type InfoBody struct {
	Name     string   `json:"name" doc:"Service name"`
	Version  string   `json:"version" doc:"Service version"`
	DataDir  string   `json:"data_dir" doc:"Data directory path"`
	Features []string `json:"features" doc:"Available features"`
}

type MonthsOutput struct {
	Body []store.MonthFile
}

type DistributionOutput struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}

type LegendBody struct {
	Month    string         `json:"month" doc:"Month code"`
	Entries  []legend.Entry `json:"entries" doc:"Species legend, sorted by species name"`
	Fallback bool           `json:"fallback" doc:"True when the default palette was substituted"`
}

// APIHandler holds all REST API handlers.
type APIHandler struct {
	store   *store.Store
	dataDir string
}

func NewAPIHandler(s *store.Store, dataDir string) *APIHandler {
	return &APIHandler{store: s, dataDir: dataDir}
}

// RegisterRoutes registers all JSON API routes.
func (h *APIHandler) RegisterRoutes(api huma.API) {
	huma.Get(api, "/health", h.GetHealth, huma.OperationTags("health"))
	huma.Get(api, "/api/v1/info", h.GetInfo, huma.OperationTags("health"))
	huma.Get(api, "/api/v1/months", h.GetMonths, huma.OperationTags("distribution"))
	huma.Get(api, "/api/v1/distribution/{month}", h.GetDistribution, huma.OperationTags("distribution"))
	huma.Get(api, "/api/v1/legend/{month}", h.GetLegend, huma.OperationTags("distribution"))
}

// Handlers

func (h *APIHandler) GetHealth(ctx context.Context, input *struct{}) (*struct{ Body HealthBody }, error) {
	return &struct{ Body HealthBody }{Body: HealthBody{Status: "ok", Version: Version}}, nil
}

func (h *APIHandler) GetInfo(ctx context.Context, input *struct{}) (*struct{ Body InfoBody }, error) {
	return &struct{ Body InfoBody }{Body: InfoBody{
		Name:     "bloomgrid",
		Version:  Version,
		DataDir:  h.dataDir,
		Features: []string{"h3", "geojson", "legend", "duckdb"},
	}}, nil
}

func (h *APIHandler) GetMonths(ctx context.Context, input *struct{}) (*MonthsOutput, error) {
	files, err := h.store.Months()
	if err != nil {
		return nil, huma.Error500InternalServerError("listing distribution files", err)
	}
	return &MonthsOutput{Body: files}, nil
}

// GetDistribution serves a month's feature collection verbatim, as
// published on disk.
func (h *APIHandler) GetDistribution(ctx context.Context, input *MonthInput) (*DistributionOutput, error) {
	month, ok := hexgrid.NormalizeMonth(input.Month)
	if !ok {
		return nil, huma.Error400BadRequest("invalid month code: " + input.Month)
	}

	data, err := os.ReadFile(h.store.Path(month))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, huma.Error404NotFound("no distribution for " + month)
		}
		return nil, huma.Error500InternalServerError("reading distribution", err)
	}
	return &DistributionOutput{ContentType: "application/geo+json", Body: data}, nil
}

func (h *APIHandler) GetLegend(ctx context.Context, input *MonthInput) (*struct{ Body LegendBody }, error) {
	month, ok := hexgrid.NormalizeMonth(input.Month)
	if !ok {
		return nil, huma.Error400BadRequest("invalid month code: " + input.Month)
	}

	fc, err := h.store.Read(month)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, huma.Error404NotFound("no distribution for " + month)
		}
		return nil, huma.Error500InternalServerError("reading distribution", err)
	}

	entries := legend.Derive(fc)
	body := LegendBody{Month: month, Entries: entries}
	if len(entries) == 0 {
		body.Entries = legend.DefaultPalette()
		body.Fallback = true
	}
	return &struct{ Body LegendBody }{Body: body}, nil
}
