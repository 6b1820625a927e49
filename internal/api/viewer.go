package api

import (
	"context"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/paulmach/orb"

	"github.com/urbanbloom/bloomgrid/internal/hexgrid"
	"github.com/urbanbloom/bloomgrid/internal/legend"
	"github.com/urbanbloom/bloomgrid/internal/templates"
	"github.com/urbanbloom/bloomgrid/internal/viewer"
)

// ViewerHandler drives the interactive viewer over Datastar SSE: month
// selection, legend updates, and click popups.
type ViewerHandler struct {
	controller *viewer.Controller
	presenter  *viewer.Presenter
	renderer   *templates.Renderer
}

func NewViewerHandler(c *viewer.Controller, p *viewer.Presenter, r *templates.Renderer) *ViewerHandler {
	return &ViewerHandler{controller: c, presenter: p, renderer: r}
}

func (h *ViewerHandler) RegisterRoutes(api huma.API) {
	huma.Post(api, "/api/v1/viewer/ready", h.Ready, huma.OperationTags("viewer"))
	huma.Post(api, "/api/v1/viewer/month", h.SelectMonth, huma.OperationTags("viewer"))
	huma.Post(api, "/api/v1/viewer/click", h.Click, huma.OperationTags("viewer"))
}

// Ready handles the map widget's style-loaded signal: it moves the
// presenter to Ready, loads the currently selected month, and pushes the
// initial legend and viewport to the client.
func (h *ViewerHandler) Ready(ctx context.Context, input *struct{}) (*huma.StreamResponse, error) {
	return &huma.StreamResponse{
		Body: func(humaCtx huma.Context) {
			sse := NewSSE(humaCtx)

			h.presenter.Mount()
			h.presenter.StyleLoaded()

			_ = h.controller.SelectMonth(ctx, h.controller.SelectedMonth())
			h.push(sse)
		},
	}, nil
}

// SelectMonth handles a month change from the selector. A stale fetch
// superseded by a newer selection commits nothing, so the pushed state
// always reflects the latest request.
func (h *ViewerHandler) SelectMonth(ctx context.Context, input *SignalsInput) (*huma.StreamResponse, error) {
	signals, err := input.MustParse()
	if err != nil {
		return nil, err
	}
	month := signals.String("month")
	if _, ok := hexgrid.NormalizeMonth(month); !ok {
		return nil, huma.Error400BadRequest("invalid month code: " + month)
	}

	return &huma.StreamResponse{
		Body: func(humaCtx huma.Context) {
			sse := NewSSE(humaCtx)
			sse.Signals(map[string]any{"loading": true})

			_ = h.controller.SelectMonth(ctx, month)
			h.push(sse)
		},
	}, nil
}

// Click resolves a map click to a species popup.
func (h *ViewerHandler) Click(ctx context.Context, input *SignalsInput) (*huma.StreamResponse, error) {
	signals, err := input.MustParse()
	if err != nil {
		return nil, err
	}
	point := orb.Point{signals.Float("lng"), signals.Float("lat")}

	return &huma.StreamResponse{
		Body: func(humaCtx huma.Context) {
			sse := NewSSE(humaCtx)

			species, hit := h.presenter.Click(point)
			if !hit {
				sse.Signals(map[string]any{"popupvisible": false})
				return
			}
			sse.Patch(h.renderSpecies(species), "#popup-content")
			sse.Signals(map[string]any{
				"popupvisible": true,
				"popuplng":     point[0],
				"popuplat":     point[1],
			})
		},
	}, nil
}

// push sends the committed viewer state: legend fragment, selection
// signals, and the fitted viewport.
func (h *ViewerHandler) push(sse SSE) {
	entries := h.controller.Legend()
	fallback := len(entries) == 0
	if fallback {
		entries = legend.DefaultPalette()
	}
	sse.Patch(h.renderLegend(entries), "#legend-panel")

	signals := map[string]any{
		"selectedmonth": h.controller.SelectedMonth(),
		"loading":       false,
		"fetchfailed":   h.controller.ErrorState(),
		"legendcount":   len(entries),
	}
	if bound, ok := h.presenter.FitBounds(); ok {
		signals["fitbounds"] = []float64{bound.Min[0], bound.Min[1], bound.Max[0], bound.Max[1]}
		signals["fitpadding"] = viewer.FitPadding
	}
	sse.Signals(signals)
}

func (h *ViewerHandler) renderLegend(entries []legend.Entry) string {
	var buf strings.Builder
	for _, e := range entries {
		h.renderer.RenderToBuffer(&buf, "legend-item", e)
	}
	return buf.String()
}

func (h *ViewerHandler) renderSpecies(species []string) string {
	var buf strings.Builder
	h.renderer.RenderToBuffer(&buf, "species-popup", species)
	return buf.String()
}
