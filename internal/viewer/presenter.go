// Package viewer owns the map presentation lifecycle and the month
// selection flow that feeds it.
package viewer

import (
	"sync"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"

	"github.com/urbanbloom/bloomgrid/internal/hexgrid"
)

// State is the presenter lifecycle state.
type State int

const (
	StateUninitialized State = iota
	StateInitializing        // widget constructed, basemap style loading
	StateReady               // source and layers attached
	StateClosed
)

// Viewport is a map camera position.
type Viewport struct {
	Center orb.Point `json:"center" doc:"Viewport center [lng, lat]"`
	Zoom   float64   `json:"zoom" doc:"Viewport zoom level"`
}

// BangaloreViewport is the fixed initial viewport covering the city.
var BangaloreViewport = Viewport{Center: orb.Point{77.5946, 12.9716}, Zoom: 11}

// FitPadding is the fixed padding (px) applied when fitting the viewport
// to a collection's bounds.
const FitPadding = 40

// NeutralFill is the fill colour used when a feature has no colour_hex.
const NeutralFill = "#cccccc"

// Presenter owns the map widget binding: lifecycle state, the bound data
// source, and the fitted viewport. Interaction handlers are attached
// exactly once per instance, guarded by an explicit boolean field.
type Presenter struct {
	mu sync.Mutex

	state            State
	viewport         Viewport
	sourceCreated    bool
	handlersAttached bool

	// pending holds a collection delivered before the style finished
	// loading; the Ready transition picks it up.
	pending *geojson.FeatureCollection
	source  *geojson.FeatureCollection

	bounds    orb.Bound
	hasBounds bool
}

// NewPresenter creates an unmounted presenter with an initial viewport.
func NewPresenter(initial Viewport) *Presenter {
	return &Presenter{
		state:    StateUninitialized,
		viewport: initial,
	}
}

// Mount constructs the widget against the basemap style. No-op outside
// StateUninitialized.
func (p *Presenter) Mount() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != StateUninitialized {
		return
	}
	p.state = StateInitializing
}

// StyleLoaded handles the widget's style-loaded signal: creates the data
// source from the retained collection (or an empty one) and attaches the
// interaction handlers. Safe to call more than once; the source and
// handlers are only set up the first time.
func (p *Presenter) StyleLoaded() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != StateInitializing {
		return
	}
	p.state = StateReady

	if !p.sourceCreated {
		if p.pending != nil {
			p.setSource(p.pending)
			p.pending = nil
		} else {
			p.source = geojson.NewFeatureCollection()
		}
		p.sourceCreated = true
	}
	if !p.handlersAttached {
		p.handlersAttached = true
	}
}

// UpdateData replaces the bound source data wholesale and refits the
// viewport bounds. Before Ready the collection is retained for the
// pending style-load transition; after Close it is dropped.
func (p *Presenter) UpdateData(fc *geojson.FeatureCollection) {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch p.state {
	case StateReady:
		p.setSource(fc)
	case StateClosed:
		// released, nothing fires anymore
	default:
		p.pending = fc
	}
}

// setSource commits a collection and recomputes the fit bounds.
// Callers hold p.mu.
func (p *Presenter) setSource(fc *geojson.FeatureCollection) {
	p.source = fc
	p.bounds, p.hasBounds = CollectionBounds(fc)
}

// FitBounds returns the bounds covering every polygon vertex of the
// current source, false when no polygon has been loaded.
func (p *Presenter) FitBounds() (orb.Bound, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.bounds, p.hasBounds
}

// Source returns the currently bound collection, nil before the source
// is created.
func (p *Presenter) Source() *geojson.FeatureCollection {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.source
}

// Viewport returns the initial camera position.
func (p *Presenter) Viewport() Viewport {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.viewport
}

// State returns the lifecycle state.
func (p *Presenter) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// HandlersAttached reports whether the interaction handlers are bound.
func (p *Presenter) HandlersAttached() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.handlersAttached
}

// Click resolves a click to the species list of the topmost feature
// under the point. Later features render on top, so the list is walked
// in reverse. Returns false when nothing is hit or the presenter is not
// interactive.
func (p *Presenter) Click(point orb.Point) ([]string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != StateReady || !p.handlersAttached || p.source == nil {
		return nil, false
	}

	for i := len(p.source.Features) - 1; i >= 0; i-- {
		f := p.source.Features[i]
		if f == nil {
			continue
		}
		if featureContains(f, point) {
			return hexgrid.Species(f), true
		}
	}
	return nil, false
}

// Close releases the widget. Further calls on the presenter are no-ops.
func (p *Presenter) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = StateClosed
	p.pending = nil
	p.source = nil
	p.hasBounds = false
}

func featureContains(f *geojson.Feature, point orb.Point) bool {
	switch geom := f.Geometry.(type) {
	case orb.Polygon:
		return planar.PolygonContains(geom, point)
	case orb.MultiPolygon:
		return planar.MultiPolygonContains(geom, point)
	default:
		return false
	}
}

// CollectionBounds accumulates the bounding box over every ring-0 vertex
// of every Polygon feature. Non-Polygon geometries are ignored; false is
// returned when no vertex was seen.
func CollectionBounds(fc *geojson.FeatureCollection) (orb.Bound, bool) {
	var bound orb.Bound
	found := false

	if fc == nil {
		return bound, false
	}
	for _, f := range fc.Features {
		if f == nil {
			continue
		}
		poly, ok := f.Geometry.(orb.Polygon)
		if !ok || len(poly) == 0 {
			continue
		}
		for _, pt := range poly[0] {
			if !found {
				bound = orb.Bound{Min: pt, Max: pt}
				found = true
				continue
			}
			bound = bound.Extend(pt)
		}
	}
	return bound, found
}
