// Package generator builds the per-month H3 hexagon distribution files
// from a tree census and a species attribute table. It is the offline
// collaborator behind the viewer's data file contract.
package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog"
	"github.com/uber/h3-go/v4"

	"github.com/urbanbloom/bloomgrid/internal/db"
	"github.com/urbanbloom/bloomgrid/internal/hexgrid"
)

// TreeNameProperty is the census property holding the species name.
const TreeNameProperty = "TreeName"

// Config holds the generator inputs and output target.
type Config struct {
	CensusPath  string // tree census GeoJSON (point per tree)
	SpeciesPath string // species attribute table (.parquet or .csv)
	Resolution  int    // H3 resolution for binning
	OutputDir   string // directory receiving the per-month files
}

// Summary reports what a run produced.
type Summary struct {
	TreesMatched  int
	TreesSkipped  int
	MonthsWritten []string
	CellsPerMonth map[string]int
}

// cellGroup accumulates the trees binned into one H3 cell for one month.
type cellGroup struct {
	members []weightedColour
	species []string
	colours map[string]struct{}
	seen    map[string]struct{}
}

// Run executes the full pipeline: census × species join, per-month H3
// binning, prominence-weighted colour blending, and file output.
func Run(ctx context.Context, cfg Config, logger zerolog.Logger) (Summary, error) {
	summary := Summary{CellsPerMonth: map[string]int{}}

	if cfg.Resolution < 0 || cfg.Resolution > 15 {
		return summary, fmt.Errorf("resolution %d outside H3 range 0..15", cfg.Resolution)
	}

	censusData, err := os.ReadFile(cfg.CensusPath)
	if err != nil {
		return summary, fmt.Errorf("reading census: %w", err)
	}
	census, err := geojson.UnmarshalFeatureCollection(censusData)
	if err != nil {
		return summary, fmt.Errorf("parsing census: %w", err)
	}

	conn, err := db.Open()
	if err != nil {
		return summary, err
	}
	defer conn.Close()

	species, err := LoadSpeciesTable(conn, cfg.SpeciesPath)
	if err != nil {
		return summary, err
	}
	logger.Info().Int("species", len(species)).Int("trees", len(census.Features)).Msg("inputs loaded")

	// months -> cell index -> group
	buckets := make(map[string]map[h3.Cell]*cellGroup)

	for _, f := range census.Features {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		point, ok := f.Geometry.(orb.Point)
		if !ok {
			summary.TreesSkipped++
			continue
		}
		name, _ := f.Properties[TreeNameProperty].(string)
		row, ok := species[name]
		if !ok {
			summary.TreesSkipped++
			continue
		}
		colour, err := parseHexColour(row.ColourHex)
		if err != nil {
			summary.TreesSkipped++
			continue
		}
		summary.TreesMatched++

		cell := h3.LatLngToCell(h3.NewLatLng(point.Lat(), point.Lon()), cfg.Resolution)

		for i, flowering := range row.Flowering {
			if !flowering {
				continue
			}
			month := hexgrid.Months[i]
			cells := buckets[month]
			if cells == nil {
				cells = make(map[h3.Cell]*cellGroup)
				buckets[month] = cells
			}
			group := cells[cell]
			if group == nil {
				group = &cellGroup{
					colours: map[string]struct{}{},
					seen:    map[string]struct{}{},
				}
				cells[cell] = group
			}
			group.members = append(group.members, weightedColour{
				colour: colour,
				weight: prominenceWeight(row.Prominence),
			})
			group.colours[row.ColourHex] = struct{}{}
			if _, dup := group.seen[name]; !dup {
				group.seen[name] = struct{}{}
				group.species = append(group.species, name)
			}
		}
	}

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return summary, err
	}

	for _, month := range hexgrid.Months {
		cells := buckets[month]
		if len(cells) == 0 {
			logger.Info().Str("month", month).Msg("no flowering trees, skipping")
			continue
		}

		fc := geojson.NewFeatureCollection()
		for cell, group := range cells {
			blended, ok := blendColours(group.members)
			if !ok {
				continue
			}

			prominence := hexgrid.ProminenceBlended
			if len(group.colours) == 1 {
				prominence = hexgrid.ProminenceDominant
			}

			f := geojson.NewFeature(cellPolygon(cell))
			f.Properties = geojson.Properties{
				hexgrid.PropH3Index:    cell.String(),
				hexgrid.PropColourHex:  formatHexColour(blended),
				hexgrid.PropColourName: nearestColourName(blended),
				hexgrid.PropSpecies:    group.species,
				hexgrid.PropProminence: prominence,
				hexgrid.PropMonth:      month,
				hexgrid.PropResolution: cfg.Resolution,
			}
			fc.Append(f)
		}

		if len(fc.Features) == 0 {
			continue
		}

		name := hexgrid.FileName(month, cfg.Resolution)
		if err := writeCollection(filepath.Join(cfg.OutputDir, name), fc); err != nil {
			return summary, fmt.Errorf("writing %s: %w", name, err)
		}

		summary.MonthsWritten = append(summary.MonthsWritten, month)
		summary.CellsPerMonth[month] = len(fc.Features)
		logger.Info().Str("month", month).Int("cells", len(fc.Features)).Str("file", name).Msg("distribution written")
	}

	return summary, nil
}

// cellPolygon converts an H3 cell boundary to a closed GeoJSON polygon
// in lng/lat order.
func cellPolygon(cell h3.Cell) orb.Polygon {
	boundary := cell.Boundary()
	ring := make(orb.Ring, 0, len(boundary)+1)
	for _, ll := range boundary {
		ring = append(ring, orb.Point{ll.Lng, ll.Lat})
	}
	if len(ring) > 0 {
		ring = append(ring, ring[0])
	}
	return orb.Polygon{ring}
}

func writeCollection(path string, fc *geojson.FeatureCollection) error {
	data, err := json.Marshal(fc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
