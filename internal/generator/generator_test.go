package generator

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urbanbloom/bloomgrid/internal/hexgrid"
	"github.com/urbanbloom/bloomgrid/internal/legend"
)

func writeCensus(t *testing.T, dir string, trees map[string][]orb.Point) string {
	t.Helper()
	fc := geojson.NewFeatureCollection()
	for name, points := range trees {
		for _, pt := range points {
			f := geojson.NewFeature(pt)
			f.Properties = geojson.Properties{TreeNameProperty: name}
			fc.Append(f)
		}
	}
	data, err := fc.MarshalJSON()
	require.NoError(t, err)
	path := filepath.Join(dir, "census.geojson")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func writeSpecies(t *testing.T, dir string) string {
	t.Helper()
	csv := `TreeName,colour,months,prominence
Gulmohar,#e4572e,4-6,high
Jacaranda,#8e6bbf,4-4,low
`
	path := filepath.Join(dir, "species.csv")
	require.NoError(t, os.WriteFile(path, []byte(csv), 0644))
	return path
}

func TestRunProducesMonthFiles(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")

	// Two gulmohars and a jacaranda in the same city block, one
	// gulmohar far away.
	census := writeCensus(t, dir, map[string][]orb.Point{
		"Gulmohar":  {{77.5946, 12.9716}, {77.5947, 12.9717}, {77.7000, 13.0500}},
		"Jacaranda": {{77.5946, 12.9716}},
		"Unknown":   {{77.6000, 12.9800}},
	})
	species := writeSpecies(t, dir)

	summary, err := Run(context.Background(), Config{
		CensusPath:  census,
		SpeciesPath: species,
		Resolution:  8,
		OutputDir:   outDir,
	}, zerolog.Nop())
	require.NoError(t, err)

	// Unknown species is skipped, the other four trees match.
	assert.Equal(t, 4, summary.TreesMatched)
	assert.Equal(t, 1, summary.TreesSkipped)

	// Gulmohar flowers Apr-Jun, Jacaranda only Apr.
	assert.Equal(t, []string{"Apr", "May", "Jun"}, summary.MonthsWritten)

	aprData, err := os.ReadFile(filepath.Join(outDir, "h3_tree_distribution_Apr_resolution_8.geojson"))
	require.NoError(t, err)
	apr, err := geojson.UnmarshalFeatureCollection(aprData)
	require.NoError(t, err)
	require.NotEmpty(t, apr.Features)

	var sharedCell *geojson.Feature
	for _, f := range apr.Features {
		if len(hexgrid.Species(f)) == 2 {
			sharedCell = f
		}
		assert.Equal(t, "Apr", hexgrid.Month(f))
		assert.NotEmpty(t, hexgrid.H3Index(f))
		_, isPolygon := f.Geometry.(orb.Polygon)
		assert.True(t, isPolygon)
	}

	// The downtown cell mixes both species: colour is blended and the
	// species list is deduplicated.
	require.NotNil(t, sharedCell, "expected a cell holding both species")
	assert.Equal(t, hexgrid.ProminenceBlended, sharedCell.Properties[hexgrid.PropProminence])
	assert.ElementsMatch(t, []string{"Gulmohar", "Jacaranda"}, hexgrid.Species(sharedCell))
	colour, ok := sharedCell.Properties[hexgrid.PropColourHex].(string)
	require.True(t, ok)
	assert.NotEqual(t, "#e4572e", colour)
	assert.NotEqual(t, "#8e6bbf", colour)

	// May has only gulmohars, so every cell is dominant.
	mayData, err := os.ReadFile(filepath.Join(outDir, "h3_tree_distribution_May_resolution_8.geojson"))
	require.NoError(t, err)
	may, err := geojson.UnmarshalFeatureCollection(mayData)
	require.NoError(t, err)
	for _, f := range may.Features {
		assert.Equal(t, hexgrid.ProminenceDominant, f.Properties[hexgrid.PropProminence])
		assert.Equal(t, "#e4572e", f.Properties[hexgrid.PropColourHex])
	}

	// Generated files feed the legend directly.
	entries := legend.Derive(apr)
	require.Len(t, entries, 2)
	assert.Equal(t, "Gulmohar", entries[0].Species)
	assert.Equal(t, "Jacaranda", entries[1].Species)
}

func TestRunRejectsBadResolution(t *testing.T) {
	_, err := Run(context.Background(), Config{Resolution: 42}, zerolog.Nop())
	assert.Error(t, err)
}

func TestRunMissingCensus(t *testing.T) {
	_, err := Run(context.Background(), Config{
		CensusPath:  filepath.Join(t.TempDir(), "absent.geojson"),
		SpeciesPath: "species.csv",
		Resolution:  10,
	}, zerolog.Nop())
	assert.Error(t, err)
}
