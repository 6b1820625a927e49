package hexgrid

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// DemoCollection returns the built-in demonstration collection: two
// hexagon cells over central Bangalore with fixed colours. The view
// controller substitutes it after a fetch failure so the map and legend
// stay populated without a backend.
func DemoCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	fc.Append(demoCell(
		"8a61892e6c37fff",
		orb.Point{77.5946, 12.9716},
		"#e4572e",
		"Flame Orange",
		[]string{"Gulmohar"},
	))
	fc.Append(demoCell(
		"8a61892e6d9ffff",
		orb.Point{77.6100, 12.9650},
		"#8e6bbf",
		"Jacaranda Purple",
		[]string{"Jacaranda", "Tabebuia"},
	))

	return fc
}

// demoCell builds a flat-ish hexagon around a center point. Close enough
// to a real H3 cell outline for display purposes.
func demoCell(index string, center orb.Point, colour, colourName string, species []string) *geojson.Feature {
	const r = 0.004
	ring := orb.Ring{
		{center[0] + r, center[1]},
		{center[0] + r/2, center[1] + r},
		{center[0] - r/2, center[1] + r},
		{center[0] - r, center[1]},
		{center[0] - r/2, center[1] - r},
		{center[0] + r/2, center[1] - r},
		{center[0] + r, center[1]},
	}

	f := geojson.NewFeature(orb.Polygon{ring})
	f.Properties = geojson.Properties{
		PropH3Index:    index,
		PropColourHex:  colour,
		PropColourName: colourName,
		PropSpecies:    species,
		PropProminence: ProminenceDominant,
		PropResolution: ShippedResolution,
	}
	return f
}
