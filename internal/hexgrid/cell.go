package hexgrid

import (
	"strings"

	"github.com/paulmach/orb/geojson"
)

// Feature property keys written by the generator and read by the viewer.
const (
	PropH3Index    = "h3_index"
	PropColourHex  = "colour_hex"
	PropColourName = "color_name"
	PropSpecies    = "tree_species"
	PropProminence = "prominence"
	PropMonth      = "month"
	PropResolution = "resolution"
)

// Prominence values for a cell's colour provenance.
const (
	ProminenceBlended  = "blended"  // colour is a weighted blend of several species
	ProminenceDominant = "dominant" // a single colour contributed to the cell
)

// ColourHex returns the feature's render colour, or "" when absent or
// not a string. Downstream styling substitutes a neutral fallback.
func ColourHex(f *geojson.Feature) string {
	if f == nil || f.Properties == nil {
		return ""
	}
	return propString(f, PropColourHex)
}

// Species returns the feature's tree species list. Values arriving from
// JSON decode as []interface{}; generator-built collections carry
// []string. Non-string members are dropped, never an error.
func Species(f *geojson.Feature) []string {
	if f == nil || f.Properties == nil {
		return nil
	}
	switch v := f.Properties[PropSpecies].(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// H3Index returns the cell identifier. It is treated as opaque by the
// viewer; only the generator derives it from coordinates.
func H3Index(f *geojson.Feature) string {
	if f == nil || f.Properties == nil {
		return ""
	}
	return propString(f, PropH3Index)
}

// Month returns the feature's month code, or "" when absent.
func Month(f *geojson.Feature) string {
	if f == nil || f.Properties == nil {
		return ""
	}
	return propString(f, PropMonth)
}

func propString(f *geojson.Feature, key string) string {
	if v, ok := f.Properties[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}
