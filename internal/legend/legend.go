// Package legend derives the species-to-colour display legend from a
// hexagon feature collection.
package legend

import (
	"sort"
	"strings"

	"github.com/paulmach/orb/geojson"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/urbanbloom/bloomgrid/internal/hexgrid"
)

// Entry maps one species name to its display colour.
type Entry struct {
	Species string `json:"species" doc:"Tree species name" example:"Gulmohar"`
	Color   string `json:"color" doc:"Display colour (#rrggbb)" example:"#e4572e"`
}

// Derive scans a feature collection and returns the deduplicated, sorted
// legend. Features lacking a species list or a colour are skipped; the
// first colour seen for a species wins, in collection order. Entries are
// sorted by species name with locale-aware collation. Nil or malformed
// input yields an empty slice, never an error, and the result is a pure
// function of the input collection.
func Derive(fc *geojson.FeatureCollection) []Entry {
	colours := map[string]string{}

	if fc != nil {
		for _, f := range fc.Features {
			colour := hexgrid.ColourHex(f)
			species := hexgrid.Species(f)
			if colour == "" || len(species) == 0 {
				continue
			}
			for _, name := range species {
				name = strings.TrimSpace(name)
				if name == "" {
					continue
				}
				if _, seen := colours[name]; !seen {
					colours[name] = colour
				}
			}
		}
	}

	entries := make([]Entry, 0, len(colours))
	for name, colour := range colours {
		entries = append(entries, Entry{Species: name, Color: colour})
	}

	// Keys are unique after dedup, so the order is total.
	c := collate.New(language.English)
	sort.Slice(entries, func(i, j int) bool {
		return c.CompareString(entries[i].Species, entries[j].Species) < 0
	})

	return entries
}

// DefaultPalette is the fixed five-colour legend shown when a collection
// yields no entries. Presentation fallback only; Derive never returns it.
func DefaultPalette() []Entry {
	return []Entry{
		{Species: "Crimson", Color: "#dc143c"},
		{Species: "Gold", Color: "#ffd700"},
		{Species: "Lavender", Color: "#b57edc"},
		{Species: "Coral", Color: "#ff7f50"},
		{Species: "Sage", Color: "#9caf88"},
	}
}
