// Package hexgrid defines the data contract for the per-month H3 hexagon
// distribution files and helpers for reading their feature properties.
package hexgrid

import (
	"fmt"
	"strings"
)

// Months lists the twelve month codes used in file names and feature
// properties, in calendar order.
var Months = [12]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// ShippedResolution is the H3 resolution of the published distribution
// files. All shipped files carry resolution 10.
const ShippedResolution = 10

// IsMonth reports whether s is one of the twelve month codes.
func IsMonth(s string) bool {
	for _, m := range Months {
		if m == s {
			return true
		}
	}
	return false
}

// NormalizeMonth maps a case-insensitive month string ("mar", "MAR") to
// its canonical code. The second return is false for unknown months.
func NormalizeMonth(s string) (string, bool) {
	for _, m := range Months {
		if strings.EqualFold(m, s) {
			return m, true
		}
	}
	return "", false
}

// FileName returns the distribution file name for a month at a given
// H3 resolution, e.g. "h3_tree_distribution_Mar_resolution_10.geojson".
func FileName(month string, resolution int) string {
	return fmt.Sprintf("h3_tree_distribution_%s_resolution_%d.geojson", month, resolution)
}
