package hexgrid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeMonth(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"Mar", "Mar", true},
		{"mar", "Mar", true},
		{"MAR", "Mar", true},
		{"dEc", "Dec", true},
		{"March", "", false},
		{"", "", false},
		{"Ma", "", false},
	}
	for _, tc := range cases {
		got, ok := NormalizeMonth(tc.in)
		assert.Equal(t, tc.ok, ok, "NormalizeMonth(%q)", tc.in)
		assert.Equal(t, tc.want, got, "NormalizeMonth(%q)", tc.in)
	}
}

func TestIsMonth(t *testing.T) {
	for _, m := range Months {
		assert.True(t, IsMonth(m), m)
	}
	assert.False(t, IsMonth("mar"), "month codes are case-sensitive")
	assert.False(t, IsMonth("Foo"))
}

func TestFileName(t *testing.T) {
	assert.Equal(t,
		"h3_tree_distribution_Mar_resolution_10.geojson",
		FileName("Mar", ShippedResolution))
	assert.Equal(t,
		"h3_tree_distribution_Jan_resolution_8.geojson",
		FileName("Jan", 8))
}
