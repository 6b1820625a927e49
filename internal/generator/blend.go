package generator

import (
	"fmt"
	"strconv"
	"strings"
)

// rgb is a colour in 8-bit RGB space.
type rgb struct {
	r, g, b float64
}

// parseHexColour parses "#rrggbb" (leading '#' optional).
func parseHexColour(s string) (rgb, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return rgb{}, fmt.Errorf("malformed colour %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return rgb{}, fmt.Errorf("malformed colour %q", s)
	}
	return rgb{
		r: float64(v >> 16 & 0xff),
		g: float64(v >> 8 & 0xff),
		b: float64(v & 0xff),
	}, nil
}

func formatHexColour(c rgb) string {
	return fmt.Sprintf("#%02x%02x%02x", int(c.r), int(c.g), int(c.b))
}

// weightedColour is one species' contribution to a cell colour.
type weightedColour struct {
	colour rgb
	weight float64
}

// blendColours computes the weighted average of member colours in RGB
// space. The second return is false when no member carries weight.
func blendColours(members []weightedColour) (rgb, bool) {
	var total float64
	for _, m := range members {
		total += m.weight
	}
	if total == 0 {
		return rgb{}, false
	}

	var out rgb
	for _, m := range members {
		out.r += m.colour.r * m.weight
		out.g += m.colour.g * m.weight
		out.b += m.colour.b * m.weight
	}
	out.r /= total
	out.g /= total
	out.b /= total
	return out, true
}

// namedColours maps reference colours to the display names used in the
// color_name property.
var namedColours = []struct {
	name string
	c    rgb
}{
	{"Flame Orange", rgb{228, 87, 46}},
	{"Jacaranda Purple", rgb{142, 107, 191}},
	{"Golden Yellow", rgb{255, 215, 0}},
	{"Blossom Pink", rgb{244, 154, 194}},
	{"Ivory White", rgb{250, 248, 240}},
	{"Crimson", rgb{220, 20, 60}},
	{"Coral", rgb{255, 127, 80}},
	{"Lavender", rgb{181, 126, 220}},
}

// nearestColourName maps a blended colour to the closest reference name
// by squared RGB distance.
func nearestColourName(c rgb) string {
	best := namedColours[0].name
	bestDist := -1.0
	for _, nc := range namedColours {
		dr := c.r - nc.c.r
		dg := c.g - nc.c.g
		db := c.b - nc.c.b
		dist := dr*dr + dg*dg + db*db
		if bestDist < 0 || dist < bestDist {
			bestDist = dist
			best = nc.name
		}
	}
	return best
}
