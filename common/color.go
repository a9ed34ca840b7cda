package common

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// ParseHexColor parses "#rrggbb" or "#rrggbbaa". SVG color names
// ("crimson", "white") are accepted as well.
func ParseHexColor(s string) (color.NRGBA, error) {
	raw := strings.TrimSpace(s)
	if named, ok := colornames.Map[strings.ToLower(raw)]; ok {
		return color.NRGBA{R: named.R, G: named.G, B: named.B, A: named.A}, nil
	}

	hex := strings.TrimPrefix(raw, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 && len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid color format: %s", s)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(hex[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return color.NRGBA{}, err
	}
	g, err := parse(2)
	if err != nil {
		return color.NRGBA{}, err
	}
	b, err := parse(4)
	if err != nil {
		return color.NRGBA{}, err
	}

	a := uint8(255)
	if len(hex) == 8 {
		a, err = parse(6)
		if err != nil {
			return color.NRGBA{}, err
		}
	}

	return color.NRGBA{R: r, G: g, B: b, A: a}, nil
}

// ColorOr parses s and falls back to def when s is empty or malformed.
func ColorOr(s string, def color.NRGBA) color.NRGBA {
	if strings.TrimSpace(s) == "" {
		return def
	}
	c, err := ParseHexColor(s)
	if err != nil {
		return def
	}
	return c
}
