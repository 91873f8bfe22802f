// Package colorutil provides shared color utilities for the display engine.
package colorutil

import (
	"fmt"
	"image/color"
	"math"
	"strings"
)

// Standard region overlay colors, matching the DS9 palette.
var (
	Black   = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Red     = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	Green   = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	Blue    = color.RGBA{R: 0, G: 0, B: 255, A: 255}
	Cyan    = color.RGBA{R: 0, G: 255, B: 255, A: 255}
	Magenta = color.RGBA{R: 255, G: 0, B: 255, A: 255}
	Yellow  = color.RGBA{R: 255, G: 255, B: 0, A: 255}
)

var named = map[string]color.RGBA{
	"black":   Black,
	"white":   White,
	"red":     Red,
	"green":   Green,
	"blue":    Blue,
	"cyan":    Cyan,
	"magenta": Magenta,
	"yellow":  Yellow,
}

// Parse resolves a region color specification: a DS9 color name or a
// "#rrggbb" hex triplet. Unknown specifications fall back to green, the
// DS9 default region color.
func Parse(spec string) color.RGBA {
	s := strings.ToLower(strings.TrimSpace(spec))
	if c, ok := named[s]; ok {
		return c
	}
	if len(s) == 7 && s[0] == '#' {
		var r, g, b uint8
		if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err == nil {
			return color.RGBA{R: r, G: g, B: b, A: 255}
		}
	}
	return Green
}

// IsKnown reports whether spec names one of the standard colors.
func IsKnown(spec string) bool {
	_, ok := named[strings.ToLower(strings.TrimSpace(spec))]
	return ok
}

// HSVToRGB converts H, S, V components in [0,1] to RGB components in [0,1].
func HSVToRGB(h, s, v float64) (r, g, b float64) {
	i := int(h*6) % 6
	if h >= 1 {
		i = 5
	}
	f := h*6 - math.Floor(h*6)
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)

	switch i {
	case 0:
		return v, t, p
	case 1:
		return q, v, p
	case 2:
		return p, v, t
	case 3:
		return p, q, v
	case 4:
		return t, p, v
	default:
		return v, p, q
	}
}
