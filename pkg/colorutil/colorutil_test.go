package colorutil

import (
	"image/color"
	"math"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		spec string
		want color.RGBA
	}{
		{"green", Green},
		{"RED", Red},
		{" blue ", Blue},
		{"magenta", Magenta},
		{"#ff8000", color.RGBA{R: 255, G: 128, B: 0, A: 255}},
		{"#FF8000", color.RGBA{R: 255, G: 128, B: 0, A: 255}},
		{"#000000", Black},
		{"chartreuse", Green},
		{"", Green},
		{"#12345", Green},
		{"#gg0000", Green},
	}
	for _, tt := range tests {
		if got := Parse(tt.spec); got != tt.want {
			t.Errorf("Parse(%q) = %+v, want %+v", tt.spec, got, tt.want)
		}
	}
}

func TestIsKnown(t *testing.T) {
	tests := []struct {
		spec string
		want bool
	}{
		{"green", true},
		{"YELLOW", true},
		{" cyan ", true},
		{"#00ff00", false},
		{"chartreuse", false},
	}
	for _, tt := range tests {
		if got := IsKnown(tt.spec); got != tt.want {
			t.Errorf("IsKnown(%q) = %v, want %v", tt.spec, got, tt.want)
		}
	}
}

func TestHSVToRGB(t *testing.T) {
	tests := []struct {
		name    string
		h, s, v float64
		r, g, b float64
	}{
		{"red", 0, 1, 1, 1, 0, 0},
		{"yellow", 1.0 / 6, 1, 1, 1, 1, 0},
		{"green", 1.0 / 3, 1, 1, 0, 1, 0},
		{"cyan", 0.5, 1, 1, 0, 1, 1},
		{"violet", 0.75, 1, 1, 0.5, 0, 1},
		{"desaturated red", 0, 0.5, 1, 1, 0.5, 0.5},
		{"grey ignores hue", 0.42, 0, 0.3, 0.3, 0.3, 0.3},
		{"black ignores hue", 0.9, 1, 0, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, g, b := HSVToRGB(tt.h, tt.s, tt.v)
			if math.Abs(r-tt.r) > 1e-9 || math.Abs(g-tt.g) > 1e-9 || math.Abs(b-tt.b) > 1e-9 {
				t.Errorf("HSVToRGB(%v, %v, %v) = (%v, %v, %v), want (%v, %v, %v)",
					tt.h, tt.s, tt.v, r, g, b, tt.r, tt.g, tt.b)
			}
		})
	}
}

func TestHSVToRGBStaysInRange(t *testing.T) {
	for h := 0.0; h <= 1.0; h += 0.01 {
		r, g, b := HSVToRGB(h, 1, 1)
		for _, c := range []float64{r, g, b} {
			if c < 0 || c > 1 {
				t.Fatalf("HSVToRGB(%v, 1, 1) component %v out of [0,1]", h, c)
			}
		}
		if max := math.Max(r, math.Max(g, b)); math.Abs(max-1) > 1e-9 {
			t.Errorf("HSVToRGB(%v, 1, 1) max component %v, want 1", h, max)
		}
	}
}
