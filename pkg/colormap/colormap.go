// Package colormap turns normalized display intensity into RGB colors
// through named lookup tables compatible with the DS9 colormap set.
package colormap

import (
	"fmt"
	"image/color"
	"sort"

	"github.com/yogeshw/ncrads9/pkg/scale"
)

// Transparent is the fixed color for the invalid-sample sentinel,
// independent of the active table.
var Transparent = color.RGBA{}

// RGB is one control point of a colormap table, channels in [0,1].
type RGB struct {
	R, G, B float64
}

// Map is a named, fixed table of RGB control points. Lookup
// interpolates linearly between bracketing control points, so a table
// may be as small as two entries or a full 256-entry ramp.
type Map struct {
	name  string
	stops []RGB
}

// New creates a colormap from its control points. At least two control
// points are required.
func New(name string, stops []RGB) (*Map, error) {
	if name == "" {
		return nil, fmt.Errorf("colormap: empty name")
	}
	if len(stops) < 2 {
		return nil, fmt.Errorf("colormap %q: need at least 2 control points, got %d", name, len(stops))
	}
	cp := make([]RGB, len(stops))
	copy(cp, stops)
	return &Map{name: name, stops: cp}, nil
}

// Name returns the registry name of the map.
func (m *Map) Name() string { return m.name }

// Size returns the number of control points.
func (m *Map) Size() int { return len(m.stops) }

// Lookup maps normalized intensity to a color. The invalid sentinel
// always yields Transparent. Inversion flips the effective position at
// lookup time; the stored table is never mutated, so one Map instance
// serves inverted and non-inverted requests concurrently.
func (m *Map) Lookup(n float64, inverted bool) color.RGBA {
	if scale.IsInvalid(n) {
		return Transparent
	}
	if n < 0 {
		n = 0
	}
	if n > 1 {
		n = 1
	}
	if inverted {
		n = 1 - n
	}
	return toRGBA(m.at(n))
}

// at interpolates the control points at position n in [0,1].
func (m *Map) at(n float64) RGB {
	pos := n * float64(len(m.stops)-1)
	i := int(pos)
	if i >= len(m.stops)-1 {
		return m.stops[len(m.stops)-1]
	}
	frac := pos - float64(i)
	a, b := m.stops[i], m.stops[i+1]
	return RGB{
		R: a.R + (b.R-a.R)*frac,
		G: a.G + (b.G-a.G)*frac,
		B: a.B + (b.B-a.B)*frac,
	}
}

func toRGBA(c RGB) color.RGBA {
	return color.RGBA{
		R: channelByte(c.R),
		G: channelByte(c.G),
		B: channelByte(c.B),
		A: 255,
	}
}

func channelByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

// Registry holds colormaps by name. Adding a table is a data addition,
// not a code change: Register accepts any Map built from control points.
type Registry struct {
	maps map[string]*Map
}

// NewRegistry returns a registry preloaded with the builtin DS9 set.
func NewRegistry() *Registry {
	r := &Registry{maps: make(map[string]*Map)}
	for name, gen := range builtinGenerators {
		r.maps[name] = &Map{name: name, stops: gen()}
	}
	return r
}

// Get looks up a colormap by name.
func (r *Registry) Get(name string) (*Map, bool) {
	m, ok := r.maps[name]
	return m, ok
}

// Register adds or replaces a colormap.
func (r *Registry) Register(m *Map) {
	r.maps[m.name] = m
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.maps))
	for name := range r.maps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
