package render

import (
	"image"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/yogeshw/ncrads9/pkg/colormap"
	"github.com/yogeshw/ncrads9/pkg/frame"
	"github.com/yogeshw/ncrads9/pkg/geometry"
)

// Renderer produces RGBA output for frames. The zero value is not
// usable; NewRenderer preloads the builtin colormap set.
type Renderer struct {
	maps *colormap.Registry
}

// NewRenderer returns a renderer with the builtin colormap registry.
func NewRenderer() *Renderer {
	return &Renderer{maps: colormap.NewRegistry()}
}

// Maps exposes the colormap registry so hosts can add file-loaded
// tables.
func (r *Renderer) Maps() *colormap.Registry { return r.maps }

// Image renders the frame's image plane into a viewport-sized RGBA
// buffer. Samples run through the stretch pipeline, the frame's
// colormap colors them (invalid samples come out transparent), and the
// result is placed per the view transform with nearest-neighbour
// resampling when magnifying and bilinear when minifying. An empty
// frame yields a fully transparent buffer.
//
// Image fills the frame's lazy smoothing and histogram caches; callers
// serialize it with frame mutations.
func (r *Renderer) Image(f *frame.Frame, viewport geometry.Size) *image.RGBA {
	w := int(viewport.Width)
	h := int(viewport.Height)
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	if f == nil || f.IsEmpty() || w == 0 || h == 0 {
		return out
	}

	buf := f.DisplayBuffer()
	normalized := f.Normalized()
	bw, bh := buf.Width(), buf.Height()

	cm, ok := r.maps.Get(f.ColormapName)
	if !ok {
		cm, ok = r.maps.Get(frame.DefaultColormap)
	}
	if !ok {
		return out
	}

	src := image.NewRGBA(image.Rect(0, 0, bw, bh))
	for y := 0; y < bh; y++ {
		row := y * bw
		ty := bh - 1 - y // buffer row 0 is the bottom image row
		for x := 0; x < bw; x++ {
			src.SetRGBA(x, ty, cm.Lookup(normalized[row+x], f.Inverted))
		}
	}

	// src -> device: undo the top-down row order, then apply the view
	// matrix.
	m := f.View.Matrix(viewport).Compose(
		geometry.Translation(0, float64(bh)).Compose(geometry.Scale(1, -1)))
	aff := f64.Aff3{m.A, m.B, m.TX, m.C, m.D, m.TY}

	interp := draw.Interpolator(draw.ApproxBiLinear)
	if deviceScale(m) >= 1 {
		interp = draw.NearestNeighbor
	}
	interp.Transform(out, aff, src, src.Bounds(), draw.Over, nil)
	return out
}

// Render draws the complete frame presentation: the image plane, then
// the region overlay and any gesture preview rasterized on top.
func (r *Renderer) Render(f *frame.Frame, viewport geometry.Size) *image.RGBA {
	out := r.Image(f, viewport)
	if f != nil {
		Rasterize(out, FrameCommands(f, viewport))
	}
	return out
}

// FrameCommands builds the frame's full overlay command list: regions
// in z-order with selection accents, then the in-progress draw preview
// on top.
func FrameCommands(f *frame.Frame, viewport geometry.Size) []Command {
	if f == nil {
		return nil
	}
	cmds := BuildCommands(f.Regions, &f.View, viewport)
	if p, ok := f.Drawer.Preview(); ok {
		cmds = append(cmds, PreviewCommands(p, &f.View, viewport)...)
	}
	return cmds
}
