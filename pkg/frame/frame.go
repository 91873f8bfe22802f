// Package frame owns the ordered collection of display frames and the
// active-frame state machine. Each frame bundles an image buffer, its
// viewing state, stretch parameters, colormap selection and region set;
// the manager orchestrates switches, navigation, blinking and the
// cross-frame match and lock modes.
package frame

import (
	"fmt"

	"github.com/yogeshw/ncrads9/internal/logging"
	"github.com/yogeshw/ncrads9/pkg/analysis"
	"github.com/yogeshw/ncrads9/pkg/geometry"
	"github.com/yogeshw/ncrads9/pkg/imagedata"
	"github.com/yogeshw/ncrads9/pkg/regions"
	"github.com/yogeshw/ncrads9/pkg/scale"
	"github.com/yogeshw/ncrads9/pkg/transform"
)

// DefaultColormap is the map new frames start with.
const DefaultColormap = "grey"

// Frame is one display slot: an image buffer (possibly absent), its
// view, stretch and colormap state, and the overlay region set.
type Frame struct {
	ID   int
	Name string

	Buffer *imagedata.Buffer
	// WCS is the world-coordinate metadata attached to the buffer. The
	// core never interprets it; it is handed to the external translator
	// for readout.
	WCS any

	View         transform.View
	Scale        scale.Params
	Clip         scale.ClipMode
	ColormapName string
	Inverted     bool

	// Smooth, when non-nil, is the display smoothing applied before
	// the stretch pipeline.
	Smooth *analysis.SmoothParams

	Regions *regions.Set
	Drawer  *regions.Drawer

	HistCache scale.HistEqCache
	Modified  bool

	// smoothed caches the smoothing result keyed on the input buffer
	// generation.
	smoothed    *imagedata.Buffer
	smoothedGen uint64
}

// newFrame builds an empty frame with default display state.
func newFrame(id int) *Frame {
	return &Frame{
		ID:           id,
		Name:         fmt.Sprintf("Frame %d", id),
		View:         transform.NewView(),
		Scale:        scale.DefaultParams(),
		Clip:         scale.ClipMinMax,
		ColormapName: DefaultColormap,
		Regions:      regions.NewSet(),
		Drawer:       regions.NewDrawer(),
	}
}

// IsEmpty reports whether the frame has no image loaded.
func (f *Frame) IsEmpty() bool {
	return f.Buffer == nil
}

// ImageSize returns the buffer dimensions in image pixels, zero when
// empty.
func (f *Frame) ImageSize() geometry.Size {
	if f.Buffer == nil {
		return geometry.Size{}
	}
	return geometry.NewSize(float64(f.Buffer.Width()), float64(f.Buffer.Height()))
}

// SetBuffer loads an image into the frame: derived caches are dropped,
// clip limits recomputed under the frame's clip mode, and the view
// refitted so the whole image is centered in the viewport.
func (f *Frame) SetBuffer(buf *imagedata.Buffer, viewport geometry.Size) {
	f.Buffer = buf
	f.smoothed = nil
	f.HistCache.Invalidate()
	scale.ApplyClip(&f.Scale, buf, f.Clip)
	f.View.ZoomToFit(f.ImageSize(), viewport)
	f.Modified = true
}

// SetScaleAlgorithm switches the stretch function, keeping limits.
func (f *Frame) SetScaleAlgorithm(a scale.Algorithm) {
	f.Scale.Algorithm = a
	f.Modified = true
}

// SetClipMode sets the clip policy and recomputes limits from the
// current buffer.
func (f *Frame) SetClipMode(mode scale.ClipMode) {
	f.Clip = mode
	scale.ApplyClip(&f.Scale, f.Buffer, mode)
	f.Modified = true
}

// SetLimits sets manual clip limits and flips the frame to manual clip
// mode.
func (f *Frame) SetLimits(z1, z2 float64) {
	f.Clip = scale.ClipManual
	f.Scale.SetLimits(z1, z2)
	f.Modified = true
}

// SetColormap selects the colormap by name.
func (f *Frame) SetColormap(name string) {
	f.ColormapName = name
	f.Modified = true
}

// SetInverted flips the colormap direction.
func (f *Frame) SetInverted(inverted bool) {
	f.Inverted = inverted
	f.Modified = true
}

// SetSmooth selects display smoothing; nil turns it off. The smoothing
// result is recomputed lazily on the next display access.
func (f *Frame) SetSmooth(p *analysis.SmoothParams) {
	f.Smooth = p
	f.smoothed = nil
	f.Modified = true
}

// AdjustContrastBias applies deltas to the stretch contrast and bias,
// clamped to their legal ranges.
func (f *Frame) AdjustContrastBias(dContrast, dBias float64) {
	f.Scale.AdjustContrastBias(dContrast, dBias)
	f.Modified = true
}

// DisplayBuffer returns the buffer the display pipeline consumes: the
// smoothed image when smoothing is on, otherwise the raw buffer. The
// smoothing result is cached against the buffer generation. A failed
// smooth falls back to the raw buffer.
func (f *Frame) DisplayBuffer() *imagedata.Buffer {
	if f.Smooth == nil || f.Buffer == nil {
		return f.Buffer
	}
	if f.smoothed != nil && f.smoothedGen == f.Buffer.Generation() {
		return f.smoothed
	}
	smoothed, err := analysis.Smooth(f.Buffer, *f.Smooth)
	if err != nil {
		logging.Logger().Warn("display smoothing failed, showing raw image",
			"frame", f.ID, "method", f.Smooth.Method.String(), "err", err)
		return f.Buffer
	}
	f.smoothed = smoothed
	f.smoothedGen = f.Buffer.Generation()
	return f.smoothed
}

// Normalized runs the frame's display buffer through the stretch
// pipeline, reusing the frame's histogram cache.
func (f *Frame) Normalized() []float64 {
	return scale.NormalizeBuffer(f.DisplayBuffer(), f.Scale, &f.HistCache)
}

// finalizeGesture settles any in-progress draw gesture before the
// frame loses focus: a viable attempt commits at the current cursor,
// anything else is discarded. Gestures never survive a frame switch
// half-done. Reports whether a region was committed.
func (f *Frame) finalizeGesture() bool {
	if !f.Drawer.Active() {
		return false
	}
	if r, err := f.Drawer.Finalize(); err == nil {
		f.Regions.Add(r)
		f.Modified = true
		return true
	}
	return false
}
