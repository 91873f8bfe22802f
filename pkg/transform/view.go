// Package transform maps between the three display coordinate spaces:
// image space (continuous sample coordinates, row 0 at the BOTTOM),
// view space (image space scaled by zoom and binning) and device space
// (viewport pixels, y growing downward).
//
// The vertical inversion between image and device space is part of the
// contract, not a display artifact: image point (0,0) is the bottom-left
// corner of the image and maps to the bottom-left of the viewport.
package transform

import (
	"math"

	"github.com/yogeshw/ncrads9/pkg/geometry"
)

// Interactive zoom range and step.
const (
	MinZoom  = 0.1
	MaxZoom  = 20.0
	ZoomStep = 1.2
)

// View is the per-frame viewing state. The pan center names the
// image-space point rendered at the geometric center of the viewport.
type View struct {
	Zoom     float64
	Pan      geometry.Point2D
	Bin      int
	FlipX    bool
	FlipY    bool
	Rotation int // degrees counter-clockwise, multiples of 90
}

// NewView returns the default view: unit zoom, no pan, bin 1.
func NewView() View {
	return View{Zoom: 1, Bin: 1}
}

// effectiveScale is the image-to-device magnification.
func (v *View) effectiveScale() float64 {
	bin := v.Bin
	if bin < 1 {
		bin = 1
	}
	zoom := v.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	return zoom / float64(bin)
}

// Matrix builds the image-to-device affine for the given viewport size.
func (v *View) Matrix(viewport geometry.Size) geometry.AffineTransform {
	s := v.effectiveScale()
	sx, sy := s, -s // negative y: image row 0 is at the bottom
	if v.FlipX {
		sx = -sx
	}
	if v.FlipY {
		sy = -sy
	}

	m := geometry.Translation(-v.Pan.X, -v.Pan.Y)
	m = geometry.Scale(sx, sy).Compose(m)
	if rot := normalizeRotation(v.Rotation); rot != 0 {
		m = geometry.Rotation(radians(rot)).Compose(m)
	}
	return geometry.Translation(viewport.Width/2, viewport.Height/2).Compose(m)
}

// ImageToDevice converts an image-space point to device space.
func (v *View) ImageToDevice(pt geometry.Point2D, viewport geometry.Size) geometry.Point2D {
	return v.Matrix(viewport).Apply(pt)
}

// DeviceToImage converts a device-space point to image space. It is the
// exact inverse of ImageToDevice to within floating-point rounding.
func (v *View) DeviceToImage(pt geometry.Point2D, viewport geometry.Size) geometry.Point2D {
	inv, ok := v.Matrix(viewport).Inverse()
	if !ok {
		return pt
	}
	return inv.Apply(pt)
}

// DeviceDeltaToImage converts a device-space displacement to an
// image-space displacement, ignoring translation. Used to move regions
// so that dragging tracks correctly at any zoom, pan or flip.
func (v *View) DeviceDeltaToImage(delta geometry.Point2D, viewport geometry.Size) geometry.Point2D {
	inv, ok := v.Matrix(viewport).Inverse()
	if !ok {
		return delta
	}
	return inv.ApplyVector(delta)
}

// ZoomToFit sets the zoom so the whole image is visible and centers the
// pan on the image center. A zero viewport or zero image dimension is a
// no-op, keeping the previous state. The fit zoom is exact (it may lie
// below MinZoom for very large images).
func (v *View) ZoomToFit(imageSize, viewport geometry.Size) {
	if viewport.IsZero() || imageSize.IsZero() {
		return
	}
	zx := viewport.Width / imageSize.Width
	zy := viewport.Height / imageSize.Height
	if zx < zy {
		v.Zoom = zx
	} else {
		v.Zoom = zy
	}
	v.Pan = geometry.Point2D{X: imageSize.Width / 2, Y: imageSize.Height / 2}
}

// PanTo centers the view on an image-space point.
func (v *View) PanTo(pt geometry.Point2D) {
	v.Pan = pt
}

// AdjustZoom multiplies the zoom by factor, clamped to the interactive
// range. The pan center, and therefore the point at viewport center,
// is unchanged. Non-positive factors are ignored.
func (v *View) AdjustZoom(factor float64) {
	if factor <= 0 {
		return
	}
	v.SetZoom(v.Zoom * factor)
}

// SetZoom sets the zoom, clamped to [MinZoom, MaxZoom].
func (v *View) SetZoom(zoom float64) {
	if zoom < MinZoom {
		zoom = MinZoom
	}
	if zoom > MaxZoom {
		zoom = MaxZoom
	}
	v.Zoom = zoom
}

// ZoomIn advances the zoom by one step.
func (v *View) ZoomIn() { v.AdjustZoom(ZoomStep) }

// ZoomOut backs the zoom off by one step.
func (v *View) ZoomOut() { v.AdjustZoom(1 / ZoomStep) }

// SetBin sets the bin factor, forcing it to at least 1.
func (v *View) SetBin(bin int) {
	if bin < 1 {
		bin = 1
	}
	v.Bin = bin
}

// Rotate adds degrees to the display rotation, normalized to a multiple
// of 90 in [0,360).
func (v *View) Rotate(degrees int) {
	v.Rotation = normalizeRotation(v.Rotation + degrees)
}

// VisibleImageRect returns the axis-aligned image-space rectangle
// covering everything visible in the viewport.
func (v *View) VisibleImageRect(viewport geometry.Size) geometry.Rect {
	corners := []geometry.Point2D{
		v.DeviceToImage(geometry.Point2D{X: 0, Y: 0}, viewport),
		v.DeviceToImage(geometry.Point2D{X: viewport.Width, Y: 0}, viewport),
		v.DeviceToImage(geometry.Point2D{X: viewport.Width, Y: viewport.Height}, viewport),
		v.DeviceToImage(geometry.Point2D{X: 0, Y: viewport.Height}, viewport),
	}
	return geometry.BoundingBox(corners)
}

func normalizeRotation(deg int) int {
	deg %= 360
	if deg < 0 {
		deg += 360
	}
	// Snap to the quadrant grid; arbitrary angles are not supported.
	return (deg / 90) * 90
}

func radians(deg int) float64 {
	return float64(deg) * math.Pi / 180
}
