// Package render turns engine state into display output: region overlays
// become ordered device-space draw commands, and image buffers become
// colorized RGBA planes placed per the view transform. Hosts with their
// own graphics stack consume the command list; the software backend in
// this package rasterizes it directly.
package render

import (
	"fmt"
	"image/color"
	"math"

	"github.com/yogeshw/ncrads9/pkg/colorutil"
	"github.com/yogeshw/ncrads9/pkg/geometry"
	"github.com/yogeshw/ncrads9/pkg/regions"
	"github.com/yogeshw/ncrads9/pkg/transform"
)

// DrawOp identifies a draw command primitive.
type DrawOp int

const (
	// OpPolyline strokes the Points in order, closing back to the first
	// point when Closed is set.
	OpPolyline DrawOp = iota
	// OpEllipse strokes an ellipse ring at Center with device radii
	// RadiusX/RadiusY, rotated by Angle degrees.
	OpEllipse
	// OpMarker draws a fixed-size screen marker (Marker style, Size) at
	// Center.
	OpMarker
	// OpLabel draws Text centered at Center.
	OpLabel
)

// Command is one device-space drawing instruction. All coordinates and
// sizes are viewport pixels.
type Command struct {
	Op     DrawOp
	Points []geometry.Point2D
	Center geometry.Point2D

	RadiusX float64
	RadiusY float64
	Angle   float64 // degrees, orientation of the RadiusX axis

	Color  color.RGBA
	Width  int
	Dashed bool
	Closed bool

	Marker string
	Size   int
	Text   string
}

// selection accent styling
const (
	selectionHandleSize = 6
	arrowheadLength     = 15.0
)

// BuildCommands converts a region set into draw commands in z-order, so
// rasterizing the list front to back reproduces the pick order. Selected
// regions are followed by their accent commands (dashed bounding box
// plus corner handles).
func BuildCommands(set *regions.Set, view *transform.View, viewport geometry.Size) []Command {
	if set == nil || view == nil {
		return nil
	}
	m := view.Matrix(viewport)
	var cmds []Command
	for _, r := range set.All() {
		cmds = append(cmds, regionCommands(r, m, false)...)
		if r.Selected {
			cmds = append(cmds, selectionCommands(r, m)...)
		}
	}
	return cmds
}

// PreviewCommands renders an in-progress draw gesture: the would-be
// region stroked dashed. Appended after BuildCommands so the preview
// sits on top.
func PreviewCommands(preview *regions.Region, view *transform.View, viewport geometry.Size) []Command {
	if preview == nil || view == nil {
		return nil
	}
	return regionCommands(preview, view.Matrix(viewport), true)
}

// regionCommands emits the draw commands for one region under the
// image-to-device matrix.
func regionCommands(r *regions.Region, m geometry.AffineTransform, dashed bool) []Command {
	col := colorutil.Parse(r.Color)
	width := r.LineWidth
	if width < 1 {
		width = 1
	}

	switch r.Kind {
	case regions.KindCircle:
		s := deviceScale(m)
		return []Command{{
			Op: OpEllipse, Center: m.Apply(r.Center),
			RadiusX: r.Radius * s, RadiusY: r.Radius * s,
			Color: col, Width: width, Dashed: dashed,
		}}

	case regions.KindAnnulus:
		s := deviceScale(m)
		c := m.Apply(r.Center)
		return []Command{
			{Op: OpEllipse, Center: c, RadiusX: r.InnerRadius * s, RadiusY: r.InnerRadius * s, Color: col, Width: width, Dashed: dashed},
			{Op: OpEllipse, Center: c, RadiusX: r.OuterRadius * s, RadiusY: r.OuterRadius * s, Color: col, Width: width, Dashed: dashed},
		}

	case regions.KindEllipse:
		rad := r.Angle * math.Pi / 180
		maj := m.ApplyVector(geometry.Point2D{X: math.Cos(rad) * r.SemiMajor, Y: math.Sin(rad) * r.SemiMajor})
		min := m.ApplyVector(geometry.Point2D{X: -math.Sin(rad) * r.SemiMinor, Y: math.Cos(rad) * r.SemiMinor})
		return []Command{{
			Op: OpEllipse, Center: m.Apply(r.Center),
			RadiusX: math.Hypot(maj.X, maj.Y), RadiusY: math.Hypot(min.X, min.Y),
			Angle: math.Atan2(maj.Y, maj.X) * 180 / math.Pi,
			Color: col, Width: width, Dashed: dashed,
		}}

	case regions.KindBox:
		return []Command{{
			Op: OpPolyline, Points: transformPoints(m, r.Corners()),
			Color: col, Width: width, Dashed: dashed, Closed: true,
		}}

	case regions.KindPolygon:
		if len(r.Vertices) == 0 {
			return nil
		}
		return []Command{{
			Op: OpPolyline, Points: transformPoints(m, r.Vertices),
			Color: col, Width: width, Dashed: dashed, Closed: len(r.Vertices) > 2,
		}}

	case regions.KindPoint:
		marker := r.Marker
		if marker == "" {
			marker = regions.DefaultMarker
		}
		size := r.Size
		if size <= 0 {
			size = regions.DefaultMarkerSize
		}
		return []Command{{
			Op: OpMarker, Center: m.Apply(r.Center),
			Marker: marker, Size: size,
			Color: col, Width: width, Dashed: dashed,
		}}

	case regions.KindLine:
		return []Command{{
			Op: OpPolyline, Points: transformPoints(m, []geometry.Point2D{r.Start, r.End}),
			Color: col, Width: width, Dashed: dashed,
		}}

	case regions.KindVector:
		start := m.Apply(r.Start)
		tip := m.Apply(r.VectorEnd())
		cmds := []Command{{
			Op: OpPolyline, Points: []geometry.Point2D{start, tip},
			Color: col, Width: width, Dashed: dashed,
		}}
		if r.Arrow {
			if wings, ok := arrowhead(start, tip); ok {
				cmds = append(cmds, Command{
					Op: OpPolyline, Points: wings,
					Color: col, Width: width,
				})
			}
		}
		return cmds

	case regions.KindRuler:
		start := m.Apply(r.Start)
		end := m.Apply(r.End)
		mid := geometry.Point2D{X: (start.X + end.X) / 2, Y: (start.Y+end.Y)/2 - 8}
		return []Command{
			{Op: OpPolyline, Points: []geometry.Point2D{start, end}, Color: col, Width: width, Dashed: dashed},
			{Op: OpLabel, Center: mid, Text: fmt.Sprintf("%.1f px", r.RulerLength()), Color: col},
		}

	case regions.KindText:
		if r.Text == "" {
			return nil
		}
		return []Command{{Op: OpLabel, Center: m.Apply(r.Center), Text: r.Text, Color: col}}
	}
	return nil
}

// selectionCommands emits the accents for a selected region: its
// bounding box stroked dashed plus square handles on the corners.
func selectionCommands(r *regions.Region, m geometry.AffineTransform) []Command {
	corners := r.BoundingBox().Corners()
	pts := transformPoints(m, corners[:])

	cmds := []Command{{
		Op: OpPolyline, Points: pts,
		Color: colorutil.Yellow, Width: 1, Dashed: true, Closed: true,
	}}
	for _, c := range pts {
		cmds = append(cmds, Command{
			Op: OpMarker, Center: c,
			Marker: "box", Size: selectionHandleSize,
			Color: colorutil.Yellow, Width: 1,
		})
	}
	return cmds
}

// arrowhead returns the wing polyline for a vector tip. ok is false for
// degenerate (near zero length) vectors.
func arrowhead(start, tip geometry.Point2D) ([]geometry.Point2D, bool) {
	dx := tip.X - start.X
	dy := tip.Y - start.Y
	length := math.Hypot(dx, dy)
	if length < 1 {
		return nil, false
	}
	dx /= length
	dy /= length

	sz := arrowheadLength
	if length < 2*sz {
		sz = length / 2
	}
	baseX := tip.X - dx*sz
	baseY := tip.Y - dy*sz
	w1 := geometry.Point2D{X: baseX + dy*sz*0.4, Y: baseY - dx*sz*0.4}
	w2 := geometry.Point2D{X: baseX - dy*sz*0.4, Y: baseY + dx*sz*0.4}
	return []geometry.Point2D{w1, tip, w2}, true
}

// deviceScale is the device length of an image-space unit vector. View
// transforms are conformal (uniform zoom, quarter-turn rotations and
// flips), so one factor serves both axes.
func deviceScale(m geometry.AffineTransform) float64 {
	return math.Hypot(m.A, m.C)
}

func transformPoints(m geometry.AffineTransform, pts []geometry.Point2D) []geometry.Point2D {
	out := make([]geometry.Point2D, len(pts))
	for i, p := range pts {
		out[i] = m.Apply(p)
	}
	return out
}
