// Package regions implements the overlay annotation model: shape
// variants in image-space coordinates, hit-testing, selection and
// editing, interactive draw gestures and the DS9 text-format codec.
package regions

import (
	"math"

	"github.com/yogeshw/ncrads9/pkg/geometry"
)

// Kind identifies a region shape variant.
type Kind int

const (
	KindCircle Kind = iota
	KindEllipse
	KindBox
	KindPolygon
	KindPoint
	KindLine
	KindVector
	KindRuler
	KindAnnulus
	KindText
)

// String returns the DS9 shape name.
func (k Kind) String() string {
	switch k {
	case KindCircle:
		return "circle"
	case KindEllipse:
		return "ellipse"
	case KindBox:
		return "box"
	case KindPolygon:
		return "polygon"
	case KindPoint:
		return "point"
	case KindLine:
		return "line"
	case KindVector:
		return "vector"
	case KindRuler:
		return "ruler"
	case KindAnnulus:
		return "annulus"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// Display property defaults, matching the DS9 conventions.
const (
	DefaultColor     = "green"
	DefaultLineWidth = 1
	DefaultFont      = "helvetica 10 normal roman"

	DefaultMarker     = "circle"
	DefaultMarkerSize = 11

	// DefaultPickTolerance is the hit-test band, in image pixels, for
	// shapes with zero area.
	DefaultPickTolerance = 5.0
)

// MarkerStyles lists the point marker styles DS9 understands.
var MarkerStyles = []string{"circle", "box", "diamond", "cross", "x", "arrow", "boxcircle"}

// Region is a single overlay annotation. It is a tagged variant: Kind
// selects which geometry fields are meaningful, and every operation is
// an exhaustive switch over it.
//
//	Circle   Center, Radius
//	Ellipse  Center, SemiMajor, SemiMinor, Angle
//	Box      Center, Width, Height, Angle
//	Polygon  Vertices (Center kept at the centroid)
//	Point    Center, Marker, Size
//	Line     Start, End
//	Vector   Start, Length, Angle, Arrow
//	Ruler    Start, End
//	Annulus  Center, InnerRadius, OuterRadius
//	Text     Center, Text, Angle
//
// Coordinates are image-space pixels, angles degrees counter-clockwise.
type Region struct {
	Kind Kind

	Center      geometry.Point2D
	Start, End  geometry.Point2D
	Vertices    []geometry.Point2D
	Radius      float64
	InnerRadius float64
	OuterRadius float64
	SemiMajor   float64
	SemiMinor   float64
	Width       float64
	Height      float64
	Angle       float64
	Length      float64
	Arrow       bool
	Marker      string
	Size        int

	Color     string
	LineWidth int
	Font      string
	Text      string
	Tags      []string
	Exclude   bool
	Selected  bool
}

func newRegion(kind Kind) *Region {
	return &Region{
		Kind:      kind,
		Color:     DefaultColor,
		LineWidth: DefaultLineWidth,
		Font:      DefaultFont,
	}
}

// NewCircle creates a circle region.
func NewCircle(center geometry.Point2D, radius float64) *Region {
	r := newRegion(KindCircle)
	r.Center = center
	r.Radius = radius
	return r
}

// NewEllipse creates an ellipse region. Angle is in degrees
// counter-clockwise.
func NewEllipse(center geometry.Point2D, semiMajor, semiMinor, angle float64) *Region {
	r := newRegion(KindEllipse)
	r.Center = center
	r.SemiMajor = semiMajor
	r.SemiMinor = semiMinor
	r.Angle = angle
	return r
}

// NewBox creates a rotated rectangle region.
func NewBox(center geometry.Point2D, width, height, angle float64) *Region {
	r := newRegion(KindBox)
	r.Center = center
	r.Width = width
	r.Height = height
	r.Angle = angle
	return r
}

// NewPolygon creates a polygon region from its vertices. The slice is
// copied; the region center tracks the vertex centroid.
func NewPolygon(vertices []geometry.Point2D) *Region {
	r := newRegion(KindPolygon)
	r.Vertices = append([]geometry.Point2D(nil), vertices...)
	r.Center = geometry.Centroid(r.Vertices)
	return r
}

// NewPoint creates a point marker region with the default style.
func NewPoint(center geometry.Point2D) *Region {
	r := newRegion(KindPoint)
	r.Center = center
	r.Marker = DefaultMarker
	r.Size = DefaultMarkerSize
	return r
}

// NewLine creates a line region between two endpoints.
func NewLine(start, end geometry.Point2D) *Region {
	r := newRegion(KindLine)
	r.Start = start
	r.End = end
	r.Center = midpoint(start, end)
	return r
}

// NewVector creates a vector region from a start point, a length and a
// direction in degrees counter-clockwise.
func NewVector(start geometry.Point2D, length, angle float64, arrow bool) *Region {
	r := newRegion(KindVector)
	r.Start = start
	r.Center = start
	r.Length = length
	r.Angle = angle
	r.Arrow = arrow
	return r
}

// NewRuler creates a ruler region between two endpoints.
func NewRuler(start, end geometry.Point2D) *Region {
	r := newRegion(KindRuler)
	r.Start = start
	r.End = end
	r.Center = midpoint(start, end)
	return r
}

// NewAnnulus creates a circular annulus region.
func NewAnnulus(center geometry.Point2D, innerRadius, outerRadius float64) *Region {
	r := newRegion(KindAnnulus)
	r.Center = center
	r.InnerRadius = innerRadius
	r.OuterRadius = outerRadius
	return r
}

// NewText creates a text annotation region.
func NewText(center geometry.Point2D, label string) *Region {
	r := newRegion(KindText)
	r.Center = center
	r.Text = label
	return r
}

// VectorEnd computes the tip of a vector region from its start, length
// and angle.
func (r *Region) VectorEnd() geometry.Point2D {
	rad := r.Angle * math.Pi / 180
	return geometry.Point2D{
		X: r.Start.X + r.Length*math.Cos(rad),
		Y: r.Start.Y + r.Length*math.Sin(rad),
	}
}

// RulerLength returns the measured distance of a ruler region.
func (r *Region) RulerLength() float64 {
	return r.Start.Distance(r.End)
}

// Contains reports whether an image-space point hits the region. Shapes
// with area use exact containment; zero-area shapes (line, vector,
// ruler, point) are hit within tol image pixels.
func (r *Region) Contains(pt geometry.Point2D, tol float64) bool {
	switch r.Kind {
	case KindCircle:
		return r.Center.Distance(pt) <= r.Radius
	case KindAnnulus:
		d := r.Center.Distance(pt)
		return d >= r.InnerRadius && d <= r.OuterRadius
	case KindEllipse:
		rx, ry := r.localFrame(pt)
		return (rx/r.SemiMajor)*(rx/r.SemiMajor)+(ry/r.SemiMinor)*(ry/r.SemiMinor) <= 1
	case KindBox:
		rx, ry := r.localFrame(pt)
		return math.Abs(rx) <= r.Width/2 && math.Abs(ry) <= r.Height/2
	case KindPolygon:
		return geometry.PointInPolygon(pt, r.Vertices)
	case KindPoint:
		half := float64(r.Size) / 2
		if tol > half {
			half = tol
		}
		return math.Abs(pt.X-r.Center.X) <= half && math.Abs(pt.Y-r.Center.Y) <= half
	case KindLine, KindRuler:
		return pt.DistanceToSegment(r.Start, r.End) <= tol
	case KindVector:
		return pt.DistanceToSegment(r.Start, r.VectorEnd()) <= tol
	case KindText:
		// Rough glyph metrics; good enough for picking a label.
		halfW := float64(len(r.Text)) * 8 / 2
		halfH := 6.0
		return math.Abs(pt.X-r.Center.X) <= halfW && math.Abs(pt.Y-r.Center.Y) <= halfH
	default:
		return false
	}
}

// localFrame rotates a point into the shape's unrotated frame around
// its center.
func (r *Region) localFrame(pt geometry.Point2D) (float64, float64) {
	dx := pt.X - r.Center.X
	dy := pt.Y - r.Center.Y
	rad := r.Angle * math.Pi / 180
	cos := math.Cos(rad)
	sin := math.Sin(rad)
	return dx*cos + dy*sin, -dx*sin + dy*cos
}

// Move translates the region by an image-space delta.
func (r *Region) Move(delta geometry.Point2D) {
	r.Center = r.Center.Add(delta)
	r.Start = r.Start.Add(delta)
	r.End = r.End.Add(delta)
	for i := range r.Vertices {
		r.Vertices[i] = r.Vertices[i].Add(delta)
	}
}

// Resize scales the region about its center. Radius-bearing shapes use
// the mean of the two factors; text is unaffected.
func (r *Region) Resize(scaleX, scaleY float64) {
	mean := (scaleX + scaleY) / 2
	switch r.Kind {
	case KindCircle:
		r.Radius *= mean
	case KindAnnulus:
		r.InnerRadius *= mean
		r.OuterRadius *= mean
	case KindEllipse:
		r.SemiMajor *= scaleX
		r.SemiMinor *= scaleY
	case KindBox:
		r.Width *= scaleX
		r.Height *= scaleY
	case KindPolygon:
		c := r.Center
		for i, v := range r.Vertices {
			r.Vertices[i] = geometry.Point2D{
				X: c.X + (v.X-c.X)*scaleX,
				Y: c.Y + (v.Y-c.Y)*scaleY,
			}
		}
	case KindPoint:
		r.Size = int(float64(r.Size) * mean)
	case KindLine, KindRuler:
		c := r.Center
		r.Start = geometry.Point2D{X: c.X + (r.Start.X-c.X)*scaleX, Y: c.Y + (r.Start.Y-c.Y)*scaleY}
		r.End = geometry.Point2D{X: c.X + (r.End.X-c.X)*scaleX, Y: c.Y + (r.End.Y-c.Y)*scaleY}
	case KindVector:
		r.Length *= mean
	case KindText:
		// Labels keep their size.
	}
}

// BoundingBox returns the axis-aligned image-space extent of the
// region, used for culling and selection handles.
func (r *Region) BoundingBox() geometry.Rect {
	switch r.Kind {
	case KindCircle:
		return geometry.NewRect(r.Center.X-r.Radius, r.Center.Y-r.Radius, 2*r.Radius, 2*r.Radius)
	case KindAnnulus:
		ro := r.OuterRadius
		return geometry.NewRect(r.Center.X-ro, r.Center.Y-ro, 2*ro, 2*ro)
	case KindEllipse:
		rad := r.Angle * math.Pi / 180
		cos := math.Cos(rad)
		sin := math.Sin(rad)
		ex := math.Hypot(r.SemiMajor*cos, r.SemiMinor*sin)
		ey := math.Hypot(r.SemiMajor*sin, r.SemiMinor*cos)
		return geometry.NewRect(r.Center.X-ex, r.Center.Y-ey, 2*ex, 2*ey)
	case KindBox:
		return geometry.BoundingBox(r.Corners())
	case KindPolygon:
		return geometry.BoundingBox(r.Vertices)
	case KindPoint:
		half := float64(r.Size) / 2
		return geometry.NewRect(r.Center.X-half, r.Center.Y-half, float64(r.Size), float64(r.Size))
	case KindLine, KindRuler:
		return geometry.BoundingBox([]geometry.Point2D{r.Start, r.End})
	case KindVector:
		return geometry.BoundingBox([]geometry.Point2D{r.Start, r.VectorEnd()})
	case KindText:
		halfW := float64(len(r.Text)) * 8 / 2
		return geometry.NewRect(r.Center.X-halfW, r.Center.Y-6, 2*halfW, 12)
	default:
		return geometry.Rect{}
	}
}

// Corners returns the rotated corners of a box region in drawing order.
func (r *Region) Corners() []geometry.Point2D {
	rad := r.Angle * math.Pi / 180
	cos := math.Cos(rad)
	sin := math.Sin(rad)
	hw, hh := r.Width/2, r.Height/2
	out := make([]geometry.Point2D, 4)
	for i, c := range [4][2]float64{{-hw, -hh}, {hw, -hh}, {hw, hh}, {-hw, hh}} {
		out[i] = geometry.Point2D{
			X: r.Center.X + c[0]*cos - c[1]*sin,
			Y: r.Center.Y + c[0]*sin + c[1]*cos,
		}
	}
	return out
}

// HasTag reports whether the region carries the given tag.
func (r *Region) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the region.
func (r *Region) Clone() *Region {
	c := *r
	c.Vertices = append([]geometry.Point2D(nil), r.Vertices...)
	c.Tags = append([]string(nil), r.Tags...)
	return &c
}

func midpoint(a, b geometry.Point2D) geometry.Point2D {
	return geometry.Point2D{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}
