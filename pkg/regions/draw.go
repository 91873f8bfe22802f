package regions

import (
	"errors"
	"math"

	"github.com/yogeshw/ncrads9/pkg/geometry"
)

// Gesture errors.
var (
	// ErrDegenerateShape is returned when a finished gesture has no
	// usable extent, such as a polygon with fewer than three vertices
	// or a circle of zero radius. The attempt is discarded.
	ErrDegenerateShape = errors.New("regions: degenerate shape")

	// ErrNoGesture is returned when End, Update or AddVertex is called
	// with no draw gesture in progress.
	ErrNoGesture = errors.New("regions: no draw gesture in progress")
)

// Phase is the state of an in-progress draw gesture.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDrawing            // anchor placed, cursor not yet moved
	PhasePreviewing         // anchor and current cursor position held
	PhaseCollectingVertices // polygon vertex sequence in progress
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDrawing:
		return "drawing"
	case PhasePreviewing:
		return "previewing"
	case PhaseCollectingVertices:
		return "collecting"
	default:
		return "unknown"
	}
}

// Drawer runs the interactive draw gesture for one frame. The host
// feeds it ordered pointer events through Begin, Update, AddVertex,
// End and Cancel; all coordinates are image space. End and Cancel
// always leave the drawer idle.
//
// Two-anchor shapes commit on End: circle (center = anchor, radius =
// distance to release), box and ellipse (inscribed in the anchor /
// release corner pair), line, ruler and vector (anchor to release),
// annulus (outer radius = distance, inner = half), point and text
// (anchor alone). Polygons collect one vertex per AddVertex and commit
// on End with at least three vertices.
type Drawer struct {
	phase    Phase
	kind     Kind
	anchor   geometry.Point2D
	current  geometry.Point2D
	vertices []geometry.Point2D
}

// NewDrawer returns an idle drawer.
func NewDrawer() *Drawer {
	return &Drawer{}
}

// Phase returns the current gesture phase.
func (d *Drawer) Phase() Phase {
	return d.phase
}

// Active reports whether a gesture is in progress.
func (d *Drawer) Active() bool {
	return d.phase != PhaseIdle
}

// Kind returns the shape kind being drawn. Meaningless when idle.
func (d *Drawer) Kind() Kind {
	return d.kind
}

// Begin starts a draw gesture at the press point. Any gesture already
// in progress is discarded.
func (d *Drawer) Begin(kind Kind, pt geometry.Point2D) {
	d.reset()
	d.kind = kind
	d.anchor = pt
	d.current = pt
	if kind == KindPolygon {
		d.phase = PhaseCollectingVertices
		d.vertices = append(d.vertices, pt)
		return
	}
	d.phase = PhaseDrawing
}

// Update tracks cursor motion, advancing Drawing to Previewing.
func (d *Drawer) Update(pt geometry.Point2D) error {
	switch d.phase {
	case PhaseIdle:
		return ErrNoGesture
	case PhaseDrawing:
		d.phase = PhasePreviewing
	}
	d.current = pt
	return nil
}

// AddVertex appends a polygon vertex. Only valid while collecting.
func (d *Drawer) AddVertex(pt geometry.Point2D) error {
	if d.phase != PhaseCollectingVertices {
		return ErrNoGesture
	}
	d.vertices = append(d.vertices, pt)
	d.current = pt
	return nil
}

// End finishes the gesture at the release point and returns the
// committed region. Degenerate attempts (zero extent, polygon with
// fewer than three vertices) are discarded and reported as
// ErrDegenerateShape. The drawer is idle afterwards in every case.
func (d *Drawer) End(pt geometry.Point2D) (*Region, error) {
	if d.phase == PhaseIdle {
		return nil, ErrNoGesture
	}
	defer d.reset()

	if d.phase == PhaseCollectingVertices {
		if len(d.vertices) < 3 {
			return nil, ErrDegenerateShape
		}
		return NewPolygon(d.vertices), nil
	}

	return buildFromAnchors(d.kind, d.anchor, pt)
}

// Cancel aborts the gesture, discarding any collected state.
func (d *Drawer) Cancel() {
	d.reset()
}

// Finalize ends the gesture at its current cursor position. Used when
// focus leaves the frame mid-gesture so the attempt is either committed
// or cleanly discarded, never carried over.
func (d *Drawer) Finalize() (*Region, error) {
	if d.phase == PhaseIdle {
		return nil, ErrNoGesture
	}
	return d.End(d.current)
}

// Preview returns the region the gesture would commit right now, for
// overlay rendering. While collecting polygon vertices the preview is
// the open vertex chain extended to the cursor. Reports false when
// there is nothing to show.
func (d *Drawer) Preview() (*Region, bool) {
	switch d.phase {
	case PhaseIdle:
		return nil, false
	case PhaseCollectingVertices:
		pts := append(append([]geometry.Point2D(nil), d.vertices...), d.current)
		return NewPolygon(pts), true
	case PhaseDrawing:
		if d.kind == KindPoint || d.kind == KindText {
			r, err := buildFromAnchors(d.kind, d.anchor, d.anchor)
			return r, err == nil
		}
		return nil, false
	default:
		r, err := buildFromAnchors(d.kind, d.anchor, d.current)
		return r, err == nil
	}
}

// buildFromAnchors constructs a region from the press and release
// points of a two-anchor gesture.
func buildFromAnchors(kind Kind, anchor, pt geometry.Point2D) (*Region, error) {
	switch kind {
	case KindPoint:
		return NewPoint(anchor), nil
	case KindText:
		return NewText(anchor, ""), nil
	case KindCircle:
		radius := anchor.Distance(pt)
		if radius == 0 {
			return nil, ErrDegenerateShape
		}
		return NewCircle(anchor, radius), nil
	case KindAnnulus:
		outer := anchor.Distance(pt)
		if outer == 0 {
			return nil, ErrDegenerateShape
		}
		return NewAnnulus(anchor, outer/2, outer), nil
	case KindBox:
		w := math.Abs(pt.X - anchor.X)
		h := math.Abs(pt.Y - anchor.Y)
		if w == 0 || h == 0 {
			return nil, ErrDegenerateShape
		}
		return NewBox(midpoint(anchor, pt), w, h, 0), nil
	case KindEllipse:
		a := math.Abs(pt.X-anchor.X) / 2
		b := math.Abs(pt.Y-anchor.Y) / 2
		if a == 0 || b == 0 {
			return nil, ErrDegenerateShape
		}
		return NewEllipse(midpoint(anchor, pt), a, b, 0), nil
	case KindLine:
		if anchor == pt {
			return nil, ErrDegenerateShape
		}
		return NewLine(anchor, pt), nil
	case KindRuler:
		if anchor == pt {
			return nil, ErrDegenerateShape
		}
		return NewRuler(anchor, pt), nil
	case KindVector:
		length := anchor.Distance(pt)
		if length == 0 {
			return nil, ErrDegenerateShape
		}
		angle := math.Atan2(pt.Y-anchor.Y, pt.X-anchor.X) * 180 / math.Pi
		return NewVector(anchor, length, angle, true), nil
	default:
		return nil, ErrDegenerateShape
	}
}

func (d *Drawer) reset() {
	d.phase = PhaseIdle
	d.vertices = nil
}
