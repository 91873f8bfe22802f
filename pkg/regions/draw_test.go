package regions

import (
	"errors"
	"math"
	"testing"

	"github.com/yogeshw/ncrads9/pkg/geometry"
)

func TestDrawCircle(t *testing.T) {
	d := NewDrawer()
	d.Begin(KindCircle, geometry.Point2D{X: 10, Y: 10})
	if d.Phase() != PhaseDrawing {
		t.Fatalf("phase = %v, want drawing", d.Phase())
	}

	if err := d.Update(geometry.Point2D{X: 13, Y: 10}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if d.Phase() != PhasePreviewing {
		t.Fatalf("phase = %v, want previewing", d.Phase())
	}

	r, err := d.End(geometry.Point2D{X: 13, Y: 10})
	if err != nil {
		t.Fatalf("End: %v", err)
	}
	if r.Kind != KindCircle || r.Center != (geometry.Point2D{X: 10, Y: 10}) || r.Radius != 3 {
		t.Errorf("committed %+v, want circle at (10,10) r=3", r)
	}
	if d.Active() {
		t.Error("drawer should be idle after End")
	}
}

func TestDrawBoxFromCorners(t *testing.T) {
	d := NewDrawer()
	d.Begin(KindBox, geometry.Point2D{X: 0, Y: 0})
	r, err := d.End(geometry.Point2D{X: 10, Y: 6})
	if err != nil {
		t.Fatalf("End: %v", err)
	}
	if r.Center != (geometry.Point2D{X: 5, Y: 3}) || r.Width != 10 || r.Height != 6 {
		t.Errorf("box = center %+v %vx%v, want (5,3) 10x6", r.Center, r.Width, r.Height)
	}
}

func TestDrawEllipseInscribed(t *testing.T) {
	d := NewDrawer()
	d.Begin(KindEllipse, geometry.Point2D{X: 10, Y: 20})
	r, err := d.End(geometry.Point2D{X: 0, Y: 0})
	if err != nil {
		t.Fatalf("End: %v", err)
	}
	if r.Center != (geometry.Point2D{X: 5, Y: 10}) || r.SemiMajor != 5 || r.SemiMinor != 10 {
		t.Errorf("ellipse = center %+v a=%v b=%v, want (5,10) 5 10", r.Center, r.SemiMajor, r.SemiMinor)
	}
}

func TestDrawPointIgnoresRelease(t *testing.T) {
	d := NewDrawer()
	d.Begin(KindPoint, geometry.Point2D{X: 7, Y: 8})
	r, err := d.End(geometry.Point2D{X: 100, Y: 100})
	if err != nil {
		t.Fatalf("End: %v", err)
	}
	if r.Center != (geometry.Point2D{X: 7, Y: 8}) {
		t.Errorf("point at %+v, want press point (7,8)", r.Center)
	}
}

func TestDrawDegenerateDiscards(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
	}{
		{"circle", KindCircle},
		{"box", KindBox},
		{"ellipse", KindEllipse},
		{"line", KindLine},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDrawer()
			pt := geometry.Point2D{X: 5, Y: 5}
			d.Begin(tt.kind, pt)
			r, err := d.End(pt)
			if !errors.Is(err, ErrDegenerateShape) {
				t.Errorf("End at press point: err = %v, want ErrDegenerateShape", err)
			}
			if r != nil {
				t.Errorf("got region %+v from degenerate gesture", r)
			}
			if d.Active() {
				t.Error("drawer should be idle after a degenerate End")
			}
		})
	}
}

func TestDrawPolygon(t *testing.T) {
	d := NewDrawer()
	d.Begin(KindPolygon, geometry.Point2D{X: 0, Y: 0})
	if d.Phase() != PhaseCollectingVertices {
		t.Fatalf("phase = %v, want collecting", d.Phase())
	}
	if err := d.AddVertex(geometry.Point2D{X: 10, Y: 0}); err != nil {
		t.Fatalf("AddVertex: %v", err)
	}
	if err := d.AddVertex(geometry.Point2D{X: 5, Y: 8}); err != nil {
		t.Fatalf("AddVertex: %v", err)
	}

	r, err := d.End(geometry.Point2D{X: 5, Y: 8})
	if err != nil {
		t.Fatalf("End: %v", err)
	}
	if r.Kind != KindPolygon || len(r.Vertices) != 3 {
		t.Errorf("polygon has %d vertices, want 3", len(r.Vertices))
	}
}

func TestDrawPolygonTooFewVertices(t *testing.T) {
	d := NewDrawer()
	d.Begin(KindPolygon, geometry.Point2D{X: 0, Y: 0})
	d.AddVertex(geometry.Point2D{X: 10, Y: 0})

	r, err := d.End(geometry.Point2D{X: 10, Y: 0})
	if !errors.Is(err, ErrDegenerateShape) {
		t.Fatalf("End with 2 vertices: err = %v, want ErrDegenerateShape", err)
	}
	if r != nil {
		t.Errorf("got region %+v, want nil", r)
	}
	if d.Active() {
		t.Error("attempt should be discarded, drawer idle")
	}
}

func TestDrawCancel(t *testing.T) {
	d := NewDrawer()
	d.Begin(KindCircle, geometry.Point2D{X: 0, Y: 0})
	d.Update(geometry.Point2D{X: 5, Y: 5})
	d.Cancel()

	if d.Active() {
		t.Fatal("drawer should be idle after Cancel")
	}
	if _, err := d.End(geometry.Point2D{X: 5, Y: 5}); !errors.Is(err, ErrNoGesture) {
		t.Errorf("End after Cancel: err = %v, want ErrNoGesture", err)
	}
}

func TestDrawEventOrderErrors(t *testing.T) {
	d := NewDrawer()
	if err := d.Update(geometry.Point2D{}); !errors.Is(err, ErrNoGesture) {
		t.Errorf("Update while idle: err = %v, want ErrNoGesture", err)
	}
	if err := d.AddVertex(geometry.Point2D{}); !errors.Is(err, ErrNoGesture) {
		t.Errorf("AddVertex while idle: err = %v, want ErrNoGesture", err)
	}

	d.Begin(KindCircle, geometry.Point2D{})
	if err := d.AddVertex(geometry.Point2D{X: 1, Y: 1}); !errors.Is(err, ErrNoGesture) {
		t.Errorf("AddVertex during circle gesture: err = %v, want ErrNoGesture", err)
	}
}

func TestDrawBeginReplacesGesture(t *testing.T) {
	d := NewDrawer()
	d.Begin(KindPolygon, geometry.Point2D{X: 0, Y: 0})
	d.AddVertex(geometry.Point2D{X: 1, Y: 1})

	d.Begin(KindCircle, geometry.Point2D{X: 50, Y: 50})
	r, err := d.End(geometry.Point2D{X: 53, Y: 50})
	if err != nil {
		t.Fatalf("End: %v", err)
	}
	if r.Kind != KindCircle {
		t.Errorf("kind = %v, want circle from the replacing gesture", r.Kind)
	}
}

func TestDrawPreview(t *testing.T) {
	d := NewDrawer()
	if _, ok := d.Preview(); ok {
		t.Fatal("idle drawer should have no preview")
	}

	d.Begin(KindCircle, geometry.Point2D{X: 0, Y: 0})
	d.Update(geometry.Point2D{X: 4, Y: 0})
	p, ok := d.Preview()
	if !ok || p.Kind != KindCircle || p.Radius != 4 {
		t.Errorf("preview = (%+v,%v), want circle r=4", p, ok)
	}

	d.Cancel()
	d.Begin(KindPolygon, geometry.Point2D{X: 0, Y: 0})
	d.AddVertex(geometry.Point2D{X: 10, Y: 0})
	d.Update(geometry.Point2D{X: 5, Y: 5})
	p, ok = d.Preview()
	if !ok || len(p.Vertices) != 3 {
		t.Errorf("polygon preview has %d vertices, want chain of 3", len(p.Vertices))
	}
}

func TestDrawVector(t *testing.T) {
	d := NewDrawer()
	d.Begin(KindVector, geometry.Point2D{X: 0, Y: 0})
	r, err := d.End(geometry.Point2D{X: 0, Y: 5})
	if err != nil {
		t.Fatalf("End: %v", err)
	}
	if math.Abs(r.Length-5) > 1e-12 || math.Abs(r.Angle-90) > 1e-9 {
		t.Errorf("vector length=%v angle=%v, want 5 and 90", r.Length, r.Angle)
	}
}
