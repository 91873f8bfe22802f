package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/yogeshw/ncrads9/pkg/colorutil"
	"github.com/yogeshw/ncrads9/pkg/geometry"
)

func newCanvas(w, h int) *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, w, h))
}

func countColor(img *image.RGBA, col color.RGBA) int {
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.RGBAAt(x, y) == col {
				n++
			}
		}
	}
	return n
}

func TestPolylineStrokesSegment(t *testing.T) {
	img := newCanvas(20, 20)
	Rasterize(img, []Command{{
		Op:     OpPolyline,
		Points: []geometry.Point2D{{X: 2, Y: 10}, {X: 17, Y: 10}},
		Color:  colorutil.Red,
		Width:  1,
	}})

	for x := 2; x <= 17; x++ {
		if img.RGBAAt(x, 10) != colorutil.Red {
			t.Fatalf("pixel (%d,10) = %v, want red", x, img.RGBAAt(x, 10))
		}
	}
	if img.RGBAAt(5, 9) != (color.RGBA{}) || img.RGBAAt(5, 11) != (color.RGBA{}) {
		t.Error("width-1 line bled into adjacent rows")
	}
}

func TestLineThicknessStampsBlock(t *testing.T) {
	img := newCanvas(20, 20)
	Rasterize(img, []Command{{
		Op:     OpPolyline,
		Points: []geometry.Point2D{{X: 2, Y: 10}, {X: 17, Y: 10}},
		Color:  colorutil.Red,
		Width:  3,
	}})

	for _, y := range []int{9, 10, 11} {
		if img.RGBAAt(5, y) != colorutil.Red {
			t.Errorf("pixel (5,%d) = %v, want red", y, img.RGBAAt(5, y))
		}
	}
	if img.RGBAAt(5, 8) != (color.RGBA{}) || img.RGBAAt(5, 12) != (color.RGBA{}) {
		t.Error("width-3 line wider than three rows")
	}
}

func TestDashedLineFourOnFourOff(t *testing.T) {
	img := newCanvas(20, 20)
	Rasterize(img, []Command{{
		Op:     OpPolyline,
		Points: []geometry.Point2D{{X: 0, Y: 10}, {X: 19, Y: 10}},
		Color:  colorutil.Red,
		Width:  1,
		Dashed: true,
	}})

	for x := 0; x < 20; x++ {
		want := (x/4)%2 == 0
		got := img.RGBAAt(x, 10) == colorutil.Red
		if got != want {
			t.Errorf("pixel (%d,10) drawn = %v, want %v", x, got, want)
		}
	}
}

func TestClosedPolylineStrokesClosingEdge(t *testing.T) {
	pts := []geometry.Point2D{{X: 2, Y: 2}, {X: 12, Y: 2}, {X: 2, Y: 12}}

	open := newCanvas(20, 20)
	Rasterize(open, []Command{{Op: OpPolyline, Points: pts, Color: colorutil.Red, Width: 1}})
	if open.RGBAAt(2, 7) != (color.RGBA{}) {
		t.Error("open polyline drew the closing edge")
	}

	closed := newCanvas(20, 20)
	Rasterize(closed, []Command{{Op: OpPolyline, Points: pts, Color: colorutil.Red, Width: 1, Closed: true}})
	if closed.RGBAAt(2, 7) != colorutil.Red {
		t.Error("closed polyline missing the closing edge")
	}
}

func TestEllipseStrokesRing(t *testing.T) {
	img := newCanvas(20, 20)
	Rasterize(img, []Command{{
		Op:      OpEllipse,
		Center:  geometry.Point2D{X: 10, Y: 10},
		RadiusX: 5, RadiusY: 5,
		Color: colorutil.Green,
		Width: 1,
	}})

	tests := []struct {
		x, y  int
		drawn bool
	}{
		{15, 10, true},  // on the outer boundary
		{10, 15, true},  // on the outer boundary
		{10, 10, false}, // interior hole
		{13, 10, false}, // inside the inner boundary
		{17, 10, false}, // outside
	}
	for _, tt := range tests {
		got := img.RGBAAt(tt.x, tt.y) == colorutil.Green
		if got != tt.drawn {
			t.Errorf("pixel (%d,%d) drawn = %v, want %v", tt.x, tt.y, got, tt.drawn)
		}
	}
}

func TestEllipseRotation(t *testing.T) {
	img := newCanvas(20, 20)
	Rasterize(img, []Command{{
		Op:      OpEllipse,
		Center:  geometry.Point2D{X: 10, Y: 10},
		RadiusX: 6, RadiusY: 2,
		Angle:   90,
		Color:   colorutil.Green,
		Width:   1,
	}})

	// A 90 degree turn makes the long axis vertical.
	if img.RGBAAt(10, 15) != colorutil.Green {
		t.Error("rotated ellipse missing its vertical extent")
	}
	if img.RGBAAt(15, 10) == colorutil.Green {
		t.Error("rotated ellipse still has horizontal extent")
	}
}

func TestEllipseDegenerateRadiiNoop(t *testing.T) {
	img := newCanvas(20, 20)
	Rasterize(img, []Command{{
		Op:     OpEllipse,
		Center: geometry.Point2D{X: 10, Y: 10},
		Color:  colorutil.Green,
		Width:  1,
	}})
	if n := countColor(img, colorutil.Green); n != 0 {
		t.Errorf("zero-radius ellipse drew %d pixels", n)
	}
}

func TestMarkerStyles(t *testing.T) {
	tests := []struct {
		marker string
		set    [][2]int
		clear  [][2]int
	}{
		{"cross", [][2]int{{7, 10}, {13, 10}, {10, 7}, {10, 13}}, [][2]int{{7, 7}}},
		{"box", [][2]int{{7, 7}, {13, 13}, {7, 10}, {10, 7}}, [][2]int{{10, 10}}},
		{"x", [][2]int{{7, 7}, {13, 13}, {7, 13}, {13, 7}, {10, 10}}, [][2]int{{7, 10}}},
		{"circle", [][2]int{{13, 10}, {7, 10}, {10, 13}, {10, 7}}, [][2]int{{10, 10}}},
		{"diamond", [][2]int{{10, 7}, {13, 10}, {10, 13}, {7, 10}}, [][2]int{{10, 10}}},
		{"unknown", [][2]int{{7, 10}, {10, 7}}, [][2]int{{7, 7}}},
	}
	for _, tt := range tests {
		t.Run(tt.marker, func(t *testing.T) {
			img := newCanvas(20, 20)
			Rasterize(img, []Command{{
				Op:     OpMarker,
				Center: geometry.Point2D{X: 10, Y: 10},
				Marker: tt.marker,
				Size:   6,
				Color:  colorutil.Blue,
				Width:  1,
			}})
			for _, p := range tt.set {
				if img.RGBAAt(p[0], p[1]) != colorutil.Blue {
					t.Errorf("pixel (%d,%d) = %v, want blue", p[0], p[1], img.RGBAAt(p[0], p[1]))
				}
			}
			for _, p := range tt.clear {
				if img.RGBAAt(p[0], p[1]) == colorutil.Blue {
					t.Errorf("pixel (%d,%d) drawn, want clear", p[0], p[1])
				}
			}
		})
	}
}

func TestBoxcircleCombinesBothMarkers(t *testing.T) {
	img := newCanvas(20, 20)
	Rasterize(img, []Command{{
		Op:     OpMarker,
		Center: geometry.Point2D{X: 10, Y: 10},
		Marker: "boxcircle",
		Size:   6,
		Color:  colorutil.Blue,
		Width:  1,
	}})
	if img.RGBAAt(7, 7) != colorutil.Blue {
		t.Error("boxcircle missing box corner")
	}
	if img.RGBAAt(13, 10) != colorutil.Blue {
		t.Error("boxcircle missing circle point")
	}
}

func TestLabelDrawsCenteredInk(t *testing.T) {
	img := newCanvas(60, 20)
	Rasterize(img, []Command{{
		Op:     OpLabel,
		Center: geometry.Point2D{X: 30, Y: 10},
		Text:   "5.0 px",
		Color:  colorutil.Red,
	}})

	n := countColor(img, colorutil.Red)
	if n == 0 {
		t.Fatal("label drew no ink")
	}
	// Ink on both sides of the anchor means the string is centered.
	left, right := 0, 0
	for y := 0; y < 20; y++ {
		for x := 0; x < 60; x++ {
			if img.RGBAAt(x, y) == colorutil.Red {
				if x < 30 {
					left++
				} else {
					right++
				}
			}
		}
	}
	if left == 0 || right == 0 {
		t.Errorf("ink left/right of anchor = %d/%d, want both nonzero", left, right)
	}
}

func TestEmptyLabelNoop(t *testing.T) {
	img := newCanvas(20, 20)
	Rasterize(img, []Command{{Op: OpLabel, Center: geometry.Point2D{X: 10, Y: 10}, Color: colorutil.Red}})
	if n := countColor(img, colorutil.Red); n != 0 {
		t.Errorf("empty label drew %d pixels", n)
	}
}

func TestRasterizeClipsOutOfBounds(t *testing.T) {
	img := newCanvas(10, 10)
	Rasterize(img, []Command{
		{Op: OpPolyline, Points: []geometry.Point2D{{X: -50, Y: -50}, {X: 100, Y: 100}}, Color: colorutil.Red, Width: 3},
		{Op: OpEllipse, Center: geometry.Point2D{X: -5, Y: -5}, RadiusX: 4, RadiusY: 4, Color: colorutil.Red, Width: 1},
		{Op: OpMarker, Center: geometry.Point2D{X: 50, Y: 50}, Marker: "circle", Size: 8, Color: colorutil.Red, Width: 1},
		{Op: OpLabel, Center: geometry.Point2D{X: -10, Y: -10}, Text: "off", Color: colorutil.Red},
	})
	// The diagonal crosses the canvas; everything else clips away.
	if img.RGBAAt(5, 5) != colorutil.Red {
		t.Error("clipped diagonal missing its in-bounds span")
	}
}
