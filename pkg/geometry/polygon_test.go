package geometry

import "testing"

func TestPointInPolygonSquare(t *testing.T) {
	square := []Point2D{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
	tests := []struct {
		name string
		p    Point2D
		want bool
	}{
		{"center", Point2D{X: 5, Y: 5}, true},
		{"outside right", Point2D{X: 15, Y: 5}, false},
		{"outside above", Point2D{X: 5, Y: 12}, false},
		{"near corner inside", Point2D{X: 0.1, Y: 0.1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PointInPolygon(tt.p, square); got != tt.want {
				t.Errorf("PointInPolygon(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestPointInPolygonConcave(t *testing.T) {
	// U shape: the notch between x=4 and x=6 above y=4 is outside.
	u := []Point2D{
		{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 6, Y: 10},
		{X: 6, Y: 4}, {X: 4, Y: 4}, {X: 4, Y: 10}, {X: 0, Y: 10},
	}
	if PointInPolygon(Point2D{X: 5, Y: 8}, u) {
		t.Error("point in the notch reported inside")
	}
	if !PointInPolygon(Point2D{X: 2, Y: 8}, u) {
		t.Error("point in the left arm reported outside")
	}
	if !PointInPolygon(Point2D{X: 5, Y: 2}, u) {
		t.Error("point in the base reported outside")
	}
}

func TestPointInPolygonDegenerate(t *testing.T) {
	if PointInPolygon(Point2D{X: 1, Y: 1}, []Point2D{{X: 0, Y: 0}, {X: 5, Y: 5}}) {
		t.Error("two-vertex polygon contained a point")
	}
	if PointInPolygon(Point2D{}, nil) {
		t.Error("nil polygon contained a point")
	}
}

func TestDistanceToPolyline(t *testing.T) {
	square := []Point2D{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
	p := Point2D{X: -2, Y: 5}

	open := DistanceToPolyline(p, square, false)
	nearf(t, open, p.Distance(Point2D{}), 1e-12, "open polyline distance")

	closed := DistanceToPolyline(p, square, true)
	nearf(t, closed, 2, 1e-12, "closed polyline distance")
}

func TestDistanceToPolylineDegenerate(t *testing.T) {
	nearf(t, DistanceToPolyline(Point2D{X: 1, Y: 1}, nil, false), 0, 1e-12, "empty")
	nearf(t, DistanceToPolyline(Point2D{X: 3, Y: 4}, []Point2D{{}}, false), 5, 1e-12, "single vertex")
}
