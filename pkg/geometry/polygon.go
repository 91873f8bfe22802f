package geometry

// PointInPolygon tests if a point is inside a polygon using ray casting.
func PointInPolygon(p Point2D, polygon []Point2D) bool {
	if len(polygon) < 3 {
		return false
	}

	inside := false
	n := len(polygon)

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		pi, pj := polygon[i], polygon[j]

		// Check if ray from p going right intersects edge pi-pj
		if ((pi.Y > p.Y) != (pj.Y > p.Y)) &&
			(p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X) {
			inside = !inside
		}
	}

	return inside
}

// DistanceToPolyline returns the minimum distance from p to any segment
// of the polyline. When closed is true the last vertex connects back to
// the first.
func DistanceToPolyline(p Point2D, vertices []Point2D, closed bool) float64 {
	if len(vertices) == 0 {
		return 0
	}
	if len(vertices) == 1 {
		return p.Distance(vertices[0])
	}
	best := p.DistanceToSegment(vertices[0], vertices[1])
	for i := 1; i < len(vertices)-1; i++ {
		if d := p.DistanceToSegment(vertices[i], vertices[i+1]); d < best {
			best = d
		}
	}
	if closed && len(vertices) > 2 {
		if d := p.DistanceToSegment(vertices[len(vertices)-1], vertices[0]); d < best {
			best = d
		}
	}
	return best
}
