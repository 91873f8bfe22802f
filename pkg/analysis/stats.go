package analysis

import (
	"math"

	"github.com/yogeshw/ncrads9/pkg/geometry"
	"github.com/yogeshw/ncrads9/pkg/imagedata"
	"github.com/yogeshw/ncrads9/pkg/regions"
)

// RegionMask rasterizes a region onto a width x height pixel grid. A
// pixel is inside when its center lies inside the region. The mask is
// row-major, row 0 at the bottom, matching buffer layout.
func RegionMask(width, height int, r *regions.Region) []bool {
	mask := make([]bool, width*height)
	if r == nil {
		return mask
	}

	// Only pixels under the bounding box can be inside.
	bbox := r.BoundingBox()
	x0 := clampInt(int(math.Floor(bbox.X)), 0, width)
	y0 := clampInt(int(math.Floor(bbox.Y)), 0, height)
	x1 := clampInt(int(math.Ceil(bbox.X+bbox.Width)), 0, width)
	y1 := clampInt(int(math.Ceil(bbox.Y+bbox.Height)), 0, height)

	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			center := geometry.Point2D{X: float64(x) + 0.5, Y: float64(y) + 0.5}
			if r.Contains(center, 0) {
				mask[y*width+x] = true
			}
		}
	}
	return mask
}

// RegionStats summarizes the finite samples whose pixel centers fall
// inside the region.
func RegionStats(buf *imagedata.Buffer, r *regions.Region) (imagedata.Statistics, error) {
	if buf == nil {
		return imagedata.Statistics{}, imagedata.ErrEmptyBuffer
	}
	if r == nil {
		return buf.Stats(), nil
	}

	mask := RegionMask(buf.Width(), buf.Height(), r)
	return MaskedStats(buf, mask)
}

// MaskedStats summarizes the finite samples selected by a row-major
// boolean mask. A mask of the wrong length yields empty statistics.
func MaskedStats(buf *imagedata.Buffer, mask []bool) (imagedata.Statistics, error) {
	if buf == nil {
		return imagedata.Statistics{}, imagedata.ErrEmptyBuffer
	}
	data := buf.Data()
	if len(mask) != len(data) {
		return imagedata.Statistics{}, nil
	}

	values := make([]float64, 0, len(data))
	for i, v := range data {
		if mask[i] && !math.IsNaN(v) && !math.IsInf(v, 0) {
			values = append(values, v)
		}
	}
	return imagedata.ComputeStats(values), nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
