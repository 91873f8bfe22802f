// Package imagedata holds the raw sample buffer handed to the engine by
// the host's image loader, plus derived statistics.
//
// Buffers follow the astronomical row convention: row 0 is the BOTTOM
// row of the displayed image. The coordinate transforms account for the
// flip to device space, so nothing else in the engine reorders rows.
package imagedata

import (
	"errors"
	"math"
	"sync/atomic"
)

// ErrEmptyBuffer reports an operation on a frame that has no image, or a
// buffer constructed with degenerate dimensions.
var ErrEmptyBuffer = errors.New("imagedata: empty buffer")

// generation is a process-wide counter handing out buffer identities.
// Derived-state caches (histogram equalization, zscale) key on it.
var generation atomic.Uint64

// Buffer is an immutable 2D array of floating-point samples in row-major
// order, row 0 at the bottom. Samples may be non-finite (NaN/Inf); such
// samples are excluded from statistics and render as the invalid sentinel.
type Buffer struct {
	width  int
	height int
	data   []float64
	gen    uint64
}

// New wraps sample data as a Buffer. The slice is retained, not copied;
// the caller must not modify it afterwards. len(data) must equal
// width*height and both dimensions must be positive.
func New(data []float64, width, height int) (*Buffer, error) {
	if width <= 0 || height <= 0 || len(data) != width*height {
		return nil, ErrEmptyBuffer
	}
	return &Buffer{
		width:  width,
		height: height,
		data:   data,
		gen:    generation.Add(1),
	}, nil
}

// Width returns the number of sample columns.
func (b *Buffer) Width() int { return b.width }

// Height returns the number of sample rows.
func (b *Buffer) Height() int { return b.height }

// Generation returns the buffer's process-unique identity, used as a
// cache key for derived state.
func (b *Buffer) Generation() uint64 { return b.gen }

// Data returns the underlying sample slice. Callers must treat it as
// read-only.
func (b *Buffer) Data() []float64 { return b.data }

// At returns the sample at column x, row y (row 0 = bottom). The second
// result is false when the coordinate is out of range.
func (b *Buffer) At(x, y int) (float64, bool) {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return 0, false
	}
	return b.data[y*b.width+x], true
}

// MinMax returns the extrema of the finite samples. ok is false when the
// buffer contains no finite sample.
func (b *Buffer) MinMax() (min, max float64, ok bool) {
	min = math.Inf(1)
	max = math.Inf(-1)
	for _, v := range b.data {
		if !isFinite(v) {
			continue
		}
		ok = true
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if !ok {
		return 0, 0, false
	}
	return min, max, true
}

// FiniteCount returns the number of finite samples.
func (b *Buffer) FiniteCount() int {
	n := 0
	for _, v := range b.data {
		if isFinite(v) {
			n++
		}
	}
	return n
}

// Cutout returns a new Buffer covering the intersection of the requested
// rectangle with the buffer bounds. The sample data is copied. Returns
// ErrEmptyBuffer when the intersection is empty.
func (b *Buffer) Cutout(x0, y0, width, height int) (*Buffer, error) {
	if x0 < 0 {
		width += x0
		x0 = 0
	}
	if y0 < 0 {
		height += y0
		y0 = 0
	}
	if x0+width > b.width {
		width = b.width - x0
	}
	if y0+height > b.height {
		height = b.height - y0
	}
	if width <= 0 || height <= 0 {
		return nil, ErrEmptyBuffer
	}
	out := make([]float64, width*height)
	for row := 0; row < height; row++ {
		src := (y0+row)*b.width + x0
		copy(out[row*width:(row+1)*width], b.data[src:src+width])
	}
	return New(out, width, height)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
