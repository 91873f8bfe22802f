package analysis

import (
	"math"

	"github.com/yogeshw/ncrads9/pkg/imagedata"
)

// DefaultHistogramBins is the bin count used when the caller passes a
// non-positive count.
const DefaultHistogramBins = 256

// Histogram bins the finite samples of a buffer for display.
type Histogram struct {
	Counts []int
	Edges  []float64 // len(Counts)+1, ascending
	Total  int       // samples counted across all bins
}

// NewHistogram bins the buffer's finite samples into the half-open
// range [lo, hi). When lo >= hi the range is derived from the buffer
// extrema; a flat buffer widens the range by one. Samples outside the
// range and non-finite samples are dropped. The top edge is inclusive
// so the maximum lands in the last bin.
func NewHistogram(buf *imagedata.Buffer, bins int, lo, hi float64) (*Histogram, error) {
	if buf == nil {
		return nil, imagedata.ErrEmptyBuffer
	}
	if bins <= 0 {
		bins = DefaultHistogramBins
	}
	if lo >= hi {
		min, max, ok := buf.MinMax()
		if !ok {
			min, max = 0, 1
		}
		lo, hi = min, max
		if lo == hi {
			hi = lo + 1
		}
	}

	h := &Histogram{
		Counts: make([]int, bins),
		Edges:  make([]float64, bins+1),
	}
	width := (hi - lo) / float64(bins)
	for i := 0; i <= bins; i++ {
		h.Edges[i] = lo + float64(i)*width
	}

	for _, v := range buf.Data() {
		if math.IsNaN(v) || v < lo || v > hi {
			continue
		}
		idx := int((v - lo) / width)
		if idx >= bins {
			idx = bins - 1
		}
		h.Counts[idx]++
		h.Total++
	}
	return h, nil
}

// Centers returns the midpoint of each bin.
func (h *Histogram) Centers() []float64 {
	centers := make([]float64, len(h.Counts))
	for i := range centers {
		centers[i] = (h.Edges[i] + h.Edges[i+1]) / 2
	}
	return centers
}

// Percentile returns the bin center at which the cumulative count
// reaches the given percentile (0 to 100). An empty histogram returns
// the low edge.
func (h *Histogram) Percentile(p float64) float64 {
	if h.Total == 0 {
		return h.Edges[0]
	}
	target := p / 100 * float64(h.Total)
	cum := 0
	for i, c := range h.Counts {
		cum += c
		if float64(cum) >= target {
			return (h.Edges[i] + h.Edges[i+1]) / 2
		}
	}
	return (h.Edges[len(h.Edges)-2] + h.Edges[len(h.Edges)-1]) / 2
}

// Mode returns the center of the most populated bin.
func (h *Histogram) Mode() float64 {
	best := 0
	for i, c := range h.Counts {
		if c > h.Counts[best] {
			best = i
		}
	}
	return (h.Edges[best] + h.Edges[best+1]) / 2
}
