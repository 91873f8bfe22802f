package imagedata

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Statistics summarizes the finite samples of a buffer or sub-selection.
type Statistics struct {
	Mean    float64
	Median  float64
	Std     float64
	Min     float64
	Max     float64
	NPixels int
}

// Stats computes statistics over every finite sample in the buffer.
func (b *Buffer) Stats() Statistics {
	values := make([]float64, 0, len(b.data))
	for _, v := range b.data {
		if isFinite(v) {
			values = append(values, v)
		}
	}
	return ComputeStats(values)
}

// ComputeStats summarizes a set of sample values. Non-finite entries
// must already be filtered out. An empty input yields zero statistics.
func ComputeStats(values []float64) Statistics {
	if len(values) == 0 {
		return Statistics{}
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return Statistics{
		Mean:    stat.Mean(sorted, nil),
		Median:  stat.Quantile(0.5, stat.LinInterp, sorted, nil),
		Std:     stat.PopStdDev(sorted, nil),
		Min:     sorted[0],
		Max:     sorted[len(sorted)-1],
		NPixels: len(values),
	}
}
