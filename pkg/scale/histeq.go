package scale

import (
	"math"

	"github.com/yogeshw/ncrads9/internal/logging"
	"github.com/yogeshw/ncrads9/pkg/imagedata"
)

const histEqBins = 65536

// HistEqTable is the precomputed cumulative-distribution lookup for
// histogram equalization, valid for one (buffer, z1, z2) combination.
type HistEqTable struct {
	gen uint64
	z1  float64
	z2  float64
	cdf []float64
}

// lookup maps a clip-normalized intensity in [0,1] through the CDF.
func (t *HistEqTable) lookup(n float64) float64 {
	if len(t.cdf) == 0 {
		return 0
	}
	idx := int(n * float64(len(t.cdf)-1))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(t.cdf) {
		idx = len(t.cdf) - 1
	}
	return t.cdf[idx]
}

// buildHistEqTable bins the clip-normalized finite samples of the buffer
// and accumulates a normalized CDF. Linear in the buffer size.
func buildHistEqTable(buf *imagedata.Buffer, z1, z2 float64) *HistEqTable {
	t := &HistEqTable{gen: buf.Generation(), z1: z1, z2: z2}

	counts := make([]uint64, histEqBins)
	var total uint64
	span := z2 - z1
	for _, v := range buf.Data() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		var n float64
		if span > 0 {
			n = (v - z1) / span
		}
		idx := int(n * float64(histEqBins-1))
		if idx < 0 {
			idx = 0
		}
		if idx >= histEqBins {
			idx = histEqBins - 1
		}
		counts[idx]++
		total++
	}
	if total == 0 {
		return t
	}

	t.cdf = make([]float64, histEqBins)
	var cum uint64
	for i, c := range counts {
		cum += c
		t.cdf[i] = float64(cum) / float64(total)
	}
	return t
}

// HistEqCache memoizes the equalization table per (buffer generation,
// z1, z2). It is owned by a frame and rebuilt lazily; Invalidate drops
// the table explicitly after the buffer or limits change.
type HistEqCache struct {
	table *HistEqTable
}

// Table returns the cached table for the given inputs, rebuilding it on
// a key mismatch. A nil buffer yields nil.
func (c *HistEqCache) Table(buf *imagedata.Buffer, z1, z2 float64) *HistEqTable {
	if buf == nil {
		return nil
	}
	t := c.table
	if t != nil && t.gen == buf.Generation() && t.z1 == z1 && t.z2 == z2 {
		return t
	}
	logging.Logger().Debug("rebuilding histogram equalization table",
		"generation", buf.Generation(), "z1", z1, "z2", z2)
	t = buildHistEqTable(buf, z1, z2)
	c.table = t
	return t
}

// Invalidate drops the cached table.
func (c *HistEqCache) Invalidate() {
	c.table = nil
}

// NormalizeBuffer maps every sample of the buffer through the stretch
// pipeline, producing a normalized intensity plane with the same
// dimensions. Non-finite samples yield the Invalid sentinel. The cache
// may be nil; histogram equalization then builds a throwaway table.
func NormalizeBuffer(buf *imagedata.Buffer, p Params, cache *HistEqCache) []float64 {
	if buf == nil {
		return nil
	}
	var table *HistEqTable
	if p.Algorithm == HistEq {
		if cache != nil {
			table = cache.Table(buf, p.Z1, p.Z2)
		} else {
			table = buildHistEqTable(buf, p.Z1, p.Z2)
		}
	}

	data := buf.Data()
	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = p.NormalizeWith(v, table)
	}
	return out
}
