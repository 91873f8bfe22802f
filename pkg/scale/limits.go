package scale

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/yogeshw/ncrads9/pkg/imagedata"
)

// ClipMode selects how the display limits are derived from the buffer.
type ClipMode int

const (
	ClipManual ClipMode = iota
	ClipMinMax
	ClipZScale
)

func (m ClipMode) String() string {
	switch m {
	case ClipManual:
		return "manual"
	case ClipMinMax:
		return "minmax"
	case ClipZScale:
		return "zscale"
	default:
		return "unknown"
	}
}

// IRAF zscale parameters.
const (
	zscaleContrast   = 0.25
	zscaleSamples    = 1000
	zscaleIterations = 5
	zscaleKRej       = 2.5
)

// MinMaxLimits returns the exact extrema of the finite samples, or
// (0, 1) when the buffer has none.
func MinMaxLimits(buf *imagedata.Buffer) (z1, z2 float64) {
	min, max, ok := buf.MinMax()
	if !ok {
		return 0, 1
	}
	return min, max
}

// ZScaleLimits derives display limits with the IRAF zscale algorithm: a
// linear fit over an evenly spaced sample of the sorted finite values,
// iteratively rejecting samples more than 2.5 population standard
// deviations from the fit, then expanding the fitted slope around the
// sample median by 1/contrast.
func ZScaleLimits(buf *imagedata.Buffer) (z1, z2 float64) {
	finite := make([]float64, 0, len(buf.Data()))
	for _, v := range buf.Data() {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			finite = append(finite, v)
		}
	}
	if len(finite) == 0 {
		return 0, 1
	}
	sort.Float64s(finite)

	var samples []float64
	if len(finite) > zscaleSamples {
		samples = make([]float64, zscaleSamples)
		for i := range samples {
			idx := int(float64(i) * float64(len(finite)-1) / float64(zscaleSamples-1))
			samples[i] = finite[idx]
		}
	} else {
		samples = finite
	}

	n := len(samples)
	if n < 2 {
		return samples[0], samples[0] + 1
	}

	x := make([]float64, n)
	for i := range x {
		x[i] = float64(i)
	}

	// Iterative fit with sigma clipping. Filtering preserves the sorted
	// order of samples and the original index values in x.
	var slope float64
	for iter := 0; iter < zscaleIterations; iter++ {
		alpha, beta := stat.LinearRegression(x, samples, nil, false)
		slope = beta

		residuals := make([]float64, len(samples))
		for i := range samples {
			residuals[i] = samples[i] - (alpha + beta*x[i])
		}
		std := stat.PopStdDev(residuals, nil)

		kept := 0
		for i := range samples {
			if math.Abs(residuals[i]) < zscaleKRej*std {
				kept++
			}
		}
		if kept < 2 {
			break
		}
		keptX := make([]float64, 0, kept)
		keptS := make([]float64, 0, kept)
		for i := range samples {
			if math.Abs(residuals[i]) < zscaleKRej*std {
				keptX = append(keptX, x[i])
				keptS = append(keptS, samples[i])
			}
		}
		x = keptX
		samples = keptS
	}

	median := stat.Quantile(0.5, stat.LinInterp, samples, nil)
	z1 = median - (float64(n)/2.0)*slope/zscaleContrast
	z2 = median + (float64(n)/2.0)*slope/zscaleContrast

	dataMin := finite[0]
	dataMax := finite[len(finite)-1]
	z1 = math.Max(z1, dataMin)
	z2 = math.Min(z2, dataMax)
	if z1 >= z2 {
		return dataMin, dataMax
	}
	return z1, z2
}

// ApplyClip recomputes the limits of p from the buffer according to the
// clip mode. Manual mode leaves the limits untouched. A nil buffer is a
// no-op.
func ApplyClip(p *Params, buf *imagedata.Buffer, mode ClipMode) {
	if buf == nil {
		return
	}
	switch mode {
	case ClipMinMax:
		p.SetLimits(MinMaxLimits(buf))
	case ClipZScale:
		p.SetLimits(ZScaleLimits(buf))
	}
}
