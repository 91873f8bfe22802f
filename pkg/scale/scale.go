// Package scale implements the intensity stretch pipeline: raw sample
// values are clipped to the display limits, normalized to [0,1],
// adjusted for contrast and bias, and passed through a stretch function.
package scale

import (
	"fmt"
	"math"

	"github.com/yogeshw/ncrads9/internal/logging"
)

// Algorithm selects the stretch function applied to normalized intensity.
type Algorithm int

const (
	Linear Algorithm = iota
	Log
	Sqrt
	Squared
	Sinh
	Asinh
	HistEq
)

// Stretch parameters, matching the conventional DS9 curves.
const (
	logParam       = 1000.0 // log curve steepness
	sinhParam      = 1.0
	asinhSoftening = 0.1 // linear below, logarithmic above
)

func (a Algorithm) String() string {
	switch a {
	case Linear:
		return "linear"
	case Log:
		return "log"
	case Sqrt:
		return "sqrt"
	case Squared:
		return "squared"
	case Sinh:
		return "sinh"
	case Asinh:
		return "asinh"
	case HistEq:
		return "histeq"
	default:
		return "unknown"
	}
}

// ParseAlgorithm resolves an algorithm name as used in scale menus and
// command files. "power" and "histogram" are accepted aliases.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch name {
	case "linear":
		return Linear, nil
	case "log":
		return Log, nil
	case "sqrt":
		return Sqrt, nil
	case "squared", "power":
		return Squared, nil
	case "sinh":
		return Sinh, nil
	case "asinh":
		return Asinh, nil
	case "histeq", "histogram":
		return HistEq, nil
	default:
		return Linear, fmt.Errorf("unknown scale algorithm %q", name)
	}
}

// Invalid is the reserved output for non-finite input samples. It is
// outside [0,1]; test with IsInvalid. The colormap engine renders it as
// transparent black.
var Invalid = math.NaN()

// IsInvalid reports whether n is the invalid-sample sentinel.
func IsInvalid(n float64) bool { return math.IsNaN(n) }

// Contrast and bias clamp ranges, matching the interactive adjustment
// limits of the viewer.
const (
	MinContrast = 0.1
	MaxContrast = 10.0
	MinBias     = -1.0
	MaxBias     = 1.0
)

// Params holds the per-frame stretch state. Z1 < Z2 strictly; use
// SetLimits to change limits so the invariant is preserved.
type Params struct {
	Algorithm Algorithm
	Z1        float64
	Z2        float64
	Contrast  float64
	Bias      float64
}

// DefaultParams returns linear stretch over [0,1] with neutral
// contrast and bias.
func DefaultParams() Params {
	return Params{Algorithm: Linear, Z1: 0, Z2: 1, Contrast: 1, Bias: 0}
}

// SetLimits sets the clip limits, swapping when given in reverse order
// and nudging the high limit when the two coincide. Never fails; the
// resulting limits always satisfy Z1 < Z2.
func (p *Params) SetLimits(z1, z2 float64) {
	if z1 > z2 {
		logging.Logger().Warn("clip limits reversed, swapping", "z1", z1, "z2", z2)
		z1, z2 = z2, z1
	}
	if z1 == z2 {
		z2 = z1 + 1
	}
	p.Z1 = z1
	p.Z2 = z2
}

// SetContrastBias sets contrast and bias, clamped to their valid ranges.
func (p *Params) SetContrastBias(contrast, bias float64) {
	p.Contrast = clamp(contrast, MinContrast, MaxContrast)
	p.Bias = clamp(bias, MinBias, MaxBias)
}

// AdjustContrastBias applies deltas to contrast and bias, clamped. This
// backs the click-drag stretch adjustment gesture.
func (p *Params) AdjustContrastBias(dContrast, dBias float64) {
	p.SetContrastBias(p.Contrast+dContrast, p.Bias+dBias)
}

// Normalize maps a raw sample value to normalized display intensity in
// [0,1]. Non-finite samples map to Invalid. Pure for every algorithm
// except HistEq, which needs a distribution table; use NormalizeWith
// when the algorithm may be HistEq.
func (p Params) Normalize(v float64) float64 {
	return p.NormalizeWith(v, nil)
}

// NormalizeWith is Normalize with histogram-equalization support. The
// table is only consulted when the algorithm is HistEq; a nil table
// degrades HistEq to linear.
func (p Params) NormalizeWith(v float64, table *HistEqTable) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Invalid
	}

	// Clip and normalize linearly.
	var n float64
	switch {
	case p.Z2 == p.Z1:
		n = 0
	case v <= p.Z1:
		n = 0
	case v >= p.Z2:
		n = 1
	default:
		n = (v - p.Z1) / (p.Z2 - p.Z1)
	}

	n = clamp((n-0.5)*p.Contrast+0.5+p.Bias, 0, 1)

	switch p.Algorithm {
	case Log:
		n = math.Log10(logParam*n+1) / math.Log10(logParam+1)
	case Sqrt:
		n = math.Sqrt(n)
	case Squared:
		n = n * n
	case Sinh:
		n = math.Sinh(sinhParam*n) / math.Sinh(sinhParam)
	case Asinh:
		n = math.Asinh(n/asinhSoftening) / math.Asinh(1/asinhSoftening)
	case HistEq:
		if table != nil {
			n = table.lookup(n)
		}
	}

	return clamp(n, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
