package scale

import (
	"math"
	"testing"
)

func TestParseAlgorithm(t *testing.T) {
	tests := []struct {
		name string
		want Algorithm
	}{
		{"linear", Linear},
		{"log", Log},
		{"sqrt", Sqrt},
		{"squared", Squared},
		{"power", Squared},
		{"sinh", Sinh},
		{"asinh", Asinh},
		{"histeq", HistEq},
		{"histogram", HistEq},
	}
	for _, tt := range tests {
		got, err := ParseAlgorithm(tt.name)
		if err != nil {
			t.Errorf("ParseAlgorithm(%q): %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseAlgorithm(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
	if _, err := ParseAlgorithm("zscale"); err == nil {
		t.Error("ParseAlgorithm(\"zscale\") should fail; zscale is a clip mode")
	}
}

func TestSetLimitsKeepsOrderInvariant(t *testing.T) {
	tests := []struct {
		name           string
		z1, z2         float64
		wantZ1, wantZ2 float64
	}{
		{"ordered", 0, 10, 0, 10},
		{"reversed", 10, 0, 0, 10},
		{"equal", 5, 5, 5, 6},
		{"negative reversed", -3, -7, -7, -3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			p.SetLimits(tt.z1, tt.z2)
			if p.Z1 != tt.wantZ1 || p.Z2 != tt.wantZ2 {
				t.Errorf("limits = (%v, %v), want (%v, %v)", p.Z1, p.Z2, tt.wantZ1, tt.wantZ2)
			}
			if !(p.Z1 < p.Z2) {
				t.Errorf("limit order violated: %v >= %v", p.Z1, p.Z2)
			}
		})
	}
}

func TestSetContrastBiasClamps(t *testing.T) {
	p := DefaultParams()
	p.SetContrastBias(100, 5)
	if p.Contrast != MaxContrast || p.Bias != MaxBias {
		t.Errorf("high clamp = (%v, %v), want (%v, %v)", p.Contrast, p.Bias, MaxContrast, MaxBias)
	}
	p.SetContrastBias(0.001, -5)
	if p.Contrast != MinContrast || p.Bias != MinBias {
		t.Errorf("low clamp = (%v, %v), want (%v, %v)", p.Contrast, p.Bias, MinContrast, MinBias)
	}
	p.SetContrastBias(2.5, -0.25)
	if p.Contrast != 2.5 || p.Bias != -0.25 {
		t.Errorf("in-range = (%v, %v), want (2.5, -0.25)", p.Contrast, p.Bias)
	}
}

func TestAdjustContrastBiasAccumulates(t *testing.T) {
	p := DefaultParams()
	p.AdjustContrastBias(0.5, -0.25)
	if p.Contrast != 1.5 || p.Bias != -0.25 {
		t.Fatalf("after first drag = (%v, %v), want (1.5, -0.25)", p.Contrast, p.Bias)
	}
	p.AdjustContrastBias(100, -100)
	if p.Contrast != MaxContrast || p.Bias != MinBias {
		t.Fatalf("after runaway drag = (%v, %v), want clamped", p.Contrast, p.Bias)
	}
}

func TestNormalizeLinearMidpoint(t *testing.T) {
	p := DefaultParams()
	p.SetLimits(0, 100)

	tests := []struct {
		v    float64
		want float64
	}{
		{50, 0.5},
		{0, 0},
		{100, 1},
		{-10, 0},
		{250, 1},
		{25, 0.25},
	}
	for _, tt := range tests {
		if got := p.Normalize(tt.v); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Normalize(%v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestNormalizeNonFinite(t *testing.T) {
	p := DefaultParams()
	p.SetLimits(0, 100)
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if got := p.Normalize(v); !IsInvalid(got) {
			t.Errorf("Normalize(%v) = %v, want the invalid sentinel", v, got)
		}
	}
	if IsInvalid(p.Normalize(50)) {
		t.Error("finite sample flagged invalid")
	}
}

func TestStretchMonotonicEndpoints(t *testing.T) {
	algorithms := []Algorithm{Linear, Log, Sqrt, Squared, Sinh, Asinh, HistEq}
	for _, alg := range algorithms {
		t.Run(alg.String(), func(t *testing.T) {
			p := DefaultParams()
			p.Algorithm = alg
			p.SetLimits(0, 100)

			prev := math.Inf(-1)
			for v := 0.0; v <= 100; v += 0.5 {
				n := p.Normalize(v)
				if n < prev-1e-12 {
					t.Fatalf("stretch not monotonic: f(%v) = %v after %v", v, n, prev)
				}
				if n < 0 || n > 1 {
					t.Fatalf("f(%v) = %v outside [0,1]", v, n)
				}
				prev = n
			}
			if got := p.Normalize(0); math.Abs(got) > 1e-12 {
				t.Errorf("f(z1) = %v, want 0", got)
			}
			if got := p.Normalize(100); math.Abs(got-1) > 1e-12 {
				t.Errorf("f(z2) = %v, want 1", got)
			}
		})
	}
}

func TestContrastBiasRemapsBeforeStretch(t *testing.T) {
	p := DefaultParams()
	p.SetLimits(0, 1)

	p.SetContrastBias(2, 0)
	if got := p.Normalize(0.5); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("contrast pivot moved: f(0.5) = %v, want 0.5", got)
	}
	if got := p.Normalize(0.75); math.Abs(got-1) > 1e-12 {
		t.Errorf("contrast 2 at 0.75 = %v, want saturated 1", got)
	}
	if got := p.Normalize(0.25); math.Abs(got) > 1e-12 {
		t.Errorf("contrast 2 at 0.25 = %v, want 0", got)
	}

	p.SetContrastBias(1, 0.25)
	if got := p.Normalize(0.5); math.Abs(got-0.75) > 1e-12 {
		t.Errorf("bias 0.25 at 0.5 = %v, want 0.75", got)
	}
}
