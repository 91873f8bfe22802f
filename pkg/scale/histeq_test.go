package scale

import (
	"math"
	"testing"

	"github.com/yogeshw/ncrads9/pkg/imagedata"
)

// Equalizing a uniform ramp is close to the identity: the CDF of
// uniform data is linear.
func TestHistEqUniformRampNearIdentity(t *testing.T) {
	buf := rampBuffer(t, 10000)
	p := DefaultParams()
	p.Algorithm = HistEq
	p.SetLimits(0, 9999)

	var cache HistEqCache
	table := cache.Table(buf, p.Z1, p.Z2)

	for _, v := range []float64{0, 2500, 5000, 7500, 9999} {
		want := v / 9999
		got := p.NormalizeWith(v, table)
		if math.Abs(got-want) > 0.01 {
			t.Errorf("equalized(%v) = %v, want ~%v", v, got, want)
		}
	}
}

// Equalization spends output range where the samples pile up: a heavy
// low mode takes most of the span and empty stretches stay flat.
func TestHistEqFollowsDistribution(t *testing.T) {
	data := make([]float64, 100)
	for i := 0; i < 90; i++ {
		data[i] = 10
	}
	for i := 90; i < 100; i++ {
		data[i] = 90
	}
	buf, err := imagedata.New(data, 100, 1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	p := DefaultParams()
	p.Algorithm = HistEq
	p.SetLimits(0, 100)
	var cache HistEqCache
	table := cache.Table(buf, p.Z1, p.Z2)

	if got := p.NormalizeWith(10, table); math.Abs(got-0.9) > 1e-12 {
		t.Errorf("equalized(10) = %v, want 0.9", got)
	}
	// No samples between the modes, so the curve is flat there.
	if got := p.NormalizeWith(50, table); math.Abs(got-0.9) > 1e-12 {
		t.Errorf("equalized(50) = %v, want 0.9", got)
	}
	if got := p.NormalizeWith(90, table); math.Abs(got-1) > 1e-12 {
		t.Errorf("equalized(90) = %v, want 1", got)
	}
}

func TestHistEqCacheKeying(t *testing.T) {
	buf := rampBuffer(t, 100)
	var cache HistEqCache

	t1 := cache.Table(buf, 0, 99)
	t2 := cache.Table(buf, 0, 99)
	if t1 != t2 {
		t.Error("matching key rebuilt the table")
	}

	t3 := cache.Table(buf, 0, 50)
	if t3 == t1 {
		t.Error("limits change did not rebuild the table")
	}

	other := rampBuffer(t, 100)
	t4 := cache.Table(other, 0, 50)
	if t4 == t3 {
		t.Error("buffer change did not rebuild the table")
	}

	cache.Invalidate()
	t5 := cache.Table(other, 0, 50)
	if t5 == t4 {
		t.Error("Invalidate kept the cached table")
	}

	if cache.Table(nil, 0, 1) != nil {
		t.Error("nil buffer should yield a nil table")
	}
}

func TestNormalizeBuffer(t *testing.T) {
	buf, err := imagedata.New([]float64{0, 50, 100, math.NaN()}, 4, 1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	p := DefaultParams()
	p.SetLimits(0, 100)

	out := NormalizeBuffer(buf, p, nil)
	if len(out) != 4 {
		t.Fatalf("len(out) = %d, want 4", len(out))
	}
	want := []float64{0, 0.5, 1}
	for i, w := range want {
		if math.Abs(out[i]-w) > 1e-12 {
			t.Errorf("out[%d] = %v, want %v", i, out[i], w)
		}
	}
	if !IsInvalid(out[3]) {
		t.Errorf("out[3] = %v, want the invalid sentinel", out[3])
	}

	if NormalizeBuffer(nil, p, nil) != nil {
		t.Error("nil buffer should normalize to nil")
	}
}

func TestNormalizeBufferHistEqWithoutCache(t *testing.T) {
	buf := rampBuffer(t, 100)
	p := DefaultParams()
	p.Algorithm = HistEq
	p.SetLimits(0, 99)

	out := NormalizeBuffer(buf, p, nil)
	if len(out) != 100 {
		t.Fatalf("len(out) = %d, want 100", len(out))
	}
	prev := -1.0
	for i, n := range out {
		if n < prev {
			t.Fatalf("out[%d] = %v not monotonic over the ramp", i, n)
		}
		prev = n
	}
	if math.Abs(out[99]-1) > 1e-12 {
		t.Errorf("out[99] = %v, want 1", out[99])
	}
}
