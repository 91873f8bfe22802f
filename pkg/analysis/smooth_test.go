package analysis

import (
	"errors"
	"math"
	"testing"

	"github.com/yogeshw/ncrads9/pkg/imagedata"
)

// rampBuffer builds a width x height buffer whose sample values equal
// their row-major index.
func rampBuffer(t *testing.T, width, height int) *imagedata.Buffer {
	t.Helper()
	data := make([]float64, width*height)
	for i := range data {
		data[i] = float64(i)
	}
	buf, err := imagedata.New(data, width, height)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return buf
}

func TestSmoothParamValidation(t *testing.T) {
	buf := rampBuffer(t, 4, 4)
	cases := []struct {
		name string
		p    SmoothParams
	}{
		{"gaussian zero sigma", SmoothParams{Method: SmoothGaussian, Sigma: 0}},
		{"gaussian negative sigma", SmoothParams{Method: SmoothGaussian, Sigma: -1}},
		{"boxcar zero size", SmoothParams{Method: SmoothBoxcar, Size: 0}},
		{"tophat negative radius", SmoothParams{Method: SmoothTophat, Radius: -2}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Smooth(buf, tc.p); !errors.Is(err, ErrBadSmoothParam) {
				t.Fatalf("Smooth error = %v, want ErrBadSmoothParam", err)
			}
		})
	}

	if _, err := Smooth(nil, DefaultSmoothParams()); !errors.Is(err, imagedata.ErrEmptyBuffer) {
		t.Fatalf("nil buffer error = %v, want ErrEmptyBuffer", err)
	}
	if _, err := Smooth(buf, SmoothParams{Method: SmoothMethod(99), Sigma: 1}); err == nil {
		t.Fatal("unknown method did not error")
	}
}

func TestBoxcarIdentity(t *testing.T) {
	buf := rampBuffer(t, 3, 3)
	out, err := BoxcarSmooth(buf, 1)
	if err != nil {
		t.Fatalf("BoxcarSmooth: %v", err)
	}
	if out == buf {
		t.Fatal("smoothing returned the input buffer")
	}
	if out.Generation() == buf.Generation() {
		t.Fatal("smoothed buffer kept the input generation")
	}
	for i, v := range out.Data() {
		if math.Abs(v-float64(i)) > 1e-6 {
			t.Errorf("sample %d = %g, want %d", i, v, i)
		}
	}
}

func TestBoxcarEdgesAverageInBoundsOnly(t *testing.T) {
	buf := rampBuffer(t, 3, 3)
	out, err := BoxcarSmooth(buf, 3)
	if err != nil {
		t.Fatalf("BoxcarSmooth: %v", err)
	}

	// Zero-padded borders cancel in the weight division, so every pixel
	// is the mean of its in-bounds neighbourhood.
	want := []float64{2, 2.5, 3, 3.5, 4, 4.5, 5, 5.5, 6}
	for i, w := range want {
		if got := out.Data()[i]; math.Abs(got-w) > 1e-5 {
			t.Errorf("sample %d = %g, want %g", i, got, w)
		}
	}
}

func TestGaussianSmoothConstant(t *testing.T) {
	data := make([]float64, 25)
	for i := range data {
		data[i] = 7
	}
	buf, err := imagedata.New(data, 5, 5)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	out, err := GaussianSmooth(buf, 1.2)
	if err != nil {
		t.Fatalf("GaussianSmooth: %v", err)
	}
	for i, v := range out.Data() {
		if math.Abs(v-7) > 1e-4 {
			t.Errorf("sample %d = %g, want 7", i, v)
		}
	}
	for i, v := range buf.Data() {
		if v != 7 {
			t.Fatalf("input sample %d modified to %g", i, v)
		}
	}
}

func TestSmoothPreservesAndRenormalizesNaN(t *testing.T) {
	data := []float64{1, 1, 1, 1, math.NaN(), 1, 1, 1, 1}
	buf, err := imagedata.New(data, 3, 3)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	cases := []struct {
		name string
		p    SmoothParams
	}{
		{"gaussian", SmoothParams{Method: SmoothGaussian, Sigma: 1}},
		{"boxcar", SmoothParams{Method: SmoothBoxcar, Size: 3}},
		{"tophat", SmoothParams{Method: SmoothTophat, Radius: 1.5}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := Smooth(buf, tc.p)
			if err != nil {
				t.Fatalf("Smooth: %v", err)
			}
			for i, v := range out.Data() {
				if i == 4 {
					if !math.IsNaN(v) {
						t.Errorf("masked sample came back %g, want NaN", v)
					}
					continue
				}
				if math.Abs(v-1) > 1e-5 {
					t.Errorf("sample %d = %g, want 1", i, v)
				}
			}
		})
	}
}

func TestTophatDiscSupport(t *testing.T) {
	data := make([]float64, 25)
	data[2*5+2] = 5
	buf, err := imagedata.New(data, 5, 5)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	out, err := TophatSmooth(buf, 1)
	if err != nil {
		t.Fatalf("TophatSmooth: %v", err)
	}

	// A radius-1 disc covers the center cell and its four edge
	// neighbours, each weighted 1/5.
	hot := map[int]bool{
		2*5 + 2: true,
		2*5 + 1: true,
		2*5 + 3: true,
		1*5 + 2: true,
		3*5 + 2: true,
	}
	for i, v := range out.Data() {
		want := 0.0
		if hot[i] {
			want = 1.0
		}
		if math.Abs(v-want) > 1e-5 {
			t.Errorf("sample %d = %g, want %g", i, v, want)
		}
	}
}
