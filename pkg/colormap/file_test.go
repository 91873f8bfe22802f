package colormap

import (
	"bytes"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const saoSample = `# test colormap
COLOR_MODEL RGB

RED:
(0.0000, 0.0000)
(1.0000, 1.0000)

GREEN:
(0.0000, 0.0000)
(1.0000, 1.0000)

BLUE:
(0.0000, 1.0000)
(1.0000, 0.0000)
`

func TestParseSAO(t *testing.T) {
	m, err := ParseSAO(strings.NewReader(saoSample), "test")
	if err != nil {
		t.Fatalf("ParseSAO: %v", err)
	}
	if m.Name() != "test" {
		t.Errorf("Name() = %q, want %q", m.Name(), "test")
	}
	if m.Size() != 256 {
		t.Errorf("Size() = %d, want 256", m.Size())
	}
	if got := m.Lookup(0, false); got != (color.RGBA{0, 0, 255, 255}) {
		t.Errorf("Lookup(0) = %v, want blue", got)
	}
	if got := m.Lookup(1, false); got != (color.RGBA{255, 255, 0, 255}) {
		t.Errorf("Lookup(1) = %v, want yellow", got)
	}
}

func TestParseSAOEmptyChannelDefaultsToRamp(t *testing.T) {
	m, err := ParseSAO(strings.NewReader("RED:\n(0.0, 1.0)\n(1.0, 1.0)\n"), "reds")
	if err != nil {
		t.Fatalf("ParseSAO: %v", err)
	}
	// Green and blue fall back to the unit ramp.
	if got := m.Lookup(1, false); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("Lookup(1) = %v, want white", got)
	}
	if got := m.Lookup(0, false); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("Lookup(0) = %v, want pure red", got)
	}
}

func TestSAORoundTrip(t *testing.T) {
	grey := greyMap(t)
	var buf bytes.Buffer
	if err := WriteSAO(&buf, grey); err != nil {
		t.Fatalf("WriteSAO: %v", err)
	}
	back, err := ParseSAO(&buf, "grey2")
	if err != nil {
		t.Fatalf("ParseSAO: %v", err)
	}
	for _, n := range []float64{0, 0.25, 0.5, 0.75, 1} {
		if got, want := back.Lookup(n, false), grey.Lookup(n, false); got != want {
			t.Errorf("round-trip Lookup(%v) = %v, want %v", n, got, want)
		}
	}
}

func TestParseLUT(t *testing.T) {
	m, err := ParseLUT(strings.NewReader("1 0 0\n0 1 0\n0 0 1\n"), "rgb")
	if err != nil {
		t.Fatalf("ParseLUT: %v", err)
	}
	if m.Size() != 3 {
		t.Fatalf("Size() = %d, want 3", m.Size())
	}
	tests := []struct {
		n    float64
		want color.RGBA
	}{
		{0, color.RGBA{255, 0, 0, 255}},
		{0.5, color.RGBA{0, 255, 0, 255}},
		{1, color.RGBA{0, 0, 255, 255}},
	}
	for _, tt := range tests {
		if got := m.Lookup(tt.n, false); got != tt.want {
			t.Errorf("Lookup(%v) = %v, want %v", tt.n, got, tt.want)
		}
	}
}

func TestParseLUTVariants(t *testing.T) {
	// 0-255 integer range is rescaled.
	m, err := ParseLUT(strings.NewReader("255 0 0\n0 255 0\n"), "scaled")
	if err != nil {
		t.Fatalf("ParseLUT: %v", err)
	}
	if got := m.Lookup(0, false); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("scaled Lookup(0) = %v, want red", got)
	}

	// Single column is grayscale.
	m, err = ParseLUT(strings.NewReader("0\n1\n"), "mono")
	if err != nil {
		t.Fatalf("ParseLUT: %v", err)
	}
	if got := m.Lookup(0.5, false); got != (color.RGBA{128, 128, 128, 255}) {
		t.Errorf("mono Lookup(0.5) = %v, want mid grey", got)
	}

	// Four columns: alpha ignored.
	m, err = ParseLUT(strings.NewReader("1 0 0 0.5\n0 0 1 0.5\n"), "rgba")
	if err != nil {
		t.Fatalf("ParseLUT: %v", err)
	}
	if got := m.Lookup(0, false); got.A != 255 {
		t.Errorf("rgba Lookup(0) alpha = %d, want opaque", got.A)
	}
}

func TestParseLUTErrors(t *testing.T) {
	if _, err := ParseLUT(strings.NewReader("1 2\n"), "bad"); err == nil {
		t.Error("two-column line accepted")
	}
	if _, err := ParseLUT(strings.NewReader("1 x 0\n"), "bad"); err == nil {
		t.Error("non-numeric value accepted")
	}
	if _, err := ParseLUT(strings.NewReader("# only comments\n"), "bad"); err == nil {
		t.Error("empty table accepted")
	}
}

func TestLUTRoundTrip(t *testing.T) {
	grey := greyMap(t)
	var buf bytes.Buffer
	if err := WriteLUT(&buf, grey); err != nil {
		t.Fatalf("WriteLUT: %v", err)
	}
	back, err := ParseLUT(&buf, "grey2")
	if err != nil {
		t.Fatalf("ParseLUT: %v", err)
	}
	if back.Size() != grey.Size() {
		t.Fatalf("Size() = %d, want %d", back.Size(), grey.Size())
	}
	for _, n := range []float64{0, 0.5, 1} {
		if got, want := back.Lookup(n, false), grey.Lookup(n, false); got != want {
			t.Errorf("round-trip Lookup(%v) = %v, want %v", n, got, want)
		}
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	lutPath := filepath.Join(dir, "custom.lut")
	if err := os.WriteFile(lutPath, []byte("1 0 0\n0 0 1\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	m, err := LoadFile(lutPath)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if m.Name() != "custom" {
		t.Errorf("Name() = %q, want file stem", m.Name())
	}

	saoPath := filepath.Join(dir, "ramp.sao")
	if err := os.WriteFile(saoPath, []byte(saoSample), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := LoadFile(saoPath); err != nil {
		t.Errorf("LoadFile(.sao): %v", err)
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.lut")); err == nil {
		t.Error("missing file accepted")
	}
	badPath := filepath.Join(dir, "table.txt")
	if err := os.WriteFile(badPath, []byte("1 0 0\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := LoadFile(badPath); err == nil {
		t.Error("unsupported extension accepted")
	}
}
