package colormap

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/yogeshw/ncrads9/pkg/colorutil"
)

// controlPoint is one (position, value) pair of a SAO channel.
type controlPoint struct {
	pos float64
	val float64
}

// ParseSAO reads a SAO DS9 .sao colormap: per-channel control points
// under RED:/GREEN:/BLUE: headers (or HSV equivalents under an HSV
// COLOR_MODEL), resampled to a 256-entry table.
func ParseSAO(r io.Reader, name string) (*Map, error) {
	var red, green, blue []controlPoint
	var current *[]controlPoint
	colorModel := "RGB"

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		upper := strings.ToUpper(line)
		if strings.HasPrefix(upper, "COLOR_MODEL") {
			fields := strings.Fields(upper)
			if len(fields) >= 2 {
				colorModel = fields[1]
			}
			continue
		}

		switch {
		case strings.HasPrefix(upper, "RED") || upper == "R:" || strings.HasPrefix(upper, "HUE") || upper == "H:":
			current = &red
			continue
		case strings.HasPrefix(upper, "GREEN") || upper == "G:" || strings.HasPrefix(upper, "SATURATION") || upper == "S:":
			current = &green
			continue
		case strings.HasPrefix(upper, "BLUE") || upper == "B:" || strings.HasPrefix(upper, "VALUE") || upper == "V:":
			current = &blue
			continue
		}

		if current == nil {
			continue
		}
		cleaned := strings.NewReplacer("(", "", ")", "", ",", " ").Replace(line)
		fields := strings.Fields(cleaned)
		if len(fields) < 2 {
			continue
		}
		pos, err1 := strconv.ParseFloat(fields[0], 64)
		val, err2 := strconv.ParseFloat(fields[1], 64)
		if err1 != nil || err2 != nil {
			continue
		}
		*current = append(*current, controlPoint{pos: pos, val: val})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading sao colormap: %w", err)
	}

	stops := make([]RGB, tableSize)
	rv := resampleChannel(red)
	gv := resampleChannel(green)
	bv := resampleChannel(blue)
	for i := range stops {
		if colorModel == "HSV" {
			r, g, b := colorutil.HSVToRGB(clip01(rv[i]), clip01(gv[i]), clip01(bv[i]))
			stops[i] = RGB{R: r, G: g, B: b}
		} else {
			stops[i] = clipRGB(RGB{R: rv[i], G: gv[i], B: bv[i]})
		}
	}
	return New(name, stops)
}

// resampleChannel interpolates sorted control points at 256 uniform
// positions. A channel with no control points defaults to a unit ramp.
func resampleChannel(points []controlPoint) []float64 {
	if len(points) == 0 {
		points = []controlPoint{{0, 0}, {1, 1}}
	}
	sorted := make([]controlPoint, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].pos < sorted[j].pos })

	out := make([]float64, tableSize)
	for i := range out {
		x := float64(i) / float64(tableSize-1)
		out[i] = interpAt(sorted, x)
	}
	return out
}

func interpAt(points []controlPoint, x float64) float64 {
	if x <= points[0].pos {
		return points[0].val
	}
	last := points[len(points)-1]
	if x >= last.pos {
		return last.val
	}
	for i := 1; i < len(points); i++ {
		if x <= points[i].pos {
			a, b := points[i-1], points[i]
			span := b.pos - a.pos
			if span == 0 {
				return b.val
			}
			frac := (x - a.pos) / span
			return a.val + (b.val-a.val)*frac
		}
	}
	return last.val
}

// WriteSAO saves a colormap to the SAO format with 16 control points
// per channel.
func WriteSAO(w io.Writer, m *Map) error {
	const nPoints = 16
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# SAO colormap: %s\n", m.name)
	fmt.Fprintf(bw, "COLOR_MODEL RGB\n\n")

	channels := []struct {
		header string
		pick   func(RGB) float64
	}{
		{"RED:", func(c RGB) float64 { return c.R }},
		{"GREEN:", func(c RGB) float64 { return c.G }},
		{"BLUE:", func(c RGB) float64 { return c.B }},
	}
	for ci, ch := range channels {
		if ci > 0 {
			fmt.Fprintln(bw)
		}
		fmt.Fprintln(bw, ch.header)
		for i := 0; i < nPoints; i++ {
			pos := float64(i) / float64(nPoints-1)
			fmt.Fprintf(bw, "(%.4f, %.4f)\n", pos, ch.pick(m.at(pos)))
		}
	}
	return bw.Flush()
}

// ParseLUT reads a .lut colormap: one color per line as 1 (grayscale),
// 3 (RGB) or 4 (RGBA, alpha ignored) whitespace-separated numbers.
// Values above 1.0 are treated as a 0-255 range and rescaled.
func ParseLUT(r io.Reader, name string) (*Map, error) {
	var colors []RGB
	maxVal := 0.0

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}
		fields := strings.Fields(line)
		values := make([]float64, 0, len(fields))
		for _, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("lut line %d: invalid value %q: %w", lineNum, f, err)
			}
			values = append(values, v)
		}

		var c RGB
		switch len(values) {
		case 1:
			c = RGB{values[0], values[0], values[0]}
		case 3, 4:
			c = RGB{values[0], values[1], values[2]}
		default:
			return nil, fmt.Errorf("lut line %d: expected 1, 3 or 4 values, got %d", lineNum, len(values))
		}
		for _, v := range []float64{c.R, c.G, c.B} {
			if v > maxVal {
				maxVal = v
			}
		}
		colors = append(colors, c)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading lut colormap: %w", err)
	}
	if len(colors) == 0 {
		return nil, fmt.Errorf("lut colormap %q: no color data", name)
	}

	if maxVal > 1.0 {
		for i := range colors {
			colors[i] = RGB{colors[i].R / 255, colors[i].G / 255, colors[i].B / 255}
		}
	}
	for i := range colors {
		colors[i] = clipRGB(colors[i])
	}
	return New(name, colors)
}

// WriteLUT saves a colormap as float triplets, one color per line.
func WriteLUT(w io.Writer, m *Map) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# LUT colormap: %s\n", m.name)
	fmt.Fprintf(bw, "# %d colors\n", len(m.stops))
	for _, c := range m.stops {
		fmt.Fprintf(bw, "%.6f %.6f %.6f\n", c.R, c.G, c.B)
	}
	return bw.Flush()
}

// LoadFile reads a colormap file, selecting the codec by extension
// (.sao or .lut). The map is named after the file stem.
func LoadFile(path string) (*Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening colormap file: %w", err)
	}
	defer f.Close()

	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	switch strings.ToLower(filepath.Ext(base)) {
	case ".sao":
		return ParseSAO(f, name)
	case ".lut":
		return ParseLUT(f, name)
	default:
		return nil, fmt.Errorf("unsupported colormap format %q", filepath.Ext(base))
	}
}
