package regions

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/yogeshw/ncrads9/internal/logging"
	"github.com/yogeshw/ncrads9/pkg/geometry"
)

// Header emitted at the top of region files.
const ds9Header = "# Region file format: DS9 version 4.1"

var (
	shapeLineRE = regexp.MustCompile(`^([+-]?)(\w+)\s*\((.*?)\)\s*(#.*)?$`)
	propertyRE  = regexp.MustCompile(`(\w+)\s*=\s*(?:"([^"]*)"|\{([^}]*)\}|'([^']*)'|(\S+))`)
	globalRE    = regexp.MustCompile(`(?i)^global\s+(.*)$`)
	pointPropRE = regexp.MustCompile(`point\s*=\s*(\w+)(?:\s+(\d+))?`)
)

// coordinateSystems are the header tokens accepted between the file
// header and the shape lines. Sky systems are passed through: the
// numbers are kept as-is since angular conversion lives outside the
// core.
var coordinateSystems = map[string]bool{
	"image": true, "physical": true, "fk4": true, "fk5": true,
	"galactic": true, "ecliptic": true, "icrs": true, "wcs": true,
}

// Parse reads a DS9 region stream. Malformed lines are skipped and
// counted, never fatal; the error is only non-nil when reading itself
// fails. Global property lines set defaults for subsequent regions.
func Parse(r io.Reader) ([]*Region, int, error) {
	var (
		out     []*Region
		skipped int
		global  map[string]string
		lineNo  int
	)

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if m := globalRE.FindStringSubmatch(line); m != nil {
			global = parseProperties(m[1])
			continue
		}
		if coordinateSystems[strings.ToLower(line)] {
			continue
		}

		reg, ok := parseShapeLine(line, global)
		if !ok {
			skipped++
			logging.Logger().Warn("skipping malformed region line",
				"line", lineNo, "content", line)
			continue
		}
		out = append(out, reg)
	}
	if err := sc.Err(); err != nil {
		return out, skipped, fmt.Errorf("regions: read: %w", err)
	}
	return out, skipped, nil
}

// ParseString parses a DS9 region string.
func ParseString(s string) ([]*Region, int) {
	regs, skipped, _ := Parse(strings.NewReader(s))
	return regs, skipped
}

func parseShapeLine(line string, global map[string]string) (*Region, bool) {
	m := shapeLineRE.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}
	exclude := m[1] == "-"
	name := strings.ToLower(m[2])
	params, ok := parseFloats(m[3])
	comment := m[4]

	props := parseProperties(strings.TrimLeft(comment, "# "))
	for k, v := range global {
		if _, set := props[k]; !set {
			props[k] = v
		}
	}

	var reg *Region
	switch {
	case name == "circle" && ok && len(params) == 3:
		reg = NewCircle(geometry.Point2D{X: params[0], Y: params[1]}, params[2])
	case name == "ellipse" && ok && (len(params) == 4 || len(params) == 5):
		angle := 0.0
		if len(params) == 5 {
			angle = params[4]
		}
		reg = NewEllipse(geometry.Point2D{X: params[0], Y: params[1]}, params[2], params[3], angle)
	case name == "box" && ok && (len(params) == 4 || len(params) == 5):
		angle := 0.0
		if len(params) == 5 {
			angle = params[4]
		}
		reg = NewBox(geometry.Point2D{X: params[0], Y: params[1]}, params[2], params[3], angle)
	case name == "polygon" && ok && len(params) >= 6 && len(params)%2 == 0:
		pts := make([]geometry.Point2D, len(params)/2)
		for i := range pts {
			pts[i] = geometry.Point2D{X: params[2*i], Y: params[2*i+1]}
		}
		reg = NewPolygon(pts)
	case name == "point" && ok && len(params) == 2:
		reg = NewPoint(geometry.Point2D{X: params[0], Y: params[1]})
		if pm := pointPropRE.FindStringSubmatch(comment); pm != nil {
			reg.Marker = pm[1]
			if pm[2] != "" {
				if size, err := strconv.Atoi(pm[2]); err == nil {
					reg.Size = size
				}
			}
		}
	case name == "line" && ok && len(params) == 4:
		reg = NewLine(geometry.Point2D{X: params[0], Y: params[1]}, geometry.Point2D{X: params[2], Y: params[3]})
	case name == "vector" && ok && len(params) == 4:
		arrow := props["vector"] != "0"
		reg = NewVector(geometry.Point2D{X: params[0], Y: params[1]}, params[2], params[3], arrow)
	case name == "ruler" && ok && len(params) == 4:
		reg = NewRuler(geometry.Point2D{X: params[0], Y: params[1]}, geometry.Point2D{X: params[2], Y: params[3]})
	case name == "annulus" && ok && len(params) >= 4:
		// Multi-ring annuli collapse to their innermost and outermost radii.
		reg = NewAnnulus(geometry.Point2D{X: params[0], Y: params[1]}, params[2], params[len(params)-1])
	case name == "text" && ok && len(params) == 2:
		reg = NewText(geometry.Point2D{X: params[0], Y: params[1]}, props["text"])
	default:
		return nil, false
	}

	reg.Exclude = exclude
	applyProperties(reg, props)
	return reg, true
}

// parseFloats splits a comma-separated parameter list.
func parseFloats(s string) ([]float64, bool) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, false
		}
		out = append(out, v)
	}
	return out, true
}

// parseProperties extracts key=value pairs; values may be bare, quoted
// or brace-delimited. tag may appear more than once, so repeated tags
// accumulate newline separated under the one key.
func parseProperties(s string) map[string]string {
	props := make(map[string]string)
	for _, m := range propertyRE.FindAllStringSubmatch(s, -1) {
		value := m[2]
		for _, alt := range m[3:] {
			if value == "" {
				value = alt
			}
		}
		if m[1] == "tag" {
			props["tag"] = appendTagList(props["tag"], value)
			continue
		}
		props[m[1]] = value
	}
	return props
}

// appendTagList joins tag values under one key, newline separated.
// Newlines cannot occur inside a tag since the format is line oriented.
func appendTagList(existing, tag string) string {
	if existing == "" {
		return tag
	}
	return existing + "\n" + tag
}

func applyProperties(r *Region, props map[string]string) {
	if c, ok := props["color"]; ok {
		r.Color = c
	}
	if w, ok := props["width"]; ok {
		if n, err := strconv.Atoi(w); err == nil && n > 0 {
			r.LineWidth = n
		}
	}
	if f, ok := props["font"]; ok {
		r.Font = f
	}
	if t, ok := props["text"]; ok {
		r.Text = t
	}
	if tags, ok := props["tag"]; ok && tags != "" {
		r.Tags = append(r.Tags, strings.Split(tags, "\n")...)
	}
}

// Write emits the region set in DS9 format: header line, image
// coordinate system, one region per line with non-default properties
// in a trailing comment.
func Write(w io.Writer, regions []*Region) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, ds9Header)
	fmt.Fprintln(bw, "image")
	for _, r := range regions {
		fmt.Fprintln(bw, FormatRegion(r))
	}
	return bw.Flush()
}

// WriteString renders the region set as a DS9 format string.
func WriteString(regions []*Region) string {
	var sb strings.Builder
	Write(&sb, regions)
	return sb.String()
}

// FormatRegion renders a single region as a DS9 line.
func FormatRegion(r *Region) string {
	var sb strings.Builder
	if r.Exclude {
		sb.WriteByte('-')
	}
	sb.WriteString(shapeString(r))

	props := propsString(r)
	if props != "" {
		sb.WriteString(" # ")
		sb.WriteString(props)
	}
	return sb.String()
}

func shapeString(r *Region) string {
	g := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	switch r.Kind {
	case KindCircle:
		return fmt.Sprintf("circle(%s,%s,%s)", g(r.Center.X), g(r.Center.Y), g(r.Radius))
	case KindEllipse:
		return fmt.Sprintf("ellipse(%s,%s,%s,%s,%s)",
			g(r.Center.X), g(r.Center.Y), g(r.SemiMajor), g(r.SemiMinor), g(r.Angle))
	case KindBox:
		return fmt.Sprintf("box(%s,%s,%s,%s,%s)",
			g(r.Center.X), g(r.Center.Y), g(r.Width), g(r.Height), g(r.Angle))
	case KindPolygon:
		parts := make([]string, 0, 2*len(r.Vertices))
		for _, v := range r.Vertices {
			parts = append(parts, g(v.X), g(v.Y))
		}
		return "polygon(" + strings.Join(parts, ",") + ")"
	case KindPoint:
		return fmt.Sprintf("point(%s,%s)", g(r.Center.X), g(r.Center.Y))
	case KindLine:
		return fmt.Sprintf("line(%s,%s,%s,%s)", g(r.Start.X), g(r.Start.Y), g(r.End.X), g(r.End.Y))
	case KindVector:
		return fmt.Sprintf("vector(%s,%s,%s,%s)", g(r.Start.X), g(r.Start.Y), g(r.Length), g(r.Angle))
	case KindRuler:
		return fmt.Sprintf("ruler(%s,%s,%s,%s)", g(r.Start.X), g(r.Start.Y), g(r.End.X), g(r.End.Y))
	case KindAnnulus:
		return fmt.Sprintf("annulus(%s,%s,%s,%s)",
			g(r.Center.X), g(r.Center.Y), g(r.InnerRadius), g(r.OuterRadius))
	case KindText:
		return fmt.Sprintf("text(%s,%s)", g(r.Center.X), g(r.Center.Y))
	default:
		return ""
	}
}

// propsString renders the trailing property comment, omitting defaults.
func propsString(r *Region) string {
	var props []string
	if r.Kind == KindPoint {
		props = append(props, fmt.Sprintf("point=%s %d", r.Marker, r.Size))
	}
	if r.Kind == KindVector {
		flag := 0
		if r.Arrow {
			flag = 1
		}
		props = append(props, fmt.Sprintf("vector=%d", flag))
	}
	if r.Color != DefaultColor {
		props = append(props, "color="+r.Color)
	}
	if r.LineWidth != DefaultLineWidth {
		props = append(props, fmt.Sprintf("width=%d", r.LineWidth))
	}
	if r.Text != "" {
		props = append(props, fmt.Sprintf("text={%s}", r.Text))
	}
	if r.Font != DefaultFont {
		props = append(props, fmt.Sprintf("font=\"%s\"", r.Font))
	}
	for _, tag := range r.Tags {
		props = append(props, fmt.Sprintf("tag={%s}", tag))
	}
	return strings.Join(props, " ")
}

// LoadFile parses a region file, returning the regions and the number
// of malformed lines skipped.
func LoadFile(path string) ([]*Region, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("regions: open %s: %w", path, err)
	}
	defer f.Close()

	regs, skipped, err := Parse(f)
	if err != nil {
		return regs, skipped, err
	}
	logging.Logger().Info("loaded region file",
		"path", path, "regions", len(regs), "skipped", skipped)
	return regs, skipped, nil
}

// SaveFile writes the region set to a file in DS9 format.
func SaveFile(path string, regions []*Region) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("regions: create %s: %w", path, err)
	}
	if err := Write(f, regions); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("regions: close %s: %w", path, err)
	}
	logging.Logger().Info("saved region file", "path", path, "regions", len(regions))
	return nil
}
