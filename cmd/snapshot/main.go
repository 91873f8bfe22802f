// Command snapshot renders an image through the display engine and
// writes the result as a PNG. It drives the same frame, stretch,
// colormap and overlay code paths an embedding viewer would, which
// makes it a quick end-to-end check of the pipeline.
//
// The input is a raw little-endian float32 image (row 0 at the bottom)
// sized by -width/-height. With no input file a synthetic test field
// is rendered instead: a gaussian source on a sloped background.
//
// Usage: snapshot [options] [input.f32]
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"image/png"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/yogeshw/ncrads9/internal/logging"
	"github.com/yogeshw/ncrads9/internal/version"
	"github.com/yogeshw/ncrads9/pkg/colormap"
	"github.com/yogeshw/ncrads9/pkg/frame"
	"github.com/yogeshw/ncrads9/pkg/geometry"
	"github.com/yogeshw/ncrads9/pkg/imagedata"
	"github.com/yogeshw/ncrads9/pkg/regions"
	"github.com/yogeshw/ncrads9/pkg/render"
	"github.com/yogeshw/ncrads9/pkg/scale"
)

var (
	flagWidth    = flag.Int("width", 0, "Raw input width in pixels")
	flagHeight   = flag.Int("height", 0, "Raw input height in pixels")
	flagSize     = flag.String("size", "512x512", "Viewport size as WxH")
	flagScale    = flag.String("scale", "linear", "Stretch algorithm (linear, log, sqrt, squared, sinh, asinh, histeq)")
	flagClip     = flag.String("clip", "minmax", "Clip limit mode (minmax, zscale)")
	flagLimits   = flag.String("limits", "", "Manual clip limits as \"z1,z2\" (overrides -clip)")
	flagCmap     = flag.String("cmap", "grey", "Colormap name")
	flagCmapFile = flag.String("cmap-file", "", "Load a colormap from a .sao or .lut file and use it")
	flagInvert   = flag.Bool("invert", false, "Invert the colormap")
	flagZoom     = flag.Float64("zoom", 0, "Zoom factor (0 fits the image to the viewport)")
	flagRegions  = flag.String("regions", "", "Overlay a DS9 region file")
	flagOutput   = flag.String("o", "snapshot.png", "Output PNG path")
	flagVerbose  = flag.Bool("v", false, "Enable debug logging")
	flagVersion  = flag.Bool("version", false, "Print version information and exit")
)

func main() {
	flag.Parse()

	if *flagVersion {
		fmt.Println(version.String())
		return
	}

	level := slog.LevelInfo
	if *flagVerbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	logging.SetLogger(logger)

	if flag.NArg() > 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] [input.f32]\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}

	if err := run(logger); err != nil {
		logger.Error("snapshot failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	buf, err := loadInput()
	if err != nil {
		return err
	}
	viewport, err := parseSize(*flagSize)
	if err != nil {
		return err
	}

	m := frame.NewManager()
	m.SetViewport(viewport)
	if err := m.LoadBuffer(buf); err != nil {
		return err
	}
	logger.Info("buffer loaded",
		"width", buf.Width(), "height", buf.Height(), "pixels", buf.FiniteCount())

	algo, err := scale.ParseAlgorithm(*flagScale)
	if err != nil {
		return err
	}
	m.SetScaleAlgorithm(algo)

	switch *flagClip {
	case "minmax":
		m.SetClipMode(scale.ClipMinMax)
	case "zscale":
		m.SetClipMode(scale.ClipZScale)
	default:
		return fmt.Errorf("unknown clip mode %q", *flagClip)
	}
	if *flagLimits != "" {
		z1, z2, err := parseLimits(*flagLimits)
		if err != nil {
			return err
		}
		m.SetLimits(z1, z2)
	}

	r := render.NewRenderer()
	cmapName := *flagCmap
	if *flagCmapFile != "" {
		loaded, err := colormap.LoadFile(*flagCmapFile)
		if err != nil {
			return err
		}
		r.Maps().Register(loaded)
		cmapName = loaded.Name()
	}
	if _, ok := r.Maps().Get(cmapName); !ok {
		return fmt.Errorf("unknown colormap %q (have %s)", cmapName, strings.Join(r.Maps().Names(), ", "))
	}
	m.SetColormap(cmapName)
	m.SetInverted(*flagInvert)

	if *flagZoom > 0 {
		m.SetZoom(*flagZoom)
	}

	if *flagRegions != "" {
		list, skipped, err := regions.LoadFile(*flagRegions)
		if err != nil {
			return err
		}
		for _, reg := range list {
			m.Active().Regions.Add(reg)
		}
		logger.Info("regions overlaid",
			"path", *flagRegions, "regions", len(list), "skipped_lines", skipped)
	}

	img := r.Render(m.Active(), viewport)

	out, err := os.Create(*flagOutput)
	if err != nil {
		return err
	}
	defer out.Close()
	if err := png.Encode(out, img); err != nil {
		return err
	}

	logger.Info("snapshot written", "path", *flagOutput,
		"viewport", *flagSize, "scale", algo.String(), "colormap", cmapName)
	return nil
}

func loadInput() (*imagedata.Buffer, error) {
	if flag.NArg() == 0 {
		return syntheticBuffer()
	}
	return loadRaw(flag.Arg(0), *flagWidth, *flagHeight)
}

// syntheticBuffer builds a 256x256 test field: a gaussian source over a
// diagonal background slope, with the source a little off-center so
// flips and rotations are visible.
func syntheticBuffer() (*imagedata.Buffer, error) {
	const n = 256
	data := make([]float64, n*n)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			dx := float64(x - 160)
			dy := float64(y - 96)
			bg := float64(x+y) / 8
			src := 1000 * math.Exp(-(dx*dx+dy*dy)/(2*18*18))
			data[y*n+x] = bg + src
		}
	}
	return imagedata.New(data, n, n)
}

func loadRaw(path string, width, height int) (*imagedata.Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("raw input needs -width and -height")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	want := width * height * 4
	if len(raw) != want {
		return nil, fmt.Errorf("%s: %d bytes, want %d for %dx%d float32", path, len(raw), want, width, height)
	}

	data := make([]float64, width*height)
	for i := range data {
		data[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:])))
	}
	return imagedata.New(data, width, height)
}

func parseSize(s string) (geometry.Size, error) {
	parts := strings.Split(strings.ToLower(s), "x")
	if len(parts) != 2 {
		return geometry.Size{}, fmt.Errorf("bad -size %q, want WxH", s)
	}
	w, errW := strconv.Atoi(parts[0])
	h, errH := strconv.Atoi(parts[1])
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return geometry.Size{}, fmt.Errorf("bad -size %q, want WxH", s)
	}
	return geometry.NewSize(float64(w), float64(h)), nil
}

func parseLimits(s string) (float64, float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("bad -limits %q, want z1,z2", s)
	}
	z1, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	z2, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err1 != nil || err2 != nil {
		return 0, 0, fmt.Errorf("bad -limits %q, want z1,z2", s)
	}
	return z1, z2, nil
}
