// Command regiontool validates and converts DS9 region files.
//
// It parses a region file with the same codec the display engine uses,
// reports how many regions were read and how many lines were skipped,
// and optionally writes the normalized form back out.
//
// Usage: regiontool [options] <input.reg>
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/yogeshw/ncrads9/internal/logging"
	"github.com/yogeshw/ncrads9/internal/version"
	"github.com/yogeshw/ncrads9/pkg/geometry"
	"github.com/yogeshw/ncrads9/pkg/regions"
)

var (
	flagOutput  = flag.String("o", "", "Write the normalized region file to this path (\"-\" for stdout)")
	flagShift   = flag.String("shift", "", "Shift all regions by \"dx,dy\" image pixels")
	flagSelect  = flag.String("select", "", "Keep only regions of this kind (circle, ellipse, box, ...)")
	flagVerbose = flag.Bool("v", false, "Enable debug logging")
	flagVersion = flag.Bool("version", false, "Print version information and exit")
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

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <input.reg>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}

	if err := run(logger, flag.Arg(0)); err != nil {
		logger.Error("regiontool failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, path string) error {
	list, skipped, err := regions.LoadFile(path)
	if err != nil {
		return err
	}
	logger.Info("region file parsed",
		"path", path, "regions", len(list), "skipped_lines", skipped)

	if *flagSelect != "" {
		if list, err = filterKind(list, *flagSelect); err != nil {
			return err
		}
	}

	if *flagShift != "" {
		delta, err := parseShift(*flagShift)
		if err != nil {
			return err
		}
		for _, r := range list {
			r.Move(delta)
		}
		logger.Debug("regions shifted", "dx", delta.X, "dy", delta.Y)
	}

	// The summary stays off stdout when stdout is the output sink.
	if *flagOutput != "-" {
		fmt.Printf("%s: %d regions, %d lines skipped\n", path, len(list), skipped)
		for _, line := range kindSummary(list) {
			fmt.Printf("  %s\n", line)
		}
	}

	switch *flagOutput {
	case "":
		return nil
	case "-":
		return regions.Write(os.Stdout, list)
	default:
		if err := regions.SaveFile(*flagOutput, list); err != nil {
			return err
		}
		logger.Info("normalized region file written",
			"path", *flagOutput, "regions", len(list))
		return nil
	}
}

func filterKind(list []*regions.Region, name string) ([]*regions.Region, error) {
	want := strings.ToLower(strings.TrimSpace(name))
	valid := false
	for k := regions.KindCircle; k <= regions.KindText; k++ {
		if k.String() == want {
			valid = true
			break
		}
	}
	if !valid {
		return nil, fmt.Errorf("unknown region kind %q", name)
	}

	var out []*regions.Region
	for _, r := range list {
		if r.Kind.String() == want {
			out = append(out, r)
		}
	}
	return out, nil
}

func parseShift(s string) (geometry.Point2D, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return geometry.Point2D{}, fmt.Errorf("bad -shift %q, want dx,dy", s)
	}
	dx, errX := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	dy, errY := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errX != nil || errY != nil {
		return geometry.Point2D{}, fmt.Errorf("bad -shift %q, want dx,dy", s)
	}
	return geometry.Point2D{X: dx, Y: dy}, nil
}

func kindSummary(list []*regions.Region) []string {
	counts := make(map[string]int)
	for _, r := range list {
		counts[r.Kind.String()]++
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]string, len(names))
	for i, name := range names {
		lines[i] = fmt.Sprintf("%-8s %d", name, counts[name])
	}
	return lines
}
