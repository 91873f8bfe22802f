// Package version records build-time metadata for ncrads9 binaries.
package version

import "fmt"

// Set at build time via -ldflags, e.g.
//
//	go build -ldflags "-X github.com/yogeshw/ncrads9/internal/version.Version=v0.2.0"
var (
	// Version is the release version of the engine.
	Version = "0.1.0"

	// GitCommit is the abbreviated commit hash the binary was built from.
	GitCommit = "unknown"

	// BuildTime is the UTC time when the binary was built.
	BuildTime = "unknown"
)

// String returns a one-line build description for -version output and
// startup logs.
func String() string {
	return fmt.Sprintf("ncrads9 %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
