package version

import (
	"fmt"
	"runtime"
)

// Set through -ldflags at build time.
var (
	Version   = "dev"     // ex: v0.1.0
	Commit    = "none"    // ex: abcd123
	BuildDate = "unknown" // ex: 2025-08-11T18:42:00Z
	GoVersion = runtime.Version()
)

// String renders the build info on one line, used by `tree version` and the startup log.
func String() string {
	return fmt.Sprintf("tree %s (commit=%s, built=%s, go=%s, %s/%s)",
		Version, Commit, BuildDate, GoVersion, runtime.GOOS, runtime.GOARCH)
}
