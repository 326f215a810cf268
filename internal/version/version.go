// Package version holds build metadata injected with -ldflags, e.g.
// go build -ldflags "-X git.home.luguber.info/inful/eepbuilder/internal/version.Version=v1.0.0".
package version

import "fmt"

// Version is the release version. It is also written into the generator
// meta tag of rendered pages.
var Version = "unknown"

// BuildInfo contains additional build metadata.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String returns the version line printed by --version.
func String() string {
	return fmt.Sprintf("eepbuilder %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
