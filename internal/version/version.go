package version

import "fmt"

// Set via ldflags at build time.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// FullVersion returns the human-readable version line printed by -v.
func FullVersion() string {
	if Version == "dev" {
		return "netident development build"
	}
	return fmt.Sprintf("netident %s (%s, built %s)", Version, GitCommit, BuildDate)
}
