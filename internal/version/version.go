// Package version holds the build identity stamped into release binaries.
package version

import "fmt"

// Set at build time via -ldflags "-X .../internal/version.Version=v1.2.3".
var (
	Version = "dev"
	Commit  = ""
)

// String returns the human readable version line.
func String() string {
	if Commit == "" {
		return Version
	}
	return fmt.Sprintf("%s (%s)", Version, Commit)
}
