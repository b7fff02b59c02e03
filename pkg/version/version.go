// Package version carries build metadata injected at link time via
// -ldflags, for the CLI's "version" command.
package version

// Version, Commit, and Date are overwritten by -ldflags at build time,
// e.g. -X github.com/basepair-labs/sufftree/pkg/version.Version=1.2.3.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String renders the three fields as a single human-readable line.
func String() string {
	return "sufftree " + Version + " (commit: " + Commit + ", built: " + Date + ")"
}
