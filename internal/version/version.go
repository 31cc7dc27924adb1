// Package version holds build metadata injected via ldflags.
package version

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String renders the build as "version (commit, date)", dropping unknown parts.
func String() string {
	switch {
	case Commit == "unknown" && Date == "unknown":
		return Version
	case Date == "unknown":
		return Version + " (" + Commit + ")"
	default:
		return Version + " (" + Commit + ", " + Date + ")"
	}
}
