// Package buildinfo exposes version information stamped at build time.
package buildinfo

import "runtime"

// These vars are set at build time via ldflags:
// -X github.com/minutehq/minute-cli/pkg/buildinfo.Version=v0.3.1
// -X github.com/minutehq/minute-cli/pkg/buildinfo.Commit=9c1d2ab
// -X github.com/minutehq/minute-cli/pkg/buildinfo.BuildTime=2026-09-01T10:30:00Z
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Info holds build information.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
}

// Get returns the build info of this binary.
func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
	}
}

// String returns a one-liner like "v0.3.1 (9c1d2ab, 2026-09-01T10:30:00Z)".
func String() string {
	return Version + " (" + Commit + ", " + BuildTime + ")"
}
