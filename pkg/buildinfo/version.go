// Package buildinfo reports which sunburst build is running.
//
// Release builds stamp the variables with ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/sunburst/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/sunburst/pkg/buildinfo.Commit=$(git rev-parse HEAD)" ./cmd/sunburst
//
// Binaries built with go install leave them unset; [Resolve] then falls back
// to the module version and VCS stamp recorded by the toolchain.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

// Set via ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var readBuildInfo = debug.ReadBuildInfo

// Resolve returns the version, commit and build date, preferring the ldflags
// values over the embedded build info.
func Resolve() (version, commit, date string) {
	version, commit, date = Version, Commit, Date

	bi, ok := readBuildInfo()
	if !ok {
		return version, commit, date
	}
	if version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch {
		case s.Key == "vcs.revision" && commit == "none":
			commit = s.Value
			if len(commit) > 12 {
				commit = commit[:12]
			}
		case s.Key == "vcs.time" && date == "unknown":
			date = s.Value
		}
	}
	return version, commit, date
}

// Template returns the cobra version template.
func Template() string {
	version, commit, date := Resolve()
	return fmt.Sprintf("{{.Name}} %s (commit %s, built %s)\n", version, commit, date)
}

// UserAgent is sent with report fetches, e.g. "sunburst/v1.2.0".
func UserAgent() string {
	version, _, _ := Resolve()
	return "sunburst/" + version
}
