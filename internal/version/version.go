// Package version exposes build metadata stamped into the binary.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set at build time via -ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
)

// String formats the version line printed by the version command.
func String() string {
	return fmt.Sprintf("doctags %s (%s) %s %s/%s",
		Version, commit(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// commit prefers the ldflags value, falling back to the VCS revision embedded
// by the Go toolchain for plain `go install` builds.
func commit() string {
	if GitCommit != "unknown" {
		return GitCommit
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" && len(setting.Value) >= 7 {
				return setting.Value[:7]
			}
		}
	}
	return GitCommit
}
