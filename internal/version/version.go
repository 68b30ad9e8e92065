// Package version reports build metadata for the binary.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set via -ldflags "-X github.com/smazurov/snapcam/internal/version.Version=...".
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Info contains version and build metadata.
type Info struct {
	Version   string `json:"version" example:"v0.3.0"`
	GitCommit string `json:"git_commit" example:"4f1c2ab"`
	BuildDate string `json:"build_date" example:"2024-03-09T14:05:00Z"`
	GoVersion string `json:"go_version" example:"go1.24.11"`
	Platform  string `json:"platform" example:"linux/arm64"`
}

// Get returns version and build information. Unset ldflags values are
// filled from the VCS stamp the go tool embeds, when present.
func Get() Info {
	info := Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.GitCommit == "unknown" {
				info.GitCommit = shortRevision(s.Value)
			}
		case "vcs.time":
			if info.BuildDate == "unknown" {
				info.BuildDate = s.Value
			}
		}
	}
	return info
}

// String returns a one-line description for --version output.
func String() string {
	info := Get()
	return fmt.Sprintf("%s (%s, %s, %s)", info.Version, info.GitCommit, info.BuildDate, info.Platform)
}

func shortRevision(rev string) string {
	if len(rev) > 7 {
		return rev[:7]
	}
	return rev
}
