package version

import (
	"fmt"
	"runtime/debug"
)

// Build variables injected by goreleaser:
// -X 'github.com/strongdm/leash-release/pkg/version.Version=1.0.0'
// -X 'github.com/strongdm/leash-release/pkg/version.CommitHash=abc1234'
// -X 'github.com/strongdm/leash-release/pkg/version.BuildDate=2025-01-01T00:00:00Z'
var (
	Version    = "unknown"
	CommitHash = "unknown"
	BuildDate  = "unknown"
)

// Info is the build information of the leash-release binary.
type Info struct {
	Version    string `json:"version"`
	CommitHash string `json:"commit_hash"`
	BuildDate  string `json:"build_date"`
}

// Get returns the ldflags values, falling back to the VCS stamp of `go build`.
func Get() Info {
	info := Info{Version: Version, CommitHash: CommitHash, BuildDate: BuildDate}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	return fillFromBuildInfo(info, bi)
}

func fillFromBuildInfo(info Info, bi *debug.BuildInfo) Info {
	if info.Version == "unknown" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.CommitHash == "unknown" && s.Value != "" {
				info.CommitHash = s.Value
				if len(info.CommitHash) > 7 {
					info.CommitHash = info.CommitHash[:7]
				}
			}
		case "vcs.time":
			if info.BuildDate == "unknown" && s.Value != "" {
				info.BuildDate = s.Value
			}
		}
	}
	return info
}

func (i Info) String() string {
	return fmt.Sprintf("%s (commit %s, built %s)", i.Version, i.CommitHash, i.BuildDate)
}
