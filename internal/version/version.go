// Package version reports which build of chimera is running.
package version

import (
	"fmt"
	"runtime/debug"
)

// Set with -ldflags "-X github.com/example/chimera/internal/version.Commit=..."
// When unset, the VCS stamp embedded by `go build` is used.
var (
	Commit    = ""
	BuildTime = ""
)

// Info is the resolved build identity.
type Info struct {
	Commit   string
	Built    string
	Modified bool
}

// Get resolves the build identity from ldflags, then from the embedded build info.
func Get() Info {
	bi, _ := debug.ReadBuildInfo()
	return resolve(Commit, BuildTime, bi)
}

func resolve(commit, built string, bi *debug.BuildInfo) Info {
	info := Info{Commit: commit, Built: built}
	if bi != nil {
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if info.Commit == "" {
					info.Commit = s.Value
				}
			case "vcs.time":
				if info.Built == "" {
					info.Built = s.Value
				}
			case "vcs.modified":
				info.Modified = s.Value == "true"
			}
		}
	}
	if info.Commit == "" {
		info.Commit = "unknown"
	}
	if info.Built == "" {
		info.Built = "unknown"
	}
	if len(info.Commit) > 7 {
		info.Commit = info.Commit[:7]
	}
	return info
}

// String is the text shown by --version.
func String() string {
	return Get().String()
}

func (i Info) String() string {
	commit := i.Commit
	if i.Modified {
		commit += "-dirty"
	}
	return fmt.Sprintf("chimera %s (built %s)", commit, i.Built)
}
