package version

import (
	"runtime/debug"
	"testing"
)

func TestResolve(t *testing.T) {
	stamped := &debug.BuildInfo{Settings: []debug.BuildSetting{
		{Key: "vcs.revision", Value: "9f3c2a1b7e5d"},
		{Key: "vcs.time", Value: "2026-03-14T16:45:00Z"},
		{Key: "vcs.modified", Value: "true"},
	}}

	tests := []struct {
		name   string
		commit string
		built  string
		bi     *debug.BuildInfo
		want   string
	}{
		{name: "nothing known", bi: nil, want: "chimera unknown (built unknown)"},
		{name: "vcs stamp", bi: stamped, want: "chimera 9f3c2a1-dirty (built 2026-03-14T16:45:00Z)"},
		{name: "ldflags win", commit: "abcdef0123", built: "2026-01-01", bi: stamped, want: "chimera abcdef0-dirty (built 2026-01-01)"},
		{name: "short commit kept", commit: "abc", bi: &debug.BuildInfo{}, want: "chimera abc (built unknown)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolve(tt.commit, tt.built, tt.bi).String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
