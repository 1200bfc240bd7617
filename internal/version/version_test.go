package version

import (
	"runtime/debug"
	"testing"
)

func stubBuildInfo(t *testing.T, bi *debug.BuildInfo) {
	t.Helper()
	prev := readBuildInfo
	readBuildInfo = func() (*debug.BuildInfo, bool) { return bi, bi != nil }
	t.Cleanup(func() { readBuildInfo = prev })
}

func stubLinked(t *testing.T, version, commit, buildTime string) {
	t.Helper()
	pv, pc, pb := Version, Commit, BuildTime
	Version, Commit, BuildTime = version, commit, buildTime
	t.Cleanup(func() { Version, Commit, BuildTime = pv, pc, pb })
}

func TestResolveLinkedValuesWin(t *testing.T) {
	stubLinked(t, "v1.2.3", "abc", "2026-01-02T03:04:05Z")
	stubBuildInfo(t, &debug.BuildInfo{
		Main:     debug.Module{Version: "v0.0.1"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "def"}},
	})

	info := Resolve()
	if info.Version != "v1.2.3" || info.Commit != "abc" || info.BuildTime != "2026-01-02T03:04:05Z" {
		t.Fatalf("unexpected info: %+v", info)
	}
}

func TestResolveFromBuildInfo(t *testing.T) {
	stubLinked(t, "", "", "")
	stubBuildInfo(t, &debug.BuildInfo{
		Main: debug.Module{Version: "(devel)"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.time", Value: "2026-10-18T09:30:00Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	})

	info := Resolve()
	if info.Version != "dev-20261018T093000Z" {
		t.Fatalf("unexpected version: %q", info.Version)
	}
	if got := String(); got != "dev-20261018T093000Z (0123456789ab-dirty)" {
		t.Fatalf("unexpected string: %q", got)
	}
}

func TestResolveWithoutBuildInfo(t *testing.T) {
	stubLinked(t, "", "", "")
	stubBuildInfo(t, nil)

	if got := String(); got != "dev" {
		t.Fatalf("unexpected string: %q", got)
	}
}
