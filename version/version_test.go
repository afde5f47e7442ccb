package version

import (
	"encoding/json"
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withBuildInfo(t *testing.T, bi *debug.BuildInfo, ok bool) {
	t.Helper()
	orig := readBuildInfo
	readBuildInfo = func() (*debug.BuildInfo, bool) { return bi, ok }
	t.Cleanup(func() { readBuildInfo = orig })
}

func TestGetVersionInfoFromBuildSettings(t *testing.T) {
	withBuildInfo(t, &debug.BuildInfo{
		Main: debug.Module{Version: "v1.4.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	}, true)

	info := GetVersionInfo()
	assert.Equal(t, "v1.4.0", info.Version)
	assert.Equal(t, "0123456-dirty", info.Revision)
	assert.Equal(t, "2026-01-02T03:04:05Z", info.BuiltAt)
	assert.NotEmpty(t, info.GoVersion)
	assert.Contains(t, info.Platform, "/")
}

func TestGetVersionInfoPrefersStampedValues(t *testing.T) {
	origVersion, origRevision := Version, Revision
	Version, Revision = "2.0.0", "feedbee"
	t.Cleanup(func() { Version, Revision = origVersion, origRevision })
	withBuildInfo(t, &debug.BuildInfo{
		Main:     debug.Module{Version: "(devel)"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "0123456789abcdef"}},
	}, true)

	info := GetVersionInfo()
	assert.Equal(t, "2.0.0", info.Version)
	assert.Equal(t, "feedbee", info.Revision)
}

func TestGetVersionInfoWithoutBuildInfo(t *testing.T) {
	withBuildInfo(t, nil, false)

	info := GetVersionInfo()
	assert.Equal(t, Version, info.Version)
	assert.Equal(t, "unknown", info.BuiltAt)
}

func TestInfoJSON(t *testing.T) {
	info := Info{Version: "1.0.0", Branch: "main", Revision: "abc", BuiltAt: "now", GoVersion: "go1.25", Platform: "linux/amd64"}
	out, err := info.JSON()
	require.NoError(t, err)

	var decoded Info
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, info, decoded)
	assert.Contains(t, info.String(), "Revision: abc")
}
