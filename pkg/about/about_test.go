package about

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFullVersion(t *testing.T) {
	assert.Equal(t, "", Metadata{}.FullVersion())
	assert.Equal(t, "1.2.3", Metadata{Version: "1.2.3"}.FullVersion())
	assert.Equal(t, "1.2.3 (1.2)", Metadata{Version: "1.2.3", ShortVersion: "1.2"}.FullVersion())
	assert.Equal(t, "", Metadata{ShortVersion: "1.2"}.FullVersion())
}

func TestText(t *testing.T) {
	m := Metadata{
		Name:      "menud",
		Version:   "0.4.1",
		Authors:   []string{"Ana", "Bo"},
		License:   "Apache-2.0",
		Website:   "https://example.com",
		Copyright: "(c) 2026",
	}
	assert.Equal(t, "About menud", m.Title())
	assert.Equal(t,
		"menud version 0.4.1\nAuthors: Ana, Bo\nLicense: Apache-2.0\nWebsite: https://example.com\n\n(c) 2026",
		m.Text())

	assert.Equal(t, "About", Metadata{}.Title())
	assert.Equal(t, "", Metadata{}.Text())
}

func TestFromBuildInfo(t *testing.T) {
	orig := readBuildInfo
	t.Cleanup(func() { readBuildInfo = orig })

	readBuildInfo = func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{
			Path: "github.com/mchmarny/menusync/cmd/menud",
			Main: debug.Module{Path: "github.com/mchmarny/menusync", Version: "v1.4.2"},
			Settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "abc123"},
			},
		}, true
	}
	m := FromBuildInfo()
	assert.Equal(t, "menud", m.Name)
	assert.Equal(t, "1.4.2", m.Version)
	assert.Equal(t, "1.4", m.ShortVersion)
	assert.Equal(t, "Revision abc123", m.Comments)

	readBuildInfo = func() (*debug.BuildInfo, bool) { return nil, false }
	assert.Equal(t, Metadata{}, FromBuildInfo())
}
