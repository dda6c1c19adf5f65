// Package about describes the application shown by the About menu action.
package about

import (
	"fmt"
	"path"
	"runtime/debug"
	"strings"
)

// Metadata is shown in the About dialog. Empty fields are omitted.
type Metadata struct {
	Name         string   `json:"name,omitempty" toml:"name,omitempty"`
	Version      string   `json:"version,omitempty" toml:"version,omitempty"`
	ShortVersion string   `json:"short_version,omitempty" toml:"short_version,omitempty"`
	Authors      []string `json:"authors,omitempty" toml:"authors,omitempty"`
	Comments     string   `json:"comments,omitempty" toml:"comments,omitempty"`
	Copyright    string   `json:"copyright,omitempty" toml:"copyright,omitempty"`
	License      string   `json:"license,omitempty" toml:"license,omitempty"`
	Website      string   `json:"website,omitempty" toml:"website,omitempty"`
	WebsiteLabel string   `json:"website_label,omitempty" toml:"website_label,omitempty"`
}

// FullVersion returns Version with ShortVersion appended in parentheses.
// It is empty when Version is empty.
func (m Metadata) FullVersion() string {
	if m.Version == "" {
		return ""
	}
	if m.ShortVersion == "" {
		return m.Version
	}
	return fmt.Sprintf("%s (%s)", m.Version, m.ShortVersion)
}

// Title returns the dialog title, "About <name>".
func (m Metadata) Title() string {
	if m.Name == "" {
		return "About"
	}
	return "About " + m.Name
}

// Text renders the dialog body.
func (m Metadata) Text() string {
	var b strings.Builder
	line := func(format string, args ...any) {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, format, args...)
	}

	if m.Name != "" {
		if v := m.FullVersion(); v != "" {
			line("%s version %s", m.Name, v)
		} else {
			line("%s", m.Name)
		}
	} else if v := m.FullVersion(); v != "" {
		line("Version %s", v)
	}
	if len(m.Authors) > 0 {
		line("Authors: %s", strings.Join(m.Authors, ", "))
	}
	if m.License != "" {
		line("License: %s", m.License)
	}
	if m.Website != "" {
		if m.WebsiteLabel != "" {
			line("%s: %s", m.WebsiteLabel, m.Website)
		} else {
			line("Website: %s", m.Website)
		}
	}
	if m.Comments != "" {
		line("\n%s", m.Comments)
	}
	if m.Copyright != "" {
		line("\n%s", m.Copyright)
	}
	return b.String()
}

var readBuildInfo = debug.ReadBuildInfo

// FromBuildInfo fills Name, Version and ShortVersion from the module information
// embedded in the running binary. Fields stay empty when build info is unavailable.
func FromBuildInfo() Metadata {
	info, ok := readBuildInfo()
	if !ok {
		return Metadata{}
	}

	m := Metadata{Name: path.Base(info.Main.Path)}
	if info.Path != "" && info.Path != info.Main.Path {
		m.Name = path.Base(info.Path)
	}

	if v := info.Main.Version; v != "" && v != "(devel)" {
		m.Version = strings.TrimPrefix(v, "v")
		if parts := strings.SplitN(m.Version, ".", 3); len(parts) >= 2 {
			m.ShortVersion = parts[0] + "." + parts[1]
		}
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && m.Comments == "" {
			m.Comments = "Revision " + s.Value
		}
	}
	return m
}
