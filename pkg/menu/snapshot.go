package menu

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// ItemSnapshot is the serializable state of one item.
type ItemSnapshot struct {
	// ID is the item id, omitted for separators and bare predefined items.
	ID ID `json:"id,omitempty"`

	// Kind is the item variant.
	Kind Kind `json:"kind"`

	// Text is the label.
	Text string `json:"text,omitempty"`

	Enabled bool   `json:"enabled"`
	Checked bool   `json:"checked,omitempty"`
	Group   string `json:"group,omitempty"`

	// Accelerator is the shortcut in Parse form.
	Accelerator string `json:"accelerator,omitempty"`

	// Action is the built-in action of a predefined item.
	Action string `json:"action,omitempty"`

	// Items are the children of a submenu.
	Items []ItemSnapshot `json:"items,omitempty"`
}

// WindowSnapshot is the native state of one attachment.
type WindowSnapshot struct {
	Window    uint64 `json:"window"`
	Visible   bool   `json:"visible"`
	Theme     string `json:"theme"`
	Conflicts int    `json:"acceleratorConflicts,omitempty"`
}

// Snapshot is the serializable state of a root menu.
type Snapshot struct {
	Items   []ItemSnapshot   `json:"items"`
	Windows []WindowSnapshot `json:"windows,omitempty"`
}

// SnapshotItem captures item and its descendants.
func SnapshotItem(item Item) ItemSnapshot {
	e := item.node()
	s := ItemSnapshot{ID: e.id, Kind: e.kind}
	switch e.kind {
	case KindSeparator:
		return s
	case KindSubmenu:
		s.Items = snapshotChildren(e.sub)
	case KindPredefined:
		s.Action = e.action.String()
	case KindRadio:
		s.Group = e.group
	case KindNormal, KindCheck, KindIcon:
	}
	s.Text = e.text
	s.Enabled = e.enabled
	s.Checked = e.checked
	if e.accel != nil {
		s.Accelerator = e.accel.String()
	}
	return s
}

func snapshotChildren(c *container) []ItemSnapshot {
	out := make([]ItemSnapshot, 0, len(c.children))
	for it := range c.Items() {
		out = append(out, SnapshotItem(it))
	}
	return out
}

// Snapshot captures the logical tree and the windows it is attached to.
func (m *Menu) Snapshot() Snapshot {
	s := Snapshot{Items: snapshotChildren(&m.container)}
	for _, p := range m.windows {
		s.Windows = append(s.Windows, WindowSnapshot{
			Window:    uint64(p.window),
			Visible:   p.visible,
			Theme:     p.theme.String(),
			Conflicts: len(p.conflicts),
		})
	}
	return s
}

// Handler returns an HTTP handler that responds with the menu snapshot as JSON.
// The snapshot is taken by snap, which lets the caller run it on the thread
// that owns the menu.
func Handler(snap func() Snapshot) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slog.Debug("handling menu request",
			"method", r.Method,
			"url", r.URL.Path,
		)

		b, err := json.Marshal(snap())
		if err != nil {
			slog.Error("failed to encode menu", "error", err)
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(b); err != nil {
			slog.Error("failed to write menu response", "error", err)
		}
	})
}
