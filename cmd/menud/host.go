package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mchmarny/menusync/pkg/layout"
	"github.com/mchmarny/menusync/pkg/menu"
	"github.com/mchmarny/menusync/pkg/metric"
	"github.com/mchmarny/menusync/pkg/native"
	"github.com/mchmarny/menusync/pkg/native/memory"
	"github.com/mchmarny/menusync/pkg/server"
)

// host owns a headless window with a menu bar built from a layout. The
// menu is not safe for concurrent use, so every request takes mu, the
// stand-in for the window thread.
type host struct {
	mu      sync.Mutex
	backend *memory.Backend
	window  native.Window
	menu    *menu.Menu
	names   map[string]menu.Item
	reg     *prometheus.Registry
}

func newHost(l *layout.Layout) (*host, error) {
	h := &host{
		backend: memory.New(),
		reg:     prometheus.NewRegistry(),
	}
	m, names, err := l.Build(
		menu.WithBackend(h.backend),
		menu.WithLogger(slog.Default()),
		menu.WithRecorder(metric.NewRecorder(h.reg)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build menu: %w", err)
	}
	h.menu = m
	h.names = names
	h.window = h.backend.NewWindow(native.Point{})

	if err := m.InitForWindow(h.window); err != nil {
		// partially attached menus still serve; Resync retries on /resync
		if !errors.Is(err, menu.ErrNativeResource) || !m.IsVisibleOnWindow(h.window) {
			return nil, fmt.Errorf("failed to attach menu: %w", err)
		}
		slog.Warn("menu attached with errors", "error", err)
	}
	return h, nil
}

func (h *host) snapshot() menu.Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.menu.Snapshot()
}

// Healthy reports an error when the window lost its menu bar.
func (h *host) Healthy(context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.menu.IsVisibleOnWindow(h.window) {
		return errors.New("menu is not attached to the window")
	}
	return nil
}

type activation struct {
	ID         menu.ID      `json:"id"`
	Dispatched bool         `json:"dispatched"`
	Events     []menu.Event `json:"events"`
}

// activateHandler simulates the user choosing the item with the id given
// in the query, then drains the event queue into the response. Dispatched
// is false when the window has no menu or the id is not an activatable item.
func (h *host) activateHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.URL.Query().Get("id")
		if raw == "" {
			if name := r.URL.Query().Get("name"); name != "" {
				h.mu.Lock()
				it, ok := h.names[name]
				h.mu.Unlock()
				if !ok {
					writeError(w, http.StatusNotFound, "unknown item name")
					return
				}
				raw = strconv.FormatUint(uint64(menu.NativeCommand(it)), 10)
			}
		}
		id, err := strconv.ParseUint(raw, 10, 16)
		if err != nil || id == 0 {
			writeError(w, http.StatusBadRequest, "id must be a command id between 1 and 65535")
			return
		}

		h.mu.Lock()
		ok := h.menu.IsVisibleOnWindow(h.window) && h.menu.HandleCommand(h.window, uint32(id))
		h.mu.Unlock()

		res := activation{ID: menu.ID(id), Dispatched: ok, Events: drain()}
		slog.Info("activated", "id", id, "dispatched", ok, "events", len(res.Events))
		writeJSON(w, http.StatusOK, res)
	})
}

// eventsHandler returns and clears the buffered events.
func (h *host) eventsHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, drain())
	})
}

// resyncHandler rebuilds the native menu from the logical tree.
func (h *host) resyncHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		h.mu.Lock()
		err := h.menu.Resync(h.window)
		h.mu.Unlock()
		if err != nil {
			slog.Error("resync failed", "error", err)
			writeError(w, http.StatusInternalServerError, "resync failed, see logs for details")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func (h *host) options() []server.Option {
	return []server.Option{
		server.WithHandler("GET /menu", menu.Handler(h.snapshot)),
		server.WithHandler("POST /activate", h.activateHandler()),
		server.WithHandler("GET /events", h.eventsHandler()),
		server.WithHandler("POST /resync", h.resyncHandler()),
		server.WithMetrics(h.reg),
		server.WithHealthCheck(h),
	}
}

func drain() []menu.Event {
	events := []menu.Event{}
	for {
		ev, ok := menu.Events().TryRecv()
		if !ok {
			return events
		}
		events = append(events, ev)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	slog.Error("handling error response",
		"status", status,
		"message", message,
	)
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		slog.Error("failed to marshal JSON response", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(jsonData); err != nil {
		slog.Error("failed to write JSON response", "error", err)
	}
}
