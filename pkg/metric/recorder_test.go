package metric

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
	metrics:
		for _, m := range f.GetMetric() {
			for _, lp := range m.GetLabel() {
				if labels[lp.GetName()] != lp.GetValue() {
					continue metrics
				}
			}
			return m.GetCounter().GetValue()
		}
	}
	return 0
}

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)

	r.Event("normal")
	r.Event("normal")
	r.Event("check")
	r.CommandDropped("unknown")
	r.NativeError("insert entry")
	r.AcceleratorConflict()
	r.PredefinedAction("quit")

	assert.Equal(t, 2.0, counterValue(t, reg, EventsTotal, map[string]string{"kind": "normal"}))
	assert.Equal(t, 1.0, counterValue(t, reg, EventsTotal, map[string]string{"kind": "check"}))
	assert.Equal(t, 1.0, counterValue(t, reg, CommandsDroppedTotal, map[string]string{"reason": "unknown"}))
	assert.Equal(t, 1.0, counterValue(t, reg, NativeErrorsTotal, map[string]string{"op": "insert entry"}))
	assert.Equal(t, 1.0, counterValue(t, reg, AcceleratorConflictsTotal, nil))
	assert.Equal(t, 1.0, counterValue(t, reg, PredefinedActionsTotal, map[string]string{"action": "quit"}))
}

func TestNilRecorder(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.Event("normal")
		r.CommandDropped("unknown")
		r.NativeError("op")
		r.AcceleratorConflict()
		r.PredefinedAction("quit")
	})
}

func TestRecorderReusesRegisteredCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	a := NewRecorder(reg)
	b := NewRecorder(reg)

	a.Event("normal")
	b.Event("normal")
	assert.Equal(t, 2.0, counterValue(t, reg, EventsTotal, map[string]string{"kind": "normal"}))
}

func TestGetHandlerForRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewRecorder(reg).Event("radio")

	rec := httptest.NewRecorder()
	GetHandlerForRegistry(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `menu_events_total{kind="radio"} 1`))
}
