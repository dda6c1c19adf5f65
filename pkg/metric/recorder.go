package metric

import "github.com/prometheus/client_golang/prometheus"

// Metric names exported by Recorder.
const (
	EventsTotal               = "menu_events_total"
	CommandsDroppedTotal      = "menu_commands_dropped_total"
	NativeErrorsTotal         = "menu_native_errors_total"
	AcceleratorConflictsTotal = "menu_accelerator_conflicts_total"
	PredefinedActionsTotal    = "menu_predefined_actions_total"
)

// Recorder counts menu activity. A nil *Recorder records nothing, so
// callers never need to check whether metrics are enabled.
type Recorder struct {
	events    IncrementalCounter
	dropped   IncrementalCounter
	native    IncrementalCounter
	conflicts IncrementalCounter
	actions   IncrementalCounter
}

// NewRecorder registers the menu counters with reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	return &Recorder{
		events:    NewCounterWithRegistry(reg, EventsTotal, "Menu events published, by item kind.", "kind"),
		dropped:   NewCounterWithRegistry(reg, CommandsDroppedTotal, "Native menu commands that were not dispatched, by reason.", "reason"),
		native:    NewCounterWithRegistry(reg, NativeErrorsTotal, "Failed native menu operations, by operation.", "op"),
		conflicts: NewCounterWithRegistry(reg, AcceleratorConflictsTotal, "Accelerators ignored because another item already claimed them."),
		actions:   NewCounterWithRegistry(reg, PredefinedActionsTotal, "Built-in actions run by predefined items, by action.", "action"),
	}
}

// Event counts a published event.
func (r *Recorder) Event(kind string) {
	if r != nil {
		r.events.Increment(kind)
	}
}

// CommandDropped counts a command that did not resolve to an activatable item.
func (r *Recorder) CommandDropped(reason string) {
	if r != nil {
		r.dropped.Increment(reason)
	}
}

// NativeError counts a failed backend call.
func (r *Recorder) NativeError(op string) {
	if r != nil {
		r.native.Increment(op)
	}
}

// AcceleratorConflict counts an ignored accelerator.
func (r *Recorder) AcceleratorConflict() {
	if r != nil {
		r.conflicts.Increment()
	}
}

// PredefinedAction counts a built-in action run by the dispatcher.
func (r *Recorder) PredefinedAction(action string) {
	if r != nil {
		r.actions.Increment(action)
	}
}
