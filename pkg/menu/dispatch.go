package menu

import (
	"log/slog"

	"github.com/mchmarny/menusync/pkg/metric"
	"github.com/mchmarny/menusync/pkg/native"
)

// HandleCommand routes a native command id received by window w. It reports
// whether the command belonged to a live item. Unknown ids are dropped.
//
// Check and radio items update their state before the event is published;
// bare predefined items run their action on b and publish nothing.
func HandleCommand(b native.Backend, w native.Window, cmd uint32) bool {
	return dispatch(b, w, cmd, slog.Default(), nil)
}

func dispatch(b native.Backend, w native.Window, cmd uint32, log *slog.Logger, rec *metric.Recorder) bool {
	e, ok := defaultAllocator.lookup(ID(cmd))
	if !ok {
		log.Debug("dropping unknown menu command", "cmd", cmd, "window", uint64(w))
		rec.CommandDropped("unknown")
		return false
	}
	if !e.enabled {
		log.Debug("dropping command for disabled item", "cmd", cmd, "window", uint64(w))
		rec.CommandDropped("disabled")
		return false
	}

	switch e.kind {
	case KindPredefined:
		if !e.explicit {
			if err := b.Perform(w, e.action, e.about); err != nil {
				log.Error("predefined action failed",
					"action", e.action.String(),
					"window", uint64(w),
					"error", err,
				)
				rec.NativeError("perform")
			}
			rec.PredefinedAction(e.action.String())
			return true
		}
	case KindCheck:
		if err := e.setChecked(!e.checked); err != nil {
			log.Error("failed to sync check state", "id", e.id.String(), "error", err)
		}
	case KindRadio:
		if err := e.setChecked(true); err != nil {
			log.Error("failed to sync radio state", "id", e.id.String(), "error", err)
		}
	case KindNormal, KindIcon:
	case KindSubmenu, KindSeparator:
		log.Debug("dropping command for non-activatable item", "cmd", cmd, "kind", e.kind.String())
		rec.CommandDropped("inactive")
		return false
	}

	Events().publish(Event{ID: e.id})
	rec.Event(e.kind.String())
	return true
}
