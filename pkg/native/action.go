package native

// Action is a built-in menu action performed by the platform.
type Action uint8

const (
	ActionNone Action = iota
	ActionCopy
	ActionCut
	ActionPaste
	ActionSelectAll
	ActionUndo
	ActionRedo
	ActionMinimize
	ActionMaximize
	ActionFullscreen
	ActionHide
	ActionCloseWindow
	ActionQuit
	ActionAbout
)

var actionNames = [...]string{
	ActionNone:        "none",
	ActionCopy:        "copy",
	ActionCut:         "cut",
	ActionPaste:       "paste",
	ActionSelectAll:   "select_all",
	ActionUndo:        "undo",
	ActionRedo:        "redo",
	ActionMinimize:    "minimize",
	ActionMaximize:    "maximize",
	ActionFullscreen:  "fullscreen",
	ActionHide:        "hide",
	ActionCloseWindow: "close_window",
	ActionQuit:        "quit",
	ActionAbout:       "about",
}

// String returns the snake_case action name used in layouts and logs.
func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "unknown"
}

// ParseAction is the inverse of String.
func ParseAction(s string) (Action, bool) {
	for i, name := range actionNames {
		if i > 0 && name == s {
			return Action(i), true
		}
	}
	return ActionNone, false
}
