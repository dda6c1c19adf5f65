package menu

import (
	"github.com/mchmarny/menusync/pkg/about"
	"github.com/mchmarny/menusync/pkg/accelerator"
	"github.com/mchmarny/menusync/pkg/native"
)

var predefinedText = map[native.Action]string{
	native.ActionCopy:        "&Copy",
	native.ActionCut:         "Cu&t",
	native.ActionPaste:       "&Paste",
	native.ActionSelectAll:   "Select &All",
	native.ActionUndo:        "Undo",
	native.ActionRedo:        "Redo",
	native.ActionMinimize:    "&Minimize",
	native.ActionMaximize:    "Ma&ximize",
	native.ActionFullscreen:  "Toggle Full Screen",
	native.ActionHide:        "&Hide",
	native.ActionCloseWindow: "C&lose",
	native.ActionQuit:        "&Exit",
	native.ActionAbout:       "&About",
}

var predefinedAccel = map[native.Action]accelerator.Accelerator{
	native.ActionCopy:        accelerator.New(accelerator.Control, accelerator.KeyC),
	native.ActionCut:         accelerator.New(accelerator.Control, accelerator.KeyX),
	native.ActionPaste:       accelerator.New(accelerator.Control, accelerator.KeyV),
	native.ActionSelectAll:   accelerator.New(accelerator.Control, accelerator.KeyA),
	native.ActionUndo:        accelerator.New(accelerator.Control, accelerator.KeyZ),
	native.ActionRedo:        accelerator.New(accelerator.Control, accelerator.KeyY),
	native.ActionCloseWindow: accelerator.New(accelerator.Alt, accelerator.F4),
}

// PredefinedMenuItem runs a built-in platform action. Items created without
// an id never reach the event queue; items created with NewPredefinedWithID
// publish events like any other item and leave the action to the host.
type PredefinedMenuItem struct {
	*entry
}

// NewPredefined creates an item for action with the platform default label.
func NewPredefined(action native.Action) *PredefinedMenuItem {
	return NewPredefinedWithText(action, "")
}

// NewPredefinedWithText creates an item for action. An empty text uses the default label.
func NewPredefinedWithText(action native.Action, text string) *PredefinedMenuItem {
	p := newPredefined(action, text)
	defaultAllocator.claimReserved(p.entry)
	return p
}

// NewPredefinedWithID creates an id-tagged item for action.
func NewPredefinedWithID(id ID, action native.Action, text string) (*PredefinedMenuItem, error) {
	p := newPredefined(action, text)
	if err := defaultAllocator.claimExplicit(p.entry, id); err != nil {
		return nil, err
	}
	return p, nil
}

// NewAbout creates an About item showing md. An empty text derives the label from md.
func NewAbout(text string, md *about.Metadata) *PredefinedMenuItem {
	p := NewPredefinedWithText(native.ActionAbout, aboutText(text, md))
	p.about = md
	return p
}

// NewAboutWithID creates an id-tagged About item carrying md. Like every
// id-tagged predefined item it publishes an event instead of showing md.
func NewAboutWithID(id ID, text string, md *about.Metadata) (*PredefinedMenuItem, error) {
	p, err := NewPredefinedWithID(id, native.ActionAbout, aboutText(text, md))
	if err != nil {
		return nil, err
	}
	p.about = md
	return p, nil
}

func aboutText(text string, md *about.Metadata) string {
	if text == "" && md != nil && md.Name != "" {
		return "&About " + md.Name
	}
	return text
}

func newPredefined(action native.Action, text string) *PredefinedMenuItem {
	if text == "" {
		text = predefinedText[action]
	}
	var accel *accelerator.Accelerator
	if a, ok := predefinedAccel[action]; ok {
		accel = &a
	}
	p := &PredefinedMenuItem{}
	p.entry = newEntry(p, KindPredefined, text, true, accel)
	p.action = action
	return p
}

// Action returns the built-in action.
func (p *PredefinedMenuItem) Action() native.Action { return p.action }

// Text returns the label.
func (p *PredefinedMenuItem) Text() string { return p.text }

// SetText changes the label everywhere the item is shown.
func (p *PredefinedMenuItem) SetText(text string) error { return p.setText(text) }

// Accelerator returns the default shortcut of the action, nil when there is none.
func (p *PredefinedMenuItem) Accelerator() *accelerator.Accelerator { return cloneAccel(p.accel) }

// AboutMetadata returns the metadata shown by an About item.
func (p *PredefinedMenuItem) AboutMetadata() *about.Metadata { return p.about }

// SetAboutMetadata replaces the metadata shown by an About item.
func (p *PredefinedMenuItem) SetAboutMetadata(md *about.Metadata) error {
	p.about = md
	return p.refresh()
}
