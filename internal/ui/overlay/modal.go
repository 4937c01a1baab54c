package overlay

import (
	"strings"

	"github.com/atomicstack/termext/internal/ext"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// ModalKind identifies a modal presentation.
type ModalKind int

const (
	ModalActionPanel ModalKind = iota
	ModalAlert
	ModalDropdown
)

func (k ModalKind) String() string {
	switch k {
	case ModalAlert:
		return "alert"
	case ModalDropdown:
		return "dropdown"
	default:
		return "action-panel"
	}
}

// Modal is a focus-taking overlay anchored to the frame that opened it.
type Modal interface {
	Kind() ModalKind
	FrameID() string
}

// ActionPanel lists the resolved actions of the focused item. Its search
// narrows the list without reordering it.
type ActionPanel struct {
	Frame   string
	Item    *ext.Item
	Actions []ext.Action
	Query   string
	Cursor  int

	visible []int
}

// NewActionPanel opens a panel over actions.
func NewActionPanel(frameID string, item *ext.Item, actions []ext.Action) *ActionPanel {
	p := &ActionPanel{Frame: frameID, Item: item, Actions: actions}
	p.SetQuery("")
	return p
}

func (p *ActionPanel) Kind() ModalKind { return ModalActionPanel }
func (p *ActionPanel) FrameID() string { return p.Frame }

// SetQuery narrows the visible actions and resets the cursor to the first.
func (p *ActionPanel) SetQuery(query string) {
	p.Query = query
	p.visible = rankTitles(p.Actions, query)
	p.Cursor = 0
}

// Visible returns indices into Actions, in declaration order.
func (p *ActionPanel) Visible() []int {
	return p.visible
}

// Move shifts the cursor by delta, clamped to the visible actions.
func (p *ActionPanel) Move(delta int) {
	p.Cursor = clamp(p.Cursor+delta, len(p.visible))
}

// Selected returns the action under the cursor.
func (p *ActionPanel) Selected() (ext.Action, bool) {
	if p.Cursor < 0 || p.Cursor >= len(p.visible) {
		return ext.Action{}, false
	}
	return p.Actions[p.visible[p.Cursor]], true
}

func rankTitles(actions []ext.Action, query string) []int {
	trimmed := strings.TrimSpace(query)
	out := make([]int, 0, len(actions))
	if trimmed == "" {
		for i := range actions {
			out = append(out, i)
		}
		return out
	}
	titles := make([]string, len(actions))
	for i, a := range actions {
		titles[i] = a.Title
	}
	matched := make(map[int]struct{})
	for _, rank := range fuzzy.RankFindNormalizedFold(trimmed, titles) {
		matched[rank.OriginalIndex] = struct{}{}
	}
	for i := range actions {
		if _, ok := matched[i]; ok {
			out = append(out, i)
		}
	}
	return out
}

// AlertDialog is a confirmation dialog. Confirm tracks which button has focus.
type AlertDialog struct {
	Frame   string
	Alert   ext.Alert
	Confirm bool
}

// NewAlertDialog opens alert with focus on the safe choice for destructive
// alerts and on confirm otherwise.
func NewAlertDialog(frameID string, alert ext.Alert) *AlertDialog {
	if alert.ConfirmTitle == "" {
		alert.ConfirmTitle = "Confirm"
	}
	return &AlertDialog{Frame: frameID, Alert: alert, Confirm: !alert.Destructive}
}

func (a *AlertDialog) Kind() ModalKind { return ModalAlert }
func (a *AlertDialog) FrameID() string { return a.Frame }

// Toggle moves focus to the other button.
func (a *AlertDialog) Toggle() {
	a.Confirm = !a.Confirm
}

// DropdownPicker chooses a value for a list's dropdown accessory.
type DropdownPicker struct {
	Frame    string
	Dropdown *ext.Dropdown
	Cursor   int
}

// NewDropdownPicker opens with the current value focused.
func NewDropdownPicker(frameID string, d *ext.Dropdown) *DropdownPicker {
	p := &DropdownPicker{Frame: frameID, Dropdown: d}
	for i, opt := range d.Options {
		if opt.Value == d.Value {
			p.Cursor = i
			break
		}
	}
	return p
}

func (p *DropdownPicker) Kind() ModalKind { return ModalDropdown }
func (p *DropdownPicker) FrameID() string { return p.Frame }

func (p *DropdownPicker) Move(delta int) {
	p.Cursor = clamp(p.Cursor+delta, len(p.Dropdown.Options))
}

// Selected returns the focused option.
func (p *DropdownPicker) Selected() (ext.DropdownOption, bool) {
	if p.Cursor < 0 || p.Cursor >= len(p.Dropdown.Options) {
		return ext.DropdownOption{}, false
	}
	return p.Dropdown.Options[p.Cursor], true
}

func clamp(idx, n int) int {
	if n == 0 {
		return 0
	}
	if idx < 0 {
		return 0
	}
	if idx >= n {
		return n - 1
	}
	return idx
}
