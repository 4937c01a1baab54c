package ui

import (
	"github.com/atomicstack/termext/internal/logging/events"
	"github.com/atomicstack/termext/internal/ui/command"
	"github.com/atomicstack/termext/internal/ui/overlay"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type keyMap struct {
	Quit     key.Binding
	Actions  key.Binding
	Refresh  key.Binding
	Dropdown key.Binding
	Back     key.Binding
	Confirm  key.Binding
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding
	Next     key.Binding
	Prev     key.Binding
	Toggle   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:     key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		Actions:  key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("ctrl+k", "actions")),
		Refresh:  key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "refresh")),
		Dropdown: key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "filter")),
		Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Confirm:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Up:       key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
		Down:     key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),
		PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "page down")),
		Home:     key.NewBinding(key.WithKeys("home"), key.WithHelp("home", "first")),
		End:      key.NewBinding(key.WithKeys("end"), key.WithHelp("end", "last")),
		Next:     key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		Prev:     key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "previous field")),
		Toggle:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
	}
}

// handleKeyMsg routes a key through the fixed priority chain: global keys,
// the open modal, a visible toast, per-action shortcuts, the primary action
// and finally the focused view.
func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		return m.quit()
	case key.Matches(keyMsg, m.keys.Actions):
		return m.openActionPanel()
	case key.Matches(keyMsg, m.keys.Refresh):
		return m.refreshFrame(m.currentFrame())
	}

	if modal := m.overlay.Modal(); modal != nil {
		return m.handleModalKey(keyMsg, modal)
	}

	if notice, ok := m.overlay.DismissibleToast(); ok {
		switch {
		case key.Matches(keyMsg, m.keys.Back):
			m.overlay.DismissToast("escape")
			return nil
		case key.Matches(keyMsg, m.keys.Confirm) && notice.Toast.Primary != nil:
			return m.runToastPrimary(notice)
		}
	}

	current := m.currentFrame()
	if current == nil {
		return nil
	}
	if action, ok := command.Match(m.resolveActions(current), keyMsg.String()); ok {
		events.Action.Shortcut(current.ID(), keyMsg.String(), action.Title)
		return m.dispatch(current, action)
	}
	if key.Matches(keyMsg, m.keys.Confirm) {
		if action, ok := command.Primary(m.declaredActions(current)); ok {
			return m.dispatch(current, action)
		}
		return nil
	}

	switch data := current.Level.Data.(type) {
	case *listFrame:
		return m.handleListKey(current, data, keyMsg)
	case *detailFrame:
		return m.handleDetailKey(current, data, keyMsg)
	case *formFrame:
		return m.handleFormKey(current, data, keyMsg)
	}
	if key.Matches(keyMsg, m.keys.Back) {
		return m.back()
	}
	return nil
}

func (m *Model) handleModalKey(msg tea.KeyMsg, modal overlay.Modal) tea.Cmd {
	switch mdl := modal.(type) {
	case *overlay.ActionPanel:
		return m.handleActionPanelKey(msg, mdl)
	case *overlay.AlertDialog:
		return m.handleAlertKey(msg, mdl)
	case *overlay.DropdownPicker:
		return m.handleDropdownKey(msg, mdl)
	}
	if key.Matches(msg, m.keys.Back) {
		m.overlay.Close("escape")
	}
	return nil
}

func (m *Model) quit() tea.Cmd {
	m.Close()
	return tea.Quit
}
