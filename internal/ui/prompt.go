package ui

import (
	"github.com/atomicstack/termext/internal/ext"
	"github.com/atomicstack/termext/internal/ui/overlay"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// handleAlertKey drives a confirmation dialog. The dialog closes before its
// handler runs so the handler's own intents land on the frame, not the modal.
func (m *Model) handleAlertKey(msg tea.KeyMsg, dlg *overlay.AlertDialog) tea.Cmd {
	switch msg.String() {
	case "left", "right", "tab", "shift+tab", "h", "l":
		dlg.Toggle()
		return nil
	case "y":
		return m.resolveAlert(dlg, true)
	case "n":
		return m.resolveAlert(dlg, false)
	}
	switch {
	case key.Matches(msg, m.keys.Back):
		return m.resolveAlert(dlg, false)
	case key.Matches(msg, m.keys.Confirm):
		return m.resolveAlert(dlg, dlg.Confirm)
	}
	return nil
}

func (m *Model) resolveAlert(dlg *overlay.AlertDialog, confirmed bool) tea.Cmd {
	reason := "cancel"
	handler := dlg.Alert.OnCancel
	title := "Cancel"
	if confirmed {
		reason = "confirm"
		handler = dlg.Alert.OnConfirm
		title = dlg.Alert.ConfirmTitle
	}
	m.overlay.Close(reason)
	if handler == nil {
		return nil
	}
	f := m.stack.Find(dlg.Frame)
	if f == nil {
		return nil
	}
	return m.dispatch(f, ext.Action{Title: title, Run: handler})
}

func (m *Model) alertLines(dlg *overlay.AlertDialog) []styledLine {
	a := dlg.Alert
	lines := []styledLine{{text: a.Title, style: styles.PanelTitle}}
	if a.Message != "" {
		lines = append(lines, styledLine{}, styledLine{text: a.Message, style: styles.Item})
	}
	confirm := "[ " + a.ConfirmTitle + " ]"
	cancel := "[ Cancel ]"
	confirmStyle := styles.Item
	if a.Destructive {
		confirmStyle = styles.Destructive
	}
	cancelStyle := styles.Item
	if dlg.Confirm {
		confirmStyle = styles.SelectedItem
	} else {
		cancelStyle = styles.SelectedItem
	}
	buttons := renderStyled(cancelStyle, cancel) + "  " + renderStyled(confirmStyle, confirm)
	lines = append(lines, styledLine{}, styledLine{text: buttons, raw: true})
	return lines
}
