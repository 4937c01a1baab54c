package ui

import (
	"strings"

	"github.com/atomicstack/termext/internal/ext"
	"github.com/atomicstack/termext/internal/ui/command"
	"github.com/atomicstack/termext/internal/ui/overlay"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// handleActionPanelKey drives the action panel. Running an action closes
// the panel first.
func (m *Model) handleActionPanelKey(msg tea.KeyMsg, p *overlay.ActionPanel) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Back):
		if p.Query != "" {
			p.SetQuery("")
			return nil
		}
		m.overlay.Close("escape")
		return nil
	case key.Matches(msg, m.keys.Up):
		p.Move(-1)
		return nil
	case key.Matches(msg, m.keys.Down):
		p.Move(1)
		return nil
	case key.Matches(msg, m.keys.Confirm):
		action, ok := p.Selected()
		if !ok {
			return nil
		}
		return m.runFromPanel(p, action)
	}
	if action, ok := command.Match(p.Actions, msg.String()); ok {
		return m.runFromPanel(p, action)
	}
	switch msg.Type {
	case tea.KeyBackspace, tea.KeyCtrlH:
		runes := []rune(p.Query)
		if len(runes) > 0 {
			p.SetQuery(string(runes[:len(runes)-1]))
		}
	case tea.KeyRunes:
		if !msg.Alt {
			p.SetQuery(p.Query + string(msg.Runes))
		}
	case tea.KeySpace:
		p.SetQuery(p.Query + " ")
	}
	return nil
}

func (m *Model) runFromPanel(p *overlay.ActionPanel, action ext.Action) tea.Cmd {
	m.overlay.Close("run")
	f := m.stack.Find(p.Frame)
	if f == nil {
		return nil
	}
	return m.dispatch(f, action)
}

// handleDropdownKey drives the search bar dropdown. A new value is stored on
// the dropdown and reported through OnChange.
func (m *Model) handleDropdownKey(msg tea.KeyMsg, p *overlay.DropdownPicker) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.overlay.Close("escape")
	case key.Matches(msg, m.keys.Up):
		p.Move(-1)
	case key.Matches(msg, m.keys.Down):
		p.Move(1)
	case key.Matches(msg, m.keys.Confirm):
		opt, ok := p.Selected()
		m.overlay.Close("select")
		if !ok || opt.Value == p.Dropdown.Value {
			return nil
		}
		p.Dropdown.Value = opt.Value
		f := m.stack.Find(p.Frame)
		if f == nil || p.Dropdown.OnChange == nil {
			return nil
		}
		onChange := p.Dropdown.OnChange
		value := opt.Value
		res := m.bus.Run(command.Request{
			ID:      f.CommandID,
			FrameID: f.ID(),
			Title:   "dropdown change",
			Handler: func(ctx *ext.Context) error {
				onChange(ctx, value)
				return nil
			},
			Context: m.contextFor(f),
		})
		return m.applyResult(res)
	}
	return nil
}

// modalLines renders the open modal as a bordered box.
func (m *Model) modalLines(modal overlay.Modal, width int) []string {
	var body []styledLine
	switch mdl := modal.(type) {
	case *overlay.ActionPanel:
		body = m.actionPanelLines(mdl)
	case *overlay.AlertDialog:
		body = m.alertLines(mdl)
	case *overlay.DropdownPicker:
		body = m.dropdownLines(mdl)
	}
	inner := width - 4
	if inner < 10 {
		inner = 10
	}
	body = applyWidth(body, inner)
	box := renderLines(body)
	if styles.Panel != nil {
		box = styles.Panel.Width(inner).Render(box)
	}
	return strings.Split(box, "\n")
}

func (m *Model) actionPanelLines(p *overlay.ActionPanel) []styledLine {
	title := "Actions"
	if p.Item != nil && p.Item.Title != "" {
		title = p.Item.Title
	}
	lines := []styledLine{
		{text: title, style: styles.PanelTitle},
		{text: "» " + p.Query, style: styles.Filter},
	}
	visible := p.Visible()
	if len(visible) == 0 {
		return append(lines, styledLine{text: "No matching actions", style: styles.Empty})
	}
	for pos, idx := range visible {
		action := p.Actions[idx]
		style := styles.Item
		if action.Style == ext.StyleDestructive {
			style = styles.Destructive
		}
		if pos == p.Cursor {
			style = styles.SelectedItem
		}
		text := "  " + action.Title
		if pos == 0 && p.Query == "" {
			text += "  ↵"
		}
		if sc := action.Shortcut.String(); sc != "" {
			text += "  " + renderStyled(styles.PanelShortcut, sc)
		}
		lines = append(lines, styledLine{text: renderStyled(style, text), raw: true})
	}
	return lines
}

func (m *Model) dropdownLines(p *overlay.DropdownPicker) []styledLine {
	title := p.Dropdown.Tooltip
	if title == "" {
		title = "Filter"
	}
	lines := []styledLine{{text: title, style: styles.PanelTitle}}
	for i, opt := range p.Dropdown.Options {
		style := styles.Item
		mark := "  "
		if opt.Value == p.Dropdown.Value {
			mark = "✓ "
		}
		if i == p.Cursor {
			style = styles.SelectedItem
		}
		lines = append(lines, styledLine{text: mark + opt.Title, style: style})
	}
	return lines
}

// noticeLine renders the visible toast or HUD.
func (m *Model) noticeLine() (styledLine, bool) {
	n := m.overlay.Notice()
	if n == nil {
		return styledLine{}, false
	}
	if n.Kind == overlay.KindHUD {
		return styledLine{text: n.Toast.Title, style: styles.HUD}, true
	}
	style := styles.ToastSuccess
	icon := "✓"
	switch n.Toast.Style {
	case ext.ToastFailure:
		style = styles.ToastFailure
		icon = "✗"
	case ext.ToastAnimated:
		style = styles.ToastAnimated
		icon = m.spinner.View()
	}
	text := icon + " " + n.Toast.Title
	if n.Toast.Message != "" {
		text += ": " + n.Toast.Message
	}
	if n.Toast.Primary != nil {
		text += "  (↵ " + n.Toast.Primary.Title + ")"
	}
	return styledLine{text: text, style: style}, true
}

func renderStyled(style *lipgloss.Style, text string) string {
	if style == nil {
		return text
	}
	return style.Render(text)
}
