package ui

import (
	"unicode"
	"unicode/utf8"

	"github.com/atomicstack/termext/internal/ext"
	"github.com/atomicstack/termext/internal/logging/events"
	"github.com/atomicstack/termext/internal/ui/command"
	"github.com/atomicstack/termext/internal/ui/overlay"
	uistate "github.com/atomicstack/termext/internal/ui/state"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func (m *Model) updateFilterCursorModel(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.filterCursor, cmd = m.filterCursor.Update(msg)
	return cmd
}

func (m *Model) noteFilterCursorChange(l *level, before int) {
	if l == nil {
		return
	}
	if before != l.FilterCursorPos() {
		m.filterCursorDirty = true
	}
}

func (m *Model) handleListKey(f *frame, data *listFrame, msg tea.KeyMsg) tea.Cmd {
	lvl := f.Level
	switch {
	case key.Matches(msg, m.keys.Up):
		return m.moveSelection(f, -1)
	case key.Matches(msg, m.keys.Down):
		return m.moveSelection(f, 1)
	case key.Matches(msg, m.keys.PageUp):
		return m.moveCursorPage(f, true)
	case key.Matches(msg, m.keys.PageDown):
		return m.moveCursorPage(f, false)
	case key.Matches(msg, m.keys.Home):
		return m.moveCursorEdge(f, true)
	case key.Matches(msg, m.keys.End):
		return m.moveCursorEdge(f, false)
	case key.Matches(msg, m.keys.Dropdown):
		if data.view.Dropdown == nil || len(data.view.Dropdown.Options) == 0 {
			return nil
		}
		m.overlay.Open(overlay.NewDropdownPicker(f.ID(), data.view.Dropdown))
		return nil
	case key.Matches(msg, m.keys.Back):
		if lvl.Filter != "" {
			before := lvl.Filter
			cmd, _ := m.editSearch(f, data, uistate.ClearEdit)
			if lvl.Filter != before {
				events.Filter.Cleared(lvl.ID)
				return cmd
			}
			// controlled list kept its text
			return tea.Batch(cmd, m.back())
		}
		return m.back()
	}
	_, cmd := m.handleTextInput(f, data, msg)
	return cmd
}

// handleTextInput applies search bar editing keys. It reports whether the
// key was consumed.
func (m *Model) handleTextInput(f *frame, data *listFrame, msg tea.KeyMsg) (bool, tea.Cmd) {
	lvl := f.Level
	switch msg.String() {
	case "ctrl+u":
		if lvl.Filter == "" {
			return false, nil
		}
		cmd, ok := m.editSearch(f, data, uistate.ClearEdit)
		if ok {
			events.Filter.Cleared(lvl.ID)
		}
		return ok, cmd
	case "ctrl+w":
		cmd, ok := m.editSearch(f, data, uistate.DeleteWordBackwardEdit)
		if ok {
			events.Filter.WordBackspace(lvl.ID, lvl.Filter)
		}
		return ok, cmd
	case "ctrl+a":
		return m.moveFilterCursor(lvl, lvl.MoveFilterCursorStart, false), nil
	case "ctrl+e":
		return m.moveFilterCursor(lvl, lvl.MoveFilterCursorEnd, false), nil
	case "alt+b":
		return m.moveFilterCursor(lvl, lvl.MoveFilterCursorWordBackward, true), nil
	case "alt+f":
		return m.moveFilterCursor(lvl, lvl.MoveFilterCursorWordForward, true), nil
	}
	switch msg.Type {
	case tea.KeyBackspace, tea.KeyCtrlH:
		cmd, ok := m.editSearch(f, data, uistate.DeleteRuneBackwardEdit)
		if ok {
			events.Filter.Backspace(lvl.ID, lvl.Filter)
		}
		return ok, cmd
	case tea.KeyRunes:
		if msg.Alt || len(msg.Runes) == 0 {
			return false, nil
		}
		for _, r := range msg.Runes {
			if unicode.IsControl(r) {
				return false, nil
			}
		}
		cmd, ok := m.editSearch(f, data, uistate.InsertEdit(string(msg.Runes)))
		if ok {
			events.Filter.Append(lvl.ID, lvl.Filter)
		}
		return ok, cmd
	case tea.KeySpace:
		cmd, ok := m.editSearch(f, data, uistate.InsertEdit(" "))
		if ok {
			events.Filter.Append(lvl.ID, lvl.Filter)
		}
		return ok, cmd
	case tea.KeyLeft:
		return m.moveFilterCursor(lvl, lvl.MoveFilterCursorRuneBackward, false), nil
	case tea.KeyRight:
		return m.moveFilterCursor(lvl, lvl.MoveFilterCursorRuneForward, false), nil
	}
	return false, nil
}

func (m *Model) moveFilterCursor(lvl *level, move func() bool, word bool) bool {
	before := lvl.FilterCursorPos()
	if !move() {
		return false
	}
	m.noteFilterCursorChange(lvl, before)
	if word {
		events.Filter.CursorWord(lvl.ID, lvl.FilterCursor)
	} else {
		events.Filter.Cursor(lvl.ID, lvl.FilterCursor)
	}
	return true
}

// editSearch applies a search bar edit. Uncontrolled lists change their
// filter directly and then notify the extension. Controlled lists only
// propose the edited text; the extension decides through SetSearchText.
func (m *Model) editSearch(f *frame, data *listFrame, edit uistate.FilterEdit) (tea.Cmd, bool) {
	lvl := f.Level
	text, cursor, ok := lvl.ProposeFilter(edit)
	if !ok {
		return nil, false
	}
	m.errMsg = ""
	if lvl.Controlled {
		return m.proposeSearch(f, data, text, cursor), true
	}
	cmd := m.setSearchText(f, text, cursor)
	if data.view.OnSearchTextChange == nil {
		return cmd, true
	}
	notify := data.view.OnSearchTextChange
	res := m.bus.Run(command.Request{
		ID:      "search",
		FrameID: f.ID(),
		Title:   "search text change",
		Handler: func(ctx *ext.Context) error {
			notify(ctx, text)
			return nil
		},
		Context: m.contextFor(f),
	})
	return tea.Batch(cmd, m.applyResult(res)), true
}

func (m *Model) proposeSearch(f *frame, data *listFrame, text string, cursor int) tea.Cmd {
	if data.view.OnSearchTextChange == nil {
		return nil
	}
	notify := data.view.OnSearchTextChange
	ctx := m.contextFor(f)
	ctx.SearchText = text
	res := m.bus.Run(command.Request{
		ID:      "search",
		FrameID: f.ID(),
		Title:   "search text change",
		Handler: func(ctx *ext.Context) error {
			notify(ctx, text)
			return nil
		},
		Context: ctx,
	})
	if res.Err != nil {
		return m.applyResult(res)
	}
	cmds := make([]tea.Cmd, 0, len(res.Intents))
	for _, in := range res.Intents {
		if in.Kind == ext.IntentSearchText && in.Text == text {
			cmds = append(cmds, m.setSearchText(f, text, cursor))
			continue
		}
		cmds = append(cmds, m.applyIntent(f.ID(), in))
	}
	return tea.Batch(cmds...)
}

// setSearchText replaces the filter of f and reconciles its selection.
// A negative cursor places the caret at the end of text.
func (m *Model) setSearchText(f *frame, text string, cursor int) tea.Cmd {
	lvl := f.Level
	if cursor < 0 {
		cursor = utf8.RuneCountInString(text)
	}
	before := lvl.FilterCursorPos()
	changed := lvl.Filter != text
	lvl.SetFilter(text, cursor)
	if lvl.Controlled {
		events.Filter.Controlled(lvl.ID, text)
	}
	m.noteFilterCursorChange(lvl, before)
	m.syncViewport(lvl)
	cmds := []tea.Cmd{m.ensurePreviewForFrame(f)}
	if data, ok := lvl.Data.(*listFrame); ok && changed && lvl.FilteringDisabled && data.view.Load != nil {
		cmds = append(cmds, m.loadFrame(f))
		m.watchFrame(f, data)
	}
	return tea.Batch(cmds...)
}

func (m *Model) filterPrompt() string {
	current := m.currentFrame()
	placeholder := "Search…"
	if data, ok := listData(current); ok && data.view.SearchPlaceholder != "" {
		placeholder = data.view.SearchPlaceholder
	}
	render := func(style *lipgloss.Style, value string) string {
		if style == nil || value == "" {
			return value
		}
		return style.Render(value)
	}
	if styles.Cursor != nil {
		m.filterCursor.Style = styles.Cursor.Copy()
	}
	if styles.Filter != nil {
		m.filterCursor.TextStyle = styles.Filter.Copy()
	} else {
		m.filterCursor.TextStyle = lipgloss.Style{}
	}
	prompt := "» "
	if styles.FilterPrompt != nil {
		prompt = styles.FilterPrompt.Render(prompt)
	}
	if current == nil {
		return prompt
	}
	text := current.Level.Filter
	if text == "" {
		runes := []rune(placeholder)
		var caretRune, rest string
		if len(runes) > 0 {
			caretRune = string(runes[0])
			rest = string(runes[1:])
		}
		if styles.FilterPlaceholder != nil {
			m.filterCursor.TextStyle = styles.FilterPlaceholder.Copy()
		}
		return prompt + m.renderFilterCursor(caretRune) + render(styles.FilterPlaceholder, rest) + m.dropdownLabel(current)
	}
	runes := []rune(text)
	pos := current.Level.FilterCursorPos()
	before := render(styles.Filter, string(runes[:pos]))
	caretRune := " "
	after := ""
	if pos < len(runes) {
		caretRune = string(runes[pos])
		after = render(styles.Filter, string(runes[pos+1:]))
	}
	return prompt + before + m.renderFilterCursor(caretRune) + after + m.dropdownLabel(current)
}

func (m *Model) dropdownLabel(f *frame) string {
	data, ok := listData(f)
	if !ok || data.view.Dropdown == nil {
		return ""
	}
	d := data.view.Dropdown
	label := d.Value
	for _, opt := range d.Options {
		if opt.Value == d.Value {
			label = opt.Title
			break
		}
	}
	if label == "" {
		return ""
	}
	out := "  [" + label + " ▾]"
	if styles.Hint != nil {
		return styles.Hint.Render(out)
	}
	return out
}

func (m *Model) renderFilterCursor(char string) string {
	if char == "" {
		char = " "
	}
	m.filterCursor.SetChar(char)

	base := m.filterCursor.TextStyle.Copy()
	base = base.Inline(true)

	if m.filterCursor.Blink {
		return base.Render(char)
	}

	if styles.Cursor != nil {
		cursorStyle := styles.Cursor.Copy().Inline(true)
		base = base.Inherit(cursorStyle).Blink(false)
		return base.Render(char)
	}

	return base.Reverse(true).Render(char)
}
