package ui

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/atomicstack/termext/internal/ext"
	"github.com/atomicstack/termext/internal/logging"
	"github.com/atomicstack/termext/internal/logging/events"
	uistate "github.com/atomicstack/termext/internal/ui/state"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// listFrame is the view-specific state of a frame showing an ext.List.
type listFrame struct {
	view *ext.List
}

// errorFrame replaces a view whose resolution failed.
type errorFrame struct {
	err error
}

func listData(f *frame) (*listFrame, bool) {
	if f == nil || f.Level == nil {
		return nil, false
	}
	data, ok := f.Level.Data.(*listFrame)
	return data, ok
}

// catalogFrame lists every registered command, one section per extension.
func (m *Model) catalogFrame() *frame {
	exts := m.registry.Extensions()
	sections := make([]ext.Section, 0, len(exts))
	for _, e := range exts {
		items := make([]ext.Item, 0, len(e.Commands))
		for _, c := range e.Commands {
			items = append(items, commandItem(e, c))
		}
		sections = append(sections, ext.Section{Title: e.Title, Items: items})
	}
	list := &ext.List{
		Title:             rootTitle,
		SearchPlaceholder: "Search commands…",
		Sections:          sections,
		EmptyTitle:        "No extensions registered",
	}
	return m.newListFrame(rootCommandID, rootCommandID, list)
}

func commandItem(e ext.Extension, c ext.Command) ext.Item {
	keywords := append([]string{e.Name, c.Name}, c.Keywords...)
	return ext.Item{
		ID:          c.ID(),
		Title:       c.Title,
		Subtitle:    c.Subtitle,
		Keywords:    keywords,
		Accessories: []ext.Accessory{ext.Text(e.Title)},
		Detail:      c.Description,
		Actions: []ext.Action{
			launchAction(c),
			ext.CopyAction("Copy Command", "termext "+c.ID()),
		},
	}
}

func launchAction(c ext.Command) ext.Action {
	return ext.Action{
		Title: "Open Command",
		Run: func(ctx *ext.Context) error {
			ctx.Launch(c)
			return nil
		},
	}
}

// applyRootCommand swaps the catalog root for the named command's view.
// Commands without a view run once at startup against the catalog.
func (m *Model) applyRootCommand(requested string) {
	trimmed := strings.TrimSpace(requested)
	if trimmed == "" {
		return
	}
	c, ok := m.registry.Find(trimmed)
	if !ok {
		m.errMsg = fmt.Sprintf("Unknown command %q", trimmed)
		return
	}
	if c.View == nil {
		m.startup = m.launch(m.currentFrame(), c)
		return
	}
	ctx := ext.NewContext(rootCommandID, c.ID(), nil, "", m.cacheFor(c.ID()))
	root := m.buildFrame(m.stack.NextID(c.ID()), c.ID(), c.View, ctx)
	m.stack.Reset(root)
}

// pushView resolves build and pushes the resulting frame. Resolution errors
// and panics push an inline error frame instead.
func (m *Model) pushView(commandID string, build ext.ViewFunc, onPop func()) tea.Cmd {
	parent := m.currentFrame()
	ctx := ext.NewContext(parent.ID(), commandID, nil, "", m.cacheFor(commandID))
	f := m.buildFrame(m.stack.NextID(commandID), commandID, build, ctx)
	f.OnPop = onPop
	m.stack.Push(f)
	cmds := []tea.Cmd{m.initFrame(f)}
	if intents := ctx.Intents(); len(intents) > 0 {
		cmds = append(cmds, m.applyIntents(f.ID(), intents))
	}
	return tea.Batch(cmds...)
}

func (m *Model) buildFrame(id, commandID string, build ext.ViewFunc, ctx *ext.Context) *frame {
	view, err := resolveView(build, ctx)
	if err != nil {
		events.Nav.ViewError(commandID, err)
		logging.Error(fmt.Errorf("resolve view for %s: %w", commandID, err))
		return m.newErrorFrame(id, commandID, err)
	}
	switch v := view.(type) {
	case *ext.List:
		return m.newListFrame(id, commandID, v)
	case *ext.Detail:
		return m.newDetailFrame(id, commandID, v)
	case *ext.Form:
		return m.newFormFrame(id, commandID, v)
	}
	return m.newErrorFrame(id, commandID, fmt.Errorf("unsupported view %T", view))
}

func resolveView(build ext.ViewFunc, ctx *ext.Context) (view ext.View, err error) {
	if build == nil {
		return nil, errors.New("command has no view")
	}
	defer func() {
		if r := recover(); r != nil {
			view = nil
			err = fmt.Errorf("view panicked: %v", r)
		}
	}()
	view, err = build(ctx)
	if err == nil && view == nil {
		err = errors.New("view is nil")
	}
	return view, err
}

func (m *Model) newListFrame(id, commandID string, list *ext.List) *frame {
	lvl := uistate.NewLevel(id, list.Title, nil)
	lvl.Controlled = list.Controlled
	lvl.FilteringDisabled = list.FilteringDisabled
	lvl.UpdateSections(list.Sections)
	if list.SearchText != "" {
		lvl.SetFilter(list.SearchText, utf8.RuneCountInString(list.SearchText))
	}
	lvl.Data = &listFrame{view: list}
	return &frame{Level: lvl, View: list, CommandID: commandID}
}

func (m *Model) newErrorFrame(id, commandID string, err error) *frame {
	lvl := uistate.NewLevel(id, "Error", nil)
	lvl.Err = err.Error()
	lvl.Data = &errorFrame{err: err}
	return &frame{Level: lvl, CommandID: commandID}
}

// initFrame starts whatever a freshly focused frame needs: its loader, its
// refresh poller and its split detail.
func (m *Model) initFrame(f *frame) tea.Cmd {
	if f == nil {
		return nil
	}
	switch data := f.Level.Data.(type) {
	case *listFrame:
		cmds := []tea.Cmd{m.loadFrame(f)}
		m.watchFrame(f, data)
		cmds = append(cmds, m.ensurePreviewForFrame(f))
		m.syncViewport(f.Level)
		return tea.Batch(cmds...)
	case *detailFrame:
		m.renderDetail(data)
	case *formFrame:
		if m.blink && len(data.inputs) > 0 {
			return textinput.Blink
		}
	}
	return nil
}

// back pops the focused frame, or quits at the root.
func (m *Model) back() tea.Cmd {
	if m.stack.Depth() <= 1 {
		return m.quit()
	}
	return m.pop()
}

func (m *Model) pop() tea.Cmd {
	popped, ok := m.stack.Pop()
	if !ok {
		return nil
	}
	m.teardown(popped)
	m.errMsg = ""
	if current := m.currentLevel(); current != nil {
		m.syncViewport(current)
	}
	return m.ensurePreviewForFrame(m.currentFrame())
}

func (m *Model) popToRoot() tea.Cmd {
	for _, f := range m.stack.PopToRoot() {
		m.teardown(f)
	}
	m.errMsg = ""
	return m.ensurePreviewForFrame(m.currentFrame())
}

// teardown cancels everything scoped to a popped frame. In-flight loads are
// left running; their results are discarded by the dispatcher.
func (m *Model) teardown(f *frame) {
	id := f.ID()
	m.overlay.CloseForFrame(id)
	if m.backend != nil {
		m.backend.Unwatch(id)
	}
	m.releaseTicker(id)
	m.clearPreview(id)
}

func (m *Model) launch(from *frame, c ext.Command) tea.Cmd {
	if c.View != nil {
		return m.pushView(c.ID(), c.View, nil)
	}
	if c.Run == nil {
		return nil
	}
	ctx := ext.NewContext(from.ID(), c.ID(), nil, "", m.cacheFor(c.ID()))
	return m.execute(from, c.ID(), c.Title, c.Run, ctx)
}

func (m *Model) moveSelection(f *frame, delta int) tea.Cmd {
	lvl := f.Level
	if lvl.MoveSelection(delta) {
		events.Nav.Cursor(lvl.ID, lvl.Cursor, lvl.Selected)
	}
	m.syncViewport(lvl)
	return m.ensurePreviewForFrame(f)
}

func (m *Model) moveCursorPage(f *frame, up bool) tea.Cmd {
	lvl := f.Level
	var moved bool
	if up {
		moved = lvl.MoveCursorPageUp(m.maxVisibleItems())
	} else {
		moved = lvl.MoveCursorPageDown(m.maxVisibleItems())
	}
	if moved {
		events.Nav.Cursor(lvl.ID, lvl.Cursor, lvl.Selected)
	}
	m.syncViewport(lvl)
	return m.ensurePreviewForFrame(f)
}

func (m *Model) moveCursorEdge(f *frame, home bool) tea.Cmd {
	lvl := f.Level
	var moved bool
	if home {
		moved = lvl.MoveCursorHome()
	} else {
		moved = lvl.MoveCursorEnd()
	}
	if moved {
		events.Nav.Cursor(lvl.ID, lvl.Cursor, lvl.Selected)
	}
	m.syncViewport(lvl)
	return m.ensurePreviewForFrame(f)
}

func (m *Model) syncViewport(l *level) {
	if l == nil {
		return
	}
	l.EnsureCursorVisible(m.maxVisibleItems())
}
