package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// previewData is the split detail of a list frame: the focused item's
// markdown, rendered off the event loop.
type previewData struct {
	target       string
	label        string
	lines        []string
	err          string
	loading      bool
	seq          int
	scrollOffset int
}

type previewLoadedMsg struct {
	frameID string
	target  string
	seq     int
	lines   []string
	err     error
}

var renderPreviewFn = renderMarkdown

// ensurePreviewForFrame starts rendering the focused item's detail when the
// list shows a split detail and the focused item changed.
func (m *Model) ensurePreviewForFrame(f *frame) tea.Cmd {
	data, ok := listData(f)
	if !ok {
		return nil
	}
	id := f.ID()
	if !data.view.ShowDetail {
		m.clearPreview(id)
		return nil
	}
	item, ok := f.Level.SelectedItem()
	if !ok || strings.TrimSpace(item.Detail) == "" {
		m.clearPreview(id)
		return nil
	}
	if existing, ok := m.preview[id]; ok && existing.target == item.ID {
		return nil
	}
	m.previewSeq++
	seq := m.previewSeq
	m.preview[id] = &previewData{
		target:  item.ID,
		label:   item.Title,
		loading: true,
		seq:     seq,
	}
	md := item.Detail
	style := styles.Glamour
	width := m.previewPanelWidth() - 2
	target := item.ID
	return func() tea.Msg {
		lines, err := renderPreviewFn(md, style, width)
		return previewLoadedMsg{frameID: id, target: target, seq: seq, lines: lines, err: err}
	}
}

func (m *Model) clearPreview(frameID string) {
	if frameID == "" || m.preview == nil {
		return
	}
	delete(m.preview, frameID)
}

func (m *Model) activePreview() *previewData {
	current := m.currentLevel()
	if current == nil || m.preview == nil {
		return nil
	}
	return m.preview[current.ID]
}

func (m *Model) handlePreviewLoadedMsg(msg tea.Msg) tea.Cmd {
	update, ok := msg.(previewLoadedMsg)
	if !ok {
		return nil
	}
	data, ok := m.preview[update.frameID]
	if !ok {
		return nil
	}
	if data.seq != update.seq || data.target != update.target {
		return nil
	}
	data.loading = false
	data.scrollOffset = 0
	if update.err != nil {
		data.err = update.err.Error()
		data.lines = nil
		return nil
	}
	data.err = ""
	data.lines = update.lines
	return nil
}
