package ui

import (
	"strings"

	"github.com/atomicstack/termext/internal/ext"
	uistate "github.com/atomicstack/termext/internal/ui/state"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

const (
	defaultDetailWidth  = 80
	defaultDetailHeight = 20
	minMarkdownWidth    = 20
)

// detailFrame holds a rendered markdown detail inside a scrolling viewport.
type detailFrame struct {
	view     *ext.Detail
	viewport viewport.Model
	width    int
	height   int
	rendered string
	err      string
}

func (m *Model) newDetailFrame(id, commandID string, detail *ext.Detail) *frame {
	lvl := uistate.NewLevel(id, detail.Title, nil)
	lvl.Data = &detailFrame{
		view:     detail,
		viewport: viewport.New(defaultDetailWidth, defaultDetailHeight),
	}
	return &frame{Level: lvl, View: detail, CommandID: commandID}
}

// renderDetail renders markdown and metadata for the current terminal size.
// The viewport keeps its scroll position when nothing changed.
func (m *Model) renderDetail(data *detailFrame) {
	width, height := m.detailSize()
	if data.rendered != "" && data.width == width && data.height == height {
		return
	}
	data.width, data.height = width, height
	data.viewport.Width = width
	data.viewport.Height = height
	lines, err := renderMarkdown(data.view.Markdown, styles.Glamour, width)
	if err != nil {
		data.err = err.Error()
		lines = strings.Split(data.view.Markdown, "\n")
	} else {
		data.err = ""
	}
	lines = append(lines, metadataLines(data.view.Metadata)...)
	data.rendered = strings.Join(lines, "\n")
	data.viewport.SetContent(data.rendered)
}

func metadataLines(meta []ext.Metadata) []string {
	if len(meta) == 0 {
		return nil
	}
	width := 0
	for _, row := range meta {
		if w := len([]rune(row.Label)); w > width {
			width = w
		}
	}
	lines := make([]string, 0, len(meta)+1)
	lines = append(lines, "")
	for _, row := range meta {
		label := row.Label + strings.Repeat(" ", width-len([]rune(row.Label)))
		if styles.FormLabel != nil {
			label = styles.FormLabel.Render(label)
		}
		lines = append(lines, "  "+label+"  "+row.Value)
	}
	return lines
}

// renderMarkdown renders md with the named glamour style, wrapped to width.
func renderMarkdown(md, style string, width int) ([]string, error) {
	if width < minMarkdownWidth {
		width = minMarkdownWidth
	}
	if style == "" {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	out, err := r.Render(md)
	if err != nil {
		return nil, err
	}
	return strings.Split(strings.Trim(out, "\n"), "\n"), nil
}

func (m *Model) detailSize() (int, int) {
	width := m.width
	if width <= 0 {
		width = defaultDetailWidth
	}
	height := defaultDetailHeight
	if m.height > 0 {
		height = m.height - m.reservedRows()
		if height < 1 {
			height = 1
		}
	}
	return width, height
}

func (m *Model) handleDetailKey(f *frame, data *detailFrame, msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Up):
		data.viewport.ScrollUp(1)
	case key.Matches(msg, m.keys.Down):
		data.viewport.ScrollDown(1)
	case key.Matches(msg, m.keys.PageUp):
		data.viewport.HalfPageUp()
	case key.Matches(msg, m.keys.PageDown):
		data.viewport.HalfPageDown()
	case key.Matches(msg, m.keys.Home):
		data.viewport.GotoTop()
	case key.Matches(msg, m.keys.End):
		data.viewport.GotoBottom()
	case key.Matches(msg, m.keys.Back):
		return m.back()
	}
	return nil
}
