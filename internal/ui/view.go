package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atomicstack/termext/internal/ext"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"
)

const (
	previewPanelMinWidth = 40  // minimum cols for the detail panel; below this no split
	previewPanelFraction = 0.5 // fraction of total width given to the detail panel
	footerText           = "↑/↓ move  enter run  ctrl+k actions  esc back  ctrl+c quit"
)

var (
	previewBorderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	previewScrollStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// now is the clock accessories are rendered against.
var now = time.Now

type styledLine struct {
	text          string
	style         *lipgloss.Style
	prefixStyle   *lipgloss.Style
	highlightFrom int
	raw           bool // text contains ANSI escapes; skip style wrapping, use ANSI-aware truncation
}

// hasSidePreview reports whether the focused list renders its split detail
// to the right of the items.
func (m *Model) hasSidePreview() bool {
	data, ok := listData(m.currentFrame())
	if !ok || !data.view.ShowDetail {
		return false
	}
	return m.previewPanelWidth() > 0
}

// previewPanelWidth returns the width in columns for the right-hand detail
// panel. Returns 0 when the terminal is too narrow to split.
func (m *Model) previewPanelWidth() int {
	if m.width <= 0 {
		return 0
	}
	w := int(float64(m.width) * previewPanelFraction)
	if w < previewPanelMinWidth {
		return 0
	}
	return w
}

func (m *Model) listColumnWidth() int {
	return m.width - m.previewPanelWidth()
}

// View implements tea.Model.
func (m *Model) View() string {
	current := m.currentFrame()
	if current == nil {
		return ""
	}
	header := styledLine{text: m.header(), style: styles.Header}
	bottom := m.bottomLines()

	if modal := m.overlay.Modal(); modal != nil {
		lines := []styledLine{header}
		for _, row := range m.modalLines(modal, m.width) {
			lines = append(lines, styledLine{text: row, raw: true})
		}
		return m.compose(lines, bottom)
	}

	switch data := current.Level.Data.(type) {
	case *listFrame:
		if m.hasSidePreview() {
			return m.viewSideBySide(header, bottom)
		}
		lines := append([]styledLine{header}, m.listLines(current.Level, data, m.width)...)
		return m.compose(lines, bottom)
	case *detailFrame:
		m.renderDetail(data)
		lines := []styledLine{header}
		for _, row := range strings.Split(data.viewport.View(), "\n") {
			lines = append(lines, styledLine{text: row, raw: true})
		}
		if data.err != "" {
			lines = append(lines, styledLine{text: "Markdown error: " + data.err, style: styles.Error})
		}
		return m.compose(lines, bottom)
	case *formFrame:
		lines := append([]styledLine{header, {}}, m.formLines(data, m.width)...)
		return m.compose(lines, bottom)
	case *errorFrame:
		lines := []styledLine{
			header,
			{},
			{text: "Could not open this view", style: styles.Error},
			{text: data.err.Error(), style: styles.Info},
		}
		return m.compose(lines, bottom)
	}
	return m.compose([]styledLine{header}, bottom)
}

// compose fits body above the bottom rows and renders both.
func (m *Model) compose(body, bottom []styledLine) string {
	if m.height > 0 {
		body = limitHeight(body, m.height-len(bottom), m.width)
		for len(body) < m.height-len(bottom) {
			body = append(body, styledLine{})
		}
	}
	lines := append(applyWidth(body, m.width), applyWidth(bottom, m.width)...)
	return renderLines(lines)
}

// viewSideBySide renders the list on the left and the focused item's detail
// on the right.
func (m *Model) viewSideBySide(header styledLine, bottom []styledLine) string {
	current := m.currentFrame()
	data, _ := listData(current)
	listW := m.listColumnWidth()
	prevW := m.previewPanelWidth()

	contentLines := append([]styledLine{header}, m.listLines(current.Level, data, listW)...)
	panelH := m.height - len(bottom)
	if panelH < 1 {
		panelH = 1
	}
	if len(contentLines) > panelH {
		contentLines = contentLines[:panelH]
	}
	for len(contentLines) < panelH {
		contentLines = append(contentLines, styledLine{})
	}
	contentLines = applyWidth(contentLines, listW)
	leftRows := strings.Split(renderLines(contentLines), "\n")
	for i, row := range leftRows {
		w := lipgloss.Width(row)
		if w > listW {
			leftRows[i] = truncate.StringWithTail(row, uint(listW-1), "…")
		} else if w < listW {
			leftRows[i] = row + strings.Repeat(" ", listW-w)
		}
	}
	leftStr := strings.Join(leftRows, "\n")
	rightStr := m.renderPreviewPanel(m.activePreview(), prevW, panelH)
	topSection := lipgloss.JoinHorizontal(lipgloss.Top, leftStr, rightStr)
	return topSection + "\n" + renderLines(applyWidth(bottom, m.width))
}

// listLines renders the visible window of a list with section headings and
// the loading, error and empty states.
func (m *Model) listLines(lvl *level, data *listFrame, width int) []styledLine {
	lines := make([]styledLine, 0, 16)
	if lvl.Err != "" {
		lines = append(lines, styledLine{text: "Error: " + lvl.Err, style: styles.Error})
	}
	if len(lvl.Items) == 0 {
		switch {
		case lvl.Loading:
			lines = append(lines, styledLine{text: m.spinner.View() + " Loading…", style: styles.Loading})
		case lvl.Filter != "" && !lvl.FilteringDisabled:
			lines = append(lines, styledLine{text: fmt.Sprintf("No matches for %q", lvl.Filter), style: styles.Empty})
		case data.view.EmptyTitle != "":
			lines = append(lines, styledLine{text: data.view.EmptyTitle, style: styles.Empty})
		default:
			lines = append(lines, styledLine{text: "No items", style: styles.Empty})
		}
		return lines
	}
	if lvl.Loading {
		lines = append(lines, styledLine{text: m.spinner.View() + " Refreshing…", style: styles.Loading})
	}
	m.syncViewport(lvl)
	start := 0
	end := len(lvl.Items)
	if maxItems := m.maxVisibleItems(); maxItems > 0 && len(lvl.Items) > maxItems {
		start = lvl.ViewportOffset
		if start < 0 {
			start = 0
		}
		if start+maxItems > len(lvl.Items) {
			start = len(lvl.Items) - maxItems
			if start < 0 {
				start = 0
			}
			lvl.ViewportOffset = start
		}
		end = start + maxItems
	}
	for idx := start; idx < end; idx++ {
		if title, ok := lvl.SectionTitleAt(idx); ok {
			lines = append(lines, styledLine{text: title, style: styles.Section})
		}
		lines = append(lines, m.buildItemLine(lvl.Items[idx], idx == lvl.Cursor, width))
	}
	return lines
}

// buildItemLine renders one row: indicator, title, subtitle and trailing
// accessories aligned to the right edge.
func (m *Model) buildItemLine(item ext.Item, selected bool, width int) styledLine {
	indicator := "▌"
	at := now()
	labels := make([]string, 0, len(item.Accessories))
	for _, acc := range item.Accessories {
		if label := acc.Label(at); label != "" {
			labels = append(labels, label)
		}
	}
	accessories := strings.Join(labels, "  ")
	left := " " + item.Title
	if item.Subtitle != "" {
		left += "  " + item.Subtitle
	}
	pad := 1
	if width > 0 {
		pad = width - runewidth.StringWidth(indicator+left) - runewidth.StringWidth(accessories) - 1
		if pad < 1 {
			pad = 1
		}
	}

	if selected {
		text := indicator + left
		if accessories != "" {
			text += strings.Repeat(" ", pad) + accessories
		}
		if width > 0 {
			if fill := width - runewidth.StringWidth(text); fill > 0 {
				text += strings.Repeat(" ", fill)
			}
		}
		return styledLine{
			text:          text,
			style:         styles.SelectedItem,
			prefixStyle:   styles.SelectedItemIndicator,
			highlightFrom: 1,
		}
	}

	var b strings.Builder
	b.WriteString(renderStyled(styles.ItemIndicator, indicator))
	b.WriteString(renderStyled(styles.Item, " "+item.Title))
	if item.Subtitle != "" {
		b.WriteString(renderStyled(styles.ItemSubtitle, "  "+item.Subtitle))
	}
	if accessories != "" {
		b.WriteString(strings.Repeat(" ", pad))
		written := 0
		for _, acc := range item.Accessories {
			label := acc.Label(at)
			if label == "" {
				continue
			}
			if written > 0 {
				b.WriteString("  ")
			}
			b.WriteString(accessoryStyle(acc).Render(label))
			written++
		}
	}
	return styledLine{text: b.String(), raw: true}
}

func accessoryStyle(acc ext.Accessory) lipgloss.Style {
	var base lipgloss.Style
	if acc.Kind == ext.AccessoryTag && styles.ItemTag != nil {
		base = styles.ItemTag.Copy()
	} else if styles.ItemAccessory != nil {
		base = styles.ItemAccessory.Copy()
	}
	if acc.Kind == ext.AccessoryTag && acc.Color != "" {
		base = base.Foreground(lipgloss.Color(acc.Color))
	}
	return base
}

// renderPreviewPanel builds the bordered detail box as a string with exactly
// height rows and totalWidth columns.
func (m *Model) renderPreviewPanel(preview *previewData, totalWidth, height int) string {
	const (
		tlc = "╭"
		trc = "╮"
		blc = "╰"
		brc = "╯"
		hz  = "─"
		vt  = "│"
	)

	innerW := totalWidth - 2
	innerH := height - 2
	if innerW < 1 {
		innerW = 1
	}
	if innerH < 1 {
		innerH = 1
	}

	titleLabel := "Detail"
	scrollInfo := ""
	var contentLines []string
	var errLine string

	if preview != nil {
		if lbl := strings.TrimSpace(preview.label); lbl != "" {
			titleLabel = lbl
		}
		if preview.err != "" {
			errLine = preview.err
		} else if len(preview.lines) > 0 {
			maxOffset := len(preview.lines) - innerH
			if maxOffset < 0 {
				maxOffset = 0
			}
			if preview.scrollOffset > maxOffset {
				preview.scrollOffset = maxOffset
			}
			if preview.scrollOffset < 0 {
				preview.scrollOffset = 0
			}
			end := preview.scrollOffset + innerH
			if end > len(preview.lines) {
				end = len(preview.lines)
			}
			contentLines = preview.lines[preview.scrollOffset:end]
			if len(preview.lines) > innerH {
				scrollInfo = fmt.Sprintf(" %d/%d ", preview.scrollOffset+len(contentLines), len(preview.lines))
			}
		} else if preview.loading {
			contentLines = []string{"Loading…"}
		}
	} else {
		contentLines = []string{"No details"}
	}

	titleSeg := " " + titleLabel + " "
	scrollSeg := scrollInfo
	dashes := totalWidth - 4 - runewidth.StringWidth(titleSeg) - runewidth.StringWidth(scrollSeg)
	if dashes < 0 {
		scrollSeg = ""
		dashes = totalWidth - 4 - runewidth.StringWidth(titleSeg)
	}
	if dashes < 0 {
		titleSeg = " … "
		dashes = totalWidth - 4 - runewidth.StringWidth(titleSeg)
	}
	if dashes < 0 {
		dashes = 0
	}
	topLine := previewBorderStyle.Render(tlc+hz) +
		renderStyled(styles.PreviewTitle, titleSeg) +
		previewBorderStyle.Render(strings.Repeat(hz, dashes)) +
		previewScrollStyle.Render(scrollSeg) +
		previewBorderStyle.Render(hz+trc)
	bottomLine := previewBorderStyle.Render(blc + strings.Repeat(hz, innerW) + brc)

	bodyStyle := styles.PreviewBody
	rawANSI := preview != nil && len(preview.lines) > 0
	if errLine != "" {
		bodyStyle = styles.PreviewError
		contentLines = []string{errLine}
		rawANSI = false
	}

	rows := make([]string, 0, height)
	rows = append(rows, topLine)
	for i := 0; i < innerH; i++ {
		var content string
		if i < len(contentLines) {
			content = contentLines[i]
		}
		w := lipgloss.Width(content)
		if w > innerW {
			content = truncate.StringWithTail(content, uint(innerW-1), "…")
			w = lipgloss.Width(content)
		}
		if w < innerW {
			content = content + strings.Repeat(" ", innerW-w)
		}
		if !rawANSI {
			content = renderStyled(bodyStyle, content)
		}
		rows = append(rows, previewBorderStyle.Render(vt)+content+previewBorderStyle.Render(vt))
	}
	rows = append(rows, bottomLine)
	return strings.Join(rows, "\n")
}

// bottomLines are the rows pinned under the body: status or toast, the
// search bar, the action hint and the optional footer.
func (m *Model) bottomLines() []styledLine {
	var status styledLine
	if m.errMsg != "" {
		status = styledLine{text: "Error: " + m.errMsg, style: styles.Error}
	} else if line, ok := m.noticeLine(); ok {
		status = line
	}
	prompt := styledLine{}
	if _, ok := listData(m.currentFrame()); ok {
		prompt = styledLine{text: m.filterPrompt(), raw: true}
	}
	hint := "ctrl+k Actions"
	if m.hint.title != "" {
		hint = "↵ " + m.hint.title + "   " + hint
	}
	lines := []styledLine{status, prompt, {text: hint, style: styles.Hint}}
	if m.showFooter {
		lines = append(lines, styledLine{text: footerText, style: styles.Footer})
	}
	return lines
}

func (m *Model) reservedRows() int {
	rows := 4 // header, status, prompt, hint
	if m.showFooter {
		rows++
	}
	return rows
}

// handleMouseMsg scrolls whatever sits under the wheel: the split detail,
// a detail view or the list selection.
func (m *Model) handleMouseMsg(msg tea.Msg) tea.Cmd {
	ev, ok := msg.(tea.MouseMsg)
	if !ok {
		return nil
	}
	delta := 0
	switch ev.Button {
	case tea.MouseButtonWheelUp:
		delta = -1
	case tea.MouseButtonWheelDown:
		delta = 1
	default:
		return nil
	}
	if m.overlay.Modal() != nil {
		return nil
	}
	current := m.currentFrame()
	switch data := current.Level.Data.(type) {
	case *detailFrame:
		if delta < 0 {
			data.viewport.ScrollUp(3)
		} else {
			data.viewport.ScrollDown(3)
		}
		return nil
	case *listFrame:
		if m.hasSidePreview() && ev.X >= m.listColumnWidth() {
			if preview := m.activePreview(); preview != nil && !preview.loading {
				preview.scrollOffset += 3 * delta
				if preview.scrollOffset < 0 {
					preview.scrollOffset = 0
				}
			}
			return nil
		}
		return m.moveSelection(current, delta)
	}
	return nil
}

func (m *Model) header() string {
	frames := m.stack.Frames()
	segments := make([]string, 0, len(frames))
	for _, f := range frames {
		title := strings.TrimSpace(f.Level.Title)
		if title == "" {
			continue
		}
		segments = append(segments, title)
	}
	return strings.Join(segments, headerSeparator)
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	resize, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	widthChanged := false
	if !m.fixedWidth {
		widthChanged = m.width != resize.Width
		m.width = resize.Width
	}
	if !m.fixedHeight {
		m.height = resize.Height
	}
	current := m.currentFrame()
	if current == nil {
		return nil
	}
	m.syncViewport(current.Level)
	if data, ok := current.Level.Data.(*detailFrame); ok {
		m.renderDetail(data)
	}
	if widthChanged {
		m.clearPreview(current.ID())
		return m.ensurePreviewForFrame(current)
	}
	return nil
}

func (m *Model) maxVisibleItems() int {
	if m.height <= 0 {
		return -1
	}
	used := m.reservedRows()
	if current := m.currentLevel(); current != nil {
		if current.Err != "" {
			used++
		}
		if current.Loading {
			used++
		}
		for _, sec := range current.Visible {
			if sec.Title != "" && len(sec.Items) > 0 {
				used++
			}
		}
	}
	remain := m.height - used
	if remain < 1 {
		return 1
	}
	return remain
}

func limitHeight(lines []styledLine, height, width int) []styledLine {
	if height <= 0 || len(lines) <= height {
		return lines
	}
	if height == 1 {
		return []styledLine{{text: truncateText("…", width)}}
	}
	trimmed := make([]styledLine, 0, height)
	trimmed = append(trimmed, lines[:height-1]...)
	trimmed = append(trimmed, styledLine{text: truncateText("…", width)})
	return trimmed
}

func applyWidth(lines []styledLine, width int) []styledLine {
	if width <= 0 {
		return lines
	}
	result := make([]styledLine, len(lines))
	for i, line := range lines {
		text := line.text
		if line.raw {
			if lipgloss.Width(text) > width {
				text = truncate.StringWithTail(text, uint(width-1), "…")
			}
		} else {
			text = truncateText(text, width)
		}
		result[i] = styledLine{
			text:          text,
			style:         line.style,
			prefixStyle:   line.prefixStyle,
			highlightFrom: line.highlightFrom,
			raw:           line.raw,
		}
	}
	return result
}

func renderLines(lines []styledLine) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		text := line.text
		if line.raw {
			out[i] = text
			continue
		}
		runes := []rune(text)
		if line.highlightFrom > 0 && line.highlightFrom < len(runes) {
			head := string(runes[:line.highlightFrom])
			tail := string(runes[line.highlightFrom:])
			if line.prefixStyle != nil {
				head = line.prefixStyle.Render(head)
			}
			if line.style != nil {
				tail = line.style.Render(tail)
			}
			text = head + tail
		} else if line.style != nil {
			text = line.style.Render(text)
		}
		out[i] = text
	}
	return strings.Join(out, "\n")
}

func truncateText(text string, width int) string {
	if width <= 0 || runewidth.StringWidth(text) <= width {
		return text
	}
	if width == 1 {
		return runewidth.Truncate(text, 1, "")
	}
	return runewidth.Truncate(text, width, "…")
}
