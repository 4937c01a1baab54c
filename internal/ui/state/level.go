package state

import (
	"github.com/atomicstack/termext/internal/ext"
)

// Level is the retained local state of one navigation frame: search text,
// selection, viewport and the visible set derived from them.
type Level struct {
	ID                string
	Title             string
	Sections          []ext.Section
	Visible           []ext.Section
	Items             []ext.Item
	Filter            string
	FilterCursor      int
	Controlled        bool
	FilteringDisabled bool
	// Selected is the focused item ID; empty only when Items is empty.
	Selected       string
	Cursor         int
	ViewportOffset int
	Loading        bool
	Err            string
	Generation     int
	Data           interface{}
}

// NewLevel constructs a Level over the provided sections.
func NewLevel(id, title string, sections []ext.Section) *Level {
	l := &Level{
		ID:     id,
		Title:  title,
		Cursor: -1,
	}
	l.UpdateSections(sections)
	return l
}

// IndexOf returns the visible index for a given item identifier.
func (l *Level) IndexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, item := range l.Items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// SelectedItem returns the focused item.
func (l *Level) SelectedItem() (*ext.Item, bool) {
	if l.Cursor < 0 || l.Cursor >= len(l.Items) {
		return nil, false
	}
	return &l.Items[l.Cursor], true
}

// UpdateSections replaces the full item set, typically after a load, and
// reconciles selection in the same call.
func (l *Level) UpdateSections(sections []ext.Section) {
	prevOffset := l.ViewportOffset
	l.Sections = ext.NormalizeSections(sections)
	l.applyFilter()
	if len(l.Items) == 0 {
		l.ViewportOffset = 0
		return
	}
	if prevOffset < 0 {
		prevOffset = 0
	}
	if prevOffset > len(l.Items)-1 {
		l.ViewportOffset = 0
		return
	}
	l.ViewportOffset = prevOffset
}

// SetFilteringDisabled toggles the pass-through mode of the filter stage.
func (l *Level) SetFilteringDisabled(disabled bool) {
	if l.FilteringDisabled == disabled {
		return
	}
	l.FilteringDisabled = disabled
	l.applyFilter()
}

// SectionTitleAt reports the section heading to draw before visible index
// idx, if idx starts a titled section.
func (l *Level) SectionTitleAt(idx int) (string, bool) {
	pos := 0
	for _, sec := range l.Visible {
		if pos == idx {
			return sec.Title, sec.Title != ""
		}
		pos += len(sec.Items)
		if pos > idx {
			return "", false
		}
	}
	return "", false
}
