package state

import (
	"strings"
	"unicode"

	"github.com/atomicstack/termext/internal/ext"
	"golang.org/x/text/cases"
)

// SetFilter updates the filter query and cursor position, recomputes the
// visible set and reconciles selection before returning.
func (l *Level) SetFilter(query string, cursor int) {
	l.Filter = query
	runes := []rune(l.Filter)
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(runes) {
		cursor = len(runes)
	}
	l.FilterCursor = cursor
	l.applyFilter()
}

func (l *Level) applyFilter() {
	if l.FilteringDisabled {
		l.Visible = cloneSections(l.Sections)
	} else {
		l.Visible = FilterSections(l.Sections, l.Filter)
	}
	l.Items = ext.Items(l.Visible)
	l.reconcile()
	if len(l.Items) == 0 {
		l.ViewportOffset = 0
		return
	}
	if l.ViewportOffset > len(l.Items)-1 {
		l.ViewportOffset = 0
	}
}

// FilterSections returns the sections whose items match query, dropping
// sections left empty. Section and item order are preserved. A blank query
// returns a copy of the input.
func FilterSections(sections []ext.Section, query string) []ext.Section {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return cloneSections(sections)
	}
	fold := cases.Fold()
	needle := fold.String(trimmed)
	out := make([]ext.Section, 0, len(sections))
	for _, sec := range sections {
		var kept []ext.Item
		for _, item := range sec.Items {
			if itemMatches(fold, item, needle) {
				kept = append(kept, item)
			}
		}
		if len(kept) == 0 {
			continue
		}
		out = append(out, ext.Section{Title: sec.Title, Items: kept})
	}
	return out
}

// ItemMatches reports whether query is a case-insensitive substring of the
// item's title, subtitle or any keyword.
func ItemMatches(item ext.Item, query string) bool {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return true
	}
	fold := cases.Fold()
	return itemMatches(fold, item, fold.String(trimmed))
}

func itemMatches(fold cases.Caser, item ext.Item, needle string) bool {
	if contains(fold, item.Title, needle) || contains(fold, item.Subtitle, needle) {
		return true
	}
	for _, kw := range item.Keywords {
		if contains(fold, kw, needle) {
			return true
		}
	}
	return false
}

func contains(fold cases.Caser, field, needle string) bool {
	if field == "" {
		return false
	}
	return strings.Contains(fold.String(field), needle)
}

// FilterCursorPos returns the rune offset of the filter cursor.
func (l *Level) FilterCursorPos() int {
	runes := []rune(l.Filter)
	if l.FilterCursor < 0 {
		return 0
	}
	if l.FilterCursor > len(runes) {
		return len(runes)
	}
	return l.FilterCursor
}

// FilterEdit transforms filter text at a cursor position. ok is false when
// the edit does not apply.
type FilterEdit func(text []rune, pos int) (out []rune, cursor int, ok bool)

// InsertEdit inserts s at the cursor.
func InsertEdit(s string) FilterEdit {
	return func(runes []rune, pos int) ([]rune, int, bool) {
		insert := []rune(s)
		if len(insert) == 0 {
			return nil, 0, false
		}
		updated := make([]rune, 0, len(runes)+len(insert))
		updated = append(updated, runes[:pos]...)
		updated = append(updated, insert...)
		updated = append(updated, runes[pos:]...)
		return updated, pos + len(insert), true
	}
}

// DeleteRuneBackwardEdit removes the rune before the cursor.
func DeleteRuneBackwardEdit(runes []rune, pos int) ([]rune, int, bool) {
	if pos == 0 || len(runes) == 0 {
		return nil, 0, false
	}
	updated := append(append([]rune{}, runes[:pos-1]...), runes[pos:]...)
	return updated, pos - 1, true
}

// DeleteWordBackwardEdit removes the word preceding the cursor.
func DeleteWordBackwardEdit(runes []rune, pos int) ([]rune, int, bool) {
	if pos == 0 || len(runes) == 0 {
		return nil, 0, false
	}
	i := pos
	for i > 0 && unicode.IsSpace(runes[i-1]) {
		i--
	}
	for i > 0 && !unicode.IsSpace(runes[i-1]) {
		i--
	}
	updated := append(append([]rune{}, runes[:i]...), runes[pos:]...)
	return updated, i, true
}

// ClearEdit empties the filter.
func ClearEdit(runes []rune, _ int) ([]rune, int, bool) {
	if len(runes) == 0 {
		return nil, 0, false
	}
	return []rune{}, 0, true
}

// ProposeFilter evaluates edit against the current filter without applying it.
func (l *Level) ProposeFilter(edit FilterEdit) (string, int, bool) {
	out, cursor, ok := edit([]rune(l.Filter), l.FilterCursorPos())
	if !ok {
		return "", 0, false
	}
	return string(out), cursor, true
}

// ApplyFilterEdit evaluates edit and applies the result through SetFilter.
func (l *Level) ApplyFilterEdit(edit FilterEdit) bool {
	text, cursor, ok := l.ProposeFilter(edit)
	if !ok {
		return false
	}
	l.SetFilter(text, cursor)
	return true
}

// InsertFilterText inserts text into the filter at the cursor position.
func (l *Level) InsertFilterText(text string) bool {
	return l.ApplyFilterEdit(InsertEdit(text))
}

// DeleteFilterRuneBackward deletes a rune before the filter cursor.
func (l *Level) DeleteFilterRuneBackward() bool {
	return l.ApplyFilterEdit(DeleteRuneBackwardEdit)
}

// DeleteFilterWordBackward deletes the word preceding the cursor.
func (l *Level) DeleteFilterWordBackward() bool {
	return l.ApplyFilterEdit(DeleteWordBackwardEdit)
}

// MoveFilterCursorStart moves the filter cursor to the start.
func (l *Level) MoveFilterCursorStart() bool {
	if l.FilterCursorPos() == 0 {
		return false
	}
	l.FilterCursor = 0
	return true
}

// MoveFilterCursorEnd moves the filter cursor to the end.
func (l *Level) MoveFilterCursorEnd() bool {
	end := len([]rune(l.Filter))
	if l.FilterCursorPos() == end {
		return false
	}
	l.FilterCursor = end
	return true
}

// MoveFilterCursorWordBackward moves the filter cursor one word backward.
func (l *Level) MoveFilterCursorWordBackward() bool {
	runes := []rune(l.Filter)
	pos := l.FilterCursorPos()
	if pos == 0 || len(runes) == 0 {
		return false
	}
	i := pos
	for i > 0 && unicode.IsSpace(runes[i-1]) {
		i--
	}
	for i > 0 && !unicode.IsSpace(runes[i-1]) {
		i--
	}
	if i == pos {
		return false
	}
	l.FilterCursor = i
	return true
}

// MoveFilterCursorWordForward moves the filter cursor one word forward.
func (l *Level) MoveFilterCursorWordForward() bool {
	runes := []rune(l.Filter)
	pos := l.FilterCursorPos()
	if pos >= len(runes) {
		return false
	}
	i := pos
	for i < len(runes) && !unicode.IsSpace(runes[i]) {
		i++
	}
	for i < len(runes) && unicode.IsSpace(runes[i]) {
		i++
	}
	if i == pos {
		return false
	}
	l.FilterCursor = i
	return true
}

// MoveFilterCursorRuneBackward moves the filter cursor one rune backward.
func (l *Level) MoveFilterCursorRuneBackward() bool {
	if l.FilterCursorPos() == 0 {
		return false
	}
	l.FilterCursor = l.FilterCursorPos() - 1
	return true
}

// MoveFilterCursorRuneForward moves the filter cursor one rune forward.
func (l *Level) MoveFilterCursorRuneForward() bool {
	runes := []rune(l.Filter)
	pos := l.FilterCursorPos()
	if pos >= len(runes) {
		return false
	}
	l.FilterCursor = pos + 1
	return true
}

func cloneSections(sections []ext.Section) []ext.Section {
	out := make([]ext.Section, 0, len(sections))
	for _, sec := range sections {
		items := make([]ext.Item, len(sec.Items))
		copy(items, sec.Items)
		out = append(out, ext.Section{Title: sec.Title, Items: items})
	}
	return out
}
