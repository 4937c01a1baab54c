package state

import (
	"github.com/atomicstack/termext/internal/ext"
	"github.com/atomicstack/termext/internal/logging/events"
)

// Reconcile returns the selection for a new visible set: empty when nothing
// is visible, previous when it is still visible, otherwise the first item.
func Reconcile(visible []ext.Item, previous string) string {
	if len(visible) == 0 {
		return ""
	}
	if previous != "" {
		for _, item := range visible {
			if item.ID == previous {
				return previous
			}
		}
	}
	return visible[0].ID
}

func (l *Level) reconcile() {
	prev := l.Selected
	l.Selected = Reconcile(l.Items, prev)
	l.Cursor = l.IndexOf(l.Selected)
	if prev != l.Selected {
		events.Selection.Reconciled(l.ID, prev, l.Selected, len(l.Items))
	}
}

// Select focuses the item with the given ID if it is visible.
func (l *Level) Select(id string) bool {
	idx := l.IndexOf(id)
	if idx < 0 {
		return false
	}
	return l.setCursor(idx)
}

// MoveSelection moves focus by delta visible positions, clamping at both ends.
func (l *Level) MoveSelection(delta int) bool {
	return l.moveCursorBy(delta)
}

func (l *Level) setCursor(idx int) bool {
	if len(l.Items) == 0 {
		l.Cursor = -1
		l.Selected = ""
		return false
	}
	if idx < 0 {
		idx = 0
	}
	if idx >= len(l.Items) {
		idx = len(l.Items) - 1
	}
	old := l.Cursor
	l.Cursor = idx
	l.Selected = l.Items[idx].ID
	return old != idx
}
