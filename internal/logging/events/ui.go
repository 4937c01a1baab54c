package events

import "github.com/atomicstack/termext/internal/logging"

type NavTracer struct{}

type FilterTracer struct{}

type SelectionTracer struct{}

type ActionTracer struct{}

type CommandTracer struct{}

var (
	Nav       = NavTracer{}
	Filter    = FilterTracer{}
	Selection = SelectionTracer{}
	Action    = ActionTracer{}
	Command   = CommandTracer{}
)

func (NavTracer) Push(frameID, title string, depth int) {
	logging.Trace("nav.push", map[string]interface{}{"frame": frameID, "title": title, "depth": depth})
}

func (NavTracer) Pop(frameID string, depth int) {
	logging.Trace("nav.pop", map[string]interface{}{"frame": frameID, "depth": depth})
}

func (NavTracer) PopToRoot(popped []string) {
	logging.Trace("nav.pop-to-root", map[string]interface{}{"frames": popped})
}

func (NavTracer) Cursor(frameID string, cursor int, selected string) {
	logging.Trace("nav.cursor", map[string]interface{}{"frame": frameID, "cursor": cursor, "selected": selected})
}

func (NavTracer) ViewError(commandID string, err error) {
	if err == nil {
		return
	}
	logging.Trace("nav.view-error", map[string]interface{}{"command": commandID, "error": err.Error()})
}

func (SelectionTracer) Reconciled(frameID, previous, next string, visible int) {
	logging.Trace("selection.reconcile", map[string]interface{}{
		"frame":    frameID,
		"previous": previous,
		"next":     next,
		"visible":  visible,
	})
}

func (ActionTracer) Error(err error) {
	if err == nil {
		return
	}
	logging.Trace("action.error", map[string]interface{}{"error": err.Error()})
}

func (ActionTracer) Success(info string) {
	logging.Trace("action.success", map[string]interface{}{"info": info})
}

func (ActionTracer) Shortcut(frameID, key, title string) {
	logging.Trace("action.shortcut", map[string]interface{}{"frame": frameID, "key": key, "title": title})
}

func (ActionTracer) Hint(frameID, itemID, title string) {
	logging.Trace("action.hint", map[string]interface{}{"frame": frameID, "item": itemID, "title": title})
}

func (FilterTracer) Cleared(frameID string) {
	logging.Trace("filter.clear", map[string]interface{}{"frame": frameID})
}

func (FilterTracer) WordBackspace(frameID, filter string) {
	logging.Trace("filter.word-backspace", map[string]interface{}{"frame": frameID, "filter": filter})
}

func (FilterTracer) Cursor(frameID string, pos int) {
	logging.Trace("filter.cursor", map[string]interface{}{"frame": frameID, "cursor": pos})
}

func (FilterTracer) CursorWord(frameID string, pos int) {
	logging.Trace("filter.cursor-word", map[string]interface{}{"frame": frameID, "cursor": pos})
}

func (FilterTracer) Append(frameID, filter string) {
	logging.Trace("filter.append", map[string]interface{}{"frame": frameID, "filter": filter})
}

func (FilterTracer) Backspace(frameID, filter string) {
	logging.Trace("filter.backspace", map[string]interface{}{"frame": frameID, "filter": filter})
}

func (FilterTracer) Controlled(frameID, filter string) {
	logging.Trace("filter.controlled", map[string]interface{}{"frame": frameID, "filter": filter})
}

func (CommandTracer) Queue(id, label string) {
	logging.Trace("command.queue", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) Skip(id, label string) {
	logging.Trace("command.skip", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) Panic(id, label string, recovered interface{}) {
	logging.Trace("command.panic", map[string]interface{}{"id": id, "label": label, "recovered": recovered})
}

func (CommandTracer) Result(id, label string, intents int, err error) {
	payload := map[string]interface{}{"id": id, "label": label, "intents": intents}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("command.result", payload)
}
