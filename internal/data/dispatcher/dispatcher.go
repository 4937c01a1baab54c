package dispatcher

import (
	"github.com/atomicstack/termext/internal/backend"
	"github.com/atomicstack/termext/internal/ext"
	"github.com/atomicstack/termext/internal/logging/events"
	"github.com/atomicstack/termext/internal/ui/state"
)

// Update is a loader result addressed to a frame. Generation zero marks a
// refresh poll, which is not tied to a particular load.
type Update struct {
	FrameID    string
	Generation int
	Sections   []ext.Section
	Err        error
}

type Result struct {
	Applied bool
	Reason  string
	Level   *state.Level
}

// Dispatcher applies loader results to live frames of the navigation stack.
type Dispatcher struct {
	stack *state.Stack
}

func New(stack *state.Stack) *Dispatcher {
	return &Dispatcher{stack: stack}
}

// FromEvent converts a watcher event into an Update.
func FromEvent(evt backend.Event) Update {
	return Update{FrameID: evt.FrameID, Sections: evt.Sections, Err: evt.Err}
}

// Handle applies u when its frame is still on the stack and its generation is
// current; anything else is discarded.
func (d *Dispatcher) Handle(u Update) Result {
	var res Result
	frame := d.stack.Find(u.FrameID)
	if frame == nil || frame.Level == nil {
		res.Reason = "frame-gone"
		events.Load.Discarded(u.FrameID, u.Generation, res.Reason)
		return res
	}
	lvl := frame.Level
	if u.Generation != 0 && u.Generation != lvl.Generation {
		res.Reason = "stale"
		events.Load.Discarded(u.FrameID, u.Generation, res.Reason)
		return res
	}
	if u.Generation != 0 {
		lvl.Loading = false
	}
	res.Applied = true
	res.Level = lvl
	if u.Err != nil {
		lvl.Err = u.Err.Error()
		events.Load.Applied(u.FrameID, u.Generation, len(lvl.Items))
		return res
	}
	lvl.Err = ""
	lvl.UpdateSections(u.Sections)
	events.Load.Applied(u.FrameID, u.Generation, len(lvl.Items))
	return res
}
