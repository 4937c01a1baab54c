package command

import (
	"fmt"

	"github.com/atomicstack/termext/internal/ext"
	"github.com/atomicstack/termext/internal/logging/events"
	tea "github.com/charmbracelet/bubbletea"
)

// Request encapsulates an action invocation.
type Request struct {
	ID      string
	FrameID string
	Title   string
	Handler ext.Handler
	Context *ext.Context
}

// Result is delivered to the program once a handler returns. Intents are
// applied in order; Err is reported as a failure toast.
type Result struct {
	ID      string
	FrameID string
	Title   string
	Intents []ext.Intent
	Err     error
}

// Bus coordinates the execution of action handlers.
type Bus struct{}

// New initialises a command bus instance.
func New() *Bus {
	return &Bus{}
}

// Execute wraps a handler into a Bubble Tea command while emitting trace logs.
func (b *Bus) Execute(req Request) tea.Cmd {
	events.Command.Queue(req.ID, req.Title)
	return func() tea.Msg {
		return b.Run(req)
	}
}

// Run invokes the handler on the calling goroutine. A panicking handler is
// reported as an error result; intents recorded before the panic are kept.
func (b *Bus) Run(req Request) (res Result) {
	res = Result{ID: req.ID, FrameID: req.FrameID, Title: req.Title}
	if req.Handler == nil {
		events.Command.Skip(req.ID, req.Title)
		return res
	}
	ctx := req.Context
	if ctx == nil {
		ctx = ext.NewContext(req.FrameID, req.ID, nil, "", nil)
	}
	defer func() {
		if r := recover(); r != nil {
			events.Command.Panic(req.ID, req.Title, r)
			res.Intents = ctx.Intents()
			res.Err = fmt.Errorf("%s: %v", req.Title, r)
		}
		events.Command.Result(req.ID, req.Title, len(res.Intents), res.Err)
	}()
	res.Err = req.Handler(ctx)
	res.Intents = ctx.Intents()
	return res
}

// Resolve returns the action list of a focused item: its declared actions
// followed by the built-ins. The first entry is the primary action.
func Resolve(declared []ext.Action, builtins ...ext.Action) []ext.Action {
	out := make([]ext.Action, 0, len(declared)+len(builtins))
	out = append(out, declared...)
	return append(out, builtins...)
}

// Primary returns the action bound to enter.
func Primary(actions []ext.Action) (ext.Action, bool) {
	if len(actions) == 0 {
		return ext.Action{}, false
	}
	return actions[0], true
}

// Match returns the first action whose shortcut matches key. Declaration
// order breaks ties.
func Match(actions []ext.Action, key string) (ext.Action, bool) {
	for _, a := range actions {
		if a.Shortcut.IsZero() {
			continue
		}
		if a.Shortcut.Matches(key) {
			return a, true
		}
	}
	return ext.Action{}, false
}
