package ext

import (
	"github.com/atomicstack/termext/internal/cache"
	tea "github.com/charmbracelet/bubbletea"
)

// IntentKind enumerates the effects a handler can request.
type IntentKind int

const (
	IntentPush IntentKind = iota
	IntentPop
	IntentPopToRoot
	IntentToast
	IntentHUD
	IntentAlert
	IntentSearchText
	IntentRefresh
	IntentCopy
	IntentOpen
	IntentExec
	IntentCloseWindow
	IntentLaunch
	IntentMessage
)

// Intent is a recorded effect, applied by the program on its event loop once
// the handler returns.
type Intent struct {
	Kind    IntentKind
	Build   ViewFunc
	OnPop   func()
	Toast   Toast
	Alert   Alert
	Text    string
	Exec    tea.ExecCommand
	Command Command
	Msg     tea.Msg
}

// Context is handed to every handler. Handlers may run off the event loop, so
// Context never exposes program state directly; it records intents instead.
type Context struct {
	FrameID    string
	CommandID  string
	Item       *Item
	SearchText string
	// FormValues holds submitted values for Form views.
	FormValues map[string]string

	store   cache.Store
	intents []Intent
}

// NewContext builds a Context for a handler invocation.
func NewContext(frameID, commandID string, item *Item, search string, store cache.Store) *Context {
	return &Context{
		FrameID:    frameID,
		CommandID:  commandID,
		Item:       item,
		SearchText: search,
		store:      store,
	}
}

// Cache returns the key-value store scoped to the running command.
func (c *Context) Cache() cache.Store {
	if c.store == nil {
		c.store = cache.NewMemory()
	}
	return c.store
}

// Push navigates to view. onPop, when set, runs after the frame is popped.
func (c *Context) Push(view View, onPop func()) {
	c.PushFunc(Static(view), onPop)
}

// PushFunc navigates to the view produced by build. Errors and panics from
// build render as an inline error view.
func (c *Context) PushFunc(build ViewFunc, onPop func()) {
	c.add(Intent{Kind: IntentPush, Build: build, OnPop: onPop})
}

func (c *Context) Pop() {
	c.add(Intent{Kind: IntentPop})
}

func (c *Context) PopToRoot() {
	c.add(Intent{Kind: IntentPopToRoot})
}

// CloseMainWindow pops to root and exits the program.
func (c *Context) CloseMainWindow() {
	c.add(Intent{Kind: IntentCloseWindow})
}

// ShowToast replaces any visible toast or HUD.
func (c *Context) ShowToast(t Toast) {
	c.add(Intent{Kind: IntentToast, Toast: t})
}

// ShowHUD shows a short-lived message that hides itself.
func (c *Context) ShowHUD(title string) {
	c.add(Intent{Kind: IntentHUD, Text: title})
}

// ConfirmAlert opens a confirmation dialog.
func (c *Context) ConfirmAlert(a Alert) {
	c.add(Intent{Kind: IntentAlert, Alert: a})
}

// SetSearchText replaces the search text of the handler's frame.
func (c *Context) SetSearchText(text string) {
	c.SearchText = text
	c.add(Intent{Kind: IntentSearchText, Text: text})
}

// Refresh reloads the handler's frame.
func (c *Context) Refresh() {
	c.add(Intent{Kind: IntentRefresh})
}

func (c *Context) Copy(text string) {
	c.add(Intent{Kind: IntentCopy, Text: text})
}

func (c *Context) Open(target string) {
	c.add(Intent{Kind: IntentOpen, Text: target})
}

// Exec suspends the program and hands the terminal to cmd.
func (c *Context) Exec(cmd tea.ExecCommand) {
	c.add(Intent{Kind: IntentExec, Exec: cmd})
}

// Launch opens a registered command: its view is pushed, or its Run handler
// invoked with a Context scoped to that command.
func (c *Context) Launch(cmd Command) {
	c.add(Intent{Kind: IntentLaunch, Command: cmd})
}

// Send delivers msg to the program's event loop.
func (c *Context) Send(msg tea.Msg) {
	c.add(Intent{Kind: IntentMessage, Msg: msg})
}

// Intents returns the recorded intents in call order.
func (c *Context) Intents() []Intent {
	return c.intents
}

func (c *Context) add(in Intent) {
	c.intents = append(c.intents, in)
}
