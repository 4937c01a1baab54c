package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type pendingTimer struct {
	d  time.Duration
	fn func(time.Time) tea.Msg
}

// Harness drives the UI model programmatically for integration tests.
// Commands run synchronously and timers fire only on FireTimers.
type Harness struct {
	model  *Model
	timers []pendingTimer
	quit   bool
}

// NewHarness creates a harness for the provided model.
func NewHarness(model *Model) *Harness {
	h := &Harness{model: model}
	if model != nil {
		model.blink = false
		model.after = func(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd {
			h.timers = append(h.timers, pendingTimer{d: d, fn: fn})
			return nil
		}
	}
	return h
}

// Init runs the model's Init command.
func (h *Harness) Init() {
	if h.model == nil {
		return
	}
	h.processCmd(h.model.Init())
}

// Send routes a message through the model and executes any returned commands.
func (h *Harness) Send(msg tea.Msg) {
	if h.model == nil {
		return
	}
	mdl, cmd := h.model.Update(msg)
	if updated, ok := mdl.(*Model); ok {
		h.model = updated
	}
	h.processCmd(cmd)
}

func (h *Harness) processCmd(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	msg := cmd()
	switch msg := msg.(type) {
	case nil:
		return
	case tea.BatchMsg:
		for _, c := range msg {
			h.processCmd(c)
		}
		return
	case tea.QuitMsg:
		h.quit = true
		return
	}
	h.Send(msg)
}

// FireTimers delivers every timer scheduled so far. Timers scheduled while
// firing wait for the next call.
func (h *Harness) FireTimers() {
	pending := h.timers
	h.timers = nil
	for _, t := range pending {
		h.Send(t.fn(time.Now()))
	}
}

// PendingTimers reports how many timers are waiting.
func (h *Harness) PendingTimers() int {
	return len(h.timers)
}

// Quit reports whether the model asked the program to exit.
func (h *Harness) Quit() bool {
	return h.quit
}

// View returns the current view string.
func (h *Harness) View() string {
	if h.model == nil {
		return ""
	}
	return h.model.View()
}

// Model exposes the underlying model.
func (h *Harness) Model() *Model {
	return h.model
}
