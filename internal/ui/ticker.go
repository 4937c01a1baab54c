package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// ticker is the single animation clock shared by every loading frame. It
// runs while at least one subscriber holds it.
type ticker struct {
	subs    map[string]struct{}
	running bool
	gen     int
}

type tickMsg struct {
	gen int
}

func newTicker() *ticker {
	return &ticker{subs: make(map[string]struct{})}
}

// acquire registers id. It reports whether the clock has to be started and
// the generation the first tick must carry.
func (t *ticker) acquire(id string) (bool, int) {
	t.subs[id] = struct{}{}
	if t.running {
		return false, t.gen
	}
	t.running = true
	t.gen++
	return true, t.gen
}

func (t *ticker) release(id string) {
	delete(t.subs, id)
	if len(t.subs) == 0 {
		t.running = false
	}
}

func (t *ticker) holds(id string) bool {
	_, ok := t.subs[id]
	return ok
}

// current reports whether a tick of generation gen should keep the clock
// going. Ticks from a stopped or restarted clock are dropped.
func (t *ticker) current(gen int) bool {
	return t.running && gen == t.gen
}

func (m *Model) acquireTicker(id string) tea.Cmd {
	start, gen := m.ticker.acquire(id)
	if !start {
		return nil
	}
	return m.scheduleTick(gen)
}

func (m *Model) releaseTicker(id string) {
	m.ticker.release(id)
}

func (m *Model) scheduleTick(gen int) tea.Cmd {
	fps := m.spinner.Spinner.FPS
	if fps <= 0 {
		fps = time.Second / 10
	}
	return m.after(fps, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

func (m *Model) handleTickMsg(msg tea.Msg) tea.Cmd {
	tick, ok := msg.(tickMsg)
	if !ok {
		return nil
	}
	if !m.ticker.current(tick.gen) {
		return nil
	}
	m.spinner, _ = m.spinner.Update(m.spinner.Tick())
	return m.scheduleTick(tick.gen)
}
