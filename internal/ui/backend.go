package ui

import (
	"context"
	"fmt"

	"github.com/atomicstack/termext/internal/backend"
	"github.com/atomicstack/termext/internal/data/dispatcher"
	"github.com/atomicstack/termext/internal/ext"
	"github.com/atomicstack/termext/internal/logging"
	"github.com/atomicstack/termext/internal/logging/events"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// loadedMsg mirrors the async loader response.
type loadedMsg struct {
	frameID    string
	generation int
	sections   []ext.Section
	err        error
}

func waitForBackendEvent(w *backend.Watcher) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-w.Events()
		if !ok {
			return backendDoneMsg{}
		}
		return backendEventMsg{event: evt}
	}
}

type backendEventMsg struct {
	event backend.Event
}

type backendDoneMsg struct{}

// loadFrame starts a new load generation for a list frame. Results of older
// generations still in flight are discarded when they arrive.
func (m *Model) loadFrame(f *frame) tea.Cmd {
	data, ok := listData(f)
	if !ok || data.view.Load == nil {
		return nil
	}
	lvl := f.Level
	lvl.Generation++
	lvl.Loading = true
	id, gen, query := lvl.ID, lvl.Generation, lvl.Filter
	load := data.view.Load
	ctx := m.ctx
	events.Load.Start(id, gen)
	fetch := func() tea.Msg {
		sections, err := runLoad(ctx, load, query)
		return loadedMsg{frameID: id, generation: gen, sections: sections, err: err}
	}
	return tea.Batch(fetch, m.acquireTicker(id))
}

func runLoad(ctx context.Context, load ext.LoadFunc, query string) (sections []ext.Section, err error) {
	defer func() {
		if r := recover(); r != nil {
			sections = nil
			err = fmt.Errorf("loader panicked: %v", r)
		}
	}()
	return load(ctx, query)
}

// watchFrame (re)registers the refresh poller of a list frame. The poller
// captures the search text at registration time.
func (m *Model) watchFrame(f *frame, data *listFrame) {
	if m.backend == nil || data.view.Load == nil || data.view.RefreshInterval <= 0 {
		return
	}
	load := data.view.Load
	query := f.Level.Filter
	m.backend.Watch(f.ID(), data.view.RefreshInterval, func(ctx context.Context) ([]ext.Section, error) {
		return runLoad(ctx, load, query)
	})
}

func (m *Model) handleLoadedMsg(msg tea.Msg) tea.Cmd {
	loaded, ok := msg.(loadedMsg)
	if !ok {
		return nil
	}
	res := m.dispatcher.Handle(dispatcher.Update{
		FrameID:    loaded.frameID,
		Generation: loaded.generation,
		Sections:   loaded.sections,
		Err:        loaded.err,
	})
	if !res.Applied {
		if res.Reason == "frame-gone" {
			m.releaseTicker(loaded.frameID)
		}
		return nil
	}
	if loaded.err != nil {
		logging.Errorf("load failed", loaded.err, zap.String("frame", loaded.frameID))
	}
	if !res.Level.Loading {
		m.releaseTicker(loaded.frameID)
	}
	return m.afterLevelUpdate(res.Level)
}

func (m *Model) handleBackendEventMsg(msg tea.Msg) tea.Cmd {
	eventMsg, ok := msg.(backendEventMsg)
	if !ok {
		return nil
	}
	var cmd tea.Cmd
	res := m.dispatcher.Handle(dispatcher.FromEvent(eventMsg.event))
	if res.Applied {
		cmd = m.afterLevelUpdate(res.Level)
	}
	if m.backend != nil {
		waitCmd := waitForBackendEvent(m.backend)
		if cmd != nil {
			return tea.Batch(cmd, waitCmd)
		}
		return waitCmd
	}
	return cmd
}

func (m *Model) handleBackendDoneMsg(msg tea.Msg) tea.Cmd {
	m.backend = nil
	return nil
}

// afterLevelUpdate keeps the viewport and split detail of the focused frame
// in step with freshly applied content.
func (m *Model) afterLevelUpdate(lvl *level) tea.Cmd {
	current := m.currentFrame()
	if current == nil || current.Level != lvl {
		return nil
	}
	m.syncViewport(lvl)
	return m.ensurePreviewForFrame(current)
}
