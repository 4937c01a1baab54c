package ui

import (
	"fmt"
	"time"

	"github.com/atomicstack/termext/internal/ext"
	"github.com/atomicstack/termext/internal/logging"
	"github.com/atomicstack/termext/internal/logging/events"
	"github.com/atomicstack/termext/internal/theme"
	"github.com/atomicstack/termext/internal/ui/command"
	"github.com/atomicstack/termext/internal/ui/overlay"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// themeCycleMsg switches to the next palette.
type themeCycleMsg struct{}

// hudExpiredMsg hides the HUD shown with seq, if it is still visible.
type hudExpiredMsg struct {
	seq int
}

// effectFinishedMsg reports the outcome of a side effect run outside the
// event loop: clipboard writes, openers and suspended programs.
type effectFinishedMsg struct {
	label string
	err   error
}

// contextFor builds the handler context for the focused state of f.
func (m *Model) contextFor(f *frame) *ext.Context {
	var item *ext.Item
	search := ""
	if f != nil && f.Level != nil {
		if selected, ok := f.Level.SelectedItem(); ok {
			copied := *selected
			item = &copied
		}
		search = f.Level.Filter
	}
	ctx := ext.NewContext(f.ID(), f.CommandID, item, search, m.cacheFor(f.CommandID))
	if data, ok := f.Level.Data.(*formFrame); ok {
		ctx.FormValues = data.values()
	}
	return ctx
}

// declaredActions are the actions the focused view offers, without the
// built-ins. The first one is bound to enter.
func (m *Model) declaredActions(f *frame) []ext.Action {
	if f == nil || f.Level == nil {
		return nil
	}
	switch data := f.Level.Data.(type) {
	case *listFrame:
		if item, ok := f.Level.SelectedItem(); ok && len(item.Actions) > 0 {
			return item.Actions
		}
		return data.view.Actions
	case *detailFrame:
		return data.view.Actions
	case *formFrame:
		return m.formActions(f, data)
	}
	return nil
}

// resolveActions is what the action panel lists: declared actions followed
// by the built-ins, which are always present.
func (m *Model) resolveActions(f *frame) []ext.Action {
	return command.Resolve(m.declaredActions(f), m.builtinActions()...)
}

func (m *Model) builtinActions() []ext.Action {
	logPath := m.logPath
	return []ext.Action{
		{
			Title:    "Change Theme",
			Shortcut: ext.Shortcut{Mods: ext.ModAlt, Key: "t"},
			Run: func(ctx *ext.Context) error {
				ctx.Send(themeCycleMsg{})
				return nil
			},
		},
		{
			Title:    "View Logs",
			Shortcut: ext.Shortcut{Mods: ext.ModAlt, Key: "l"},
			Run: func(ctx *ext.Context) error {
				if logPath == "" {
					return fmt.Errorf("logging is not configured")
				}
				ctx.Exec(newPager(logPath))
				return nil
			},
		},
	}
}

// dispatch runs action against the focused state of f.
func (m *Model) dispatch(f *frame, action ext.Action) tea.Cmd {
	if action.Run == nil {
		return nil
	}
	return m.execute(f, f.CommandID, action.Title, action.Run, m.contextFor(f))
}

func (m *Model) execute(f *frame, commandID, title string, handler ext.Handler, ctx *ext.Context) tea.Cmd {
	m.errMsg = ""
	return m.bus.Execute(command.Request{
		ID:      commandID,
		FrameID: f.ID(),
		Title:   title,
		Handler: handler,
		Context: ctx,
	})
}

func (m *Model) handleCommandResultMsg(msg tea.Msg) tea.Cmd {
	res, ok := msg.(command.Result)
	if !ok {
		return nil
	}
	return m.applyResult(res)
}

// applyResult applies the intents of a successful handler. A failed handler
// surfaces a failure toast and its intents are dropped.
func (m *Model) applyResult(res command.Result) tea.Cmd {
	if res.Err != nil {
		events.Action.Error(res.Err)
		logging.Errorf("action failed", res.Err)
		m.overlay.ShowToast(res.FrameID, ext.Toast{
			Style:   ext.ToastFailure,
			Title:   "Action failed",
			Message: res.Err.Error(),
		})
		return nil
	}
	events.Action.Success(res.Title)
	return m.applyIntents(res.FrameID, res.Intents)
}

func (m *Model) applyIntents(frameID string, intents []ext.Intent) tea.Cmd {
	if len(intents) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(intents))
	for _, in := range intents {
		if cmd := m.applyIntent(frameID, in); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return tea.Batch(cmds...)
}

// applyIntent performs one recorded effect. Effects aimed at a frame that
// has been popped in the meantime are dropped.
func (m *Model) applyIntent(frameID string, in ext.Intent) tea.Cmd {
	source := m.stack.Find(frameID)
	switch in.Kind {
	case ext.IntentPush:
		if source == nil {
			logging.Info("dropped push from popped frame", zap.String("frame", frameID))
			return nil
		}
		return m.pushView(source.CommandID, in.Build, in.OnPop)
	case ext.IntentPop:
		if source == nil || source != m.currentFrame() {
			return nil
		}
		return m.pop()
	case ext.IntentPopToRoot:
		if source == nil {
			logging.Info("dropped pop-to-root from popped frame", zap.String("frame", frameID))
			return nil
		}
		return m.popToRoot()
	case ext.IntentToast:
		m.overlay.ShowToast(frameID, in.Toast)
		return nil
	case ext.IntentHUD:
		return m.showHUD(in.Text)
	case ext.IntentAlert:
		if source == nil {
			return nil
		}
		m.overlay.Open(overlay.NewAlertDialog(frameID, in.Alert))
		return nil
	case ext.IntentSearchText:
		if source == nil {
			return nil
		}
		if _, ok := listData(source); !ok {
			return nil
		}
		return m.setSearchText(source, in.Text, -1)
	case ext.IntentRefresh:
		return m.refreshFrame(source)
	case ext.IntentCopy:
		text := in.Text
		return func() tea.Msg {
			return effectFinishedMsg{label: "copy", err: clipboardWrite(text)}
		}
	case ext.IntentOpen:
		target := in.Text
		return func() tea.Msg {
			return effectFinishedMsg{label: "open", err: openTarget(target)}
		}
	case ext.IntentExec:
		if in.Exec == nil {
			return nil
		}
		return tea.Exec(in.Exec, func(err error) tea.Msg {
			return effectFinishedMsg{label: "exec", err: err}
		})
	case ext.IntentCloseWindow:
		m.popToRoot()
		return m.quit()
	case ext.IntentLaunch:
		from := source
		if from == nil {
			from = m.currentFrame()
		}
		return m.launch(from, in.Command)
	case ext.IntentMessage:
		if in.Msg == nil {
			return nil
		}
		msg := in.Msg
		return func() tea.Msg { return msg }
	}
	return nil
}

func (m *Model) showHUD(title string) tea.Cmd {
	seq := m.overlay.ShowHUD(title)
	return m.after(overlay.HUDDuration, func(time.Time) tea.Msg {
		return hudExpiredMsg{seq: seq}
	})
}

func (m *Model) handleHUDExpiredMsg(msg tea.Msg) tea.Cmd {
	expired, ok := msg.(hudExpiredMsg)
	if !ok {
		return nil
	}
	m.overlay.Expire(expired.seq)
	return nil
}

func (m *Model) handleEffectFinishedMsg(msg tea.Msg) tea.Cmd {
	done, ok := msg.(effectFinishedMsg)
	if !ok || done.err == nil {
		return nil
	}
	logging.Errorf(done.label+" failed", done.err)
	m.overlay.ShowToast(m.topID(), ext.Toast{
		Style:   ext.ToastFailure,
		Title:   "Could not " + done.label,
		Message: done.err.Error(),
	})
	return nil
}

func (m *Model) handleThemeCycleMsg(msg tea.Msg) tea.Cmd {
	if _, ok := msg.(themeCycleMsg); !ok {
		return nil
	}
	next, err := theme.Set(theme.Next(styles.Name))
	if err != nil {
		logging.Error(err)
		return nil
	}
	styles = next
	events.App.Theme(next.Name)
	if m.saveTheme != nil {
		if err := m.saveTheme(next.Name); err != nil {
			logging.Errorf("save theme", err)
		}
	}
	for _, f := range m.stack.Frames() {
		if data, ok := f.Level.Data.(*detailFrame); ok {
			data.rendered = ""
			m.renderDetail(data)
		}
	}
	for id := range m.preview {
		delete(m.preview, id)
	}
	return tea.Batch(m.showHUD("Theme: "+next.Name), m.ensurePreviewForFrame(m.currentFrame()))
}

func (m *Model) runToastPrimary(notice *overlay.Notice) tea.Cmd {
	primary := *notice.Toast.Primary
	m.overlay.DismissToast("primary")
	f := m.stack.Find(notice.FrameID)
	if f == nil {
		f = m.currentFrame()
	}
	return m.dispatch(f, primary)
}

func (m *Model) openActionPanel() tea.Cmd {
	current := m.currentFrame()
	if current == nil {
		return nil
	}
	if modal := m.overlay.Modal(); modal != nil && modal.Kind() == overlay.ModalActionPanel {
		m.overlay.Close("toggle")
		return nil
	}
	var item *ext.Item
	if selected, ok := current.Level.SelectedItem(); ok {
		item = selected
	}
	m.overlay.Open(overlay.NewActionPanel(current.ID(), item, m.resolveActions(current)))
	return nil
}

// refreshFrame reloads list content or re-renders a detail pane.
func (m *Model) refreshFrame(f *frame) tea.Cmd {
	if f == nil {
		return nil
	}
	switch data := f.Level.Data.(type) {
	case *listFrame:
		if data.view.Load == nil {
			return nil
		}
		return m.loadFrame(f)
	case *detailFrame:
		data.rendered = ""
		m.renderDetail(data)
	}
	return nil
}

// hintState is the primary action title shown for the focused item.
type hintState struct {
	frameID string
	itemID  string
	title   string
}

// syncHint recomputes the primary action hint. Items without actions clear
// it so a previous item's title never lingers.
func (m *Model) syncHint() {
	current := m.currentFrame()
	next := hintState{}
	if current != nil {
		next.frameID = current.ID()
		next.itemID = current.Level.Selected
		if action, ok := command.Primary(m.declaredActions(current)); ok {
			next.title = action.Title
		}
	}
	if next != m.hint {
		m.hint = next
		events.Action.Hint(next.frameID, next.itemID, next.title)
	}
}

// ActionHint returns the title of the action enter would run.
func (m *Model) ActionHint() string {
	return m.hint.title
}
