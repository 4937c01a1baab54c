package ui

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/atomicstack/termext/internal/backend"
	"github.com/atomicstack/termext/internal/cache"
	"github.com/atomicstack/termext/internal/data/dispatcher"
	"github.com/atomicstack/termext/internal/ext"
	"github.com/atomicstack/termext/internal/logging"
	"github.com/atomicstack/termext/internal/logging/events"
	"github.com/atomicstack/termext/internal/theme"
	"github.com/atomicstack/termext/internal/ui/command"
	"github.com/atomicstack/termext/internal/ui/overlay"
	uistate "github.com/atomicstack/termext/internal/ui/state"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

type level = uistate.Level

type frame = uistate.Frame

const (
	headerSeparator = " → "
	rootCommandID   = "root"
	rootTitle       = "Commands"
)

var styles = theme.Current()

type msgHandler func(tea.Msg) tea.Cmd

// afterFunc schedules fn to produce a message after d. Tests replace it to
// fire timers on demand.
type afterFunc func(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd

// Options configures a Model.
type Options struct {
	Registry *ext.Registry
	// Store backs ext.Context.Cache; each command sees its own namespace.
	Store       cache.Store
	Watcher     *backend.Watcher
	Width       int
	Height      int
	ShowFooter  bool
	Verbose     bool
	RootCommand string
	LogPath     string
	// SaveTheme persists the theme picked with the Change Theme action.
	SaveTheme func(name string) error
}

// Model implements the Bubble Tea model hosting extension views.
type Model struct {
	stack      *uistate.Stack
	overlay    *overlay.Coordinator
	registry   *ext.Registry
	bus        *command.Bus
	dispatcher *dispatcher.Dispatcher
	backend    *backend.Watcher
	store      cache.Store
	keys       keyMap
	ticker     *ticker
	spinner    spinner.Model

	ctx    context.Context
	cancel context.CancelFunc

	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool
	showFooter  bool
	verbose     bool
	logPath     string
	saveTheme   func(string) error
	errMsg      string
	startup     tea.Cmd

	filterCursor      cursor.Model
	filterCursorDirty bool
	blink             bool
	after             afterFunc

	hint       hintState
	preview    map[string]*previewData
	previewSeq int

	handlers map[reflect.Type]msgHandler
}

// NewModel initialises the UI with the command catalog as its root frame,
// or with opts.RootCommand when it names a registered command.
func NewModel(opts Options) *Model {
	styles = theme.Current()
	registry := opts.Registry
	if registry == nil {
		registry = ext.NewRegistry()
	}
	store := opts.Store
	if store == nil {
		store = cache.NewMemory()
	}
	ctx, cancel := context.WithCancel(context.Background())
	m := &Model{
		overlay:    overlay.New(),
		registry:   registry,
		bus:        command.New(),
		backend:    opts.Watcher,
		store:      store,
		keys:       defaultKeyMap(),
		ticker:     newTicker(),
		ctx:        ctx,
		cancel:     cancel,
		showFooter: opts.ShowFooter,
		verbose:    opts.Verbose,
		logPath:    opts.LogPath,
		saveTheme:  opts.SaveTheme,
		blink:      true,
		after:      tea.Tick,
		preview:    make(map[string]*previewData),
	}
	if m.logPath == "" {
		m.logPath = logging.Path()
	}
	if opts.Width > 0 {
		m.width = opts.Width
		m.fixedWidth = true
	}
	if opts.Height > 0 {
		m.height = opts.Height
		m.fixedHeight = true
	}
	m.spinner = spinner.New(spinner.WithSpinner(spinner.MiniDot))
	c := cursor.New()
	if styles.Cursor != nil {
		c.Style = styles.Cursor.Copy()
	}
	if styles.Filter != nil {
		c.TextStyle = styles.Filter.Copy()
	}
	c.SetChar(" ")
	m.filterCursor = c
	m.stack = uistate.NewStack(m.catalogFrame())
	m.dispatcher = dispatcher.New(m.stack)
	m.applyRootCommand(opts.RootCommand)
	m.registerHandlers()
	return m
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{}
	if m.backend != nil {
		cmds = append(cmds, waitForBackendEvent(m.backend))
	}
	if m.blink {
		if cmd := m.filterCursor.Focus(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	if cmd := m.initFrame(m.stack.Top()); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if m.startup != nil {
		cmds = append(cmds, m.startup)
		m.startup = nil
	}
	m.syncHint()
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// Update responds to Bubble Tea messages. A panic while handling a message is
// logged and surfaced as a failure toast; the program keeps running.
func (m *Model) Update(msg tea.Msg) (mdl tea.Model, cmd tea.Cmd) {
	defer func() {
		if r := recover(); r != nil {
			events.App.Recovered(fmt.Sprintf("%T", msg), r)
			logging.Error(fmt.Errorf("recovered panic handling %T: %v", msg, r))
			m.overlay.ShowToast(m.topID(), ext.Toast{
				Style:   ext.ToastFailure,
				Title:   "Unexpected error",
				Message: fmt.Sprint(r),
			})
			mdl, cmd = m, nil
		}
	}()

	cmds := make([]tea.Cmd, 0, 4)
	if cmd := m.updateFilterCursorModel(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if handler := m.handlerFor(msg); handler != nil {
		if cmd := handler(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, m.finishUpdate(cmds)
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(tea.MouseMsg{}):      m.handleMouseMsg,
		reflect.TypeOf(command.Result{}):    m.handleCommandResultMsg,
		reflect.TypeOf(loadedMsg{}):         m.handleLoadedMsg,
		reflect.TypeOf(backendEventMsg{}):   m.handleBackendEventMsg,
		reflect.TypeOf(backendDoneMsg{}):    m.handleBackendDoneMsg,
		reflect.TypeOf(previewLoadedMsg{}):  m.handlePreviewLoadedMsg,
		reflect.TypeOf(hudExpiredMsg{}):     m.handleHUDExpiredMsg,
		reflect.TypeOf(tickMsg{}):           m.handleTickMsg,
		reflect.TypeOf(themeCycleMsg{}):     m.handleThemeCycleMsg,
		reflect.TypeOf(effectFinishedMsg{}): m.handleEffectFinishedMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

func (m *Model) finishUpdate(cmds []tea.Cmd) tea.Cmd {
	m.syncHint()
	if m.filterCursorDirty {
		m.filterCursorDirty = false
		m.filterCursor.Blink = false
		if m.blink {
			if cmd := m.filterCursor.BlinkCmd(); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// Close releases pollers and cancels in-flight loads.
func (m *Model) Close() {
	m.cancel()
	if m.backend != nil {
		m.backend.Stop()
	}
}

func (m *Model) currentFrame() *frame {
	return m.stack.Top()
}

func (m *Model) currentLevel() *level {
	if f := m.stack.Top(); f != nil {
		return f.Level
	}
	return nil
}

func (m *Model) topID() string {
	return m.stack.Top().ID()
}

// Stack exposes the navigation stack for inspection.
func (m *Model) Stack() *uistate.Stack {
	return m.stack
}

// Overlay exposes the overlay coordinator for inspection.
func (m *Model) Overlay() *overlay.Coordinator {
	return m.overlay
}

func (m *Model) cacheFor(commandID string) cache.Store {
	commandID = strings.TrimSpace(commandID)
	if commandID == "" {
		return m.store
	}
	return cache.Namespace(m.store, commandID)
}
