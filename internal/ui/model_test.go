package ui

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/atomicstack/termext/internal/ext"
	"github.com/atomicstack/termext/internal/theme"
	"github.com/atomicstack/termext/internal/ui/command"
	"github.com/atomicstack/termext/internal/ui/overlay"
	tea "github.com/charmbracelet/bubbletea"
)

var (
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyCtrlK = tea.KeyMsg{Type: tea.KeyCtrlK}
	keyCtrlP = tea.KeyMsg{Type: tea.KeyCtrlP}
	keyCtrlR = tea.KeyMsg{Type: tea.KeyCtrlR}
)

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func fruits() []ext.Item {
	names := []string{"Apple", "Banana", "Cherry", "Grape", "Lettuce", "Mango"}
	items := make([]ext.Item, len(names))
	for i, name := range names {
		items[i] = ext.Item{ID: strings.ToLower(name), Title: name}
	}
	return items
}

func singleView(view ext.ViewFunc) ext.Extension {
	return ext.Extension{Name: "test", Commands: []ext.Command{{Name: "view", Title: "Fruits", View: view}}}
}

func newTestHarness(t *testing.T, root string, exts ...ext.Extension) *Harness {
	t.Helper()
	reg := ext.NewRegistry()
	for _, e := range exts {
		if err := reg.Register(e); err != nil {
			t.Fatalf("register %s: %v", e.Name, err)
		}
	}
	h := NewHarness(NewModel(Options{Registry: reg, Width: 100, Height: 30, RootCommand: root}))
	h.Init()
	return h
}

func listHarness(t *testing.T, list *ext.List) *Harness {
	t.Helper()
	return newTestHarness(t, "test/view", singleView(ext.Static(list)))
}

func TestFilterKeepsSelectionOnVisibleMatch(t *testing.T) {
	h := listHarness(t, &ext.List{Title: "Fruits", Sections: ext.Flat(fruits()...)})
	for i := 0; i < 3; i++ {
		h.Send(keyDown)
	}
	lvl := h.Model().currentLevel()
	if lvl.Selected != "grape" {
		t.Fatalf("expected grape selected, got %q", lvl.Selected)
	}
	h.Send(keyRunes("let"))
	if len(lvl.Items) != 1 || lvl.Selected != "lettuce" || lvl.Cursor != 0 {
		t.Fatalf("expected lettuce after filtering, got %q (cursor %d, %d visible)", lvl.Selected, lvl.Cursor, len(lvl.Items))
	}
}

func TestControlledSearchResetsSelection(t *testing.T) {
	var proposals []string
	list := &ext.List{
		Title:      "Fruits",
		Sections:   ext.Flat(fruits()...),
		Controlled: true,
		OnSearchTextChange: func(ctx *ext.Context, text string) {
			proposals = append(proposals, text)
			ctx.SetSearchText(text)
		},
	}
	h := listHarness(t, list)
	for i := 0; i < 3; i++ {
		h.Send(keyDown)
	}
	h.Send(keyRunes("l"))
	lvl := h.Model().currentLevel()
	if lvl.Filter != "l" || lvl.FilterCursorPos() != 1 {
		t.Fatalf("expected controlled text applied, got %q at %d", lvl.Filter, lvl.FilterCursorPos())
	}
	if lvl.Selected != "apple" {
		t.Fatalf("expected selection reset to first visible item, got %q", lvl.Selected)
	}
	if len(proposals) != 1 || proposals[0] != "l" {
		t.Fatalf("unexpected proposals %v", proposals)
	}
}

func TestControlledSearchIgnoresUnacceptedText(t *testing.T) {
	var proposals []string
	list := &ext.List{
		Title:      "Fruits",
		Sections:   ext.Flat(fruits()...),
		Controlled: true,
		OnSearchTextChange: func(ctx *ext.Context, text string) {
			proposals = append(proposals, text)
		},
	}
	h := listHarness(t, list)
	h.Send(keyRunes("x"))
	lvl := h.Model().currentLevel()
	if lvl.Filter != "" || len(lvl.Items) != 6 {
		t.Fatalf("expected search text unchanged, got %q with %d items", lvl.Filter, len(lvl.Items))
	}
	if len(proposals) != 1 || proposals[0] != "x" {
		t.Fatalf("unexpected proposals %v", proposals)
	}
}

func TestUncontrolledSearchNotifiesExtension(t *testing.T) {
	var seen []string
	list := &ext.List{
		Title:              "Fruits",
		Sections:           ext.Flat(fruits()...),
		OnSearchTextChange: func(ctx *ext.Context, text string) { seen = append(seen, text) },
	}
	h := listHarness(t, list)
	h.Send(keyRunes("an"))
	h.Send(tea.KeyMsg{Type: tea.KeyBackspace})
	if strings.Join(seen, ",") != "an,a" {
		t.Fatalf("unexpected notifications %v", seen)
	}
}

func TestHintClearsForItemWithoutActions(t *testing.T) {
	items := []ext.Item{
		{ID: "one", Title: "One", Actions: []ext.Action{{Title: "Open One", Run: func(*ext.Context) error { return nil }}}},
		{ID: "two", Title: "Two"},
	}
	h := listHarness(t, &ext.List{Title: "Things", Sections: ext.Flat(items...)})
	m := h.Model()
	if m.ActionHint() != "Open One" {
		t.Fatalf("expected primary hint, got %q", m.ActionHint())
	}
	h.Send(keyDown)
	if m.ActionHint() != "" {
		t.Fatalf("expected stale hint cleared, got %q", m.ActionHint())
	}
	resolved := m.resolveActions(m.currentFrame())
	if len(resolved) == 0 || resolved[0].Title != "Change Theme" {
		t.Fatalf("expected built-in actions for an item without actions, got %#v", resolved)
	}
	h.Send(keyCtrlK)
	panel, ok := m.Overlay().Modal().(*overlay.ActionPanel)
	if !ok || len(panel.Visible()) != len(resolved) {
		t.Fatalf("expected action panel listing built-ins, got %#v", m.Overlay().Modal())
	}
}

func TestToastPrimaryAndEscape(t *testing.T) {
	undone := 0
	undo := &ext.Action{Title: "Undo", Run: func(ctx *ext.Context) error {
		undone++
		ctx.ShowToast(ext.Toast{Title: "Undone"})
		return nil
	}}
	del := ext.Action{Title: "Delete", Run: func(ctx *ext.Context) error {
		ctx.ShowToast(ext.Toast{Title: "Deleted", Primary: undo})
		return nil
	}}
	items := []ext.Item{{ID: "a", Title: "A", Actions: []ext.Action{del}}}
	h := listHarness(t, &ext.List{Title: "Things", Sections: ext.Flat(items...)})
	m := h.Model()

	h.Send(keyEnter)
	if n := m.Overlay().Notice(); n == nil || n.Toast.Title != "Deleted" {
		t.Fatalf("expected Deleted toast, got %#v", n)
	}
	h.Send(keyEnter)
	if undone != 1 {
		t.Fatalf("expected primary action to run once, ran %d", undone)
	}
	if n := m.Overlay().Notice(); n == nil || n.Toast.Title != "Undone" {
		t.Fatalf("expected Undone toast, got %#v", n)
	}

	h.Send(keyEnter)
	h.Send(keyEsc)
	if n := m.Overlay().Notice(); n != nil {
		t.Fatalf("expected toast dismissed, got %#v", n)
	}
	if undone != 1 {
		t.Fatalf("escape must not invoke the primary action")
	}
	if m.Stack().Depth() != 1 {
		t.Fatalf("escape on a toast must not pop")
	}
}

func TestPopToRootRunsOnPopTopDown(t *testing.T) {
	var order []string
	third := &ext.List{Title: "Third", Sections: ext.Flat(ext.Item{ID: "home", Title: "Home", Actions: []ext.Action{{
		Title: "Home",
		Run: func(ctx *ext.Context) error {
			ctx.PopToRoot()
			return nil
		},
	}}})}
	second := &ext.List{Title: "Second", Sections: ext.Flat(ext.Item{ID: "next", Title: "Next", Actions: []ext.Action{{
		Title: "Next",
		Run: func(ctx *ext.Context) error {
			ctx.Push(third, func() { order = append(order, "third") })
			return nil
		},
	}}})}
	first := &ext.List{Title: "First", Sections: ext.Flat(ext.Item{ID: "go", Title: "Go", Actions: []ext.Action{{
		Title: "Go",
		Run: func(ctx *ext.Context) error {
			ctx.Push(second, func() { order = append(order, "second") })
			return nil
		},
	}}})}
	h := listHarness(t, first)
	m := h.Model()
	h.Send(keyEnter)
	h.Send(keyEnter)
	if m.Stack().Depth() != 3 {
		t.Fatalf("expected depth 3, got %d", m.Stack().Depth())
	}
	if got := m.header(); got != "First → Second → Third" {
		t.Fatalf("unexpected header %q", got)
	}
	h.Send(keyEnter)
	if m.Stack().Depth() != 1 {
		t.Fatalf("expected depth 1, got %d", m.Stack().Depth())
	}
	if strings.Join(order, ",") != "third,second" {
		t.Fatalf("unexpected onPop order %v", order)
	}
}

func TestSecondModalReplacesActionPanel(t *testing.T) {
	h := listHarness(t, &ext.List{Title: "Fruits", Sections: ext.Flat(fruits()...)})
	m := h.Model()
	h.Send(keyCtrlK)
	if _, ok := m.Overlay().Modal().(*overlay.ActionPanel); !ok {
		t.Fatalf("expected action panel open")
	}
	h.Send(command.Result{
		FrameID: m.topID(),
		Title:   "confirm",
		Intents: []ext.Intent{{Kind: ext.IntentAlert, Alert: ext.Alert{Title: "Sure?"}}},
	})
	dlg, ok := m.Overlay().Modal().(*overlay.AlertDialog)
	if !ok || dlg.Alert.Title != "Sure?" {
		t.Fatalf("expected only the alert to remain, got %#v", m.Overlay().Modal())
	}
}

func TestLatePopToRootFromPoppedFrameIsDropped(t *testing.T) {
	detail := &ext.Detail{Title: "Info", Markdown: "x"}
	items := []ext.Item{{ID: "show", Title: "Show", Actions: []ext.Action{ext.PushAction("Show", ext.Static(detail))}}}
	h := listHarness(t, &ext.List{Title: "Root", Sections: ext.Flat(items...)})
	m := h.Model()
	h.Send(keyEnter)
	gone := m.topID()
	h.Send(keyEsc)
	h.Send(keyEnter)
	if m.Stack().Depth() != 2 || m.topID() == gone {
		t.Fatalf("expected a fresh detail frame on top")
	}
	h.Send(command.Result{
		FrameID: gone,
		Title:   "home",
		Intents: []ext.Intent{{Kind: ext.IntentPopToRoot}},
	})
	if m.Stack().Depth() != 2 {
		t.Fatalf("late pop-to-root from %s collapsed the stack to %d", gone, m.Stack().Depth())
	}
}

func TestSearchPersistsAcrossPushAndPop(t *testing.T) {
	detail := &ext.Detail{Title: "Info", Markdown: "# Banana"}
	items := fruits()
	for i := range items {
		items[i].Actions = []ext.Action{ext.PushAction("Show", ext.Static(detail))}
	}
	h := listHarness(t, &ext.List{Title: "Fruits", Sections: ext.Flat(items...)})
	m := h.Model()
	h.Send(keyRunes("an"))
	h.Send(keyDown)
	lvl := m.currentLevel()
	selected := lvl.Selected
	h.Send(keyEnter)
	if m.Stack().Depth() != 2 {
		t.Fatalf("expected detail pushed")
	}
	if got := m.header(); got != "Fruits → Info" {
		t.Fatalf("unexpected header %q", got)
	}
	h.Send(keyEsc)
	if m.Stack().Depth() != 1 {
		t.Fatalf("expected detail popped")
	}
	if lvl.Filter != "an" || lvl.Selected != selected {
		t.Fatalf("expected search %q and selection %q restored, got %q / %q", "an", selected, lvl.Filter, lvl.Selected)
	}
}

func TestEscapeClearsSearchBeforeLeaving(t *testing.T) {
	h := listHarness(t, &ext.List{Title: "Fruits", Sections: ext.Flat(fruits()...)})
	h.Send(keyRunes("ap"))
	h.Send(keyEsc)
	lvl := h.Model().currentLevel()
	if lvl.Filter != "" || len(lvl.Items) != 6 {
		t.Fatalf("expected search cleared, got %q", lvl.Filter)
	}
	if h.Quit() {
		t.Fatalf("first escape must only clear the search")
	}
	h.Send(keyEsc)
	if !h.Quit() {
		t.Fatalf("escape at the root with no search should quit")
	}
}

func TestEscapeLeavesControlledListThatKeepsText(t *testing.T) {
	cases := map[string]func(*ext.Context, string){
		"no handler": nil,
		"rejects":    func(*ext.Context, string) {},
	}
	for name, onChange := range cases {
		t.Run(name, func(t *testing.T) {
			child := &ext.List{Title: "Remote", Controlled: true, SearchText: "ap", OnSearchTextChange: onChange, Sections: ext.Flat(fruits()...)}
			items := []ext.Item{{ID: "open", Title: "Open", Actions: []ext.Action{ext.PushAction("Open", ext.Static(child))}}}
			h := listHarness(t, &ext.List{Title: "Root", Sections: ext.Flat(items...)})
			m := h.Model()
			h.Send(keyEnter)
			if m.Stack().Depth() != 2 || m.currentLevel().Filter != "ap" {
				t.Fatalf("expected controlled list pushed with text, depth %d", m.Stack().Depth())
			}
			h.Send(keyEsc)
			if m.Stack().Depth() != 1 || h.Quit() {
				t.Fatalf("expected escape to pop, depth %d quit %v", m.Stack().Depth(), h.Quit())
			}
		})
	}
}

func TestEscapeClearsAcceptedControlledText(t *testing.T) {
	child := &ext.List{Title: "Remote", Controlled: true, SearchText: "ap", Sections: ext.Flat(fruits()...)}
	child.OnSearchTextChange = func(ctx *ext.Context, text string) { ctx.SetSearchText(text) }
	items := []ext.Item{{ID: "open", Title: "Open", Actions: []ext.Action{ext.PushAction("Open", ext.Static(child))}}}
	h := listHarness(t, &ext.List{Title: "Root", Sections: ext.Flat(items...)})
	m := h.Model()
	h.Send(keyEnter)
	h.Send(keyEsc)
	if m.Stack().Depth() != 2 || m.currentLevel().Filter != "" {
		t.Fatalf("expected text cleared in place, depth %d filter %q", m.Stack().Depth(), m.currentLevel().Filter)
	}
	h.Send(keyEsc)
	if m.Stack().Depth() != 1 {
		t.Fatalf("expected second escape to pop")
	}
}

func TestStaleLoadIsDiscarded(t *testing.T) {
	loads := 0
	list := &ext.List{Title: "Remote", Load: func(ctx context.Context, query string) ([]ext.Section, error) {
		loads++
		return ext.Flat(ext.Item{ID: fmt.Sprintf("r%d", loads), Title: "Result"}), nil
	}}
	h := listHarness(t, list)
	m := h.Model()
	lvl := m.currentLevel()
	if lvl.Generation != 1 || lvl.Selected != "r1" || lvl.Loading {
		t.Fatalf("expected first load applied, got gen %d selected %q loading %v", lvl.Generation, lvl.Selected, lvl.Loading)
	}
	h.Send(keyCtrlR)
	if lvl.Generation != 2 || lvl.Selected != "r2" {
		t.Fatalf("expected refresh applied, got gen %d selected %q", lvl.Generation, lvl.Selected)
	}
	h.Send(loadedMsg{frameID: lvl.ID, generation: 1, sections: ext.Flat(ext.Item{ID: "old"})})
	if lvl.Selected != "r2" || len(lvl.Items) != 1 {
		t.Fatalf("stale load must be discarded, got %q", lvl.Selected)
	}
	if m.ticker.holds(lvl.ID) {
		t.Fatalf("expected spinner released after loading")
	}
}

func TestLoadErrorKeepsItems(t *testing.T) {
	fail := false
	list := &ext.List{Title: "Remote", Load: func(ctx context.Context, query string) ([]ext.Section, error) {
		if fail {
			return nil, errors.New("offline")
		}
		return ext.Flat(ext.Item{ID: "a", Title: "A"}), nil
	}}
	h := listHarness(t, list)
	fail = true
	h.Send(keyCtrlR)
	lvl := h.Model().currentLevel()
	if lvl.Err != "offline" || len(lvl.Items) != 1 {
		t.Fatalf("expected error with items kept, got %q / %d", lvl.Err, len(lvl.Items))
	}
	if !strings.Contains(h.View(), "offline") {
		t.Fatalf("expected error in view")
	}
}

func TestViewPanicRendersErrorFrame(t *testing.T) {
	h := newTestHarness(t, "", ext.Extension{Name: "broken", Commands: []ext.Command{{
		Name: "boom",
		View: func(*ext.Context) (ext.View, error) { panic("boom") },
	}}})
	m := h.Model()
	h.Send(keyEnter)
	if m.Stack().Depth() != 2 {
		t.Fatalf("expected error frame pushed, depth %d", m.Stack().Depth())
	}
	if _, ok := m.currentLevel().Data.(*errorFrame); !ok {
		t.Fatalf("expected error frame, got %T", m.currentLevel().Data)
	}
	if view := h.View(); !strings.Contains(view, "boom") {
		t.Fatalf("expected panic value in view:\n%s", view)
	}
	h.Send(keyEsc)
	if m.Stack().Depth() != 1 {
		t.Fatalf("expected error frame to pop")
	}
}

func TestFailingActionDropsIntents(t *testing.T) {
	items := []ext.Item{{ID: "a", Title: "A", Actions: []ext.Action{{
		Title: "Break",
		Run: func(ctx *ext.Context) error {
			ctx.Push(&ext.Detail{Title: "never"}, nil)
			return errors.New("nope")
		},
	}}}}
	h := listHarness(t, &ext.List{Title: "Things", Sections: ext.Flat(items...)})
	m := h.Model()
	h.Send(keyEnter)
	if m.Stack().Depth() != 1 {
		t.Fatalf("intents of a failed action must be dropped")
	}
	n := m.Overlay().Notice()
	if n == nil || n.Toast.Style != ext.ToastFailure || n.Toast.Message != "nope" {
		t.Fatalf("expected failure toast, got %#v", n)
	}
}

func TestCopyShowsHUDUntilTimerFires(t *testing.T) {
	var copied string
	orig := clipboardWrite
	clipboardWrite = func(text string) error {
		copied = text
		return nil
	}
	defer func() { clipboardWrite = orig }()

	items := []ext.Item{{ID: "a", Title: "A", Actions: []ext.Action{ext.CopyAction("Copy", "hello")}}}
	h := listHarness(t, &ext.List{Title: "Things", Sections: ext.Flat(items...)})
	m := h.Model()
	h.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c"), Alt: true})
	if copied != "hello" {
		t.Fatalf("expected clipboard write, got %q", copied)
	}
	n := m.Overlay().Notice()
	if n == nil || n.Kind != overlay.KindHUD {
		t.Fatalf("expected HUD, got %#v", n)
	}
	if _, ok := m.Overlay().DismissibleToast(); ok {
		t.Fatalf("a HUD must not be dismissible")
	}
	h.FireTimers()
	if m.Overlay().Notice() != nil {
		t.Fatalf("expected HUD to expire")
	}
}

func TestFormValidatesAndSubmits(t *testing.T) {
	var submitted map[string]string
	form := &ext.Form{
		Title: "New Note",
		Fields: []ext.Field{
			{ID: "name", Title: "Name", Required: true},
			{ID: "pin", Title: "Pinned", Kind: ext.FieldCheckbox},
		},
		OnSubmit: func(ctx *ext.Context) error {
			submitted = ctx.FormValues
			ctx.ShowHUD("Saved")
			return nil
		},
	}
	h := newTestHarness(t, "test/view", singleView(ext.Static(form)))
	m := h.Model()
	if m.ActionHint() != "Submit" {
		t.Fatalf("expected submit hint, got %q", m.ActionHint())
	}
	h.Send(keyEnter)
	if n := m.Overlay().Notice(); n == nil || n.Toast.Message != "Name is required" {
		t.Fatalf("expected validation failure, got %#v", n)
	}
	h.Send(keyRunes("groceries"))
	h.Send(tea.KeyMsg{Type: tea.KeyTab})
	h.Send(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})
	h.Send(keyEnter)
	if submitted["name"] != "groceries" || submitted["pin"] != "true" {
		t.Fatalf("unexpected submitted values %v", submitted)
	}
}

func TestDropdownChangeNotifiesExtension(t *testing.T) {
	var changed string
	list := &ext.List{
		Title:    "Fruits",
		Sections: ext.Flat(fruits()...),
		Dropdown: &ext.Dropdown{
			Tooltip:  "Season",
			Options:  []ext.DropdownOption{{Title: "All", Value: "all"}, {Title: "Summer", Value: "summer"}},
			Value:    "all",
			OnChange: func(ctx *ext.Context, value string) { changed = value },
		},
	}
	h := listHarness(t, list)
	m := h.Model()
	h.Send(keyCtrlP)
	if _, ok := m.Overlay().Modal().(*overlay.DropdownPicker); !ok {
		t.Fatalf("expected dropdown picker")
	}
	h.Send(keyDown)
	h.Send(keyEnter)
	if changed != "summer" || list.Dropdown.Value != "summer" {
		t.Fatalf("expected summer selected, got %q / %q", changed, list.Dropdown.Value)
	}
	if m.Overlay().Modal() != nil {
		t.Fatalf("expected picker closed")
	}
}

func TestChangeThemeFromActionPanel(t *testing.T) {
	defer func() {
		theme.Set("default")
		styles = theme.Current()
	}()
	var saved string
	reg := ext.NewRegistry()
	if err := reg.Register(singleView(ext.Static(&ext.List{Title: "Fruits", Sections: ext.Flat(fruits()...)}))); err != nil {
		t.Fatal(err)
	}
	h := NewHarness(NewModel(Options{
		Registry:    reg,
		Width:       100,
		Height:      30,
		RootCommand: "test/view",
		SaveTheme:   func(name string) error { saved = name; return nil },
	}))
	h.Init()
	h.Send(keyCtrlK)
	h.Send(keyRunes("theme"))
	h.Send(keyEnter)
	if styles.Name != "dracula" || saved != "dracula" {
		t.Fatalf("expected dracula theme saved, got %q / %q", styles.Name, saved)
	}
	if n := h.Model().Overlay().Notice(); n == nil || n.Toast.Title != "Theme: dracula" {
		t.Fatalf("expected theme HUD, got %#v", n)
	}
}

func TestCatalogLaunchesCommands(t *testing.T) {
	h := newTestHarness(t, "", singleView(ext.Static(&ext.List{Title: "Fruits", Sections: ext.Flat(fruits()...)})))
	m := h.Model()
	root := m.currentLevel()
	if root.ID != rootCommandID || root.Selected != "test/view" {
		t.Fatalf("expected catalog root with the command selected, got %q / %q", root.ID, root.Selected)
	}
	h.Send(keyEnter)
	if got := m.header(); got != "Commands → Fruits" {
		t.Fatalf("unexpected header %q", got)
	}
}

func TestUnknownRootCommandReportsError(t *testing.T) {
	h := newTestHarness(t, "nope/missing")
	if !strings.Contains(h.View(), `Unknown command "nope/missing"`) {
		t.Fatalf("expected unknown command error in view")
	}
}

type panicMsg struct{}

func TestRecoveredPanicShowsToast(t *testing.T) {
	h := listHarness(t, &ext.List{Title: "Fruits", Sections: ext.Flat(fruits()...)})
	m := h.Model()
	m.handlers[reflect.TypeOf(panicMsg{})] = func(tea.Msg) tea.Cmd { panic("kaboom") }
	h.Send(panicMsg{})
	if n := m.Overlay().Notice(); n == nil || n.Toast.Title != "Unexpected error" {
		t.Fatalf("expected failure toast, got %#v", n)
	}
}
