package command

import (
	"errors"
	"testing"

	"github.com/atomicstack/termext/internal/ext"
)

func TestResolveAppendsBuiltins(t *testing.T) {
	declared := []ext.Action{{Title: "Open"}, {Title: "Copy"}}
	got := Resolve(declared, ext.Action{Title: "Change Theme"}, ext.Action{Title: "View Logs"})
	want := []string{"Open", "Copy", "Change Theme", "View Logs"}
	if len(got) != len(want) {
		t.Fatalf("expected %d actions, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].Title != want[i] {
			t.Fatalf("position %d: expected %q, got %q", i, want[i], got[i].Title)
		}
	}
	if p, ok := Primary(got); !ok || p.Title != "Open" {
		t.Fatalf("expected Open as primary, got %q", p.Title)
	}
	if _, ok := Primary(nil); ok {
		t.Fatalf("expected no primary for empty list")
	}
}

func TestMatchShortcutScenario(t *testing.T) {
	var ran []string
	actions := []ext.Action{
		{Title: "Open", Run: func(*ext.Context) error { ran = append(ran, "open"); return nil }},
		{Title: "Delete", Shortcut: ext.MustShortcut("ctrl+d"), Run: func(*ext.Context) error { ran = append(ran, "delete"); return nil }},
	}
	a, ok := Match(actions, "ctrl+d")
	if !ok || a.Title != "Delete" {
		t.Fatalf("expected Delete for ctrl+d, got %q/%v", a.Title, ok)
	}
	New().Run(Request{ID: "t", Title: a.Title, Handler: a.Run})
	if len(ran) != 1 || ran[0] != "delete" {
		t.Fatalf("expected only delete to run, got %v", ran)
	}
	if _, ok := Match(actions, "d"); ok {
		t.Fatalf("plain d must not match ctrl+d")
	}
}

func TestMatchPrefersDeclarationOrder(t *testing.T) {
	actions := []ext.Action{
		{Title: "First", Shortcut: ext.MustShortcut("ctrl+e")},
		{Title: "Second", Shortcut: ext.MustShortcut("ctrl+e")},
	}
	if a, _ := Match(actions, "ctrl+e"); a.Title != "First" {
		t.Fatalf("expected First to win, got %q", a.Title)
	}
}

func TestRunCollectsIntentsAndErrors(t *testing.T) {
	bus := New()
	ctx := ext.NewContext("frame#1", "demo/cmd", nil, "", nil)
	wantErr := errors.New("boom")
	res := bus.Run(Request{ID: "demo/cmd", FrameID: "frame#1", Title: "Save", Context: ctx, Handler: func(c *ext.Context) error {
		c.ShowHUD("Saved")
		return wantErr
	}})
	if !errors.Is(res.Err, wantErr) {
		t.Fatalf("expected handler error, got %v", res.Err)
	}
	if len(res.Intents) != 1 || res.Intents[0].Kind != ext.IntentHUD || res.FrameID != "frame#1" {
		t.Fatalf("unexpected result %#v", res)
	}
}

func TestRunRecoversPanics(t *testing.T) {
	res := New().Run(Request{ID: "x", Title: "Explode", Handler: func(c *ext.Context) error {
		c.Pop()
		panic("kaboom")
	}})
	if res.Err == nil {
		t.Fatalf("expected panic reported as error")
	}
	if len(res.Intents) != 1 {
		t.Fatalf("expected intents recorded before the panic, got %d", len(res.Intents))
	}
}

func TestExecuteSkipsNilHandler(t *testing.T) {
	cmd := New().Execute(Request{ID: "x", Title: "Nothing"})
	msg := cmd()
	res, ok := msg.(Result)
	if !ok || res.Err != nil || len(res.Intents) != 0 {
		t.Fatalf("expected empty result, got %#v", msg)
	}
}
