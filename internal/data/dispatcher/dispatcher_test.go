package dispatcher

import (
	"errors"
	"testing"

	"github.com/atomicstack/termext/internal/backend"
	"github.com/atomicstack/termext/internal/ext"
	"github.com/atomicstack/termext/internal/ui/state"
)

func newStack() (*state.Stack, *state.Level) {
	root := state.NewLevel("root", "Root", nil)
	s := state.NewStack(&state.Frame{Level: root})
	child := state.NewLevel("list#1", "List", nil)
	s.Push(&state.Frame{Level: child})
	return s, child
}

func TestHandleAppliesCurrentGeneration(t *testing.T) {
	s, lvl := newStack()
	lvl.Generation = 2
	lvl.Loading = true
	res := New(s).Handle(Update{FrameID: "list#1", Generation: 2, Sections: ext.Flat(ext.Item{ID: "a"}, ext.Item{ID: "b"})})
	if !res.Applied || lvl.Loading || len(lvl.Items) != 2 || lvl.Selected != "a" {
		t.Fatalf("expected load applied, got %#v selected %q", res, lvl.Selected)
	}
}

func TestHandleDiscardsStaleGeneration(t *testing.T) {
	s, lvl := newStack()
	lvl.Generation = 3
	lvl.Loading = true
	res := New(s).Handle(Update{FrameID: "list#1", Generation: 2, Sections: ext.Flat(ext.Item{ID: "old"})})
	if res.Applied || res.Reason != "stale" {
		t.Fatalf("expected stale discard, got %#v", res)
	}
	if !lvl.Loading || len(lvl.Items) != 0 {
		t.Fatalf("stale result must not touch the level")
	}
}

func TestHandleDiscardsPoppedFrame(t *testing.T) {
	s, _ := newStack()
	s.Pop()
	res := New(s).Handle(Update{FrameID: "list#1", Generation: 1})
	if res.Applied || res.Reason != "frame-gone" {
		t.Fatalf("expected frame-gone discard, got %#v", res)
	}
}

func TestHandleRecordsErrorsAndKeepsItems(t *testing.T) {
	s, lvl := newStack()
	lvl.UpdateSections(ext.Flat(ext.Item{ID: "keep"}))
	res := New(s).Handle(FromEvent(backend.Event{FrameID: "list#1", Err: errors.New("timeout")}))
	if !res.Applied || lvl.Err != "timeout" || len(lvl.Items) != 1 {
		t.Fatalf("expected error recorded with items kept, got %#v / %q", res, lvl.Err)
	}
	New(s).Handle(FromEvent(backend.Event{FrameID: "list#1", Sections: ext.Flat(ext.Item{ID: "fresh"})}))
	if lvl.Err != "" || lvl.Selected != "fresh" {
		t.Fatalf("expected poll to clear error and reconcile, got %q / %q", lvl.Err, lvl.Selected)
	}
}
