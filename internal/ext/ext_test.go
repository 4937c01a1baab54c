package ext

import (
	"errors"
	"testing"
	"time"
)

func TestParseShortcut(t *testing.T) {
	cases := []struct {
		in   string
		want Shortcut
	}{
		{"ctrl+k", Shortcut{Mods: ModCtrl, Key: "k"}},
		{"cmd+shift+d", Shortcut{Mods: ModCtrl | ModShift, Key: "d"}},
		{"D", Shortcut{Mods: ModShift, Key: "d"}},
		{"alt+enter", Shortcut{Mods: ModAlt, Key: "enter"}},
		{"ctrl++", Shortcut{Mods: ModCtrl, Key: "+"}},
		{"+", Shortcut{Key: "+"}},
	}
	for _, tc := range cases {
		got, err := ParseShortcut(tc.in)
		if err != nil {
			t.Fatalf("%q: unexpected error %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("%q: expected %#v, got %#v", tc.in, tc.want, got)
		}
	}
	for _, bad := range []string{"", "hyper+k", "ctrl+"} {
		if _, err := ParseShortcut(bad); !errors.Is(err, ErrInvalidShortcut) {
			t.Fatalf("%q: expected ErrInvalidShortcut, got %v", bad, err)
		}
	}
}

func TestShortcutMatchesExactModifierSet(t *testing.T) {
	sc := MustShortcut("ctrl+d")
	if !sc.Matches("ctrl+d") {
		t.Fatalf("expected ctrl+d to match")
	}
	if sc.Matches("d") || sc.Matches("alt+ctrl+d") || sc.Matches("ctrl+e") {
		t.Fatalf("expected only exact modifier set to match")
	}
	if (Shortcut{}).Matches("ctrl+d") {
		t.Fatalf("zero shortcut must never match")
	}
	if got := MustShortcut("shift+alt+x").String(); got != "alt+shift+x" {
		t.Fatalf("unexpected canonical form %q", got)
	}
}

func TestNormalizeSectionsAssignsStableIDs(t *testing.T) {
	in := []Section{
		{Title: "A", Items: []Item{{Title: "Apple"}, {Title: "Apple"}, {ID: "x", Title: "X"}}},
		{Title: "B", Items: []Item{{Title: ""}, {ID: "x"}}},
	}
	out := NormalizeSections(in)
	got := []string{}
	for _, it := range Items(out) {
		got = append(got, it.ID)
	}
	want := []string{"Apple", "Apple#1", "x", "item", "x#1"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
	if in[0].Items[0].ID != "" {
		t.Fatalf("input must not be mutated")
	}
	again := NormalizeSections(in)
	if Items(again)[1].ID != "Apple#1" {
		t.Fatalf("expected deterministic IDs across calls")
	}
}

func TestAccessoryLabel(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	if got := Date(now.Add(-3 * time.Hour)).Label(now); got != "3 hours ago" {
		t.Fatalf("unexpected date label %q", got)
	}
	if got := Tag("new", "green").Label(now); got != "[new]" {
		t.Fatalf("unexpected tag label %q", got)
	}
	if got := Text("5 items").Label(now); got != "5 items" {
		t.Fatalf("unexpected text label %q", got)
	}
	if got := (Accessory{Kind: AccessoryDate}).Label(now); got != "" {
		t.Fatalf("zero date should render empty, got %q", got)
	}
}

func TestRegistryRegisterAndFind(t *testing.T) {
	r := NewRegistry()
	err := r.Register(Extension{Name: "fruits", Commands: []Command{{Name: "browse"}, {Name: "stats"}}})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := r.Register(Extension{Name: "todo", Commands: []Command{{Name: "browse"}}}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := r.Register(Extension{Name: "fruits"}); err == nil {
		t.Fatalf("expected duplicate extension error")
	}
	c, ok := r.Find("fruits/browse")
	if !ok || c.ID() != "fruits/browse" || c.Title != "browse" {
		t.Fatalf("unexpected lookup result %#v %v", c, ok)
	}
	if _, ok := r.Find("browse"); ok {
		t.Fatalf("ambiguous bare name must not resolve")
	}
	if c, ok := r.Find("stats"); !ok || c.ID() != "fruits/stats" {
		t.Fatalf("expected unambiguous bare name to resolve")
	}
}

func TestContextRecordsIntentsInOrder(t *testing.T) {
	ctx := NewContext("f#1", "fruits/browse", nil, "", nil)
	ctx.ShowHUD("hi")
	ctx.SetSearchText("apple")
	ctx.Pop()
	kinds := []IntentKind{}
	for _, in := range ctx.Intents() {
		kinds = append(kinds, in.Kind)
	}
	if len(kinds) != 3 || kinds[0] != IntentHUD || kinds[1] != IntentSearchText || kinds[2] != IntentPop {
		t.Fatalf("unexpected intents %v", kinds)
	}
	if ctx.SearchText != "apple" {
		t.Fatalf("expected context search text updated")
	}
	if ctx.Cache() == nil {
		t.Fatalf("expected fallback cache")
	}
}
