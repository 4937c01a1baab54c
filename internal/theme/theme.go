package theme

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Styles describes reusable Lip Gloss styles shared across the UI.
type Styles struct {
	Name                  string
	Loading               *lipgloss.Style
	Item                  *lipgloss.Style
	ItemSubtitle          *lipgloss.Style
	ItemAccessory         *lipgloss.Style
	ItemTag               *lipgloss.Style
	ItemIndicator         *lipgloss.Style
	SelectedItemIndicator *lipgloss.Style
	SelectedItem          *lipgloss.Style
	Section               *lipgloss.Style
	Empty                 *lipgloss.Style
	Error                 *lipgloss.Style
	Info                  *lipgloss.Style
	Header                *lipgloss.Style
	Footer                *lipgloss.Style
	Hint                  *lipgloss.Style
	Filter                *lipgloss.Style
	FilterPrompt          *lipgloss.Style
	FilterPlaceholder     *lipgloss.Style
	Cursor                *lipgloss.Style
	PreviewTitle          *lipgloss.Style
	PreviewBody           *lipgloss.Style
	PreviewError          *lipgloss.Style
	PreviewBorder         *lipgloss.Style
	Panel                 *lipgloss.Style
	PanelTitle            *lipgloss.Style
	PanelShortcut         *lipgloss.Style
	Destructive           *lipgloss.Style
	ToastSuccess          *lipgloss.Style
	ToastFailure          *lipgloss.Style
	ToastAnimated         *lipgloss.Style
	HUD                   *lipgloss.Style
	FormLabel             *lipgloss.Style
	// Glamour names the markdown style used for detail panes.
	Glamour string
}

type palette struct {
	fg, muted, dim, accent, selectedBg, selectedFg, err, ok, warn, border string
	glamour                                                               string
}

var palettes = map[string]palette{
	"default": {
		fg: "249", muted: "245", dim: "241", accent: "33", selectedBg: "238", selectedFg: "255",
		err: "196", ok: "34", warn: "214", border: "240", glamour: "dark",
	},
	"dracula": {
		fg: "#f8f8f2", muted: "#bd93f9", dim: "#6272a4", accent: "#ff79c6", selectedBg: "#44475a", selectedFg: "#f8f8f2",
		err: "#ff5555", ok: "#50fa7b", warn: "#f1fa8c", border: "#6272a4", glamour: "dracula",
	},
	"light": {
		fg: "236", muted: "242", dim: "247", accent: "25", selectedBg: "254", selectedFg: "232",
		err: "160", ok: "28", warn: "130", border: "250", glamour: "light",
	},
}

var (
	mu      sync.RWMutex
	current = build("default", palettes["default"])
)

// Default exposes the standard style set used across the application.
func Default() *Styles {
	return build("default", palettes["default"])
}

// Current returns the active style set.
func Current() *Styles {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Set activates the named palette.
func Set(name string) (*Styles, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	p, ok := palettes[key]
	if !ok {
		return nil, fmt.Errorf("unknown theme %q", name)
	}
	s := build(key, p)
	mu.Lock()
	current = s
	mu.Unlock()
	return s, nil
}

// Names lists the available palettes in stable order.
func Names() []string {
	names := make([]string, 0, len(palettes))
	for name := range palettes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Next returns the palette name following the given one, wrapping around.
func Next(name string) string {
	names := Names()
	for i, n := range names {
		if n == name {
			return names[(i+1)%len(names)]
		}
	}
	return names[0]
}

func build(name string, p palette) *Styles {
	c := func(s string) lipgloss.Color { return lipgloss.Color(s) }
	return &Styles{
		Name:                  name,
		Loading:               ptr(lipgloss.NewStyle().Foreground(c(p.accent)).Italic(true)),
		Item:                  ptr(lipgloss.NewStyle().Foreground(c(p.fg))),
		ItemSubtitle:          ptr(lipgloss.NewStyle().Foreground(c(p.dim))),
		ItemAccessory:         ptr(lipgloss.NewStyle().Foreground(c(p.muted))),
		ItemTag:               ptr(lipgloss.NewStyle().Foreground(c(p.accent))),
		ItemIndicator:         ptr(lipgloss.NewStyle().Foreground(c(p.selectedBg))),
		SelectedItemIndicator: ptr(lipgloss.NewStyle().Foreground(c(p.accent)).Background(c(p.selectedBg))),
		SelectedItem:          ptr(lipgloss.NewStyle().Foreground(c(p.selectedFg)).Background(c(p.selectedBg)).Bold(true)),
		Section:               ptr(lipgloss.NewStyle().Foreground(c(p.muted)).Bold(true)),
		Empty:                 ptr(lipgloss.NewStyle().Foreground(c(p.dim)).Italic(true)),
		Error:                 ptr(lipgloss.NewStyle().Foreground(c(p.err)).Bold(true)),
		Info:                  ptr(lipgloss.NewStyle().Foreground(c(p.fg))),
		Header:                ptr(lipgloss.NewStyle().Foreground(c(p.muted)).Bold(true)),
		Footer:                ptr(lipgloss.NewStyle().Foreground(c(p.dim))),
		Hint:                  ptr(lipgloss.NewStyle().Foreground(c(p.accent))),
		Filter:                ptr(lipgloss.NewStyle().Foreground(c(p.fg))),
		FilterPrompt:          ptr(lipgloss.NewStyle().Foreground(c(p.ok)).Bold(true)),
		FilterPlaceholder:     ptr(lipgloss.NewStyle().Foreground(c(p.dim))),
		Cursor:                ptr(lipgloss.NewStyle().Foreground(c("0")).Background(c(p.accent)).Blink(true)),
		PreviewTitle:          ptr(lipgloss.NewStyle().Foreground(c(p.muted)).Bold(true)),
		PreviewBody:           ptr(lipgloss.NewStyle().Foreground(c(p.fg))),
		PreviewError:          ptr(lipgloss.NewStyle().Foreground(c(p.err)).Bold(true)),
		PreviewBorder:         ptr(lipgloss.NewStyle().Foreground(c(p.border))),
		Panel:                 ptr(lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(c(p.border)).Padding(0, 1)),
		PanelTitle:            ptr(lipgloss.NewStyle().Foreground(c(p.muted)).Bold(true)),
		PanelShortcut:         ptr(lipgloss.NewStyle().Foreground(c(p.dim))),
		Destructive:           ptr(lipgloss.NewStyle().Foreground(c(p.err))),
		ToastSuccess:          ptr(lipgloss.NewStyle().Foreground(c(p.ok)).Bold(true)),
		ToastFailure:          ptr(lipgloss.NewStyle().Foreground(c(p.err)).Bold(true)),
		ToastAnimated:         ptr(lipgloss.NewStyle().Foreground(c(p.warn))),
		HUD:                   ptr(lipgloss.NewStyle().Foreground(c(p.selectedFg)).Background(c(p.selectedBg)).Padding(0, 1)),
		FormLabel:             ptr(lipgloss.NewStyle().Foreground(c(p.muted))),
		Glamour:               p.glamour,
	}
}

func ptr(style lipgloss.Style) *lipgloss.Style {
	return &style
}
