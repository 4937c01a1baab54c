// Package ext defines the surface extensions are written against: items,
// sections, actions, views and the Context handed to every handler.
package ext

import (
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Item is one selectable row of a list.
type Item struct {
	ID          string
	Title       string
	Subtitle    string
	Keywords    []string
	Accessories []Accessory
	// Detail is markdown shown in the split detail pane when the list enables it.
	Detail  string
	Actions []Action
}

// Section groups items under an optional title.
type Section struct {
	Title string
	Items []Item
}

// Flat wraps items into a single untitled section.
func Flat(items ...Item) []Section {
	return []Section{{Items: items}}
}

// AccessoryKind enumerates the accessory variants.
type AccessoryKind int

const (
	AccessoryText AccessoryKind = iota
	AccessoryTag
	AccessoryDate
	AccessoryIcon
)

// Accessory is trailing row metadata. Build one with Text, Tag, Date or Icon.
type Accessory struct {
	Kind  AccessoryKind
	Value string
	Color string
	Date  time.Time
}

func Text(value string) Accessory {
	return Accessory{Kind: AccessoryText, Value: value}
}

func Tag(value, color string) Accessory {
	return Accessory{Kind: AccessoryTag, Value: value, Color: color}
}

func Date(t time.Time) Accessory {
	return Accessory{Kind: AccessoryDate, Date: t}
}

func Icon(glyph string) Accessory {
	return Accessory{Kind: AccessoryIcon, Value: glyph}
}

// Label renders the accessory as plain text relative to now.
func (a Accessory) Label(now time.Time) string {
	switch a.Kind {
	case AccessoryDate:
		if a.Date.IsZero() {
			return ""
		}
		return humanize.RelTime(a.Date, now, "ago", "from now")
	case AccessoryTag:
		if a.Value == "" {
			return ""
		}
		return "[" + a.Value + "]"
	default:
		return a.Value
	}
}

// NormalizeSections returns a copy of sections where every item carries a
// unique, non-empty ID. Missing IDs derive from the title; collisions get a
// "#n" suffix.
func NormalizeSections(sections []Section) []Section {
	seen := make(map[string]int)
	out := make([]Section, len(sections))
	for si, sec := range sections {
		items := make([]Item, len(sec.Items))
		for i, item := range sec.Items {
			id := strings.TrimSpace(item.ID)
			if id == "" {
				id = strings.TrimSpace(item.Title)
			}
			if id == "" {
				id = "item"
			}
			if n, ok := seen[id]; ok {
				seen[id] = n + 1
				id = id + "#" + strconv.Itoa(n+1)
			}
			seen[id] = 0
			item.ID = id
			items[i] = item
		}
		out[si] = Section{Title: sec.Title, Items: items}
	}
	return out
}

// Items flattens sections in traversal order.
func Items(sections []Section) []Item {
	n := 0
	for _, s := range sections {
		n += len(s.Items)
	}
	out := make([]Item, 0, n)
	for _, s := range sections {
		out = append(out, s.Items...)
	}
	return out
}
