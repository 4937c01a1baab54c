package extensions

import (
	"context"
	"fmt"
	"time"

	"github.com/atomicstack/termext/internal/ext"
)

type grocery struct {
	name   string
	aisle  string
	bought time.Duration
	notes  string
}

var pantry = []grocery{
	{"Sourdough", "Bakery", 26 * time.Hour, "Sliced, from the corner bakery."},
	{"Croissants", "Bakery", 3 * time.Hour, "Butter only."},
	{"Spinach", "Produce", 50 * time.Hour, "Baby leaves for salads."},
	{"Tomatoes", "Produce", 5 * time.Hour, "Vine ripened."},
	{"Avocado", "Produce", 8 * 24 * time.Hour, "Check ripeness before buying."},
	{"Yoghurt", "Dairy", 30 * time.Minute, "Greek style, unsweetened."},
	{"Cheddar", "Dairy", 4 * 24 * time.Hour, "Mature."},
}

var aisles = []string{"Bakery", "Produce", "Dairy"}

func groceries() ext.Extension {
	return ext.Extension{
		Name:  "groceries",
		Title: "Groceries",
		Commands: []ext.Command{{
			Name:        "list",
			Title:       "Grocery List",
			Subtitle:    "Sections, split detail and an aisle filter",
			Description: "Items grouped by aisle. Press ctrl+p to pick an aisle.",
			View:        groceryView,
		}},
	}
}

func groceryView(*ext.Context) (ext.View, error) {
	options := []ext.DropdownOption{{Title: "All Aisles", Value: ""}}
	for _, a := range aisles {
		options = append(options, ext.DropdownOption{Title: a, Value: a})
	}
	dropdown := &ext.Dropdown{
		Tooltip: "Aisle",
		Options: options,
		OnChange: func(ctx *ext.Context, value string) {
			ctx.Refresh()
		},
	}
	return &ext.List{
		Title:             "Groceries",
		SearchPlaceholder: "Search groceries…",
		ShowDetail:        true,
		Dropdown:          dropdown,
		Load: func(_ context.Context, _ string) ([]ext.Section, error) {
			return grocerySections(dropdown.Value, time.Now()), nil
		},
	}, nil
}

func grocerySections(aisle string, now time.Time) []ext.Section {
	sections := make([]ext.Section, 0, len(aisles))
	for _, a := range aisles {
		if aisle != "" && a != aisle {
			continue
		}
		var items []ext.Item
		for _, g := range pantry {
			if g.aisle != a {
				continue
			}
			items = append(items, ext.Item{
				Title:       g.name,
				Subtitle:    g.aisle,
				Accessories: []ext.Accessory{ext.Date(now.Add(-g.bought))},
				Detail:      fmt.Sprintf("## %s\n\n%s\n\n*Aisle:* %s", g.name, g.notes, g.aisle),
				Actions:     []ext.Action{ext.CopyAction("Copy Name", g.name)},
			})
		}
		sections = append(sections, ext.Section{Title: a, Items: items})
	}
	return sections
}
