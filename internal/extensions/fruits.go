package extensions

import (
	"fmt"
	"strings"

	"github.com/atomicstack/termext/internal/ext"
)

type fruit struct {
	name   string
	color  string
	season string
}

var fruitBasket = []fruit{
	{"Apple", "red", "autumn"},
	{"Banana", "yellow", "all year"},
	{"Cherry", "red", "summer"},
	{"Grape", "purple", "autumn"},
	{"Lettuce", "green", "spring"},
	{"Mango", "orange", "summer"},
}

func fruits() ext.Extension {
	return ext.Extension{
		Name:        "fruits",
		Title:       "Fruits",
		Description: "A flat list to try search and selection on.",
		Commands: []ext.Command{{
			Name:     "browse",
			Title:    "Browse Fruits",
			Subtitle: "Flat list",
			Keywords: []string{"demo", "list"},
			View:     ext.Static(fruitList()),
		}},
	}
}

func fruitList() *ext.List {
	items := make([]ext.Item, 0, len(fruitBasket))
	for _, f := range fruitBasket {
		detail := &ext.Detail{
			Title:    f.name,
			Markdown: fmt.Sprintf("# %s\n\nA %s fruit, best in %s.", f.name, f.color, f.season),
			Metadata: []ext.Metadata{
				{Label: "Color", Value: f.color},
				{Label: "Season", Value: f.season},
			},
			Actions: []ext.Action{ext.CopyAction("Copy Name", f.name)},
		}
		items = append(items, ext.Item{
			ID:          strings.ToLower(f.name),
			Title:       f.name,
			Keywords:    []string{f.color, f.season},
			Accessories: []ext.Accessory{ext.Tag(f.color, f.color)},
			Actions: []ext.Action{
				ext.PushAction("Show Details", ext.Static(detail)),
				ext.CopyAction("Copy Name", f.name),
			},
		})
	}
	return &ext.List{
		Title:             "Fruits",
		SearchPlaceholder: "Search fruits…",
		Sections:          ext.Flat(items...),
	}
}
