package extensions

import (
	"context"
	"time"

	"github.com/atomicstack/termext/internal/ext"
)

var zones = []string{"UTC", "Europe/London", "America/New_York", "Asia/Tokyo", "Australia/Sydney"}

func clock() ext.Extension {
	return ext.Extension{
		Name:  "clock",
		Title: "World Clock",
		Commands: []ext.Command{{
			Name:     "zones",
			Title:    "World Clock",
			Subtitle: "Refreshes every second",
			View:     ext.Static(clockList()),
		}},
	}
}

func clockList() *ext.List {
	return &ext.List{
		Title:           "World Clock",
		RefreshInterval: time.Second,
		Load: func(context.Context, string) ([]ext.Section, error) {
			return clockSections(time.Now()), nil
		},
	}
}

// clockSections skips zones the host has no tzdata for.
func clockSections(now time.Time) []ext.Section {
	items := make([]ext.Item, 0, len(zones))
	for _, name := range zones {
		loc, err := time.LoadLocation(name)
		if err != nil {
			continue
		}
		local := now.In(loc)
		items = append(items, ext.Item{
			ID:          name,
			Title:       name,
			Subtitle:    local.Format("Mon 2 Jan"),
			Accessories: []ext.Accessory{ext.Text(local.Format("15:04:05"))},
			Actions:     []ext.Action{ext.CopyAction("Copy Time", local.Format(time.RFC3339))},
		})
	}
	return ext.Flat(items...)
}
