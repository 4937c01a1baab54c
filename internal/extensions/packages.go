package extensions

import (
	"context"
	"strings"

	"github.com/atomicstack/termext/internal/ext"
	"github.com/dustin/go-humanize"
)

type pkg struct {
	path  string
	about string
	stars int64
}

var packageIndex = []pkg{
	{"github.com/charmbracelet/bubbletea", "A powerful little TUI framework", 31200},
	{"github.com/charmbracelet/lipgloss", "Style definitions for nice terminal layouts", 9100},
	{"github.com/charmbracelet/glamour", "Stylesheet-based markdown rendering", 2800},
	{"github.com/spf13/cobra", "A commander for modern Go CLI interactions", 39800},
	{"github.com/spf13/pflag", "Drop-in replacement for Go's flag package", 2500},
	{"go.uber.org/zap", "Blazing fast, structured, leveled logging", 22700},
	{"gopkg.in/yaml.v3", "YAML support for Go", 3600},
	{"github.com/pelletier/go-toml/v2", "TOML parser and encoder", 1800},
	{"github.com/stretchr/testify", "Toolkit with common assertions and mocks", 24500},
	{"modernc.org/sqlite", "CGo-free port of SQLite", 1100},
	{"github.com/dustin/go-humanize", "Formatters for units to human friendly sizes", 4700},
	{"github.com/lithammer/fuzzysearch", "Tiny and fast fuzzy search", 1200},
}

func packages() ext.Extension {
	return ext.Extension{
		Name:  "pkgs",
		Title: "Go Packages",
		Commands: []ext.Command{{
			Name:        "search",
			Title:       "Search Packages",
			Subtitle:    "Controlled search against an index",
			Description: "The extension owns the search text and runs the query itself.",
			Keywords:    []string{"go", "modules"},
			View:        packageView,
		}},
	}
}

func packageView(*ext.Context) (ext.View, error) {
	return &ext.List{
		Title:             "Go Packages",
		SearchPlaceholder: "Search by import path…",
		Controlled:        true,
		FilteringDisabled: true,
		EmptyTitle:        "No packages found",
		// import paths never contain spaces
		OnSearchTextChange: func(ctx *ext.Context, text string) {
			ctx.SetSearchText(strings.ReplaceAll(strings.ToLower(text), " ", ""))
		},
		Load: func(_ context.Context, query string) ([]ext.Section, error) {
			return searchPackages(query), nil
		},
	}, nil
}

func searchPackages(query string) []ext.Section {
	query = strings.ToLower(strings.TrimSpace(query))
	var items []ext.Item
	for _, p := range packageIndex {
		if query != "" && !strings.Contains(p.path, query) {
			continue
		}
		items = append(items, ext.Item{
			ID:          p.path,
			Title:       p.path,
			Subtitle:    p.about,
			Accessories: []ext.Accessory{ext.Text("★ " + humanize.Comma(p.stars))},
			Actions: []ext.Action{
				ext.OpenAction("Open Documentation", "https://pkg.go.dev/"+p.path),
				ext.CopyAction("Copy go get", "go get "+p.path),
			},
		})
	}
	return ext.Flat(items...)
}
