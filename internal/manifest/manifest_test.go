package manifest

import (
	"testing"
	"testing/fstest"

	"github.com/atomicstack/termext/internal/ext"
	"github.com/stretchr/testify/require"
)

const bookmarks = `
name: bookmarks
title: Bookmarks
commands:
  - name: links
    title: Links
    show_detail: true
    items:
      - title: Go
        url: https://go.dev
        tags: [lang]
        date: 2024-03-01
    sections:
      - title: Snippets
        items:
          - title: Greeting
            copy: hello there
            detail: "# Greeting"
          - title: Greeting
            copy: again
`

func listOf(t *testing.T, c ext.Command) *ext.List {
	t.Helper()
	view, err := c.View(nil)
	require.NoError(t, err)
	list, ok := view.(*ext.List)
	require.True(t, ok, "expected list view, got %T", view)
	return list
}

func TestParseBuildsListCommand(t *testing.T) {
	e, err := Parse([]byte(bookmarks))
	require.NoError(t, err)
	require.Equal(t, "bookmarks", e.Name)
	require.Len(t, e.Commands, 1)

	list := listOf(t, e.Commands[0])
	require.Equal(t, "Links", list.Title)
	require.True(t, list.ShowDetail)
	require.Len(t, list.Sections, 2)

	goItem := list.Sections[0].Items[0]
	require.Equal(t, "Go", goItem.ID)
	require.Len(t, goItem.Accessories, 2)
	require.Equal(t, "Open in Browser", goItem.Actions[0].Title)
	require.Equal(t, "Copy URL", goItem.Actions[1].Title)

	snippets := list.Sections[1].Items
	require.Equal(t, "Greeting", snippets[0].ID)
	require.Equal(t, "Greeting#1", snippets[1].ID)
	require.Equal(t, "Copy to Clipboard", snippets[0].Actions[0].Title)
	require.Equal(t, "Show Details", snippets[0].Actions[1].Title)
}

func TestParseRejectsInvalidManifests(t *testing.T) {
	cases := map[string]string{
		"no commands":   "name: empty\n",
		"unnamed":       "commands:\n  - title: x\n",
		"untitled item": "commands:\n  - name: a\n    items:\n      - url: https://x\n",
		"bad date":      "commands:\n  - name: a\n    items:\n      - title: x\n        date: yesterday\n",
		"not yaml":      "commands: [",
	}
	for name, data := range cases {
		_, err := Parse([]byte(data))
		require.Error(t, err, name)
	}
}

func TestDiscoverFSWalksNestedManifests(t *testing.T) {
	fsys := fstest.MapFS{
		"bookmarks.yaml":   {Data: []byte(bookmarks)},
		"team/notes.yml":   {Data: []byte("commands:\n  - name: list\n    items:\n      - title: one\n")},
		"team/broken.yaml": {Data: []byte("commands: [")},
		"team/readme.md":   {Data: []byte("# not a manifest")},
	}
	exts, errs := DiscoverFS(fsys)
	require.Len(t, errs, 1)
	require.Contains(t, errs[0].Error(), "team/broken.yaml")

	names := make([]string, 0, len(exts))
	for _, e := range exts {
		names = append(names, e.Name)
	}
	require.ElementsMatch(t, []string{"bookmarks", "notes"}, names)
}

func TestDiscoverMissingDir(t *testing.T) {
	exts, errs := Discover(t.TempDir() + "/missing")
	require.Empty(t, exts)
	require.Empty(t, errs)
}
