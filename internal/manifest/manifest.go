// Package manifest loads extensions declared in YAML files. A manifest
// describes static lists whose items open URLs, copy text or show markdown.
package manifest

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
	"time"

	"github.com/atomicstack/termext/internal/ext"
	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// Pattern selects manifest files below the extensions directory.
const Pattern = "**/*.{yaml,yml}"

// File is the on-disk shape of a manifest.
type File struct {
	Name        string    `yaml:"name"`
	Title       string    `yaml:"title"`
	Description string    `yaml:"description"`
	Commands    []Command `yaml:"commands"`
}

type Command struct {
	Name        string    `yaml:"name"`
	Title       string    `yaml:"title"`
	Subtitle    string    `yaml:"subtitle"`
	Description string    `yaml:"description"`
	Keywords    []string  `yaml:"keywords"`
	Placeholder string    `yaml:"placeholder"`
	ShowDetail  bool      `yaml:"show_detail"`
	Sections    []Section `yaml:"sections"`
	Items       []Item    `yaml:"items"`
}

type Section struct {
	Title string `yaml:"title"`
	Items []Item `yaml:"items"`
}

type Item struct {
	ID       string   `yaml:"id"`
	Title    string   `yaml:"title"`
	Subtitle string   `yaml:"subtitle"`
	Keywords []string `yaml:"keywords"`
	URL      string   `yaml:"url"`
	Copy     string   `yaml:"copy"`
	Detail   string   `yaml:"detail"`
	Tags     []string `yaml:"tags"`
	Date     string   `yaml:"date"`
	Icon     string   `yaml:"icon"`
}

// Discover parses every manifest below dir. A missing dir yields nothing.
// Manifests that fail to parse are reported and skipped.
func Discover(dir string) ([]ext.Extension, []error) {
	if strings.TrimSpace(dir) == "" {
		return nil, nil
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, nil
	}
	return DiscoverFS(os.DirFS(dir))
}

// DiscoverFS is Discover over an fs.FS.
func DiscoverFS(fsys fs.FS) ([]ext.Extension, []error) {
	matches, err := doublestar.Glob(fsys, Pattern)
	if err != nil {
		return nil, []error{fmt.Errorf("glob manifests: %w", err)}
	}
	var (
		exts []ext.Extension
		errs []error
	)
	for _, name := range matches {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			errs = append(errs, fmt.Errorf("read %s: %w", name, err))
			continue
		}
		e, err := Parse(data)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		if e.Name == "" {
			e.Name = strings.TrimSuffix(path.Base(name), path.Ext(name))
		}
		exts = append(exts, e)
	}
	return exts, errs
}

// Parse decodes a manifest into an extension.
func Parse(data []byte) (ext.Extension, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return ext.Extension{}, fmt.Errorf("decode manifest: %w", err)
	}
	if len(f.Commands) == 0 {
		return ext.Extension{}, fmt.Errorf("manifest declares no commands")
	}
	e := ext.Extension{
		Name:        strings.TrimSpace(f.Name),
		Title:       f.Title,
		Description: f.Description,
	}
	for i, c := range f.Commands {
		if strings.TrimSpace(c.Name) == "" {
			return ext.Extension{}, fmt.Errorf("command %d has no name", i+1)
		}
		sections, err := c.sections()
		if err != nil {
			return ext.Extension{}, fmt.Errorf("command %s: %w", c.Name, err)
		}
		list := &ext.List{
			Title:             firstNonEmpty(c.Title, c.Name),
			SearchPlaceholder: c.Placeholder,
			Sections:          sections,
			ShowDetail:        c.ShowDetail,
		}
		e.Commands = append(e.Commands, ext.Command{
			Name:        c.Name,
			Title:       c.Title,
			Subtitle:    c.Subtitle,
			Description: c.Description,
			Keywords:    c.Keywords,
			View:        ext.Static(list),
		})
	}
	return e, nil
}

func (c Command) sections() ([]ext.Section, error) {
	raw := c.Sections
	if len(c.Items) > 0 {
		raw = append([]Section{{Items: c.Items}}, raw...)
	}
	out := make([]ext.Section, 0, len(raw))
	for _, sec := range raw {
		items := make([]ext.Item, 0, len(sec.Items))
		for _, it := range sec.Items {
			item, err := it.item()
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		out = append(out, ext.Section{Title: sec.Title, Items: items})
	}
	return ext.NormalizeSections(out), nil
}

func (it Item) item() (ext.Item, error) {
	if strings.TrimSpace(it.Title) == "" {
		return ext.Item{}, fmt.Errorf("item without title")
	}
	item := ext.Item{
		ID:       it.ID,
		Title:    it.Title,
		Subtitle: it.Subtitle,
		Keywords: it.Keywords,
		Detail:   it.Detail,
	}
	if it.Icon != "" {
		item.Accessories = append(item.Accessories, ext.Icon(it.Icon))
	}
	for _, tag := range it.Tags {
		item.Accessories = append(item.Accessories, ext.Tag(tag, ""))
	}
	if it.Date != "" {
		when, err := parseDate(it.Date)
		if err != nil {
			return ext.Item{}, fmt.Errorf("item %q: %w", it.Title, err)
		}
		item.Accessories = append(item.Accessories, ext.Date(when))
	}
	if it.URL != "" {
		item.Actions = append(item.Actions,
			ext.OpenAction("Open in Browser", it.URL),
			ext.CopyAction("Copy URL", it.URL))
	}
	if it.Copy != "" {
		cp := ext.CopyAction("Copy to Clipboard", it.Copy)
		if it.URL != "" {
			cp.Shortcut = ext.MustShortcut("alt+y")
		}
		item.Actions = append(item.Actions, cp)
	}
	if it.Detail != "" {
		detail := &ext.Detail{Title: it.Title, Markdown: it.Detail}
		item.Actions = append(item.Actions, ext.PushAction("Show Details", ext.Static(detail)))
	}
	return item, nil
}

var dateLayouts = []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02"}

func parseDate(value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", value)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
