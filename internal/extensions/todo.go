package extensions

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/atomicstack/termext/internal/cache"
	"github.com/atomicstack/termext/internal/ext"
)

const (
	todoPrefix = "todo:"
	todoSeqKey = "seq"
)

// todo values are stored as "<0|1>|<title>" under todo:<n>.
type todo struct {
	id    string
	title string
	done  bool
}

type todoStore struct {
	store cache.Store
}

func (s todoStore) list() ([]todo, error) {
	keys, err := s.store.Keys(todoPrefix)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	out := make([]todo, 0, len(keys))
	for _, k := range keys {
		raw, err := s.store.Get(k)
		if errors.Is(err, cache.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", k, err)
		}
		done, title, _ := strings.Cut(raw, "|")
		out = append(out, todo{id: strings.TrimPrefix(k, todoPrefix), title: title, done: done == "1"})
	}
	sort.Slice(out, func(i, j int) bool {
		a, _ := strconv.Atoi(out[i].id)
		b, _ := strconv.Atoi(out[j].id)
		return a < b
	})
	return out, nil
}

func (s todoStore) add(title string) (todo, error) {
	seq := 0
	if raw, err := s.store.Get(todoSeqKey); err == nil {
		seq, _ = strconv.Atoi(raw)
	}
	seq++
	if err := s.store.Set(todoSeqKey, strconv.Itoa(seq)); err != nil {
		return todo{}, err
	}
	t := todo{id: strconv.Itoa(seq), title: title}
	return t, s.put(t)
}

func (s todoStore) put(t todo) error {
	flag := "0"
	if t.done {
		flag = "1"
	}
	return s.store.Set(todoPrefix+t.id, flag+"|"+t.title)
}

func (s todoStore) remove(t todo) error {
	return s.store.Remove(todoPrefix + t.id)
}

func todos() ext.Extension {
	return ext.Extension{
		Name:  "todo",
		Title: "Todo",
		Commands: []ext.Command{{
			Name:        "list",
			Title:       "Todo List",
			Subtitle:    "Persisted in the cache",
			Description: "Type a title and press enter on the empty list to add it.",
			View:        todoView,
		}},
	}
}

func todoView(ctx *ext.Context) (ext.View, error) {
	s := todoStore{store: ctx.Cache()}
	return &ext.List{
		Title:             "Todos",
		SearchPlaceholder: "Search or add a todo…",
		EmptyTitle:        "Nothing to do. Type a title and press enter.",
		Load: func(context.Context, string) ([]ext.Section, error) {
			return todoSections(s)
		},
		Actions: []ext.Action{addTodoAction(s)},
	}, nil
}

func todoSections(s todoStore) ([]ext.Section, error) {
	all, err := s.list()
	if err != nil {
		return nil, err
	}
	var open, done []ext.Item
	for _, t := range all {
		item := todoItem(s, t)
		if t.done {
			done = append(done, item)
		} else {
			open = append(open, item)
		}
	}
	return []ext.Section{{Title: "Open", Items: open}, {Title: "Done", Items: done}}, nil
}

func todoItem(s todoStore, t todo) ext.Item {
	toggle := "Mark as Done"
	if t.done {
		toggle = "Reopen"
	}
	item := ext.Item{
		ID:    t.id,
		Title: t.title,
		Actions: []ext.Action{
			{
				Title: toggle,
				Run: func(ctx *ext.Context) error {
					next := t
					next.done = !t.done
					if err := s.put(next); err != nil {
						return err
					}
					ctx.Refresh()
					return nil
				},
			},
			{
				Title:    "Delete",
				Style:    ext.StyleDestructive,
				Shortcut: ext.MustShortcut("ctrl+x"),
				Run:      deleteTodo(s, t),
			},
			clearDoneAction(s),
			addTodoAction(s),
		},
	}
	if t.done {
		item.Accessories = []ext.Accessory{ext.Icon("✓")}
	}
	return item
}

func deleteTodo(s todoStore, t todo) ext.Handler {
	return func(ctx *ext.Context) error {
		if err := s.remove(t); err != nil {
			return err
		}
		undo := &ext.Action{
			Title: "Undo",
			Run: func(ctx *ext.Context) error {
				if err := s.put(t); err != nil {
					return err
				}
				ctx.ShowToast(ext.Toast{Title: "Restored", Message: t.title})
				ctx.Refresh()
				return nil
			},
		}
		ctx.ShowToast(ext.Toast{Title: "Deleted", Message: t.title + " (enter to undo)", Primary: undo})
		ctx.Refresh()
		return nil
	}
}

func clearDoneAction(s todoStore) ext.Action {
	return ext.Action{
		Title: "Delete Completed",
		Style: ext.StyleDestructive,
		Run: func(ctx *ext.Context) error {
			ctx.ConfirmAlert(ext.Alert{
				Title:        "Delete completed todos?",
				Message:      "This cannot be undone.",
				ConfirmTitle: "Delete",
				Destructive:  true,
				OnConfirm: func(ctx *ext.Context) error {
					all, err := s.list()
					if err != nil {
						return err
					}
					n := 0
					for _, t := range all {
						if !t.done {
							continue
						}
						if err := s.remove(t); err != nil {
							return err
						}
						n++
					}
					ctx.ShowHUD(fmt.Sprintf("Deleted %d", n))
					ctx.Refresh()
					return nil
				},
			})
			return nil
		},
	}
}

func addTodoAction(s todoStore) ext.Action {
	return ext.Action{
		Title:    "Add Todo",
		Shortcut: ext.MustShortcut("ctrl+n"),
		Run: func(ctx *ext.Context) error {
			title := strings.TrimSpace(ctx.SearchText)
			if title == "" {
				return fmt.Errorf("type a title in the search bar first")
			}
			if _, err := s.add(title); err != nil {
				return err
			}
			ctx.SetSearchText("")
			ctx.ShowHUD("Added " + title)
			ctx.Refresh()
			return nil
		},
	}
}
