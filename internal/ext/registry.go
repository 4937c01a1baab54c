package ext

import (
	"fmt"
	"sort"
	"strings"
)

// Command is an entry point of an extension. Exactly one of View or Run is
// expected; View takes precedence.
type Command struct {
	Name        string
	Title       string
	Subtitle    string
	Description string
	Keywords    []string
	View        ViewFunc
	Run         Handler

	id string
}

// ID returns "<extension>/<command>", assigned at registration.
func (c Command) ID() string {
	return c.id
}

// Extension bundles commands under a name.
type Extension struct {
	Name        string
	Title       string
	Description string
	Commands    []Command
}

// Registry exposes lookup utilities for registered extensions.
type Registry struct {
	exts     []Extension
	commands map[string]Command
}

func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]Command)}
}

// Register adds e. Names must be non-empty and unique.
func (r *Registry) Register(e Extension) error {
	name := strings.TrimSpace(e.Name)
	if name == "" {
		return fmt.Errorf("extension name is empty")
	}
	for _, existing := range r.exts {
		if existing.Name == name {
			return fmt.Errorf("extension %q already registered", name)
		}
	}
	e.Name = name
	cmds := make([]Command, 0, len(e.Commands))
	for _, c := range e.Commands {
		c.Name = strings.TrimSpace(c.Name)
		if c.Name == "" {
			return fmt.Errorf("extension %q: command name is empty", name)
		}
		c.id = name + "/" + c.Name
		if _, dup := r.commands[c.id]; dup {
			return fmt.Errorf("command %q already registered", c.id)
		}
		if c.Title == "" {
			c.Title = c.Name
		}
		r.commands[c.id] = c
		cmds = append(cmds, c)
	}
	e.Commands = cmds
	if e.Title == "" {
		e.Title = name
	}
	r.exts = append(r.exts, e)
	return nil
}

// Extensions returns the registered extensions in registration order.
func (r *Registry) Extensions() []Extension {
	return append([]Extension(nil), r.exts...)
}

// Find locates a command by ID. A bare command name resolves when it is
// unambiguous.
func (r *Registry) Find(id string) (Command, bool) {
	id = strings.TrimSpace(id)
	if c, ok := r.commands[id]; ok {
		return c, true
	}
	var found Command
	n := 0
	for _, c := range r.commands {
		if c.Name == id {
			found = c
			n++
		}
	}
	return found, n == 1
}

// IDs lists every command ID sorted.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.commands))
	for id := range r.commands {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
