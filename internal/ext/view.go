package ext

import (
	"context"
	"time"
)

// View is a closed set: *List, *Detail or *Form.
type View interface {
	ViewTitle() string
	isView()
}

// ViewFunc resolves a view when a frame is pushed.
type ViewFunc func(ctx *Context) (View, error)

// Static wraps an already built view.
func Static(v View) ViewFunc {
	return func(*Context) (View, error) { return v, nil }
}

// LoadFunc fetches list content. query is the current search text; loaders
// of lists with filtering enabled may ignore it.
type LoadFunc func(ctx context.Context, query string) ([]Section, error)

// List is a searchable, optionally sectioned list of items.
type List struct {
	Title             string
	SearchPlaceholder string
	Sections          []Section
	// Load, when set, replaces Sections asynchronously. It runs on push, on
	// refresh, every RefreshInterval and, with FilteringDisabled, whenever
	// the search text changes.
	Load            LoadFunc
	RefreshInterval time.Duration
	// FilteringDisabled hands every item through unfiltered; the extension
	// produces its own visible set.
	FilteringDisabled bool
	// Controlled makes the extension own the search text. Typing calls
	// OnSearchTextChange with the proposed text and only ctx.SetSearchText
	// changes what is shown.
	Controlled         bool
	SearchText         string
	OnSearchTextChange func(ctx *Context, text string)
	ShowDetail         bool
	// Actions apply when the focused item declares none or the list is empty.
	Actions    []Action
	EmptyTitle string
	Dropdown   *Dropdown
}

func (l *List) ViewTitle() string { return l.Title }
func (*List) isView()             {}

// Dropdown is the search bar accessory picker.
type Dropdown struct {
	Tooltip  string
	Options  []DropdownOption
	Value    string
	OnChange func(ctx *Context, value string)
}

type DropdownOption struct {
	Title string
	Value string
}

// Detail renders markdown.
type Detail struct {
	Title    string
	Markdown string
	Metadata []Metadata
	Actions  []Action
}

// Metadata is a label/value row rendered below detail markdown.
type Metadata struct {
	Label string
	Value string
}

func (d *Detail) ViewTitle() string { return d.Title }
func (*Detail) isView()             {}

// FieldKind selects a form control.
type FieldKind int

const (
	FieldText FieldKind = iota
	FieldPassword
	FieldCheckbox
)

// Field is one form control.
type Field struct {
	ID          string
	Title       string
	Kind        FieldKind
	Placeholder string
	Default     string
	Info        string
	Required    bool
}

// Form collects values and hands them to OnSubmit via ctx.FormValues.
type Form struct {
	Title    string
	Fields   []Field
	Submit   string
	OnSubmit Handler
	Actions  []Action
}

func (f *Form) ViewTitle() string { return f.Title }
func (*Form) isView()             {}
