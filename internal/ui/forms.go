package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/atomicstack/termext/internal/ext"
	uistate "github.com/atomicstack/termext/internal/ui/state"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// formFrame holds one text input per field; checkbox fields use checks.
type formFrame struct {
	view   *ext.Form
	inputs []textinput.Model
	checks []bool
	focus  int
}

func (m *Model) newFormFrame(id, commandID string, form *ext.Form) *frame {
	data := &formFrame{
		view:   form,
		inputs: make([]textinput.Model, len(form.Fields)),
		checks: make([]bool, len(form.Fields)),
	}
	for i, field := range form.Fields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = field.Placeholder
		ti.CharLimit = 256
		if !m.blink {
			ti.Cursor.SetMode(cursor.CursorStatic)
		}
		switch field.Kind {
		case ext.FieldPassword:
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		case ext.FieldCheckbox:
			data.checks[i], _ = strconv.ParseBool(field.Default)
		}
		if field.Kind != ext.FieldCheckbox {
			ti.SetValue(field.Default)
		}
		data.inputs[i] = ti
	}
	data.setFocus(0)
	lvl := uistate.NewLevel(id, form.Title, nil)
	lvl.Data = data
	return &frame{Level: lvl, View: form, CommandID: commandID}
}

func (f *formFrame) setFocus(idx int) {
	if len(f.inputs) == 0 {
		return
	}
	if idx < 0 {
		idx = len(f.inputs) - 1
	}
	if idx >= len(f.inputs) {
		idx = 0
	}
	f.inputs[f.focus].Blur()
	f.focus = idx
	if f.view.Fields[idx].Kind != ext.FieldCheckbox {
		f.inputs[idx].Focus()
	}
}

func (f *formFrame) focusedField() (ext.Field, bool) {
	if f.focus < 0 || f.focus >= len(f.view.Fields) {
		return ext.Field{}, false
	}
	return f.view.Fields[f.focus], true
}

// values returns the submitted values keyed by field ID. Checkboxes report
// "true" or "false".
func (f *formFrame) values() map[string]string {
	out := make(map[string]string, len(f.view.Fields))
	for i, field := range f.view.Fields {
		if field.Kind == ext.FieldCheckbox {
			out[field.ID] = strconv.FormatBool(f.checks[i])
			continue
		}
		out[field.ID] = f.inputs[i].Value()
	}
	return out
}

// formActions prepends the submit action to the form's own actions.
func (m *Model) formActions(_ *frame, data *formFrame) []ext.Action {
	title := strings.TrimSpace(data.view.Submit)
	if title == "" {
		title = "Submit"
	}
	fields := data.view.Fields
	onSubmit := data.view.OnSubmit
	submit := ext.Action{
		Title: title,
		Run: func(ctx *ext.Context) error {
			if err := validateForm(fields, ctx.FormValues); err != nil {
				return err
			}
			if onSubmit == nil {
				return nil
			}
			return onSubmit(ctx)
		},
	}
	return append([]ext.Action{submit}, data.view.Actions...)
}

func validateForm(fields []ext.Field, values map[string]string) error {
	for _, field := range fields {
		if !field.Required || field.Kind == ext.FieldCheckbox {
			continue
		}
		if strings.TrimSpace(values[field.ID]) == "" {
			name := field.Title
			if name == "" {
				name = field.ID
			}
			return fmt.Errorf("%s is required", name)
		}
	}
	return nil
}

func (m *Model) handleFormKey(f *frame, data *formFrame, msg tea.KeyMsg) tea.Cmd {
	field, ok := data.focusedField()
	switch {
	case key.Matches(msg, m.keys.Back):
		return m.back()
	case key.Matches(msg, m.keys.Next):
		data.setFocus(data.focus + 1)
		return nil
	case key.Matches(msg, m.keys.Prev):
		data.setFocus(data.focus - 1)
		return nil
	}
	if !ok {
		return nil
	}
	if field.Kind == ext.FieldCheckbox {
		if key.Matches(msg, m.keys.Toggle) {
			data.checks[data.focus] = !data.checks[data.focus]
		}
		return nil
	}
	var cmd tea.Cmd
	data.inputs[data.focus], cmd = data.inputs[data.focus].Update(msg)
	if !m.blink {
		return nil
	}
	return cmd
}

func (m *Model) formLines(data *formFrame, width int) []styledLine {
	lines := make([]styledLine, 0, len(data.view.Fields)*3)
	for i, field := range data.view.Fields {
		label := field.Title
		if field.Required {
			label += " *"
		}
		marker := "  "
		if i == data.focus {
			marker = "▌ "
		}
		lines = append(lines, styledLine{text: marker + label, style: styles.FormLabel})
		if field.Kind == ext.FieldCheckbox {
			box := "[ ]"
			if data.checks[i] {
				box = "[✓]"
			}
			style := styles.Item
			if i == data.focus {
				style = styles.SelectedItem
			}
			lines = append(lines, styledLine{text: "  " + box + " " + field.Placeholder, style: style})
		} else {
			data.inputs[i].Width = width - 4
			lines = append(lines, styledLine{text: "  " + data.inputs[i].View(), raw: true})
		}
		if field.Info != "" && i == data.focus {
			lines = append(lines, styledLine{text: "  " + field.Info, style: styles.Info})
		}
	}
	return lines
}
