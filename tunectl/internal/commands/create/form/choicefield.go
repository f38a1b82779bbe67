/*
Copyright 2022 GramLabs, Inc.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package form

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type ChoiceFieldValidator interface {
	ValidateChoiceField(value string) tea.Msg
}

// ChoiceField is a field whose value is selected from a fixed list of choices.
// An empty choice list renders a spinner, making it safe to populate the
// choices asynchronously (e.g. from an API call).
type ChoiceField struct {
	textinput.Model
	fieldModel
	Validator ChoiceFieldValidator

	// The list of possible choices.
	Choices []string
	// Message to display while the choice list is empty.
	LoadingMessage string

	selected int
	spinner  spinner.Model
}

var _ Field = &ChoiceField{}

func NewChoiceField() ChoiceField {
	s := spinner.NewModel()
	s.Spinner = spinner.Line

	return ChoiceField{
		Model: textinput.NewModel(),
		fieldModel: fieldModel{
			Template: `{{ .ChoicesView }}{{ if .Error }}
{{ colorError .Error }}{{ end }}{{ if .Focused }}
{{ colorInstructions .Instructions }}{{ end }}`,
			InstructionsColor: "241",
			ErrorColor:        "1",
			ErrorTextColor:    "1",
		},
		Validator: &unvalidated{},
		spinner:   s,
	}
}

func (m ChoiceField) Update(msg tea.Msg) (ChoiceField, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	if m.Focused() {
		if msg, ok := msg.(tea.KeyMsg); ok {
			switch msg.String() {
			case "up":
				m.SetSelected(m.selected - 1)
			case "down":
				m.SetSelected(m.selected + 1)
			}
		}

		m.fieldModel, cmd = m.fieldModel.update(msg)
		cmds = append(cmds, cmd)
	}

	m.spinner, cmd = m.spinner.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// SetChoices replaces the choice list, clamping the current selection.
func (m *ChoiceField) SetChoices(choices []string) {
	m.Choices = choices
	m.SetSelected(m.selected)
}

// SetSelected moves the selection, wrapping around at either end of the list.
func (m *ChoiceField) SetSelected(i int) {
	if len(m.Choices) == 0 {
		m.selected = 0
		return
	}

	switch {
	case i < 0:
		m.selected = len(m.Choices) - 1
	case i > len(m.Choices)-1:
		m.selected = 0
	default:
		m.selected = i
	}

	m.Model.SetValue(m.Choices[m.selected])
	m.Model.CursorEnd()
}

func (m ChoiceField) View() string {
	return m.fieldModel.executeTemplate(&m)
}

// ChoicesView renders the prompt plus the choice list (or the loading spinner).
func (m ChoiceField) ChoicesView() string {
	var lines []string
	lines = append(lines, m.Model.Prompt)

	lines = append(lines, "")
	for i, c := range m.Choices {
		checked := " "
		if m.selected == i {
			checked = "x"
		}
		lines = append(lines, fmt.Sprintf("[%s] %s", checked, c))
	}
	if len(m.Choices) == 0 {
		lines = append(lines, fmt.Sprintf("%s %s", m.spinner.View(), m.LoadingMessage))
	}

	return strings.Join(lines, "\n")
}

func (m ChoiceField) Validate() tea.Cmd {
	value := m.Value()
	return func() tea.Msg { return m.Validator.ValidateChoiceField(value) }
}
