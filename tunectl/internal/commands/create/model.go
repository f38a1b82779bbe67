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

package create

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	expform "github.com/thestormforge/tune-console/internal/form"
	createform "github.com/thestormforge/tune-console/tunectl/internal/commands/create/form"
)

// metadataModel is the linear form collecting the experiment scalars.
type metadataModel struct {
	NameInput            createform.TextField
	NamespaceInput       createform.ChoiceField
	ObjectiveTypeInput   createform.ChoiceField
	MetricInput          createform.TextField
	AlgorithmInput       createform.ChoiceField
	ParallelismInput     createform.TextField
	TrialsInput          createform.TextField
	ServiceTemplateInput createform.TextField
	ClientTemplateInput  createform.TextField
}

// form returns a slice of everything on metadataModel that implements `form.Field`.
func (m *metadataModel) form() createform.Fields {
	return createform.Fields{
		&m.NameInput,
		&m.NamespaceInput,
		&m.ObjectiveTypeInput,
		&m.MetricInput,
		&m.AlgorithmInput,
		&m.ParallelismInput,
		&m.TrialsInput,
		&m.ServiceTemplateInput,
		&m.ClientTemplateInput,
	}
}

func (m metadataModel) Update(msg tea.Msg) (metadataModel, tea.Cmd) {
	switch msg := msg.(type) {

	case namespacesMsg:
		m.NamespaceInput.SetChoices(msg)

	case algorithmsMsg:
		m.AlgorithmInput.SetChoices(msg)

	}

	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	cmd = m.form().Update(msg)
	cmds = append(cmds, cmd)

	m.NameInput, cmd = m.NameInput.Update(msg)
	cmds = append(cmds, cmd)

	m.NamespaceInput, cmd = m.NamespaceInput.Update(msg)
	cmds = append(cmds, cmd)

	m.ObjectiveTypeInput, cmd = m.ObjectiveTypeInput.Update(msg)
	cmds = append(cmds, cmd)

	m.MetricInput, cmd = m.MetricInput.Update(msg)
	cmds = append(cmds, cmd)

	m.AlgorithmInput, cmd = m.AlgorithmInput.Update(msg)
	cmds = append(cmds, cmd)

	m.ParallelismInput, cmd = m.ParallelismInput.Update(msg)
	cmds = append(cmds, cmd)

	m.TrialsInput, cmd = m.TrialsInput.Update(msg)
	cmds = append(cmds, cmd)

	m.ServiceTemplateInput, cmd = m.ServiceTemplateInput.Update(msg)
	cmds = append(cmds, cmd)

	m.ClientTemplateInput, cmd = m.ClientTemplateInput.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// apply copies the completed form values onto the experiment state.
func (m *metadataModel) apply(state *expform.State) {
	state.Name = strings.TrimSpace(m.NameInput.Value())
	state.Namespace = m.NamespaceInput.Value()
	state.Objective.Type = expform.ObjectiveType(m.ObjectiveTypeInput.Value())
	state.Objective.Metric = strings.TrimSpace(m.MetricInput.Value())
	state.Algorithm.Name = m.AlgorithmInput.Value()
	state.Parallelism, _ = strconv.Atoi(strings.TrimSpace(m.ParallelismInput.Value()))
	state.MaxTrials, _ = strconv.Atoi(strings.TrimSpace(m.TrialsInput.Value()))
}

// parametersModel is the editable parameter table. At most one row is in edit
// mode at a time; edits go through the row store so category and type changes
// reset their dependent fields and a cancelled edit restores the saved values.
type parametersModel struct {
	store *expform.RowStore

	cursor    int
	editKey   string
	editField int
	textInput textinput.Model

	saveErr   string
	submitErr string
}

// editColumns returns the editable columns for a row in its current shape.
func editColumns(r expform.Row) []string {
	columns := []string{"category", "name", "type"}
	if r.Type == expform.TypeDiscrete {
		return append(columns, "list")
	}
	return append(columns, "min", "max", "step")
}

// row finds a row by key, returning a zero row if it was removed.
func (m *parametersModel) row(key string) expform.Row {
	for _, r := range m.store.Rows() {
		if r.Key == key {
			return r
		}
	}
	return expform.Row{}
}

func (m parametersModel) Update(msg tea.Msg) (parametersModel, tea.Cmd) {
	switch msg := msg.(type) {

	case rejectedMsg:
		m.submitErr = msg.Reason

	case tea.KeyMsg:
		m.submitErr = ""
		if m.editKey != "" {
			return m.updateEditing(msg)
		}
		return m.updateBrowsing(msg)

	}

	return m, nil
}

func (m parametersModel) updateBrowsing(msg tea.KeyMsg) (parametersModel, tea.Cmd) {
	rows := m.store.Rows()

	switch msg.String() {

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(rows)-1 {
			m.cursor++
		}

	case "a":
		key := m.store.AddRow()
		m.startEdit(key)

	case "e", "enter":
		if m.cursor < len(rows) {
			key := rows[m.cursor].Key
			if err := m.store.ToggleEdit(key); err != nil {
				return m, func() tea.Msg { return err }
			}
			m.startEdit(key)
		}

	case "d":
		if m.cursor < len(rows) {
			if err := m.store.RemoveRow(rows[m.cursor].Key); err != nil {
				return m, func() tea.Msg { return err }
			}
			if m.cursor >= len(rows)-1 && m.cursor > 0 {
				m.cursor--
			}
		}

	case "s":
		return m, func() tea.Msg { return submitRequestedMsg{} }

	case "q":
		return m, tea.Quit

	}

	return m, nil
}

func (m parametersModel) updateEditing(msg tea.KeyMsg) (parametersModel, tea.Cmd) {
	r := m.row(m.editKey)
	columns := editColumns(r)
	column := columns[m.editField]

	switch msg.String() {

	case "tab", "down":
		m.commitField(column)
		m.moveEditField(1)

	case "shift+tab", "up":
		m.commitField(column)
		m.moveEditField(-1)

	case "left":
		m.cycleChoice(column, -1)

	case "right":
		m.cycleChoice(column, +1)

	case "enter":
		m.commitField(column)
		if result := m.store.Save(m.editKey); !result.Ok() {
			m.saveErr = result.Message()
			return m, nil
		}
		m.stopEdit()

	case "esc":
		if err := m.store.Cancel(m.editKey); err != nil {
			return m, func() tea.Msg { return err }
		}
		m.stopEdit()

	default:
		if isTextColumn(r, column) {
			var cmd tea.Cmd
			m.textInput, cmd = m.textInput.Update(msg)
			m.commitField(column)
			return m, cmd
		}

	}

	return m, nil
}

// startEdit switches a row into edit mode and loads the first column.
func (m *parametersModel) startEdit(key string) {
	m.editKey = key
	m.editField = 0
	m.saveErr = ""
	m.loadField()
}

func (m *parametersModel) stopEdit() {
	m.editKey = ""
	m.editField = 0
	m.saveErr = ""
	m.textInput.Blur()
}

// moveEditField advances the edit cursor, wrapping in either direction.
func (m *parametersModel) moveEditField(delta int) {
	r := m.row(m.editKey)
	n := len(editColumns(r))
	m.editField = (m.editField + delta + n) % n
	m.loadField()
}

// loadField prepares the shared text input for the active column.
func (m *parametersModel) loadField() {
	r := m.row(m.editKey)
	column := editColumns(r)[m.editField]

	if !isTextColumn(r, column) {
		m.textInput.Blur()
		return
	}

	m.textInput = textinput.NewModel()
	m.textInput.Prompt = column + "> "
	m.textInput.SetValue(columnValue(r, column))
	m.textInput.CursorEnd()
	m.textInput.Focus()
}

// commitField writes the text input back to the row under edit.
func (m *parametersModel) commitField(column string) {
	r := m.row(m.editKey)
	if !isTextColumn(r, column) {
		return
	}

	value := m.textInput.Value()
	_ = m.store.Apply(m.editKey, func(row *expform.Row) {
		switch column {
		case "name":
			row.SetName(value)
		case "min":
			row.SetMin(value)
		case "max":
			row.SetMax(value)
		case "step":
			row.SetStep(value)
		case "list":
			row.SetList(value)
		}
	})
}

// cycleChoice advances a fixed-choice column; other columns ignore left/right.
func (m *parametersModel) cycleChoice(column string, delta int) {
	r := m.row(m.editKey)

	switch column {
	case "category":
		categories := expform.Categories()
		i := indexOf(len(categories), func(j int) bool { return categories[j] == r.Category })
		next := categories[(i+delta+len(categories))%len(categories)]
		_ = m.store.Apply(m.editKey, func(row *expform.Row) { row.SetCategory(next) })

	case "type":
		types := expform.ParameterTypes()
		i := indexOf(len(types), func(j int) bool { return types[j] == r.Type })
		next := types[(i+delta+len(types))%len(types)]
		_ = m.store.Apply(m.editKey, func(row *expform.Row) { row.SetType(next) })
		// The column layout may have changed shape
		if m.editField >= len(editColumns(m.row(m.editKey))) {
			m.editField = 0
		}
		m.loadField()

	case "name":
		if r.Category != expform.CategoryResource {
			return
		}
		names := expform.ResourceNames
		i := indexOf(len(names), func(j int) bool { return names[j] == r.Name })
		next := names[(i+delta+len(names))%len(names)]
		_ = m.store.Apply(m.editKey, func(row *expform.Row) { row.SetName(next) })
	}
}

// isTextColumn reports whether the column takes free text input for this row.
func isTextColumn(r expform.Row, column string) bool {
	switch column {
	case "category", "type":
		return false
	case "name":
		return r.Category != expform.CategoryResource
	}
	return true
}

// columnValue reads the current value of a column from a row.
func columnValue(r expform.Row, column string) string {
	switch column {
	case "category":
		return string(r.Category)
	case "name":
		return r.Name
	case "type":
		return string(r.Type)
	case "min":
		return r.Min
	case "max":
		return r.Max
	case "step":
		return r.Step
	case "list":
		return r.List
	}
	return ""
}

// indexOf returns the first index in [0,n) satisfying the predicate, or 0.
func indexOf(n int, match func(int) bool) int {
	for i := 0; i < n; i++ {
		if match(i) {
			return i
		}
	}
	return 0
}

// statusModel tracks the submission lifecycle for display.
type statusModel struct {
	spinner    spinner.Model
	submitting bool
	done       bool
	name       string
}

func newStatusModel() statusModel {
	s := spinner.NewModel()
	s.Spinner = spinner.Dot
	return statusModel{spinner: s}
}

func (m statusModel) Update(msg tea.Msg) (statusModel, tea.Cmd) {
	switch msg := msg.(type) {

	case submitRequestedMsg:
		m.submitting = true
		return m, spinner.Tick

	case submittedMsg:
		m.submitting = false
		m.done = true
		m.name = msg.Name

	case rejectedMsg:
		m.submitting = false

	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

// initializeModel puts all the child models into a usable state.
func (o *Options) initializeModel() {
	m := &o.metadataModel

	m.NameInput = createform.NewTextField()
	m.NameInput.Prompt = "Experiment name: "
	m.NameInput.Placeholder = "my-experiment"
	m.NameInput.Instructions = "lowercase DNS label, at most 30 characters"
	m.NameInput.Validator = &createform.ExperimentName{
		Required: "experiment name is required",
		Invalid:  "name must start with a letter and use lowercase letters, digits and dashes",
	}
	m.NameInput.Enable()

	m.NamespaceInput = createform.NewChoiceField()
	m.NamespaceInput.Prompt = "Namespace:"
	m.NamespaceInput.LoadingMessage = "Fetching namespaces ..."
	m.NamespaceInput.Instructions = "up/down to select, enter to confirm"
	m.NamespaceInput.Validator = &createform.Required{Error: "namespace is required"}
	m.NamespaceInput.Enable()

	m.ObjectiveTypeInput = createform.NewChoiceField()
	m.ObjectiveTypeInput.Prompt = "Objective:"
	m.ObjectiveTypeInput.Instructions = "up/down to select, enter to confirm"
	m.ObjectiveTypeInput.SetChoices([]string{
		string(expform.ObjectiveMaximize),
		string(expform.ObjectiveMinimize),
	})
	m.ObjectiveTypeInput.Enable()

	m.MetricInput = createform.NewTextField()
	m.MetricInput.Prompt = "Objective metric: "
	m.MetricInput.SetValue("qps")
	m.MetricInput.Validator = &createform.Required{Error: "objective metric is required", IgnoreSpace: true}
	m.MetricInput.Enable()

	m.AlgorithmInput = createform.NewChoiceField()
	m.AlgorithmInput.Prompt = "Algorithm:"
	m.AlgorithmInput.LoadingMessage = "Fetching algorithms ..."
	m.AlgorithmInput.Instructions = "up/down to select, enter to confirm"
	m.AlgorithmInput.Validator = &createform.Required{Error: "algorithm is required"}
	m.AlgorithmInput.Enable()

	m.ParallelismInput = createform.NewTextField()
	m.ParallelismInput.Prompt = "Parallelism: "
	m.ParallelismInput.SetValue("1")
	m.ParallelismInput.Validator = &createform.IntRange{
		Min:     expform.MinParallelism,
		Max:     expform.MaxParallelism,
		Invalid: "parallelism must be an integer between 1 and 8",
	}
	m.ParallelismInput.Enable()

	m.TrialsInput = createform.NewTextField()
	m.TrialsInput.Prompt = "Max trials: "
	m.TrialsInput.SetValue("4")
	m.TrialsInput.Validator = &createform.IntRange{
		Min:     expform.MinTrialCount,
		Max:     expform.MaxTrialCount,
		Invalid: "max trials must be an integer between 1 and 99",
	}
	m.TrialsInput.Enable()

	m.ServiceTemplateInput = createform.NewTextField()
	m.ServiceTemplateInput.Prompt = "Service pod template: "
	m.ServiceTemplateInput.Placeholder = "service.yaml"
	m.ServiceTemplateInput.Validator = &createform.File{
		Required:    "service pod template is required",
		Missing:     "file does not exist",
		RegularFile: "expected a file, not a directory",
	}
	m.ServiceTemplateInput.Enable()

	m.ClientTemplateInput = createform.NewTextField()
	m.ClientTemplateInput.Prompt = "Service client template: "
	m.ClientTemplateInput.Placeholder = "client.yaml"
	m.ClientTemplateInput.Validator = &createform.File{
		Required:    "service client template is required",
		Missing:     "file does not exist",
		RegularFile: "expected a file, not a directory",
	}
	m.ClientTemplateInput.Enable()

	o.parametersModel = parametersModel{store: o.state.Rows}
	o.statusModel = newStatusModel()
}
