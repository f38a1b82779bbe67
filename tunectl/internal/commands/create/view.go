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
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/muesli/termenv"
)

// View returns a full rendering of the current state. This method is called
// from the event loop and must not block, it must return as fast as possible.
func (o *Options) View() string {
	var lines []string

	switch o.stage {
	case stageMetadata:
		lines = append(lines, o.metadataModel.form().View())
	case stageParameters:
		lines = append(lines, o.parametersModel.View())
	case stageSubmitting:
		lines = append(lines, fmt.Sprintf("%s Submitting experiment ...", o.statusModel.spinner.View()))
	case stageDone:
		lines = append(lines, statusf("🎉", "Experiment %q submitted, monitor it with 'tunectl monitor %s'", o.statusModel.name, o.statusModel.name))
	}

	if o.maybeQuit {
		lines = append(lines, "\n", statusf("😢", "Are you sure you want to quit? [Y/n]: "))
	}

	if o.lastErr != nil {
		lines = append(lines, "\n", statusf("❌", "Error: %s", o.lastErr.Error()))
	}

	return strings.Join(lines, "")
}

func (m parametersModel) View() string {
	var view strings.Builder

	view.WriteString("Tunable parameters:\n\n")
	view.WriteString(m.tableView())

	if m.editKey != "" {
		view.WriteString(m.editView())
	} else {
		view.WriteString(instructions("\na: add  |  e: edit  |  d: delete  |  s: submit  |  q: quit\n"))
	}

	if m.saveErr != "" {
		view.WriteString(errorText("\n" + m.saveErr + "\n"))
	}
	if m.submitErr != "" {
		view.WriteString(errorText("\n" + m.submitErr + "\n"))
	}

	return view.String()
}

// tableView renders the rows, marking the cursor and any row under edit.
func (m parametersModel) tableView() string {
	rows := m.store.Rows()
	if len(rows) == 0 {
		return "  (no parameters yet)\n"
	}

	var buf strings.Builder
	tw := tabwriter.NewWriter(&buf, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "  \tCATEGORY\tNAME\tTYPE\tMIN\tMAX\tSTEP\tLIST\t")
	for i, r := range rows {
		marker := " "
		if i == m.cursor && m.editKey == "" {
			marker = ">"
		}
		if r.Key == m.editKey {
			marker = "*"
		}
		fmt.Fprintf(tw, "%s \t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			marker, r.Category, r.Name, r.Type, r.Min, r.Max, r.Step, r.List)
	}
	_ = tw.Flush()
	return buf.String()
}

// editView renders the active edit line below the table.
func (m parametersModel) editView() string {
	r := m.row(m.editKey)
	columns := editColumns(r)
	column := columns[m.editField]

	var view strings.Builder
	view.WriteString("\n")

	if isTextColumn(r, column) {
		view.WriteString(m.textInput.View())
		view.WriteString("\n")
	} else {
		view.WriteString(fmt.Sprintf("%s> %s\n", column, columnValue(r, column)))
	}

	view.WriteString(instructions("left/right: change  |  tab: next field  |  enter: save  |  esc: cancel\n"))
	return view.String()
}

func instructions(s string) string {
	return termenv.Style{}.Foreground(termenv.ColorProfile().Color("241")).Styled(s)
}

func errorText(s string) string {
	return termenv.Style{}.Foreground(termenv.ColorProfile().Color("1")).Styled(s)
}

func statusf(icon, format string, args ...interface{}) string {
	return fmt.Sprintf("%s %s", icon, fmt.Sprintf(format, args...))
}
