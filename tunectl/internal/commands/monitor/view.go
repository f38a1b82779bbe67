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

package monitor

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/muesli/termenv"
	experimentsv1alpha1 "github.com/thestormforge/tune-console/tuneapi/experiments/v1alpha1"
)

// View returns a full rendering of the current state. This method is called
// from the event loop and must not block, it must return as fast as possible.
func (o *Options) View() string {
	var view strings.Builder

	switch o.mode {
	case modeList:
		view.WriteString(o.listView())
		view.WriteString(instructions("\nup/down: select  |  enter: details  |  left/right: page  |  r: refresh  |  q: quit\n"))
	case modeDetail:
		view.WriteString(o.detailView())
		view.WriteString(instructions("\nleft/right: trial page  |  r: refresh  |  esc: back  |  q: quit\n"))
	}

	if o.lastErr != nil {
		view.WriteString(errorText("\nError: " + o.lastErr.Error() + "\n"))
	}

	return view.String()
}

func (o *Options) listView() string {
	var view strings.Builder
	fmt.Fprintf(&view, "Experiments (page %d, %d total)\n\n", o.listPage, o.list.Total)

	if len(o.list.Items) == 0 {
		view.WriteString("  No experiments found.\n")
		return view.String()
	}

	tw := tabwriter.NewWriter(&view, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "  \tNAME\tNAMESPACE\tSTATUS\tCREATED\tDURATION\t")
	for i, item := range o.list.Items {
		marker := " "
		if i == o.cursor {
			marker = ">"
		}
		fmt.Fprintf(tw, "%s \t%s\t%s\t%s\t%s\t%s\t\n",
			marker, item.Name, item.Namespace, item.Status, item.CreateTime, item.Duration)
	}
	_ = tw.Flush()
	return view.String()
}

func (o *Options) detailView() string {
	if !o.haveDetail {
		return fmt.Sprintf("Fetching %q ...\n", o.detailName)
	}

	d := &o.detail
	var view strings.Builder
	fmt.Fprintf(&view, "Experiment: %s (%s)\n", d.Name, d.Status)
	fmt.Fprintf(&view, "Namespace:  %s\n", d.Namespace)
	fmt.Fprintf(&view, "Algorithm:  %s\n", d.AlgorithmName)
	fmt.Fprintf(&view, "Objective:  %s\n", d.Objective)
	fmt.Fprintf(&view, "Trials:     %d/%d succeeded (parallelism %d, limit %d)\n",
		d.TrialsSucceeded, d.TrialsTotal, d.Parallelism, d.MaxNumTrials)

	if len(d.Parameters) > 0 {
		view.WriteString("\nParameters:\n")
		tw := tabwriter.NewWriter(&view, 0, 0, 3, ' ', 0)
		fmt.Fprintln(tw, "  CATEGORY\tNAME\tTYPE\tSPACE\t")
		for _, p := range d.Parameters {
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t\n", p.Category, p.Name, p.Type, p.Space)
		}
		_ = tw.Flush()
	}

	if len(d.Trials) > 0 {
		fmt.Fprintf(&view, "\nTrials (page %d):\n", o.detailPage)
		view.WriteString(trialTable(d.Trials))
	}

	if len(d.OptimalTrials) > 0 {
		view.WriteString("\nCurrent optimal:\n")
		view.WriteString(trialTable(d.OptimalTrials))
	}

	return view.String()
}

// trialTable renders trial rows with their parameter samples in a stable order.
func trialTable(trials []experimentsv1alpha1.TrialSpec) string {
	var buf strings.Builder
	tw := tabwriter.NewWriter(&buf, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "  NAME\tSTATUS\tOBJECTIVE\tPARAMETERS\t")
	for _, t := range trials {
		objective := ""
		if t.ObjectiveValue != "" {
			objective = fmt.Sprintf("%s=%s", t.ObjectiveName, t.ObjectiveValue)
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t\n", t.Name, t.Status, objective, formatSamples(t.ParameterSamples))
	}
	_ = tw.Flush()
	return buf.String()
}

func formatSamples(samples map[string]string) string {
	keys := make([]string, 0, len(samples))
	for k := range samples {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+samples[k])
	}
	return strings.Join(pairs, ", ")
}

func instructions(s string) string {
	return termenv.Style{}.Foreground(termenv.ColorProfile().Color("241")).Styled(s)
}

func errorText(s string) string {
	return termenv.Style{}.Foreground(termenv.ColorProfile().Color("1")).Styled(s)
}
