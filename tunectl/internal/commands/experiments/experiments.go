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

package experiments

import (
	"fmt"
	"io"
	"strings"

	"github.com/thestormforge/tune-console/tuneapi"
	experimentsv1alpha1 "github.com/thestormforge/tune-console/tuneapi/experiments/v1alpha1"
	"github.com/thestormforge/tune-console/tunectl/internal/commander"
)

// Options are the common options for interacting with the console API
type Options struct {
	// Config is the console client configuration
	Config *tuneapi.ClientConfig
	// ConsoleAPI is used to interact with the console backend
	ConsoleAPI experimentsv1alpha1.API
	// Printer is the resource printer used to render objects from the console API
	Printer commander.ResourcePrinter
	// IOStreams are used to access the standard process streams
	commander.IOStreams
}

// verbPrinter reports a single past-tense action for an object
type verbPrinter struct {
	verb string
}

func (v *verbPrinter) PrintObj(obj interface{}, w io.Writer) error {
	switch o := obj.(type) {
	case *experimentsv1alpha1.ExperimentSummary:
		_, _ = fmt.Fprintf(w, "experiment \"%s\" %s\n", o.Name, v.verb)
	case *experimentsv1alpha1.ExperimentDetail:
		_, _ = fmt.Fprintf(w, "experiment \"%s\" %s\n", o.Name, v.verb)
	default:
		return fmt.Errorf("could not print \"%s\" for: %T", v.verb, obj)
	}
	return nil
}

// experimentsMeta is the metadata extraction necessary for printing console API objects
type experimentsMeta struct{}

// ExtractList returns the items from an API list object
func (m *experimentsMeta) ExtractList(obj interface{}) ([]interface{}, error) {
	if o, ok := obj.(*experimentsv1alpha1.ExperimentList); ok {
		list := make([]interface{}, len(o.Items))
		for i := range o.Items {
			list[i] = &o.Items[i]
		}
		return list, nil
	}

	if o, ok := obj.(*experimentsv1alpha1.ExperimentDetail); ok {
		list := make([]interface{}, len(o.Trials))
		for i := range o.Trials {
			list[i] = &o.Trials[i]
		}
		return list, nil
	}

	if obj != nil {
		return []interface{}{obj}, nil
	}

	return nil, nil
}

// Columns returns the column names to use
func (m *experimentsMeta) Columns(obj interface{}, outputFormat string) []string {
	switch o := obj.(type) {
	case *experimentsv1alpha1.ExperimentList:
		columns := []string{"name", "namespace", "status", "created"}
		if outputFormat == "wide" {
			columns = append(columns, "ended", "duration")
		}
		return columns

	case *experimentsv1alpha1.ExperimentDetail:
		// Trial rows: CSV columns should correspond to the parameter names
		columns := []string{"name", "status", "objective"}
		if outputFormat == "csv" {
			for i := range o.Parameters {
				columns = append(columns, "parameter_"+o.Parameters[i].Name)
			}
			return columns
		}
		if outputFormat == "wide" {
			columns = append(columns, "created")
		}
		return columns
	}

	return []string{"name"}
}

// ExtractValue returns a cell value
func (m *experimentsMeta) ExtractValue(obj interface{}, column string) (string, error) {
	switch o := obj.(type) {
	case *experimentsv1alpha1.ExperimentSummary:
		switch column {
		case "name":
			return o.Name, nil
		case "namespace":
			return o.Namespace, nil
		case "status":
			return string(o.Status), nil
		case "created":
			return o.CreateTime, nil
		case "ended":
			return o.EndTime, nil
		case "duration":
			return o.Duration, nil
		}
	case *experimentsv1alpha1.TrialSpec:
		switch column {
		case "name":
			return o.Name, nil
		case "status":
			return o.Status, nil
		case "objective":
			if o.ObjectiveValue == "" {
				return "", nil
			}
			return fmt.Sprintf("%s=%s", o.ObjectiveName, o.ObjectiveValue), nil
		case "created":
			return o.CreateTime, nil
		default:
			// This could be a parameter sample column
			if pn := strings.TrimPrefix(column, "parameter_"); pn != column {
				return o.ParameterSamples[pn], nil
			}
		}
	case *experimentsv1alpha1.ServiceVersion:
		switch column {
		case "name":
			return o.Name, nil
		case "version":
			return o.Version, nil
		case "model":
			return o.ModelName, nil
		case "created":
			return o.CreationTime, nil
		}
	}
	return "", fmt.Errorf("unable to get value for column %s", column)
}

// Header returns the header name to use for a column
func (m *experimentsMeta) Header(outputFormat string, column string) string {
	if strings.ToLower(outputFormat) == "csv" {
		return column
	}
	return strings.ToUpper(column)
}
