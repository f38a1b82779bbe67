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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	experimentsv1alpha1 "github.com/thestormforge/tune-console/tuneapi/experiments/v1alpha1"
)

func TestExtractList(t *testing.T) {
	m := &experimentsMeta{}

	lst := &experimentsv1alpha1.ExperimentList{
		Items: []experimentsv1alpha1.ExperimentSummary{
			{Name: "one"},
			{Name: "two"},
		},
	}
	items, err := m.ExtractList(lst)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, &lst.Items[0], items[0])

	// Detail rows are the trials, not the experiment itself
	detail := &experimentsv1alpha1.ExperimentDetail{
		Trials: []experimentsv1alpha1.TrialSpec{
			{Name: "one-0000"},
		},
	}
	items, err = m.ExtractList(detail)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, &detail.Trials[0], items[0])
}

func TestColumns(t *testing.T) {
	m := &experimentsMeta{}

	cases := []struct {
		desc         string
		obj          interface{}
		outputFormat string
		columns      []string
	}{
		{
			desc:    "List",
			obj:     &experimentsv1alpha1.ExperimentList{},
			columns: []string{"name", "namespace", "status", "created"},
		},
		{
			desc:         "ListWide",
			obj:          &experimentsv1alpha1.ExperimentList{},
			outputFormat: "wide",
			columns:      []string{"name", "namespace", "status", "created", "ended", "duration"},
		},
		{
			desc:    "Detail",
			obj:     &experimentsv1alpha1.ExperimentDetail{},
			columns: []string{"name", "status", "objective"},
		},
		{
			desc: "DetailCSV",
			obj: &experimentsv1alpha1.ExperimentDetail{
				Parameters: []experimentsv1alpha1.ParameterSpec{
					{Name: "cpu"},
					{Name: "memory"},
				},
			},
			outputFormat: "csv",
			columns:      []string{"name", "status", "objective", "parameter_cpu", "parameter_memory"},
		},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			assert.Equal(t, c.columns, m.Columns(c.obj, c.outputFormat))
		})
	}
}

func TestExtractValue(t *testing.T) {
	m := &experimentsMeta{}

	trial := &experimentsv1alpha1.TrialSpec{
		Name:           "one-0007",
		Status:         "Succeeded",
		ObjectiveName:  "qps",
		ObjectiveValue: "123",
		ParameterSamples: map[string]string{
			"cpu": "2",
		},
	}

	cases := []struct {
		desc   string
		obj    interface{}
		column string
		value  string
	}{
		{
			desc:   "SummaryName",
			obj:    &experimentsv1alpha1.ExperimentSummary{Name: "one"},
			column: "name",
			value:  "one",
		},
		{
			desc:   "SummaryStatus",
			obj:    &experimentsv1alpha1.ExperimentSummary{Status: experimentsv1alpha1.ExperimentRunning},
			column: "status",
			value:  "Running",
		},
		{
			desc:   "TrialObjective",
			obj:    trial,
			column: "objective",
			value:  "qps=123",
		},
		{
			desc:   "TrialObjectivePending",
			obj:    &experimentsv1alpha1.TrialSpec{ObjectiveName: "qps"},
			column: "objective",
			value:  "",
		},
		{
			desc:   "TrialParameterSample",
			obj:    trial,
			column: "parameter_cpu",
			value:  "2",
		},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			value, err := m.ExtractValue(c.obj, c.column)
			if assert.NoError(t, err) {
				assert.Equal(t, c.value, value)
			}
		})
	}

	_, err := m.ExtractValue(trial, "bogus")
	assert.Error(t, err)
}

func TestHeader(t *testing.T) {
	m := &experimentsMeta{}
	assert.Equal(t, "NAME", m.Header("", "name"))
	assert.Equal(t, "name", m.Header("csv", "name"))
}
