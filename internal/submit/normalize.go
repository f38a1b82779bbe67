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

// Package submit turns form state into the wire-format experiment submission and
// performs the actual submission. There is a single normalizer and a single
// submission path; the structured form and the raw YAML editor are just two input
// adapters feeding it.
package submit

import (
	"fmt"
	"strings"

	"github.com/thestormforge/tune-console/internal/form"
	experimentsv1alpha1 "github.com/thestormforge/tune-console/tuneapi/experiments/v1alpha1"
)

// BuildSubmission converts the flat form state into the nested submission document.
// The transform is pure and deterministic: identical states yield structurally
// identical submissions. Only committed rows participate.
func BuildSubmission(state *form.State) (experimentsv1alpha1.Submission, error) {
	sub := experimentsv1alpha1.Submission{
		Raw: experimentsv1alpha1.ExperimentResource{
			APIVersion: experimentsv1alpha1.SubmissionAPIVersion,
			Kind:       experimentsv1alpha1.SubmissionKind,
			Metadata: experimentsv1alpha1.SubmissionMetadata{
				Name:        deCapitalize(state.Name),
				Namespace:   state.Namespace,
				Annotations: map[string]string{},
			},
			Spec: experimentsv1alpha1.SubmissionSpec{
				Objective: experimentsv1alpha1.ObjectiveSpec{
					Type:                string(state.Objective.Type),
					ObjectiveMetricName: state.Objective.Metric,
				},
				Algorithm: experimentsv1alpha1.AlgorithmSpec{
					AlgorithmName: state.Algorithm.Name,
					Settings:      state.Algorithm.Settings,
				},
				Parallelism:  int32(state.Parallelism),
				MaxNumTrials: int32(state.MaxTrials),
			},
		},
		ServicePodTemplate:    state.ServiceTemplate,
		ServiceClientTemplate: state.ClientTemplate,
	}

	buckets := map[form.Category]*experimentsv1alpha1.ParameterGroup{
		form.CategoryResource: {Category: experimentsv1alpha1.CategoryResource},
		form.CategoryEnv:      {Category: experimentsv1alpha1.CategoryEnv},
		form.CategoryArgs:     {Category: experimentsv1alpha1.CategoryArgs},
	}

	for _, row := range state.Rows.Committed() {
		bucket, ok := buckets[row.Category]
		if !ok {
			return sub, fmt.Errorf("unknown parameter category %q", row.Category)
		}

		p := experimentsv1alpha1.Parameter{
			Name:          row.Name,
			ParameterType: experimentsv1alpha1.ParameterType(row.Type),
		}
		if row.Type == form.TypeDiscrete {
			p.FeasibleSpace = experimentsv1alpha1.FeasibleSpace{List: splitList(row.List)}
		} else {
			p.FeasibleSpace = experimentsv1alpha1.FeasibleSpace{Min: row.Min, Max: row.Max, Step: row.Step}
		}

		// Resource parameter names are backed by resource-list keys on the server
		if row.Category == form.CategoryResource {
			p.Name = strings.ToLower(p.Name)
		}

		bucket.Parameters = append(bucket.Parameters, p)
	}

	// Empty buckets are omitted, in a fixed order
	for _, c := range []form.Category{form.CategoryResource, form.CategoryEnv, form.CategoryArgs} {
		if len(buckets[c].Parameters) > 0 {
			sub.Raw.Spec.TunableParameters = append(sub.Raw.Spec.TunableParameters, *buckets[c])
		}
	}

	return sub, nil
}

// splitList splits a comma separated value list, stripping all whitespace.
func splitList(v string) []string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, v)
	return strings.Split(cleaned, ",")
}

// deCapitalize lowercases the first character of the experiment name.
func deCapitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
