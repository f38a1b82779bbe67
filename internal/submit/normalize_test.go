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

package submit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	experimentsv1alpha1 "github.com/thestormforge/tune-console/tuneapi/experiments/v1alpha1"

	"github.com/thestormforge/tune-console/internal/form"
)

func commitRow(t *testing.T, s *form.State, mutate func(*form.Row)) {
	t.Helper()
	key := s.Rows.AddRow()
	require.NoError(t, s.Rows.Apply(key, mutate))
	result := s.Rows.Save(key)
	require.True(t, result.Ok(), result.Message())
}

func demoState(t *testing.T) *form.State {
	s := form.NewState()
	s.Name = "demo-experiment"
	s.Namespace = "default"
	s.Algorithm.Name = "grid"
	s.ServiceTemplate = "metadata:\n  name: service\n"
	s.ClientTemplate = "metadata:\n  name: client\n"

	commitRow(t, s, func(r *form.Row) {
		r.SetType(form.TypeDiscrete)
		r.SetList("500m, 2000m")
	})
	return s
}

func TestBuildSubmission(t *testing.T) {
	sub, err := BuildSubmission(demoState(t))
	require.NoError(t, err)

	assert.Equal(t, experimentsv1alpha1.SubmissionAPIVersion, sub.Raw.APIVersion)
	assert.Equal(t, experimentsv1alpha1.SubmissionKind, sub.Raw.Kind)
	assert.Equal(t, "demo-experiment", sub.Raw.Metadata.Name)
	assert.Equal(t, "default", sub.Raw.Metadata.Namespace)
	assert.Equal(t, "maximize", sub.Raw.Spec.Objective.Type)
	assert.Equal(t, "qps", sub.Raw.Spec.Objective.ObjectiveMetricName)
	assert.Equal(t, "grid", sub.Raw.Spec.Algorithm.AlgorithmName)
	assert.Equal(t, int32(1), sub.Raw.Spec.Parallelism)
	assert.Equal(t, int32(4), sub.Raw.Spec.MaxNumTrials)
	assert.Equal(t, "metadata:\n  name: service\n", sub.ServicePodTemplate)
	assert.Equal(t, "metadata:\n  name: client\n", sub.ServiceClientTemplate)

	// One bucket: resource, with the CPU name lowercased and the list split on
	// commas with whitespace stripped
	require.Len(t, sub.Raw.Spec.TunableParameters, 1)
	grp := sub.Raw.Spec.TunableParameters[0]
	assert.Equal(t, experimentsv1alpha1.CategoryResource, grp.Category)
	require.Len(t, grp.Parameters, 1)
	assert.Equal(t, "cpu", grp.Parameters[0].Name)
	assert.Equal(t, experimentsv1alpha1.ParameterTypeDiscrete, grp.Parameters[0].ParameterType)
	assert.Equal(t, []string{"500m", "2000m"}, grp.Parameters[0].FeasibleSpace.List)
	assert.Empty(t, grp.Parameters[0].FeasibleSpace.Min)
}

func TestBuildSubmissionDeterministic(t *testing.T) {
	state := demoState(t)
	commitRow(t, state, func(r *form.Row) {
		r.SetCategory(form.CategoryEnv)
		r.SetName("BATCH_SIZE")
		r.SetType(form.TypeInt)
		r.SetMin("1")
		r.SetMax("8")
		r.SetStep("1")
	})

	first, err := BuildSubmission(state)
	require.NoError(t, err)
	second, err := BuildSubmission(state)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestBuildSubmissionBuckets(t *testing.T) {
	state := demoState(t)
	commitRow(t, state, func(r *form.Row) {
		r.SetCategory(form.CategoryArgs)
		r.SetName("warmup")
		r.SetType(form.TypeDouble)
		r.SetMin("0.1")
		r.SetMax("0.9")
		r.SetStep("0.1")
	})

	sub, err := BuildSubmission(state)
	require.NoError(t, err)

	// Empty env bucket omitted, fixed resource/env/args order preserved
	require.Len(t, sub.Raw.Spec.TunableParameters, 2)
	assert.Equal(t, experimentsv1alpha1.CategoryResource, sub.Raw.Spec.TunableParameters[0].Category)
	assert.Equal(t, experimentsv1alpha1.CategoryArgs, sub.Raw.Spec.TunableParameters[1].Category)

	// Non-resource names keep their case, numeric space goes out as min/max/step
	p := sub.Raw.Spec.TunableParameters[1].Parameters[0]
	assert.Equal(t, "warmup", p.Name)
	assert.Equal(t, experimentsv1alpha1.FeasibleSpace{Min: "0.1", Max: "0.9", Step: "0.1"}, p.FeasibleSpace)
}

func TestBuildSubmissionLowercasesFirstCharacter(t *testing.T) {
	state := form.NewState()
	state.Name = "Demo"
	state.Namespace = "default"

	sub, err := BuildSubmission(state)
	require.NoError(t, err)
	assert.Equal(t, "demo", sub.Raw.Metadata.Name)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"500m", "2000m"}, splitList("500m, 2000m"))
	assert.Equal(t, []string{"1", "2", "3"}, splitList(" 1,\t2 ,3 "))
}
