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

package v1alpha1

// The structured submission body accepted by the submitPars endpoint. The nested
// "raw" document mirrors the experiment custom resource; the two pod templates ride
// alongside as opaque YAML.

const (
	// SubmissionAPIVersion is the API version recorded on every structured submission.
	SubmissionAPIVersion = "tuning.kubedl.io/v1alpha1"
	// SubmissionKind is the resource kind recorded on every structured submission.
	SubmissionKind = "ProfilingExperiment"
)

type ParameterCategory string

const (
	CategoryResource ParameterCategory = "resource"
	CategoryEnv      ParameterCategory = "env"
	CategoryArgs     ParameterCategory = "args"
)

type ParameterType string

const (
	ParameterTypeInt      ParameterType = "int"
	ParameterTypeDouble   ParameterType = "double"
	ParameterTypeDiscrete ParameterType = "discrete"
)

// FeasibleSpace is either a numeric range (min, max, step) or an enumerated list.
type FeasibleSpace struct {
	Min  string   `json:"min,omitempty"`
	Max  string   `json:"max,omitempty"`
	Step string   `json:"step,omitempty"`
	List []string `json:"list,omitempty"`
}

// Parameter is one dimension of the search space.
type Parameter struct {
	Name          string        `json:"name"`
	ParameterType ParameterType `json:"parameterType"`
	FeasibleSpace FeasibleSpace `json:"feasibleSpace"`
}

// ParameterGroup collects the parameters of a single category.
type ParameterGroup struct {
	Category   ParameterCategory `json:"category"`
	Parameters []Parameter       `json:"parameters"`
}

type ObjectiveSpec struct {
	Type                string `json:"type"`
	ObjectiveMetricName string `json:"objectiveMetricName"`
}

type AlgorithmSpec struct {
	AlgorithmName string            `json:"algorithmName"`
	Settings      map[string]string `json:"settings,omitempty"`
}

type SubmissionMetadata struct {
	Name        string            `json:"name"`
	Namespace   string            `json:"namespace"`
	Annotations map[string]string `json:"annotations"`
}

type SubmissionSpec struct {
	Objective         ObjectiveSpec    `json:"objective"`
	Algorithm         AlgorithmSpec    `json:"algorithm"`
	Parallelism       int32            `json:"parallelism"`
	MaxNumTrials      int32            `json:"maxNumTrials"`
	TunableParameters []ParameterGroup `json:"tunableParameters"`
}

// ExperimentResource is the structured experiment document.
type ExperimentResource struct {
	APIVersion string             `json:"apiVersion"`
	Kind       string             `json:"kind"`
	Metadata   SubmissionMetadata `json:"metadata"`
	Spec       SubmissionSpec     `json:"spec"`
}

// Submission is the full submitPars request body.
type Submission struct {
	Raw                   ExperimentResource `json:"raw"`
	ServicePodTemplate    string             `json:"servicePodTemplate"`
	ServiceClientTemplate string             `json:"serviceClientTemplate"`
}
