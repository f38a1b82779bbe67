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
	"regexp"
)

// ObjectiveType is the optimization direction of the experiment objective.
type ObjectiveType string

const (
	ObjectiveMaximize ObjectiveType = "maximize"
	ObjectiveMinimize ObjectiveType = "minimize"
)

// Objective pairs the optimization direction with the metric being optimized.
type Objective struct {
	Type   ObjectiveType
	Metric string
}

// Algorithm names the tuning algorithm plus optional settings.
type Algorithm struct {
	Name     string
	Settings map[string]string
}

// Form bounds for the scalar fields.
const (
	MinParallelism = 1
	MaxParallelism = 8
	MinTrialCount  = 1
	MaxTrialCount  = 99
)

// experimentNamePattern is the rule for the experiment name itself (stricter than
// parameter names: DNS label shaped).
var experimentNamePattern = regexp.MustCompile(`^[a-z][-a-z0-9]{0,28}[a-z0-9]$`)

// ValidExperimentName reports whether the supplied name may be used as an
// experiment name.
func ValidExperimentName(name string) bool {
	return experimentNamePattern.MatchString(name)
}

// State is the aggregate held by the create-experiment view for its lifetime. It is
// discarded on navigation away and never persisted beyond the active session.
type State struct {
	Name      string
	Namespace string

	Objective   Objective
	Algorithm   Algorithm
	Parallelism int
	MaxTrials   int

	Rows *RowStore

	// Raw YAML blobs submitted alongside the structured spec.
	ServiceTemplate string
	ClientTemplate  string
}

// NewState returns a form state with the default scalar values and an empty row
// collection.
func NewState() *State {
	s := &State{
		Objective:   Objective{Type: ObjectiveMaximize, Metric: "qps"},
		Parallelism: 1,
		MaxTrials:   4,
	}
	s.Rows = NewRowStore(nil)
	return s
}

// CheckMetadata validates the scalar form fields. Row-level validation is handled
// by the store at save time.
func (s *State) CheckMetadata() error {
	if !experimentNamePattern.MatchString(s.Name) {
		return fmt.Errorf("experiment name %q must be a lowercase DNS label of at most 30 characters", s.Name)
	}
	if s.Namespace == "" {
		return fmt.Errorf("namespace is required")
	}
	if s.Algorithm.Name == "" {
		return fmt.Errorf("algorithm is required")
	}
	if s.Objective.Type != ObjectiveMaximize && s.Objective.Type != ObjectiveMinimize {
		return fmt.Errorf("objective type must be maximize or minimize")
	}
	if s.Objective.Metric == "" {
		return fmt.Errorf("objective metric is required")
	}
	if s.Parallelism < MinParallelism || s.Parallelism > MaxParallelism {
		return fmt.Errorf("parallelism must be between %d and %d", MinParallelism, MaxParallelism)
	}
	if s.MaxTrials < MinTrialCount || s.MaxTrials > MaxTrialCount {
		return fmt.Errorf("max trials must be between %d and %d", MinTrialCount, MaxTrialCount)
	}
	return nil
}
