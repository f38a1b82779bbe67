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

// Package v1alpha1 contains bindings for the alternate console backend. Unlike the
// primary surface, success here is the plain HTTP status; there is no embedded
// envelope code.
package v1alpha1

import (
	"context"
	"encoding/json"
)

const endpointPrefix = "/morphling"

// JobView is a single experiment row as reported by fetch_hp_jobs.
type JobView struct {
	Name      string `json:"Name"`
	Status    string `json:"Status"`
	Namespace string `json:"Namespace"`
}

// Suggestion is the raw suggestion document for an experiment.
type Suggestion struct {
	Name        string          `json:"name"`
	Namespace   string          `json:"namespace"`
	Assignments json.RawMessage `json:"assignments,omitempty"`
}

// API provides bindings for the alternate backend endpoints. Job info and trial info
// are returned as CSV text, the shape the backend renders for its chart views.
type API interface {
	SubmitProfilingYAML(ctx context.Context, raw string) error
	SubmitTrialYAML(ctx context.Context, raw string) error
	SubmitHPJob(ctx context.Context, body []byte) error
	DeleteExperiment(ctx context.Context, namespace, name string) error

	FetchHPJobs(ctx context.Context) ([]JobView, error)
	FetchHPJobInfo(ctx context.Context, namespace, name string) (string, error)
	FetchHPJobTrialInfo(ctx context.Context, namespace, trialName string) (string, error)
	FetchExperiment(ctx context.Context, namespace, name string) (json.RawMessage, error)
	FetchSuggestion(ctx context.Context, namespace, name string) (Suggestion, error)
	FetchNamespaces(ctx context.Context) ([]string, error)
}
