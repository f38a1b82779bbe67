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

// Package fake provides an in-memory implementation of the experiments API for
// tests and offline development.
package fake

import (
	"context"
	"fmt"
	"sync"
	"time"

	experimentsv1alpha1 "github.com/thestormforge/tune-console/tuneapi/experiments/v1alpha1"
	"sigs.k8s.io/yaml"
)

// API is an in-memory experiments API. The zero value is usable; all methods are
// safe for concurrent use.
type API struct {
	mu sync.Mutex

	experiments []experimentsv1alpha1.ExperimentDetail
	versions    []experimentsv1alpha1.ServiceVersion

	namespaces []string
	algorithms []string

	// SubmitErr, when set, is returned by both submission endpoints.
	SubmitErr error
}

var _ experimentsv1alpha1.API = &API{}

// NewAPI returns a fake populated with default namespaces and algorithms.
func NewAPI() *API {
	return &API{
		namespaces: []string{"default", "morphling-system"},
		algorithms: []string{"grid", "random", "bayesian"},
	}
}

// AddExperiment seeds an experiment into the fake.
func (f *API) AddExperiment(d experimentsv1alpha1.ExperimentDetail) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.experiments = append(f.experiments, d)
}

func (f *API) ListExperiments(_ context.Context, q *experimentsv1alpha1.ExperimentListQuery) (experimentsv1alpha1.ExperimentList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matched []experimentsv1alpha1.ExperimentSummary
	for i := range f.experiments {
		e := &f.experiments[i]
		if q != nil {
			if q.Name != "" && e.Name != q.Name {
				continue
			}
			if q.Namespace != "" && q.Namespace != "All" && e.Namespace != q.Namespace {
				continue
			}
			if q.Status != "" && q.Status != experimentsv1alpha1.ExperimentStatusAll && e.Status != q.Status {
				continue
			}
		}
		matched = append(matched, e.ExperimentSummary)
	}

	lst := experimentsv1alpha1.ExperimentList{Total: len(matched)}
	lst.Items = paginate(matched, q)
	return lst, nil
}

func paginate(items []experimentsv1alpha1.ExperimentSummary, q *experimentsv1alpha1.ExperimentListQuery) []experimentsv1alpha1.ExperimentSummary {
	if q == nil || q.PageSize <= 0 {
		return items
	}
	page := q.CurrentPage
	if page < 1 {
		page = 1
	}
	lo := (page - 1) * q.PageSize
	if lo >= len(items) {
		return nil
	}
	hi := lo + q.PageSize
	if hi > len(items) {
		hi = len(items)
	}
	return items[lo:hi]
}

func (f *API) GetExperimentDetail(_ context.Context, q *experimentsv1alpha1.ExperimentDetailQuery) (experimentsv1alpha1.ExperimentDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.experiments {
		e := f.experiments[i]
		if e.Name == q.Name && (q.Namespace == "" || e.Namespace == q.Namespace) {
			return e, nil
		}
	}
	return experimentsv1alpha1.ExperimentDetail{}, &experimentsv1alpha1.Error{
		Type:    experimentsv1alpha1.ErrExperimentNotFound,
		Message: fmt.Sprintf("not found: %s/%s", q.Namespace, q.Name),
	}
}

func (f *API) DeleteExperiment(_ context.Context, namespace, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.experiments {
		if f.experiments[i].Name == name && f.experiments[i].Namespace == namespace {
			f.experiments = append(f.experiments[:i], f.experiments[i+1:]...)
			return nil
		}
	}
	return &experimentsv1alpha1.Error{
		Type:    experimentsv1alpha1.ErrExperimentNotFound,
		Message: fmt.Sprintf("not found: %s/%s", namespace, name),
	}
}

func (f *API) SubmitYAML(_ context.Context, raw string) error {
	if f.SubmitErr != nil {
		return f.SubmitErr
	}

	res := experimentsv1alpha1.ExperimentResource{}
	if err := yaml.Unmarshal([]byte(raw), &res); err != nil {
		return &experimentsv1alpha1.Error{
			Type:    experimentsv1alpha1.ErrSubmissionRejected,
			Message: fmt.Sprintf("failed to submit experiment, err: %s", err),
		}
	}
	f.record(res)
	return nil
}

func (f *API) SubmitParameters(_ context.Context, sub experimentsv1alpha1.Submission) error {
	if f.SubmitErr != nil {
		return f.SubmitErr
	}
	f.record(sub.Raw)
	return nil
}

func (f *API) record(res experimentsv1alpha1.ExperimentResource) {
	f.mu.Lock()
	defer f.mu.Unlock()

	d := experimentsv1alpha1.ExperimentDetail{
		ExperimentSummary: experimentsv1alpha1.ExperimentSummary{
			Name:       res.Metadata.Name,
			Namespace:  res.Metadata.Namespace,
			Status:     experimentsv1alpha1.ExperimentCreated,
			CreateTime: time.Now().UTC().Format(time.RFC3339),
		},
		AlgorithmName: res.Spec.Algorithm.AlgorithmName,
		MaxNumTrials:  res.Spec.MaxNumTrials,
		Objective:     res.Spec.Objective.ObjectiveMetricName,
		Parallelism:   res.Spec.Parallelism,
	}
	for _, grp := range res.Spec.TunableParameters {
		for _, p := range grp.Parameters {
			d.Parameters = append(d.Parameters, experimentsv1alpha1.ParameterSpec{
				Category: string(grp.Category),
				Name:     p.Name,
				Type:     string(p.ParameterType),
				Space:    renderSpace(p.FeasibleSpace),
			})
		}
	}
	f.experiments = append(f.experiments, d)
}

func renderSpace(fs experimentsv1alpha1.FeasibleSpace) string {
	if len(fs.List) > 0 {
		out := ""
		for i, v := range fs.List {
			if i > 0 {
				out += ","
			}
			out += v
		}
		return out
	}
	return fmt.Sprintf("%s..%s/%s", fs.Min, fs.Max, fs.Step)
}

func (f *API) TotalResources(context.Context) (experimentsv1alpha1.ClusterTotal, error) {
	return experimentsv1alpha1.ClusterTotal{TotalCPU: 64, TotalMemory: 256 << 30, TotalGPU: 8}, nil
}

func (f *API) RunningRequests(context.Context) (experimentsv1alpha1.ClusterRequest, error) {
	return experimentsv1alpha1.ClusterRequest{RequestCPU: 16, RequestMemory: 64 << 30, RequestGPU: 2}, nil
}

func (f *API) NodeInfos(context.Context) (experimentsv1alpha1.NodeInfoList, error) {
	return experimentsv1alpha1.NodeInfoList{Items: []experimentsv1alpha1.NodeInfo{
		{NodeName: "node-0", InstanceType: "bare-metal", TotalCPU: 32, TotalMemory: 128 << 30, TotalGPU: 4},
		{NodeName: "node-1", InstanceType: "bare-metal", TotalCPU: 32, TotalMemory: 128 << 30, TotalGPU: 4},
	}}, nil
}

func (f *API) Config(context.Context) (experimentsv1alpha1.DeployConfig, error) {
	return experimentsv1alpha1.DeployConfig{Namespace: "morphling-system"}, nil
}

func (f *API) Namespaces(context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.namespaces...), nil
}

func (f *API) AlgorithmNames(context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.algorithms...), nil
}

func (f *API) ListServiceVersions(context.Context) ([]experimentsv1alpha1.ServiceVersion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]experimentsv1alpha1.ServiceVersion(nil), f.versions...), nil
}

func (f *API) CreateServiceVersion(_ context.Context, sv experimentsv1alpha1.ServiceVersion) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if sv.CreationTime == "" {
		sv.CreationTime = time.Now().UTC().Format(time.RFC3339)
	}
	f.versions = append(f.versions, sv)
	return nil
}
