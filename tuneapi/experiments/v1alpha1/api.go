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

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"time"
)

const (
	endpointExperiment     = "/api/v1alpha1/experiment"
	endpointData           = "/api/v1alpha1/data"
	endpointServiceVersion = "/api/v1alpha1/llm-service-version"
)

// envelopeSuccess is the application-level success code carried in the response
// envelope. It is checked independently of the HTTP status.
const envelopeSuccess = "200"

type ErrorType string

const (
	ErrSubmissionRejected ErrorType = "submission-rejected"
	ErrExperimentNotFound ErrorType = "experiment-not-found"
	ErrUnauthorized       ErrorType = "unauthorized"
	ErrUnexpected         ErrorType = "unexpected"
)

// Error represents the API specific error messages and may be used in response to
// both HTTP status codes and envelope codes.
type Error struct {
	Type    ErrorType `json:"-"`
	Message string    `json:"message"`
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Type)
}

// IsRejected checks to see if the error is an application-level rejection reported
// through the response envelope.
func IsRejected(err error) bool {
	aerr, ok := err.(*Error)
	return ok && aerr.Type == ErrSubmissionRejected
}

// IsNotFound checks to see if the error indicates a missing experiment.
func IsNotFound(err error) bool {
	aerr, ok := err.(*Error)
	return ok && aerr.Type == ErrExperimentNotFound
}

// IsUnauthorized checks to see if the error is an authorization failure.
func IsUnauthorized(err error) bool {
	aerr, ok := err.(*Error)
	return ok && aerr.Type == ErrUnauthorized
}

// ExperimentStatus is the aggregated phase of an experiment.
type ExperimentStatus string

const (
	ExperimentCreated   ExperimentStatus = "Created"
	ExperimentWaiting   ExperimentStatus = "Waiting"
	ExperimentRunning   ExperimentStatus = "Running"
	ExperimentSucceeded ExperimentStatus = "Succeeded"
	ExperimentFailed    ExperimentStatus = "Failed"
	ExperimentStopped   ExperimentStatus = "Stopped"

	// ExperimentStatusAll is a filter-only pseudo-status matching everything; it is
	// never reported by the server.
	ExperimentStatusAll ExperimentStatus = "All"
)

// UnmarshalJSON normalizes the legacy "Pending" wire value to Waiting.
func (s *ExperimentStatus) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw == "Pending" {
		raw = string(ExperimentWaiting)
	}
	*s = ExperimentStatus(raw)
	return nil
}

// ExperimentSummary is a single row of the experiment list.
type ExperimentSummary struct {
	Name      string           `json:"name"`
	Namespace string           `json:"namespace"`
	UserID    string           `json:"UserId,omitempty"`
	UserName  string           `json:"UserName,omitempty"`
	Status    ExperimentStatus `json:"peStatus"`
	// Timestamps are RFC 3339 strings formatted by the server.
	CreateTime string `json:"createTime"`
	EndTime    string `json:"endTime"`
	Duration   string `json:"durationTime"`
}

// ParameterSpec is the read-only projection of one tunable parameter.
type ParameterSpec struct {
	Category string `json:"category"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	// Space is the rendered feasible space, either "min..max/step" or the value list.
	Space string `json:"space"`
}

// TrialSpec is one sampled configuration evaluated within an experiment.
type TrialSpec struct {
	Name             string            `json:"name"`
	Status           string            `json:"Status"`
	ObjectiveName    string            `json:"objectiveName"`
	ObjectiveValue   string            `json:"objectiveValue"`
	ParameterSamples map[string]string `json:"parameterSamples"`
	CreateTime       string            `json:"createTime"`
}

// ExperimentDetail is the full projection of a single experiment including its
// parameter list and trials.
type ExperimentDetail struct {
	ExperimentSummary

	TrialsTotal     int32           `json:"trialsTotal"`
	TrialsSucceeded int32           `json:"trialsSucceeded"`
	AlgorithmName   string          `json:"algorithmName"`
	MaxNumTrials    int32           `json:"maxNumTrials"`
	Objective       string          `json:"objective"`
	Parallelism     int32           `json:"parallelism"`
	Parameters      []ParameterSpec `json:"parameters"`
	Trials          []TrialSpec     `json:"trials"`
	OptimalTrials   []TrialSpec     `json:"currentOptimalTrials,omitempty"`
}

// ExperimentListQuery is the filter/pagination criteria for the experiment list.
// The zero value of a field omits it from the query.
type ExperimentListQuery struct {
	Name      string
	Namespace string
	Status    ExperimentStatus
	StartTime time.Time
	EndTime   time.Time

	CurrentPage int
	PageSize    int
}

func (q *ExperimentListQuery) Encode() string {
	v := url.Values{}
	if q == nil {
		return ""
	}
	if q.Name != "" {
		v.Set("name", q.Name)
	}
	if q.Namespace != "" && q.Namespace != "All" {
		v.Set("namespace", q.Namespace)
	}
	if q.Status != "" && q.Status != ExperimentStatusAll {
		v.Set("status", string(q.Status))
	}
	if !q.StartTime.IsZero() {
		v.Set("start_time", q.StartTime.UTC().Format(time.RFC3339))
	}
	if !q.EndTime.IsZero() {
		v.Set("end_time", q.EndTime.UTC().Format(time.RFC3339))
	}
	if q.CurrentPage != 0 {
		v.Set("current_page", strconv.Itoa(q.CurrentPage))
	}
	if q.PageSize != 0 {
		v.Set("page_size", strconv.Itoa(q.PageSize))
	}
	return v.Encode()
}

// ExperimentDetailQuery selects a single experiment plus trial pagination.
type ExperimentDetailQuery struct {
	Name      string
	Namespace string

	CurrentPage int
	PageSize    int
}

func (q *ExperimentDetailQuery) Encode() string {
	v := url.Values{}
	if q == nil {
		return ""
	}
	if q.Name != "" {
		v.Set("name", q.Name)
	}
	if q.Namespace != "" {
		v.Set("namespace", q.Namespace)
	}
	if q.CurrentPage != 0 {
		v.Set("current_page", strconv.Itoa(q.CurrentPage))
	}
	if q.PageSize != 0 {
		v.Set("page_size", strconv.Itoa(q.PageSize))
	}
	return v.Encode()
}

// ExperimentList is one page of experiment summaries plus the unpaged total.
type ExperimentList struct {
	Items []ExperimentSummary `json:"peInfos"`
	Total int                 `json:"total"`
}

// ClusterTotal is the cluster-wide capacity.
type ClusterTotal struct {
	TotalCPU    int64 `json:"totalCPU"`
	TotalMemory int64 `json:"totalMemory"`
	TotalGPU    int64 `json:"totalGPU"`
}

// ClusterRequest is the aggregate requested resources for running workloads.
type ClusterRequest struct {
	RequestCPU    int64 `json:"requestCPU"`
	RequestMemory int64 `json:"requestMemory"`
	RequestGPU    int64 `json:"requestGPU"`
}

// NodeInfo is the per-node capacity/usage row.
type NodeInfo struct {
	NodeName      string `json:"nodeName"`
	InstanceType  string `json:"instanceType"`
	GPUType       string `json:"gpuType"`
	TotalCPU      int64  `json:"totalCPU"`
	TotalMemory   int64  `json:"totalMemory"`
	TotalGPU      int64  `json:"totalGPU"`
	RequestCPU    int64  `json:"requestCPU"`
	RequestMemory int64  `json:"requestMemory"`
	RequestGPU    int64  `json:"requestGPU"`
}

// NodeInfoList wraps the node rows.
type NodeInfoList struct {
	Items []NodeInfo `json:"items,omitempty"`
}

// DeployConfig is the server-side deployment configuration.
type DeployConfig struct {
	Namespace string            `json:"namespace"`
	Images    map[string]string `json:"images,omitempty"`
}

// ServiceVersion is a single LLM service version record.
type ServiceVersion struct {
	Name         string `json:"name"`
	Version      string `json:"version"`
	ModelName    string `json:"modelName"`
	CreationTime string `json:"creationTime,omitempty"`
}

// API provides bindings for the console endpoints.
type API interface {
	ListExperiments(context.Context, *ExperimentListQuery) (ExperimentList, error)
	GetExperimentDetail(context.Context, *ExperimentDetailQuery) (ExperimentDetail, error)
	DeleteExperiment(ctx context.Context, namespace, name string) error
	SubmitYAML(ctx context.Context, raw string) error
	SubmitParameters(context.Context, Submission) error

	TotalResources(context.Context) (ClusterTotal, error)
	RunningRequests(context.Context) (ClusterRequest, error)
	NodeInfos(context.Context) (NodeInfoList, error)
	Config(context.Context) (DeployConfig, error)
	Namespaces(context.Context) ([]string, error)
	AlgorithmNames(context.Context) ([]string, error)

	ListServiceVersions(context.Context) ([]ServiceVersion, error)
	CreateServiceVersion(context.Context, ServiceVersion) error
}
