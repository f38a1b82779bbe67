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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/thestormforge/tune-console/tuneapi"
)

// NewAPI returns a new API implementation for the specified client.
func NewAPI(c tuneapi.Client) API {
	return &httpAPI{client: c}
}

type httpAPI struct {
	client tuneapi.Client
}

func (h *httpAPI) do(ctx context.Context, method, endpoint string, query url.Values, body []byte) ([]byte, error) {
	u := h.client.URL(endpointPrefix + endpoint)
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var r *bytes.Buffer
	if body != nil {
		r = bytes.NewBuffer(body)
	} else {
		r = &bytes.Buffer{}
	}

	req, err := http.NewRequest(method, u.String(), r)
	if err != nil {
		return nil, err
	}

	resp, b, err := h.client.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := string(b)
		if msg == "" {
			msg = resp.Status
		}
		return nil, fmt.Errorf("%s %s: %s", method, endpoint, msg)
	}
	return b, nil
}

func nameQuery(namespace, name string) url.Values {
	q := url.Values{}
	q.Set("experimentName", name)
	q.Set("namespace", namespace)
	return q
}

func (h *httpAPI) SubmitProfilingYAML(ctx context.Context, raw string) error {
	_, err := h.do(ctx, http.MethodPost, "/submit_profiling_yaml", nil, []byte(raw))
	return err
}

func (h *httpAPI) SubmitTrialYAML(ctx context.Context, raw string) error {
	_, err := h.do(ctx, http.MethodPost, "/submit_trial_yaml", nil, []byte(raw))
	return err
}

func (h *httpAPI) SubmitHPJob(ctx context.Context, body []byte) error {
	_, err := h.do(ctx, http.MethodPost, "/submit_hp_job", nil, body)
	return err
}

func (h *httpAPI) DeleteExperiment(ctx context.Context, namespace, name string) error {
	_, err := h.do(ctx, http.MethodGet, "/delete_experiment", nameQuery(namespace, name), nil)
	return err
}

func (h *httpAPI) FetchHPJobs(ctx context.Context) ([]JobView, error) {
	b, err := h.do(ctx, http.MethodGet, "/fetch_hp_jobs", nil, nil)
	if err != nil {
		return nil, err
	}
	var jobs []JobView
	err = json.Unmarshal(b, &jobs)
	return jobs, err
}

func (h *httpAPI) FetchHPJobInfo(ctx context.Context, namespace, name string) (string, error) {
	b, err := h.do(ctx, http.MethodGet, "/fetch_hp_job_info", nameQuery(namespace, name), nil)
	return string(b), err
}

func (h *httpAPI) FetchHPJobTrialInfo(ctx context.Context, namespace, trialName string) (string, error) {
	q := url.Values{}
	q.Set("trialName", trialName)
	q.Set("namespace", namespace)
	b, err := h.do(ctx, http.MethodGet, "/fetch_hp_job_trial_info", q, nil)
	return string(b), err
}

func (h *httpAPI) FetchExperiment(ctx context.Context, namespace, name string) (json.RawMessage, error) {
	return h.do(ctx, http.MethodGet, "/fetch_experiment", nameQuery(namespace, name), nil)
}

func (h *httpAPI) FetchSuggestion(ctx context.Context, namespace, name string) (Suggestion, error) {
	q := url.Values{}
	q.Set("suggestionName", name)
	q.Set("namespace", namespace)

	s := Suggestion{}
	b, err := h.do(ctx, http.MethodGet, "/fetch_suggestion", q, nil)
	if err != nil {
		return s, err
	}
	err = json.Unmarshal(b, &s)
	return s, err
}

func (h *httpAPI) FetchNamespaces(ctx context.Context) ([]string, error) {
	b, err := h.do(ctx, http.MethodGet, "/fetch_namespaces", nil, nil)
	if err != nil {
		return nil, err
	}
	var ns []string
	err = json.Unmarshal(b, &ns)
	return ns, err
}
