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
	"strings"

	"github.com/thestormforge/tune-console/tuneapi"
)

// NewAPI returns a new API implementation for the specified client.
func NewAPI(c tuneapi.Client) API {
	return &httpAPI{client: c}
}

type httpAPI struct {
	client tuneapi.Client
}

// envelope is the application-level response wrapper: the code signals success or
// failure regardless of the HTTP status, data carries either the payload or the
// failure message.
type envelope struct {
	Code string          `json:"code"`
	Data json.RawMessage `json:"data"`
}

// open validates the transport status and the envelope code, returning the payload.
func open(resp *http.Response, body []byte) (json.RawMessage, error) {
	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return nil, &Error{Type: ErrUnauthorized, Message: "unauthorized"}
	case http.StatusNotFound:
		return nil, &Error{Type: ErrExperimentNotFound, Message: notFoundMessage(resp)}
	default:
		return nil, &Error{Type: ErrUnexpected, Message: fmt.Sprintf("unexpected server response: %s", resp.Status)}
	}

	env := envelope{}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &Error{Type: ErrUnexpected, Message: fmt.Sprintf("malformed response envelope: %s", err)}
	}

	if env.Code != envelopeSuccess {
		// A rejection carries its message in the data field, usually as a JSON string
		msg := ""
		if err := json.Unmarshal(env.Data, &msg); err != nil {
			msg = strings.Trim(string(env.Data), `"`)
		}
		if msg == "" {
			msg = fmt.Sprintf("request rejected with code %s", env.Code)
		}
		return nil, &Error{Type: ErrSubmissionRejected, Message: msg}
	}

	return env.Data, nil
}

func notFoundMessage(resp *http.Response) string {
	if resp.Request != nil && resp.Request.URL != nil {
		return fmt.Sprintf("not found: %s", resp.Request.URL.String())
	}
	return "not found"
}

// get issues a GET request and unmarshals the envelope payload into out.
func (h *httpAPI) get(ctx context.Context, u *url.URL, out interface{}) error {
	req, err := http.NewRequest(http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}

	resp, body, err := h.client.Do(ctx, req)
	if err != nil {
		return err
	}

	data, err := open(resp, body)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}

// post issues a POST request with the supplied body and discards the payload.
func (h *httpAPI) post(ctx context.Context, u *url.URL, contentType string, b []byte) error {
	req, err := http.NewRequest(http.MethodPost, u.String(), bytes.NewBuffer(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)

	resp, body, err := h.client.Do(ctx, req)
	if err != nil {
		return err
	}

	_, err = open(resp, body)
	return err
}

func (h *httpAPI) ListExperiments(ctx context.Context, q *ExperimentListQuery) (ExperimentList, error) {
	lst := ExperimentList{}
	u := h.client.URL(endpointExperiment + "/list")
	u.RawQuery = q.Encode()
	err := h.get(ctx, u, &lst)
	return lst, err
}

func (h *httpAPI) GetExperimentDetail(ctx context.Context, q *ExperimentDetailQuery) (ExperimentDetail, error) {
	// The detail payload nests the experiment under "peInfo"
	out := struct {
		Detail ExperimentDetail `json:"peInfo"`
	}{}
	u := h.client.URL(endpointExperiment + "/detail")
	u.RawQuery = q.Encode()
	err := h.get(ctx, u, &out)
	return out.Detail, err
}

func (h *httpAPI) DeleteExperiment(ctx context.Context, namespace, name string) error {
	u := h.client.URL(endpointExperiment + "/" + url.PathEscape(namespace) + "/" + url.PathEscape(name))

	req, err := http.NewRequest(http.MethodDelete, u.String(), nil)
	if err != nil {
		return err
	}

	resp, body, err := h.client.Do(ctx, req)
	if err != nil {
		return err
	}

	_, err = open(resp, body)
	return err
}

func (h *httpAPI) SubmitYAML(ctx context.Context, raw string) error {
	return h.post(ctx, h.client.URL(endpointExperiment+"/submitYaml"), "application/yaml", []byte(raw))
}

func (h *httpAPI) SubmitParameters(ctx context.Context, sub Submission) error {
	b, err := json.Marshal(sub)
	if err != nil {
		return err
	}
	return h.post(ctx, h.client.URL(endpointExperiment+"/submitPars"), "application/json", b)
}

func (h *httpAPI) TotalResources(ctx context.Context) (ClusterTotal, error) {
	t := ClusterTotal{}
	err := h.get(ctx, h.client.URL(endpointData+"/total"), &t)
	return t, err
}

func (h *httpAPI) RunningRequests(ctx context.Context) (ClusterRequest, error) {
	r := ClusterRequest{}
	err := h.get(ctx, h.client.URL(endpointData+"/request/Running"), &r)
	return r, err
}

func (h *httpAPI) NodeInfos(ctx context.Context) (NodeInfoList, error) {
	lst := NodeInfoList{}
	err := h.get(ctx, h.client.URL(endpointData+"/nodeInfos"), &lst)
	return lst, err
}

func (h *httpAPI) Config(ctx context.Context) (DeployConfig, error) {
	cfg := DeployConfig{}
	err := h.get(ctx, h.client.URL(endpointData+"/config"), &cfg)
	return cfg, err
}

func (h *httpAPI) Namespaces(ctx context.Context) ([]string, error) {
	var ns []string
	err := h.get(ctx, h.client.URL(endpointData+"/namespaces"), &ns)
	return ns, err
}

func (h *httpAPI) AlgorithmNames(ctx context.Context) ([]string, error) {
	var names []string
	err := h.get(ctx, h.client.URL(endpointData+"/algorithmNames"), &names)
	return names, err
}

func (h *httpAPI) ListServiceVersions(ctx context.Context) ([]ServiceVersion, error) {
	var versions []ServiceVersion
	err := h.get(ctx, h.client.URL(endpointServiceVersion), &versions)
	return versions, err
}

func (h *httpAPI) CreateServiceVersion(ctx context.Context, sv ServiceVersion) error {
	b, err := json.Marshal(sv)
	if err != nil {
		return err
	}
	return h.post(ctx, h.client.URL(endpointServiceVersion), "application/json", b)
}
