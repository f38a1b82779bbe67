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
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	experimentsv1alpha1 "github.com/thestormforge/tune-console/tuneapi/experiments/v1alpha1"
	morphlingv1alpha1 "github.com/thestormforge/tune-console/tuneapi/morphling/v1alpha1"
)

type stubBackend struct {
	parameters []experimentsv1alpha1.Submission
	yaml       []string
	err        error
	started    chan struct{}
	block      chan struct{}
}

func (b *stubBackend) SubmitParameters(_ context.Context, sub experimentsv1alpha1.Submission) error {
	if b.started != nil {
		close(b.started)
		b.started = nil
	}
	if b.block != nil {
		<-b.block
	}
	b.parameters = append(b.parameters, sub)
	return b.err
}

func (b *stubBackend) SubmitYAML(_ context.Context, raw string) error {
	b.yaml = append(b.yaml, raw)
	return b.err
}

func TestSubmitFormNavigatesOnSuccess(t *testing.T) {
	backend := &stubBackend{}
	navigated := false
	s := &Submitter{Backend: backend, OnSuccess: func() { navigated = true }}

	err := s.Submit(context.Background(), FormInput{State: demoState(t)})
	require.NoError(t, err)
	assert.True(t, navigated)
	assert.Len(t, backend.parameters, 1)
	assert.False(t, s.Busy())
}

func TestSubmitRejectionDoesNotNavigate(t *testing.T) {
	backend := &stubBackend{err: &experimentsv1alpha1.Error{
		Type:    experimentsv1alpha1.ErrSubmissionRejected,
		Message: "failed to submit experiment",
	}}
	navigated := false
	s := &Submitter{Backend: backend, OnSuccess: func() { navigated = true }}

	err := s.Submit(context.Background(), FormInput{State: demoState(t)})
	require.Error(t, err)
	assert.True(t, experimentsv1alpha1.IsRejected(err))
	assert.Equal(t, "failed to submit experiment", err.Error())
	assert.False(t, navigated)
	assert.False(t, s.Busy())
}

func TestSubmitInvalidMetadataNeverReachesBackend(t *testing.T) {
	backend := &stubBackend{}
	s := &Submitter{Backend: backend}

	state := demoState(t)
	state.Name = "Not A DNS Label"

	err := s.Submit(context.Background(), FormInput{State: state})
	require.Error(t, err)
	assert.Empty(t, backend.parameters)
}

func TestSubmitSingleFlight(t *testing.T) {
	backend := &stubBackend{started: make(chan struct{}), block: make(chan struct{})}
	started := backend.started
	s := &Submitter{Backend: backend}

	done := make(chan error, 1)
	go func() { done <- s.Submit(context.Background(), FormInput{State: demoState(t)}) }()

	// Wait until the first submission is holding the flight slot
	<-started
	assert.True(t, s.Busy())

	err := s.Submit(context.Background(), FormInput{State: demoState(t)})
	assert.ErrorIs(t, err, ErrSubmissionInFlight)

	close(backend.block)
	require.NoError(t, <-done)
	assert.Len(t, backend.parameters, 1)
}

func TestSubmitYAMLPassthrough(t *testing.T) {
	backend := &stubBackend{}
	s := &Submitter{Backend: backend}

	err := s.Submit(context.Background(), YAMLInput{Raw: "apiVersion: tuning.kubedl.io/v1alpha1\nkind: ProfilingExperiment\n"})
	require.NoError(t, err)
	require.Len(t, backend.yaml, 1)
}

func TestSubmitYAMLInvalid(t *testing.T) {
	backend := &stubBackend{}
	s := &Submitter{Backend: backend}

	assert.Error(t, s.Submit(context.Background(), YAMLInput{Raw: ""}))
	assert.Error(t, s.Submit(context.Background(), YAMLInput{Raw: ":\tnot yaml"}))
	assert.Empty(t, backend.yaml)
}

type stubMorphlingAPI struct {
	jobs          [][]byte
	profilingYAML []string
}

func (a *stubMorphlingAPI) SubmitProfilingYAML(_ context.Context, raw string) error {
	a.profilingYAML = append(a.profilingYAML, raw)
	return nil
}
func (a *stubMorphlingAPI) SubmitTrialYAML(context.Context, string) error { return nil }
func (a *stubMorphlingAPI) SubmitHPJob(_ context.Context, body []byte) error {
	a.jobs = append(a.jobs, body)
	return nil
}
func (a *stubMorphlingAPI) DeleteExperiment(context.Context, string, string) error { return nil }
func (a *stubMorphlingAPI) FetchHPJobs(context.Context) ([]morphlingv1alpha1.JobView, error) {
	return nil, nil
}
func (a *stubMorphlingAPI) FetchHPJobInfo(context.Context, string, string) (string, error) {
	return "", nil
}
func (a *stubMorphlingAPI) FetchHPJobTrialInfo(context.Context, string, string) (string, error) {
	return "", nil
}
func (a *stubMorphlingAPI) FetchExperiment(context.Context, string, string) (json.RawMessage, error) {
	return nil, nil
}
func (a *stubMorphlingAPI) FetchSuggestion(context.Context, string, string) (morphlingv1alpha1.Suggestion, error) {
	return morphlingv1alpha1.Suggestion{}, nil
}
func (a *stubMorphlingAPI) FetchNamespaces(context.Context) ([]string, error) { return nil, nil }

func TestMorphlingBackendAdapter(t *testing.T) {
	api := &stubMorphlingAPI{}
	s := &Submitter{Backend: &MorphlingBackend{API: api}}

	require.NoError(t, s.Submit(context.Background(), FormInput{State: demoState(t)}))
	assert.Len(t, api.jobs, 1)

	require.NoError(t, s.Submit(context.Background(), YAMLInput{Raw: "metadata: {}\n"}))
	assert.Len(t, api.profilingYAML, 1)
}
