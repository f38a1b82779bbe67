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

package mockapi

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thestormforge/tune-console/tuneapi"
	experimentsv1alpha1 "github.com/thestormforge/tune-console/tuneapi/experiments/v1alpha1"
	"github.com/thestormforge/tune-console/tuneapi/experiments/v1alpha1/fake"
)

// newTestAPI spins up the mock server and returns a real HTTP client bound to it.
func newTestAPI(t *testing.T, srv *Server) experimentsv1alpha1.API {
	t.Helper()

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	cfg := &tuneapi.ClientConfig{Address: ts.URL, Token: srv.Token}
	c, err := tuneapi.NewClient(context.Background(), cfg, nil)
	require.NoError(t, err)

	return experimentsv1alpha1.NewAPI(c)
}

func listQuery() *experimentsv1alpha1.ExperimentListQuery {
	return &experimentsv1alpha1.ExperimentListQuery{
		StartTime: time.Now().Add(-24 * time.Hour),
		EndTime:   time.Now(),
	}
}

func TestListAndDetailRoundTrip(t *testing.T) {
	store := fake.NewAPI()
	SeedDemo(store)
	api := newTestAPI(t, &Server{API: store})
	ctx := context.Background()

	lst, err := api.ListExperiments(ctx, listQuery())
	require.NoError(t, err)
	assert.Equal(t, 2, lst.Total)
	require.Len(t, lst.Items, 2)

	detail, err := api.GetExperimentDetail(ctx, &experimentsv1alpha1.ExperimentDetailQuery{
		Name:      "mobilenet-qps",
		Namespace: "default",
	})
	require.NoError(t, err)
	assert.Equal(t, experimentsv1alpha1.ExperimentRunning, detail.Status)
	assert.Equal(t, "grid", detail.AlgorithmName)
	assert.Len(t, detail.Parameters, 3)
	assert.Len(t, detail.Trials, 9)
	require.Len(t, detail.OptimalTrials, 1)
	assert.Equal(t, "mobilenet-qps-0005", detail.OptimalTrials[0].Name)
}

func TestListFiltersByStatus(t *testing.T) {
	store := fake.NewAPI()
	SeedDemo(store)
	api := newTestAPI(t, &Server{API: store})

	q := listQuery()
	q.Status = experimentsv1alpha1.ExperimentSucceeded
	lst, err := api.ListExperiments(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, lst.Items, 1)
	assert.Equal(t, "resnet-latency", lst.Items[0].Name)
}

func TestListRequiresStartTime(t *testing.T) {
	api := newTestAPI(t, &Server{API: fake.NewAPI()})

	_, err := api.ListExperiments(context.Background(), &experimentsv1alpha1.ExperimentListQuery{})
	require.Error(t, err)
	assert.True(t, experimentsv1alpha1.IsRejected(err))
	assert.Contains(t, err.Error(), "start_time")
}

func TestSubmitParametersRoundTrip(t *testing.T) {
	store := fake.NewAPI()
	api := newTestAPI(t, &Server{API: store})
	ctx := context.Background()

	err := api.SubmitParameters(ctx, experimentsv1alpha1.Submission{
		Raw: experimentsv1alpha1.ExperimentResource{
			APIVersion: experimentsv1alpha1.SubmissionAPIVersion,
			Kind:       experimentsv1alpha1.SubmissionKind,
			Metadata:   experimentsv1alpha1.SubmissionMetadata{Name: "fresh", Namespace: "default"},
			Spec: experimentsv1alpha1.SubmissionSpec{
				Objective:    experimentsv1alpha1.ObjectiveSpec{Type: "maximize", ObjectiveMetricName: "qps"},
				Algorithm:    experimentsv1alpha1.AlgorithmSpec{AlgorithmName: "random"},
				Parallelism:  1,
				MaxNumTrials: 4,
				TunableParameters: []experimentsv1alpha1.ParameterGroup{{
					Category: experimentsv1alpha1.CategoryResource,
					Parameters: []experimentsv1alpha1.Parameter{{
						Name:          "cpu",
						ParameterType: experimentsv1alpha1.ParameterTypeInt,
						FeasibleSpace: experimentsv1alpha1.FeasibleSpace{Min: "1", Max: "4", Step: "1"},
					}},
				}},
			},
		},
	})
	require.NoError(t, err)

	detail, err := api.GetExperimentDetail(ctx, &experimentsv1alpha1.ExperimentDetailQuery{Name: "fresh"})
	require.NoError(t, err)
	require.Len(t, detail.Parameters, 1)
	assert.Equal(t, "1..4/1", detail.Parameters[0].Space)
}

func TestSubmitRejectionCarriesMessage(t *testing.T) {
	store := fake.NewAPI()
	store.SubmitErr = errors.New("namespace quota exhausted")
	api := newTestAPI(t, &Server{API: store})

	err := api.SubmitYAML(context.Background(), "apiVersion: tuning.kubedl.io/v1alpha1")
	require.Error(t, err)
	assert.True(t, experimentsv1alpha1.IsRejected(err))
	assert.Contains(t, err.Error(), "namespace quota exhausted")
}

func TestDeleteExperiment(t *testing.T) {
	store := fake.NewAPI()
	SeedDemo(store)
	api := newTestAPI(t, &Server{API: store})
	ctx := context.Background()

	require.NoError(t, api.DeleteExperiment(ctx, "default", "resnet-latency"))

	err := api.DeleteExperiment(ctx, "default", "resnet-latency")
	require.Error(t, err)
	assert.True(t, experimentsv1alpha1.IsNotFound(err))
}

func TestAuthorization(t *testing.T) {
	srv := &Server{API: fake.NewAPI(), Token: "sesame"}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	// Missing token
	cfg := &tuneapi.ClientConfig{Address: ts.URL}
	c, err := tuneapi.NewClient(context.Background(), cfg, nil)
	require.NoError(t, err)
	_, err = experimentsv1alpha1.NewAPI(c).Namespaces(context.Background())
	require.Error(t, err)
	assert.True(t, experimentsv1alpha1.IsUnauthorized(err))

	// Correct token
	cfg = &tuneapi.ClientConfig{Address: ts.URL, Token: "sesame"}
	c, err = tuneapi.NewClient(context.Background(), cfg, nil)
	require.NoError(t, err)
	ns, err := experimentsv1alpha1.NewAPI(c).Namespaces(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, ns)
}

func TestDataEndpoints(t *testing.T) {
	api := newTestAPI(t, &Server{API: fake.NewAPI()})
	ctx := context.Background()

	total, err := api.TotalResources(ctx)
	require.NoError(t, err)
	assert.NotZero(t, total.TotalCPU)

	req, err := api.RunningRequests(ctx)
	require.NoError(t, err)
	assert.NotZero(t, req.RequestCPU)

	nodes, err := api.NodeInfos(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, nodes.Items)

	algos, err := api.AlgorithmNames(ctx)
	require.NoError(t, err)
	assert.Contains(t, algos, "grid")
}

func TestServiceVersionRoundTrip(t *testing.T) {
	api := newTestAPI(t, &Server{API: fake.NewAPI()})
	ctx := context.Background()

	require.NoError(t, api.CreateServiceVersion(ctx, experimentsv1alpha1.ServiceVersion{
		Name:      "bert",
		Version:   "v2",
		ModelName: "bert-base",
	}))

	versions, err := api.ListServiceVersions(ctx)
	require.NoError(t, err)
	require.Len(t, versions, 1)
	assert.Equal(t, "bert", versions[0].Name)
	assert.NotEmpty(t, versions[0].CreationTime)
}
