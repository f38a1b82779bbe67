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
	"fmt"
	"time"

	experimentsv1alpha1 "github.com/thestormforge/tune-console/tuneapi/experiments/v1alpha1"
	"github.com/thestormforge/tune-console/tuneapi/experiments/v1alpha1/fake"
)

// SeedDemo populates the store with a representative set of experiments so the
// terminal UI has something to show out of the box.
func SeedDemo(f *fake.API) {
	now := time.Now().UTC()

	running := experimentsv1alpha1.ExperimentDetail{
		ExperimentSummary: experimentsv1alpha1.ExperimentSummary{
			Name:       "mobilenet-qps",
			Namespace:  "default",
			Status:     experimentsv1alpha1.ExperimentRunning,
			CreateTime: now.Add(-90 * time.Minute).Format(time.RFC3339),
		},
		AlgorithmName: "grid",
		Objective:     "qps",
		MaxNumTrials:  18,
		Parallelism:   2,
		TrialsTotal:   9,
		Parameters: []experimentsv1alpha1.ParameterSpec{
			{Category: "resource", Name: "cpu", Type: "double", Space: "1..4/1"},
			{Category: "resource", Name: "memory", Type: "discrete", Space: "1Gi,2Gi,4Gi"},
			{Category: "env", Name: "BATCH_SIZE", Type: "int", Space: "1..32/4"},
		},
	}
	for i := 0; i < 9; i++ {
		status := "Succeeded"
		objective := fmt.Sprintf("%d", 80+7*i)
		if i >= 6 {
			status = "Running"
			objective = ""
		} else {
			running.TrialsSucceeded++
		}
		running.Trials = append(running.Trials, experimentsv1alpha1.TrialSpec{
			Name:           fmt.Sprintf("mobilenet-qps-%04d", i),
			Status:         status,
			ObjectiveName:  "qps",
			ObjectiveValue: objective,
			ParameterSamples: map[string]string{
				"cpu":        fmt.Sprintf("%d", 1+i%4),
				"memory":     []string{"1Gi", "2Gi", "4Gi"}[i%3],
				"BATCH_SIZE": fmt.Sprintf("%d", 1+4*(i%8)),
			},
			CreateTime: now.Add(time.Duration(10*i-90) * time.Minute).Format(time.RFC3339),
		})
	}
	running.OptimalTrials = []experimentsv1alpha1.TrialSpec{running.Trials[5]}
	f.AddExperiment(running)

	f.AddExperiment(experimentsv1alpha1.ExperimentDetail{
		ExperimentSummary: experimentsv1alpha1.ExperimentSummary{
			Name:       "resnet-latency",
			Namespace:  "default",
			Status:     experimentsv1alpha1.ExperimentSucceeded,
			CreateTime: now.Add(-26 * time.Hour).Format(time.RFC3339),
			EndTime:    now.Add(-25 * time.Hour).Format(time.RFC3339),
			Duration:   "1h",
		},
		AlgorithmName:   "bayesian",
		Objective:       "latency",
		MaxNumTrials:    12,
		Parallelism:     1,
		TrialsTotal:     12,
		TrialsSucceeded: 12,
		Parameters: []experimentsv1alpha1.ParameterSpec{
			{Category: "resource", Name: "cpu", Type: "int", Space: "1..8/1"},
		},
	})

	_ = f.CreateServiceVersion(context.TODO(), experimentsv1alpha1.ServiceVersion{
		Name:      "mobilenet",
		Version:   "v1",
		ModelName: "mobilenet-v2",
	})
}
