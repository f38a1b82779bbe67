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

	experimentsv1alpha1 "github.com/thestormforge/tune-console/tuneapi/experiments/v1alpha1"
	morphlingv1alpha1 "github.com/thestormforge/tune-console/tuneapi/morphling/v1alpha1"
)

// MorphlingBackend adapts the alternate console backend to the shared submission
// seam so both backends are fed by the same normalizer.
type MorphlingBackend struct {
	API morphlingv1alpha1.API
}

var _ Backend = &MorphlingBackend{}

func (b *MorphlingBackend) SubmitParameters(ctx context.Context, sub experimentsv1alpha1.Submission) error {
	// The alternate backend takes the bare experiment document, the pod templates
	// are submitted separately as trial YAML
	body, err := json.Marshal(sub.Raw)
	if err != nil {
		return err
	}
	return b.API.SubmitHPJob(ctx, body)
}

func (b *MorphlingBackend) SubmitYAML(ctx context.Context, raw string) error {
	return b.API.SubmitProfilingYAML(ctx, raw)
}
