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
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/thestormforge/tune-console/internal/form"
	experimentsv1alpha1 "github.com/thestormforge/tune-console/tuneapi/experiments/v1alpha1"
	"sigs.k8s.io/yaml"
)

// ErrSubmissionInFlight is returned when a submission is attempted while a prior
// one has not yet resolved.
var ErrSubmissionInFlight = errors.New("a submission is already in flight")

// Backend is the submission seam shared by both console backends: the primary
// envelope-based API implements it directly, the alternate backend through a thin
// adapter.
type Backend interface {
	SubmitParameters(context.Context, experimentsv1alpha1.Submission) error
	SubmitYAML(ctx context.Context, raw string) error
}

// Input is a submission source. The two implementations are the structured form
// adapter and the YAML passthrough adapter.
type Input interface {
	submit(ctx context.Context, b Backend) error
}

// FormInput submits the structured create-experiment form.
type FormInput struct {
	State *form.State
}

func (in FormInput) submit(ctx context.Context, b Backend) error {
	if err := in.State.CheckMetadata(); err != nil {
		return err
	}
	sub, err := BuildSubmission(in.State)
	if err != nil {
		return err
	}
	return b.SubmitParameters(ctx, sub)
}

// YAMLInput submits a raw experiment document unchanged. The document is checked
// for YAML well-formedness before anything goes over the wire.
type YAMLInput struct {
	Raw string
}

func (in YAMLInput) submit(ctx context.Context, b Backend) error {
	if in.Raw == "" {
		return fmt.Errorf("nothing to submit")
	}
	var doc map[string]interface{}
	if err := yaml.Unmarshal([]byte(in.Raw), &doc); err != nil {
		return fmt.Errorf("invalid experiment YAML: %w", err)
	}
	return b.SubmitYAML(ctx, in.Raw)
}

// Submitter performs experiment submissions against a backend. At most one
// submission is in flight per instance: a second Submit while busy fails fast with
// ErrSubmissionInFlight instead of issuing a request. On success the navigation
// callback fires; on any failure the caller's form state is untouched so the user
// may retry.
type Submitter struct {
	Backend Backend

	// OnSuccess, if not nil, is invoked after a successful submission (the
	// console navigates to the monitor view).
	OnSuccess func()

	busy int32
}

// Busy reports whether a submission is currently in flight.
func (s *Submitter) Busy() bool {
	return atomic.LoadInt32(&s.busy) != 0
}

// Submit runs one submission end to end. The returned error is either a
// validation error, ErrSubmissionInFlight, a typed API rejection carrying the
// backend message, or a transport failure.
func (s *Submitter) Submit(ctx context.Context, in Input) error {
	if !atomic.CompareAndSwapInt32(&s.busy, 0, 1) {
		return ErrSubmissionInFlight
	}
	defer atomic.StoreInt32(&s.busy, 0)

	if err := in.submit(ctx, s.Backend); err != nil {
		return err
	}

	if s.OnSuccess != nil {
		s.OnSuccess()
	}
	return nil
}
