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

package create

// namespacesMsg carries the namespaces available for the experiment.
type namespacesMsg []string

// algorithmsMsg carries the tuning algorithm names supported by the backend.
type algorithmsMsg []string

// submitRequestedMsg indicates the user asked for the experiment to be submitted.
type submitRequestedMsg struct{}

// submittedMsg indicates the experiment was accepted by the backend.
type submittedMsg struct {
	Name string
}

// rejectedMsg carries an application-level rejection message from the backend;
// unlike transport errors it leaves the form intact so the user can retry.
type rejectedMsg struct {
	Reason string
}
