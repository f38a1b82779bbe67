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

import (
	"context"
	"io/ioutil"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/thestormforge/tune-console/internal/submit"
	experimentsv1alpha1 "github.com/thestormforge/tune-console/tuneapi/experiments/v1alpha1"
)

// The I/O commands below run outside the update loop; each returns a message
// (possibly an error) that is fed back into the model.

func (o *Options) listNamespaces() tea.Msg {
	namespaces, err := o.ConsoleAPI.Namespaces(context.TODO())
	if err != nil {
		return err
	}
	return namespacesMsg(namespaces)
}

func (o *Options) listAlgorithms() tea.Msg {
	algorithms, err := o.ConsoleAPI.AlgorithmNames(context.TODO())
	if err != nil {
		return err
	}
	return algorithmsMsg(algorithms)
}

func (o *Options) submitExperiment() tea.Msg {
	// The template inputs hold file names, the submission wants their content
	service, err := ioutil.ReadFile(strings.TrimSpace(o.metadataModel.ServiceTemplateInput.Value()))
	if err != nil {
		return err
	}
	client, err := ioutil.ReadFile(strings.TrimSpace(o.metadataModel.ClientTemplateInput.Value()))
	if err != nil {
		return err
	}
	o.state.ServiceTemplate = string(service)
	o.state.ClientTemplate = string(client)

	err = o.submitter.Submit(context.TODO(), submit.FormInput{State: o.state})
	switch {
	case err == nil:
		return submittedMsg{Name: o.state.Name}
	case experimentsv1alpha1.IsRejected(err), err == submit.ErrSubmissionInFlight:
		return rejectedMsg{Reason: err.Error()}
	default:
		return err
	}
}
