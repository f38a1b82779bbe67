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

// Package create implements the interactive create-experiment view: a linear
// metadata form followed by an editable parameter table, ending in a single
// guarded submission to the console backend.
package create

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/thestormforge/tune-console/internal/form"
	"github.com/thestormforge/tune-console/internal/submit"
	"github.com/thestormforge/tune-console/tuneapi"
	experimentsv1alpha1 "github.com/thestormforge/tune-console/tuneapi/experiments/v1alpha1"
	"github.com/thestormforge/tune-console/tunectl/internal/commander"
	createform "github.com/thestormforge/tune-console/tunectl/internal/commands/create/form"
)

// stage identifies the active section of the create view.
type stage int

const (
	stageMetadata stage = iota
	stageParameters
	stageSubmitting
	stageDone
)

type Options struct {
	// Config is the console client configuration
	Config *tuneapi.ClientConfig
	// ConsoleAPI is used to interact with the console backend
	ConsoleAPI experimentsv1alpha1.API

	state     *form.State
	submitter *submit.Submitter

	stage     stage
	maybeQuit bool
	lastErr   error

	metadataModel   metadataModel
	parametersModel parametersModel
	statusModel     statusModel
}

// NewCommand creates a new command for interactively creating an experiment.
func NewCommand(o *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an experiment",
		Long:  "Interactively define and submit a profiling experiment",

		PreRunE: func(cmd *cobra.Command, args []string) error {
			if o.ConsoleAPI == nil {
				api, err := commander.NewConsoleAPI(cmd.Context(), o.Config)
				if err != nil {
					return err
				}
				o.ConsoleAPI = api
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := tea.NewProgram(o,
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStderr()),
			).Start(); err != nil {
				return err
			}
			return o.lastErr
		},
	}

	return cmd
}

func (o *Options) Init() tea.Cmd {
	o.state = form.NewState()
	o.submitter = &submit.Submitter{Backend: o.ConsoleAPI}

	o.initializeModel()

	return tea.Batch(
		createform.Start,
		o.listNamespaces,
		o.listAlgorithms,
	)
}

func (o *Options) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// Check for messages we need to handle at the top level
	switch msg := msg.(type) {

	case tea.KeyMsg:
		// User initiated exit: ctrl+c or be prompted when you hit esc from the top
		switch msg.String() {
		case "ctrl+c":
			return o, tea.Quit
		case "esc":
			if o.stage == stageMetadata || o.stage == stageDone {
				o.maybeQuit = true
				return o, nil
			}
		case "y", "Y", "enter":
			if o.maybeQuit {
				return o, tea.Quit
			}
		case "n", "N":
			if o.maybeQuit {
				o.maybeQuit = false
			}
		}

	case createform.FinishedMsg:
		// The metadata form is complete, move on to the parameter table
		o.metadataModel.apply(o.state)
		o.stage = stageParameters

	case submitRequestedMsg:
		o.stage = stageSubmitting
		cmds = append(cmds, o.submitExperiment)

	case submittedMsg:
		o.stage = stageDone

	case rejectedMsg:
		// Return to the parameter table so the user can correct and retry
		o.stage = stageParameters

	case error:
		o.lastErr = msg
		return o, tea.Quit

	}

	// If the user hit esc and might quit, don't bother updating the rest of the model
	if o.maybeQuit {
		return o, nil
	}

	// Update the child models
	var cmd tea.Cmd

	o.metadataModel, cmd = o.metadataModel.Update(msg)
	cmds = append(cmds, cmd)

	if o.stage >= stageParameters {
		o.parametersModel, cmd = o.parametersModel.Update(msg)
		cmds = append(cmds, cmd)
	}

	o.statusModel, cmd = o.statusModel.Update(msg)
	cmds = append(cmds, cmd)

	return o, tea.Batch(cmds...)
}
