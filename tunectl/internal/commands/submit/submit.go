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

// Package submit implements the YAML passthrough submission command.
package submit

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	consolesubmit "github.com/thestormforge/tune-console/internal/submit"
	"github.com/thestormforge/tune-console/tuneapi"
	experimentsv1alpha1 "github.com/thestormforge/tune-console/tuneapi/experiments/v1alpha1"
	"github.com/thestormforge/tune-console/tunectl/internal/commander"
)

type Options struct {
	// Config is the console client configuration
	Config *tuneapi.ClientConfig
	// ConsoleAPI is used to interact with the console backend
	ConsoleAPI experimentsv1alpha1.API
	// IOStreams are used to access the standard process streams
	commander.IOStreams

	// Filename of the experiment document ("-" for stdin)
	Filename string
	// Morphling routes the submission through the alternate backend surface
	Morphling bool

	backend consolesubmit.Backend
}

// NewCommand creates a new command for submitting an experiment document.
func NewCommand(o *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit an experiment document",
		Long:  "Submit a profiling experiment document without going through the interactive form",

		PreRunE: func(cmd *cobra.Command, args []string) error {
			commander.SetStreams(&o.IOStreams, cmd)
			if o.Morphling {
				api, err := commander.NewMorphlingAPI(cmd.Context(), o.Config)
				if err != nil {
					return err
				}
				o.backend = &consolesubmit.MorphlingBackend{API: api}
				return nil
			}
			if o.ConsoleAPI == nil {
				api, err := commander.NewConsoleAPI(cmd.Context(), o.Config)
				if err != nil {
					return err
				}
				o.ConsoleAPI = api
			}
			o.backend = o.ConsoleAPI
			return nil
		},
		RunE: commander.WithContextE(o.submit),
	}

	cmd.Flags().StringVarP(&o.Filename, "filename", "f", o.Filename, "`file` containing the experiment document, use '-' for stdin.")
	cmd.Flags().BoolVar(&o.Morphling, "morphling", o.Morphling, "submit through the alternate backend surface.")
	_ = cmd.MarkFlagRequired("filename")
	_ = cmd.MarkFlagFilename("filename", "yml", "yaml")

	commander.ExitOnError(cmd)
	return cmd
}

func (o *Options) submit(ctx context.Context) error {
	raw, err := commander.ReadDocument(o.Filename, o.In)
	if err != nil {
		return err
	}

	s := &consolesubmit.Submitter{Backend: o.backend}
	if err := s.Submit(ctx, consolesubmit.YAMLInput{Raw: raw}); err != nil {
		return err
	}

	_, err = fmt.Fprintln(o.Out, "experiment submitted")
	return err
}
