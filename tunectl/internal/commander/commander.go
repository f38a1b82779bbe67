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

package commander

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/thestormforge/tune-console/internal/version"
	"github.com/thestormforge/tune-console/tuneapi"
	experimentsv1alpha1 "github.com/thestormforge/tune-console/tuneapi/experiments/v1alpha1"
	morphlingv1alpha1 "github.com/thestormforge/tune-console/tuneapi/morphling/v1alpha1"
	"golang.org/x/oauth2"
)

// IOStreams allows individual commands access to standard process streams (or their overrides).
type IOStreams struct {
	// In is used to access the standard input stream (or it's override)
	In io.Reader
	// Out is used to access the standard output stream (or it's override)
	Out io.Writer
	// ErrOut is used to access the standard error output stream (or it's override)
	ErrOut io.Writer
}

// SetStreams updates the streams using the supplied command
func SetStreams(streams *IOStreams, cmd *cobra.Command) {
	streams.Out = cmd.OutOrStdout()
	streams.ErrOut = cmd.ErrOrStderr()
	streams.In = cmd.InOrStdin()
}

// StreamsPreRun is intended to be used as a pre-run function for commands when no other action is required
func StreamsPreRun(streams *IOStreams) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		SetStreams(streams, cmd)
	}
}

// NewConsoleAPI creates a new console API interface from the supplied configuration
func NewConsoleAPI(ctx context.Context, cfg *tuneapi.ClientConfig) (experimentsv1alpha1.API, error) {
	// Reuse the OAuth2 base transport for the API calls, identifying ourselves along the way
	t := version.UserAgent("tunectl", "", oauth2.NewClient(ctx, nil).Transport)
	c, err := tuneapi.NewClient(ctx, cfg, t)
	if err != nil {
		return nil, err
	}

	return experimentsv1alpha1.NewAPI(c), nil
}

// NewMorphlingAPI creates an interface to the alternate console backend from the
// supplied configuration
func NewMorphlingAPI(ctx context.Context, cfg *tuneapi.ClientConfig) (morphlingv1alpha1.API, error) {
	t := version.UserAgent("tunectl", "", oauth2.NewClient(ctx, nil).Transport)
	c, err := tuneapi.NewClient(ctx, cfg, t)
	if err != nil {
		return nil, err
	}

	return morphlingv1alpha1.NewAPI(c), nil
}

// SetPrinter assigns the resource printer during the pre-run of the supplied command
func SetPrinter(meta TableMeta, printer *ResourcePrinter, cmd *cobra.Command) {
	pf := &printFlags{Meta: meta}
	pf.addFlags(cmd)
	AddPreRunE(cmd, func(*cobra.Command, []string) error {
		return pf.toPrinter(printer)
	})
}

// ConfigGlobals sets up persistent globals for the supplied configuration
func ConfigGlobals(cfg *tuneapi.ClientConfig, cmd *cobra.Command) {
	// Make sure we get the root to make these globals
	root := cmd.Root()

	// Create the configuration options on top of environment variable overrides
	root.PersistentFlags().StringVar(&cfg.Address, "server", cfg.Address, "Address of the console backend.")
	root.PersistentFlags().StringVar(&cfg.Token, "token", cfg.Token, "Bearer token for the console backend.")

	// Set the persistent pre-run on the root, individual commands can bypass this by supplying their own persistent pre-run
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error { return cfg.Load() }
}

// WithContextE wraps a function that accepts a context in one that accepts a command and argument slice
func WithContextE(runE func(context.Context) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error { return runE(cmd.Context()) }
}

// WithoutArgsE wraps a no-argument function in one that accepts a command and argument slice
func WithoutArgsE(runE func() error) func(*cobra.Command, []string) error {
	return func(*cobra.Command, []string) error { return runE() }
}

// AddPreRunE adds an error returning pre-run function to the supplied command, existing pre-run actions will run AFTER
// the supplied function, and only if the supplied pre-run function does not return an error
func AddPreRunE(cmd *cobra.Command, preRunE func(*cobra.Command, []string) error) {
	// Nothing set yet, just add it
	if cmd.PreRunE == nil && cmd.PreRun == nil {
		cmd.PreRunE = preRunE
		return
	}

	// Capture the existing function
	oldPreRunE := cmd.PreRunE
	oldPreRun := cmd.PreRun

	// Redefine the pre-run
	cmd.PreRun = nil
	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		if err := preRunE(cmd, args); err != nil {
			return err
		}
		if oldPreRunE != nil {
			return oldPreRunE(cmd, args)
		}
		if oldPreRun != nil {
			oldPreRun(cmd, args)
		}
		return nil
	}
}

// ExitOnError converts all the error returning run functions to non-error implementations that immediately exit
func ExitOnError(cmd *cobra.Command) {
	// Convert a RunE to a Run
	wrapE := func(runE func(*cobra.Command, []string) error) func(*cobra.Command, []string) {
		return func(cmd *cobra.Command, args []string) {
			err := runE(cmd, args)
			if err == nil {
				return
			}

			// Handle unauthorized errors by suggesting a token
			if experimentsv1alpha1.IsUnauthorized(err) {
				msg := "unauthorized"
				if _, ok := err.(*experimentsv1alpha1.Error); ok {
					msg = err.Error()
				}
				err = fmt.Errorf("%s, try supplying a token via TUNE_TOKEN", msg)
			}

			cmd.PrintErr("Error: ", err.Error(), "\n")
			os.Exit(1)
		}
	}

	// Wrap all of the RunE
	if cmd.PersistentPreRunE != nil {
		cmd.PersistentPreRun = wrapE(cmd.PersistentPreRunE)
		cmd.PersistentPreRunE = nil
	}
	if cmd.PreRunE != nil {
		cmd.PreRun = wrapE(cmd.PreRunE)
		cmd.PreRunE = nil
	}
	if cmd.RunE != nil {
		cmd.Run = wrapE(cmd.RunE)
		cmd.RunE = nil
	}
	if cmd.PostRunE != nil {
		cmd.PostRun = wrapE(cmd.PostRunE)
		cmd.PostRunE = nil
	}
	if cmd.PersistentPostRunE != nil {
		cmd.PersistentPostRun = wrapE(cmd.PersistentPostRunE)
		cmd.PersistentPostRunE = nil
	}
}
