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

// Package versions implements commands for the LLM service version registry.
package versions

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/thestormforge/tune-console/tuneapi"
	experimentsv1alpha1 "github.com/thestormforge/tune-console/tuneapi/experiments/v1alpha1"
	"github.com/thestormforge/tune-console/tunectl/internal/commander"
)

type Options struct {
	// Config is the console client configuration
	Config *tuneapi.ClientConfig
	// ConsoleAPI is used to interact with the console backend
	ConsoleAPI experimentsv1alpha1.API
	// Printer is the resource printer used to render objects from the console API
	Printer commander.ResourcePrinter
	// IOStreams are used to access the standard process streams
	commander.IOStreams
}

// versionsMeta is the metadata extraction for printing service version records
type versionsMeta struct{}

func (m *versionsMeta) ExtractList(obj interface{}) ([]interface{}, error) {
	if o, ok := obj.(*[]experimentsv1alpha1.ServiceVersion); ok {
		list := make([]interface{}, len(*o))
		for i := range *o {
			list[i] = &(*o)[i]
		}
		return list, nil
	}
	if obj != nil {
		return []interface{}{obj}, nil
	}
	return nil, nil
}

func (m *versionsMeta) Columns(interface{}, string) []string {
	return []string{"name", "version", "model", "created"}
}

func (m *versionsMeta) ExtractValue(obj interface{}, column string) (string, error) {
	o, ok := obj.(*experimentsv1alpha1.ServiceVersion)
	if !ok {
		return "", fmt.Errorf("expected service version, got %T", obj)
	}

	switch column {
	case "name":
		return o.Name, nil
	case "version":
		return o.Version, nil
	case "model":
		return o.ModelName, nil
	case "created":
		return o.CreationTime, nil
	}
	return "", fmt.Errorf("unable to get value for column %s", column)
}

func (m *versionsMeta) Header(outputFormat string, column string) string {
	if strings.ToLower(outputFormat) == "csv" {
		return column
	}
	return strings.ToUpper(column)
}

// NewGetCommand creates a command listing the registered service versions.
func NewGetCommand(o *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get-versions",
		Short: "Display LLM service versions",
		Long:  "Get the registered LLM service versions from the console backend",

		PreRunE: func(cmd *cobra.Command, args []string) error {
			commander.SetStreams(&o.IOStreams, cmd)
			return o.setAPI(cmd)
		},
		RunE: commander.WithContextE(o.get),
	}

	commander.SetPrinter(&versionsMeta{}, &o.Printer, cmd)
	commander.ExitOnError(cmd)
	return cmd
}

// CreateOptions includes the configuration for registering a service version
type CreateOptions struct {
	Options

	Version experimentsv1alpha1.ServiceVersion
}

// NewCreateCommand creates a command registering a new service version.
func NewCreateCommand(o *CreateOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-version NAME",
		Short: "Register an LLM service version",
		Args:  cobra.ExactArgs(1),

		PreRunE: func(cmd *cobra.Command, args []string) error {
			commander.SetStreams(&o.IOStreams, cmd)
			o.Version.Name = args[0]
			return o.setAPI(cmd)
		},
		RunE: commander.WithContextE(o.create),
	}

	cmd.Flags().StringVar(&o.Version.Version, "version", o.Version.Version, "Version string for the record.")
	cmd.Flags().StringVar(&o.Version.ModelName, "model", o.Version.ModelName, "Model name the service runs.")

	commander.ExitOnError(cmd)
	return cmd
}

func (o *Options) setAPI(cmd *cobra.Command) error {
	if o.ConsoleAPI != nil {
		return nil
	}
	api, err := commander.NewConsoleAPI(cmd.Context(), o.Config)
	if err != nil {
		return err
	}
	o.ConsoleAPI = api
	return nil
}

func (o *Options) get(ctx context.Context) error {
	versions, err := o.ConsoleAPI.ListServiceVersions(ctx)
	if err != nil {
		return err
	}
	return o.Printer.PrintObj(&versions, o.Out)
}

func (o *CreateOptions) create(ctx context.Context) error {
	if err := o.ConsoleAPI.CreateServiceVersion(ctx, o.Version); err != nil {
		return err
	}
	return printVerb(o.Out, o.Version.Name, "created")
}

func printVerb(w io.Writer, name, verb string) error {
	_, err := fmt.Fprintf(w, "service version %q %s\n", name, verb)
	return err
}
