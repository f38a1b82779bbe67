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

package experiments

import (
	"context"

	"github.com/spf13/cobra"
	experimentsv1alpha1 "github.com/thestormforge/tune-console/tuneapi/experiments/v1alpha1"
	"github.com/thestormforge/tune-console/tunectl/internal/commander"
)

// DeleteOptions includes the configuration for deleting experiment API objects
type DeleteOptions struct {
	Options

	// Namespace of the experiments being deleted
	Namespace string
	// IgnoreNotFound treats missing resources as successful deletes
	IgnoreNotFound bool

	// Names of the experiments to delete
	Names []string
}

// NewDeleteCommand creates a new deletion command
func NewDeleteCommand(o *DeleteOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete NAME ...",
		Short: "Delete profiling experiments",
		Long:  "Delete profiling experiments from the console backend",
		Args:  cobra.MinimumNArgs(1),

		PreRunE: func(cmd *cobra.Command, args []string) error {
			commander.SetStreams(&o.IOStreams, cmd)

			api, err := commander.NewConsoleAPI(cmd.Context(), o.Config)
			if err != nil {
				return err
			}
			o.ConsoleAPI = api

			o.Names = args
			return nil
		},
		RunE: commander.WithContextE(o.delete),
	}

	cmd.Flags().StringVarP(&o.Namespace, "namespace", "n", o.Namespace, "Namespace of the experiments.")
	cmd.Flags().BoolVar(&o.IgnoreNotFound, "ignore-not-found", o.IgnoreNotFound, "Treat \"not found\" as a successful delete.")

	o.Printer = &verbPrinter{verb: "deleted"}
	commander.ExitOnError(cmd)
	return cmd
}

func (o *DeleteOptions) delete(ctx context.Context) error {
	for _, name := range o.Names {
		err := o.ConsoleAPI.DeleteExperiment(ctx, o.Namespace, name)
		if err != nil {
			if o.IgnoreNotFound && experimentsv1alpha1.IsNotFound(err) {
				continue
			}
			return err
		}

		if err := o.Printer.PrintObj(&experimentsv1alpha1.ExperimentSummary{Name: name, Namespace: o.Namespace}, o.Out); err != nil {
			return err
		}
	}
	return nil
}
