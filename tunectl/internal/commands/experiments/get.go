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
	"time"

	"github.com/spf13/cobra"
	experimentsv1alpha1 "github.com/thestormforge/tune-console/tuneapi/experiments/v1alpha1"
	"github.com/thestormforge/tune-console/tunectl/internal/commander"
)

// GetOptions includes the configuration for getting experiment API objects
type GetOptions struct {
	Options

	// Name selects a single experiment for the detail view
	Name string
	// List filter criteria
	Namespace string
	Status    string
	Since     time.Duration
	// Pagination (1-based)
	Page     int
	PageSize int
}

// NewGetCommand creates a new get command
func NewGetCommand(o *GetOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get [NAME]",
		Short: "Display profiling experiments",
		Long:  "Get profiling experiments from the console backend",
		Args:  cobra.MaximumNArgs(1),

		PreRunE: func(cmd *cobra.Command, args []string) error {
			commander.SetStreams(&o.IOStreams, cmd)

			api, err := commander.NewConsoleAPI(cmd.Context(), o.Config)
			if err != nil {
				return err
			}
			o.ConsoleAPI = api

			if len(args) > 0 {
				o.Name = args[0]
			}
			return nil
		},
		RunE: commander.WithContextE(o.get),
	}

	cmd.Flags().StringVarP(&o.Namespace, "namespace", "n", o.Namespace, "Namespace to filter on.")
	cmd.Flags().StringVar(&o.Status, "status", o.Status, "Experiment status to filter on.")
	if o.Since == 0 {
		o.Since = 30 * 24 * time.Hour
	}
	cmd.Flags().DurationVar(&o.Since, "since", o.Since, "Only include experiments created within this `duration`.")
	cmd.Flags().IntVar(&o.Page, "page", o.Page, "Page of results to fetch.")
	cmd.Flags().IntVar(&o.PageSize, "page-size", o.PageSize, "Number of results per page.")

	commander.SetPrinter(&experimentsMeta{}, &o.Printer, cmd)
	commander.ExitOnError(cmd)
	return cmd
}

func (o *GetOptions) get(ctx context.Context) error {
	if o.Name != "" {
		return o.getExperimentDetail(ctx)
	}
	return o.getExperimentList(ctx)
}

func (o *GetOptions) getExperimentList(ctx context.Context) error {
	q := &experimentsv1alpha1.ExperimentListQuery{
		Namespace:   o.Namespace,
		Status:      experimentsv1alpha1.ExperimentStatus(o.Status),
		CurrentPage: o.Page,
		PageSize:    o.PageSize,
	}
	if o.Since > 0 {
		q.EndTime = time.Now()
		q.StartTime = q.EndTime.Add(-o.Since)
	}

	l, err := o.ConsoleAPI.ListExperiments(ctx, q)
	if err != nil {
		return err
	}

	return o.Printer.PrintObj(&l, o.Out)
}

func (o *GetOptions) getExperimentDetail(ctx context.Context) error {
	q := &experimentsv1alpha1.ExperimentDetailQuery{
		Name:        o.Name,
		Namespace:   o.Namespace,
		CurrentPage: o.Page,
		PageSize:    o.PageSize,
	}

	d, err := o.ConsoleAPI.GetExperimentDetail(ctx, q)
	if err != nil {
		return err
	}

	return o.Printer.PrintObj(&d, o.Out)
}
