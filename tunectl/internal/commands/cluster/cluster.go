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

// Package cluster implements the cluster overview: aggregate capacity, the
// currently requested resources and the per-node breakdown.
package cluster

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"github.com/thestormforge/tune-console/internal/monitor"
	"github.com/thestormforge/tune-console/tuneapi"
	experimentsv1alpha1 "github.com/thestormforge/tune-console/tuneapi/experiments/v1alpha1"
	"github.com/thestormforge/tune-console/tunectl/internal/commander"
)

type Options struct {
	// Config is the console client configuration
	Config *tuneapi.ClientConfig
	// ConsoleAPI is used to interact with the console backend
	ConsoleAPI experimentsv1alpha1.API
	// Log sink for poll failures
	Log logr.Logger
	// IOStreams are used to access the standard process streams
	commander.IOStreams

	// Watch keeps refreshing the overview on the cluster interval
	Watch bool
}

// overview bundles the three cluster queries into one fetch.
type overview struct {
	Total   experimentsv1alpha1.ClusterTotal
	Request experimentsv1alpha1.ClusterRequest
	Nodes   experimentsv1alpha1.NodeInfoList
}

// NewCommand creates a new command for the cluster overview.
func NewCommand(o *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cluster",
		Short: "Show cluster capacity",
		Long:  "Show the cluster capacity and the resources requested by running workloads",

		PreRunE: func(cmd *cobra.Command, args []string) error {
			commander.SetStreams(&o.IOStreams, cmd)
			if o.ConsoleAPI == nil {
				api, err := commander.NewConsoleAPI(cmd.Context(), o.Config)
				if err != nil {
					return err
				}
				o.ConsoleAPI = api
			}
			return nil
		},
		RunE: commander.WithContextE(o.cluster),
	}

	cmd.Flags().BoolVarP(&o.Watch, "watch", "w", o.Watch, "Keep refreshing the overview.")

	commander.ExitOnError(cmd)
	return cmd
}

func (o *Options) cluster(ctx context.Context) error {
	if !o.Watch {
		v, err := o.fetch(ctx)
		if err != nil {
			return err
		}
		return o.print(v)
	}

	if o.Log.GetSink() == nil {
		o.Log = logr.Discard()
	}

	// The overview changes slowly, the long interval is deliberate
	p := monitor.New(func(v interface{}) { _ = o.print(v) }, o.Log)
	if err := p.Start(ctx, o.fetch, monitor.ClusterInterval); err != nil {
		return err
	}
	defer p.Stop()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	select {
	case <-stop:
	case <-ctx.Done():
	}
	return nil
}

func (o *Options) fetch(ctx context.Context) (interface{}, error) {
	total, err := o.ConsoleAPI.TotalResources(ctx)
	if err != nil {
		return nil, err
	}
	request, err := o.ConsoleAPI.RunningRequests(ctx)
	if err != nil {
		return nil, err
	}
	nodes, err := o.ConsoleAPI.NodeInfos(ctx)
	if err != nil {
		return nil, err
	}
	return overview{Total: total, Request: request, Nodes: nodes}, nil
}

func (o *Options) print(v interface{}) error {
	ov, ok := v.(overview)
	if !ok {
		return fmt.Errorf("unexpected overview type %T", v)
	}

	tw := tabwriter.NewWriter(o.Out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "\tCPU\tMEMORY\tGPU\t")
	fmt.Fprintf(tw, "Capacity\t%d\t%d\t%d\t\n", ov.Total.TotalCPU, ov.Total.TotalMemory, ov.Total.TotalGPU)
	fmt.Fprintf(tw, "Requested\t%d\t%d\t%d\t\n", ov.Request.RequestCPU, ov.Request.RequestMemory, ov.Request.RequestGPU)
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(ov.Nodes.Items) == 0 {
		return nil
	}

	fmt.Fprintln(o.Out)
	tw = tabwriter.NewWriter(o.Out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "NODE\tINSTANCE\tGPU TYPE\tCPU\tMEMORY\tGPU\t")
	for _, n := range ov.Nodes.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d/%d\t%d/%d\t%d/%d\t\n",
			n.NodeName, n.InstanceType, n.GPUType,
			n.RequestCPU, n.TotalCPU,
			n.RequestMemory, n.TotalMemory,
			n.RequestGPU, n.TotalGPU)
	}
	return tw.Flush()
}
