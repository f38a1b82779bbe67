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

// Package monitor implements the experiment monitoring view: a periodically
// refreshed list of experiments with a drill-down detail view per experiment.
package monitor

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"github.com/thestormforge/tune-console/internal/monitor"
	"github.com/thestormforge/tune-console/tuneapi"
	experimentsv1alpha1 "github.com/thestormforge/tune-console/tuneapi/experiments/v1alpha1"
	"github.com/thestormforge/tune-console/tunectl/internal/commander"
)

// Page sizes match the console defaults: 20 experiments per list page, 10
// trials per detail page.
const (
	listPageSize   = 20
	detailPageSize = 10

	// The list is restricted to the trailing window the console displays.
	listWindow = 30 * 24 * time.Hour
)

// mode identifies which view the monitor is showing.
type mode int

const (
	modeList mode = iota
	modeDetail
)

// updateMsg delivers a poller result into the update loop.
type updateMsg struct {
	value interface{}
}

type Options struct {
	// Config is the console client configuration
	Config *tuneapi.ClientConfig
	// ConsoleAPI is used to interact with the console backend
	ConsoleAPI experimentsv1alpha1.API
	// Log sink for poll failures
	Log logr.Logger

	// Namespace filters the experiment list
	Namespace string
	// Status filters the experiment list
	Status string
	// Name preselects the detail view
	Name string

	poller  *monitor.Poller
	updates chan interface{}

	mode    mode
	lastErr error

	// List state
	list     experimentsv1alpha1.ExperimentList
	cursor   int
	listPage int

	// Detail state
	detailName      string
	detailNamespace string
	detail          experimentsv1alpha1.ExperimentDetail
	detailPage      int
	haveDetail      bool
}

// NewCommand creates a new command for monitoring experiments.
func NewCommand(o *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "monitor [NAME]",
		Short: "Monitor experiments",
		Long:  "Watch profiling experiments as they run, refreshing automatically",
		Args:  cobra.MaximumNArgs(1),

		PreRunE: func(cmd *cobra.Command, args []string) error {
			if o.ConsoleAPI == nil {
				api, err := commander.NewConsoleAPI(cmd.Context(), o.Config)
				if err != nil {
					return err
				}
				o.ConsoleAPI = api
			}
			if len(args) > 0 {
				o.Name = args[0]
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

	cmd.Flags().StringVarP(&o.Namespace, "namespace", "n", o.Namespace, "Namespace to filter on.")
	cmd.Flags().StringVar(&o.Status, "status", o.Status, "Experiment status to filter on.")

	return cmd
}

func (o *Options) Init() tea.Cmd {
	if o.Log.GetSink() == nil {
		o.Log = logr.Discard()
	}

	o.updates = make(chan interface{}, 8)
	o.poller = monitor.New(o.deliver, o.Log)
	o.listPage = 1
	o.detailPage = 1

	if o.Name != "" {
		o.mode = modeDetail
		o.detailName, o.detailNamespace = o.Name, o.Namespace
		o.startDetailPolling()
	} else {
		o.startListPolling()
	}

	return o.waitForUpdate
}

// deliver is the poller observer; it must never block the poller, so a update
// that cannot be buffered is dropped (the next tick replaces it anyway).
func (o *Options) deliver(v interface{}) {
	select {
	case o.updates <- v:
	default:
	}
}

// waitForUpdate blocks on the observer channel, turning deliveries into messages.
func (o *Options) waitForUpdate() tea.Msg {
	v, ok := <-o.updates
	if !ok {
		return nil
	}
	return updateMsg{value: v}
}

func (o *Options) startListPolling() {
	page := o.listPage
	fetch := func(ctx context.Context) (interface{}, error) {
		q := &experimentsv1alpha1.ExperimentListQuery{
			Namespace:   o.Namespace,
			Status:      experimentsv1alpha1.ExperimentStatus(o.Status),
			EndTime:     time.Now(),
			StartTime:   time.Now().Add(-listWindow),
			CurrentPage: page,
			PageSize:    listPageSize,
		}
		return o.ConsoleAPI.ListExperiments(ctx, q)
	}
	if err := o.poller.Start(context.Background(), fetch, monitor.ListInterval); err != nil {
		o.lastErr = err
	}
}

func (o *Options) startDetailPolling() {
	name, namespace, page := o.detailName, o.detailNamespace, o.detailPage
	fetch := func(ctx context.Context) (interface{}, error) {
		q := &experimentsv1alpha1.ExperimentDetailQuery{
			Name:        name,
			Namespace:   namespace,
			CurrentPage: page,
			PageSize:    detailPageSize,
		}
		return o.ConsoleAPI.GetExperimentDetail(ctx, q)
	}
	if err := o.poller.Start(context.Background(), fetch, monitor.DetailInterval); err != nil {
		o.lastErr = err
	}
}

// restartPolling tears the schedule down and brings it back up for the current
// mode and page; any in-flight response from the old schedule is discarded.
func (o *Options) restartPolling() {
	o.poller.Stop()
	switch o.mode {
	case modeList:
		o.startListPolling()
	case modeDetail:
		o.startDetailPolling()
	}
}

func (o *Options) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case updateMsg:
		switch v := msg.value.(type) {
		case experimentsv1alpha1.ExperimentList:
			o.list = v
			if o.cursor >= len(o.list.Items) && o.cursor > 0 {
				o.cursor = len(o.list.Items) - 1
			}
		case experimentsv1alpha1.ExperimentDetail:
			o.detail = v
			o.haveDetail = true
		}
		// Re-arm the channel read
		return o, o.waitForUpdate

	case tea.KeyMsg:
		return o.updateKey(msg)

	case error:
		o.poller.Stop()
		o.lastErr = msg
		return o, tea.Quit

	}

	return o, nil
}

func (o *Options) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {

	case "ctrl+c", "q":
		o.poller.Stop()
		return o, tea.Quit

	case "r":
		// Manual refresh outside the schedule
		o.poller.Refresh()

	case "up", "k":
		if o.mode == modeList && o.cursor > 0 {
			o.cursor--
		}

	case "down", "j":
		if o.mode == modeList && o.cursor < len(o.list.Items)-1 {
			o.cursor++
		}

	case "left", "h":
		o.prevPage()

	case "right", "l":
		o.nextPage()

	case "enter":
		if o.mode == modeList && o.cursor < len(o.list.Items) {
			item := o.list.Items[o.cursor]
			o.mode = modeDetail
			o.detailName = item.Name
			o.detailNamespace = item.Namespace
			o.detailPage = 1
			o.haveDetail = false
			o.restartPolling()
		}

	case "esc":
		if o.mode == modeDetail {
			o.mode = modeList
			o.detailName = ""
			o.haveDetail = false
			o.restartPolling()
		}

	}

	return o, nil
}

func (o *Options) prevPage() {
	switch o.mode {
	case modeList:
		if o.listPage > 1 {
			o.listPage--
			o.restartPolling()
		}
	case modeDetail:
		if o.detailPage > 1 {
			o.detailPage--
			o.restartPolling()
		}
	}
}

func (o *Options) nextPage() {
	switch o.mode {
	case modeList:
		if o.listPage*listPageSize < o.list.Total {
			o.listPage++
			o.cursor = 0
			o.restartPolling()
		}
	case modeDetail:
		if o.detailPage*detailPageSize < int(o.detail.TrialsTotal) {
			o.detailPage++
			o.restartPolling()
		}
	}
}
