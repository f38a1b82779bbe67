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

package version

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/spf13/cobra"
	"github.com/thestormforge/tune-console/internal/version"
	"github.com/thestormforge/tune-console/tuneapi"
	experimentsv1alpha1 "github.com/thestormforge/tune-console/tuneapi/experiments/v1alpha1"
	"github.com/thestormforge/tune-console/tunectl/internal/commander"
)

// defaultTemplate is used to format the version information
const defaultTemplate = `{{range $key, $value := . }}{{$key}} version: {{$value}}
{{end}}`

// Options is the configuration for reporting version information
type Options struct {
	// Config is the console client configuration
	Config *tuneapi.ClientConfig
	// ConsoleAPI is used to interact with the console backend
	ConsoleAPI experimentsv1alpha1.API
	// IOStreams are used to access the standard process streams
	commander.IOStreams

	// Product is the current product name
	Product string
	// Debug enables error logging
	Debug bool
}

// NewCommand creates a new command for reporting version information
func NewCommand(o *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version information",
		Long:  "Print the version information for the tuning console components",

		PreRunE: func(cmd *cobra.Command, args []string) error {
			if o.Product == "" {
				o.Product = cmd.Root().Name()
			}

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
		RunE: commander.WithContextE(o.version),
	}

	cmd.Flags().BoolVar(&o.Debug, "debug", o.Debug, "Display debugging information.")

	commander.ExitOnError(cmd)
	return cmd
}

func (o *Options) version(ctx context.Context) error {
	// Collect all the version information into a map
	data := make(map[string]*version.Info, 2)
	if o.Product != "" {
		data[o.Product] = version.GetInfo()
	}
	if err := o.serverVersions(ctx, data); err != nil && o.Debug {
		_, _ = fmt.Fprintln(o.ErrOut, "server:", err.Error())
	}

	// Format the template using the collected version information
	return template.Must(template.New("version").Parse(defaultTemplate)).Execute(o.Out, data)
}

// serverVersions extracts version information from the image tags reported by the
// backend deployment configuration
func (o *Options) serverVersions(ctx context.Context, data map[string]*version.Info) error {
	cfg, err := o.ConsoleAPI.Config(ctx)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(cfg.Images))
	for name := range cfg.Images {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if v := imageVersion(cfg.Images[name]); v != nil {
			data[name] = v
		}
	}
	return nil
}

// imageVersion parses an image reference, treating the tag as a semantic version
func imageVersion(image string) *version.Info {
	i := strings.LastIndex(image, ":")
	if i < 0 || strings.Contains(image[i:], "/") {
		return nil
	}

	tag := image[i+1:]
	if tag == "" || tag == "latest" {
		return nil
	}

	info := &version.Info{}
	parts := strings.SplitN(tag, "+", 2)
	info.Version = "v" + strings.TrimPrefix(parts[0], "v")
	if len(parts) > 1 {
		info.BuildMetadata = parts[1]
	}
	return info
}
