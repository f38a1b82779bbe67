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

package commands

import (
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/spf13/cobra"
	"github.com/thestormforge/tune-console/tuneapi"
	"github.com/thestormforge/tune-console/tunectl/internal/commander"
	"github.com/thestormforge/tune-console/tunectl/internal/commands/cluster"
	"github.com/thestormforge/tune-console/tunectl/internal/commands/create"
	"github.com/thestormforge/tune-console/tunectl/internal/commands/experiments"
	"github.com/thestormforge/tune-console/tunectl/internal/commands/monitor"
	"github.com/thestormforge/tune-console/tunectl/internal/commands/submit"
	"github.com/thestormforge/tune-console/tunectl/internal/commands/version"
	"github.com/thestormforge/tune-console/tunectl/internal/commands/versions"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewTunectlCommand creates a new top-level tunectl command
func NewTunectlCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "tunectl",
		Short:             "Explore and tune LLM inference services",
		DisableAutoGenTag: true,
		SilenceUsage:      true,
	}

	// Create a global configuration
	cfg := &tuneapi.ClientConfig{}
	commander.ConfigGlobals(cfg, rootCmd)

	// Poll failures are logged instead of interrupting the terminal UI
	log := newLogger()

	// Experiment Commands
	rootCmd.AddCommand(create.NewCommand(&create.Options{Config: cfg}))
	rootCmd.AddCommand(submit.NewCommand(&submit.Options{Config: cfg}))
	rootCmd.AddCommand(experiments.NewGetCommand(&experiments.GetOptions{Options: experiments.Options{Config: cfg}}))
	rootCmd.AddCommand(experiments.NewDeleteCommand(&experiments.DeleteOptions{Options: experiments.Options{Config: cfg}}))
	rootCmd.AddCommand(monitor.NewCommand(&monitor.Options{Config: cfg, Log: log}))

	// Cluster Commands
	rootCmd.AddCommand(cluster.NewCommand(&cluster.Options{Config: cfg, Log: log}))
	rootCmd.AddCommand(versions.NewGetCommand(&versions.Options{Config: cfg}))
	rootCmd.AddCommand(versions.NewCreateCommand(&versions.CreateOptions{Options: versions.Options{Config: cfg}}))

	// Administrative Commands
	rootCmd.AddCommand(version.NewCommand(&version.Options{Config: cfg}))

	return rootCmd
}

// newLogger creates the logger used by the polling commands, the level can be
// raised using the TUNE_LOG environment variable
func newLogger() logr.Logger {
	level := zapcore.ErrorLevel
	if l, err := zapcore.ParseLevel(os.Getenv("TUNE_LOG")); err == nil && os.Getenv("TUNE_LOG") != "" {
		level = l
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}

	zl, err := zc.Build()
	if err != nil {
		return logr.Discard()
	}
	return zapr.NewLogger(zl)
}
