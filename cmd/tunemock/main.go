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

package main

import (
	"net/http"
	"os"

	"github.com/go-logr/zapr"
	"github.com/spf13/cobra"
	"github.com/thestormforge/tune-console/internal/mockapi"
	"github.com/thestormforge/tune-console/tuneapi/experiments/v1alpha1/fake"
	"go.uber.org/zap"
)

func main() {
	var (
		address string
		token   string
		empty   bool
	)

	cmd := &cobra.Command{
		Use:          "tunemock",
		Short:        "Serve the console API from an in-memory store",
		SilenceUsage: true,

		RunE: func(cmd *cobra.Command, args []string) error {
			zl, err := zap.NewProduction()
			if err != nil {
				return err
			}
			defer func() { _ = zl.Sync() }()
			log := zapr.NewLogger(zl)

			api := fake.NewAPI()
			if !empty {
				mockapi.SeedDemo(api)
			}

			srv := &mockapi.Server{API: api, Log: log, Token: token}

			log.Info("listening", "address", address)
			return http.ListenAndServe(address, srv.Handler())
		},
	}

	cmd.Flags().StringVar(&address, "address", ":9091", "Address to listen on.")
	cmd.Flags().StringVar(&token, "token", "", "Require the supplied bearer token.")
	cmd.Flags().BoolVar(&empty, "empty", false, "Start with an empty store instead of demo data.")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
