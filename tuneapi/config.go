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

package tuneapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"

	"golang.org/x/oauth2"
)

const (
	envServerAddress = "TUNE_SERVER"
	envAccessToken   = "TUNE_TOKEN"
)

// ClientConfig is the file-less configuration used by the console: an API server
// address plus an optional static bearer token. The tuning service does not issue
// per-user credentials, the token is a deployment-wide stub.
type ClientConfig struct {
	// Address is the base URL of the console API server.
	Address string
	// Token is an optional static bearer token applied to every request.
	Token string
}

var _ Config = &ClientConfig{}

// Load fills in unset fields from the process environment.
func (c *ClientConfig) Load() error {
	if c.Address == "" {
		c.Address = os.Getenv(envServerAddress)
	}
	if c.Token == "" {
		c.Token = os.Getenv(envAccessToken)
	}
	if c.Address == "" {
		return fmt.Errorf("console API server address is not configured (set %s)", envServerAddress)
	}
	return nil
}

func (c *ClientConfig) ConsoleURL(path string) (*url.URL, error) {
	u, err := url.Parse(c.Address)
	if err != nil {
		return nil, err
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + path
	return u, nil
}

func (c *ClientConfig) Authorize(ctx context.Context, transport http.RoundTripper) (http.RoundTripper, error) {
	if c.Token == "" {
		return transport, nil
	}

	return &oauth2.Transport{
		Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: c.Token}),
		Base:   transport,
	}, nil
}
