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
	"fmt"
	"runtime"
	"strings"
)

// defaultVersion is used when the version string is not set at build time, the
// "-source" pre-release component indicates a build straight from source control
const defaultVersion = "v0.0.0-source"

// Version is the semantic version number, overridden at build time using linker flags
var Version = defaultVersion

// BuildMetadata is the semantic version build metadata, overridden at build time using linker flags
var BuildMetadata = ""

// GitCommit is the Git revision of the build, overridden at build time using linker flags
var GitCommit = ""

// Info is the different types of version information
type Info struct {
	Version       string `json:"version"`
	BuildMetadata string `json:"buildMetadata,omitempty"`
	GitCommit     string `json:"gitCommit,omitempty"`
	GoVersion     string `json:"goVersion,omitempty"`
	Platform      string `json:"platform,omitempty"`
}

// String returns the semantic version, including build metadata for pre-release versions
func (i *Info) String() string {
	v := i.Version
	if v == "" {
		v = defaultVersion
	}

	// Build metadata is only relevant for pre-release versions
	if strings.Contains(v, "-") && i.BuildMetadata != "" {
		v += "+" + i.BuildMetadata
	}

	return v
}

// GetInfo returns the build time version information
func GetInfo() *Info {
	return &Info{
		Version:       Version,
		BuildMetadata: BuildMetadata,
		GitCommit:     GitCommit,
		GoVersion:     runtime.Version(),
		Platform:      fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}
