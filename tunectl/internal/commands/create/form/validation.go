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

package form

import (
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	expform "github.com/thestormforge/tune-console/internal/form"
)

type validator interface {
	TextFieldValidator
	ChoiceFieldValidator
}

type unvalidated struct{}

func (u unvalidated) ValidateTextField(string) tea.Msg   { return ValidationMsg("") }
func (u unvalidated) ValidateChoiceField(string) tea.Msg { return ValidationMsg("") }

type Required struct {
	Error       string
	IgnoreSpace bool
}

var _ validator = &Required{}

func (r *Required) ValidateTextField(value string) tea.Msg {
	if r.IgnoreSpace {
		value = strings.TrimSpace(value)
	}

	if value == "" {
		return ValidationMsg(r.Error)
	}

	return ValidationMsg("")
}

func (r *Required) ValidateChoiceField(value string) tea.Msg {
	if r.IgnoreSpace {
		value = strings.TrimSpace(value)
	}

	if value == "" {
		return ValidationMsg(r.Error)
	}

	return ValidationMsg("")
}

// ExperimentName requires the value to be usable as an experiment name.
type ExperimentName struct {
	Required string
	Invalid  string
}

func (v *ExperimentName) ValidateTextField(value string) tea.Msg {
	if value == "" {
		return ValidationMsg(v.Required)
	}
	if !expform.ValidExperimentName(value) {
		return ValidationMsg(v.Invalid)
	}
	return ValidationMsg("")
}

// IntRange requires the value to be an integer in the closed range [Min, Max].
type IntRange struct {
	Min     int
	Max     int
	Invalid string
}

func (v *IntRange) ValidateTextField(value string) tea.Msg {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < v.Min || n > v.Max {
		return ValidationMsg(v.Invalid)
	}
	return ValidationMsg("")
}

// File requires the value to name an existing regular file. An empty value is
// allowed unless Required is set.
type File struct {
	Required    string
	Missing     string
	RegularFile string
}

func (v *File) ValidateTextField(value string) tea.Msg {
	if value == "" {
		return ValidationMsg(v.Required)
	}

	info, err := os.Lstat(value)
	if err != nil {
		if os.IsNotExist(err) {
			return ValidationMsg(v.Missing)
		}
		return ValidationMsg(strings.TrimPrefix(err.Error(), "lstat "+value+": "))
	}

	if v.RegularFile != "" && info.IsDir() {
		return ValidationMsg(v.RegularFile)
	}

	return ValidationMsg("")
}
