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
	"regexp"
	"strconv"
	"strings"
)

// FailureReason identifies which validation check rejected a row; it selects the
// user-facing message.
type FailureReason string

const (
	DuplicateParameter   FailureReason = "DuplicateParameter"
	IncompleteFields     FailureReason = "IncompleteFields"
	InvalidName          FailureReason = "InvalidName"
	InvalidNumericFormat FailureReason = "InvalidNumericFormat"
	InvalidRange         FailureReason = "InvalidRange"
)

// ValidationResult reports the outcome of validating a single row.
type ValidationResult struct {
	Reason FailureReason
}

// Ok reports whether the row passed all checks.
func (v ValidationResult) Ok() bool { return v.Reason == "" }

// Message returns the user-facing description of the failure, or "" when Ok.
func (v ValidationResult) Message() string {
	switch v.Reason {
	case DuplicateParameter:
		return "a parameter with the same category and name already exists"
	case IncompleteFields:
		return "all parameter fields must be filled in before saving"
	case InvalidName:
		return "parameter name must start with a letter, end with a letter or digit, and may contain -, _ (max 30 characters)"
	case InvalidNumericFormat:
		return "min, max and step must be numeric for the selected type"
	case InvalidRange:
		return "min must be strictly less than max"
	default:
		return ""
	}
}

var (
	namePattern = regexp.MustCompile(`^[a-zA-Z][-0-9a-zA-Z_]{0,27}[0-9a-zA-Z]$`)
	intPattern  = regexp.MustCompile(`^[0-9]+$`)
	// Signed decimal; a lone sign or empty string is excluded by the digit check below.
	doublePattern = regexp.MustCompile(`^[+-]?[0-9]*(\.[0-9]+)?$`)
)

func validDouble(v string) bool {
	return doublePattern.MatchString(v) && strings.ContainsAny(v, "0123456789")
}

func fieldSet(v string) bool {
	return v != "" && v != Sentinel
}

// Validate checks a row against its declared type and the rest of the collection.
// Checks run in a fixed order and short-circuit on the first failure.
func Validate(row Row, allRows []Row) ValidationResult {
	for i := range allRows {
		if allRows[i].Key == row.Key || allRows[i].Editable {
			continue
		}
		if allRows[i].Category == row.Category && allRows[i].Name == row.Name {
			return ValidationResult{Reason: DuplicateParameter}
		}
	}

	if row.Category == "" || row.Name == "" || row.Type == "" {
		return ValidationResult{Reason: IncompleteFields}
	}
	if row.Type == TypeDiscrete {
		if !fieldSet(row.List) {
			return ValidationResult{Reason: IncompleteFields}
		}
	} else if !fieldSet(row.Min) || !fieldSet(row.Max) || !fieldSet(row.Step) {
		return ValidationResult{Reason: IncompleteFields}
	}

	if !namePattern.MatchString(row.Name) {
		return ValidationResult{Reason: InvalidName}
	}

	switch row.Type {
	case TypeInt:
		if !intPattern.MatchString(row.Min) || !intPattern.MatchString(row.Max) || !intPattern.MatchString(row.Step) {
			return ValidationResult{Reason: InvalidNumericFormat}
		}
	case TypeDouble:
		if !validDouble(row.Min) || !validDouble(row.Max) || !validDouble(row.Step) {
			return ValidationResult{Reason: InvalidNumericFormat}
		}
	}

	if row.numeric() {
		min, _ := strconv.ParseFloat(row.Min, 64)
		max, _ := strconv.ParseFloat(row.Max, 64)
		if min >= max {
			return ValidationResult{Reason: InvalidRange}
		}
	}

	return ValidationResult{}
}
