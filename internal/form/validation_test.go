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
	"testing"

	"github.com/stretchr/testify/assert"
)

func intRow(name, min, max, step string) Row {
	return Row{
		Key:      "k",
		Category: CategoryEnv,
		Name:     name,
		Type:     TypeInt,
		Min:      min,
		Max:      max,
		Step:     step,
		List:     Sentinel,
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		desc     string
		row      Row
		others   []Row
		expected FailureReason
	}{
		{
			desc: "int range accepted",
			row:  intRow("batch-size", "1", "5", "1"),
		},
		{
			desc: "double range accepted",
			row: Row{
				Key: "k", Category: CategoryEnv, Name: "learning-rate",
				Type: TypeDouble, Min: "1.0", Max: "2.0", Step: "0.1", List: Sentinel,
			},
		},
		{
			desc: "discrete list accepted",
			row: Row{
				Key: "k", Category: CategoryResource, Name: "CPU",
				Type: TypeDiscrete, Min: Sentinel, Max: Sentinel, Step: Sentinel, List: "500m,2000m",
			},
		},
		{
			desc: "duplicate category and name rejected",
			row:  intRow("batch-size", "1", "5", "1"),
			others: []Row{
				{Key: "other", Category: CategoryEnv, Name: "batch-size", Type: TypeInt, Min: "1", Max: "2", Step: "1", List: Sentinel},
			},
			expected: DuplicateParameter,
		},
		{
			desc: "same name in a different category accepted",
			row:  intRow("batch-size", "1", "5", "1"),
			others: []Row{
				{Key: "other", Category: CategoryArgs, Name: "batch-size", Type: TypeInt, Min: "1", Max: "2", Step: "1", List: Sentinel},
			},
		},
		{
			desc:     "missing step rejected",
			row:      intRow("batch-size", "1", "5", ""),
			expected: IncompleteFields,
		},
		{
			desc: "discrete without list rejected",
			row: Row{
				Key: "k", Category: CategoryEnv, Name: "batch-size",
				Type: TypeDiscrete, Min: Sentinel, Max: Sentinel, Step: Sentinel, List: "",
			},
			expected: IncompleteFields,
		},
		{
			desc:     "name starting with a digit rejected",
			row:      intRow("1bad", "1", "5", "1"),
			expected: InvalidName,
		},
		{
			desc: "name with hyphen and underscore accepted",
			row:  intRow("good-name_1", "1", "5", "1"),
		},
		{
			desc:     "name ending with a hyphen rejected",
			row:      intRow("bad-", "1", "5", "1"),
			expected: InvalidName,
		},
		{
			desc:     "int with decimal bound rejected",
			row:      intRow("batch-size", "1.5", "5", "1"),
			expected: InvalidNumericFormat,
		},
		{
			desc: "double with non-numeric bound rejected",
			row: Row{
				Key: "k", Category: CategoryEnv, Name: "learning-rate",
				Type: TypeDouble, Min: "abc", Max: "2.0", Step: "0.1", List: Sentinel,
			},
			expected: InvalidNumericFormat,
		},
		{
			desc: "double with bare sign rejected",
			row: Row{
				Key: "k", Category: CategoryEnv, Name: "learning-rate",
				Type: TypeDouble, Min: "+", Max: "2.0", Step: "0.1", List: Sentinel,
			},
			expected: InvalidNumericFormat,
		},
		{
			desc:     "inverted range rejected",
			row:      intRow("batch-size", "5", "1", "1"),
			expected: InvalidRange,
		},
		{
			desc:     "equal bounds rejected",
			row:      intRow("batch-size", "5", "5", "1"),
			expected: InvalidRange,
		},
		{
			desc: "numeric range compare is numeric not lexicographic",
			row:  intRow("batch-size", "9", "10", "1"),
		},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			all := append([]Row{c.row}, c.others...)
			result := Validate(c.row, all)
			assert.Equal(t, c.expected, result.Reason)
			if c.expected == "" {
				assert.True(t, result.Ok())
				assert.Empty(t, result.Message())
			} else {
				assert.False(t, result.Ok())
				assert.NotEmpty(t, result.Message())
			}
		})
	}
}
