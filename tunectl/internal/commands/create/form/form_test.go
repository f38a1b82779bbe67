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

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testField struct {
	fieldModel
	focused bool
}

func (t *testField) Focus() {
	t.focused = true
}

func (t testField) Focused() bool {
	return t.focused
}

func (t *testField) Blur() {
	t.focused = false
}

func (t testField) View() string {
	return ""
}

func (t testField) Validate() tea.Cmd {
	return nil
}

func enabledField() *testField {
	return &testField{fieldModel: fieldModel{enabled: true}}
}

func TestActiveFields(t *testing.T) {
	cases := []struct {
		desc    string
		fields  Fields
		focused int
		next    int
	}{
		{
			desc:    "empty",
			focused: -1,
			next:    -1,
		},
		{
			desc:    "nothing focused",
			fields:  Fields{enabledField(), enabledField()},
			focused: -1,
			next:    0,
		},
		{
			desc:    "all disabled",
			fields:  Fields{&testField{}, &testField{}},
			focused: -1,
			next:    -1,
		},
		{
			desc: "disabled field is skipped",
			fields: Fields{
				&testField{fieldModel: fieldModel{enabled: true}, focused: true},
				&testField{},
				enabledField(),
			},
			focused: 0,
			next:    2,
		},
		{
			desc: "last field focused",
			fields: Fields{
				enabledField(),
				&testField{fieldModel: fieldModel{enabled: true}, focused: true},
			},
			focused: 1,
			next:    -1,
		},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			focused, next := c.fields.activeFields()
			if c.focused < 0 {
				assert.Nil(t, focused)
			} else {
				assert.Same(t, c.fields[c.focused], focused)
			}
			if c.next < 0 {
				assert.Nil(t, next)
			} else {
				assert.Same(t, c.fields[c.next], next)
			}
		})
	}
}

func TestFormProgression(t *testing.T) {
	first := enabledField()
	second := enabledField()
	f := Fields{first, second}

	// Start focuses and shows the first field
	_ = f.Update(startMsg{})
	assert.True(t, first.Focused())
	assert.False(t, first.Hidden())
	assert.False(t, second.Focused())

	// Successful validation advances to the second field
	_ = f.Update(ValidationMsg(""))
	assert.False(t, first.Focused())
	assert.True(t, second.Focused())
	assert.False(t, second.Hidden())

	// Validating the last field blurs it and queues the finished message
	cmd := f.Update(ValidationMsg(""))
	require.NotNil(t, cmd)
	assert.False(t, second.Focused())
}

func TestFormFailedValidationKeepsFocus(t *testing.T) {
	first := enabledField()
	f := Fields{first}

	_ = f.Update(startMsg{})
	require.True(t, first.Focused())

	_ = f.Update(ValidationMsg("not good enough"))
	assert.True(t, first.Focused())
}
