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
	"github.com/stretchr/testify/require"
)

func TestAddRowDefaults(t *testing.T) {
	s := NewRowStore(nil)

	key := s.AddRow()
	assert.Equal(t, "NEW_TEMP_ID_0", key)
	assert.Equal(t, "NEW_TEMP_ID_1", s.AddRow())

	rows := s.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, CategoryResource, rows[0].Category)
	assert.Equal(t, "CPU", rows[0].Name)
	assert.Equal(t, TypeInt, rows[0].Type)
	assert.True(t, rows[0].Editable)
	assert.True(t, rows[0].IsNew)
	assert.Empty(t, s.Committed())
}

func TestTypeChangeResetsFeasibleSpace(t *testing.T) {
	s := NewRowStore(nil)
	key := s.AddRow()

	require.NoError(t, s.Apply(key, func(r *Row) {
		r.SetMin("1")
		r.SetMax("5")
		r.SetStep("1")
		r.SetType(TypeDiscrete)
	}))

	rows := s.Rows()
	assert.Equal(t, Sentinel, rows[0].Min)
	assert.Equal(t, Sentinel, rows[0].Max)
	assert.Equal(t, Sentinel, rows[0].Step)
	assert.Empty(t, rows[0].List)

	require.NoError(t, s.Apply(key, func(r *Row) {
		r.SetList("a,b")
		r.SetType(TypeDouble)
	}))

	rows = s.Rows()
	assert.Equal(t, Sentinel, rows[0].List)
	assert.Empty(t, rows[0].Min)
	assert.Empty(t, rows[0].Max)
	assert.Empty(t, rows[0].Step)
}

func TestCategoryChangeClearsName(t *testing.T) {
	s := NewRowStore(nil)
	key := s.AddRow()

	require.NoError(t, s.Apply(key, func(r *Row) { r.SetCategory(CategoryEnv) }))

	rows := s.Rows()
	assert.Equal(t, CategoryEnv, rows[0].Category)
	assert.Empty(t, rows[0].Name)
}

func TestSaveCommitsAndNotifies(t *testing.T) {
	var notified [][]Row
	s := NewRowStore(func(rows []Row) { notified = append(notified, rows) })

	key := s.AddRow()
	require.NoError(t, s.Apply(key, func(r *Row) {
		r.SetCategory(CategoryEnv)
		r.SetName("batch-size")
		r.SetType(TypeInt)
		r.SetMin("1")
		r.SetMax("5")
		r.SetStep("1")
	}))

	result := s.Save(key)
	require.True(t, result.Ok(), result.Message())

	rows := s.Rows()
	require.Len(t, rows, 1)
	assert.False(t, rows[0].Editable)
	assert.False(t, rows[0].IsNew)
	assert.Len(t, s.Committed(), 1)
	require.Len(t, notified, 1)
}

func TestSaveFailureLeavesRowEditable(t *testing.T) {
	var notifications int
	s := NewRowStore(func([]Row) { notifications++ })

	key := s.AddRow()
	require.NoError(t, s.Apply(key, func(r *Row) {
		r.SetCategory(CategoryEnv)
		r.SetName("1bad")
		r.SetMin("1")
		r.SetMax("5")
		r.SetStep("1")
	}))

	result := s.Save(key)
	assert.Equal(t, InvalidName, result.Reason)
	assert.True(t, s.Rows()[0].Editable)
	assert.True(t, s.Rows()[0].IsNew)
	assert.Zero(t, notifications)
}

func TestSaveDuplicateRejected(t *testing.T) {
	s := NewRowStore(nil)

	commit := func() string {
		key := s.AddRow()
		require.NoError(t, s.Apply(key, func(r *Row) {
			r.SetCategory(CategoryEnv)
			r.SetName("batch-size")
			r.SetType(TypeInt)
			r.SetMin("1")
			r.SetMax("5")
			r.SetStep("1")
		}))
		return key
	}

	first := commit()
	require.True(t, s.Save(first).Ok())

	second := commit()
	result := s.Save(second)
	assert.Equal(t, DuplicateParameter, result.Reason)
	assert.True(t, s.Rows()[1].Editable)
}

func TestCancelRestoresSnapshot(t *testing.T) {
	s := NewRowStore(nil)

	key := s.AddRow()
	require.NoError(t, s.Apply(key, func(r *Row) {
		r.SetCategory(CategoryEnv)
		r.SetName("batch-size")
		r.SetType(TypeInt)
		r.SetMin("1")
		r.SetMax("5")
		r.SetStep("1")
	}))
	require.True(t, s.Save(key).Ok())

	// Edit and change a field, then cancel
	require.NoError(t, s.ToggleEdit(key))
	require.NoError(t, s.Apply(key, func(r *Row) { r.SetMax("500") }))
	require.NoError(t, s.Cancel(key))

	rows := s.Rows()
	assert.Equal(t, "5", rows[0].Max)
	assert.False(t, rows[0].Editable)
}

func TestRemoveRow(t *testing.T) {
	var notifications int
	s := NewRowStore(func([]Row) { notifications++ })

	key := s.AddRow()
	require.NoError(t, s.RemoveRow(key))
	assert.Empty(t, s.Rows())
	assert.Equal(t, 1, notifications)

	err := s.RemoveRow(key)
	var nsr *ErrNoSuchRow
	assert.ErrorAs(t, err, &nsr)
}

func TestCheckMetadata(t *testing.T) {
	s := NewState()
	s.Name = "demo-experiment"
	s.Namespace = "default"
	s.Algorithm.Name = "grid"

	assert.NoError(t, s.CheckMetadata())

	s.Name = "Demo"
	assert.Error(t, s.CheckMetadata())
	s.Name = "demo-experiment"

	s.Parallelism = 9
	assert.Error(t, s.CheckMetadata())
	s.Parallelism = 1

	s.MaxTrials = 100
	assert.Error(t, s.CheckMetadata())
}
