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
	"fmt"
)

// ErrNoSuchRow is returned when a row key does not identify a live row.
type ErrNoSuchRow struct {
	Key string
}

func (e *ErrNoSuchRow) Error() string {
	return fmt.Sprintf("no parameter row with key %q", e.Key)
}

// RowStore is the ordered, editable collection of tunable parameter rows. It is an
// explicitly owned object: the owning view constructs it, mutates it through typed
// operations, and receives the committed collection through the change callback.
// Not safe for concurrent use; it is owned by the single UI goroutine.
type RowStore struct {
	rows []Row

	// snapshots caches the pre-edit copy of each row currently in edit mode so
	// Cancel can restore it.
	snapshots map[string]Row

	// next feeds the temporary keys handed to uncommitted rows.
	next int

	onChange func([]Row)
}

// NewRowStore returns an empty store. The onChange callback, if not nil, receives
// the full collection after every successful save and every removal.
func NewRowStore(onChange func([]Row)) *RowStore {
	return &RowStore{
		snapshots: make(map[string]Row),
		onChange:  onChange,
	}
}

// Rows returns a copy of the collection in insertion order.
func (s *RowStore) Rows() []Row {
	return append([]Row(nil), s.rows...)
}

// Committed returns only the rows that have been saved at least once and are not
// mid-edit.
func (s *RowStore) Committed() []Row {
	var out []Row
	for i := range s.rows {
		if !s.rows[i].Editable {
			out = append(out, s.rows[i])
		}
	}
	return out
}

func (s *RowStore) find(key string) *Row {
	for i := range s.rows {
		if s.rows[i].Key == key {
			return &s.rows[i]
		}
	}
	return nil
}

// AddRow appends a new editable row with default category, name and type and
// returns its temporary key.
func (s *RowStore) AddRow() string {
	key := fmt.Sprintf("NEW_TEMP_ID_%d", s.next)
	s.next++

	row := Row{
		Key:      key,
		Category: CategoryResource,
		Name:     ResourceNames[0],
		Type:     TypeInt,
		Editable: true,
		IsNew:    true,
	}
	s.rows = append(s.rows, row)
	return key
}

// ToggleEdit flips a row in or out of edit mode. On entry into edit mode the
// current value is cached so Cancel can restore it.
func (s *RowStore) ToggleEdit(key string) error {
	row := s.find(key)
	if row == nil {
		return &ErrNoSuchRow{Key: key}
	}

	if !row.Editable {
		s.snapshots[key] = *row
	}
	row.Editable = !row.Editable
	return nil
}

// Apply mutates one row through the supplied function. Mutation uses the row's
// typed setters; no validation happens at this point.
func (s *RowStore) Apply(key string, mutate func(*Row)) error {
	row := s.find(key)
	if row == nil {
		return &ErrNoSuchRow{Key: key}
	}
	mutate(row)
	return nil
}

// RemoveRow deletes the row unconditionally and notifies the owner.
func (s *RowStore) RemoveRow(key string) error {
	for i := range s.rows {
		if s.rows[i].Key == key {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			delete(s.snapshots, key)
			s.notify()
			return nil
		}
	}
	return &ErrNoSuchRow{Key: key}
}

// Cancel discards in-progress edits, restoring the cached snapshot and leaving
// edit mode. Cancelling a row that was never committed leaves it in place, still
// editable.
func (s *RowStore) Cancel(key string) error {
	row := s.find(key)
	if row == nil {
		return &ErrNoSuchRow{Key: key}
	}

	if snap, ok := s.snapshots[key]; ok {
		*row = snap
		row.Editable = false
		delete(s.snapshots, key)
	}
	return nil
}

// Save validates the row and, only on success, commits it: IsNew is cleared,
// edit mode ends, the snapshot is dropped and the owner is notified. On failure
// the row stays editable and the result carries the reason.
func (s *RowStore) Save(key string) ValidationResult {
	row := s.find(key)
	if row == nil {
		// A save against a removed row is a no-op rather than a failure surfaced
		// to the user
		return ValidationResult{}
	}

	if result := Validate(*row, s.rows); !result.Ok() {
		return result
	}

	row.IsNew = false
	row.Editable = false
	delete(s.snapshots, key)
	s.notify()
	return ValidationResult{}
}

func (s *RowStore) notify() {
	if s.onChange != nil {
		s.onChange(s.Rows())
	}
}
