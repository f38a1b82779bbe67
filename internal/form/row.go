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

// Package form holds the state of the experiment creation form: the editable
// collection of tunable parameter rows, their validation rules, and the aggregate
// form state handed to the submission pipeline. It is independent of any rendering
// layer, views subscribe to explicit change notifications.
package form

// Category determines which submission bucket a parameter lands in and the domain
// of its name.
type Category string

const (
	CategoryResource Category = "Resource"
	CategoryEnv      Category = "Env"
	CategoryArgs     Category = "Args"
)

// Categories lists the selectable categories in display order.
func Categories() []Category {
	return []Category{CategoryResource, CategoryEnv, CategoryArgs}
}

// ParameterType determines which feasible-space fields of a row are live.
type ParameterType string

const (
	TypeInt      ParameterType = "int"
	TypeDouble   ParameterType = "double"
	TypeDiscrete ParameterType = "discrete"
)

// ParameterTypes lists the selectable types in display order.
func ParameterTypes() []ParameterType {
	return []ParameterType{TypeInt, TypeDouble, TypeDiscrete}
}

// Sentinel marks a feasible-space field that does not apply to the row's current
// type. It is display state, never submitted.
const Sentinel = "-"

// ResourceNames is the fixed name domain for Resource rows.
var ResourceNames = []string{"CPU", "Memory", "GPU Memory"}

// Row is one entry of the editable parameter table. A row is created in edit mode
// and only joins the committed collection once it validates; identity is carried by
// Key across edits.
type Row struct {
	Key string

	Category Category
	Name     string
	Type     ParameterType

	// Min, Max and Step hold numeric literals while Type is int or double; List
	// holds comma separated values while Type is discrete. The inactive side is
	// pinned to Sentinel.
	Min  string
	Max  string
	Step string
	List string

	// Editable is true while the row is being edited.
	Editable bool
	// IsNew is true until the row is committed for the first time.
	IsNew bool
}

// SetCategory changes the row category and clears the name, whose domain depends on
// the category.
func (r *Row) SetCategory(c Category) {
	r.Category = c
	r.Name = ""
}

// SetType changes the parameter type and resets the feasible-space fields that no
// longer apply.
func (r *Row) SetType(t ParameterType) {
	r.Type = t
	if t == TypeDiscrete {
		r.Min, r.Max, r.Step = Sentinel, Sentinel, Sentinel
		r.List = ""
	} else {
		r.List = Sentinel
		r.Min, r.Max, r.Step = "", "", ""
	}
}

func (r *Row) SetName(v string) { r.Name = v }
func (r *Row) SetMin(v string)  { r.Min = v }
func (r *Row) SetMax(v string)  { r.Max = v }
func (r *Row) SetStep(v string) { r.Step = v }
func (r *Row) SetList(v string) { r.List = v }

// numeric reports whether the row carries a min/max/step range.
func (r *Row) numeric() bool {
	return r.Type == TypeInt || r.Type == TypeDouble
}
