// Copyright 2026 The Burrow Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package crud

import (
	"net/http"
	"strings"
)

// Operations is the set of data operations a controller exposes.
//
// A controller only registers endpoints for the operations in its set.
// Anything outside the set stays invisible to the router, so clients get the
// router's standard 404/405 answer instead of a 403.
type Operations uint8

const (
	// OpCreate allows POST on the collection path.
	OpCreate Operations = 1 << iota
	// OpRead allows GET on the collection and item paths.
	OpRead
	// OpUpdate allows PATCH and PUT on the item path.
	OpUpdate
	// OpDelete allows DELETE on the item path.
	OpDelete

	// OpAll is the full create/read/update/delete set.
	OpAll = OpCreate | OpRead | OpUpdate | OpDelete
)

// Supports tells if every operation in ops is in the set.
func (o Operations) Supports(ops Operations) bool {
	return o&ops == ops
}

// CollectionMethods returns the HTTP methods answered on the collection path.
func (o Operations) CollectionMethods() []string {
	var methods []string

	if o.Supports(OpRead) {
		methods = append(methods, http.MethodGet, http.MethodHead)
	}
	if o.Supports(OpCreate) {
		methods = append(methods, http.MethodPost)
	}
	if len(methods) > 0 {
		methods = append(methods, http.MethodOptions)
	}

	return methods
}

// ItemMethods returns the HTTP methods answered on the item path.
func (o Operations) ItemMethods() []string {
	var methods []string

	if o.Supports(OpRead) {
		methods = append(methods, http.MethodGet, http.MethodHead)
	}
	if o.Supports(OpUpdate) {
		methods = append(methods, http.MethodPatch, http.MethodPut)
	}
	if o.Supports(OpDelete) {
		methods = append(methods, http.MethodDelete)
	}
	if len(methods) > 0 {
		methods = append(methods, http.MethodOptions)
	}

	return methods
}

func (o Operations) String() string {
	names := make([]string, 0, 4)

	if o.Supports(OpCreate) {
		names = append(names, "create")
	}
	if o.Supports(OpRead) {
		names = append(names, "read")
	}
	if o.Supports(OpUpdate) {
		names = append(names, "update")
	}
	if o.Supports(OpDelete) {
		names = append(names, "delete")
	}

	return strings.Join(names, "+")
}
