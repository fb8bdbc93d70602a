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

	"github.com/burrowkit/burrow/lib/event"
)

// Lifecycle event names dispatched by a Controller.
//
// The "before" events fire after the request body is decoded and applied but
// before validation and storage. The "after" events fire once the storage
// operation succeeded, inside the same transaction when one is active.
const (
	EventBeforeCreate = "crud-before-create"
	EventAfterCreate  = "crud-after-create"
	EventBeforeList   = "crud-before-list"
	EventAfterList    = "crud-after-list"
	EventBeforeGet    = "crud-before-get"
	EventAfterGet     = "crud-after-get"
	EventBeforeUpdate = "crud-before-update"
	EventAfterUpdate  = "crud-after-update"
	EventBeforeDelete = "crud-before-delete"
	EventAfterDelete  = "crud-after-delete"
)

// ResourceEvent is dispatched around every controller operation.
type ResourceEvent struct {
	name     string
	request  *http.Request
	resource Resource
	list     *ResourceList
}

func (e *ResourceEvent) Name() string {
	return e.name
}

func (e *ResourceEvent) ErrorStrategy() event.ErrorStrategy {
	return event.ErrorStrategyAggregate
}

// Request returns the request that triggered the event.
func (e *ResourceEvent) Request() *http.Request {
	return e.request
}

// Resource returns the affected resource. Nil for list events and the before
// phase of get/delete.
func (e *ResourceEvent) Resource() Resource {
	return e.resource
}

// List returns the result list on after-list events, nil otherwise.
func (e *ResourceEvent) List() *ResourceList {
	return e.list
}

func newResourceEvent(name string, r *http.Request, res Resource) *ResourceEvent {
	return &ResourceEvent{
		name:     name,
		request:  r,
		resource: res,
	}
}

func newListEvent(name string, r *http.Request, list *ResourceList) *ResourceEvent {
	return &ResourceEvent{
		name:    name,
		request: r,
		list:    list,
	}
}
