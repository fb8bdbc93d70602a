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

// Package crud declares HTTP resources with minimal code: a model struct, a
// controller with an operation set, and a router binding versioned paths to
// the controller.
package crud

import (
	"encoding/json"
	"net/http"
	"reflect"
	"strconv"

	"github.com/burrowkit/burrow/lib"
	"github.com/burrowkit/burrow/lib/decoder"
	"github.com/burrowkit/burrow/lib/db"
	"github.com/burrowkit/burrow/lib/errors"
	"github.com/burrowkit/burrow/lib/event"
	"github.com/burrowkit/burrow/lib/render"
	"github.com/burrowkit/burrow/lib/server"
	"github.com/burrowkit/burrow/lib/util"
	"github.com/burrowkit/burrow/middlewares/dbmw"
	"github.com/burrowkit/burrow/middlewares/rendermw"
	"github.com/lib/pq"
)

// ErrNoEndpoints is returned when a controller would expose no operations.
var ErrNoEndpoints = errors.New("no endpoints are enabled for this resource")

// DefaultPageSize is the page length of list endpoints unless configured.
const DefaultPageSize = 25

// SettableFields restricts which columns a create request may set.
//
// Without it, every non-primary-key column is settable.
type SettableFields interface {
	SettableFields() []string
}

// EditableFields restricts which columns an update request may change.
//
// Without it, every non-primary-key column is editable.
type EditableFields interface {
	EditableFields() []string
}

// RequiredFields lists columns that must be present in a create request body.
type RequiredFields interface {
	RequiredFields() []string
}

// ResourceList is a page of resources with its pagination envelope.
type ResourceList struct {
	Items    []Resource `json:"items"`
	Size     int        `json:"size"`
	Total    int        `json:"total"`
	Pages    int        `json:"pages"`
	Next     string     `json:"next,omitempty"`
	Previous string     `json:"previous,omitempty"`
}

func (rl *ResourceList) Sanitize() {
	for _, item := range rl.Items {
		if sanitizer, ok := item.(lib.Sanitizer); ok {
			sanitizer.Sanitize()
		}
	}
}

// ResourceFormatter formats resources for the HTTP response.
type ResourceFormatter interface {
	FormatSingle(Resource, *render.Renderer)
	FormatMulti(*ResourceList, *render.Renderer)
}

var _ ResourceFormatter = &DefaultResourceFormatter{}

// DefaultResourceFormatter renders resources in the common negotiated formats.
type DefaultResourceFormatter struct {
}

func (f *DefaultResourceFormatter) FormatSingle(res Resource, r *render.Renderer) {
	r.CommonFormats(res)
}

func (f *DefaultResourceFormatter) FormatMulti(list *ResourceList, r *render.Renderer) {
	r.JSON(list).YAML(list)
}

// ControllerConfig fully determines a Controller's behavior.
type ControllerConfig struct {
	// Name is the machine name of the resource.
	Name string
	// Storage persists the resource.
	Storage Storage
	// Operations is the set of exposed operations.
	Operations Operations
	// PageSize is the list page length. Defaults to DefaultPageSize.
	PageSize int
	// Manager supplies database handles when the database middleware is not
	// active on the request. When nil, the process-wide default manager is
	// captured at construction time.
	Manager *db.Manager
	// Dispatcher receives the lifecycle events. Optional.
	Dispatcher *event.Dispatcher
	// Formatter renders responses. Defaults to DefaultResourceFormatter.
	Formatter ResourceFormatter
}

var _ server.Service = &Controller{}

// Controller serves the enabled CRUD operations for one resource.
//
// It owns no data itself: all state lives behind its Storage.
type Controller struct {
	name           string
	storage        Storage
	operations     Operations
	pageSize       int
	manager        *db.Manager
	dispatcher     *event.Dispatcher
	formatter      ResourceFormatter
	model          *modelInfo
	errorConverter func(err *pq.Error) errors.Error
}

// NewController validates the config and builds a Controller.
//
// It fails fast: a zero operation set, a missing storage, or an unconfigured
// database manager surface here, at startup, not at request time.
func NewController(config ControllerConfig) (*Controller, error) {
	if config.Name == "" {
		return nil, errors.New("controller needs a resource name")
	}
	if config.Storage == nil {
		return nil, errors.New("controller needs a storage")
	}
	if config.Operations == 0 {
		return nil, ErrNoEndpoints
	}
	if config.PageSize == 0 {
		config.PageSize = DefaultPageSize
	}
	if config.Manager == nil {
		manager, err := db.DefaultManager()
		if err != nil {
			return nil, err
		}
		config.Manager = manager
	}
	if config.Formatter == nil {
		config.Formatter = &DefaultResourceFormatter{}
	}

	model, err := newModelInfo(config.Storage.Empty())
	if err != nil {
		return nil, err
	}

	return &Controller{
		name:       config.Name,
		storage:    config.Storage,
		operations: config.Operations,
		pageSize:   config.PageSize,
		manager:    config.Manager,
		dispatcher: config.Dispatcher,
		formatter:  config.Formatter,
		model:      model,
		errorConverter: func(err *pq.Error) errors.Error {
			return errors.NewError(err.Message, err.Detail)
		},
	}, nil
}

// Name returns the machine name of the resource.
func (c *Controller) Name() string {
	return c.name
}

// Operations returns the enabled operation set.
func (c *Controller) Operations() Operations {
	return c.operations
}

// SetErrorConverter replaces how database errors are turned into user errors.
func (c *Controller) SetErrorConverter(conv func(err *pq.Error) errors.Error) {
	c.errorConverter = conv
}

// Register exposes the controller at its default path, "/" + name, version 1.
//
// Use a Router for explicit path control.
func (c *Controller) Register(s *server.Server) error {
	router, err := NewRouter(RouterConfig{BasePath: "/" + c.name, Version: 1}, c)
	if err != nil {
		return err
	}

	return router.Register(s)
}

// conn returns the request-scoped database handle.
//
// The transaction or connection injected by the database middleware wins;
// otherwise the controller falls back to its own manager. Returns nil when
// neither has a live connection, which storages that ignore the handle accept.
func (c *Controller) conn(r *http.Request) db.DB {
	if conn := dbmw.GetConnection(r); conn != nil {
		return conn
	}

	if conn, err := c.manager.Conn(); err == nil {
		return conn
	}

	return nil
}

func (c *Controller) convertError(err error) error {
	return db.ConvertDBError(err, c.errorConverter)
}

// maybeFailStorage surfaces a storage error as an HTTP response.
//
// Constraint violations become 409. Data exceptions become 404: they come
// from values that can not be cast to the column type, most commonly a
// malformed primary key in the URL, which identifies no resource. Everything
// else is a 500.
func (c *Controller) maybeFailStorage(err error) {
	if err == nil {
		return
	}

	if db.IsConstraintViolation(err) {
		errors.Fail(http.StatusConflict, c.convertError(err))
	}

	if db.IsDataException(err) {
		errors.Fail(http.StatusNotFound, nil)
	}

	errors.Fail(http.StatusInternalServerError, c.convertError(err))
}

func (c *Controller) dispatch(e event.Event) {
	if c.dispatcher == nil {
		return
	}

	if errs := c.dispatcher.Dispatch(e); len(errs) > 0 {
		errors.Fail(http.StatusInternalServerError, errs[0])
	}
}

// decodeBody reads the request body as a loose field map keyed by column name.
//
// Incoming keys use the wire convention (lowerCamel); they are folded to the
// snake_case column names here, so the rest of the controller only sees
// column names. Values are normalized to JSON so that any supported request
// content type can feed the typed field assignment.
func decodeBody(r *http.Request) map[string]json.RawMessage {
	wire := map[string]interface{}{}
	decoder.MustDecode(r, &wire)

	body := make(map[string]json.RawMessage, len(wire))
	for key, value := range wire {
		raw, err := json.Marshal(value)
		if err != nil {
			errors.Fail(http.StatusBadRequest, errors.Wrap(err, "invalid value for field "+key))
		}
		body[util.CamelToSnake(key)] = raw
	}

	return body
}

// applyFields copies body values onto the resource's tagged fields.
//
// The primary key is never writable through the body. The allowed list, when
// non-nil, restricts writes further. Unknown keys are rejected.
func (c *Controller) applyFields(res Resource, body map[string]json.RawMessage, allowed []string) {
	allowset := map[string]struct{}{}
	for _, col := range allowed {
		allowset[col] = struct{}{}
	}

	v := reflect.ValueOf(res).Elem()

	for col, raw := range body {
		if col == c.model.pkCol {
			errors.Fail(http.StatusBadRequest, errors.NewError("attempt to set the primary key", "the field "+util.SnakeToLowerCamel(col)+" is read only"))
		}

		if c.model.deletedCol != "" && col == c.model.deletedCol {
			errors.Fail(http.StatusBadRequest, errors.NewError("attempt to set the deletion timestamp", "the field "+util.SnakeToLowerCamel(col)+" is read only"))
		}

		idx, ok := c.model.fields[col]
		if !ok {
			errors.Fail(http.StatusBadRequest, errors.NewError("unknown field in request body", "unknown field "+util.SnakeToLowerCamel(col)))
		}

		if allowed != nil {
			if _, ok = allowset[col]; !ok {
				errors.Fail(http.StatusBadRequest, errors.NewError("field is not writable", "the field "+util.SnakeToLowerCamel(col)+" can not be changed"))
			}
		}

		target := v.Field(idx).Addr().Interface()
		if err := json.Unmarshal(raw, target); err != nil {
			errors.Fail(http.StatusBadRequest, errors.Wrap(err, "invalid value for field "+util.SnakeToLowerCamel(col)))
		}
	}
}

func (c *Controller) checkRequired(body map[string]json.RawMessage) {
	req, ok := c.storage.Empty().(RequiredFields)
	if !ok {
		return
	}

	for _, col := range req.RequiredFields() {
		if _, present := body[col]; !present {
			errors.Fail(http.StatusBadRequest, errors.NewError("missing required field", "the field "+util.SnakeToLowerCamel(col)+" is required"))
		}
	}
}

func (c *Controller) validate(res Resource) {
	if v, ok := res.(lib.Validator); ok {
		if err := v.Validate(); err != nil {
			errors.Fail(http.StatusUnprocessableEntity, err)
		}
	}
}

func (c *Controller) createHandler(w http.ResponseWriter, r *http.Request) {
	body := decodeBody(r)
	c.checkRequired(body)

	res := c.storage.Empty()
	c.applyFields(res, body, settableColumns(res))

	c.dispatch(newResourceEvent(EventBeforeCreate, r, res))

	c.validate(res)

	err := c.storage.Insert(c.conn(r), res)
	c.maybeFailStorage(err)

	c.dispatch(newResourceEvent(EventAfterCreate, r, res))

	c.formatter.FormatSingle(res, rendermw.Render(r).SetCode(http.StatusCreated))
}

func (c *Controller) listHandler(w http.ResponseWriter, r *http.Request) {
	start := Pager(r, c.pageSize)

	c.dispatch(newListEvent(EventBeforeList, r, nil))

	conn := c.conn(r)

	items, err := c.storage.List(conn, start, c.pageSize)
	c.maybeFailStorage(err)

	total, err := c.storage.Count(conn)
	c.maybeFailStorage(err)

	list := &ResourceList{
		Items: items,
		Size:  c.pageSize,
		Total: total,
		Pages: (total + c.pageSize - 1) / c.pageSize,
	}

	page := start/c.pageSize + 1
	base := r.URL.Path
	if page > 1 {
		list.Previous = base + "?page=" + strconv.Itoa(page-1)
	}
	if page < list.Pages {
		list.Next = base + "?page=" + strconv.Itoa(page+1)
	}

	c.dispatch(newListEvent(EventAfterList, r, list))

	c.formatter.FormatMulti(list, rendermw.Render(r))
}

func (c *Controller) getHandler(w http.ResponseWriter, r *http.Request) {
	id := server.GetParams(r).ByName("id")

	c.dispatch(newResourceEvent(EventBeforeGet, r, nil))

	res, err := c.storage.Load(c.conn(r), id)
	c.maybeFailStorage(err)
	if res == nil {
		errors.Fail(http.StatusNotFound, nil)
	}

	c.dispatch(newResourceEvent(EventAfterGet, r, res))

	c.formatter.FormatSingle(res, rendermw.Render(r))
}

// updateHandler serves both PATCH and PUT with partial update semantics:
// fields absent from the body keep their stored values.
func (c *Controller) updateHandler(w http.ResponseWriter, r *http.Request) {
	id := server.GetParams(r).ByName("id")

	conn := c.conn(r)

	res, err := c.storage.Load(conn, id)
	c.maybeFailStorage(err)
	if res == nil {
		errors.Fail(http.StatusNotFound, nil)
	}

	body := decodeBody(r)
	c.applyFields(res, body, editableColumns(res))

	c.dispatch(newResourceEvent(EventBeforeUpdate, r, res))

	c.validate(res)

	err = c.storage.Update(conn, res)
	c.maybeFailStorage(err)

	c.dispatch(newResourceEvent(EventAfterUpdate, r, res))

	c.formatter.FormatSingle(res, rendermw.Render(r))
}

func (c *Controller) deleteHandler(w http.ResponseWriter, r *http.Request) {
	id := server.GetParams(r).ByName("id")

	conn := c.conn(r)

	res, err := c.storage.Load(conn, id)
	c.maybeFailStorage(err)
	if res == nil {
		errors.Fail(http.StatusNotFound, nil)
	}

	c.dispatch(newResourceEvent(EventBeforeDelete, r, res))

	err = c.storage.Delete(conn, res)
	c.maybeFailStorage(err)

	c.dispatch(newResourceEvent(EventAfterDelete, r, res))
}

func settableColumns(res Resource) []string {
	if s, ok := res.(SettableFields); ok {
		return s.SettableFields()
	}

	return nil
}

func editableColumns(res Resource) []string {
	if e, ok := res.(EditableFields); ok {
		return e.EditableFields()
	}

	return nil
}

// Pager extracts the page query parameter and converts it to an offset.
//
// Pages are numbered from 1; a missing or malformed parameter means page 1.
func Pager(r *http.Request, limit int) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	return (page - 1) * limit
}
