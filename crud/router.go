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
	"strconv"

	"github.com/burrowkit/burrow/lib/errors"
	"github.com/burrowkit/burrow/lib/middleware"
	"github.com/burrowkit/burrow/lib/server"
	"github.com/burrowkit/burrow/lib/util"
	"github.com/burrowkit/burrow/middlewares/errormw"
	"github.com/burrowkit/burrow/middlewares/logmw"
	"github.com/burrowkit/burrow/middlewares/rendermw"
)

// RouterConfig binds a controller to a versioned URL prefix.
type RouterConfig struct {
	// BasePath is the URL prefix of the resource, e.g. "/user".
	BasePath string
	// Version is the API version baked into the path.
	Version uint
	// Middlewares are applied to every endpoint of the resource.
	Middlewares []middleware.Middleware
	// MutationMiddlewares are additionally applied to the create, update and
	// delete endpoints. The usual candidate is dbmw.Begin().
	MutationMiddlewares []middleware.Middleware
}

var _ server.Service = &Router{}

// Router registers a Controller's enabled operations on the computed paths.
//
// The collection path is {base_path}/v{version}, the item path is
// {base_path}/v{version}/:id. Only enabled operations are registered, so a
// disabled verb is absent from the routing table altogether. Registering two
// routers that claim the same (verb, path) pair panics at startup.
type Router struct {
	config     RouterConfig
	controller *Controller
}

// NewRouter validates the config and builds a Router.
func NewRouter(config RouterConfig, controller *Controller) (*Router, error) {
	if controller == nil {
		return nil, errors.New("router needs a controller")
	}
	if config.BasePath == "" {
		return nil, errors.New("router needs a base path")
	}
	if config.Version == 0 {
		return nil, errors.New("router needs a version")
	}

	return &Router{
		config:     config,
		controller: controller,
	}, nil
}

// Name returns the machine name of the routed resource.
func (rt *Router) Name() string {
	return rt.controller.Name()
}

// CollectionPath returns the path serving create and list.
func (rt *Router) CollectionPath() string {
	return util.NormalizePath(rt.config.BasePath) + "/v" + strconv.FormatUint(uint64(rt.config.Version), 10)
}

// ItemPath returns the path serving get, update and delete.
func (rt *Router) ItemPath() string {
	return rt.CollectionPath() + "/:id"
}

// handlerDependencies are the middlewares every controller handler relies on
// at request time. Declaring them makes a server without them fail at
// registration instead of mid-request.
var handlerDependencies = []string{
	logmw.MiddlewareDependencyLog,
	errormw.MiddlewareDependencyError,
	rendermw.MiddlewareDependencyRender,
}

func wrapHandler(f http.HandlerFunc) http.Handler {
	return middleware.WrapHandlerFunc(f, handlerDependencies...)
}

// Register wires the enabled operations into the server's routing table.
//
// This is a one-time, order-independent startup operation. There is no
// rollback: a registration conflict panics, which fails the whole startup.
func (rt *Router) Register(s *server.Server) error {
	c := rt.controller
	collection := rt.CollectionPath()
	item := rt.ItemPath()

	mutation := append(append([]middleware.Middleware{}, rt.config.Middlewares...), rt.config.MutationMiddlewares...)

	if c.operations.Supports(OpCreate) {
		s.Post(collection, wrapHandler(c.createHandler), mutation...)
	}

	if c.operations.Supports(OpRead) {
		s.Get(collection, wrapHandler(c.listHandler), rt.config.Middlewares...)
		s.Head(collection, wrapHandler(c.listHandler), rt.config.Middlewares...)
		s.Get(item, wrapHandler(c.getHandler), rt.config.Middlewares...)
		s.Head(item, wrapHandler(c.getHandler), rt.config.Middlewares...)
	}

	if c.operations.Supports(OpUpdate) {
		s.Patch(item, wrapHandler(c.updateHandler), mutation...)
		s.Put(item, wrapHandler(c.updateHandler), mutation...)
	}

	if c.operations.Supports(OpDelete) {
		s.Delete(item, wrapHandler(c.deleteHandler), mutation...)
	}

	return nil
}
