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

/*
Package burrow is the main package of the Burrow CRUD toolkit.

This package assembles the server and the default middleware stack. If you want to get started, take a look at Hop, New and the crud package.

The lowest level component is the server in lib/server, a wrapper on the top of httprouter that adds a dependency-checked middleware stack. On the server you register Services, logical units of endpoints. The crud package builds on that: a model struct with db tags, a Controller with an operation set, and a Router binding versioned paths to the controller give you REST endpoints without hand-written handlers.

Quick and dirty usage:

	func main() {
		burrow.Hop(func(app *burrow.App) error {
			storage, err := crud.NewSQLStorage(&Content{}, "content")
			if err != nil {
				return err
			}

			controller, err := crud.NewController(crud.ControllerConfig{
				Name:       "content",
				Storage:    storage,
				Operations: crud.OpCreate | crud.OpRead,
				Manager:    app.Manager,
			})
			if err != nil {
				return err
			}

			return app.Server.RegisterService(controller)
		}, nil)
	}
*/
package burrow
