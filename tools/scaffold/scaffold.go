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

package scaffoldcmd

import (
	"os"
	"strings"
	"text/template"

	"github.com/burrowkit/burrow/lib/log"
	"github.com/spf13/cobra"
)

func CreateScaffoldCMD(logger log.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scaffold [name]",
		Short: "generates an application skeleton",
		Args:  cobra.ExactArgs(1),
	}

	module := cmd.Flags().String("module", "", "module path of the generated application")

	cmd.RunE = func(c *cobra.Command, args []string) error {
		name := args[0]
		mod := *module
		if mod == "" {
			mod = name
		}

		return ScaffoldApp(name, mod)
	}

	return cmd
}

// ScaffoldApp generates a runnable application skeleton in a new directory.
func ScaffoldApp(name, module string) error {
	if err := os.Mkdir(name, 0755); err != nil {
		return err
	}

	if err := os.Chdir(name); err != nil {
		return err
	}
	defer os.Chdir("..")

	data := AppData{
		Name:   name,
		Module: module,
		Prefix: envPrefix(name),
	}

	for _, t := range appTemplates {
		if err := renderToFile(t, data); err != nil {
			return err
		}
	}

	return nil
}

type AppData struct {
	Name   string
	Module string
	Prefix string
}

func envPrefix(name string) string {
	name = strings.Replace(name, "-", "", -1)
	name = strings.Replace(name, "_", "", -1)

	return strings.ToLower(name)
}

func renderToFile(t *template.Template, data interface{}) error {
	file, err := os.Create(t.Name())
	if err != nil {
		return err
	}
	defer file.Close()

	return t.Execute(file, data)
}

var appTemplates = []*template.Template{
	maingo,
	gomod,
	gitignore,
}

var maingo = template.Must(template.New("main.go").Parse(`package main

import (
	"os"

	"github.com/burrowkit/burrow"
	"github.com/burrowkit/burrow/crud"
	"github.com/burrowkit/burrow/lib/log"
	"github.com/burrowkit/burrow/lib/middleware"
	"github.com/burrowkit/burrow/middlewares/dbmw"
)

type item struct {
	ID   int    ` + "`db:\"id,pk\" json:\"id\"`" + `
	Name string ` + "`db:\"name\" json:\"name\"`" + `
}

func (i *item) RequiredFields() []string {
	return []string{"name"}
}

func configure(app *burrow.App) error {
	storage, err := crud.NewSQLStorage(&item{}, "items")
	if err != nil {
		return err
	}

	controller, err := crud.NewController(crud.ControllerConfig{
		Name:       "item",
		Storage:    storage,
		Operations: crud.OpAll,
		Manager:    app.Manager,
	})
	if err != nil {
		return err
	}

	router, err := crud.NewRouter(crud.RouterConfig{
		BasePath:            "/item",
		Version:             1,
		MutationMiddlewares: []middleware.Middleware{dbmw.Begin()},
	}, controller)
	if err != nil {
		return err
	}

	return app.RegisterResource(router)
}

func run(logger log.Logger) error {
	conf, err := burrow.LoadConfig("{{.Prefix}}")
	if err != nil {
		return err
	}

	app, err := burrow.New(conf, logger)
	if err != nil {
		return err
	}

	if err = configure(app); err != nil {
		return err
	}

	return app.Run()
}

func main() {
	logger := log.DefaultDevLogger()

	if err := run(logger); err != nil {
		logger.Log("error", err)
		os.Exit(1)
	}
}
`))

var gomod = template.Must(template.New("go.mod").Parse(`module {{.Module}}

go 1.21

require github.com/burrowkit/burrow v0.1.0
`))

var gitignore = template.Must(template.New(".gitignore").Parse(`{{.Name}}
*.log
`))
