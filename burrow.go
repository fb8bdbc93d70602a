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

package burrow

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/burrowkit/burrow/crud"
	"github.com/burrowkit/burrow/lib/db"
	"github.com/burrowkit/burrow/lib/env"
	"github.com/burrowkit/burrow/lib/log"
	"github.com/burrowkit/burrow/lib/middleware"
	"github.com/burrowkit/burrow/lib/server"
	"github.com/burrowkit/burrow/middlewares/dbmw"
	"github.com/burrowkit/burrow/middlewares/errormw"
	"github.com/burrowkit/burrow/middlewares/logmw"
	"github.com/burrowkit/burrow/middlewares/rendermw"
	"github.com/burrowkit/burrow/middlewares/requestmw"
	"github.com/imdario/mergo"
)

// VERSION is the version of the framework.
const VERSION = "dev"

// Config is the embedding application's server configuration.
type Config struct {
	Host string
	Port string
	DB   struct {
		ConnectionString      string
		MaxIdleConn           int
		MaxOpenConn           int
		ConnectionMaxLifetime time.Duration
	}
	Log struct {
		Access        bool
		DisplayErrors bool
	}
	Gzip    bool
	Timeout time.Duration
}

// DefaultConfig returns the configuration New falls back to.
func DefaultConfig() Config {
	c := Config{
		Host:    "localhost",
		Port:    "8080",
		Gzip:    true,
		Timeout: 30 * time.Second,
	}
	c.DB.MaxIdleConn = 2
	c.DB.MaxOpenConn = 16
	c.DB.ConnectionMaxLifetime = time.Hour
	c.Log.Access = true

	return c
}

// LoadConfig builds the configuration from environment variables prefixed
// with prefix, with DefaultConfig filling the gaps.
func LoadConfig(prefix string) (Config, error) {
	conf := Config{}
	if err := env.NewUnmarshaler(prefix).Unmarshal(&conf); err != nil {
		return conf, err
	}

	if err := mergo.Merge(&conf, DefaultConfig()); err != nil {
		return conf, err
	}

	return conf, nil
}

// App bundles a configured server with its database manager.
type App struct {
	Server  *server.Server
	Manager *db.Manager
	Logger  log.Logger

	conf Config
}

// New assembles a server with the default middleware stack.
//
// When the config carries a database connection string, the connection
// manager is opened, installed as the process default, and injected into
// every request by the database middleware.
func New(conf Config, logger log.Logger) (*App, error) {
	if logger == nil {
		logger = log.DefaultDevLogger()
	}

	if hostname, _ := os.Hostname(); hostname != "" {
		logger = log.With(logger, "hostname", hostname)
	}

	s := server.NewServer(logger)
	s.Router.NotFound = simpleError(http.StatusNotFound)
	s.Router.MethodNotAllowed = simpleError(http.StatusMethodNotAllowed)

	s.Use(requestmw.NewRequestIDMiddleware())

	if conf.Log.Access {
		s.Use(requestmw.NewRequestLoggerMiddleware(logger))
	}

	if conf.Gzip {
		handler, err := gziphandler.GzipHandlerWithOpts(gziphandler.CompressionLevel(9))
		if err != nil {
			return nil, err
		}
		s.UseF(handler)
	}

	s.UseF(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Powered-By", "Burrow "+VERSION)
			next.ServeHTTP(w, r)
		})
	})

	s.Use(logmw.New(logger))
	s.Use(errormw.New(conf.Log.DisplayErrors))
	s.Use(rendermw.New())

	app := &App{
		Server: s,
		Logger: logger,
		conf:   conf,
	}

	if conf.DB.ConnectionString != "" {
		manager, err := db.Connect(conf.DB.ConnectionString)
		if err != nil {
			return nil, err
		}

		conn, err := manager.Conn()
		if err != nil {
			return nil, err
		}
		conn.SetMaxIdleConns(conf.DB.MaxIdleConn)
		conn.SetMaxOpenConns(conf.DB.MaxOpenConn)
		conn.SetConnMaxLifetime(conf.DB.ConnectionMaxLifetime)

		db.SetDefault(manager)
		s.Use(dbmw.New(manager))

		app.Manager = manager
	}

	return app, nil
}

// RegisterResource wires a CRUD router into the server's routing table.
func (app *App) RegisterResource(router *crud.Router) error {
	return app.Server.RegisterService(router)
}

// Run starts the server and blocks until an interrupt arrives, then shuts
// down gracefully within the configured timeout.
func (app *App) Run() error {
	stopch := make(chan os.Signal, 1)
	signal.Notify(stopch, os.Interrupt)

	addr := app.conf.Host + ":" + app.conf.Port
	errch := make(chan error, 1)
	go func() {
		if err := app.Server.StartHTTP(addr); err != nil && err != http.ErrServerClosed {
			errch <- err
		}
	}()

	select {
	case err := <-errch:
		return err
	case <-stopch:
	}

	app.Logger.Log("graceful", "received interrupt")

	ctx, cancel := context.WithTimeout(context.Background(), app.conf.Timeout)
	defer cancel()

	err := app.Server.Stop(ctx)
	if err != nil {
		app.Logger.Log("graceful", "shutting down", "error", err)
	} else {
		app.Logger.Log("graceful", "stopped")
	}

	if app.Manager != nil {
		app.Manager.Close()
	}

	return err
}

// Hop is the quickest way to a running application: load the config from the
// environment, assemble the server, hand it to configure, and run it.
func Hop(configure func(app *App) error, logger log.Logger) error {
	conf, err := LoadConfig("burrow")
	if err != nil {
		return err
	}

	app, err := New(conf, logger)
	if err != nil {
		return err
	}

	if err = configure(app); err != nil {
		return err
	}

	return app.Run()
}

var defaultDeps = []string{
	requestmw.MiddlewareDependencyRequestID,
	logmw.MiddlewareDependencyLog,
	errormw.MiddlewareDependencyError,
	rendermw.MiddlewareDependencyRender,
}

type DefaultDependencies struct{}

func (d DefaultDependencies) Dependencies() []string {
	return defaultDeps
}

// WrapHandler declares the default middleware stack as a dependency of the given handler.
func WrapHandler(h http.Handler, extradeps ...string) http.Handler {
	return middleware.WrapHandler(h, append(defaultDeps, extradeps...)...)
}

// WrapHandlerFunc wraps a handler func with WrapHandler.
func WrapHandlerFunc(f func(http.ResponseWriter, *http.Request), extradeps ...string) http.Handler {
	return WrapHandler(http.HandlerFunc(f), extradeps...)
}

func simpleError(code int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		Render(r).
			SetCode(code).
			JSON(errormw.ErrorResponse{Message: http.StatusText(code)}).
			Text(http.StatusText(code))
	})
}
