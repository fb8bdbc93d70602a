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

package server

import (
	"context"
	stdlog "log"
	"net/http"

	"github.com/burrowkit/burrow/lib/log"
	"github.com/burrowkit/burrow/lib/middleware"
	"github.com/burrowkit/burrow/lib/util"
	"github.com/julienschmidt/httprouter"
)

const paramKey = "burrowparam"

// Service is a collection of endpoints that logically belong together or operate on the same part of the database schema.
type Service interface {
	// Name returns the name of this service instance.
	Name() string
	// Register the Service endpoints
	Register(*Server) error
}

type ServiceName string

func (n ServiceName) Name() string {
	return string(n)
}

// Server is the main server struct.
type Server struct {
	Router          *httprouter.Router
	middlewareStack *middleware.Stack
	Logger          log.Logger
	HTTPServer      *http.Server
	services        []Service
}

// NewServer creates a new server.
func NewServer(logger log.Logger) *Server {
	s := &Server{
		Router:          httprouter.New(),
		middlewareStack: middleware.NewStack(nil),
		Logger:          logger,
	}
	s.Router.RedirectTrailingSlash = true
	s.Router.RedirectFixedPath = true
	s.Router.HandleMethodNotAllowed = true
	s.Router.HandleOPTIONS = true

	return s
}

// Use adds middlewares to the top of the middleware stack.
func (s *Server) Use(m middleware.Middleware) {
	if merr := s.middlewareStack.Push(m); merr != nil {
		panic(merr)
	}
}

// UseF adds a middleware function to the top of the middleware stack.
func (s *Server) UseF(m func(http.Handler) http.Handler) {
	s.Use(middleware.Func(m))
}

// UseTop adds middlewares to the bottom of the middleware stack.
func (s *Server) UseTop(m middleware.Middleware) {
	if merr := s.middlewareStack.Shift(m); merr != nil {
		panic(merr)
	}
}

// UseTopF adds a middleware function to the bottom of the middleware stack.
func (s *Server) UseTopF(m func(http.Handler) http.Handler) {
	s.UseTop(middleware.Func(m))
}

// Handler creates a http.Handler from the server (using the middlewares and the router).
func (s *Server) Handler() http.Handler {
	return s.middlewareStack.Wrap(s.Router)
}

// Handle adds a handler to the router.
//
// The middleware list will be applied to this handler only. Registering the
// same method and path twice panics.
func (s *Server) Handle(method, path string, handler http.Handler, middlewares ...middleware.Middleware) {
	ms := s.middlewareStack
	h := handler

	// callstack cleanup
	if hu, ok := h.(HandlerUnwrapper); ok {
		h = hu.Unwrap()
	}

	if len(middlewares) > 0 {
		ms = middleware.NewStack(s.middlewareStack)
		for _, m := range middlewares {
			if merr := ms.Push(m); merr != nil {
				panic(merr)
			}
		}

		h = ms.Wrap(h)
	}

	if verr := ms.ValidateHandler(handler); verr != nil {
		panic(verr)
	}

	s.Router.Handle(method, path, httprouter.Handle(func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		r = util.SetContext(r, paramKey, p)
		h.ServeHTTP(w, r)
	}))
}

// Head adds a HEAD handler to the router.
func (s *Server) Head(path string, handler http.Handler, middlewares ...middleware.Middleware) {
	s.Handle("HEAD", path, handler, middlewares...)
}

// Get adds a GET handler to the router.
func (s *Server) Get(path string, handler http.Handler, middlewares ...middleware.Middleware) {
	s.Handle("GET", path, handler, middlewares...)
}

// Post adds a POST handler to the router.
func (s *Server) Post(path string, handler http.Handler, middlewares ...middleware.Middleware) {
	s.Handle("POST", path, handler, middlewares...)
}

// Put adds a PUT handler to the router.
func (s *Server) Put(path string, handler http.Handler, middlewares ...middleware.Middleware) {
	s.Handle("PUT", path, handler, middlewares...)
}

// Delete adds a DELETE handler to the router.
func (s *Server) Delete(path string, handler http.Handler, middlewares ...middleware.Middleware) {
	s.Handle("DELETE", path, handler, middlewares...)
}

// Patch adds a PATCH handler to the router.
func (s *Server) Patch(path string, handler http.Handler, middlewares ...middleware.Middleware) {
	s.Handle("PATCH", path, handler, middlewares...)
}

// Options adds an OPTIONS handler to the router.
func (s *Server) Options(path string, handler http.Handler, middlewares ...middleware.Middleware) {
	s.Handle("OPTIONS", path, handler, middlewares...)
}

// HeadF adds a HEAD HandlerFunc to the router.
func (s *Server) HeadF(path string, handler http.HandlerFunc, middlewares ...middleware.Middleware) {
	s.Handle("HEAD", path, handler, middlewares...)
}

// GetF adds a GET HandlerFunc to the router.
func (s *Server) GetF(path string, handler http.HandlerFunc, middlewares ...middleware.Middleware) {
	s.Handle("GET", path, handler, middlewares...)
}

// PostF adds a POST HandlerFunc to the router.
func (s *Server) PostF(path string, handler http.HandlerFunc, middlewares ...middleware.Middleware) {
	s.Handle("POST", path, handler, middlewares...)
}

// PutF adds a PUT HandlerFunc to the router.
func (s *Server) PutF(path string, handler http.HandlerFunc, middlewares ...middleware.Middleware) {
	s.Handle("PUT", path, handler, middlewares...)
}

// DeleteF adds a DELETE HandlerFunc to the router.
func (s *Server) DeleteF(path string, handler http.HandlerFunc, middlewares ...middleware.Middleware) {
	s.Handle("DELETE", path, handler, middlewares...)
}

// PatchF adds a PATCH HandlerFunc to the router.
func (s *Server) PatchF(path string, handler http.HandlerFunc, middlewares ...middleware.Middleware) {
	s.Handle("PATCH", path, handler, middlewares...)
}

// OptionsF adds an OPTIONS HandlerFunc to the router.
func (s *Server) OptionsF(path string, handler http.HandlerFunc, middlewares ...middleware.Middleware) {
	s.Handle("OPTIONS", path, handler, middlewares...)
}

// GetParams returns the path parameter values from the request.
func GetParams(r *http.Request) httprouter.Params {
	if p, ok := r.Context().Value(paramKey).(httprouter.Params); ok {
		return p
	}

	return nil
}

// AddStaticLocalDir adds a local directory to the router.
func (s *Server) AddStaticLocalDir(prefix, path string) *Server {
	s.Router.ServeFiles(prefix+"/*filepath", http.Dir(path))

	return s
}

// AddFile adds a local file to the router.
func (s *Server) AddFile(path, file string) *Server {
	s.GetF(path, func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, file)
	})

	return s
}

// RegisterService adds a service on the server.
//
// See the Service interface for more information.
func (s *Server) RegisterService(svc Service) error {
	if svc.Name() == "" {
		panic("empty service name")
	}

	s.services = append(s.services, svc)

	return svc.Register(s)
}

func (s *Server) GetServices() []Service {
	return s.services[:]
}

// StartHTTP starts the server.
func (s *Server) StartHTTP(addr string) error {
	return s.startServer(addr, "", "")
}

// StartHTTPS starts the server with TLS.
func (s *Server) StartHTTPS(addr, certFile, keyFile string) error {
	return s.startServer(addr, certFile, keyFile)
}

func (s *Server) startServer(addr, certFile, keyFile string) error {
	s.HTTPServer = &http.Server{
		Addr:     addr,
		Handler:  s.Handler(),
		ErrorLog: stdlog.New(log.NewStdlibAdapter(s.Logger), "", stdlog.LstdFlags),
	}

	s.Logger.Log("serveraddr", addr)

	if certFile != "" && keyFile != "" {
		return s.HTTPServer.ListenAndServeTLS(certFile, keyFile)
	}

	return s.HTTPServer.ListenAndServe()
}

// Stop shuts down the server gracefully.
//
// In-flight requests are allowed to finish until the context is canceled.
func (s *Server) Stop(ctx context.Context) error {
	if s.HTTPServer == nil {
		return nil
	}

	return s.HTTPServer.Shutdown(ctx)
}

type HandlerUnwrapper interface {
	Unwrap() http.Handler
}
