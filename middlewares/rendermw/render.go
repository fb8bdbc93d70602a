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

package rendermw

import (
	"net/http"

	"github.com/burrowkit/burrow/lib/middleware"
	"github.com/burrowkit/burrow/lib/render"
	"github.com/burrowkit/burrow/lib/util"
)

const (
	MiddlewareDependencyRender = "*rendermw.RendererMiddleware"

	renderKey = "burrowrender"
)

var _ middleware.Middleware = &RendererMiddleware{}

// RendererMiddleware injects a Renderer into the request context and renders
// it when the handler returns.
//
// The middleware replaces the ResponseWriter with one that defers writing the
// headers. A middleware below this one calling WriteHeader() would otherwise
// flush the headers before the Renderer gets a chance to set the negotiated
// content type and status code.
type RendererMiddleware struct {
	middleware.NoDependencies
}

func New() *RendererMiddleware {
	return &RendererMiddleware{}
}

func (m *RendererMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		renderer := render.NewRenderer()
		r = util.SetContext(r, renderKey, renderer)
		next.ServeHTTP(&rendererResponseWriter{
			ResponseWriterWrapper: util.ResponseWriterWrapper{ResponseWriter: w},
			Renderer:              renderer,
		}, r)
		renderer.Render(w, r)
	})
}

// Render gets the Renderer struct from the request context.
func Render(r *http.Request) *render.Renderer {
	return r.Context().Value(renderKey).(*render.Renderer)
}

var _ http.Hijacker = &rendererResponseWriter{}
var _ http.Flusher = &rendererResponseWriter{}
var _ http.Pusher = &rendererResponseWriter{}

type rendererResponseWriter struct {
	util.ResponseWriterWrapper
	*render.Renderer
}

// Write flushes the status code collected by WriteHeader and marks the
// Renderer rendered, so a handler writing the body directly bypasses the
// content negotiation cleanly.
func (r *rendererResponseWriter) Write(b []byte) (int, error) {
	if !r.Renderer.IsRendered() {
		r.ResponseWriter.WriteHeader(r.Renderer.Code)
		r.Renderer.SetRendered()
	}
	return r.ResponseWriter.Write(b)
}

// WriteHeader collects the status code on the Renderer instead of writing it.
//
// The code is kept unless it is unset or a non-200 code overrides it.
func (r *rendererResponseWriter) WriteHeader(code int) {
	if r.Renderer.Code == 0 || (code != http.StatusOK && code != 0) {
		r.Renderer.SetCode(code)
	}
}
