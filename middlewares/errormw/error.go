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

package errormw

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"runtime"
	"strings"

	"github.com/burrowkit/burrow/lib/errors"
	"github.com/burrowkit/burrow/lib/middleware"
	"github.com/burrowkit/burrow/lib/render"
	"github.com/burrowkit/burrow/middlewares/logmw"
	"github.com/burrowkit/burrow/middlewares/requestmw"
)

const (
	MiddlewareDependencyError = "*errormw.ErrorHandlerMiddleware"
	errorComponent            = "error middleware"
)

var _ middleware.Middleware = &ErrorHandlerMiddleware{}

// ErrorHandlerMiddleware recovers panicking handlers and turns the panic into
// an HTTP error response.
//
// Handlers fail a request with errors.Fail(). Any other panic value is treated
// as an internal server error.
type ErrorHandlerMiddleware struct {
	displayErrors bool
}

// New creates the error handler middleware.
//
// When displayErrors is true, the diagnostic error and the stack trace are
// included in the response. Never enable it in production.
func New(displayErrors bool) *ErrorHandlerMiddleware {
	return &ErrorHandlerMiddleware{
		displayErrors: displayErrors,
	}
}

func (e *ErrorHandlerMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			stackTrace := make([]byte, 8192)
			runtime.Stack(stackTrace, false)

			p, ok := rec.(errors.Panic)
			if !ok {
				err, ok := rec.(error)
				if !ok {
					err = errors.New(fmt.Sprint(rec))
				}
				p = errors.Panic{
					Code: http.StatusInternalServerError,
					Err:  err,
				}
			}

			p.DisplayErrors = e.displayErrors
			p.StackTrace = strings.TrimRight(string(stackTrace), "\x00")

			renderPanic(p, w, r)
		}()

		next.ServeHTTP(w, r)
	})
}

func (e *ErrorHandlerMiddleware) Dependencies() []string {
	return []string{logmw.MiddlewareDependencyLog}
}

// ErrorResponse is the wire format of an error response.
type ErrorResponse struct {
	XMLName   xml.Name `json:"-" xml:"error"`
	Message   string   `json:"message" xml:"message"`
	RequestID string   `json:"requestid,omitempty" xml:"requestid,omitempty"`
	Logs      string   `json:"logs,omitempty" xml:"logs,omitempty"`
}

func renderPanic(p errors.Panic, w http.ResponseWriter, r *http.Request) {
	message := ""
	if p.DisplayErrors && p.Err != nil {
		message = p.Error()
	} else {
		if ue := p.UserError(); ue != "" {
			message = ue
		} else {
			message = http.StatusText(p.Code)
		}
	}

	if p.Err != nil {
		logmw.Info(r, errorComponent, nil).Log("error", p.Err)
		logmw.Debug(r, errorComponent, nil).Log("stacktrace", p.StackTrace)
	}

	body := ErrorResponse{
		Message:   message,
		RequestID: requestmw.GetRequestID(r),
	}
	text := message

	if body.RequestID != "" {
		text += "\n\nRequestID: " + body.RequestID
	}
	if p.DisplayErrors {
		body.Logs = p.StackTrace
		text += "\n\n" + p.StackTrace
	}

	render.NewRenderer().
		SetCode(p.Code).
		JSON(body).
		XML(body, false).
		Text(text).
		Render(w, r)
}
