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

package logmw

import (
	"net/http"

	"github.com/burrowkit/burrow/lib/log"
	"github.com/burrowkit/burrow/lib/middleware"
	"github.com/burrowkit/burrow/lib/util"
	"github.com/burrowkit/burrow/middlewares/requestmw"
	kitlog "github.com/go-kit/kit/log"
)

const (
	MiddlewareDependencyLog = "*logmw.LoggerMiddleware"
	categoryKey             = "category"
	componentKey            = "component"
	logKey                  = "burrowlog"
)

const (
	CategoryFormatError       = "format error"
	CategoryValidationFailure = "validation failure"
	CategoryStorageError      = "storage error"
	CategoryInputError        = "input error"
)

var _ middleware.Middleware = &LoggerMiddleware{}

// LoggerMiddleware injects a request-scoped logger into the request context.
type LoggerMiddleware struct {
	logger log.Logger

	middleware.NoDependencies
}

func New(logger log.Logger) *LoggerMiddleware {
	return &LoggerMiddleware{
		logger: logger,
	}
}

func (lm *LoggerMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		l := lm.logger

		if reqid := requestmw.GetRequestID(r); reqid != "" {
			l = log.With(l, "requestid", reqid)
		}

		next.ServeHTTP(w, Update(r, l))
	})
}

// Update replaces the logger in the request context.
func Update(r *http.Request, logger log.Logger) *http.Request {
	return util.SetContext(r, logKey, logger)
}

func getLog(r *http.Request) log.Logger {
	if l, ok := r.Context().Value(logKey).(log.Logger); ok {
		return l
	}

	return kitlog.NewNopLogger()
}

func addctx(l log.Logger, component, category interface{}) log.Logger {
	if component != nil {
		l = log.With(l, componentKey, component)
	}
	if category != nil {
		l = log.With(l, categoryKey, category)
	}

	return l
}

func Debug(r *http.Request, component, category interface{}) log.Logger {
	return addctx(log.Debug(getLog(r)), component, category)
}

func Info(r *http.Request, component, category interface{}) log.Logger {
	return addctx(log.Info(getLog(r)), component, category)
}

func Warn(r *http.Request, component, category interface{}) log.Logger {
	return addctx(log.Warn(getLog(r)), component, category)
}

func Error(r *http.Request, component, category interface{}) log.Logger {
	return addctx(log.Error(getLog(r)), component, category)
}
