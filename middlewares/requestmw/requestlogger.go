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

package requestmw

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/burrowkit/burrow/lib/middleware"
	"github.com/burrowkit/burrow/lib/util"
	"github.com/fatih/color"
	kitlog "github.com/go-kit/kit/log"
)

const MiddlewareDependencyRequestLogger = "*requestmw.RequestLoggerMiddleware"

var _ middleware.Middleware = &RequestLoggerMiddleware{}

// RequestLoggerMiddleware logs a line for every finished request with its
// method, path, status code and duration.
type RequestLoggerMiddleware struct {
	logger kitlog.Logger
	middleware.NoDependencies
}

func NewRequestLoggerMiddleware(logger kitlog.Logger) *RequestLoggerMiddleware {
	return &RequestLoggerMiddleware{
		logger: logger,
	}
}

var (
	statusColors = map[int]*color.Color{
		1: color.New(color.FgBlack, color.BgWhite),
		2: color.New(color.FgWhite, color.BgGreen),
		3: color.New(color.FgWhite, color.BgBlue),
		4: color.New(color.FgWhite, color.BgYellow),
		5: color.New(color.FgWhite, color.BgRed),
	}
	methodColor = color.New(color.FgCyan)
	pathColor   = color.New(color.FgBlue)
	reqidColor  = color.New(color.FgRed)
	timeColor   = color.New(color.Bold)
)

// colored is a log value that writes itself with a color on dev terminals.
type colored struct {
	col *color.Color
	val string
}

func (c colored) Format(w io.Writer) {
	c.col.Fprint(w, c.val)
}

func (c colored) String() string {
	return c.val
}

func statusCode(code int) interface{} {
	str := fmt.Sprintf("%d", code)
	if col, ok := statusColors[code/100]; ok {
		return colored{col, str}
	}

	return str
}

func (rl *RequestLoggerMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		protocol := "http"
		if r.TLS != nil {
			protocol = "https"
		}
		requrl := protocol + "://" + r.Host + r.URL.Path

		l := rl.logger
		if requestid := GetRequestID(r); requestid != "" {
			l = kitlog.With(l, "requestid", colored{reqidColor, requestid})
		}

		rw := &codeCapturingResponseWriter{
			ResponseWriterWrapper: util.ResponseWriterWrapper{ResponseWriter: w},
			code:                  http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		l.Log(
			"httpmethod", colored{methodColor, r.Method},
			"httpreq", colored{pathColor, requrl},
			"httpcode", statusCode(rw.code),
			"duration", colored{timeColor, formatDuration(time.Since(start))},
		)
	})
}

func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Second:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d >= time.Millisecond:
		return fmt.Sprintf("%.2fms", float64(d)/float64(time.Millisecond))
	case d >= time.Microsecond:
		return fmt.Sprintf("%.2fµs", float64(d)/float64(time.Microsecond))
	}

	return fmt.Sprintf("%dns", d.Nanoseconds())
}

var (
	_ http.ResponseWriter = &codeCapturingResponseWriter{}
	_ http.Hijacker       = &codeCapturingResponseWriter{}
	_ http.Flusher        = &codeCapturingResponseWriter{}
	_ http.Pusher         = &codeCapturingResponseWriter{}
)

type codeCapturingResponseWriter struct {
	util.ResponseWriterWrapper
	code int
}

func (rw *codeCapturingResponseWriter) WriteHeader(code int) {
	rw.code = code
	rw.ResponseWriterWrapper.WriteHeader(code)
}
