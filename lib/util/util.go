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

package util

import (
	"bufio"
	"context"
	"io/ioutil"
	"log"
	mrand "math/rand"
	"net"
	"net/http"
	"strconv"
	"strings"
	"unicode"
)

// GeneratePlaceholders generates placeholders from start to end for an SQL query.
func GeneratePlaceholders(start, end uint) string {
	ret := ""
	if start == end {
		return ret
	}
	for i := start; i < end; i++ {
		ret += ", $" + strconv.Itoa(int(i))
	}

	return ret[2:]
}

// StringSliceToInterfaceSlice converts a string slice into an interface{} slice.
func StringSliceToInterfaceSlice(s []string) []interface{} {
	is := make([]interface{}, len(s))
	for i, d := range s {
		is[i] = d
	}

	return is
}

// ResponseBodyToString reads the whole response body and converts it to a string.
func ResponseBodyToString(r *http.Response) string {
	b, err := ioutil.ReadAll(r.Body)
	if err != nil {
		log.Println(err)
		return ""
	}

	return string(b)
}

// SetContext sets a value in the context of *http.Request, and returns a new one with the updated context.
func SetContext(r *http.Request, key, value interface{}) *http.Request {
	ctx := context.WithValue(r.Context(), key, value)
	return r.WithContext(ctx)
}

// NormalizePath removes duplicate and trailing slashes and ensures a leading slash.
func NormalizePath(p string) string {
	for strings.Contains(p, "//") {
		p = strings.Replace(p, "//", "/", -1)
	}
	p = strings.TrimRight(p, "/")

	return "/" + strings.TrimLeft(p, "/")
}

// CamelToSnake converts a lowerCamelCase or CamelCase identifier to snake_case.
func CamelToSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}

	return b.String()
}

// SnakeToLowerCamel converts a snake_case identifier to lowerCamelCase.
func SnakeToLowerCamel(s string) string {
	parts := strings.Split(s, "_")
	for i := 1; i < len(parts); i++ {
		if parts[i] == "" {
			continue
		}
		parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
	}

	return strings.Join(parts, "")
}

const letterBytes = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
const (
	letterIdxBits = 6                    // 6 bits to represent a letter index
	letterIdxMask = 1<<letterIdxBits - 1 // All 1-bits, as many as letterIdxBits
	letterIdxMax  = 63 / letterIdxBits   // # of letter indices fitting in 63 bits
)

// RandomString generates a random string of a given length.
func RandomString(length int) string {
	b := make([]byte, length)

	for i, cache, remain := length-1, mrand.Int63(), letterIdxMax; i >= 0; {
		if remain == 0 {
			cache, remain = mrand.Int63(), letterIdxMax
		}

		if idx := int(cache & letterIdxMask); idx < len(letterBytes) {
			b[i] = letterBytes[idx]
			i--
		}

		cache >>= letterIdxBits
		remain--
	}

	return string(b)
}

var _ http.Hijacker = ResponseWriterWrapper{}
var _ http.Flusher = ResponseWriterWrapper{}
var _ http.Pusher = ResponseWriterWrapper{}

type ResponseWriterWrapper struct {
	http.ResponseWriter
}

func (w ResponseWriterWrapper) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if h, ok := w.ResponseWriter.(http.Hijacker); ok {
		return h.Hijack()
	}

	return nil, nil, http.ErrNotSupported
}

func (w ResponseWriterWrapper) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (w ResponseWriterWrapper) Push(target string, opts *http.PushOptions) error {
	if p, ok := w.ResponseWriter.(http.Pusher); ok {
		return p.Push(target, opts)
	}

	return http.ErrNotSupported
}
