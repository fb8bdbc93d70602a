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

package crudtest

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"

	"golang.org/x/net/publicsuffix"
)

var _ ClientDelegate = &MockDelegate{}

// MockDelegate serves the client's requests directly from an http.Handler.
//
// Cookies are carried between requests like a browser would.
type MockDelegate struct {
	handler http.Handler
	jar     *cookiejar.Jar
}

func NewMockDelegate(handler http.Handler) *MockDelegate {
	jar, _ := cookiejar.New(&cookiejar.Options{
		PublicSuffixList: publicsuffix.List,
	})

	return &MockDelegate{
		handler: handler,
		jar:     jar,
	}
}

func (d *MockDelegate) Do(r *http.Request) (*http.Response, error) {
	w := httptest.NewRecorder()
	d.handler.ServeHTTP(w, r)
	resp := w.Result()

	d.jar.SetCookies(r.URL, resp.Cookies())

	return resp, nil
}

func (d *MockDelegate) NewRequest(method, target string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, target, body)

	u, _ := url.Parse(target)
	for _, cookie := range d.jar.Cookies(u) {
		req.AddCookie(cookie)
	}

	return req
}

// NewMockClient creates a Client running against an in-process handler.
func NewMockClient(handler http.Handler) *Client {
	return &Client{
		Delegate: NewMockDelegate(handler),
	}
}
