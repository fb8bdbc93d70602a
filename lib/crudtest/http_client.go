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

	"golang.org/x/net/publicsuffix"
)

var _ ClientDelegate = &HTTPDelegate{}

// HTTPDelegate runs the client's requests over the network.
type HTTPDelegate struct {
	*http.Client
}

func (d *HTTPDelegate) NewRequest(method, target string, body io.Reader) *http.Request {
	req, _ := http.NewRequest(method, target, body)
	return req
}

// NewHTTPClient creates a Client that talks to a live server at base.
//
// The wrapped http.Client gets an empty cookie jar.
func NewHTTPClient(base string) *Client {
	c := &http.Client{}
	c.Jar, _ = cookiejar.New(&cookiejar.Options{
		PublicSuffixList: publicsuffix.List,
	})

	return &Client{
		Delegate: &HTTPDelegate{
			Client: c,
		},
		base: base,
	}
}
