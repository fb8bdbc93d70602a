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

// Package crudtest is a small client for integration testing CRUD endpoints.
//
// It speaks JSON, follows the gomega failure model, and runs either against
// an http.Handler in process or a live server over the network.
package crudtest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"

	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/types"
)

// ClientDelegate executes the requests a Client prepares.
type ClientDelegate interface {
	Do(*http.Request) (*http.Response, error)
	NewRequest(method, target string, body io.Reader) *http.Request
}

// Client is a thin wrapper over a delegate for integration tests.
type Client struct {
	Delegate ClientDelegate
	base     string
}

// Request sends a request and asserts the response status code.
//
// The body may be nil. processReq and processResp may be nil; processReq can
// adjust the outgoing request, processResp consumes the response. On a status
// mismatch the response body is dumped to help debugging.
func (c *Client) Request(method, endpoint string, body io.Reader, processReq func(*http.Request), processResp func(*http.Response), statusCode int) {
	req := c.Delegate.NewRequest(method, c.base+endpoint, body)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if processReq != nil {
		processReq(req)
	}

	resp, err := c.Delegate.Do(req)
	Expect(err).To(BeNil())
	defer resp.Body.Close()

	ended := false
	defer func() {
		if !ended {
			fmt.Println("")
			fmt.Printf("%s %s\n", method, endpoint)
			if resp.Header.Get("Content-Type") == "application/json" {
				errorData := make(map[string]string)
				json.NewDecoder(resp.Body).Decode(&errorData)
				fmt.Printf("RequestID: %s\nMessage: %s\nLogs:\n%s\n", errorData["requestid"], errorData["message"], errorData["logs"])
			} else {
				fmt.Println(c.ReadBody(resp))
			}
			fmt.Println("")
		}
	}()

	Expect(resp.StatusCode).To(Equal(statusCode))

	if processResp != nil {
		processResp(resp)
	}

	ended = true
}

// JSONBuffer creates an in-memory buffer of a serialized JSON value.
func (c *Client) JSONBuffer(v interface{}) io.Reader {
	buf := bytes.NewBuffer(nil)
	Expect(json.NewEncoder(buf).Encode(v)).To(BeNil())

	return buf
}

// AssertJSON decodes the JSON body of the response into v and matches it.
//
// Example:
//
//	c.Request("GET", "/user/v1/1", nil, nil, func(resp *http.Response) {
//		data := &user{}
//		c.AssertJSON(resp, data, PointTo(MatchAllFields(Fields{
//			"Username": Equal("alice"),
//		})))
//	}, http.StatusOK)
func (c *Client) AssertJSON(resp *http.Response, v interface{}, matcher types.GomegaMatcher) {
	Expect(json.NewDecoder(resp.Body).Decode(v)).To(BeNil())
	Expect(v).To(matcher)
}

// ReadBody reads the response body into a string.
func (c *Client) ReadBody(r *http.Response) string {
	b, err := ioutil.ReadAll(r.Body)
	Expect(err).To(BeNil())

	return string(b)
}
