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

package errors

import (
	"errors"
)

// Error extends the built-in error interface with a message that is displayed to the end user.
type Error interface {
	// Error that is displayed in the logs and debug messages. Should contain diagnostical information.
	Error() string
	// Error that is displayed to the end user.
	UserError() string
}

var _ Error = &errorWrapper{}

type errorWrapper struct {
	error
	message string
}

func (ew *errorWrapper) UserError() string {
	return ew.message
}

func (ew *errorWrapper) Cause() error {
	return ew.error
}

// Wrap wraps an error message into an Error.
func Wrap(err error, message string) Error {
	return &errorWrapper{
		error:   err,
		message: message,
	}
}

// NewError creates a new verbose error message.
//
// If err is an empty string, then message will be used instead.
func NewError(err, message string) Error {
	if err == "" {
		err = message
	}

	return Wrap(errors.New(err), message)
}

// New is a replacement function for errors.New().
//
// This function constructs an Error where both the diagnostic error and the end user error is the same.
func New(message string) error {
	return NewError(message, message)
}

var _ Error = Panic{}

// Fail stops the current request from executing.
//
// The panic is caught by the error handler middleware and turned into an HTTP response.
func Fail(code int, err error) {
	panic(Panic{
		Code: code,
		Err:  err,
	})
}

// Panic is a custom panic data structure for the error handler middleware.
type Panic struct {
	Code          int
	Err           error
	StackTrace    string
	DisplayErrors bool
}

func (p Panic) Error() string {
	return p.Err.Error()
}

func (p Panic) String() string {
	return p.Err.Error()
}

func (p Panic) UserError() string {
	if ve, ok := p.Err.(Error); ok {
		return ve.UserError()
	}

	return ""
}
