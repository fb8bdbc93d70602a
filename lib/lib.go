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

package lib

// Validator validates its own data.
//
// Models implementing this interface get validated before they are inserted
// or updated. A validation error results in a bad request response.
type Validator interface {
	Validate() error
}

// Sanitizer removes sensitive data before serialization.
//
// The render layer calls Sanitize() on values implementing this interface
// right before encoding them into the response body.
type Sanitizer interface {
	Sanitize()
}
