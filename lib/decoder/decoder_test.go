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

package decoder_test

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/burrowkit/burrow/lib/decoder"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

func TestDecoder(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Decoder Suite")
}

type payload struct {
	A int    `json:"a" yaml:"a" toml:"a" xml:"a"`
	B string `json:"b" yaml:"b" toml:"b" xml:"b"`
}

var _ = Describe("Decode", func() {
	expected := payload{A: 5, B: "asdf"}

	decode := func(contentType, body string) (payload, error) {
		req := httptest.NewRequest("POST", "/", strings.NewReader(body))
		req.Header.Set("Content-Type", contentType)
		var p payload
		derr := decoder.Decode(req, &p)

		return p, derr
	}

	It("should decode a JSON body", func() {
		p, derr := decode("application/json", `{"a": 5, "b": "asdf"}`)
		Expect(derr).NotTo(HaveOccurred())
		Expect(p).To(Equal(expected))
	})

	It("should decode a JSON body with a content type parameter", func() {
		p, derr := decode("application/json; charset=utf-8", `{"a": 5, "b": "asdf"}`)
		Expect(derr).NotTo(HaveOccurred())
		Expect(p).To(Equal(expected))
	})

	It("should decode a YAML body", func() {
		p, derr := decode("application/yaml", "a: 5\nb: asdf\n")
		Expect(derr).NotTo(HaveOccurred())
		Expect(p).To(Equal(expected))
	})

	It("should decode a TOML body", func() {
		p, derr := decode("application/toml", "a = 5\nb = \"asdf\"\n")
		Expect(derr).NotTo(HaveOccurred())
		Expect(p).To(Equal(expected))
	})

	It("should decode an XML body", func() {
		p, derr := decode("application/xml", "<payload><a>5</a><b>asdf</b></payload>")
		Expect(derr).NotTo(HaveOccurred())
		Expect(p).To(Equal(expected))
	})

	It("should fail on an unknown content type", func() {
		_, derr := decode("application/x-unknown", "")
		Expect(derr).To(Equal(decoder.NoDecoderErr))
	})

	It("must panic in MustDecode on a malformed body", func() {
		req := httptest.NewRequest("POST", "/", strings.NewReader("{"))
		req.Header.Set("Content-Type", "application/json")
		var p payload

		Expect(func() {
			decoder.MustDecode(req, &p)
		}).To(Panic())
	})
})
