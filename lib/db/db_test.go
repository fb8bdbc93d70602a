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

package db

import (
	"testing"

	"github.com/lib/pq"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

func TestDB(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "DB Suite")
}

var _ = Describe("Default manager", func() {
	BeforeEach(func() {
		SetDefault(nil)
	})

	It("should fail before it is configured", func() {
		for i := 0; i < 3; i++ {
			m, err := DefaultManager()
			Expect(m).To(BeNil())
			Expect(err).To(MatchError(ErrNotConfigured))
		}
	})

	It("should return the configured manager", func() {
		m := NewManager(nil)
		SetDefault(m)

		got, err := DefaultManager()
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(BeIdenticalTo(m))
	})
})

var _ = Describe("Manager", func() {
	It("should fail to hand out a connection when it has none", func() {
		m := NewManager(nil)

		conn, err := m.Conn()
		Expect(conn).To(BeNil())
		Expect(err).To(MatchError(ErrNotConfigured))
	})
})

var _ = Describe("Error classification", func() {
	It("should recognize constraint violations", func() {
		Expect(IsConstraintViolation(&pq.Error{Code: "23505"})).To(BeTrue())
		Expect(IsConstraintViolation(&pq.Error{Code: "22P02"})).To(BeFalse())
		Expect(IsConstraintViolation(ErrNotConfigured)).To(BeFalse())
	})

	It("should recognize data exceptions", func() {
		Expect(IsDataException(&pq.Error{Code: "22P02"})).To(BeTrue())
		Expect(IsDataException(&pq.Error{Code: "23505"})).To(BeFalse())
		Expect(IsDataException(ErrNotConfigured)).To(BeFalse())
	})
})

var _ = Describe("Error conversion", func() {
	It("should pass through nil", func() {
		Expect(ConvertDBError(nil, ConstraintErrorConverter(nil))).To(BeNil())
	})

	It("should pass through non-pq errors", func() {
		err := ErrNotConfigured
		Expect(ConvertDBError(err, ConstraintErrorConverter(nil))).To(BeIdenticalTo(err))
	})

	It("should map constraint names to messages", func() {
		conv := ConstraintErrorConverter(map[string]string{
			"user_name_key": "that name is taken",
		})

		err := ConvertDBError(&pq.Error{Constraint: "user_name_key"}, conv)
		Expect(err.(interface{ UserError() string }).UserError()).To(Equal("that name is taken"))
	})

	It("should fall back to the error detail", func() {
		conv := ConstraintErrorConverter(nil)

		err := ConvertDBError(&pq.Error{Message: "boom", Detail: "it broke"}, conv)
		Expect(err.Error()).To(Equal("boom"))
		Expect(err.(interface{ UserError() string }).UserError()).To(Equal("it broke"))
	})
})
