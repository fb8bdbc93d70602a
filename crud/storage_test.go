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

package crud

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Model reflection", func() {
	It("should map db tags to columns and find the primary key", func() {
		info, err := newModelInfo(&testUser{})

		Expect(err).NotTo(HaveOccurred())
		Expect(info.columns).To(Equal([]string{"id", "name", "full_name", "secret"}))
		Expect(info.pkCol).To(Equal("id"))
		Expect(info.dataColumns()).To(Equal([]string{"name", "full_name", "secret"}))
	})

	It("should reject models without db tags", func() {
		type bare struct {
			ID int
		}

		_, err := newModelInfo(&bare{})
		Expect(err).To(HaveOccurred())
	})

	It("should reject models without a primary key", func() {
		type nopk struct {
			Name string `db:"name"`
		}

		_, err := newModelInfo(&nopk{})
		Expect(err).To(HaveOccurred())
	})

	It("should reject models with two primary keys", func() {
		type twopk struct {
			A int `db:"a,pk"`
			B int `db:"b,pk"`
		}

		_, err := newModelInfo(&twopk{})
		Expect(err).To(HaveOccurred())
	})

	It("should skip untagged and excluded fields", func() {
		type partial struct {
			ID       int    `db:"id,pk"`
			Name     string `db:"name"`
			Internal string `db:"-"`
			Loose    string
		}

		info, err := newModelInfo(&partial{})
		Expect(err).NotTo(HaveOccurred())
		Expect(info.columns).To(Equal([]string{"id", "name"}))
	})
})

var _ = Describe("SQL storage", func() {
	var storage *SQLStorage

	BeforeEach(func() {
		var err error
		storage, err = NewSQLStorage(&testUser{}, "users")
		Expect(err).NotTo(HaveOccurred())
	})

	It("should generate an insert that returns the generated key", func() {
		Expect(storage.insertSQL).To(Equal("INSERT INTO users (name, full_name, secret) VALUES ($1, $2, $3) RETURNING id"))
	})

	It("should generate the load and list queries ordered by the key", func() {
		Expect(storage.loadSQL).To(Equal("SELECT id, name, full_name, secret FROM users WHERE id = $1"))
		Expect(storage.listSQL).To(Equal("SELECT id, name, full_name, secret FROM users ORDER BY id LIMIT $1 OFFSET $2"))
		Expect(storage.countSQL).To(Equal("SELECT COUNT(*) FROM users"))
	})

	It("should generate an update keyed on the primary key", func() {
		Expect(storage.updateSQL).To(Equal("UPDATE users SET name = $1, full_name = $2, secret = $3 WHERE id = $4"))
		Expect(storage.deleteSQL).To(Equal("DELETE FROM users WHERE id = $1"))
	})

	It("should produce empty resources of the model type", func() {
		res := storage.Empty()
		Expect(res).To(BeAssignableToTypeOf(&testUser{}))
	})
})

var _ = Describe("SQL storage with soft delete", func() {
	var storage *SQLStorage

	BeforeEach(func() {
		var err error
		storage, err = NewSQLStorage(&testNote{}, "notes")
		Expect(err).NotTo(HaveOccurred())
	})

	It("should tombstone rows instead of deleting them", func() {
		Expect(storage.deleteSQL).To(Equal("UPDATE notes SET deleted_at = NOW() WHERE id = $1"))
	})

	It("should hide tombstoned rows from reads", func() {
		Expect(storage.loadSQL).To(Equal("SELECT id, body, deleted_at FROM notes WHERE id = $1 AND deleted_at IS NULL"))
		Expect(storage.listSQL).To(Equal("SELECT id, body, deleted_at FROM notes WHERE deleted_at IS NULL ORDER BY id LIMIT $1 OFFSET $2"))
		Expect(storage.countSQL).To(Equal("SELECT COUNT(*) FROM notes WHERE deleted_at IS NULL"))
	})

	It("should keep the deletion timestamp out of writes", func() {
		Expect(storage.insertSQL).To(Equal("INSERT INTO notes (body) VALUES ($1) RETURNING id"))
		Expect(storage.updateSQL).To(Equal("UPDATE notes SET body = $1 WHERE id = $2"))
	})
})

var _ = Describe("Memory storage", func() {
	var storage *MemoryStorage

	BeforeEach(func() {
		var err error
		storage, err = NewMemoryStorage(&testUser{})
		Expect(err).NotTo(HaveOccurred())
	})

	It("should assign sequential primary keys on insert", func() {
		first := &testUser{Name: "a"}
		second := &testUser{Name: "b"}

		Expect(storage.Insert(nil, first)).To(Succeed())
		Expect(storage.Insert(nil, second)).To(Succeed())

		Expect(first.ID).To(Equal(1))
		Expect(second.ID).To(Equal(2))
	})

	It("should load a copy of the stored resource", func() {
		u := &testUser{Name: "a"}
		Expect(storage.Insert(nil, u)).To(Succeed())

		loaded, err := storage.Load(nil, "1")
		Expect(err).NotTo(HaveOccurred())

		loaded.(*testUser).Name = "changed"

		again, err := storage.Load(nil, "1")
		Expect(err).NotTo(HaveOccurred())
		Expect(again.(*testUser).Name).To(Equal("a"))
	})

	It("should report a missing row as nil without an error", func() {
		res, err := storage.Load(nil, "42")
		Expect(err).NotTo(HaveOccurred())
		Expect(res).To(BeNil())
	})

	It("should page the list", func() {
		for _, name := range []string{"a", "b", "c"} {
			Expect(storage.Insert(nil, &testUser{Name: name})).To(Succeed())
		}

		page, err := storage.List(nil, 0, 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(page).To(HaveLen(2))
		Expect(page[0].(*testUser).Name).To(Equal("a"))

		rest, err := storage.List(nil, 2, 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(rest).To(HaveLen(1))
		Expect(rest[0].(*testUser).Name).To(Equal("c"))

		total, err := storage.Count(nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(total).To(Equal(3))
	})

	It("should refuse to update a missing resource", func() {
		err := storage.Update(nil, &testUser{ID: 42, Name: "ghost"})
		Expect(err).To(HaveOccurred())
	})

	It("should delete a stored resource", func() {
		u := &testUser{Name: "a"}
		Expect(storage.Insert(nil, u)).To(Succeed())
		Expect(storage.Delete(nil, u)).To(Succeed())

		res, err := storage.Load(nil, "1")
		Expect(err).NotTo(HaveOccurred())
		Expect(res).To(BeNil())
	})
})
