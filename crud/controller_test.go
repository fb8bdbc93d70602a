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
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/burrowkit/burrow/lib/db"
	"github.com/burrowkit/burrow/lib/errors"
	"github.com/burrowkit/burrow/lib/event"
	"github.com/lib/pq"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

func decodeJSON(w *httptest.ResponseRecorder) map[string]interface{} {
	data := map[string]interface{}{}
	Expect(json.Unmarshal(w.Body.Bytes(), &data)).To(Succeed())

	return data
}

var _ = Describe("Controller construction", func() {
	It("should require a name, a storage and at least one operation", func() {
		storage, err := NewMemoryStorage(&testUser{})
		Expect(err).NotTo(HaveOccurred())

		_, err = NewController(ControllerConfig{Storage: storage, Operations: OpAll, Manager: db.NewManager(nil)})
		Expect(err).To(HaveOccurred())

		_, err = NewController(ControllerConfig{Name: "user", Operations: OpAll, Manager: db.NewManager(nil)})
		Expect(err).To(HaveOccurred())

		_, err = NewController(ControllerConfig{Name: "user", Storage: storage, Manager: db.NewManager(nil)})
		Expect(err).To(Equal(ErrNoEndpoints))
	})

	It("should fail at construction when no database manager is available", func() {
		storage, err := NewMemoryStorage(&testUser{})
		Expect(err).NotTo(HaveOccurred())

		_, err = NewController(ControllerConfig{Name: "user", Storage: storage, Operations: OpAll})
		Expect(err).To(Equal(db.ErrNotConfigured))
	})

	It("should reject a model the storage can not describe", func() {
		type nopk struct {
			Name string `db:"name"`
		}

		_, err := NewMemoryStorage(&nopk{})
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Resource lifecycle", func() {
	It("should create, read, update and delete a resource", func() {
		s := newUserServer(OpAll, nil)

		w := request(s, "POST", "/user/v1", `{"name": "alice", "fullName": "Alice A."}`)
		Expect(w.Code).To(Equal(http.StatusCreated))
		created := decodeJSON(w)
		Expect(created["id"]).To(Equal(float64(1)))
		Expect(created["name"]).To(Equal("alice"))
		Expect(created["fullName"]).To(Equal("Alice A."))

		w = request(s, "GET", "/user/v1/1", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(decodeJSON(w)["name"]).To(Equal("alice"))

		w = request(s, "PATCH", "/user/v1/1", `{"fullName": "Alice B."}`)
		Expect(w.Code).To(Equal(http.StatusOK))
		updated := decodeJSON(w)
		Expect(updated["fullName"]).To(Equal("Alice B."))
		Expect(updated["name"]).To(Equal("alice"))

		w = request(s, "DELETE", "/user/v1/1", "")
		Expect(w.Code).To(Equal(http.StatusNoContent))

		w = request(s, "GET", "/user/v1/1", "")
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("should treat PUT as a partial update like PATCH", func() {
		s := newUserServer(OpAll, nil)
		request(s, "POST", "/user/v1", `{"name": "alice", "fullName": "Alice A."}`)

		w := request(s, "PUT", "/user/v1/1", `{"fullName": "Alice C."}`)
		Expect(w.Code).To(Equal(http.StatusOK))
		updated := decodeJSON(w)
		Expect(updated["name"]).To(Equal("alice"))
		Expect(updated["fullName"]).To(Equal("Alice C."))
	})

	It("should answer 404 for a missing resource", func() {
		s := newUserServer(OpAll, nil)

		Expect(request(s, "GET", "/user/v1/42", "").Code).To(Equal(http.StatusNotFound))
		Expect(request(s, "PATCH", "/user/v1/42", `{"fullName": "x"}`).Code).To(Equal(http.StatusNotFound))
		Expect(request(s, "DELETE", "/user/v1/42", "").Code).To(Equal(http.StatusNotFound))
	})

	It("should sanitize resources before rendering but not before storing", func() {
		storage, err := NewMemoryStorage(&testUser{})
		Expect(err).NotTo(HaveOccurred())

		s := newCrudServer()
		Expect(s.RegisterService(newControllerWithStorage(storage, OpAll, nil))).To(Succeed())

		w := request(s, "POST", "/user/v1", `{"name": "alice", "secret": "hunter2"}`)
		Expect(w.Code).To(Equal(http.StatusCreated))
		Expect(decodeJSON(w)).NotTo(HaveKey("secret"))

		stored, err := storage.Load(nil, "1")
		Expect(err).NotTo(HaveOccurred())
		Expect(stored.(*testUser).Secret).To(Equal("hunter2"))
	})
})

var _ = Describe("Request body policy", func() {
	It("should reject a create without the required fields", func() {
		w := request(newUserServer(OpAll, nil), "POST", "/user/v1", `{"fullName": "Alice A."}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("should reject unknown fields", func() {
		w := request(newUserServer(OpAll, nil), "POST", "/user/v1", `{"name": "alice", "shoeSize": 42}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("should refuse to set the primary key from the body", func() {
		w := request(newUserServer(OpAll, nil), "POST", "/user/v1", `{"id": 7, "name": "alice"}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("should refuse to set the deletion timestamp from the body", func() {
		storage, err := NewMemoryStorage(&testNote{})
		Expect(err).NotTo(HaveOccurred())

		s := newCrudServer()
		Expect(s.RegisterService(newControllerWithStorage(storage, OpAll, nil))).To(Succeed())

		w := request(s, "POST", "/user/v1", `{"body": "x", "deletedAt": "2026-01-01T00:00:00Z"}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("should refuse to edit fields outside the editable list", func() {
		s := newUserServer(OpAll, nil)
		request(s, "POST", "/user/v1", `{"name": "alice"}`)

		w := request(s, "PATCH", "/user/v1/1", `{"name": "eve"}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("should reject a mistyped field value", func() {
		w := request(newUserServer(OpAll, nil), "POST", "/user/v1", `{"name": ["not", "a", "string"]}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("should answer 415 to an unsupported request body", func() {
		s := newUserServer(OpAll, nil)

		r := httptest.NewRequest("POST", "/user/v1", nil)
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, r)

		Expect(w.Code).To(Equal(http.StatusUnsupportedMediaType))
	})

	It("should answer 422 when the model rejects itself", func() {
		w := request(newUserServer(OpAll, nil), "POST", "/user/v1", `{"name": "root"}`)
		Expect(w.Code).To(Equal(http.StatusUnprocessableEntity))
	})
})

type failingStorage struct {
	*MemoryStorage
	err error
}

func (s *failingStorage) Insert(conn db.DB, res Resource) error {
	return s.err
}

type unloadableStorage struct {
	*MemoryStorage
	err error
}

func (s *unloadableStorage) Load(conn db.DB, id string) (Resource, error) {
	return nil, s.err
}

var _ = Describe("Storage failures", func() {
	newFailingServer := func(err error) *failingStorage {
		storage, serr := NewMemoryStorage(&testUser{})
		Expect(serr).NotTo(HaveOccurred())

		return &failingStorage{MemoryStorage: storage, err: err}
	}

	It("should map constraint violations to 409", func() {
		storage := newFailingServer(&pq.Error{
			Code:    "23505",
			Message: "duplicate key value violates unique constraint",
		})

		s := newCrudServer()
		Expect(s.RegisterService(newControllerWithStorage(storage, OpAll, nil))).To(Succeed())

		w := request(s, "POST", "/user/v1", `{"name": "alice"}`)
		Expect(w.Code).To(Equal(http.StatusConflict))
	})

	It("should map data exceptions to 404", func() {
		storage, serr := NewMemoryStorage(&testUser{})
		Expect(serr).NotTo(HaveOccurred())

		s := newCrudServer()
		Expect(s.RegisterService(newControllerWithStorage(&unloadableStorage{
			MemoryStorage: storage,
			err:           &pq.Error{Code: "22P02", Message: "invalid input syntax for type integer"},
		}, OpAll, nil))).To(Succeed())

		w := request(s, "GET", "/user/v1/not-a-number", "")
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("should map other database errors to 500", func() {
		storage := newFailingServer(&pq.Error{
			Code:    "57014",
			Message: "canceling statement due to statement timeout",
		})

		s := newCrudServer()
		Expect(s.RegisterService(newControllerWithStorage(storage, OpAll, nil))).To(Succeed())

		w := request(s, "POST", "/user/v1", `{"name": "alice"}`)
		Expect(w.Code).To(Equal(http.StatusInternalServerError))
	})
})

var _ = Describe("Lifecycle events", func() {
	It("should dispatch before and after events around a create", func() {
		var seen []string
		var resource Resource

		dispatcher := event.NewDispatcher()
		dispatcher.Subscribe(EventBeforeCreate, event.SubscriberFunc(func(e event.Event) error {
			seen = append(seen, e.Name())
			return nil
		}))
		dispatcher.Subscribe(EventAfterCreate, event.SubscriberFunc(func(e event.Event) error {
			seen = append(seen, e.Name())
			resource = e.(*ResourceEvent).Resource()
			return nil
		}))

		s := newUserServer(OpAll, dispatcher)

		w := request(s, "POST", "/user/v1", `{"name": "alice"}`)
		Expect(w.Code).To(Equal(http.StatusCreated))
		Expect(seen).To(Equal([]string{EventBeforeCreate, EventAfterCreate}))
		Expect(resource.(*testUser).ID).To(Equal(1))
	})

	It("should abort the operation when a subscriber fails", func() {
		storage, err := NewMemoryStorage(&testUser{})
		Expect(err).NotTo(HaveOccurred())

		dispatcher := event.NewDispatcher()
		dispatcher.Subscribe(EventBeforeCreate, event.SubscriberFunc(func(e event.Event) error {
			return errTestSubscriber
		}))

		s := newCrudServer()
		Expect(s.RegisterService(newControllerWithStorage(storage, OpAll, dispatcher))).To(Succeed())

		w := request(s, "POST", "/user/v1", `{"name": "alice"}`)
		Expect(w.Code).To(Equal(http.StatusInternalServerError))

		total, err := storage.Count(nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(total).To(BeZero())
	})
})

var _ = Describe("List pagination", func() {
	seed := func(storage Storage, count int) {
		for i := 0; i < count; i++ {
			Expect(storage.Insert(nil, &testUser{Name: "user"})).To(Succeed())
		}
	}

	It("should wrap the page in a pagination envelope", func() {
		storage, err := NewMemoryStorage(&testUser{})
		Expect(err).NotTo(HaveOccurred())
		seed(storage, 5)

		s := newCrudServer()
		Expect(s.RegisterService(newControllerWithStorage(storage, OpAll, nil))).To(Succeed())

		w := request(s, "GET", "/user/v1", "")
		Expect(w.Code).To(Equal(http.StatusOK))

		list := decodeJSON(w)
		Expect(list["items"]).To(HaveLen(2))
		Expect(list["size"]).To(Equal(float64(2)))
		Expect(list["total"]).To(Equal(float64(5)))
		Expect(list["pages"]).To(Equal(float64(3)))
		Expect(list["next"]).To(Equal("/user/v1?page=2"))
		Expect(list).NotTo(HaveKey("previous"))

		w = request(s, "GET", "/user/v1?page=2", "")
		list = decodeJSON(w)
		Expect(list["previous"]).To(Equal("/user/v1?page=1"))
		Expect(list["next"]).To(Equal("/user/v1?page=3"))
	})

	It("should convert the page parameter to an offset", func() {
		Expect(Pager(httptest.NewRequest("GET", "/", nil), 25)).To(Equal(0))
		Expect(Pager(httptest.NewRequest("GET", "/?page=1", nil), 25)).To(Equal(0))
		Expect(Pager(httptest.NewRequest("GET", "/?page=3", nil), 25)).To(Equal(50))
		Expect(Pager(httptest.NewRequest("GET", "/?page=0", nil), 25)).To(Equal(0))
		Expect(Pager(httptest.NewRequest("GET", "/?page=junk", nil), 25)).To(Equal(0))
	})
})

var errTestSubscriber = errors.New("subscriber failure")
