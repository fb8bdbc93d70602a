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
	"net/http"

	"github.com/burrowkit/burrow/lib/log"
	"github.com/burrowkit/burrow/lib/middleware"
	"github.com/burrowkit/burrow/lib/server"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Operations", func() {
	It("should tell which operations are in the set", func() {
		ops := OpCreate | OpRead

		Expect(ops.Supports(OpCreate)).To(BeTrue())
		Expect(ops.Supports(OpRead)).To(BeTrue())
		Expect(ops.Supports(OpUpdate)).To(BeFalse())
		Expect(ops.Supports(OpCreate | OpUpdate)).To(BeFalse())
		Expect(OpAll.Supports(OpDelete)).To(BeTrue())
	})

	It("should list the answered methods per path", func() {
		Expect(OpAll.CollectionMethods()).To(Equal([]string{"GET", "HEAD", "POST", "OPTIONS"}))
		Expect(OpAll.ItemMethods()).To(Equal([]string{"GET", "HEAD", "PATCH", "PUT", "DELETE", "OPTIONS"}))
		Expect(OpCreate.ItemMethods()).To(BeEmpty())
		Expect(OpDelete.CollectionMethods()).To(BeEmpty())
	})

	It("should print the set", func() {
		Expect(OpAll.String()).To(Equal("create+read+update+delete"))
		Expect((OpCreate | OpRead).String()).To(Equal("create+read"))
		Expect(Operations(0).String()).To(BeEmpty())
	})
})

var _ = Describe("Router", func() {
	It("should require a controller, a base path and a version", func() {
		c := newUserController(OpAll, nil)

		_, err := NewRouter(RouterConfig{BasePath: "/user", Version: 1}, nil)
		Expect(err).To(HaveOccurred())

		_, err = NewRouter(RouterConfig{Version: 1}, c)
		Expect(err).To(HaveOccurred())

		_, err = NewRouter(RouterConfig{BasePath: "/user"}, c)
		Expect(err).To(HaveOccurred())
	})

	It("should compute the versioned paths", func() {
		rt, err := NewRouter(RouterConfig{BasePath: "/staff/member", Version: 2}, newUserController(OpAll, nil))
		Expect(err).NotTo(HaveOccurred())

		Expect(rt.CollectionPath()).To(Equal("/staff/member/v2"))
		Expect(rt.ItemPath()).To(Equal("/staff/member/v2/:id"))
	})

	It("should leave disabled operations out of the routing table", func() {
		s := newUserServer(OpRead, nil)

		Expect(request(s, "POST", "/user/v1", `{"name": "alice"}`).Code).To(Equal(http.StatusMethodNotAllowed))
		Expect(request(s, "PATCH", "/user/v1/1", `{"fullName": "x"}`).Code).To(Equal(http.StatusMethodNotAllowed))
		Expect(request(s, "DELETE", "/user/v1/1", "").Code).To(Equal(http.StatusMethodNotAllowed))
		Expect(request(s, "GET", "/user/v1", "").Code).To(Equal(http.StatusOK))
	})

	It("should answer HEAD wherever GET is registered", func() {
		s := newUserServer(OpRead, nil)

		Expect(request(s, "HEAD", "/user/v1", "").Code).To(Equal(http.StatusOK))
		Expect(request(s, "HEAD", "/user/v1/1", "").Code).To(Equal(http.StatusNotFound))

		allow := request(s, "OPTIONS", "/user/v1", "").Header().Get("Allow")
		Expect(allow).To(ContainSubstring("HEAD"))
	})

	It("should not register the item path at all without item operations", func() {
		s := newUserServer(OpCreate, nil)

		Expect(request(s, "GET", "/user/v1/1", "").Code).To(Equal(http.StatusNotFound))
	})

	It("should panic at startup on a server without the required middlewares", func() {
		s := server.NewServer(log.NewDevLogger(GinkgoWriter))

		Expect(func() {
			s.RegisterService(newUserController(OpAll, nil))
		}).To(Panic())
	})

	It("should panic at startup when two routers claim the same path", func() {
		s := newCrudServer()
		Expect(s.RegisterService(newUserController(OpAll, nil))).To(Succeed())

		Expect(func() {
			s.RegisterService(newUserController(OpAll, nil))
		}).To(Panic())
	})

	It("should apply the mutation middlewares to writes only", func() {
		var mutations int

		counter := middleware.Func(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				mutations++
				next.ServeHTTP(w, r)
			})
		})

		rt, err := NewRouter(RouterConfig{
			BasePath:            "/user",
			Version:             1,
			MutationMiddlewares: []middleware.Middleware{counter},
		}, newUserController(OpAll, nil))
		Expect(err).NotTo(HaveOccurred())

		s := newCrudServer()
		Expect(s.RegisterService(rt)).To(Succeed())

		request(s, "POST", "/user/v1", `{"name": "alice"}`)
		Expect(mutations).To(Equal(1))

		request(s, "GET", "/user/v1/1", "")
		Expect(mutations).To(Equal(1))

		request(s, "PATCH", "/user/v1/1", `{"fullName": "x"}`)
		Expect(mutations).To(Equal(2))
	})
})
