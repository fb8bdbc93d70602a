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

package dbmw

import (
	"database/sql"
	"net/http"

	"github.com/burrowkit/burrow/lib/db"
	"github.com/burrowkit/burrow/lib/errors"
	"github.com/burrowkit/burrow/lib/middleware"
	"github.com/burrowkit/burrow/lib/util"
)

const (
	MiddlewareDependencyDB = "*dbmw.Middleware"

	dbConnectionKey = "burrowdb"
)

// GetConnection returns the DB handle from the request context.
//
// Returns nil when the database middleware is not installed, so handlers that
// do not touch the database keep working on a database-less server.
func GetConnection(r *http.Request) db.DB {
	if conn, ok := r.Context().Value(dbConnectionKey).(db.DB); ok {
		return conn
	}

	return nil
}

var _ middleware.Middleware = &Middleware{}

// Middleware injects a database handle into the request context.
type Middleware struct {
	manager *db.Manager

	middleware.NoDependencies
}

// New creates the database middleware on top of a connection manager.
func New(manager *db.Manager) *Middleware {
	return &Middleware{
		manager: manager,
	}
}

func (m *Middleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := m.manager.Conn()
		if err != nil {
			errors.Fail(http.StatusServiceUnavailable, err)
		}

		next.ServeHTTP(w, util.SetContext(r, dbConnectionKey, conn))
	})
}

// Close closes the underlying connection manager.
func (m *Middleware) Close() error {
	return m.manager.Close()
}

var _ middleware.Middleware = &TransactionMiddleware{}

// TransactionMiddleware turns the DB connection in the context into a transaction.
//
// The transaction gets committed automatically, or rolled back if the handler
// panics.
type TransactionMiddleware struct {
}

func Begin() *TransactionMiddleware {
	return &TransactionMiddleware{}
}

func (t *TransactionMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn := GetConnection(r)
		var tx *sql.Tx
		var err error
		if dbconn, ok := conn.(*sql.DB); ok && dbconn != nil {
			tx, err = dbconn.Begin()
			if err != nil {
				errors.Fail(http.StatusInternalServerError, err)
			}
			defer tx.Rollback()
			r = util.SetContext(r, dbConnectionKey, tx)
		}

		next.ServeHTTP(w, r)

		if tx != nil {
			tx.Commit()
		}
	})
}

func (t *TransactionMiddleware) Dependencies() []string {
	return []string{MiddlewareDependencyDB}
}
