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
	"database/sql"
	"sync"

	"github.com/burrowkit/burrow/lib/errors"
)

// ErrNotConfigured is returned when a database handle is requested before a connection is configured.
var ErrNotConfigured = errors.New("database manager is not configured")

// Manager owns a database connection pool and hands out handles to it.
//
// A Manager constructed with NewManager is fully usable on its own. The
// package-level default slot exists for applications that want a single
// shared pool without threading it through every constructor.
type Manager struct {
	conn *sql.DB
}

// NewManager wraps an open connection pool.
func NewManager(conn *sql.DB) *Manager {
	return &Manager{conn: conn}
}

// Connect opens a connection pool and wraps it in a Manager.
//
// The connection is verified with a ping before the Manager is returned.
func Connect(connectString string) (*Manager, error) {
	conn, err := ConnectToDB(connectString)
	if err != nil {
		return nil, err
	}

	if err = conn.Ping(); err != nil {
		conn.Close()
		return nil, err
	}

	return NewManager(conn), nil
}

// Conn returns the connection pool.
func (m *Manager) Conn() (*sql.DB, error) {
	if m == nil || m.conn == nil {
		return nil, ErrNotConfigured
	}

	return m.conn, nil
}

// Tx runs fn inside a transaction.
//
// The transaction is committed if fn returns nil, rolled back otherwise.
// A panic inside fn rolls back the transaction and then propagates.
func (m *Manager) Tx(fn func(tx *sql.Tx) error) error {
	conn, err := m.Conn()
	if err != nil {
		return err
	}

	tx, err := conn.Begin()
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err = fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

// Close closes the underlying connection pool.
func (m *Manager) Close() error {
	if m == nil || m.conn == nil {
		return ErrNotConfigured
	}

	return m.conn.Close()
}

var (
	defaultMtx     sync.RWMutex
	defaultManager *Manager
)

// SetDefault installs m as the process-wide default Manager.
//
// Passing nil clears the slot.
func SetDefault(m *Manager) {
	defaultMtx.Lock()
	defaultManager = m
	defaultMtx.Unlock()
}

// DefaultManager returns the process-wide default Manager.
//
// It fails with ErrNotConfigured until SetDefault is called. The failure is
// deterministic: every call before configuration returns the same error.
func DefaultManager() (*Manager, error) {
	defaultMtx.RLock()
	defer defaultMtx.RUnlock()

	if defaultManager == nil {
		return nil, ErrNotConfigured
	}

	return defaultManager, nil
}
