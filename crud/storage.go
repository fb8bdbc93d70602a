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
	"database/sql"
	"reflect"
	"strconv"
	"strings"

	"github.com/burrowkit/burrow/lib/db"
	"github.com/burrowkit/burrow/lib/errors"
	"github.com/burrowkit/burrow/lib/util"
)

// Resource labels data exposed through CRUD endpoints.
type Resource interface {
}

// Storage loads and persists resources on behalf of a Controller.
//
// The conn argument is the request-scoped handle: the raw connection, or the
// transaction when the transaction middleware is active. Implementations
// backed by something other than a database may ignore it.
type Storage interface {
	// Empty returns a new zero resource, ready to be filled from a request body.
	Empty() Resource
	// Insert persists a new resource and fills its generated primary key.
	Insert(conn db.DB, res Resource) error
	// Load fetches a resource by primary key. A missing row is (nil, nil).
	Load(conn db.DB, id string) (Resource, error)
	// List fetches a page of resources.
	List(conn db.DB, start, limit int) ([]Resource, error)
	// Count returns the total number of resources.
	Count(conn db.DB) (int, error)
	// Update persists changes on a previously loaded resource.
	Update(conn db.DB, res Resource) error
	// Delete removes a previously loaded resource.
	Delete(conn db.DB, res Resource) error
}

// softDeleteColumn marks a model as soft deleted: when a model carries a
// column with this name, deletes tombstone the row instead of removing it.
const softDeleteColumn = "deleted_at"

// modelInfo is the reflected mapping between a model struct and its table
// columns. Fields are mapped through `db` struct tags; the tag value is the
// column name, and a ",pk" suffix marks the primary key.
type modelInfo struct {
	typ        reflect.Type
	columns    []string
	fields     map[string]int
	pkCol      string
	deletedCol string
}

func newModelInfo(prototype Resource) (*modelInfo, error) {
	t := reflect.TypeOf(prototype)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, errors.New("model prototype must be a struct or a pointer to one")
	}

	info := &modelInfo{
		typ:    t,
		fields: make(map[string]int),
	}

	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("db")
		if tag == "" || tag == "-" {
			continue
		}

		col := tag
		if idx := strings.IndexByte(tag, ','); idx >= 0 {
			col = tag[:idx]
			if strings.Contains(tag[idx:], "pk") {
				if info.pkCol != "" {
					return nil, errors.New("model declares more than one primary key column")
				}
				info.pkCol = col
			}
		}

		if col == softDeleteColumn {
			info.deletedCol = col
		}

		info.columns = append(info.columns, col)
		info.fields[col] = i
	}

	if len(info.columns) == 0 {
		return nil, errors.New("model has no db-tagged fields")
	}
	if info.pkCol == "" {
		return nil, errors.New("model declares no primary key column")
	}

	return info, nil
}

// value returns the field value for a column on a resource instance.
func (mi *modelInfo) value(res Resource, col string) interface{} {
	return reflect.ValueOf(res).Elem().Field(mi.fields[col]).Interface()
}

// scanTargets returns pointers to the fields of res in column order.
func (mi *modelInfo) scanTargets(res Resource) []interface{} {
	v := reflect.ValueOf(res).Elem()
	targets := make([]interface{}, len(mi.columns))
	for i, col := range mi.columns {
		targets[i] = v.Field(mi.fields[col]).Addr().Interface()
	}

	return targets
}

// dataColumns returns every column the request body may feed: everything
// except the primary key and the deletion timestamp.
func (mi *modelInfo) dataColumns() []string {
	cols := make([]string, 0, len(mi.columns)-1)
	for _, col := range mi.columns {
		if col == mi.pkCol || col == mi.deletedCol {
			continue
		}
		cols = append(cols, col)
	}

	return cols
}

var _ Storage = &SQLStorage{}

// SQLStorage is a Storage over a single table, with the queries generated
// from the model's `db` tags. The generated primary key is read back with a
// RETURNING clause on insert.
//
// A model with a deleted_at column is soft deleted: Delete stamps the row
// instead of removing it, and load, list and count only see rows whose
// deleted_at is NULL.
type SQLStorage struct {
	info  *modelInfo
	table string

	insertSQL string
	loadSQL   string
	listSQL   string
	countSQL  string
	updateSQL string
	deleteSQL string
}

// NewSQLStorage builds the storage for a model prototype and a table name.
func NewSQLStorage(prototype Resource, table string) (*SQLStorage, error) {
	info, err := newModelInfo(prototype)
	if err != nil {
		return nil, err
	}

	s := &SQLStorage{
		info:  info,
		table: table,
	}
	s.buildQueries()

	return s, nil
}

func (s *SQLStorage) buildQueries() {
	cols := strings.Join(s.info.columns, ", ")
	dataCols := s.info.dataColumns()
	pk := s.info.pkCol

	s.insertSQL = "INSERT INTO " + s.table + " (" + strings.Join(dataCols, ", ") + ") VALUES (" +
		util.GeneratePlaceholders(1, uint(len(dataCols))+1) + ") RETURNING " + pk

	s.loadSQL = "SELECT " + cols + " FROM " + s.table + " WHERE " + pk + " = $1"
	s.listSQL = "SELECT " + cols + " FROM " + s.table
	s.countSQL = "SELECT COUNT(*) FROM " + s.table
	s.deleteSQL = "DELETE FROM " + s.table + " WHERE " + pk + " = $1"

	if deleted := s.info.deletedCol; deleted != "" {
		s.loadSQL += " AND " + deleted + " IS NULL"
		s.listSQL += " WHERE " + deleted + " IS NULL"
		s.countSQL += " WHERE " + deleted + " IS NULL"
		s.deleteSQL = "UPDATE " + s.table + " SET " + deleted + " = NOW() WHERE " + pk + " = $1"
	}

	s.listSQL += " ORDER BY " + pk + " LIMIT $1 OFFSET $2"

	sets := make([]string, len(dataCols))
	for i, col := range dataCols {
		sets[i] = col + " = $" + strconv.Itoa(i+1)
	}
	s.updateSQL = "UPDATE " + s.table + " SET " + strings.Join(sets, ", ") +
		" WHERE " + pk + " = $" + strconv.Itoa(len(dataCols)+1)
}

func (s *SQLStorage) Empty() Resource {
	return reflect.New(s.info.typ).Interface()
}

func (s *SQLStorage) Insert(conn db.DB, res Resource) error {
	args := s.dataValues(res)

	pkTarget := reflect.ValueOf(res).Elem().Field(s.info.fields[s.info.pkCol]).Addr().Interface()

	return conn.QueryRow(s.insertSQL, args...).Scan(pkTarget)
}

func (s *SQLStorage) Load(conn db.DB, id string) (Resource, error) {
	res := s.Empty()

	err := conn.QueryRow(s.loadSQL, id).Scan(s.info.scanTargets(res)...)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return res, nil
}

func (s *SQLStorage) List(conn db.DB, start, limit int) ([]Resource, error) {
	rows, err := conn.Query(s.listSQL, limit, start)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []Resource{}
	for rows.Next() {
		res := s.Empty()
		if err = rows.Scan(s.info.scanTargets(res)...); err != nil {
			return nil, err
		}
		list = append(list, res)
	}

	return list, rows.Err()
}

func (s *SQLStorage) Count(conn db.DB) (int, error) {
	count := 0
	err := conn.QueryRow(s.countSQL).Scan(&count)

	return count, err
}

func (s *SQLStorage) Update(conn db.DB, res Resource) error {
	args := s.dataValues(res)
	args = append(args, s.info.value(res, s.info.pkCol))

	_, err := conn.Exec(s.updateSQL, args...)

	return err
}

func (s *SQLStorage) Delete(conn db.DB, res Resource) error {
	_, err := conn.Exec(s.deleteSQL, s.info.value(res, s.info.pkCol))

	return err
}

func (s *SQLStorage) dataValues(res Resource) []interface{} {
	cols := s.info.dataColumns()
	args := make([]interface{}, len(cols))
	for i, col := range cols {
		args[i] = s.info.value(res, col)
	}

	return args
}

