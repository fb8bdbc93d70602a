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
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/burrowkit/burrow/lib/db"
	"github.com/burrowkit/burrow/lib/errors"
)

var _ Storage = &MemoryStorage{}

// MemoryStorage keeps resources in a process-local map.
//
// It ignores the database handle, which makes it useful in tests and in
// applications that have nothing worth persisting. Integer primary keys are
// assigned from a sequence starting at 1.
type MemoryStorage struct {
	info *modelInfo

	mtx  sync.Mutex
	rows map[string]Resource
	seq  int64
}

// NewMemoryStorage builds an in-memory storage for a model prototype.
func NewMemoryStorage(prototype Resource) (*MemoryStorage, error) {
	info, err := newModelInfo(prototype)
	if err != nil {
		return nil, err
	}

	return &MemoryStorage{
		info: info,
		rows: make(map[string]Resource),
	}, nil
}

func (s *MemoryStorage) Empty() Resource {
	return reflect.New(s.info.typ).Interface()
}

func (s *MemoryStorage) key(res Resource) string {
	return fmt.Sprint(s.info.value(res, s.info.pkCol))
}

// clone copies a resource so callers can not mutate stored state in place.
func (s *MemoryStorage) clone(res Resource) Resource {
	c := reflect.New(s.info.typ)
	c.Elem().Set(reflect.ValueOf(res).Elem())

	return c.Interface()
}

func (s *MemoryStorage) Insert(conn db.DB, res Resource) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	pk := reflect.ValueOf(res).Elem().Field(s.info.fields[s.info.pkCol])
	switch pk.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		s.seq++
		pk.SetInt(s.seq)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		s.seq++
		pk.SetUint(uint64(s.seq))
	}

	key := s.key(res)
	if _, exists := s.rows[key]; exists {
		return errors.NewError("duplicate primary key "+key, "this item already exists")
	}

	s.rows[key] = s.clone(res)

	return nil
}

func (s *MemoryStorage) Load(conn db.DB, id string) (Resource, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	res, found := s.rows[id]
	if !found {
		return nil, nil
	}

	return s.clone(res), nil
}

func (s *MemoryStorage) List(conn db.DB, start, limit int) ([]Resource, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	keys := make([]string, 0, len(s.rows))
	for key := range s.rows {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	list := []Resource{}
	for i, key := range keys {
		if i < start {
			continue
		}
		if len(list) == limit {
			break
		}
		list = append(list, s.clone(s.rows[key]))
	}

	return list, nil
}

func (s *MemoryStorage) Count(conn db.DB) (int, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return len(s.rows), nil
}

func (s *MemoryStorage) Update(conn db.DB, res Resource) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	key := s.key(res)
	if _, found := s.rows[key]; !found {
		return errors.NewError("missing primary key "+key, "this item does not exist")
	}

	s.rows[key] = s.clone(res)

	return nil
}

func (s *MemoryStorage) Delete(conn db.DB, res Resource) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	delete(s.rows, s.key(res))

	return nil
}
