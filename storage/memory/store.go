// Copyright 2025 Poiesic Systems
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

package memory

import (
	"context"
	"sync/atomic"

	"github.com/poiesic/memrepo/core"
	"github.com/poiesic/memrepo/storage"
)

// Store exposes a Repository through the context-aware storage.Store contract.
// The repository is wrapped in Synchronized, so a Store is safe for concurrent use.
type Store[T core.Identifiable[ID], ID comparable] struct {
	repo   *Synchronized[T, ID]
	closed atomic.Bool
}

var _ storage.Store[core.Item, core.ID] = (*Store[core.Item, core.ID])(nil)

// NewStore creates a Store over repo. A nil repo gets a fresh empty Repository.
func NewStore[T core.Identifiable[ID], ID comparable](repo *Repository[T, ID]) *Store[T, ID] {
	return &Store[T, ID]{repo: NewSynchronized(repo)}
}

// NewItemStore creates an empty Store of core.Item.
func NewItemStore() *Store[core.Item, core.ID] {
	return NewStore[core.Item, core.ID](nil)
}

func (s *Store[T, ID]) All(ctx context.Context) ([]T, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	return s.repo.All(), nil
}

func (s *Store[T, ID]) Save(ctx context.Context, record T) error {
	if err := s.check(ctx); err != nil {
		return err
	}
	s.repo.Save(record)
	return nil
}

func (s *Store[T, ID]) FindByID(ctx context.Context, id ID) (T, bool, error) {
	if err := s.check(ctx); err != nil {
		var zero T
		return zero, false, err
	}
	record, ok := s.repo.FindByID(id)
	return record, ok, nil
}

func (s *Store[T, ID]) Delete(ctx context.Context, id ID) error {
	if err := s.check(ctx); err != nil {
		return err
	}
	s.repo.Delete(id)
	return nil
}

// Len returns the number of stored records.
func (s *Store[T, ID]) Len() int {
	return s.repo.Len()
}

// Close marks the store closed. Records are dropped with the store.
func (s *Store[T, ID]) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return storage.ErrStorageClosed
	}
	return nil
}

func (s *Store[T, ID]) check(ctx context.Context) error {
	if s.closed.Load() {
		return storage.ErrStorageClosed
	}
	return ctx.Err()
}
