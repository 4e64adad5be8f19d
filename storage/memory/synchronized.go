package memory

import (
	"sync"

	"github.com/poiesic/memrepo/core"
	"github.com/poiesic/memrepo/storage"
)

// Synchronized guards a Repository with a single RWMutex held for the whole
// of each operation. Lookups share the read lock.
type Synchronized[T core.Identifiable[ID], ID comparable] struct {
	mu   sync.RWMutex
	repo *Repository[T, ID]
}

var _ storage.Repository[core.Item, core.ID] = (*Synchronized[core.Item, core.ID])(nil)

// NewSynchronized wraps repo. A nil repo gets a fresh empty Repository.
// The caller must stop using repo directly afterwards.
func NewSynchronized[T core.Identifiable[ID], ID comparable](repo *Repository[T, ID]) *Synchronized[T, ID] {
	if repo == nil {
		repo = New[T, ID]()
	}
	return &Synchronized[T, ID]{repo: repo}
}

func (s *Synchronized[T, ID]) All() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.repo.All()
}

func (s *Synchronized[T, ID]) Save(record T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.repo.Save(record)
}

func (s *Synchronized[T, ID]) FindByID(id ID) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.repo.FindByID(id)
}

func (s *Synchronized[T, ID]) Delete(id ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.repo.Delete(id)
}

func (s *Synchronized[T, ID]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.repo.Len()
}
