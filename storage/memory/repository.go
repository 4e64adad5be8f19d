package memory

import (
	"slices"

	"github.com/poiesic/memrepo/core"
	"github.com/poiesic/memrepo/storage"
)

// Repository is an insertion-ordered, slice-backed storage.Repository.
// It is not safe for concurrent use; see Synchronized.
type Repository[T core.Identifiable[ID], ID comparable] struct {
	records []T
}

var _ storage.Repository[core.Item, core.ID] = (*Repository[core.Item, core.ID])(nil)

// New creates an empty Repository.
func New[T core.Identifiable[ID], ID comparable]() *Repository[T, ID] {
	return &Repository[T, ID]{records: make([]T, 0)}
}

// All returns a copy of the stored records in insertion order.
func (r *Repository[T, ID]) All() []T {
	out := make([]T, len(r.records))
	copy(out, r.records)
	return out
}

// Save appends record without checking for an existing identifier.
func (r *Repository[T, ID]) Save(record T) {
	r.records = append(r.records, record)
}

// FindByID returns the first record inserted with the given identifier.
func (r *Repository[T, ID]) FindByID(id ID) (T, bool) {
	if i := r.indexOf(id); i >= 0 {
		return r.records[i], true
	}
	var zero T
	return zero, false
}

// Delete removes the first record inserted with the given identifier.
func (r *Repository[T, ID]) Delete(id ID) {
	if i := r.indexOf(id); i >= 0 {
		r.records = slices.Delete(r.records, i, i+1)
	}
}

// Len returns the number of stored records.
func (r *Repository[T, ID]) Len() int {
	return len(r.records)
}

func (r *Repository[T, ID]) indexOf(id ID) int {
	return slices.IndexFunc(r.records, func(record T) bool {
		return record.Identifier() == id
	})
}
