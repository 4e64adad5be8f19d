package storage

import (
	"context"

	"github.com/poiesic/memrepo/core"
)

// Repository is an ordered collection of records of a single type.
// Operations complete immediately and never fail.
type Repository[T core.Identifiable[ID], ID comparable] interface {
	// All returns every record in insertion order.
	// Returns an empty, non-nil slice when nothing is stored. The slice is a
	// copy; mutating it does not affect the repository.
	All() []T

	// Save appends a record. No existence check or upsert is performed, so
	// saving an identifier twice stores two records.
	Save(record T)

	// FindByID returns the first record, in insertion order, whose identifier equals id.
	// ok is false when nothing matches.
	FindByID(id ID) (record T, ok bool)

	// Delete removes the first record whose identifier equals id.
	// Does nothing when nothing matches.
	Delete(id ID)
}

// Store provides the Repository operations for backends that can fail.
// A miss is still reported through ok, not through the error.
// Implementations must be thread-safe.
type Store[T core.Identifiable[ID], ID comparable] interface {
	// All returns every record in insertion order, never nil on success.
	All(ctx context.Context) ([]T, error)

	// Save appends a record.
	Save(ctx context.Context, record T) error

	// FindByID returns the first record inserted with the given identifier.
	FindByID(ctx context.Context, id ID) (record T, ok bool, err error)

	// Delete removes the first record inserted with the given identifier.
	// Deleting an unknown identifier returns nil.
	Delete(ctx context.Context, id ID) error

	// Close releases resources. Subsequent calls return ErrStorageClosed.
	Close() error
}
