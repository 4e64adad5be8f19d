package badger

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/dgraph-io/badger/v4"
	"github.com/mus-format/mus-go"
	"github.com/poiesic/memrepo/core"
	"github.com/poiesic/memrepo/storage"
)

// ItemNamespace is the key namespace used by NewItemRepository.
const ItemNamespace = "item"

// Repository implements storage.Store on top of BadgerDB.
// Records are keyed by an insertion sequence, so All returns them in the
// order they were saved, and an identifier index resolves lookups to the
// earliest matching insert.
type Repository[T core.Identifiable[ID], ID comparable] struct {
	backend   *Backend
	namespace string
	seq       *badger.Sequence
	recordSer mus.Serializer[T]
	idSer     mus.Serializer[ID]
	closed    atomic.Bool
}

var _ storage.Store[core.Item, core.ID] = (*Repository[core.Item, core.ID])(nil)

// NewRepository creates a Repository storing records under namespace.
// idSer must produce self-delimiting encodings (varints, length-prefixed
// strings); otherwise one identifier's index range could swallow another's.
func NewRepository[T core.Identifiable[ID], ID comparable](
	backend *Backend,
	namespace string,
	recordSer mus.Serializer[T],
	idSer mus.Serializer[ID],
) (*Repository[T, ID], error) {
	if namespace == "" || strings.Contains(namespace, ":") {
		return nil, ErrInvalidNamespace
	}
	if recordSer == nil || idSer == nil {
		return nil, ErrSerializerRequired
	}

	seq, err := backend.GetSequence(makeSequenceName(namespace))
	if err != nil {
		return nil, err
	}

	return &Repository[T, ID]{
		backend:   backend,
		namespace: namespace,
		seq:       seq,
		recordSer: recordSer,
		idSer:     idSer,
	}, nil
}

// NewItemRepository creates a Repository of core.Item using the mus codecs from core.
func NewItemRepository(backend *Backend) (*Repository[core.Item, core.ID], error) {
	return NewRepository[core.Item, core.ID](backend, ItemNamespace, core.ItemMUS, core.IDMUS)
}

// Close releases the insertion sequence. The backend stays open.
func (r *Repository[T, ID]) Close() error {
	if !r.closed.CompareAndSwap(false, true) {
		return storage.ErrStorageClosed
	}
	return r.seq.Release()
}

// All returns every record in insertion order.
func (r *Repository[T, ID]) All(ctx context.Context) ([]T, error) {
	if err := r.check(ctx); err != nil {
		return nil, err
	}

	results := make([]T, 0)
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeRecordPrefix(r.namespace)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			record, err := r.decode(iter.Item())
			if err != nil {
				return err
			}
			results = append(results, record)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return results, nil
}

// Save appends a record. Existing records with the same identifier are kept.
func (r *Repository[T, ID]) Save(ctx context.Context, record T) error {
	if err := r.check(ctx); err != nil {
		return err
	}

	next, err := r.seq.Next()
	if err != nil {
		return err
	}
	idBytes := storage.Marshal(r.idSer, record.Identifier())

	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeRecordKey(r.namespace, next), storage.Marshal(r.recordSer, record)); err != nil {
			return err
		}
		if err := tx.Set(makeIndexKey(r.namespace, idBytes, next), nil); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// FindByID returns the earliest saved record with the given identifier.
func (r *Repository[T, ID]) FindByID(ctx context.Context, id ID) (T, bool, error) {
	var (
		result T
		found  bool
	)
	if err := r.check(ctx); err != nil {
		return result, false, err
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		_, seq, ok, err := r.firstMatch(tx, id)
		if err != nil || !ok {
			return err
		}

		item, err := tx.Get(makeRecordKey(r.namespace, seq))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return ErrCorruptIndex
			}
			return err
		}
		result, err = r.decode(item)
		if err != nil {
			return err
		}
		found = true
		return nil
	}, false)
	if err != nil {
		var zero T
		return zero, false, err
	}
	return result, found, nil
}

// Delete removes the earliest saved record with the given identifier.
// A missing identifier is a no-op.
func (r *Repository[T, ID]) Delete(ctx context.Context, id ID) error {
	if err := r.check(ctx); err != nil {
		return err
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		indexKey, seq, ok, err := r.firstMatch(tx, id)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		if err := tx.Delete(indexKey); err != nil {
			return err
		}
		if err := tx.Delete(makeRecordKey(r.namespace, seq)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// firstMatch finds the lowest-sequence index entry for id.
// The iterator is closed before returning so callers may commit.
func (r *Repository[T, ID]) firstMatch(tx *badger.Txn, id ID) (indexKey []byte, seq uint64, ok bool, err error) {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = makeIndexPrefix(r.namespace, storage.Marshal(r.idSer, id))
	iter := tx.NewIterator(opts)
	defer iter.Close()

	iter.Rewind()
	if !iter.Valid() {
		return nil, 0, false, nil
	}

	indexKey = iter.Item().KeyCopy(nil)
	seq, ok = seqFromKey(indexKey)
	if !ok {
		return nil, 0, false, ErrCorruptIndex
	}
	return indexKey, seq, true, nil
}

func (r *Repository[T, ID]) decode(item *badger.Item) (T, error) {
	var record T
	err := item.Value(func(val []byte) error {
		var err error
		record, err = storage.Unmarshal(r.recordSer, val)
		return err
	})
	return record, err
}

func (r *Repository[T, ID]) check(ctx context.Context) error {
	if r.closed.Load() || r.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	return ctx.Err()
}
