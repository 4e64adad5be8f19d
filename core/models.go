package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// Identifiable is implemented by any record that exposes an identifier
// comparable with ==. Repositories are generic over this constraint.
type Identifiable[ID comparable] interface {
	Identifier() ID
}

// ID is a unique identifier for stored items.
// It is either supplied by the caller or derived from content.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Item is the stock record type used by the CLI, the ingestion loader and
// the Badger codec. Any other type satisfying Identifiable works with the
// generic repositories as well.
type Item struct {
	Id         ID
	Name       string
	Contents   string
	InsertedAt time.Time         // When the item was handed to a store
	Metadata   map[string]string // Optional free-form labels
}

var _ Identifiable[ID] = Item{}

// Identifier returns the item's ID.
func (i Item) Identifier() ID {
	return i.Id
}

// ContentKey is the text hashed by IDFromContent when an item arrives without an ID.
func (i Item) ContentKey() string {
	return i.Name + "\x00" + i.Contents
}
