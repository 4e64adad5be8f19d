package badger

import (
	"encoding/binary"
)

// Key layout, per namespace:
//
//	<ns>:rec:<seq>        record value, seq is a big-endian uint64
//	<ns>:idx:<id><seq>    identifier index, empty value
//	<ns>:seq              badger sequence lease
//
// Big-endian sequences make lexicographic key order match insertion order.
// Identifier bytes come from a mus serializer, whose varint and
// length-prefixed encodings never form a prefix of another identifier.
const (
	recordInfix   = ":rec:"
	indexInfix    = ":idx:"
	sequenceInfix = ":seq"
	seqSize       = 8
)

// makeRecordPrefix returns the prefix shared by every record key in ns.
func makeRecordPrefix(ns string) []byte {
	return []byte(ns + recordInfix)
}

// makeRecordKey generates the key for the record stored at seq.
func makeRecordKey(ns string, seq uint64) []byte {
	prefix := makeRecordPrefix(ns)
	buf := make([]byte, len(prefix)+seqSize)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], seq)
	return buf
}

// makeIndexPrefix generates the partial index key covering every record with this identifier.
func makeIndexPrefix(ns string, id []byte) []byte {
	infix := []byte(ns + indexInfix)
	buf := make([]byte, len(infix)+len(id))
	offset := copy(buf, infix)
	copy(buf[offset:], id)
	return buf
}

// makeIndexKey generates a composite key for the identifier index.
// Format: prefix:id:seq
func makeIndexKey(ns string, id []byte, seq uint64) []byte {
	prefix := makeIndexPrefix(ns, id)
	buf := make([]byte, len(prefix)+seqSize)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], seq)
	return buf
}

// seqFromKey reads the trailing sequence number of a record or index key.
func seqFromKey(key []byte) (uint64, bool) {
	if len(key) < seqSize {
		return 0, false
	}
	return binary.BigEndian.Uint64(key[len(key)-seqSize:]), true
}

// makeSequenceName names the badger sequence that orders inserts in ns.
func makeSequenceName(ns string) string {
	return ns + sequenceInfix
}
