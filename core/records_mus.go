package core

import (
	"math"
	"slices"
	"time"

	"github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// zeroTime marks an unset timestamp on the wire. Every other value is Unix microseconds.
const zeroTime int64 = math.MinInt64

var (
	// IDMUS serializes an ID as a varint.
	IDMUS = idMUS{}
	// ItemMUS serializes an Item. Metadata keys are written in sorted order,
	// and an empty metadata map decodes as nil.
	ItemMUS = itemMUS{}
)

var (
	_ mus.Serializer[ID]   = idMUS{}
	_ mus.Serializer[Item] = itemMUS{}
)

type idMUS struct{}

func (idMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (idMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	u, n, err := varint.Uint64.Unmarshal(bs)
	return ID(u), n, err
}

func (idMUS) Size(v ID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

func (idMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

type itemMUS struct{}

func (itemMUS) Marshal(v Item, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.Name, bs[n:])
	n += ord.String.Marshal(v.Contents, bs[n:])
	n += varint.Int64.Marshal(timeToMicro(v.InsertedAt), bs[n:])
	n += varint.Uint64.Marshal(uint64(len(v.Metadata)), bs[n:])
	for _, k := range sortedKeys(v.Metadata) {
		n += ord.String.Marshal(k, bs[n:])
		n += ord.String.Marshal(v.Metadata[k], bs[n:])
	}
	return n
}

func (itemMUS) Unmarshal(bs []byte) (v Item, n int, err error) {
	var n1 int
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	v.Name, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Contents, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	micro, n1, err := varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.InsertedAt = microToTime(micro)

	count, n1, err := varint.Uint64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	if count == 0 {
		return
	}
	v.Metadata = make(map[string]string, count)
	for i := uint64(0); i < count; i++ {
		var key, val string
		key, n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
		val, n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
		v.Metadata[key] = val
	}
	return
}

func (itemMUS) Size(v Item) (size int) {
	size = IDMUS.Size(v.Id)
	size += ord.String.Size(v.Name)
	size += ord.String.Size(v.Contents)
	size += varint.Int64.Size(timeToMicro(v.InsertedAt))
	size += varint.Uint64.Size(uint64(len(v.Metadata)))
	for k, val := range v.Metadata {
		size += ord.String.Size(k) + ord.String.Size(val)
	}
	return size
}

func (itemMUS) Skip(bs []byte) (n int, err error) {
	n, err = IDMUS.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	for range 2 {
		n1, err = ord.String.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	n1, err = varint.Int64.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	count, n1, err := varint.Uint64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	for i := uint64(0); i < count*2; i++ {
		n1, err = ord.String.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

func timeToMicro(t time.Time) int64 {
	if t.IsZero() {
		return zeroTime
	}
	return t.UnixMicro()
}

func microToTime(v int64) time.Time {
	if v == zeroTime {
		return time.Time{}
	}
	return time.UnixMicro(v).UTC()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
