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

package storage

import (
	"fmt"

	"github.com/mus-format/mus-go"
	"github.com/poiesic/memrepo/core"
)

// Marshal serializes v with ser into a freshly sized buffer.
func Marshal[T any](ser mus.Serializer[T], v T) []byte {
	buf := make([]byte, ser.Size(v))
	ser.Marshal(v, buf)
	return buf
}

// Unmarshal deserializes a value from data with ser.
// The whole buffer must be consumed.
func Unmarshal[T any](ser mus.Serializer[T], data []byte) (T, error) {
	v, n, err := ser.Unmarshal(data)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	if n != len(data) {
		var zero T
		return zero, fmt.Errorf("%w: %d of %d bytes consumed", ErrTruncatedData, n, len(data))
	}
	return v, nil
}

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	return Marshal[core.ID](core.IDMUS, id)
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	return Unmarshal[core.ID](core.IDMUS, data)
}

// MarshalItem serializes an Item to bytes.
func MarshalItem(item *core.Item) []byte {
	return Marshal[core.Item](core.ItemMUS, *item)
}

// UnmarshalItem deserializes an Item from bytes.
func UnmarshalItem(data []byte) (*core.Item, error) {
	item, err := Unmarshal[core.Item](core.ItemMUS, data)
	if err != nil {
		return nil, err
	}
	return &item, nil
}
