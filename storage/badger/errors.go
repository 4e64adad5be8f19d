package badger

import "errors"

var (
	// ErrInvalidNamespace indicates an empty namespace or one containing ':'.
	ErrInvalidNamespace = errors.New("invalid namespace")

	// ErrSerializerRequired indicates a missing record or identifier serializer.
	ErrSerializerRequired = errors.New("serializer required")

	// ErrCorruptIndex indicates an index entry whose record key is malformed.
	ErrCorruptIndex = errors.New("corrupt index entry")
)
