package badgerfx

import "errors"

var ErrNotFound = errors.New("entity not found")

// Entity is a value persisted under a single primary key with optional
// secondary index keys pointing back to it.
type Entity interface {
	StorageKey() string
	StorageIndexes() []string
	MarshalStorage() ([]byte, error)
	UnmarshalStorage(data []byte) error
}
