package badgerfx

import "errors"

var ErrNotFound = errors.New("entity not found")

// Entity is a value that can be persisted by Repository.
type Entity interface {
	// StorageKey returns the primary key.
	StorageKey() string
	// StorageIndexes returns secondary keys that point at the primary key.
	StorageIndexes() []string

	MarshalStorage() ([]byte, error)
	UnmarshalStorage(data []byte) error
}
