package storage

import "errors"

var (
	// ErrNotFound is returned by GetDocument when the key has never been written.
	ErrNotFound = errors.New("document not found")
	// ErrNotLoaded is returned when a document is accessed before Init or Load.
	ErrNotLoaded = errors.New("storage not loaded")
)

// Provider persists whole serialized documents by key. The engine writes
// each document in full on every mutation.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Documents
	GetDocument(key string) ([]byte, error)
	PutDocument(key string, data []byte) error

	// Utils
	GetConfigPath() string
}

// Versioned is implemented by providers backed by a migrated SQL schema.
type Versioned interface {
	SchemaVersion() (current, latest int, err error)
}
