package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates that the requested document was not found.
	ErrNotFound = errors.New("document not found")

	// ErrWrite indicates a document could not be persisted.
	ErrWrite = errors.New("write failed")

	// ErrConnection indicates the store could not be connected to or released.
	ErrConnection = errors.New("store connection error")

	// ErrStorageClosed indicates that the storage backend is closed.
	ErrStorageClosed = errors.New("storage is closed")

	// ErrSerializationFailed indicates a serialization/deserialization failure.
	ErrSerializationFailed = errors.New("serialization failed")
)

// WriteError wraps the underlying store failure for one document.
type WriteError struct {
	TestCaseID string
	Err        error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write test case %s: %v", e.TestCaseID, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

func (e *WriteError) Is(target error) bool { return target == ErrWrite }

// ConnectionError reports a failure to open or release the store.
type ConnectionError struct {
	Op  string // "connect", "ping" or "close"
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

func (e *ConnectionError) Is(target error) bool { return target == ErrConnection }
