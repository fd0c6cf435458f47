package data

import (
	"errors"
	"sync"
)

// Standard errors that backends and the database layer should use.
var (
	// Document errors
	ErrNotExist = errors.New("litedb: document does not exist")
	ErrExist    = errors.New("litedb: document already exists")
	ErrInvalid  = errors.New("litedb: invalid argument")

	// Reference errors
	ErrInvalidReference = errors.New("litedb: invalid reference")

	// File storage errors
	ErrInvalidFileID        = errors.New("litedb: invalid file id")
	ErrCorruptedFile        = errors.New("litedb: corrupted file")
	ErrUnsupportedOperation = errors.New("litedb: unsupported operation")

	// Codec errors
	ErrDeserialization = errors.New("litedb: deserialization error")

	// Lifecycle errors
	ErrClosed        = errors.New("litedb: already closed")
	ErrNoTransaction = errors.New("litedb: no transaction in progress")
)

type Errors struct {
	mu     sync.RWMutex
	errors []error
}

func (e *Errors) Add(err error) {
	if err == nil {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.errors = append(e.errors, err)
}

func (e *Errors) Errors() error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if len(e.errors) == 0 {
		return nil
	}

	return errors.Join(e.errors...)
}
