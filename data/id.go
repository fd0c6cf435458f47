package data

import (
	"github.com/google/uuid"
)

// ID identifies a document inside a collection.
// The empty string is the null id.
type ID string

const (
	// MinID sorts before every valid id.
	MinID ID = "\x00"
	// MaxID sorts after every valid (UTF-8) id.
	MaxID ID = "\xff"
)

// NewID returns a new time-ordered identifier.
func NewID() ID {
	return ID(uuid.Must(uuid.NewV7()).String())
}

func (id ID) IsNull() bool {
	return id == ""
}

func (id ID) IsSentinel() bool {
	return id == MinID || id == MaxID
}

// Valid reports whether id can address a stored document.
func (id ID) Valid() bool {
	return !id.IsNull() && !id.IsSentinel()
}

func (id ID) String() string {
	return string(id)
}
