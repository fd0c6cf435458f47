package cmd

import (
	"context"

	"github.com/mwantia/litedb/data"
)

// API is a reduced view of the database.
// It strips away everything not required for command operations.
type API interface {
	// BeginTrans starts a transaction. It returns false if one is already open.
	BeginTrans(ctx context.Context) (bool, error)

	// Commit keeps every write made since BeginTrans.
	Commit(ctx context.Context) error

	// Rollback undoes every write made since BeginTrans.
	Rollback(ctx context.Context) error

	// Info returns diagnostic information about the database.
	Info(ctx context.Context) (data.Document, error)

	// FileInfo returns the stored file id, or false if it does not exist.
	FileInfo(ctx context.Context, id data.ID) (*data.FileInfo, bool, error)

	// FindFiles returns every stored file whose id starts with prefix.
	FindFiles(ctx context.Context, prefix string) ([]*data.FileInfo, error)

	// SetFileMetadata replaces the metadata of file id.
	// It returns false if the file does not exist.
	SetFileMetadata(ctx context.Context, id data.ID, metadata data.Document) (*data.FileInfo, bool, error)

	// DeleteFile removes file id. It returns false if the file does not exist.
	DeleteFile(ctx context.Context, id data.ID) (bool, error)
}

// Command represents an executable shell command.
type Command interface {
	// Name returns the command identifier
	Name() string

	// Description returns human-readable help text
	Description() string

	// Usage returns a usage string for help (e.g. "fs.find [prefix]")
	Usage() string

	// Matches reports whether the command accepts the input held by scanner.
	// It must not consume any input.
	Matches(scanner *Scanner) bool

	// Execute runs the command against api, reading its arguments from scanner.
	Execute(ctx context.Context, api API, scanner *Scanner) (*Result, error)
}
