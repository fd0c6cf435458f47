package backend

import (
	"context"

	"github.com/mwantia/litedb/data"
)

// ScanFunc receives documents in ascending id order. Returning false stops the scan.
type ScanFunc func(id data.ID, raw []byte) bool

// DocumentStorageBackend stores encoded documents keyed by collection and id.
// Missing documents are reported with data.ErrNotExist.
type DocumentStorageBackend interface {
	Backend

	// ReadDocument returns the encoded document id of collection.
	ReadDocument(ctx context.Context, collection string, id data.ID) ([]byte, error)

	// WriteDocument inserts or replaces the encoded document id of collection.
	WriteDocument(ctx context.Context, collection string, id data.ID, raw []byte) error

	// DeleteDocument removes the document id of collection.
	DeleteDocument(ctx context.Context, collection string, id data.ID) error

	// ScanDocuments walks every document of collection with from <= id <= to.
	ScanDocuments(ctx context.Context, collection string, from, to data.ID, fn ScanFunc) error

	// CountDocuments returns the number of documents in collection.
	CountDocuments(ctx context.Context, collection string) (int, error)

	// ListCollections returns the names of all non-empty collections in ascending order.
	ListCollections(ctx context.Context) ([]string, error)

	// DropCollection removes collection with all its documents.
	DropCollection(ctx context.Context, collection string) error
}
