package litedb

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"

	"github.com/mwantia/litedb/backend"
	"github.com/mwantia/litedb/data"
	"github.com/mwantia/litedb/log"
	"github.com/mwantia/litedb/pager"
)

var collectionNamePattern = regexp.MustCompile(`^[\w$-]+$`)

// Database is an open handle on a document store.
// Callers serialise access to a single handle; the shell dispatcher does so per command.
type Database struct {
	// mu protects tx, closed and every write to the backend
	mu     sync.Mutex
	tx     *transaction
	closed bool

	storage backend.DocumentStorageBackend
	cache   *pager.Cache
	pages   *pager.CacheView
	log     *log.Logger
	options *DatabaseOptions

	files *FileStorage
}

// Open opens storage and returns a database handle on it.
func Open(ctx context.Context, storage backend.DocumentStorageBackend, opts ...DatabaseOption) (*Database, error) {
	if storage == nil {
		return nil, fmt.Errorf("%w: storage backend cannot be nil", data.ErrInvalid)
	}

	options := newDefaultDatabaseOptions()
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}

	logger := options.Logger
	if logger == nil {
		logger = log.NewLogger("litedb", options.LogLevel, options.LogFile, options.NoTerminalLog)
	}

	cache := options.Cache
	if cache == nil {
		cache = pager.NewCache(options.CacheLimit)
	}

	if err := storage.Open(ctx); err != nil {
		return nil, fmt.Errorf("litedb: failed to open backend '%s': %w", storage.Name(), err)
	}

	db := &Database{
		storage: storage,
		cache:   cache,
		pages:   cache.View(),
		log:     logger,
		options: options,
	}
	db.files = newFileStorage(db)

	db.log.Debug("Opened database on backend '%s'", storage.Name())
	return db, nil
}

// Close rolls back any open transaction and closes the backend.
func (db *Database) Close(ctx context.Context) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.closed {
		return data.ErrClosed
	}
	db.closed = true

	errs := &data.Errors{}
	if db.tx != nil {
		db.log.Warn("Rolling back open transaction on close")
		errs.Add(db.rollbackUnsafe(ctx))
	}

	db.pages.Release()
	errs.Add(db.storage.Close(ctx))
	db.log.Debug("Closed database on backend '%s'", db.storage.Name())

	if db.options.Logger == nil {
		errs.Add(db.log.Close())
	}
	return errs.Errors()
}

// Backend returns the storage backend of the database.
func (db *Database) Backend() backend.DocumentStorageBackend {
	return db.storage
}

// Cache returns the page cache used by the database. It may be shared with other databases.
func (db *Database) Cache() *pager.Cache {
	return db.cache
}

func (db *Database) Logger() *log.Logger {
	return db.log
}

// GetCollection returns a handle on the named collection.
// Collections exist as soon as they hold a document.
func (db *Database) GetCollection(name string) *Collection {
	c := &Collection{db: db, name: name}
	if !collectionNamePattern.MatchString(name) {
		c.err = fmt.Errorf("%w: collection name '%s'", data.ErrInvalid, name)
	}
	return c
}

// ListCollections returns the names of all collections holding documents.
func (db *Database) ListCollections(ctx context.Context) ([]string, error) {
	return db.storage.ListCollections(ctx)
}

// DropCollection removes a collection and all its documents.
// Dropping is not journaled and cannot be rolled back.
func (db *Database) DropCollection(ctx context.Context, name string) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.closed {
		return false, data.ErrClosed
	}

	if err := db.storage.DropCollection(ctx, name); err != nil {
		if errors.Is(err, data.ErrNotExist) {
			return false, nil
		}
		return false, err
	}

	db.pages.InvalidateCollection(name)
	return true, nil
}

// FileStorage returns the file storage of the database.
func (db *Database) FileStorage() *FileStorage {
	return db.files
}

// Lookup resolves the document id of collection by name.
func (db *Database) Lookup(ctx context.Context, collection string, id data.ID) (data.Document, bool, error) {
	return db.GetCollection(collection).FindByID(ctx, id)
}

// readDocument returns the stored form of a document, going through the page cache.
func (db *Database) readDocument(ctx context.Context, collection string, id data.ID) ([]byte, bool, error) {
	if raw, ok := db.pages.Load(collection, id); ok {
		return raw, true, nil
	}

	raw, err := db.storage.ReadDocument(ctx, collection, id)
	if errors.Is(err, data.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	db.pages.Store(collection, id, raw)
	return raw, true, nil
}

// writeDocumentUnsafe MUST be called while holding the lock.
func (db *Database) writeDocumentUnsafe(ctx context.Context, collection string, id data.ID, raw []byte) error {
	if db.closed {
		return data.ErrClosed
	}

	if err := db.journalUnsafe(ctx, collection, id); err != nil {
		return err
	}

	db.pages.Invalidate(collection, id)
	return db.storage.WriteDocument(ctx, collection, id, raw)
}

// deleteDocumentUnsafe MUST be called while holding the lock.
func (db *Database) deleteDocumentUnsafe(ctx context.Context, collection string, id data.ID) (bool, error) {
	if db.closed {
		return false, data.ErrClosed
	}

	if err := db.journalUnsafe(ctx, collection, id); err != nil {
		return false, err
	}

	db.pages.Invalidate(collection, id)
	if err := db.storage.DeleteDocument(ctx, collection, id); err != nil {
		if errors.Is(err, data.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
