package sqlite

import (
	"context"
	"database/sql"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/mwantia/litedb/backend"
	"github.com/tidwall/btree"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (CGO_ENABLED=0 compatible)
)

// SQLiteBackend stores all collections inside a single SQLite file:
//
// Layer 1: In-memory B-tree for fast existence checks (keys map)
// Layer 2: SQLite document table (litedb_documents), one row per document
//
// Chunk readers probe for the chunk after the last one on every end of stream;
// the key index answers those probes without touching SQLite.
type SQLiteBackend struct {
	mu   sync.RWMutex
	db   *sql.DB
	path string

	compress bool
	encoder  *zstd.Encoder
	decoder  *zstd.Decoder

	// In-memory B-tree for fast key lookups
	keys *btree.Map[string, struct{}]
}

// SQLiteOption configures a SQLiteBackend.
type SQLiteOption func(*SQLiteBackend) error

// WithCompression stores new document bodies zstd-compressed.
// Rows written without compression remain readable.
func WithCompression() SQLiteOption {
	return func(sb *SQLiteBackend) error {
		sb.compress = true
		return nil
	}
}

// NewSQLiteBackend creates a new SQLite-backed document store.
// The dbPath can be ":memory:" for an in-memory database or a file path.
func NewSQLiteBackend(dbPath string, opts ...SQLiteOption) (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	// A single connection keeps ":memory:" databases alive and serialises writers
	db.SetMaxOpenConns(1)

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, err
	}

	sb := &SQLiteBackend{
		db:   db,
		path: dbPath,
		keys: btree.NewMap[string, struct{}](0),
	}

	for _, opt := range opts {
		if err := opt(sb); err != nil {
			db.Close()
			return nil, err
		}
	}

	if sb.encoder, err = zstd.NewWriter(nil); err != nil {
		db.Close()
		return nil, err
	}
	if sb.decoder, err = zstd.NewReader(nil); err != nil {
		sb.encoder.Close()
		db.Close()
		return nil, err
	}

	if err := sb.initSchema(); err != nil {
		sb.release()
		return nil, err
	}

	return sb, nil
}

// initSchema creates the database schema.
func (sb *SQLiteBackend) initSchema() error {
	schema := `
	-- Document storage
	CREATE TABLE IF NOT EXISTS litedb_documents (
		collection TEXT NOT NULL,
		id TEXT NOT NULL,
		body BLOB NOT NULL,
		compressed INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (collection, id)
	) WITHOUT ROWID;
	`

	_, err := sb.db.Exec(schema)
	return err
}

// Name returns the identifier name defined for this backend
func (*SQLiteBackend) Name() string {
	return "sqlite"
}

// Path returns the file the backend was created on.
func (sb *SQLiteBackend) Path() string {
	return sb.path
}

// Open is part of the lifecycle behaviour and gets called when opening the database.
func (sb *SQLiteBackend) Open(ctx context.Context) error {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	// Verify database connection
	if err := sb.db.PingContext(ctx); err != nil {
		return err
	}

	// Load all keys into memory B-tree
	rows, err := sb.db.QueryContext(ctx, "SELECT collection, id FROM litedb_documents")
	if err != nil {
		return err
	}
	defer rows.Close()

	sb.keys.Clear()
	for rows.Next() {
		var collection, id string
		if err := rows.Scan(&collection, &id); err != nil {
			return err
		}
		sb.keys.Set(backend.NamespacedKey(collection, id), struct{}{})
	}

	return rows.Err()
}

// Close is part of the lifecycle behaviour and gets called when closing the database.
func (sb *SQLiteBackend) Close(ctx context.Context) error {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	sb.keys.Clear()
	return sb.release()
}

func (sb *SQLiteBackend) release() error {
	sb.decoder.Close()
	sb.encoder.Close()
	return sb.db.Close()
}

// GetCapabilities returns a list of capabilities supported by this backend.
func (sb *SQLiteBackend) GetCapabilities() *backend.BackendCapabilities {
	capabilities := []backend.BackendCapability{
		backend.CapabilityDocuments,
		backend.CapabilityOrdered,
		backend.CapabilityPersistent,
	}
	if sb.compress {
		capabilities = append(capabilities, backend.CapabilityCompress)
	}

	return &backend.BackendCapabilities{
		Capabilities: capabilities,
	}
}
