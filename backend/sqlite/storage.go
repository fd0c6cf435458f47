package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/mwantia/litedb/backend"
	"github.com/mwantia/litedb/data"
)

func (sb *SQLiteBackend) ReadDocument(ctx context.Context, collection string, id data.ID) ([]byte, error) {
	sb.mu.RLock()
	defer sb.mu.RUnlock()

	// Check B-tree first
	if _, exists := sb.keys.Get(backend.NamespacedKey(collection, string(id))); !exists {
		return nil, data.ErrNotExist
	}

	var body []byte
	var compressed bool
	err := sb.db.QueryRowContext(ctx, `
		SELECT body, compressed FROM litedb_documents WHERE collection = ? AND id = ?
	`, collection, string(id)).Scan(&body, &compressed)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, data.ErrNotExist
	}
	if err != nil {
		return nil, err
	}

	return sb.decodeBodyUnsafe(body, compressed)
}

func (sb *SQLiteBackend) WriteDocument(ctx context.Context, collection string, id data.ID, raw []byte) error {
	if !id.Valid() {
		return data.ErrInvalid
	}

	sb.mu.Lock()
	defer sb.mu.Unlock()

	body := raw
	if sb.compress {
		body = sb.encoder.EncodeAll(raw, nil)
	}

	_, err := sb.db.ExecContext(ctx, `
		INSERT INTO litedb_documents (collection, id, body, compressed)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (collection, id) DO UPDATE SET body = excluded.body, compressed = excluded.compressed
	`, collection, string(id), body, sb.compress)
	if err != nil {
		return err
	}

	// Update B-tree
	sb.keys.Set(backend.NamespacedKey(collection, string(id)), struct{}{})
	return nil
}

func (sb *SQLiteBackend) DeleteDocument(ctx context.Context, collection string, id data.ID) error {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	nsKey := backend.NamespacedKey(collection, string(id))
	if _, exists := sb.keys.Get(nsKey); !exists {
		return data.ErrNotExist
	}

	result, err := sb.db.ExecContext(ctx, `
		DELETE FROM litedb_documents WHERE collection = ? AND id = ?
	`, collection, string(id))
	if err != nil {
		return err
	}

	sb.keys.Delete(nsKey)
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return data.ErrNotExist
	}
	return nil
}

func (sb *SQLiteBackend) ScanDocuments(ctx context.Context, collection string, from, to data.ID, fn backend.ScanFunc) error {
	sb.mu.RLock()
	defer sb.mu.RUnlock()

	rows, err := sb.db.QueryContext(ctx, `
		SELECT id, body, compressed FROM litedb_documents
		WHERE collection = ? AND id >= ? AND id <= ?
		ORDER BY id
	`, collection, string(from), string(to))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var body []byte
		var compressed bool
		if err := rows.Scan(&id, &body, &compressed); err != nil {
			return err
		}

		raw, err := sb.decodeBodyUnsafe(body, compressed)
		if err != nil {
			return err
		}
		if !fn(data.ID(id), raw) {
			break
		}
	}

	return rows.Err()
}

func (sb *SQLiteBackend) CountDocuments(ctx context.Context, collection string) (int, error) {
	sb.mu.RLock()
	defer sb.mu.RUnlock()

	var count int
	err := sb.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM litedb_documents WHERE collection = ?
	`, collection).Scan(&count)

	return count, err
}

func (sb *SQLiteBackend) ListCollections(ctx context.Context) ([]string, error) {
	sb.mu.RLock()
	defer sb.mu.RUnlock()

	rows, err := sb.db.QueryContext(ctx, `
		SELECT DISTINCT collection FROM litedb_documents ORDER BY collection
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}

	return names, rows.Err()
}

func (sb *SQLiteBackend) DropCollection(ctx context.Context, collection string) error {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	result, err := sb.db.ExecContext(ctx, `
		DELETE FROM litedb_documents WHERE collection = ?
	`, collection)
	if err != nil {
		return err
	}

	prefix := backend.NamespacedKey(collection, "")
	var stale []string
	sb.keys.Ascend(prefix, func(key string, _ struct{}) bool {
		if !strings.HasPrefix(key, prefix) {
			return false
		}
		stale = append(stale, key)
		return true
	})
	for _, key := range stale {
		sb.keys.Delete(key)
	}

	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return data.ErrNotExist
	}
	return nil
}

// decodeBodyUnsafe MUST be called while holding at least a read lock.
func (sb *SQLiteBackend) decodeBodyUnsafe(body []byte, compressed bool) ([]byte, error) {
	if !compressed {
		return body, nil
	}
	return sb.decoder.DecodeAll(body, nil)
}
