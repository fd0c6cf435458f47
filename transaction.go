package litedb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mwantia/litedb/data"
)

// journalEntry is the state of a document before a write inside a transaction.
type journalEntry struct {
	collection string
	id         data.ID
	previous   []byte
	existed    bool
}

type transaction struct {
	started time.Time
	journal []journalEntry
}

// BeginTrans starts a transaction. It returns false if one is already open.
func (db *Database) BeginTrans(ctx context.Context) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.closed {
		return false, data.ErrClosed
	}
	if db.tx != nil {
		return false, nil
	}

	db.tx = &transaction{started: time.Now()}
	db.log.Debug("Transaction started")
	return true, nil
}

// Commit keeps every write made since BeginTrans.
func (db *Database) Commit(ctx context.Context) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.tx == nil {
		return data.ErrNoTransaction
	}

	db.log.Debug("Transaction committed with %d writes after %s", len(db.tx.journal), time.Since(db.tx.started))
	db.tx = nil
	return nil
}

// Rollback undoes every write made since BeginTrans.
func (db *Database) Rollback(ctx context.Context) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.tx == nil {
		return data.ErrNoTransaction
	}

	return db.rollbackUnsafe(ctx)
}

// InTransaction reports whether a transaction is open.
func (db *Database) InTransaction() bool {
	db.mu.Lock()
	defer db.mu.Unlock()

	return db.tx != nil
}

// savepoint marks a position in the journal that writes can be undone to.
type savepoint struct {
	implicit bool
	mark     int
}

// rollbackUnsafe MUST be called while holding the lock with a transaction open.
func (db *Database) rollbackUnsafe(ctx context.Context) error {
	journal := db.tx.journal
	db.tx = nil

	if err := db.undoUnsafe(ctx, journal); err != nil {
		return err
	}

	db.log.Debug("Transaction rolled back %d writes", len(journal))
	return nil
}

// savepointUnsafe MUST be called while holding the lock.
// Without an open transaction it starts one that only lives until release or rollbackTo.
func (db *Database) savepointUnsafe() savepoint {
	if db.tx == nil {
		db.tx = &transaction{started: time.Now()}
		return savepoint{implicit: true}
	}
	return savepoint{mark: len(db.tx.journal)}
}

// releaseUnsafe MUST be called while holding the lock. It keeps the writes made since sp.
func (db *Database) releaseUnsafe(sp savepoint) {
	if sp.implicit {
		db.tx = nil
	}
}

// rollbackToUnsafe MUST be called while holding the lock. It undoes the writes made since sp.
func (db *Database) rollbackToUnsafe(ctx context.Context, sp savepoint) error {
	journal := db.tx.journal[sp.mark:]
	db.tx.journal = db.tx.journal[:sp.mark]
	if sp.implicit {
		db.tx = nil
	}

	// The undo has to run even when ctx is done.
	return db.undoUnsafe(context.WithoutCancel(ctx), journal)
}

// undoUnsafe MUST be called while holding the lock. It replays journal in reverse.
func (db *Database) undoUnsafe(ctx context.Context, journal []journalEntry) error {
	errs := &data.Errors{}
	for i := len(journal) - 1; i >= 0; i-- {
		entry := journal[i]
		db.pages.Invalidate(entry.collection, entry.id)

		if entry.existed {
			errs.Add(db.storage.WriteDocument(ctx, entry.collection, entry.id, entry.previous))
			continue
		}

		if err := db.storage.DeleteDocument(ctx, entry.collection, entry.id); err != nil && !errors.Is(err, data.ErrNotExist) {
			errs.Add(err)
		}
	}

	if err := errs.Errors(); err != nil {
		return fmt.Errorf("litedb: rollback incomplete: %w", err)
	}
	return nil
}

// journalUnsafe MUST be called while holding the lock, before the write it records.
func (db *Database) journalUnsafe(ctx context.Context, collection string, id data.ID) error {
	if db.tx == nil {
		return nil
	}

	previous, err := db.storage.ReadDocument(ctx, collection, id)
	switch {
	case errors.Is(err, data.ErrNotExist):
		db.tx.journal = append(db.tx.journal, journalEntry{collection: collection, id: id})
	case err != nil:
		return err
	default:
		db.tx.journal = append(db.tx.journal, journalEntry{collection: collection, id: id, previous: previous, existed: true})
	}

	return nil
}
