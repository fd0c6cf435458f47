package litedb

import (
	"context"
	"fmt"

	"github.com/mwantia/litedb/data"
)

// Collection is a handle on a named set of documents.
type Collection struct {
	db   *Database
	name string
	err  error
}

func (c *Collection) Name() string {
	return c.name
}

// FindByID returns the document id, or false if it does not exist.
func (c *Collection) FindByID(ctx context.Context, id data.ID) (data.Document, bool, error) {
	if c.err != nil {
		return nil, false, c.err
	}
	if !id.Valid() {
		return nil, false, nil
	}

	raw, found, err := c.db.readDocument(ctx, c.name, id)
	if err != nil || !found {
		return nil, false, err
	}

	doc, err := data.DecodeDocument(raw)
	if err != nil {
		return nil, false, fmt.Errorf("%s/%s: %w", c.name, id, err)
	}
	return doc, true, nil
}

// FindRange returns every document with from <= id <= to in id order.
func (c *Collection) FindRange(ctx context.Context, from, to data.ID) ([]data.Document, error) {
	if c.err != nil {
		return nil, c.err
	}

	var docs []data.Document
	var decodeErr error
	err := c.db.storage.ScanDocuments(ctx, c.name, from, to, func(id data.ID, raw []byte) bool {
		doc, err := data.DecodeDocument(raw)
		if err != nil {
			decodeErr = fmt.Errorf("%s/%s: %w", c.name, id, err)
			return false
		}
		docs = append(docs, doc)
		return true
	})
	if err != nil {
		return nil, err
	}

	return docs, decodeErr
}

// FindAll returns every document of the collection in id order.
func (c *Collection) FindAll(ctx context.Context) ([]data.Document, error) {
	return c.FindRange(ctx, data.MinID, data.MaxID)
}

// Exists reports whether the document id exists.
func (c *Collection) Exists(ctx context.Context, id data.ID) (bool, error) {
	if c.err != nil {
		return false, c.err
	}
	if !id.Valid() {
		return false, nil
	}

	_, found, err := c.db.readDocument(ctx, c.name, id)
	return found, err
}

// Count returns the number of documents in the collection.
func (c *Collection) Count(ctx context.Context) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	return c.db.storage.CountDocuments(ctx, c.name)
}

// Insert stores a new document and returns its id.
// A document without id is assigned a new one; an existing id fails with data.ErrExist.
func (c *Collection) Insert(ctx context.Context, doc data.Document) (data.ID, error) {
	if c.err != nil {
		return "", c.err
	}
	if doc == nil {
		return "", fmt.Errorf("%w: document cannot be nil", data.ErrInvalid)
	}

	id := doc.ID()
	if id.IsNull() {
		id = data.NewID()
		doc.SetID(id)
	}
	if !id.Valid() {
		return "", fmt.Errorf("%w: document id '%s'", data.ErrInvalid, id)
	}

	raw, err := data.EncodeDocument(doc)
	if err != nil {
		return "", err
	}

	c.db.mu.Lock()
	defer c.db.mu.Unlock()

	_, err = c.db.storage.ReadDocument(ctx, c.name, id)
	if err == nil {
		return "", fmt.Errorf("%w: %s/%s", data.ErrExist, c.name, id)
	}
	if err := ignoreNotExist(err); err != nil {
		return "", err
	}

	if err := c.db.writeDocumentUnsafe(ctx, c.name, id, raw); err != nil {
		return "", err
	}
	return id, nil
}

// Update replaces an existing document. It returns false if the document does not exist.
func (c *Collection) Update(ctx context.Context, doc data.Document) (bool, error) {
	if c.err != nil {
		return false, c.err
	}

	id := doc.ID()
	if !id.Valid() {
		return false, fmt.Errorf("%w: document id '%s'", data.ErrInvalid, id)
	}

	raw, err := data.EncodeDocument(doc)
	if err != nil {
		return false, err
	}

	c.db.mu.Lock()
	defer c.db.mu.Unlock()

	if _, err := c.db.storage.ReadDocument(ctx, c.name, id); err != nil {
		return false, ignoreNotExist(err)
	}

	if err := c.db.writeDocumentUnsafe(ctx, c.name, id, raw); err != nil {
		return false, err
	}
	return true, nil
}

// Upsert inserts or replaces a document. It returns true if the document was inserted.
func (c *Collection) Upsert(ctx context.Context, doc data.Document) (bool, error) {
	if c.err != nil {
		return false, c.err
	}

	id := doc.ID()
	if id.IsNull() {
		_, err := c.Insert(ctx, doc)
		return err == nil, err
	}
	if !id.Valid() {
		return false, fmt.Errorf("%w: document id '%s'", data.ErrInvalid, id)
	}

	raw, err := data.EncodeDocument(doc)
	if err != nil {
		return false, err
	}

	c.db.mu.Lock()
	defer c.db.mu.Unlock()

	_, err = c.db.storage.ReadDocument(ctx, c.name, id)
	inserted := err != nil
	if err := ignoreNotExist(err); err != nil {
		return false, err
	}

	if err := c.db.writeDocumentUnsafe(ctx, c.name, id, raw); err != nil {
		return false, err
	}
	return inserted, nil
}

// Delete removes the document id. It returns false if the document does not exist.
func (c *Collection) Delete(ctx context.Context, id data.ID) (bool, error) {
	if c.err != nil {
		return false, c.err
	}
	if !id.Valid() {
		return false, nil
	}

	c.db.mu.Lock()
	defer c.db.mu.Unlock()

	return c.db.deleteDocumentUnsafe(ctx, c.name, id)
}
