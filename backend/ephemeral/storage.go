package ephemeral

import (
	"context"
	"slices"

	"github.com/mwantia/litedb/backend"
	"github.com/mwantia/litedb/data"
	"github.com/tidwall/btree"
)

func (eb *EphemeralBackend) ReadDocument(ctx context.Context, collection string, id data.ID) ([]byte, error) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	tree, exists := eb.collections[collection]
	if !exists {
		return nil, data.ErrNotExist
	}

	raw, exists := tree.Get(id)
	if !exists {
		return nil, data.ErrNotExist
	}

	return slices.Clone(raw), nil
}

func (eb *EphemeralBackend) WriteDocument(ctx context.Context, collection string, id data.ID, raw []byte) error {
	if !id.Valid() {
		return data.ErrInvalid
	}

	eb.mu.Lock()
	defer eb.mu.Unlock()

	tree, exists := eb.collections[collection]
	if !exists {
		tree = btree.NewMap[data.ID, []byte](0)
		eb.collections[collection] = tree
	}

	tree.Set(id, slices.Clone(raw))
	return nil
}

func (eb *EphemeralBackend) DeleteDocument(ctx context.Context, collection string, id data.ID) error {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	tree, exists := eb.collections[collection]
	if !exists {
		return data.ErrNotExist
	}

	if _, deleted := tree.Delete(id); !deleted {
		return data.ErrNotExist
	}

	if tree.Len() == 0 {
		delete(eb.collections, collection)
	}
	return nil
}

func (eb *EphemeralBackend) ScanDocuments(ctx context.Context, collection string, from, to data.ID, fn backend.ScanFunc) error {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	tree, exists := eb.collections[collection]
	if !exists {
		return nil
	}

	var err error
	tree.Ascend(from, func(id data.ID, raw []byte) bool {
		if id > to {
			return false
		}
		if err = ctx.Err(); err != nil {
			return false
		}
		return fn(id, slices.Clone(raw))
	})

	return err
}

func (eb *EphemeralBackend) CountDocuments(ctx context.Context, collection string) (int, error) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	tree, exists := eb.collections[collection]
	if !exists {
		return 0, nil
	}

	return tree.Len(), nil
}

func (eb *EphemeralBackend) ListCollections(ctx context.Context) ([]string, error) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	names := make([]string, 0, len(eb.collections))
	for name := range eb.collections {
		names = append(names, name)
	}
	slices.Sort(names)

	return names, nil
}

func (eb *EphemeralBackend) DropCollection(ctx context.Context, collection string) error {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if _, exists := eb.collections[collection]; !exists {
		return data.ErrNotExist
	}

	delete(eb.collections, collection)
	return nil
}
