package litedb

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/mwantia/litedb/data"
)

// Resolver looks up a document by collection and id.
type Resolver interface {
	Lookup(ctx context.Context, collection string, id data.ID) (data.Document, bool, error)
}

// Finder is a collection handle a DbRef can be bound to.
type Finder interface {
	Name() string
	FindByID(ctx context.Context, id data.ID) (data.Document, bool, error)
}

// DbRef references a document of another collection and caches it once fetched.
// A DbRef is a value: fetching returns a new, resolved DbRef and leaves the receiver untouched.
type DbRef[T any] struct {
	collection string
	id         data.ID
	handle     Finder

	item     *T
	resolved bool
}

type dbRefJSON struct {
	Collection string  `json:"$ref"`
	ID         data.ID `json:"$id"`
}

// NewDbRef creates an unresolved reference to id in collection.
func NewDbRef[T any](collection string, id data.ID) (DbRef[T], error) {
	if err := validateReference(collection, id); err != nil {
		return DbRef[T]{}, err
	}
	return DbRef[T]{collection: collection, id: id}, nil
}

// NewBoundDbRef creates an unresolved reference that remembers the handle it was created from.
func NewBoundDbRef[T any](handle Finder, id data.ID) (DbRef[T], error) {
	if handle == nil {
		return DbRef[T]{}, fmt.Errorf("%w: handle cannot be nil", data.ErrInvalidReference)
	}

	ref, err := NewDbRef[T](handle.Name(), id)
	if err != nil {
		return DbRef[T]{}, err
	}
	ref.handle = handle
	return ref, nil
}

func validateReference(collection string, id data.ID) error {
	if collection == "" {
		return fmt.Errorf("%w: collection name cannot be empty", data.ErrInvalidReference)
	}
	if !id.Valid() {
		return fmt.Errorf("%w: id '%s' cannot be referenced", data.ErrInvalidReference, id)
	}
	return nil
}

func (r DbRef[T]) Collection() string {
	return r.collection
}

func (r DbRef[T]) ID() data.ID {
	return r.id
}

// Resolved reports whether a lookup has already been performed.
func (r DbRef[T]) Resolved() bool {
	return r.resolved
}

// Item returns the referenced value, or false if the reference is unresolved
// or the document did not exist when it was fetched.
func (r DbRef[T]) Item() (T, bool) {
	var zero T
	if r.item == nil {
		return zero, false
	}
	return *r.item, true
}

// Fetch resolves the reference through resolver.
// An already resolved reference is returned as is without any lookup.
func (r DbRef[T]) Fetch(ctx context.Context, resolver Resolver) (DbRef[T], error) {
	if r.resolved {
		return r, nil
	}
	if resolver == nil {
		return r, fmt.Errorf("%w: resolver cannot be nil", data.ErrInvalidReference)
	}

	doc, found, err := resolver.Lookup(ctx, r.collection, r.id)
	if err != nil {
		return r, err
	}
	return r.resolve(doc, found)
}

// FetchBound resolves the reference through the handle it was created from.
// Without a handle the receiver is returned unchanged.
func (r DbRef[T]) FetchBound(ctx context.Context) (DbRef[T], error) {
	if r.resolved || r.handle == nil {
		return r, nil
	}

	doc, found, err := r.handle.FindByID(ctx, r.id)
	if err != nil {
		return r, err
	}
	return r.resolve(doc, found)
}

func (r DbRef[T]) resolve(doc data.Document, found bool) (DbRef[T], error) {
	resolved := DbRef[T]{
		collection: r.collection,
		id:         r.id,
		handle:     r.handle,
		resolved:   true,
	}
	if !found {
		return resolved, nil
	}

	item := new(T)
	if target, ok := any(item).(*data.Document); ok {
		*target = doc
	} else if err := doc.Decode(item); err != nil {
		return r, fmt.Errorf("%s/%s: %w", r.collection, r.id, err)
	}

	resolved.item = item
	return resolved, nil
}

func (r DbRef[T]) String() string {
	return fmt.Sprintf("%s/%s", r.collection, r.id)
}

func (r DbRef[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(dbRefJSON{Collection: r.collection, ID: r.id})
}

func (r *DbRef[T]) UnmarshalJSON(raw []byte) error {
	var ref dbRefJSON
	if err := json.Unmarshal(raw, &ref); err != nil {
		return fmt.Errorf("%w: %v", data.ErrDeserialization, err)
	}
	if err := validateReference(ref.Collection, ref.ID); err != nil {
		return err
	}

	*r = DbRef[T]{collection: ref.Collection, id: ref.ID}
	return nil
}
