package pager

import (
	"github.com/mwantia/litedb/data"
)

// CacheView is a namespace inside a Cache. Records stored through one view
// are never visible through another, so databases can share a cache safely.
type CacheView struct {
	cache *Cache
	owner uint32
}

// View returns a new namespace on the cache.
func (c *Cache) View() *CacheView {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextOwner++
	return &CacheView{cache: c, owner: c.nextOwner}
}

// Cache returns the cache the view belongs to.
func (v *CacheView) Cache() *Cache {
	return v.cache
}

func (v *CacheView) Store(collection string, id data.ID, raw []byte) {
	v.cache.store(recordKey{owner: v.owner, collection: collection, id: id}, raw)
}

func (v *CacheView) Load(collection string, id data.ID) ([]byte, bool) {
	return v.cache.load(recordKey{owner: v.owner, collection: collection, id: id})
}

func (v *CacheView) Invalidate(collection string, id data.ID) {
	v.cache.invalidate(recordKey{owner: v.owner, collection: collection, id: id})
}

// InvalidateCollection drops every record of collection stored through the view.
func (v *CacheView) InvalidateCollection(collection string) {
	v.cache.mu.Lock()
	defer v.cache.mu.Unlock()

	v.cache.dropUnsafe(v.owner, collection)
}

// Release drops every record stored through the view.
func (v *CacheView) Release() {
	v.cache.mu.Lock()
	defer v.cache.mu.Unlock()

	v.cache.dropUnsafe(v.owner, "")
}

// EvictExtensionPages evicts the extension pages of the whole cache.
func (v *CacheView) EvictExtensionPages() int {
	return v.cache.EvictExtensionPages()
}
