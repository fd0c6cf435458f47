package pager

import (
	"math"
	"sync"

	"github.com/mwantia/litedb/data"
)

// recordKey identifies a cached record. Owner 0 is the cache's own namespace;
// every CacheView gets a distinct owner.
type recordKey struct {
	owner      uint32
	collection string
	id         data.ID
}

// CacheStats is a snapshot of the cache counters.
type CacheStats struct {
	Pages          int    `json:"pages"`
	DataPages      int    `json:"dataPages"`
	ExtensionPages int    `json:"extensionPages"`
	Records        int    `json:"records"`
	Hits           uint64 `json:"hits"`
	Misses         uint64 `json:"misses"`
	Evictions      uint64 `json:"evictions"`
}

// Cache holds records split into pages. It is safe for concurrent use
// and meant to be shared by every reader of a database.
type Cache struct {
	mu sync.Mutex

	// limit is the page count above which extension pages are evicted; 0 disables it.
	limit      int
	nextPageID uint32
	nextOwner  uint32

	records    map[recordKey]data.PageAddress
	pages      map[data.PageAddress]*Page
	extensions int

	hits      uint64
	misses    uint64
	evictions uint64
}

// NewCache creates an empty cache. A limit of 0 keeps pages until evicted explicitly.
func NewCache(limit int) *Cache {
	return &Cache{
		limit:   limit,
		records: make(map[recordKey]data.PageAddress),
		pages:   make(map[data.PageAddress]*Page),
	}
}

// Store pages in raw as the current content of the record id in collection.
func (c *Cache) Store(collection string, id data.ID, raw []byte) {
	c.store(recordKey{collection: collection, id: id}, raw)
}

func (c *Cache) store(key recordKey, raw []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.removeRecordUnsafe(key)

	if uint64(c.nextPageID)+uint64(pagesFor(len(raw))) >= math.MaxUint32 {
		// The sentinel page id is never handed out; start over instead.
		c.resetUnsafe()
	}

	first := c.allocPageUnsafe(PageTypeData)
	n := first.write(raw)
	raw = raw[n:]

	prev := first
	for len(raw) > 0 {
		page := c.allocPageUnsafe(PageTypeExtension)
		n = page.write(raw)
		raw = raw[n:]

		prev.setNext(page.Address())
		prev = page
	}

	c.records[key] = first.Address()

	if c.limit > 0 && len(c.pages) > c.limit {
		c.evictExtensionPagesUnsafe()
		if len(c.pages) > c.limit {
			c.resetUnsafe()
		}
	}
}

// Load returns a copy of the cached record, or false if it is not cached
// or any of its extension pages was evicted.
func (c *Cache) Load(collection string, id data.ID) ([]byte, bool) {
	return c.load(recordKey{collection: collection, id: id})
}

func (c *Cache) load(key recordKey) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	addr, ok := c.records[key]
	if !ok {
		c.misses++
		return nil, false
	}

	var raw []byte
	for !addr.IsEmpty() {
		page, ok := c.pages[addr]
		if !ok {
			c.removeRecordUnsafe(key)
			c.misses++
			return nil, false
		}

		raw = append(raw, page.Payload()...)
		addr = page.Next()
	}

	c.hits++
	if raw == nil {
		raw = []byte{}
	}
	return raw, true
}

// Invalidate drops every page of the record id in collection.
func (c *Cache) Invalidate(collection string, id data.ID) {
	c.invalidate(recordKey{collection: collection, id: id})
}

func (c *Cache) invalidate(key recordKey) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.removeRecordUnsafe(key)
}

// EvictExtensionPages drops all extension pages and returns how many were dropped.
// Data pages are kept; records that lose an extension page are released on their next Load.
func (c *Cache) EvictExtensionPages() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.evictExtensionPagesUnsafe()
}

// Reset drops every page.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.resetUnsafe()
}

// Stats returns the current counters.
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return CacheStats{
		Pages:          len(c.pages),
		DataPages:      len(c.pages) - c.extensions,
		ExtensionPages: c.extensions,
		Records:        len(c.records),
		Hits:           c.hits,
		Misses:         c.misses,
		Evictions:      c.evictions,
	}
}

// allocPageUnsafe MUST be called while holding the lock.
func (c *Cache) allocPageUnsafe(pageType PageType) *Page {
	page := newPage(c.nextPageID, pageType)
	c.nextPageID++

	c.pages[page.Address()] = page
	if pageType == PageTypeExtension {
		c.extensions++
	}
	return page
}

// pagesFor returns the number of pages needed for a record of size bytes.
func pagesFor(size int) int {
	if size <= PageDataSize {
		return 1
	}
	return (size + PageDataSize - 1) / PageDataSize
}

// removeRecordUnsafe MUST be called while holding the lock.
func (c *Cache) removeRecordUnsafe(key recordKey) {
	addr, ok := c.records[key]
	if !ok {
		return
	}
	delete(c.records, key)

	for !addr.IsEmpty() {
		page, ok := c.pages[addr]
		if !ok {
			return
		}

		delete(c.pages, addr)
		if page.Type() == PageTypeExtension {
			c.extensions--
		}
		addr = page.Next()
	}
}

// evictExtensionPagesUnsafe MUST be called while holding the lock.
func (c *Cache) evictExtensionPagesUnsafe() int {
	evicted := 0
	for addr, page := range c.pages {
		if page.Type() == PageTypeExtension {
			delete(c.pages, addr)
			evicted++
		}
	}

	c.extensions = 0
	c.evictions += uint64(evicted)
	return evicted
}

// dropUnsafe MUST be called while holding the lock.
func (c *Cache) dropUnsafe(owner uint32, collection string) {
	for key := range c.records {
		if key.owner == owner && (collection == "" || key.collection == collection) {
			c.removeRecordUnsafe(key)
		}
	}
}

// resetUnsafe MUST be called while holding the lock.
func (c *Cache) resetUnsafe() {
	c.evictions += uint64(len(c.pages))
	c.records = make(map[recordKey]data.PageAddress)
	c.pages = make(map[data.PageAddress]*Page)
	c.extensions = 0
	c.nextPageID = 0
}
