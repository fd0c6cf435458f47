package pager

import (
	"bytes"
	"testing"

	"github.com/mwantia/litedb/data"
)

func TestCache_StoreLoad(t *testing.T) {
	cache := NewCache(0)

	small := []byte(`{"_id":"a"}`)
	large := bytes.Repeat([]byte("0123456789"), PageDataSize/4) // spans 3 pages

	cache.Store("docs", "a", small)
	cache.Store("docs", "b", large)

	got, ok := cache.Load("docs", "a")
	if !ok || !bytes.Equal(got, small) {
		t.Errorf("Expected %q, got %q (ok=%v)", small, got, ok)
	}

	got, ok = cache.Load("docs", "b")
	if !ok || !bytes.Equal(got, large) {
		t.Errorf("Expected large record to survive paging (ok=%v, len=%d)", ok, len(got))
	}

	stats := cache.Stats()
	if stats.Records != 2 {
		t.Errorf("Expected 2 records, got %d", stats.Records)
	}
	if stats.DataPages != 2 || stats.ExtensionPages != 2 {
		t.Errorf("Expected 2 data and 2 extension pages, got %+v", stats)
	}
	if stats.Hits != 2 {
		t.Errorf("Expected 2 hits, got %d", stats.Hits)
	}

	if _, ok := cache.Load("docs", "missing"); ok {
		t.Error("Expected miss for unknown record")
	}
	if _, ok := cache.Load("other", "a"); ok {
		t.Error("Expected records to be scoped by collection")
	}
}

func TestCache_LoadReturnsCopy(t *testing.T) {
	cache := NewCache(0)
	cache.Store("docs", "a", []byte("hello"))

	got, _ := cache.Load("docs", "a")
	got[0] = 'j'

	again, _ := cache.Load("docs", "a")
	if string(again) != "hello" {
		t.Errorf("Expected cached record to stay 'hello', got %q", again)
	}
}

func TestCache_EvictExtensionPagesKeepsDataPages(t *testing.T) {
	cache := NewCache(0)

	small := []byte("fits in one page")
	large := bytes.Repeat([]byte{'x'}, PageDataSize*2+1)

	cache.Store("chunks", "small", small)
	cache.Store("chunks", "large", large)

	if evicted := cache.EvictExtensionPages(); evicted != 2 {
		t.Errorf("Expected 2 extension pages evicted, got %d", evicted)
	}

	stats := cache.Stats()
	if stats.ExtensionPages != 0 || stats.DataPages != 2 {
		t.Errorf("Expected only data pages left, got %+v", stats)
	}

	if got, ok := cache.Load("chunks", "small"); !ok || !bytes.Equal(got, small) {
		t.Errorf("Expected single-page record to survive eviction")
	}

	// A record that lost its extension pages is a miss and gets released
	if _, ok := cache.Load("chunks", "large"); ok {
		t.Error("Expected miss for record with evicted extension pages")
	}
	if stats := cache.Stats(); stats.Records != 1 || stats.DataPages != 1 {
		t.Errorf("Expected broken record to be released, got %+v", stats)
	}
}

func TestCache_InvalidateAndReplace(t *testing.T) {
	cache := NewCache(0)

	cache.Store("docs", "a", bytes.Repeat([]byte{'a'}, PageDataSize+10))
	cache.Store("docs", "a", []byte("short"))

	if stats := cache.Stats(); stats.Pages != 1 {
		t.Errorf("Expected replaced record to free its old pages, got %+v", stats)
	}

	cache.Invalidate("docs", "a")
	if _, ok := cache.Load("docs", "a"); ok {
		t.Error("Expected miss after invalidate")
	}
	if stats := cache.Stats(); stats.Pages != 0 {
		t.Errorf("Expected no pages left, got %d", stats.Pages)
	}
}

func TestCache_Limit(t *testing.T) {
	cache := NewCache(4)

	// Three pages: one data page, two extension pages
	cache.Store("docs", "a", bytes.Repeat([]byte{'a'}, PageDataSize*3))
	cache.Store("docs", "b", []byte("b"))
	if stats := cache.Stats(); stats.Pages != 4 {
		t.Fatalf("Expected 4 pages, got %d", stats.Pages)
	}

	// Going over the limit drops extension pages first
	cache.Store("docs", "c", []byte("c"))
	stats := cache.Stats()
	if stats.Pages > 4 || stats.ExtensionPages != 0 {
		t.Errorf("Expected cache to stay within its limit, got %+v", stats)
	}
	if _, ok := cache.Load("docs", "c"); !ok {
		t.Error("Expected the record just stored to be cached")
	}
}

func TestCache_Reset(t *testing.T) {
	cache := NewCache(0)
	cache.Store("docs", "a", []byte("a"))
	cache.Reset()

	if _, ok := cache.Load("docs", "a"); ok {
		t.Error("Expected miss after reset")
	}
	if stats := cache.Stats(); stats.Pages != 0 || stats.Evictions != 1 {
		t.Errorf("Expected empty cache with 1 eviction, got %+v", stats)
	}
}

func TestPage_Header(t *testing.T) {
	page := newPage(7, PageTypeExtension)
	if page.ID() != 7 || page.Type() != PageTypeExtension {
		t.Errorf("Unexpected header: id=%d type=%s", page.ID(), page.Type())
	}
	if !page.Next().IsEmpty() {
		t.Errorf("Expected new page to have no next page, got %v", page.Next())
	}
	if len(page.Bytes()) != PageSize {
		t.Errorf("Expected %d bytes, got %d", PageSize, len(page.Bytes()))
	}

	page.setNext(data.NewPageAddress(8, 0))
	if page.Next() != data.NewPageAddress(8, 0) {
		t.Errorf("Expected next 8:0, got %v", page.Next())
	}

	n := page.write(bytes.Repeat([]byte{1}, PageSize))
	if n != PageDataSize || len(page.Payload()) != PageDataSize {
		t.Errorf("Expected page to take %d bytes, took %d", PageDataSize, n)
	}
}

func TestCacheView_Isolation(t *testing.T) {
	cache := NewCache(0)
	first := cache.View()
	second := cache.View()

	first.Store("users", "u1", []byte("alice"))
	if _, ok := second.Load("users", "u1"); ok {
		t.Fatal("Expected records of one view to be invisible to another")
	}
	if _, ok := cache.Load("users", "u1"); ok {
		t.Error("Expected view records to be invisible to the cache namespace")
	}

	second.Store("users", "u1", []byte("bob"))
	if got, ok := first.Load("users", "u1"); !ok || string(got) != "alice" {
		t.Errorf("Expected 'alice', got %q (ok=%v)", got, ok)
	}
	if got, ok := second.Load("users", "u1"); !ok || string(got) != "bob" {
		t.Errorf("Expected 'bob', got %q (ok=%v)", got, ok)
	}

	second.Invalidate("users", "u1")
	if _, ok := first.Load("users", "u1"); !ok {
		t.Error("Expected invalidate to stay within its view")
	}

	first.Store("orders", "o1", []byte("order"))
	first.InvalidateCollection("users")
	if _, ok := first.Load("users", "u1"); ok {
		t.Error("Expected collection to be dropped")
	}
	if _, ok := first.Load("orders", "o1"); !ok {
		t.Error("Expected other collections to stay cached")
	}

	second.Store("users", "u2", []byte("carol"))
	first.Release()
	if stats := cache.Stats(); stats.Records != 1 {
		t.Errorf("Expected only the second view's record left, got %+v", stats)
	}
	if first.Cache() != cache {
		t.Error("Expected view to report its cache")
	}
}
